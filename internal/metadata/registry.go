package metadata

import (
	"errors"
	"io/fs"
	"os"

	"github.com/leapstack-labs/nesso/internal/project"
)

// SourceFile returns the conventional property file of a source schema:
// models/sources/<source>/<source>.yml.
func SourceFile(dir project.Directory, source string) string {
	return dir.Join("models", "sources", source, source+".yml")
}

// DefaultSeedFile returns the conventional seed property file:
// seeds/master_data/schema.yml.
func DefaultSeedFile(dir project.Directory) string {
	return dir.Join("seeds", "master_data", "schema.yml")
}

// SourceExists reports whether the property file of a source schema exists.
func SourceExists(dir project.Directory, source string) bool {
	info, err := os.Stat(SourceFile(dir, source))
	return err == nil && !info.IsDir()
}

// SourceTableExists reports whether table is documented under source in the
// source's property file. A missing file means the table is not registered.
func SourceTableExists(dir project.Directory, source, table string) (bool, error) {
	if !SourceExists(dir, source) {
		return false, nil
	}

	doc, err := Load(SourceFile(dir, source), ParseOptions{})
	if err != nil {
		return false, err
	}
	if doc.Kind != KindSources {
		return false, nil
	}

	src, ok := doc.Source(source)
	if !ok {
		return false, nil
	}
	for _, t := range src.Tables {
		if t.Name == table {
			return true, nil
		}
	}
	return false, nil
}

// SeedRegistered reports whether seed is documented in the seeds property
// file at path. Names are compared case-insensitively.
func SeedRegistered(path, seed string) (bool, error) {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if info.IsDir() {
		return false, nil
	}

	doc, err := Load(path, ParseOptions{})
	if err != nil {
		return false, err
	}
	if doc.Kind != KindSeeds {
		return false, nil
	}
	return doc.HasEntry(seed), nil
}
