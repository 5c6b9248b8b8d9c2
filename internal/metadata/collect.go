package metadata

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
)

// yamlPattern matches property files at any depth.
const yamlPattern = "**/*.{yml,yaml}"

// Collect returns the YAML files found recursively under each directory.
// Directories are visited in the given order and files are sorted within a
// directory. Missing directories contribute no files.
func Collect(dirs []string) ([]string, error) {
	var files []string
	for _, dir := range dirs {
		info, err := os.Stat(dir)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", dir, err)
		}
		if !info.IsDir() {
			continue
		}

		matches, err := doublestar.Glob(os.DirFS(dir), yamlPattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("collect yaml files in %s: %w", dir, err)
		}

		found := make([]string, 0, len(matches))
		for _, m := range matches {
			found = append(found, filepath.Join(dir, filepath.FromSlash(m)))
		}
		sort.Strings(found)
		files = append(files, found...)
	}
	return files, nil
}

// IsYAML reports whether path has a YAML extension.
func IsYAML(path string) bool {
	switch filepath.Ext(path) {
	case ".yml", ".yaml":
		return true
	}
	return false
}
