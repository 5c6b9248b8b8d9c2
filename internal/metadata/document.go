// Package metadata parses dbt YAML property files (sources, models, seeds)
// into a uniform list of documented entries.
package metadata

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Kind identifies which dbt resource a property file documents.
type Kind string

// Document kinds, listed in detection priority order.
const (
	KindSources Kind = "sources"
	KindModels  Kind = "models"
	KindSeeds   Kind = "seeds"
)

// kindPriority is the order in which top-level keys are checked.
var kindPriority = []Kind{KindSources, KindModels, KindSeeds}

var (
	// ErrUnknownKind is returned when a document has none of the sources, models or seeds keys.
	ErrUnknownKind = errors.New("document has no sources, models or seeds key")
	// ErrAmbiguousKind is returned in strict mode when a document has more than one of those keys.
	ErrAmbiguousKind = errors.New("document has more than one of sources, models or seeds keys")
)

// Column is a documented column of an entry.
type Column struct {
	Name        string `yaml:"name"`
	Description Text   `yaml:"description"`
}

// Meta holds the ownership fields of an entry.
type Meta struct {
	TechnicalOwner Text `yaml:"technical_owner"`
	BusinessOwner  Text `yaml:"business_owner"`
}

// Entry is one documented source table, model or seed.
type Entry struct {
	Name        string   `yaml:"name"`
	Description Text     `yaml:"description"`
	Columns     []Column `yaml:"columns"`
	Meta        Meta     `yaml:"meta"`
}

// Source is a source definition in a sources document.
type Source struct {
	Name   string  `yaml:"name"`
	Schema string  `yaml:"schema"`
	Tables []Entry `yaml:"tables"`
}

// Document is a parsed property file.
type Document struct {
	Path string
	Kind Kind

	// Version is nil when the version field is missing or not an integer.
	Version *int

	// Sources is only populated for sources documents.
	Sources []Source

	// Entries are the tables of the first source, or the models or seeds.
	Entries []Entry
}

// ParseOptions controls document parsing.
type ParseOptions struct {
	// Strict rejects documents carrying more than one kind key instead of
	// picking the first one in priority order.
	Strict bool
}

// Load reads and parses the property file at path.
func Load(path string, opts ParseOptions) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return Parse(path, data, opts)
}

// Parse parses a property file. path is only used for reporting.
func Parse(path string, data []byte, opts ParseOptions) (*Document, error) {
	var fields map[string]yaml.Node
	if err := yaml.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	kind, err := detectKind(fields, opts.Strict)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	doc := &Document{
		Path:    path,
		Kind:    kind,
		Version: intField(fields, "version"),
	}

	node := fields[string(kind)]
	switch kind {
	case KindSources:
		if err := node.Decode(&doc.Sources); err != nil {
			return nil, fmt.Errorf("decode %s in %s: %w", kind, path, err)
		}
		if len(doc.Sources) > 0 {
			doc.Entries = doc.Sources[0].Tables
		}
	default:
		if err := node.Decode(&doc.Entries); err != nil {
			return nil, fmt.Errorf("decode %s in %s: %w", kind, path, err)
		}
	}

	return doc, nil
}

func detectKind(fields map[string]yaml.Node, strict bool) (Kind, error) {
	var found []Kind
	for _, k := range kindPriority {
		if _, ok := fields[string(k)]; ok {
			found = append(found, k)
		}
	}

	switch {
	case len(found) == 0:
		return "", ErrUnknownKind
	case len(found) > 1 && strict:
		return "", fmt.Errorf("%w: %v", ErrAmbiguousKind, found)
	default:
		return found[0], nil
	}
}

// intField returns the integer value of a top-level field, or nil when the
// field is absent or not an integer scalar.
func intField(fields map[string]yaml.Node, key string) *int {
	node, ok := fields[key]
	if !ok || node.Kind != yaml.ScalarNode || node.ShortTag() != "!!int" {
		return nil
	}
	var v int
	if err := node.Decode(&v); err != nil {
		return nil
	}
	return &v
}

// HasEntry reports whether the document documents an entry named name.
// Seed names are compared case-insensitively, like dbt resolves seed files.
func (d *Document) HasEntry(name string) bool {
	for _, e := range d.Entries {
		if d.Kind == KindSeeds {
			if strings.EqualFold(e.Name, name) {
				return true
			}
			continue
		}
		if e.Name == name {
			return true
		}
	}
	return false
}

// Source returns the source definition with the given name.
func (d *Document) Source(name string) (*Source, bool) {
	for i := range d.Sources {
		if d.Sources[i].Name == name {
			return &d.Sources[i], true
		}
	}
	return nil, false
}
