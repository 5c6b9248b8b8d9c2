package project

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Default directories dbt uses when dbt_project.yml omits them.
const (
	DefaultModelPath = "models"
	DefaultSeedPath  = "seeds"
)

// Manifest holds the parts of dbt_project.yml this tool relies on.
type Manifest struct {
	Name       string   `yaml:"name"`
	Profile    string   `yaml:"profile"`
	Version    string   `yaml:"version"`
	ModelPaths []string `yaml:"model-paths"`
	SeedPaths  []string `yaml:"seed-paths"`
}

// ProfileName returns the profile used to look up targets, falling back to
// the project name.
func (m *Manifest) ProfileName() string {
	if m.Profile != "" {
		return m.Profile
	}
	return m.Name
}

// LoadManifest reads dbt_project.yml from dir.
func LoadManifest(dir Directory) (*Manifest, error) {
	data, err := os.ReadFile(dir.ManifestPath())
	if err != nil {
		return nil, fmt.Errorf("read project manifest: %w", err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse %s: %w", dir.ManifestPath(), err)
	}

	if len(m.ModelPaths) == 0 {
		m.ModelPaths = []string{DefaultModelPath}
	}
	if len(m.SeedPaths) == 0 {
		m.SeedPaths = []string{DefaultSeedPath}
	}
	return &m, nil
}

// MetadataDirs returns the absolute model directories followed by the seed
// directories, in manifest order.
func (d Directory) MetadataDirs(m *Manifest) []string {
	dirs := make([]string, 0, len(m.ModelPaths)+len(m.SeedPaths))
	for _, p := range append(append([]string{}, m.ModelPaths...), m.SeedPaths...) {
		if filepath.IsAbs(p) {
			dirs = append(dirs, filepath.Clean(p))
			continue
		}
		dirs = append(dirs, d.Join(p))
	}
	return dirs
}
