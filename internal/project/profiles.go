package project

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ProfilesFile is the dbt connection profiles file name.
const ProfilesFile = "profiles.yml"

// ProfilesDirEnv is the environment variable dbt reads the profiles directory from.
const ProfilesDirEnv = "DBT_PROFILES_DIR"

// Target is the active output of a dbt profile.
type Target struct {
	Profile      string
	Name         string
	Schema       string
	ProfilesFile string
}

type profile struct {
	Target  string                  `yaml:"target"`
	Outputs map[string]targetOutput `yaml:"outputs"`
}

type targetOutput struct {
	Type   string `yaml:"type"`
	Schema string `yaml:"schema"`
}

// ResolveProfilesDir picks the directory holding profiles.yml.
// Priority: explicit value, DBT_PROFILES_DIR, the project directory when it
// contains profiles.yml, then ~/.dbt.
func ResolveProfilesDir(explicit string, dir Directory) string {
	if explicit != "" {
		return explicit
	}
	if env := os.Getenv(ProfilesDirEnv); env != "" {
		return env
	}
	if dir != "" {
		if _, err := os.Stat(dir.Join(ProfilesFile)); err == nil {
			return dir.String()
		}
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".dbt")
	}
	return ""
}

// LoadTarget reads profiles.yml from profilesDir and returns the target
// selected for the named profile.
func LoadTarget(profilesDir, profileName string) (*Target, error) {
	path := filepath.Join(profilesDir, ProfilesFile)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dbt profiles: %w", err)
	}

	var profiles map[string]profile
	if err := yaml.Unmarshal(data, &profiles); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	p, ok := profiles[profileName]
	if !ok || p.Target == "" {
		return nil, fmt.Errorf("target not present in dbt profiles file at '%s'", path)
	}

	return &Target{
		Profile:      profileName,
		Name:         p.Target,
		Schema:       p.Outputs[p.Target].Schema,
		ProfilesFile: path,
	}, nil
}
