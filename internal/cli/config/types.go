// Package config provides configuration management for the nesso CLI.
//
// Values are layered with koanf, lowest to highest precedence: built-in
// defaults, nesso.yaml (or nesso.yml), NESSO_* environment variables and
// explicitly set command-line flags.
package config

// Config holds all CLI configuration options.
type Config struct {
	// EmailDomain is the domain owner emails must belong to, e.g. "acme.com".
	EmailDomain   string `koanf:"email_domain"`
	SchemaVersion int    `koanf:"schema_version"`
	ProfilesDir   string `koanf:"profiles_dir"`
	// CeilingDir stops the project search from walking above it.
	CeilingDir    string   `koanf:"ceiling_dir"`
	Strict        bool     `koanf:"strict"`
	DisabledRules []string `koanf:"disabled_rules"`
	Verbose       bool     `koanf:"verbose"`
	OutputFormat  string   `koanf:"output"`

	// ConfigDir is the directory of the config file used, or the working
	// directory when there is none. Not read from configuration.
	ConfigDir string `koanf:"-"`
}

// Default configuration values.
const (
	DefaultSchemaVersion = 2
	DefaultOutput        = "auto" // Auto-detect: TTY=text, non-TTY=markdown
	EnvPrefix            = "NESSO_"
)

// ConfigFileNames are the config file names looked up, in order.
var ConfigFileNames = []string{"nesso.yaml", "nesso.yml"}

// DisabledRuleSet returns the disabled rule IDs as a set.
func (c *Config) DisabledRuleSet() map[string]bool {
	set := make(map[string]bool, len(c.DisabledRules))
	for _, id := range c.DisabledRules {
		set[id] = true
	}
	return set
}
