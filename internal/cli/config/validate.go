package config

import (
	"fmt"
	"slices"
)

var outputFormats = []string{"auto", "text", "markdown", "json"}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.SchemaVersion < 1 {
		return fmt.Errorf("schema_version must be a positive integer, got %d", c.SchemaVersion)
	}
	if c.OutputFormat != "" && !slices.Contains(outputFormats, c.OutputFormat) {
		return fmt.Errorf("unknown output format %q (expected one of %v)", c.OutputFormat, outputFormats)
	}
	return nil
}
