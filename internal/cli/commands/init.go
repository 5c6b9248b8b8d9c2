package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/nesso/internal/cli/config"
	"github.com/leapstack-labs/nesso/internal/project"
)

// initConfig is the content written to a new nesso.yaml.
type initConfig struct {
	EmailDomain   string   `yaml:"email_domain"`
	SchemaVersion int      `yaml:"schema_version"`
	Strict        bool     `yaml:"strict"`
	DisabledRules []string `yaml:"disabled_rules"`
}

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Create a nesso.yaml configuration",
		Long: `Create a nesso.yaml configuration file for a dbt repository.

The email domain and schema version are taken from --email-domain and
--schema-version (or their NESSO_* environment variables).`,
		Example: `  # Configure the current directory
  nesso init --email-domain acme.com

  # Configure another directory
  nesso init path/to/repo --email-domain acme.com

  # Overwrite an existing configuration
  nesso init --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			return runInit(NewCommandContext(cmd), dir, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing configuration")

	return cmd
}

func runInit(cc *CommandContext, dir string, force bool) error {
	r := cc.Renderer

	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	configPath := filepath.Join(dir, config.ConfigFileNames[0])
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("%s already exists. Use --force to overwrite", config.ConfigFileNames[0])
	} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	content, err := yaml.Marshal(initConfig{
		EmailDomain:   cc.Cfg.EmailDomain,
		SchemaVersion: cc.Cfg.SchemaVersion,
		Strict:        cc.Cfg.Strict,
		DisabledRules: []string{},
	})
	if err != nil {
		return err
	}
	if err := os.WriteFile(configPath, content, 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", configPath, err)
	}

	r.StatusLine(configPath, "success", "")
	if cc.Cfg.EmailDomain == "" {
		r.Warning("email_domain is empty: every owner email will be accepted")
	}
	if !project.IsProject(dir) {
		r.Muted("No " + project.ManifestFile + " here; nested dbt/<name> projects will be searched.")
	}
	r.Println("")
	r.Success("nesso configured!")
	r.Println("")
	r.Println("Next steps:")
	r.Println("  nesso project info    Show the located dbt project")
	r.Println("  nesso validate        Validate sources, models and seeds metadata")

	return nil
}
