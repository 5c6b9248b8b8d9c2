package commands

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/nesso/internal/cli/config"
	"github.com/leapstack-labs/nesso/internal/cli/output"
	"github.com/leapstack-labs/nesso/internal/project"
	"github.com/leapstack-labs/nesso/internal/validate"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext creates a CommandContext with config, logger and renderer.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())
	mode := output.Mode(cfg.OutputFormat)
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: r,
	}
}

// Helper functions shared across commands

// getConfig returns the current configuration.
// It uses config.GetCurrentConfig() if available, otherwise falls back to environment variables.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}

	// Fallback: read from environment with defaults
	schemaVersion := config.DefaultSchemaVersion
	if v, err := strconv.Atoi(os.Getenv("NESSO_SCHEMA_VERSION")); err == nil && v > 0 {
		schemaVersion = v
	}

	var disabled []string
	if v := os.Getenv("NESSO_DISABLED_RULES"); v != "" {
		disabled = strings.Split(v, ",")
	}

	return &config.Config{
		EmailDomain:   os.Getenv("NESSO_EMAIL_DOMAIN"),
		SchemaVersion: schemaVersion,
		ProfilesDir:   os.Getenv("NESSO_PROFILES_DIR"),
		CeilingDir:    os.Getenv("NESSO_CEILING_DIR"),
		Strict:        os.Getenv("NESSO_STRICT") == "true",
		DisabledRules: disabled,
		Verbose:       os.Getenv("NESSO_VERBOSE") == "true",
		OutputFormat:  getEnvOrDefault("NESSO_OUTPUT", config.DefaultOutput),
	}
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// newValidator builds a validator from the configuration.
func (cc *CommandContext) newValidator() *validate.Validator {
	return validate.New(validate.Options{
		EmailDomain:   cc.Cfg.EmailDomain,
		SchemaVersion: cc.Cfg.SchemaVersion,
		Strict:        cc.Cfg.Strict,
		DisabledRules: cc.Cfg.DisabledRuleSet(),
		Logger:        cc.Logger,
	})
}

// chooser returns the chooser used to pick among nested projects. Piped
// answers are honoured and closed input takes the first candidate.
func (cc *CommandContext) chooser(cmd *cobra.Command) project.Chooser {
	return project.NewPromptChooser(cmd.InOrStdin(), cmd.ErrOrStderr())
}

// resolveProject returns the dbt project for a command: the explicit
// directory when given, otherwise the project located from the working
// directory. ok is false when no project exists; the notice has already been
// printed in that case.
func (cc *CommandContext) resolveProject(cmd *cobra.Command, explicit string) (dir project.Directory, ok bool, err error) {
	if explicit != "" {
		abs, err := filepath.Abs(explicit)
		if err != nil {
			return "", false, err
		}
		if !project.IsProject(abs) {
			return "", false, fmt.Errorf("not a dbt project (no %s): %s", project.ManifestFile, abs)
		}
		return project.Directory(abs), true, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", false, err
	}
	locator := project.NewLocator(
		project.WithChooser(cc.chooser(cmd)),
		project.WithLogger(cc.Logger),
		project.WithCeiling(cc.Cfg.CeilingDir),
	)
	dir, err = locator.Find(cwd)
	if errors.Is(err, project.ErrNotFound) {
		cc.Renderer.Warning("No dbt projects available.")
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	cc.Logger.Debug("located dbt project", "project", dir)
	return dir, true, nil
}
