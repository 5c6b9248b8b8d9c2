package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/nesso/internal/cli/output"
	"github.com/leapstack-labs/nesso/internal/project"
	"github.com/leapstack-labs/nesso/internal/validate"
	_ "github.com/leapstack-labs/nesso/internal/validate/rules" // register metadata rules
)

// ErrValidationFailed is returned when at least one property file violates a
// metadata rule. The violations have already been printed.
var ErrValidationFailed = errors.New("metadata validation failed")

// ValidateOptions holds options for the validate command.
type ValidateOptions struct {
	All      bool
	Watch    bool
	Debounce time.Duration
}

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	opts := &ValidateOptions{}

	cmd := &cobra.Command{
		Use:   "validate [project-dir]",
		Short: "Validate metadata of sources, models and seeds",
		Long: `Validate the YAML property files under the project's model and seed paths.

Every documented source table, model and seed must have:
  - a description, and a description for each of its columns
  - meta.technical_owner and meta.business_owner set to a group ("@team")
    or an email in the configured domain
  - the expected top-level schema version

Without a directory argument the dbt project is located from the current
directory. Validation stops at the first failing file unless --all is given.`,
		Example: `  # Validate the enclosing dbt project
  nesso validate --email-domain acme.com

  # Report every violation instead of stopping at the first
  nesso validate --all

  # Re-validate whenever a property file changes
  nesso validate --watch

  # Machine-readable output
  nesso validate --all -o json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			explicit := ""
			if len(args) > 0 {
				explicit = args[0]
			}
			return runValidate(cmd, explicit, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.All, "all", false, "Check every file and report all violations")
	cmd.Flags().BoolVarP(&opts.Watch, "watch", "w", false, "Re-run validation when property files change")
	cmd.Flags().DurationVar(&opts.Debounce, "debounce", validate.DefaultDebounce, "Quiet period before re-running in watch mode")

	return cmd
}

func runValidate(cmd *cobra.Command, explicit string, opts *ValidateOptions) error {
	cc := NewCommandContext(cmd)

	dir, ok, err := cc.resolveProject(cmd, explicit)
	if err != nil || !ok {
		return err
	}

	v := cc.newValidator()
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if !opts.Watch {
		return validateOnce(ctx, cc.Renderer, v, dir, opts.All)
	}

	manifest, err := project.LoadManifest(dir)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	_ = validateOnce(ctx, cc.Renderer, v, dir, opts.All)
	cc.Renderer.Muted(fmt.Sprintf("Watching %s for changes (Ctrl+C to stop)", dir))

	return validate.Watch(ctx, dir.MetadataDirs(manifest), opts.Debounce, cc.Logger, func(path string) {
		cc.Renderer.Println("")
		cc.Renderer.Muted("Changed: " + relPath(dir, path))
		_ = validateOnce(ctx, cc.Renderer, v, dir, opts.All)
	})
}

// validateOnce runs one validation pass and renders the outcome.
func validateOnce(ctx context.Context, r *output.Renderer, v *validate.Validator, dir project.Directory, all bool) error {
	if all {
		report, err := v.RunAll(ctx, dir)
		if err != nil {
			return err
		}
		return renderValidateReport(r, dir, report)
	}

	err := v.Run(ctx, dir)
	var verr *validate.Error
	switch {
	case err == nil:
		if r.EffectiveMode() == output.ModeJSON {
			return r.JSON(validateJSON{Project: dir.String(), Valid: true})
		}
		r.Success("Metadata is valid")
		return nil
	case errors.As(err, &verr):
		if r.EffectiveMode() == output.ModeJSON {
			_ = r.JSON(validateJSON{
				Project: dir.String(),
				Valid:   false,
				Issues: []validateIssue{{
					File:    verr.File,
					RuleID:  verr.RuleID,
					Rule:    verr.Rule,
					Message: verr.Message,
				}},
			})
			return ErrValidationFailed
		}
		r.Error(verr.Message)
		r.Muted(fmt.Sprintf("%s (%s) failed in %s", verr.RuleID, verr.Rule, relPath(dir, verr.File)))
		return ErrValidationFailed
	default:
		return err
	}
}

type validateJSON struct {
	RunID   string          `json:"run_id,omitempty"`
	Project string          `json:"project"`
	Valid   bool            `json:"valid"`
	Files   int             `json:"files,omitempty"`
	Issues  []validateIssue `json:"issues,omitempty"`
}

type validateIssue struct {
	File    string `json:"file"`
	RuleID  string `json:"rule_id,omitempty"`
	Rule    string `json:"rule,omitempty"`
	Entry   string `json:"entry,omitempty"`
	Message string `json:"message"`
}

func renderValidateReport(r *output.Renderer, dir project.Directory, report *validate.Report) error {
	failed := report.Failed()

	if r.EffectiveMode() == output.ModeJSON {
		out := validateJSON{
			RunID:   report.ID,
			Project: dir.String(),
			Valid:   report.OK(),
			Files:   len(report.Files),
		}
		for _, f := range failed {
			if f.Err != nil {
				out.Issues = append(out.Issues, validateIssue{File: f.Path, Message: f.Err.Error()})
			}
			for _, d := range f.Diagnostics {
				out.Issues = append(out.Issues, validateIssue{
					File:    d.File,
					RuleID:  d.RuleID,
					Rule:    d.Rule,
					Entry:   d.Entry,
					Message: d.Message,
				})
			}
		}
		if err := r.JSON(out); err != nil {
			return err
		}
		if !report.OK() {
			return ErrValidationFailed
		}
		return nil
	}

	if report.OK() {
		r.Success(fmt.Sprintf("Metadata is valid (%d files)", len(report.Files)))
		return nil
	}

	styles := r.Styles()
	for _, f := range failed {
		r.Println(styles.ModelPath.Render(relPath(dir, f.Path)))
		if f.Err != nil {
			r.Printf("  %s  %s\n", styles.Error.Render("error"), f.Err.Error())
		}
		for _, d := range f.Diagnostics {
			entry := d.Entry
			if entry == "" {
				entry = "-"
			}
			r.Printf("  %s  %s  %s\n",
				styles.Bold.Render(d.RuleID),
				styles.Muted.Render(fmt.Sprintf("%-20s", entry)),
				d.Message,
			)
		}
		r.Println("")
	}
	r.Printf("Summary: %s\n", report.String())

	return ErrValidationFailed
}

// relPath returns path relative to the project directory when possible.
func relPath(dir project.Directory, path string) string {
	if rel, err := filepath.Rel(dir.String(), path); err == nil {
		return rel
	}
	return path
}
