package validate

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/nesso/internal/metadata"
	"github.com/leapstack-labs/nesso/internal/project"
)

// Error is a rule violation reported by fail-fast validation.
type Error struct {
	RuleID  string
	Rule    string
	File    string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Options configures a Validator.
type Options struct {
	// EmailDomain is the domain owner emails must belong to. Empty accepts any owner.
	EmailDomain string

	// SchemaVersion is the required top-level version of property files.
	SchemaVersion int

	// Strict rejects property files with more than one of the sources, models
	// and seeds keys.
	Strict bool

	// DisabledRules contains rule IDs to skip.
	DisabledRules map[string]bool

	// Registry supplies the rules. Nil means the global registry.
	Registry *Registry

	Logger *slog.Logger
}

// Validator checks dbt property files against the registered rules.
type Validator struct {
	opts   Options
	logger *slog.Logger
}

// New creates a Validator. opts.SchemaVersion is used as given; the CLI
// configuration supplies the default.
func New(opts Options) *Validator {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if opts.Registry == nil {
		opts.Registry = globalRegistry
	}
	return &Validator{
		opts:   opts,
		logger: logger,
	}
}

// rules returns the enabled rules in application order.
func (v *Validator) rules() []RuleDef {
	all := v.opts.Registry.All()
	enabled := make([]RuleDef, 0, len(all))
	for _, r := range all {
		if v.opts.DisabledRules[r.ID] {
			continue
		}
		enabled = append(enabled, r)
	}
	return enabled
}

func (v *Validator) load(path string) (*Context, error) {
	doc, err := metadata.Load(path, metadata.ParseOptions{Strict: v.opts.Strict})
	if err != nil {
		return nil, err
	}
	return &Context{
		Document:      doc,
		EmailDomain:   v.opts.EmailDomain,
		SchemaVersion: v.opts.SchemaVersion,
	}, nil
}

// ValidateFile applies the rules to one property file and stops at the first
// violation, returned as *Error. Unreadable or malformed files return a plain error.
func (v *Validator) ValidateFile(path string) error {
	ctx, err := v.load(path)
	if err != nil {
		return err
	}

	for _, rule := range v.rules() {
		diags := rule.Check(ctx)
		if len(diags) == 0 {
			continue
		}
		d := diags[0]
		v.logger.Debug("rule failed", "rule", rule.ID, "file", path)
		return &Error{
			RuleID:  rule.ID,
			Rule:    rule.Name,
			File:    path,
			Message: d.Message,
		}
	}

	v.logger.Debug("file valid", "file", path, "kind", ctx.Document.Kind, "entries", len(ctx.Document.Entries))
	return nil
}

// CheckFile applies every rule to one property file and returns all findings.
func (v *Validator) CheckFile(path string) ([]Diagnostic, error) {
	ctx, err := v.load(path)
	if err != nil {
		return nil, err
	}

	var diags []Diagnostic
	for _, rule := range v.rules() {
		for _, d := range rule.Check(ctx) {
			if d.RuleID == "" {
				d.RuleID = rule.ID
			}
			if d.Rule == "" {
				d.Rule = rule.Name
			}
			if d.File == "" {
				d.File = path
			}
			diags = append(diags, d)
		}
	}
	return diags, nil
}

// Files returns the property files under the project's model and seed paths.
func (v *Validator) Files(dir project.Directory) ([]string, error) {
	manifest, err := project.LoadManifest(dir)
	if err != nil {
		return nil, err
	}
	files, err := metadata.Collect(dir.MetadataDirs(manifest))
	if err != nil {
		return nil, err
	}
	v.logger.Debug("collected property files", "project", dir, "count", len(files))
	return files, nil
}

// Run validates every property file of the project, stopping at the first
// failure. A nil error means the whole project is valid.
func (v *Validator) Run(ctx context.Context, dir project.Directory) error {
	files, err := v.Files(dir)
	if err != nil {
		return err
	}

	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := v.ValidateFile(path); err != nil {
			return err
		}
	}

	v.logger.Info("metadata validation passed", "project", dir, "files", len(files))
	return nil
}

// FileResult holds the findings for one property file.
type FileResult struct {
	Path        string       `json:"path"`
	Diagnostics []Diagnostic `json:"diagnostics,omitempty"`
	Err         error        `json:"-"`
}

// Report is the outcome of an aggregated validation run.
type Report struct {
	// ID identifies the run in logs, e.g. across watch mode re-runs.
	ID      string       `json:"id"`
	Project string       `json:"project"`
	Files   []FileResult `json:"files"`
}

// OK reports whether every file passed.
func (r *Report) OK() bool {
	for _, f := range r.Files {
		if f.Err != nil || len(f.Diagnostics) > 0 {
			return false
		}
	}
	return true
}

// Failed returns the results of files that did not pass.
func (r *Report) Failed() []FileResult {
	var failed []FileResult
	for _, f := range r.Files {
		if f.Err != nil || len(f.Diagnostics) > 0 {
			failed = append(failed, f)
		}
	}
	return failed
}

// IssueCount returns the number of diagnostics plus unreadable files.
func (r *Report) IssueCount() int {
	n := 0
	for _, f := range r.Files {
		n += len(f.Diagnostics)
		if f.Err != nil {
			n++
		}
	}
	return n
}

// RunAll validates every property file of the project and aggregates all
// findings instead of stopping at the first one. Files are checked
// concurrently; results keep the collection order.
func (v *Validator) RunAll(ctx context.Context, dir project.Directory) (*Report, error) {
	files, err := v.Files(dir)
	if err != nil {
		return nil, err
	}

	results := make([]FileResult, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			diags, err := v.CheckFile(path)
			results[i] = FileResult{
				Path:        path,
				Diagnostics: diags,
				Err:         err,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := &Report{
		ID:      uuid.New().String(),
		Project: dir.String(),
		Files:   results,
	}
	v.logger.Info("metadata validation finished", "run", report.ID, "project", dir, "files", len(files), "issues", report.IssueCount())
	return report, nil
}

// String summarises the report.
func (r *Report) String() string {
	return fmt.Sprintf("%d issues in %d of %d files", r.IssueCount(), len(r.Failed()), len(r.Files))
}
