package commands

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/nesso/internal/cli/output"
	"github.com/leapstack-labs/nesso/internal/metadata"
	"github.com/leapstack-labs/nesso/internal/project"
	"github.com/leapstack-labs/nesso/internal/validate"
	_ "github.com/leapstack-labs/nesso/internal/validate/rules" // register metadata rules
)

// NewDoctorCommand creates the doctor command.
func NewDoctorCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doctor [project-dir]",
		Short: "Run a metadata health check of the dbt project",
		Long: `Check the dbt project and its metadata in one report:
- Project summary (property files, sources, models, seeds)
- Setup checks (email domain, dbt target, readable property files)
- One check per metadata rule, with the offending entities
- Health score (0-100) and recommendations

Unlike 'nesso validate' the doctor never fails: it always prints the full report.`,
		Example: `  # Run health check
  nesso doctor

  # Output as JSON
  nesso doctor -o json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			explicit := ""
			if len(args) > 0 {
				explicit = args[0]
			}
			return runDoctor(cmd, explicit)
		},
	}

	return cmd
}

// DoctorOutput is the JSON output for the doctor command.
type DoctorOutput struct {
	Project         string         `json:"project"`
	Summary         ProjectSummary `json:"summary"`
	HealthChecks    []HealthCheck  `json:"health_checks"`
	Score           int            `json:"score"`
	Recommendations []string       `json:"recommendations"`
	IssueCount      int            `json:"issue_count"`
}

// ProjectSummary contains project-level statistics.
type ProjectSummary struct {
	Files   int `json:"files"`
	Sources int `json:"sources"`
	Models  int `json:"models"`
	Seeds   int `json:"seeds"`
}

// Entities returns the number of documented entities.
func (s ProjectSummary) Entities() int {
	return s.Sources + s.Models + s.Seeds
}

// HealthCheck represents a single health check result.
type HealthCheck struct {
	RuleID     string   `json:"rule_id"`
	Name       string   `json:"name"`
	Group      string   `json:"group"`
	Status     string   `json:"status"` // "pass", "warn", "error"
	IssueCount int      `json:"issue_count"`
	Details    []string `json:"details,omitempty"`
	Fix        string   `json:"-"`
}

func runDoctor(cmd *cobra.Command, explicit string) error {
	cc := NewCommandContext(cmd)
	r := cc.Renderer

	dir, ok, err := cc.resolveProject(cmd, explicit)
	if err != nil || !ok {
		return err
	}

	report, err := cc.newValidator().RunAll(cmd.Context(), dir)
	if err != nil {
		return err
	}

	out := buildDoctorOutput(cc, dir, report)

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(out)
	case output.ModeMarkdown:
		return renderDoctorMarkdown(r, out)
	default:
		return renderDoctorText(r, out)
	}
}

func buildDoctorOutput(cc *CommandContext, dir project.Directory, report *validate.Report) *DoctorOutput {
	summary := buildProjectSummary(report)

	checks := setupChecks(cc, dir, report)

	// Group diagnostics by rule
	diagsByRule := make(map[string][]validate.Diagnostic)
	issueCount := 0
	for _, f := range report.Files {
		for _, d := range f.Diagnostics {
			diagsByRule[d.RuleID] = append(diagsByRule[d.RuleID], d)
			issueCount++
		}
	}

	disabled := cc.Cfg.DisabledRuleSet()
	for _, rule := range validate.GetAll() {
		ruleDiags := diagsByRule[rule.ID]
		status := "pass"
		if len(ruleDiags) > 0 {
			status = "error"
		}
		if disabled[rule.ID] {
			status = "skipped"
		}

		details := make([]string, 0, len(ruleDiags))
		for _, d := range ruleDiags {
			detail := relPath(dir, d.File)
			if d.Entry != "" {
				detail += " (" + d.Entry + ")"
			}
			details = append(details, detail)
		}

		checks = append(checks, HealthCheck{
			RuleID:     rule.ID,
			Name:       rule.Name,
			Group:      "metadata",
			Status:     status,
			IssueCount: len(ruleDiags),
			Details:    details,
			Fix:        rule.Fix,
		})
	}

	for _, c := range checks {
		if c.Group == "setup" {
			issueCount += c.IssueCount
		}
	}

	return &DoctorOutput{
		Project:         dir.String(),
		Summary:         summary,
		HealthChecks:    checks,
		Score:           calculateHealthScore(checks, summary.Entities()),
		Recommendations: generateRecommendations(checks),
		IssueCount:      issueCount,
	}
}

// setupChecks reports configuration problems that weaken validation.
func setupChecks(cc *CommandContext, dir project.Directory, report *validate.Report) []HealthCheck {
	domain := HealthCheck{RuleID: "S01", Name: "email-domain", Group: "setup", Status: "pass",
		Fix: "Set email_domain in nesso.yaml so owner emails are checked"}
	if cc.Cfg.EmailDomain == "" {
		domain.Status = "warn"
		domain.IssueCount = 1
		domain.Details = []string{"no email domain configured, every owner email is accepted"}
	}

	target := HealthCheck{RuleID: "S02", Name: "dbt-target", Group: "setup", Status: "pass",
		Fix: "Point profiles_dir (or DBT_PROFILES_DIR) at the profiles.yml of this project"}
	if manifest, err := project.LoadManifest(dir); err == nil {
		profilesDir := project.ResolveProfilesDir(cc.Cfg.ProfilesDir, dir)
		if _, err := project.LoadTarget(profilesDir, manifest.ProfileName()); err != nil {
			target.Status = "warn"
			target.IssueCount = 1
			target.Details = []string{err.Error()}
		}
	}

	parse := HealthCheck{RuleID: "S03", Name: "readable-files", Group: "setup", Status: "pass",
		Fix: "Fix the YAML syntax of unreadable property files"}
	for _, f := range report.Files {
		if f.Err != nil {
			parse.Status = "error"
			parse.IssueCount++
			parse.Details = append(parse.Details, f.Err.Error())
		}
	}

	return []HealthCheck{domain, target, parse}
}

func buildProjectSummary(report *validate.Report) ProjectSummary {
	summary := ProjectSummary{Files: len(report.Files)}
	for _, f := range report.Files {
		if f.Err != nil {
			continue
		}
		doc, err := metadata.Load(f.Path, metadata.ParseOptions{})
		if err != nil {
			continue
		}
		switch doc.Kind {
		case metadata.KindSources:
			summary.Sources += len(doc.Entries)
		case metadata.KindModels:
			summary.Models += len(doc.Entries)
		case metadata.KindSeeds:
			summary.Seeds += len(doc.Entries)
		}
	}
	return summary
}

// calculateHealthScore computes a health score from 0-100.
// More entities means each issue has less individual impact.
func calculateHealthScore(checks []HealthCheck, entityCount int) int {
	if len(checks) == 0 {
		return 100
	}

	score := 100.0

	basePenalty := 5.0
	if entityCount > 10 {
		basePenalty = 3.0
	}
	if entityCount > 50 {
		basePenalty = 2.0
	}
	if entityCount > 100 {
		basePenalty = 1.0
	}

	for _, check := range checks {
		switch check.Status {
		case "error":
			score -= float64(check.IssueCount) * basePenalty * 2 // Errors count double
		case "warn":
			score -= float64(check.IssueCount) * basePenalty
		}
	}

	if score < 0 {
		score = 0
	}
	return int(score)
}

// generateRecommendations returns the fix of every failing check, at most five.
func generateRecommendations(checks []HealthCheck) []string {
	var recommendations []string
	seen := make(map[string]bool)

	for _, check := range checks {
		if check.IssueCount == 0 || check.Status == "skipped" || check.Fix == "" {
			continue
		}
		if !seen[check.Fix] {
			recommendations = append(recommendations, check.Fix)
			seen[check.Fix] = true
		}
	}

	if len(recommendations) > 5 {
		recommendations = recommendations[:5]
	}
	return recommendations
}

func renderDoctorText(r *output.Renderer, out *DoctorOutput) error {
	styles := r.Styles()

	r.Println("")
	r.Println(styles.Header1.Render("Metadata Health Report"))
	r.Println(styles.Muted.Render(out.Project))
	r.Println(styles.Muted.Render(strings.Repeat("=", 55)))
	r.Println("")

	r.Println(styles.Header2.Render("Project Summary"))
	r.Printf("   Property files: %d\n", out.Summary.Files)
	r.Printf("   Sources: %d | Models: %d | Seeds: %d\n", out.Summary.Sources, out.Summary.Models, out.Summary.Seeds)
	r.Println("")

	r.Println(styles.Header2.Render("Health Checks"))
	r.Println("")

	currentGroup := ""
	titleCaser := cases.Title(language.English)
	for _, check := range out.HealthChecks {
		if check.Group != currentGroup {
			currentGroup = check.Group
			r.Println(styles.Bold.Render("   " + titleCaser.String(currentGroup)))
			r.Println(styles.Muted.Render("   " + strings.Repeat("-", 40)))
		}

		icon := styles.StatusSuccess.String()
		switch check.Status {
		case "warn":
			icon = styles.Warning.Render("!")
		case "error":
			icon = styles.StatusFailed.String()
		case "skipped":
			icon = styles.StatusSkipped.String()
		}

		status := fmt.Sprintf("%s %s: %s", icon, check.RuleID, check.Name)
		if check.IssueCount > 0 {
			status += fmt.Sprintf(" (%d issues)", check.IssueCount)
		}
		r.Println("   " + status)

		for i, detail := range check.Details {
			if i >= 3 {
				r.Println(styles.Muted.Render(fmt.Sprintf("       ... and %d more", len(check.Details)-3)))
				break
			}
			r.Println(styles.Muted.Render("       - " + detail))
		}
	}
	r.Println("")

	r.Println(styles.Muted.Render(strings.Repeat("=", 55)))
	scoreStyle := styles.Success
	if out.Score < 70 {
		scoreStyle = styles.Warning
	}
	if out.Score < 50 {
		scoreStyle = styles.Error
	}
	r.Printf("   Health Score: %s\n", scoreStyle.Render(fmt.Sprintf("%d/100", out.Score)))
	r.Println("")

	if len(out.Recommendations) > 0 {
		r.Println(styles.Header2.Render("Recommendations"))
		for i, rec := range out.Recommendations {
			r.Printf("   %d. %s\n", i+1, rec)
		}
		r.Println("")
	}

	return nil
}

func renderDoctorMarkdown(r *output.Renderer, out *DoctorOutput) error {
	r.Println("# Metadata Health Report")
	r.Println("")
	r.Printf("`%s`\n", out.Project)
	r.Println("")

	r.Println("## Project Summary")
	r.Println("")
	r.Printf("- **Property files**: %d\n", out.Summary.Files)
	r.Printf("- **Sources**: %d\n", out.Summary.Sources)
	r.Printf("- **Models**: %d\n", out.Summary.Models)
	r.Printf("- **Seeds**: %d\n", out.Summary.Seeds)
	r.Println("")

	r.Println("## Health Checks")
	r.Println("")

	currentGroup := ""
	titleCaser := cases.Title(language.English)
	for _, check := range out.HealthChecks {
		if check.Group != currentGroup {
			currentGroup = check.Group
			r.Println("### " + titleCaser.String(currentGroup))
			r.Println("")
		}

		status := "PASS"
		switch check.Status {
		case "warn":
			status = "WARN"
		case "error":
			status = "ERROR"
		case "skipped":
			status = "SKIP"
		}

		r.Printf("- **[%s]** %s: %s", status, check.RuleID, check.Name)
		if check.IssueCount > 0 {
			r.Printf(" (%d issues)", check.IssueCount)
		}
		r.Println("")

		for _, detail := range check.Details {
			r.Printf("  - %s\n", detail)
		}
	}
	r.Println("")

	r.Println("## Health Score")
	r.Println("")
	r.Printf("**%d/100**\n", out.Score)
	r.Println("")

	if len(out.Recommendations) > 0 {
		r.Println("## Recommendations")
		r.Println("")
		for i, rec := range out.Recommendations {
			r.Printf("%d. %s\n", i+1, rec)
		}
		r.Println("")
	}

	return nil
}
