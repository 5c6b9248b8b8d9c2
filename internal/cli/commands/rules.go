package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/nesso/internal/cli/output"
	"github.com/leapstack-labs/nesso/internal/validate"
	_ "github.com/leapstack-labs/nesso/internal/validate/rules" // register metadata rules
)

// NewRulesCommand creates the rules command.
func NewRulesCommand() *cobra.Command {
	var details bool

	cmd := &cobra.Command{
		Use:   "rules [rule-id]",
		Short: "List metadata validation rules",
		Long: `List the metadata rules applied by 'nesso validate', in the order they run.

Rules listed under disabled_rules in nesso.yaml (or --disable) are marked.
Use --details to see rationale and fix guidance.`,
		Example: `  # List all rules
  nesso rules

  # Show details for a specific rule
  nesso rules MV02

  # Output as JSON
  nesso rules -o json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc := NewCommandContext(cmd)
			if len(args) > 0 {
				rule, ok := validate.GetByID(args[0])
				if !ok {
					return fmt.Errorf("rule %q not found", args[0])
				}
				return renderRules(cc, []validate.RuleDef{rule}, true)
			}
			return renderRules(cc, validate.GetAll(), details)
		},
	}

	cmd.Flags().BoolVarP(&details, "details", "d", false, "Show rationale and fix guidance")

	return cmd
}

// RuleInfo is the JSON form of a rule.
type RuleInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Rationale   string `json:"rationale,omitempty"`
	Fix         string `json:"fix,omitempty"`
	Enabled     bool   `json:"enabled"`
}

func renderRules(cc *CommandContext, rules []validate.RuleDef, details bool) error {
	r := cc.Renderer
	disabled := cc.Cfg.DisabledRuleSet()

	switch r.EffectiveMode() {
	case output.ModeJSON:
		infos := make([]RuleInfo, 0, len(rules))
		for _, rule := range rules {
			infos = append(infos, RuleInfo{
				ID:          rule.ID,
				Name:        rule.Name,
				Description: rule.Description,
				Rationale:   rule.Rationale,
				Fix:         rule.Fix,
				Enabled:     !disabled[rule.ID],
			})
		}
		return r.JSON(infos)

	case output.ModeMarkdown:
		r.Println(output.FormatHeader(1, fmt.Sprintf("Metadata Rules (%d)", len(rules))))
		for _, rule := range rules {
			r.Println(output.FormatHeader(2, rule.ID+": "+output.Title(rule.Name)))
			r.Println(rule.Description)
			if disabled[rule.ID] {
				r.Println("")
				r.Println("*Disabled*")
			}
			if details {
				if rule.Rationale != "" {
					r.Println("")
					r.Println(output.FormatKeyValue("Rationale", rule.Rationale))
				}
				if rule.Fix != "" {
					r.Println(output.FormatKeyValue("Fix", rule.Fix))
				}
			}
			r.Println("")
		}
		return nil

	default:
		styles := r.Styles()
		r.Println(styles.Header1.Render(fmt.Sprintf("Metadata Rules (%d)", len(rules))))
		r.Println("")
		for _, rule := range rules {
			line := fmt.Sprintf("  %s  %-16s %s",
				styles.Bold.Render(rule.ID),
				rule.Name,
				styles.Muted.Render(rule.Description),
			)
			if disabled[rule.ID] {
				line += " " + styles.Warning.Render("(disabled)")
			}
			r.Println(line)
			if details {
				if rule.Rationale != "" {
					r.Println(styles.Muted.Render("        " + rule.Rationale))
				}
				if rule.Fix != "" {
					r.Println(styles.Info.Render("        Fix: " + rule.Fix))
				}
			}
		}
		return nil
	}
}
