package rules

import (
	"fmt"

	"github.com/leapstack-labs/nesso/internal/validate"
)

func init() {
	validate.Register(validate.RuleDef{
		ID:          "MV01",
		Name:        "descriptions",
		Description: "Every entity and column must have a description",
		Check:       checkDescriptions,

		Rationale: `Descriptions are what makes the catalog usable. An undocumented table or
column forces every consumer to reverse-engineer its meaning from SQL.`,
		Fix: "Fill in the description of the entity and of every listed column.",
	})
}

// checkDescriptions flags the first entry whose own description or one of
// whose column descriptions is empty. Empty follows metadata.Text, so false
// and 0 are not descriptions.
func checkDescriptions(ctx *validate.Context) []validate.Diagnostic {
	doc := ctx.Document
	for _, entry := range doc.Entries {
		missing := entry.Description.IsEmpty()
		for _, col := range entry.Columns {
			if col.Description.IsEmpty() {
				missing = true
				break
			}
		}
		if missing {
			return []validate.Diagnostic{{
				RuleID:  "MV01",
				Rule:    "descriptions",
				File:    doc.Path,
				Entry:   entry.Name,
				Message: fmt.Sprintf("Please fill all descriptions in %s file.", doc.Path),
			}}
		}
	}
	return nil
}
