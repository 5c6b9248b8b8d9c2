package rules

import (
	"fmt"

	"github.com/leapstack-labs/nesso/internal/validate"
)

func init() {
	validate.Register(validate.RuleDef{
		ID:          "MV04",
		Name:        "schema-version",
		Description: "Top-level version must match the expected schema version",
		Check:       checkSchemaVersion,

		Fix: "Set the top-level version key of the property file to the expected version.",
	})
}

// checkSchemaVersion flags documents whose version is missing, not an
// integer, or different from the expected one.
func checkSchemaVersion(ctx *validate.Context) []validate.Diagnostic {
	doc := ctx.Document
	if doc.Version != nil && *doc.Version == ctx.SchemaVersion {
		return nil
	}
	return []validate.Diagnostic{{
		RuleID:  "MV04",
		Rule:    "schema-version",
		File:    doc.Path,
		Message: fmt.Sprintf("Please use version %d in %s file.", ctx.SchemaVersion, doc.Path),
	}}
}
