package rules

import (
	"github.com/leapstack-labs/nesso/internal/metadata"
	"github.com/leapstack-labs/nesso/internal/validate"
)

var technicalOwner = ownerRule{
	id:    "MV02",
	name:  "technical-owner",
	field: "technical_owner",
	label: "technical owner",
	get:   func(m metadata.Meta) metadata.Text { return m.TechnicalOwner },
}

func init() {
	validate.Register(validate.RuleDef{
		ID:          technicalOwner.id,
		Name:        technicalOwner.name,
		Description: "meta.technical_owner must be a group or an email in the configured domain",
		Check:       technicalOwner.check,

		Rationale: "Someone has to be paged when the pipeline behind a table breaks.",
		Fix:       "Set meta.technical_owner to a group such as \"@data-team\" or an email in the company domain.",
	})
}
