package rules

import (
	"github.com/leapstack-labs/nesso/internal/metadata"
	"github.com/leapstack-labs/nesso/internal/validate"
)

var businessOwner = ownerRule{
	id:    "MV03",
	name:  "business-owner",
	field: "business_owner",
	label: "business owner",
	get:   func(m metadata.Meta) metadata.Text { return m.BusinessOwner },
}

func init() {
	validate.Register(validate.RuleDef{
		ID:          businessOwner.id,
		Name:        businessOwner.name,
		Description: "meta.business_owner must be a group or an email in the configured domain",
		Check:       businessOwner.check,

		Rationale: "Questions about what the data means go to its business owner.",
		Fix:       "Set meta.business_owner to a group such as \"@finance\" or an email in the company domain.",
	})
}
