package rules

import (
	"fmt"

	"github.com/leapstack-labs/nesso/internal/metadata"
	"github.com/leapstack-labs/nesso/internal/validate"
)

// ownerRule describes one of the meta owner fields.
type ownerRule struct {
	id    string
	name  string
	field string // meta key as written in YAML
	label string // as used in messages
	get   func(metadata.Meta) metadata.Text
}

// check reports a missing owner before an invalid one, so a file with both
// problems first asks for the owner to be filled in.
func (r ownerRule) check(ctx *validate.Context) []validate.Diagnostic {
	doc := ctx.Document

	for _, entry := range doc.Entries {
		if r.get(entry.Meta).IsEmpty() {
			return r.diagnostic(doc.Path, entry.Name,
				fmt.Sprintf("Please fill in the %s in the %s file.", r.label, doc.Path))
		}
	}

	for _, entry := range doc.Entries {
		if !validate.ValidOwner(r.get(entry.Meta).String(), ctx.EmailDomain) {
			return r.diagnostic(doc.Path, entry.Name,
				fmt.Sprintf("Please insert valid %s in %s file. %s should be %s or a group starting with '%s'.",
					r.label, doc.Path, r.field, emailHint(ctx.EmailDomain), validate.GroupPrefix))
		}
	}
	return nil
}

func (r ownerRule) diagnostic(file, entry, msg string) []validate.Diagnostic {
	return []validate.Diagnostic{{
		RuleID:  r.id,
		Rule:    r.name,
		File:    file,
		Entry:   entry,
		Message: msg,
	}}
}

func emailHint(domain string) string {
	if suffix := validate.EmailSuffix(domain); suffix != "" {
		return "an email ending with " + suffix
	}
	return "an email"
}
