package validate

import "strings"

// GroupPrefix marks an owner value as a group reference.
const GroupPrefix = "@"

// ValidOwner reports whether owner is a group reference (starts with "@") or
// an email ending with "@"+emailDomain.
//
// With an empty emailDomain the email suffix is empty, so every owner is
// accepted. Callers that want the group-only check must configure a domain.
func ValidOwner(owner, emailDomain string) bool {
	if strings.HasPrefix(owner, GroupPrefix) {
		return true
	}
	return strings.HasSuffix(owner, EmailSuffix(emailDomain))
}

// EmailSuffix returns the required suffix of owner emails, or "" when no
// domain is configured.
func EmailSuffix(emailDomain string) string {
	if emailDomain == "" {
		return ""
	}
	return "@" + emailDomain
}
