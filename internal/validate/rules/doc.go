// Package rules registers the built-in metadata rules with the validate
// registry. Import it for its side effects:
//
//	import _ "github.com/leapstack-labs/nesso/internal/validate/rules"
package rules
