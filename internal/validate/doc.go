// Package validate checks dbt property files against metadata rules:
// descriptions, technical and business owners, and the schema version.
//
// Rules live in a registry and are applied in ID order. The built-in rules
// are registered by importing the rules subpackage:
//
//	import _ "github.com/leapstack-labs/nesso/internal/validate/rules"
//
//	v := validate.New(validate.Options{EmailDomain: "acme.com", SchemaVersion: 2})
//	if err := v.Run(ctx, dir); err != nil {
//	    var verr *validate.Error
//	    if errors.As(err, &verr) {
//	        // verr.File failed verr.RuleID
//	    }
//	}
package validate
