// Package validator provides small declarative rules for validating catalog
// records before they enter the composition engine.
//
// A Rule pairs a deferred Check with the ValidationError reported when the
// check fails. Apply evaluates all rules and aggregates failures into a
// ValidationErrors value, so a caller sees every problem with a record at once
// instead of the first one.
//
// # Usage
//
//	err := validator.Apply(
//		validator.Required("slug", f.Slug),
//		validator.Matches("slug", f.Slug, slugPattern, "feature slug"),
//		validator.NonNegative("price", f.Price),
//	)
//	if verrs := validator.Extract(err); verrs != nil {
//		for _, field := range verrs.Fields() {
//			// report field
//		}
//	}
//
// # Error Handling
//
// ValidationErrors implements error and matches ErrValidationFailed with
// errors.Is, so it can be joined with package sentinels without losing the
// per-field details.
//
// The package holds no state and is safe for concurrent use.
package validator
