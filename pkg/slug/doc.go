// Package slug turns human-readable catalog names into identifiers that match
// the feature and module slug format.
//
// Make folds diacritics to ASCII using Unicode decomposition, lowercases the
// result and collapses every run of other characters into a single separator.
//
//	slug.Make("Stripe Payments")          // "stripe-payments"
//	slug.Make("Café Menü", slug.MaxLength(6)) // "cafe-m"
//
// Characters without an ASCII base form are dropped. The package holds no
// state and is safe for concurrent use.
package slug
