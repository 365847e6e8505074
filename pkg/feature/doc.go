// Package feature models the optional feature catalog and checks whether a
// selection of features can be composed into one project.
//
// A Feature belongs to a Module and declares which other features it
// requires and which it conflicts with, the npm packages it contributes and
// the files, schema fragments and environment variables it brings along.
//
// # Compatibility
//
// CheckCompatibility is a pure function over the selected features. It
// assigns each distinct slug a dense index, resolves requires and conflicts
// declarations to indices once, and reports:
//
//   - missing requirements, one entry per feature in selection order
//   - conflicting pairs, once per unordered pair as {A: min, B: max}
//
// A single declaration is enough for a conflict; requirements are not
// assumed to be symmetric.
//
//	res := feature.CheckCompatibility(selected)
//	if err := res.Err(); err != nil {
//		var cerr *feature.CompatibilityError
//		errors.As(err, &cerr) // cerr.MissingRequirements, cerr.ConflictingPairs
//	}
//
// # Catalog Sources
//
// The Source interface abstracts where feature records live. Three
// implementations are provided:
//
//   - MemorySource keeps records in a map guarded by a RWMutex and hands out
//     deep copies.
//   - YAMLSource loads a catalog document (modules and features) from disk.
//   - PostgresSource reads and upserts records through a pgx pool; list-valued
//     columns are stored as JSONB. Migrations holds the goose schema.
//
// Resolve returns features in requested order and fails with
// ErrFeatureNotFound naming every unknown slug.
//
// # Error Handling
//
// Sentinel errors are declared in errors.go and wrapped with errors.Join.
// Record validation failures match ErrInvalidFeature or ErrInvalidModule and
// carry validator.ValidationErrors with per-field details.
package feature
