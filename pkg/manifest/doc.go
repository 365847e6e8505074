// Package manifest merges feature dependency requirements into a base project
// manifest and renders the result as a canonical package.json document.
//
// The package contains two pure stages of the composition pipeline:
//
//   - Merge combines a base dependency map and dev-dependency map with a flat
//     list of feature-declared packages. Clashing version ranges are resolved
//     with semrange.Compare and every clash is reported as a VersionConflict.
//   - Assemble takes a base Manifest and a MergeResult, overwrites the project
//     identity, fills in missing default scripts and reports which packages the
//     features introduced.
//
// Encode and Parse convert between Manifest values and JSON text. Encode is
// deterministic: the same Manifest always yields byte-identical output with
// two-space indentation, ordinal-sorted dependency keys and a single trailing
// newline. Parse(Encode(m)) reproduces every field the assembler controls.
//
// None of the functions in this package perform I/O or keep state between
// calls; they are safe for concurrent use.
//
// # Usage
//
//	base, err := manifest.Parse(data)
//	if err != nil {
//		return err
//	}
//	merged := manifest.Merge(base.Dependencies, base.DevDependencies, pkgs)
//	out := manifest.Assemble(base, "acme-crm", merged)
//	text, err := manifest.Encode(out.Manifest)
//
// # Error Handling
//
// Merge and Assemble never fail. Parse returns ErrInvalidManifest or
// ErrInvalidField joined with the underlying decoding error.
package manifest
