// Package semrange parses and orders dependency version-range strings as they
// appear in package.json manifests.
//
// The package answers one question: given two range strings declared for the
// same package, which one should a merged manifest keep? It does not resolve
// ranges against a registry and does not evaluate whether a version satisfies a
// range.
//
// # Grammar
//
// A parsable range is an optional prefix followed by a strict semantic version:
//
//	^1.2.3          caret range
//	~1.2.3          tilde range
//	1.2.3, =1.2.3   exact pin (a leading "v" is accepted)
//	*, x, X, ""     wildcard
//
// The version body may carry a pre-release ("-beta.1") or build ("+sha.1")
// suffix. Numeric components are parsed with github.com/Masterminds/semver/v3.
//
// Strings that look like a range but whose numeric body does not parse
// ("^1.x", ">=1.2.0 <2") are Malformed. Everything else ("latest",
// "git+https://...", "file:../lib", "workspace:*") is Opaque.
//
// # Ordering
//
// Compare defines a total order in which the greater string wins:
//
//  1. Parsable ranges beat Malformed strings, which beat Opaque strings.
//  2. Among parsable ranges the larger (major, minor, patch) tuple wins.
//     Wildcards carry the tuple (0, 0, 0).
//  3. On equal tuples the prefix decides: caret > tilde > exact > wildcard.
//  4. On equal prefixes the suffix decides by semver pre-release precedence
//     (a release beats any pre-release of the same tuple).
//  5. Anything still tied is ordered by ordinal comparison of the raw strings.
//
// Two identical strings never conflict; Compare reports them as Identical.
//
// # Usage
//
//	res := semrange.Compare("^4.17.0", "^4.17.21")
//	if res.Winner == semrange.B {
//		// keep "^4.17.21"
//	}
package semrange
