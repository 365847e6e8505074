// Package projectname generates memorable default project names such as
// "brave-otter" or "brave-otter-a3f21b". Names are lowercase, hyphenated and
// valid npm package names, so they can be used directly as a manifest name.
//
// Words are picked with crypto/rand. The package holds no state and is safe
// for concurrent use.
package projectname
