package semrange

import (
	"strings"

	mm "github.com/Masterminds/semver/v3"
)

// Kind classifies a raw version specifier.
type Kind int

const (
	// KindOpaque is any specifier outside the range grammar (tags, URLs, paths).
	KindOpaque Kind = iota
	// KindMalformed looks like a range but its numeric body does not parse.
	KindMalformed
	// KindRange is a parsable range, including wildcards.
	KindRange
)

func (k Kind) String() string {
	switch k {
	case KindRange:
		return "range"
	case KindMalformed:
		return "malformed"
	default:
		return "opaque"
	}
}

// Prefix is the operator in front of the version body.
type Prefix string

const (
	PrefixWildcard Prefix = "*"
	PrefixExact    Prefix = ""
	PrefixTilde    Prefix = "~"
	PrefixCaret    Prefix = "^"
)

// Range is a parsed version specifier. The zero value is an empty opaque range.
type Range struct {
	Raw    string
	Kind   Kind
	Prefix Prefix
	Major  uint64
	Minor  uint64
	Patch  uint64
	// Suffix holds the pre-release and build parts, e.g. "-rc.1+build.5".
	Suffix string

	version *mm.Version
}

// Parse classifies raw and, for parsable ranges, extracts its components.
// Parse never fails: anything it cannot read becomes Malformed or Opaque.
func Parse(raw string) Range {
	r := Range{Raw: raw}
	s := strings.TrimSpace(raw)

	switch s {
	case "", "*", "x", "X":
		r.Kind = KindRange
		r.Prefix = PrefixWildcard
		return r
	}

	if !looksLikeRange(s) {
		r.Kind = KindOpaque
		return r
	}

	body := s
	switch {
	case strings.HasPrefix(body, "^"):
		r.Prefix = PrefixCaret
		body = body[1:]
	case strings.HasPrefix(body, "~"):
		r.Prefix = PrefixTilde
		body = body[1:]
	case strings.HasPrefix(body, "="):
		r.Prefix = PrefixExact
		body = body[1:]
	default:
		r.Prefix = PrefixExact
	}
	body = strings.TrimPrefix(body, "v")

	v, err := mm.StrictNewVersion(body)
	if err != nil {
		r.Kind = KindMalformed
		r.Prefix = PrefixExact
		return r
	}

	r.Kind = KindRange
	r.Major = v.Major()
	r.Minor = v.Minor()
	r.Patch = v.Patch()
	if pre := v.Prerelease(); pre != "" {
		r.Suffix = "-" + pre
	}
	if meta := v.Metadata(); meta != "" {
		r.Suffix += "+" + meta
	}
	r.version = v
	return r
}

// IsWildcard reports whether r matches any version.
func (r Range) IsWildcard() bool {
	return r.Kind == KindRange && r.Prefix == PrefixWildcard
}

// Prerelease returns the pre-release part of the suffix without the leading dash.
func (r Range) Prerelease() string {
	if r.version == nil {
		return ""
	}
	return r.version.Prerelease()
}

func (r Range) String() string {
	return r.Raw
}

// looksLikeRange reports whether s starts the way a range expression does.
func looksLikeRange(s string) bool {
	c := s[0]
	switch {
	case c >= '0' && c <= '9':
		return true
	case c == '^', c == '~', c == '=', c == '<', c == '>':
		return true
	case c == 'v' && len(s) > 1 && s[1] >= '0' && s[1] <= '9':
		return true
	}
	return false
}
