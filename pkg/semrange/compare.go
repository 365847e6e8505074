package semrange

import (
	"cmp"
	"strings"
)

// Side names one of the two operands passed to Compare.
type Side int

const (
	A Side = iota
	B
)

func (s Side) String() string {
	if s == B {
		return "b"
	}
	return "a"
}

// Result is the outcome of comparing two version specifiers.
type Result struct {
	// Winner is the operand a merged manifest should keep.
	Winner Side
	// EqualNumerically is true when both operands are parsable ranges with the
	// same (major, minor, patch) tuple.
	EqualNumerically bool
	// Identical is true when both raw strings are equal; there is no conflict.
	Identical bool
}

// Compare decides which of two raw specifiers wins. Ties on identical strings
// resolve to A.
func Compare(a, b string) Result {
	ra, rb := Parse(a), Parse(b)
	res := Result{
		EqualNumerically: ra.Kind == KindRange && rb.Kind == KindRange && tupleCmp(ra, rb) == 0,
	}
	if a == b {
		res.Identical = true
		res.Winner = A
		return res
	}
	if order(ra, rb) < 0 {
		res.Winner = B
	}
	return res
}

// Cmp returns -1, 0 or +1 depending on whether a orders below, equal to or
// above b. Cmp returns 0 only for identical strings.
func Cmp(a, b string) int {
	if a == b {
		return 0
	}
	return order(Parse(a), Parse(b))
}

// Less reports whether a orders strictly below b.
func Less(a, b string) bool {
	return Cmp(a, b) < 0
}

// Max returns the winning specifier out of a and b.
func Max(a, b string) string {
	if Compare(a, b).Winner == B {
		return b
	}
	return a
}

func order(a, b Range) int {
	if c := cmp.Compare(a.Kind, b.Kind); c != 0 {
		return c
	}
	if a.Kind == KindRange {
		if c := tupleCmp(a, b); c != 0 {
			return c
		}
		if c := cmp.Compare(prefixRank(a.Prefix), prefixRank(b.Prefix)); c != 0 {
			return c
		}
		if a.version != nil && b.version != nil {
			if c := a.version.Compare(b.version); c != 0 {
				return c
			}
		}
	}
	return strings.Compare(a.Raw, b.Raw)
}

func tupleCmp(a, b Range) int {
	if c := cmp.Compare(a.Major, b.Major); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Minor, b.Minor); c != 0 {
		return c
	}
	return cmp.Compare(a.Patch, b.Patch)
}

// prefixRank orders prefixes for numerically equal ranges. Higher wins.
func prefixRank(p Prefix) int {
	switch p {
	case PrefixCaret:
		return 3
	case PrefixTilde:
		return 2
	case PrefixExact:
		return 1
	default:
		return 0
	}
}
