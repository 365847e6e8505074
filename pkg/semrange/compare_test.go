package semrange_test

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/forgekit/pkg/semrange"
)

func TestCompare(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		a, b     string
		winner   string
		numEqual bool
	}{
		{name: "newer patch wins", a: "^4.17.0", b: "^4.17.21", winner: "^4.17.21"},
		{name: "newer major beats caret", a: "^1.9.9", b: "2.0.0", winner: "2.0.0"},
		{name: "newer minor beats exact pin", a: "1.4.0", b: "~1.3.9", winner: "1.4.0"},
		{name: "caret beats tilde on tie", a: "~1.2.3", b: "^1.2.3", winner: "^1.2.3", numEqual: true},
		{name: "tilde beats exact on tie", a: "1.2.3", b: "~1.2.3", winner: "~1.2.3", numEqual: true},
		{name: "exact beats wildcard", a: "*", b: "0.0.0", winner: "0.0.0", numEqual: true},
		{name: "any version beats wildcard", a: "0.0.1", b: "*", winner: "0.0.1"},
		{name: "release beats prerelease", a: "^2.0.0-rc.1", b: "^2.0.0", winner: "^2.0.0", numEqual: true},
		{name: "later prerelease wins", a: "^2.0.0-beta.2", b: "^2.0.0-beta.10", winner: "^2.0.0-beta.10", numEqual: true},
		{name: "malformed loses to range", a: "^1.x", b: "0.0.1", winner: "0.0.1"},
		{name: "opaque loses to range", a: "git+https://github.com/acme/lib.git", b: "^0.1.0", winner: "^0.1.0"},
		{name: "opaque loses to wildcard", a: "latest", b: "*", winner: "*"},
		{name: "opaque loses to malformed", a: "latest", b: "^1.x", winner: "^1.x"},
		{name: "equal leading v normalises but stays ordered", a: "v1.0.0", b: "1.0.0", winner: "v1.0.0", numEqual: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			res := semrange.Compare(tt.a, tt.b)
			assert.False(t, res.Identical)
			assert.Equal(t, tt.numEqual, res.EqualNumerically)
			assert.Equal(t, tt.winner, semrange.Max(tt.a, tt.b))

			// The order is antisymmetric: swapping operands keeps the same winner.
			swapped := semrange.Compare(tt.b, tt.a)
			assert.NotEqual(t, res.Winner, swapped.Winner)
			assert.Equal(t, tt.winner, semrange.Max(tt.b, tt.a))
		})
	}
}

func TestCompare_Identical(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"^1.0.0", "*", "latest", "^1.x", "file:../a"} {
		res := semrange.Compare(raw, raw)
		assert.True(t, res.Identical, raw)
		assert.Equal(t, semrange.A, res.Winner, raw)
		assert.Equal(t, 0, semrange.Cmp(raw, raw), raw)
	}
	assert.True(t, semrange.Compare("^1.0.0", "^1.0.0").EqualNumerically)
	assert.False(t, semrange.Compare("latest", "latest").EqualNumerically)
}

func TestCompare_NonParsableFallsBackToOrdinal(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "github:acme/b", semrange.Max("github:acme/a", "github:acme/b"))
	assert.Equal(t, "^2.x", semrange.Max("^1.x", "^2.x"))
}

func TestCmp_TotalOrder(t *testing.T) {
	t.Parallel()

	specs := []string{
		"^1.2.3", "latest", "1.2.3", "~1.2.3", "*", "^1.x", "^1.2.3-beta.1",
		"2.0.0", "file:../x", "0.0.0", "^1.2.3+build.1", "~1.10.0",
	}
	sorted := slices.Clone(specs)
	slices.SortFunc(sorted, semrange.Cmp)

	want := []string{
		"file:../x", "latest",
		"^1.x",
		"*", "0.0.0",
		"1.2.3", "~1.2.3", "^1.2.3-beta.1", "^1.2.3", "^1.2.3+build.1",
		"~1.10.0", "2.0.0",
	}
	require.Equal(t, want, sorted)

	for i := 1; i < len(sorted); i++ {
		assert.True(t, semrange.Less(sorted[i-1], sorted[i]), "%s < %s", sorted[i-1], sorted[i])
	}
}
