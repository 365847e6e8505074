package feature

import (
	"fmt"
	"slices"
	"strings"
)

// MissingRequirement lists the requirements of one feature absent from a selection.
type MissingRequirement struct {
	Feature string   `json:"feature"`
	Missing []string `json:"missing"`
}

// ConflictingPair names two selected features that cannot coexist. A < B.
type ConflictingPair struct {
	A string `json:"a"`
	B string `json:"b"`
}

// Compatibility is the outcome of CheckCompatibility.
type Compatibility struct {
	OK                  bool                 `json:"ok"`
	MissingRequirements []MissingRequirement `json:"missingRequirements"`
	ConflictingPairs    []ConflictingPair    `json:"conflictingPairs"`
}

// Err returns a *CompatibilityError when the selection is not compatible.
func (c Compatibility) Err() error {
	if c.OK {
		return nil
	}
	return &CompatibilityError{
		MissingRequirements: c.MissingRequirements,
		ConflictingPairs:    c.ConflictingPairs,
	}
}

// CompatibilityError carries the violations of a rejected selection.
type CompatibilityError struct {
	MissingRequirements []MissingRequirement
	ConflictingPairs    []ConflictingPair
}

func (e *CompatibilityError) Error() string {
	parts := make([]string, 0, len(e.MissingRequirements)+len(e.ConflictingPairs))
	for _, m := range e.MissingRequirements {
		parts = append(parts, fmt.Sprintf("%s requires %s", m.Feature, strings.Join(m.Missing, ", ")))
	}
	for _, p := range e.ConflictingPairs {
		parts = append(parts, fmt.Sprintf("%s conflicts with %s", p.A, p.B))
	}
	return ErrIncompatibleSelection.Error() + ": " + strings.Join(parts, "; ")
}

func (e *CompatibilityError) Is(target error) bool {
	return target == ErrIncompatibleSelection
}

// CheckCompatibility reports unmet requirements and conflicting pairs within
// selected. Repeated slugs count once, the first occurrence wins. A feature
// requiring itself is satisfied; a feature conflicting with itself is ignored.
func CheckCompatibility(selected []Feature) Compatibility {
	index := make(map[string]int, len(selected))
	nodes := make([]*Feature, 0, len(selected))
	for i := range selected {
		slug := selected[i].Slug
		if _, ok := index[slug]; ok {
			continue
		}
		index[slug] = len(nodes)
		nodes = append(nodes, &selected[i])
	}

	res := Compatibility{
		MissingRequirements: []MissingRequirement{},
		ConflictingPairs:    []ConflictingPair{},
	}

	for _, f := range nodes {
		var missing []string
		for _, r := range f.Requires {
			if _, ok := index[r]; ok || slices.Contains(missing, r) {
				continue
			}
			missing = append(missing, r)
		}
		if len(missing) > 0 {
			res.MissingRequirements = append(res.MissingRequirements, MissingRequirement{
				Feature: f.Slug,
				Missing: missing,
			})
		}
	}

	seen := make(map[[2]int]struct{})
	for i, f := range nodes {
		for _, c := range f.Conflicts {
			j, ok := index[c]
			if !ok || j == i {
				continue
			}
			key := [2]int{min(i, j), max(i, j)}
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}

			a, b := f.Slug, nodes[j].Slug
			if b < a {
				a, b = b, a
			}
			res.ConflictingPairs = append(res.ConflictingPairs, ConflictingPair{A: a, B: b})
		}
	}
	slices.SortFunc(res.ConflictingPairs, func(x, y ConflictingPair) int {
		if c := strings.Compare(x.A, y.A); c != 0 {
			return c
		}
		return strings.Compare(x.B, y.B)
	})

	res.OK = len(res.MissingRequirements) == 0 && len(res.ConflictingPairs) == 0
	return res
}
