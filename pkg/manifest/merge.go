package manifest

import (
	"maps"
	"slices"
	"strings"

	"github.com/dmitrymomot/forgekit/pkg/semrange"
)

// VersionConflict records a package declared with two or more distinct
// version strings. A package has at most one entry per merge.
type VersionConflict struct {
	Package string `json:"package"`
	// Selected is the winner of the first namespace that clashed.
	Selected string `json:"selected"`
	// Alternatives holds every losing string from both namespaces once.
	Alternatives []string `json:"alternatives"`
	// Namespaces breaks the clash down per dependency map, in clash order.
	Namespaces []NamespaceConflict `json:"namespaces"`
}

// NamespaceConflict is the part of a VersionConflict that happened in one
// dependency map.
type NamespaceConflict struct {
	Dev          bool     `json:"dev"`
	Selected     string   `json:"selected"`
	Alternatives []string `json:"alternatives"`
}

// Name returns the manifest key of the namespace.
func (n NamespaceConflict) Name() string {
	if n.Dev {
		return "devDependencies"
	}
	return "dependencies"
}

// NamespaceNames lists the namespaces the package clashed in.
func (c VersionConflict) NamespaceNames() []string {
	names := make([]string, 0, len(c.Namespaces))
	for _, n := range c.Namespaces {
		names = append(names, n.Name())
	}
	return names
}

// MergeResult is the output of Merge.
type MergeResult struct {
	Dependencies    map[string]string `json:"dependencies"`
	DevDependencies map[string]string `json:"devDependencies"`
	Conflicts       []VersionConflict `json:"versionConflicts"`
}

// HasConflicts reports whether any package was contested.
func (r MergeResult) HasConflicts() bool {
	return len(r.Conflicts) > 0
}

// Merge folds feature packages into copies of the base dependency maps.
//
// Packages are split by their Dev flag and applied in input order. A package
// absent from its target map is inserted; an identical string is a no-op; a
// different string is resolved with semrange.Compare and the clash is recorded.
// All clashes for one package share a single VersionConflict entry, even when
// the package is contested in both namespaces. Its Alternatives hold every
// losing string once and Namespaces keeps the per-map detail.
//
// Packages with a blank name are skipped. The base maps are never modified.
func Merge(baseDeps, baseDevDeps map[string]string, pkgs []Package) MergeResult {
	res := MergeResult{
		Dependencies:    cloneDeps(baseDeps),
		DevDependencies: cloneDeps(baseDevDeps),
		Conflicts:       []VersionConflict{},
	}

	runtime := make([]Package, 0, len(pkgs))
	dev := make([]Package, 0)
	for _, p := range pkgs {
		if strings.TrimSpace(p.Name) == "" {
			continue
		}
		if p.Dev {
			dev = append(dev, p)
		} else {
			runtime = append(runtime, p)
		}
	}

	m := &merger{res: &res, index: make(map[string]int)}
	m.apply(res.Dependencies, runtime, false)
	m.apply(res.DevDependencies, dev, true)

	return res
}

type merger struct {
	res   *MergeResult
	index map[string]int
}

func (m *merger) apply(target map[string]string, pkgs []Package, dev bool) {
	for _, p := range pkgs {
		current, ok := target[p.Name]
		if !ok {
			target[p.Name] = p.Version
			continue
		}
		if current == p.Version {
			continue
		}

		winner, loser := current, p.Version
		if semrange.Compare(current, p.Version).Winner == semrange.B {
			winner, loser = p.Version, current
		}
		target[p.Name] = winner
		m.record(p.Name, dev, winner, loser)
	}
}

func (m *merger) record(name string, dev bool, winner, loser string) {
	i, ok := m.index[name]
	if !ok {
		m.index[name] = len(m.res.Conflicts)
		m.res.Conflicts = append(m.res.Conflicts, VersionConflict{
			Package:      name,
			Selected:     winner,
			Alternatives: []string{loser},
			Namespaces: []NamespaceConflict{
				{Dev: dev, Selected: winner, Alternatives: []string{loser}},
			},
		})
		return
	}

	c := &m.res.Conflicts[i]
	if !slices.Contains(c.Alternatives, loser) {
		c.Alternatives = append(c.Alternatives, loser)
	}

	n := slices.IndexFunc(c.Namespaces, func(n NamespaceConflict) bool { return n.Dev == dev })
	if n < 0 {
		c.Namespaces = append(c.Namespaces, NamespaceConflict{
			Dev:          dev,
			Selected:     winner,
			Alternatives: []string{loser},
		})
		return
	}

	ns := &c.Namespaces[n]
	ns.Selected = winner
	if n == 0 {
		c.Selected = winner
	}
	if !slices.Contains(ns.Alternatives, loser) {
		ns.Alternatives = append(ns.Alternatives, loser)
	}
}

func cloneDeps(m map[string]string) map[string]string {
	if m == nil {
		return map[string]string{}
	}
	return maps.Clone(m)
}
