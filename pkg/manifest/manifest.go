package manifest

import (
	"encoding/json"
	"maps"
	"slices"
)

// Package is a dependency requirement contributed by a feature.
type Package struct {
	Name    string `json:"name" yaml:"name"`
	Version string `json:"version" yaml:"version"`
	// Dev marks build or test-only packages that belong in devDependencies.
	Dev bool `json:"dev,omitempty" yaml:"dev,omitempty"`
}

// Field is a top-level manifest key the engine does not interpret.
// Value holds compact JSON.
type Field struct {
	Key   string
	Value json.RawMessage
}

// Script is a single named entry of the scripts section.
type Script struct {
	Name    string
	Command string
}

// Scripts keeps script entries in document order.
type Scripts []Script

// Get returns the command registered under name.
func (s Scripts) Get(name string) (string, bool) {
	for _, sc := range s {
		if sc.Name == name {
			return sc.Command, true
		}
	}
	return "", false
}

// Has reports whether a script named name exists.
func (s Scripts) Has(name string) bool {
	_, ok := s.Get(name)
	return ok
}

// Set replaces the command of an existing script or appends a new one.
func (s *Scripts) Set(name, command string) {
	for i := range *s {
		if (*s)[i].Name == name {
			(*s)[i].Command = command
			return
		}
	}
	*s = append(*s, Script{Name: name, Command: command})
}

// Names returns script names in document order.
func (s Scripts) Names() []string {
	names := make([]string, 0, len(s))
	for _, sc := range s {
		names = append(names, sc.Name)
	}
	return names
}

// Map returns the scripts as a plain map.
func (s Scripts) Map() map[string]string {
	m := make(map[string]string, len(s))
	for _, sc := range s {
		m[sc.Name] = sc.Command
	}
	return m
}

// Manifest is a package.json document split into the fields the engine
// controls and passthrough fields it carries verbatim.
type Manifest struct {
	Name            string
	Version         string
	Description     string
	Scripts         Scripts
	Dependencies    map[string]string
	DevDependencies map[string]string
	// Extra holds every other top-level key in source order.
	Extra []Field
}

// Field returns the raw value of a passthrough key.
func (m *Manifest) Field(key string) (json.RawMessage, bool) {
	for _, f := range m.Extra {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// SetField sets a passthrough key, keeping its position if it already exists.
// Keys the engine controls (name, scripts, dependencies, ...) are ignored.
func (m *Manifest) SetField(key string, value json.RawMessage) {
	if controlled[key] {
		return
	}
	for i := range m.Extra {
		if m.Extra[i].Key == key {
			m.Extra[i].Value = value
			return
		}
	}
	m.Extra = append(m.Extra, Field{Key: key, Value: value})
}

// Clone returns a deep copy of m.
func (m *Manifest) Clone() *Manifest {
	if m == nil {
		return nil
	}
	out := &Manifest{
		Name:            m.Name,
		Version:         m.Version,
		Description:     m.Description,
		Scripts:         slices.Clone(m.Scripts),
		Dependencies:    maps.Clone(m.Dependencies),
		DevDependencies: maps.Clone(m.DevDependencies),
	}
	if m.Extra != nil {
		out.Extra = make([]Field, len(m.Extra))
		for i, f := range m.Extra {
			out.Extra[i] = Field{Key: f.Key, Value: slices.Clone(f.Value)}
		}
	}
	return out
}

// controlled lists keys Parse and Encode handle explicitly.
var controlled = map[string]bool{
	"name":            true,
	"version":         true,
	"description":     true,
	"scripts":         true,
	"dependencies":    true,
	"devDependencies": true,
}
