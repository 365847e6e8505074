package feature

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/dmitrymomot/forgekit/pkg/slug"
)

// catalogNamespace seeds deterministic IDs for records declared without one.
var catalogNamespace = uuid.MustParse("6f1c8a52-3d4e-5b7a-9c0d-2e4f6a8b0c1d")

type yamlCatalog struct {
	Modules  []yamlModule  `yaml:"modules"`
	Features []yamlFeature `yaml:"features"`
}

type yamlModule struct {
	Module `yaml:",inline"`
	ID     string `yaml:"id,omitempty"`
}

type yamlFeature struct {
	Feature `yaml:",inline"`
	ID      string `yaml:"id,omitempty"`
	Module  string `yaml:"module,omitempty"`
	// Active defaults to true when omitted.
	Active *bool `yaml:"active,omitempty"`
}

// YAMLSource serves a catalog document loaded from YAML.
//
//	modules:
//	  - slug: auth
//	    name: Authentication
//	features:
//	  - slug: oauth
//	    module: auth
//	    name: OAuth Providers
//	    requires: [user-auth]
//	    npm_packages:
//	      - {name: passport, version: ^0.7.0}
type YAMLSource struct {
	*MemorySource
	path string
}

// LoadYAML reads and parses the catalog at path.
func LoadYAML(path string) (*YAMLSource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Join(ErrInvalidCatalog, err)
	}
	src, err := ParseYAML(data)
	if err != nil {
		return nil, err
	}
	src.path = path
	return src, nil
}

// ParseYAML builds a source from a catalog document. Missing slugs are
// derived from names and missing IDs are derived from slugs.
func ParseYAML(data []byte) (*YAMLSource, error) {
	modules, features, err := decodeCatalog(data)
	if err != nil {
		return nil, err
	}
	mem, err := NewMemorySource(modules, features)
	if err != nil {
		return nil, errors.Join(ErrInvalidCatalog, err)
	}
	return &YAMLSource{MemorySource: mem}, nil
}

// Reload re-reads the file the source was loaded from. On failure the
// current catalog stays in place.
func (s *YAMLSource) Reload() error {
	if s.path == "" {
		return errors.Join(ErrInvalidCatalog, errors.New("source was not loaded from a file"))
	}
	fresh, err := LoadYAML(s.path)
	if err != nil {
		return err
	}

	fresh.mu.RLock()
	modules, features := fresh.modules, fresh.features
	fresh.mu.RUnlock()

	s.mu.Lock()
	s.modules, s.features = modules, features
	s.mu.Unlock()
	return nil
}

func decodeCatalog(data []byte) ([]Module, []Feature, error) {
	var doc yamlCatalog
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, nil, errors.Join(ErrInvalidCatalog, err)
	}

	modules := make([]Module, 0, len(doc.Modules))
	moduleIDs := make(map[string]uuid.UUID, len(doc.Modules))
	for _, ym := range doc.Modules {
		m := ym.Module
		if m.Slug == "" {
			m.Slug = slug.Make(m.Name, slug.MaxLength(MaxSlugLength))
		}
		id, err := recordID(ym.ID, "module:"+m.Slug)
		if err != nil {
			return nil, nil, err
		}
		m.ID = id
		if _, dup := moduleIDs[m.Slug]; dup {
			return nil, nil, errors.Join(ErrInvalidCatalog, fmt.Errorf("duplicate module %q", m.Slug))
		}
		moduleIDs[m.Slug] = id
		modules = append(modules, m)
	}

	features := make([]Feature, 0, len(doc.Features))
	for _, yf := range doc.Features {
		f := yf.Feature
		if f.Slug == "" {
			f.Slug = slug.Make(f.Name, slug.MaxLength(MaxSlugLength))
		}
		id, err := recordID(yf.ID, "feature:"+f.Slug)
		if err != nil {
			return nil, nil, err
		}
		f.ID = id
		if yf.Module != "" {
			mid, ok := moduleIDs[yf.Module]
			if !ok {
				return nil, nil, errors.Join(ErrInvalidCatalog, ErrModuleNotFound,
					fmt.Errorf("feature %q references module %q", f.Slug, yf.Module))
			}
			f.ModuleID = mid
		}
		f.IsActive = yf.Active == nil || *yf.Active
		features = append(features, f)
	}

	return modules, features, nil
}

func recordID(raw, name string) (uuid.UUID, error) {
	if raw == "" {
		return uuid.NewSHA1(catalogNamespace, []byte(name)), nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, errors.Join(ErrInvalidCatalog, fmt.Errorf("%s: %w", name, err))
	}
	return id, nil
}
