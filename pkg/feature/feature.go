package feature

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/forgekit/pkg/manifest"
)

// Tier is an ordered pricing label.
type Tier string

const (
	TierFree       Tier = "free"
	TierStarter    Tier = "starter"
	TierPro        Tier = "pro"
	TierEnterprise Tier = "enterprise"
)

// Tiers lists all tiers from lowest to highest.
var Tiers = []Tier{TierFree, TierStarter, TierPro, TierEnterprise}

// Rank returns the position of t in Tiers, or -1 for unknown labels.
func (t Tier) Rank() int {
	return slices.Index(Tiers, t)
}

func (t Tier) Valid() bool {
	return t.Rank() >= 0
}

func ParseTier(s string) (Tier, error) {
	t := Tier(s)
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidTier, s)
	}
	return t, nil
}

// FileMapping copies a template file into the generated project.
type FileMapping struct {
	Source      string `json:"source" yaml:"source"`
	Destination string `json:"destination" yaml:"destination"`
	// Transform names an optional template transform applied on copy.
	Transform string `json:"transform,omitempty" yaml:"transform,omitempty"`
}

// SchemaMapping appends a schema fragment to a data model.
type SchemaMapping struct {
	Model    string `json:"model" yaml:"model"`
	Fragment string `json:"fragment" yaml:"fragment"`
}

type EnvVar struct {
	Key         string `json:"key" yaml:"key"`
	Default     string `json:"default,omitempty" yaml:"default,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Required    bool   `json:"required,omitempty" yaml:"required,omitempty"`
}

// Feature is a unit of optional functionality contributed to a generated project.
type Feature struct {
	ID          uuid.UUID `json:"id" yaml:"-"`
	Slug        string    `json:"slug" yaml:"slug"`
	ModuleID    uuid.UUID `json:"module_id" yaml:"-"`
	Name        string    `json:"name" yaml:"name"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty"`
	// Price is expressed in minor currency units.
	Price    int64 `json:"price" yaml:"price"`
	Tier     *Tier `json:"tier,omitempty" yaml:"tier,omitempty"`
	IsActive bool  `json:"is_active" yaml:"-"`

	Requires  []string `json:"requires,omitempty" yaml:"requires,omitempty"`
	Conflicts []string `json:"conflicts,omitempty" yaml:"conflicts,omitempty"`

	NPMPackages    []manifest.Package `json:"npm_packages,omitempty" yaml:"npm_packages,omitempty"`
	FileMappings   []FileMapping      `json:"file_mappings,omitempty" yaml:"file_mappings,omitempty"`
	SchemaMappings []SchemaMapping    `json:"schema_mappings,omitempty" yaml:"schema_mappings,omitempty"`
	EnvVars        []EnvVar           `json:"env_vars,omitempty" yaml:"env_vars,omitempty"`

	CreatedAt time.Time `json:"created_at,omitzero" yaml:"-"`
	UpdatedAt time.Time `json:"updated_at,omitzero" yaml:"-"`
}

// Clone returns a deep copy of f.
func (f Feature) Clone() Feature {
	c := f
	if f.Tier != nil {
		t := *f.Tier
		c.Tier = &t
	}
	c.Requires = slices.Clone(f.Requires)
	c.Conflicts = slices.Clone(f.Conflicts)
	c.NPMPackages = slices.Clone(f.NPMPackages)
	c.FileMappings = slices.Clone(f.FileMappings)
	c.SchemaMappings = slices.Clone(f.SchemaMappings)
	c.EnvVars = slices.Clone(f.EnvVars)
	return c
}

// AvailableAt reports whether f can be sold at tier t.
// Untiered features are available everywhere.
func (f Feature) AvailableAt(t Tier) bool {
	return f.Tier == nil || f.Tier.Rank() <= t.Rank()
}

// Module groups related features.
type Module struct {
	ID           uuid.UUID `json:"id" yaml:"-"`
	Slug         string    `json:"slug" yaml:"slug"`
	Name         string    `json:"name" yaml:"name"`
	Category     string    `json:"category,omitempty" yaml:"category,omitempty"`
	DisplayOrder int       `json:"display_order" yaml:"display_order"`
}

// Filter narrows ListFeatures. Zero values disable a criterion.
type Filter struct {
	ModuleID uuid.UUID
	// Tier keeps features available at that tier (see Feature.AvailableAt).
	Tier       *Tier
	ActiveOnly bool
}

// Match reports whether f passes every criterion set on fl.
func (fl Filter) Match(f Feature) bool {
	if fl.ModuleID != uuid.Nil && f.ModuleID != fl.ModuleID {
		return false
	}
	if fl.Tier != nil && !f.AvailableAt(*fl.Tier) {
		return false
	}
	if fl.ActiveOnly && !f.IsActive {
		return false
	}
	return true
}

// Source is a read interface over the feature catalog.
type Source interface {
	// ListModules returns modules ordered by display order, then slug.
	ListModules(ctx context.Context) ([]Module, error)

	// ListFeatures returns matching features ordered by slug.
	ListFeatures(ctx context.Context, filter Filter) ([]Feature, error)

	// GetFeature returns ErrFeatureNotFound for unknown slugs.
	GetFeature(ctx context.Context, slug string) (Feature, error)

	// Resolve returns the features named by slugs in requested order.
	// Repeated slugs are returned once.
	Resolve(ctx context.Context, slugs []string) ([]Feature, error)
}

func sortModules(ms []Module) {
	slices.SortFunc(ms, func(a, b Module) int {
		if a.DisplayOrder != b.DisplayOrder {
			return a.DisplayOrder - b.DisplayOrder
		}
		return strings.Compare(a.Slug, b.Slug)
	})
}

func sortFeatures(fs []Feature) {
	slices.SortFunc(fs, func(a, b Feature) int {
		return strings.Compare(a.Slug, b.Slug)
	})
}
