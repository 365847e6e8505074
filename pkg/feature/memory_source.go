package feature

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemorySource is an in-memory catalog. It is useful for tests, the CLI and
// small deployments that ship the catalog with the binary.
type MemorySource struct {
	mu       sync.RWMutex
	modules  map[uuid.UUID]Module
	features map[string]Feature
}

// NewMemorySource validates and stores the given records. Features with a
// zero ID get a fresh one.
func NewMemorySource(modules []Module, features []Feature) (*MemorySource, error) {
	s := &MemorySource{
		modules:  make(map[uuid.UUID]Module, len(modules)),
		features: make(map[string]Feature, len(features)),
	}

	for _, m := range modules {
		if err := m.Validate(); err != nil {
			return nil, errors.Join(fmt.Errorf("module %q", m.Slug), err)
		}
		if m.ID == uuid.Nil {
			m.ID = uuid.New()
		}
		s.modules[m.ID] = m
	}

	now := time.Now()
	for _, f := range features {
		if err := f.Validate(); err != nil {
			return nil, errors.Join(fmt.Errorf("feature %q", f.Slug), err)
		}
		if _, exists := s.features[f.Slug]; exists {
			return nil, errors.Join(ErrDuplicateFeature, fmt.Errorf("feature %q", f.Slug))
		}
		s.features[f.Slug] = stamp(f.Clone(), now)
	}

	return s, nil
}

func stamp(f Feature, now time.Time) Feature {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	if f.CreatedAt.IsZero() {
		f.CreatedAt = now
	}
	if f.UpdatedAt.IsZero() {
		f.UpdatedAt = f.CreatedAt
	}
	return f
}

func (s *MemorySource) ListModules(ctx context.Context) ([]Module, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Module, 0, len(s.modules))
	for _, m := range s.modules {
		out = append(out, m)
	}
	sortModules(out)
	return out, nil
}

func (s *MemorySource) ListFeatures(ctx context.Context, filter Filter) ([]Feature, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Feature, 0, len(s.features))
	for _, f := range s.features {
		if filter.Match(f) {
			out = append(out, f.Clone())
		}
	}
	sortFeatures(out)
	return out, nil
}

func (s *MemorySource) GetFeature(ctx context.Context, slug string) (Feature, error) {
	s.mu.RLock()
	f, ok := s.features[slug]
	s.mu.RUnlock()

	if !ok {
		return Feature{}, errors.Join(ErrFeatureNotFound, fmt.Errorf("feature %q", slug))
	}
	return f.Clone(), nil
}

func (s *MemorySource) Resolve(ctx context.Context, slugs []string) ([]Feature, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return resolveOrdered(slugs, func(slug string) (Feature, bool) {
		f, ok := s.features[slug]
		return f.Clone(), ok
	})
}

// CreateFeature stores a new feature and sets its ID and timestamps on f.
func (s *MemorySource) CreateFeature(ctx context.Context, f *Feature) error {
	if f == nil {
		return errors.Join(ErrInvalidFeature, errors.New("feature cannot be nil"))
	}
	if err := f.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.features[f.Slug]; exists {
		return errors.Join(ErrDuplicateFeature, fmt.Errorf("feature %q", f.Slug))
	}

	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	f.CreatedAt = time.Now()
	f.UpdatedAt = f.CreatedAt
	s.features[f.Slug] = f.Clone()
	return nil
}

// UpdateFeature replaces an existing feature, keeping its ID and creation time.
func (s *MemorySource) UpdateFeature(ctx context.Context, f *Feature) error {
	if f == nil {
		return errors.Join(ErrInvalidFeature, errors.New("feature cannot be nil"))
	}
	if err := f.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.features[f.Slug]
	if !ok {
		return errors.Join(ErrFeatureNotFound, fmt.Errorf("feature %q", f.Slug))
	}

	f.ID = existing.ID
	f.CreatedAt = existing.CreatedAt
	f.UpdatedAt = time.Now()
	s.features[f.Slug] = f.Clone()
	return nil
}

func (s *MemorySource) DeleteFeature(ctx context.Context, slug string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.features[slug]; !ok {
		return errors.Join(ErrFeatureNotFound, fmt.Errorf("feature %q", slug))
	}
	delete(s.features, slug)
	return nil
}

// resolveOrdered looks up slugs in order, collapsing repeats and collecting
// every unknown slug into one ErrFeatureNotFound error.
func resolveOrdered(slugs []string, get func(string) (Feature, bool)) ([]Feature, error) {
	out := make([]Feature, 0, len(slugs))
	seen := make(map[string]struct{}, len(slugs))
	var unknown []string

	for _, slug := range slugs {
		if _, dup := seen[slug]; dup {
			continue
		}
		seen[slug] = struct{}{}

		f, ok := get(slug)
		if !ok {
			unknown = append(unknown, slug)
			continue
		}
		out = append(out, f)
	}

	if len(unknown) > 0 {
		return nil, errors.Join(ErrFeatureNotFound, fmt.Errorf("unknown features: %s", strings.Join(unknown, ", ")))
	}
	return out, nil
}
