package compose

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/forgekit/pkg/feature"
	"github.com/dmitrymomot/forgekit/pkg/logger"
	"github.com/dmitrymomot/forgekit/pkg/manifest"
	"github.com/dmitrymomot/forgekit/pkg/validator"
)

// maxProjectNameLength matches the npm package name limit.
const maxProjectNameLength = 214

// IDContextKey carries the composition ID in the request context. Pass it to
// logger.WithContextValue to tag every log record of a composition.
type IDContextKey struct{}

// IDFromContext returns the composition ID set by Compose.
func IDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(IDContextKey{}).(uuid.UUID)
	return id, ok
}

// Request asks for one manifest. Features must already be resolved.
type Request struct {
	Target      string            `json:"target"`
	ProjectName string            `json:"projectName"`
	Features    []feature.Feature `json:"features"`
}

// Validate checks the target and project name and rejects inactive features.
func (r Request) Validate() error {
	err := validator.Apply(
		validator.Matches("target", r.Target, targetPattern, "target name"),
		validator.Required("project_name", r.ProjectName),
		validator.ValidUTF8("project_name", r.ProjectName),
		validator.MaxLen("project_name", r.ProjectName, maxProjectNameLength),
	)
	if err != nil {
		return errors.Join(ErrInvalidRequest, err)
	}

	var inactive []string
	for _, f := range r.Features {
		if !f.IsActive {
			inactive = append(inactive, f.Slug)
		}
	}
	if len(inactive) > 0 {
		return errors.Join(ErrInvalidRequest, feature.ErrInactiveFeature,
			fmt.Errorf("inactive features: %s", strings.Join(inactive, ", ")))
	}
	return nil
}

// Result is a composed manifest with everything the caller needs to report.
type Result struct {
	ID     uuid.UUID `json:"id"`
	Target string    `json:"target"`
	// Manifest is the encoded package.json.
	Manifest      []byte                     `json:"manifest"`
	Assembly      manifest.Assembly          `json:"assembly"`
	Conflicts     []manifest.VersionConflict `json:"versionConflicts"`
	Contributions Contributions              `json:"contributions"`
	// Fingerprint is the hex SHA-256 of Manifest.
	Fingerprint string `json:"fingerprint"`
	Cached      bool   `json:"cached,omitempty"`
}

// Composer runs the composition pipeline. It holds no per-request state and
// is safe for concurrent use.
type Composer struct {
	manifests ManifestSource
	catalog   feature.Source
	cache     Cache
	metrics   *Metrics
	log       *slog.Logger
	platform  string
	scripts   manifest.Scripts
	now       func() time.Time
}

type Option func(*Composer)

// WithCatalog enables ComposeSlugs.
func WithCatalog(src feature.Source) Option {
	return func(c *Composer) { c.catalog = src }
}

func WithCache(cache Cache) Option {
	return func(c *Composer) { c.cache = cache }
}

func WithMetrics(m *Metrics) Option {
	return func(c *Composer) { c.metrics = m }
}

func WithLogger(log *slog.Logger) Option {
	return func(c *Composer) {
		if log != nil {
			c.log = log
		}
	}
}

// WithPlatform sets the label used in generated descriptions.
func WithPlatform(label string) Option {
	return func(c *Composer) { c.platform = label }
}

// WithDefaultScripts replaces manifest.DefaultScripts.
func WithDefaultScripts(scripts manifest.Scripts) Option {
	return func(c *Composer) { c.scripts = scripts }
}

// WithClock overrides time.Now for duration measurements.
func WithClock(now func() time.Time) Option {
	return func(c *Composer) { c.now = now }
}

// New returns a composer reading base manifests from manifests.
func New(manifests ManifestSource, opts ...Option) (*Composer, error) {
	if manifests == nil {
		return nil, errors.Join(ErrConfiguration, errors.New("manifest source is required"))
	}
	c := &Composer{
		manifests: manifests,
		log:       logger.Nop(),
		platform:  manifest.DefaultPlatform,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.With(logger.Component("compose"))
	return c, nil
}

// ComposeSlugs resolves slugs through the catalog and composes the result.
// Unknown slugs are reported as ErrInvalidRequest joined with
// feature.ErrFeatureNotFound.
func (c *Composer) ComposeSlugs(ctx context.Context, target, projectName string, slugs []string) (*Result, error) {
	if c.catalog == nil {
		return nil, errors.Join(ErrConfiguration, errors.New("no feature catalog configured"))
	}
	features, err := c.catalog.Resolve(ctx, slugs)
	if err != nil {
		if errors.Is(err, feature.ErrFeatureNotFound) {
			c.metrics.observe(target, OutcomeInvalid, 0)
			return nil, errors.Join(ErrInvalidRequest, err)
		}
		return nil, err
	}
	return c.Compose(ctx, Request{Target: target, ProjectName: projectName, Features: features})
}

// Compose validates req, checks feature compatibility, reads the base
// manifest, merges every npm package the features declare and assembles the
// final manifest. An incompatible selection returns *feature.CompatibilityError
// and nothing is merged. Version conflicts are not errors; they are returned
// in Result.Conflicts.
func (c *Composer) Compose(ctx context.Context, req Request) (*Result, error) {
	start := c.now()
	id := uuid.New()
	ctx = context.WithValue(ctx, IDContextKey{}, id)
	log := c.log.With(logger.Target(req.Target), logger.Project(req.ProjectName))

	log.DebugContext(ctx, "composition started", logger.Features(slugs(req.Features)))

	if err := req.Validate(); err != nil {
		c.metrics.observe(req.Target, OutcomeInvalid, 0)
		return nil, err
	}

	if compat := feature.CheckCompatibility(req.Features); !compat.OK {
		err := compat.Err()
		log.WarnContext(ctx, "incompatible feature selection", logger.Error(err))
		c.metrics.observe(req.Target, OutcomeIncompatible, 0)
		return nil, err
	}

	raw, err := c.manifests.BaseManifest(ctx, req.Target)
	if err != nil {
		if !errors.Is(err, ErrConfiguration) {
			err = errors.Join(ErrConfiguration, err)
		}
		return nil, c.fail(ctx, log, req.Target, err)
	}
	base, err := manifest.Parse(raw)
	if err != nil {
		return nil, c.fail(ctx, log, req.Target, errors.Join(ErrConfiguration, err))
	}

	key := c.lookupKey(ctx, log, req, raw)
	if res := c.cached(ctx, log, key); res != nil {
		res.ID = id
		c.metrics.observe(req.Target, OutcomeSuccess, c.now().Sub(start))
		return res, nil
	}

	var pkgs []manifest.Package
	for _, f := range req.Features {
		pkgs = append(pkgs, f.NPMPackages...)
	}
	merged := manifest.Merge(base.Dependencies, base.DevDependencies, pkgs)

	opts := []manifest.AssembleOption{manifest.WithPlatform(c.platform)}
	if c.scripts != nil {
		opts = append(opts, manifest.WithDefaultScripts(c.scripts))
	}
	asm := manifest.Assemble(base, req.ProjectName, merged, opts...)

	out, err := manifest.Encode(asm.Manifest)
	if err != nil {
		return nil, c.fail(ctx, log, req.Target, errors.Join(ErrEncodingFailed, err))
	}
	sum := sha256.Sum256(out)

	res := &Result{
		ID:            id,
		Target:        req.Target,
		Manifest:      out,
		Assembly:      asm,
		Conflicts:     merged.Conflicts,
		Contributions: Aggregate(req.Features),
		Fingerprint:   hex.EncodeToString(sum[:]),
	}

	for _, vc := range res.Conflicts {
		log.InfoContext(ctx, "version conflict resolved",
			logger.Conflict(vc.Package, vc.Selected, vc.Alternatives, vc.NamespaceNames()))
	}
	c.metrics.conflicts(req.Target, len(res.Conflicts))

	if key != "" && c.cache != nil {
		if err := c.cache.Set(ctx, key, res); err != nil {
			log.WarnContext(ctx, "failed to cache composition", logger.Error(err))
		}
	}

	d := c.now().Sub(start)
	c.metrics.observe(req.Target, OutcomeSuccess, d)
	log.InfoContext(ctx, "composition completed",
		slog.Int("features", len(req.Features)),
		slog.Int("added_dependencies", len(asm.AddedDependencies)),
		slog.Int("added_dev_dependencies", len(asm.AddedDevDependencies)),
		slog.Int("version_conflicts", len(res.Conflicts)),
		logger.Duration(d),
	)
	return res, nil
}

func (c *Composer) fail(ctx context.Context, log *slog.Logger, target string, err error) error {
	log.ErrorContext(ctx, "composition failed", logger.Error(err))
	c.metrics.observe(target, OutcomeError, 0)
	return err
}

func (c *Composer) lookupKey(ctx context.Context, log *slog.Logger, req Request, raw []byte) string {
	if c.cache == nil {
		return ""
	}
	key, err := CacheKey(req.Target, req.ProjectName, raw, req.Features)
	if err != nil {
		log.WarnContext(ctx, "failed to derive cache key", logger.Error(err))
		return ""
	}
	return key
}

func (c *Composer) cached(ctx context.Context, log *slog.Logger, key string) *Result {
	if key == "" {
		return nil
	}
	res, err := c.cache.Get(ctx, key)
	switch {
	case err == nil:
		c.metrics.cacheLookup("hit")
		log.DebugContext(ctx, "composition served from cache", slog.String("fingerprint", res.Fingerprint))
		hit := *res
		hit.Cached = true
		return &hit
	case errors.Is(err, ErrCacheMiss):
		c.metrics.cacheLookup("miss")
	default:
		c.metrics.cacheLookup("error")
		log.WarnContext(ctx, "composition cache lookup failed", logger.Error(err))
	}
	return nil
}

func slugs(features []feature.Feature) []string {
	out := make([]string, len(features))
	for i, f := range features {
		out[i] = f.Slug
	}
	return out
}
