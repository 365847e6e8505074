package feature

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dmitrymomot/forgekit/pkg/pg"
)

// Migrations holds the goose migrations for the catalog tables.
//
//go:embed migrations/*.sql
var Migrations embed.FS

// MigrationsDir is the directory of Migrations that goose should read.
const MigrationsDir = "migrations"

// DB is the subset of *pgxpool.Pool used by PostgresSource.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresSource stores the catalog in PostgreSQL.
type PostgresSource struct {
	db DB
}

func NewPostgresSource(db DB) *PostgresSource {
	return &PostgresSource{db: db}
}

const featureColumns = `id, slug, module_id, name, description, price, tier, is_active,
	requires, conflicts, npm_packages, file_mappings, schema_mappings, env_vars,
	created_at, updated_at`

func (s *PostgresSource) ListModules(ctx context.Context) ([]Module, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, slug, name, category, display_order FROM modules ORDER BY display_order, slug`)
	if err != nil {
		return nil, errors.Join(ErrOperationFailed, err)
	}
	modules, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Module, error) {
		var m Module
		err := row.Scan(&m.ID, &m.Slug, &m.Name, &m.Category, &m.DisplayOrder)
		return m, err
	})
	if err != nil {
		return nil, errors.Join(ErrOperationFailed, err)
	}
	return modules, nil
}

func (s *PostgresSource) ListFeatures(ctx context.Context, filter Filter) ([]Feature, error) {
	query, args := buildListQuery(filter)
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Join(ErrOperationFailed, err)
	}
	features, err := pgx.CollectRows(rows, scanFeature)
	if err != nil {
		return nil, errors.Join(ErrOperationFailed, err)
	}
	return features, nil
}

func buildListQuery(filter Filter) (string, []any) {
	var (
		where []string
		args  []any
	)
	if filter.ModuleID != uuid.Nil {
		args = append(args, filter.ModuleID)
		where = append(where, fmt.Sprintf("module_id = $%d", len(args)))
	}
	if filter.Tier != nil {
		var allowed []string
		for _, t := range Tiers {
			if t.Rank() <= filter.Tier.Rank() {
				allowed = append(allowed, string(t))
			}
		}
		args = append(args, allowed)
		where = append(where, fmt.Sprintf("(tier IS NULL OR tier = ANY($%d))", len(args)))
	}
	if filter.ActiveOnly {
		where = append(where, "is_active")
	}

	query := "SELECT " + featureColumns + " FROM features"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	return query + " ORDER BY slug", args
}

func (s *PostgresSource) GetFeature(ctx context.Context, slug string) (Feature, error) {
	rows, err := s.db.Query(ctx, "SELECT "+featureColumns+" FROM features WHERE slug = $1", slug)
	if err != nil {
		return Feature{}, errors.Join(ErrOperationFailed, err)
	}
	f, err := pgx.CollectExactlyOneRow(rows, scanFeature)
	if pg.IsNotFoundError(err) {
		return Feature{}, errors.Join(ErrFeatureNotFound, fmt.Errorf("feature %q", slug))
	}
	if err != nil {
		return Feature{}, errors.Join(ErrOperationFailed, err)
	}
	return f, nil
}

func (s *PostgresSource) Resolve(ctx context.Context, slugs []string) ([]Feature, error) {
	if len(slugs) == 0 {
		return []Feature{}, nil
	}
	rows, err := s.db.Query(ctx, "SELECT "+featureColumns+" FROM features WHERE slug = ANY($1)", slugs)
	if err != nil {
		return nil, errors.Join(ErrOperationFailed, err)
	}
	found, err := pgx.CollectRows(rows, scanFeature)
	if err != nil {
		return nil, errors.Join(ErrOperationFailed, err)
	}

	bySlug := make(map[string]Feature, len(found))
	for _, f := range found {
		bySlug[f.Slug] = f
	}
	return resolveOrdered(slugs, func(slug string) (Feature, bool) {
		f, ok := bySlug[slug]
		return f, ok
	})
}

// UpsertModule inserts m or updates the module with the same slug.
func (s *PostgresSource) UpsertModule(ctx context.Context, m *Module) error {
	if m == nil {
		return errors.Join(ErrInvalidModule, errors.New("module cannot be nil"))
	}
	if err := m.Validate(); err != nil {
		return err
	}
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}

	err := s.db.QueryRow(ctx, `
		INSERT INTO modules (id, slug, name, category, display_order)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (slug) DO UPDATE SET
			name = EXCLUDED.name,
			category = EXCLUDED.category,
			display_order = EXCLUDED.display_order
		RETURNING id`,
		m.ID, m.Slug, m.Name, m.Category, m.DisplayOrder,
	).Scan(&m.ID)
	if pg.IsDuplicateKeyError(err) {
		return errors.Join(ErrInvalidModule, fmt.Errorf("module id %s is used by another slug", m.ID), err)
	}
	if err != nil {
		return errors.Join(ErrOperationFailed, err)
	}
	return nil
}

// UpsertFeature inserts f or updates the feature with the same slug, then
// reads back the stored ID and timestamps into f.
func (s *PostgresSource) UpsertFeature(ctx context.Context, f *Feature) error {
	if f == nil {
		return errors.Join(ErrInvalidFeature, errors.New("feature cannot be nil"))
	}
	if err := f.Validate(); err != nil {
		return err
	}
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}

	lists := make([][]byte, 0, 6)
	for _, v := range []any{f.Requires, f.Conflicts, f.NPMPackages, f.FileMappings, f.SchemaMappings, f.EnvVars} {
		b, err := jsonList(v)
		if err != nil {
			return errors.Join(ErrInvalidFeature, err)
		}
		lists = append(lists, b)
	}

	var (
		moduleID *uuid.UUID
		tier     *string
	)
	if f.ModuleID != uuid.Nil {
		moduleID = &f.ModuleID
	}
	if f.Tier != nil {
		t := string(*f.Tier)
		tier = &t
	}

	err := s.db.QueryRow(ctx, `
		INSERT INTO features (id, slug, module_id, name, description, price, tier, is_active,
			requires, conflicts, npm_packages, file_mappings, schema_mappings, env_vars)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (slug) DO UPDATE SET
			module_id = EXCLUDED.module_id,
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			price = EXCLUDED.price,
			tier = EXCLUDED.tier,
			is_active = EXCLUDED.is_active,
			requires = EXCLUDED.requires,
			conflicts = EXCLUDED.conflicts,
			npm_packages = EXCLUDED.npm_packages,
			file_mappings = EXCLUDED.file_mappings,
			schema_mappings = EXCLUDED.schema_mappings,
			env_vars = EXCLUDED.env_vars,
			updated_at = now()
		RETURNING id, created_at, updated_at`,
		f.ID, f.Slug, moduleID, f.Name, f.Description, f.Price, tier, f.IsActive,
		lists[0], lists[1], lists[2], lists[3], lists[4], lists[5],
	).Scan(&f.ID, &f.CreatedAt, &f.UpdatedAt)
	if pg.IsDuplicateKeyError(err) {
		return errors.Join(ErrDuplicateFeature, fmt.Errorf("feature id %s is used by another slug", f.ID), err)
	}
	if err != nil {
		return errors.Join(ErrOperationFailed, err)
	}
	return nil
}

func (s *PostgresSource) DeleteFeature(ctx context.Context, slug string) error {
	tag, err := s.db.Exec(ctx, "DELETE FROM features WHERE slug = $1", slug)
	if err != nil {
		return errors.Join(ErrOperationFailed, err)
	}
	if tag.RowsAffected() == 0 {
		return errors.Join(ErrFeatureNotFound, fmt.Errorf("feature %q", slug))
	}
	return nil
}

func scanFeature(row pgx.CollectableRow) (Feature, error) {
	var (
		f        Feature
		moduleID *uuid.UUID
		tier     *string
		lists    [6][]byte
	)
	err := row.Scan(
		&f.ID, &f.Slug, &moduleID, &f.Name, &f.Description, &f.Price, &tier, &f.IsActive,
		&lists[0], &lists[1], &lists[2], &lists[3], &lists[4], &lists[5],
		&f.CreatedAt, &f.UpdatedAt,
	)
	if err != nil {
		return Feature{}, err
	}
	if moduleID != nil {
		f.ModuleID = *moduleID
	}
	if tier != nil {
		t := Tier(*tier)
		f.Tier = &t
	}

	targets := []any{&f.Requires, &f.Conflicts, &f.NPMPackages, &f.FileMappings, &f.SchemaMappings, &f.EnvVars}
	for i, target := range targets {
		if err := json.Unmarshal(lists[i], target); err != nil {
			return Feature{}, fmt.Errorf("feature %q: decode column %d: %w", f.Slug, i, err)
		}
	}
	return f, nil
}

// jsonList encodes a slice for a JSONB column, writing nil slices as [].
func jsonList(v any) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	if string(b) == "null" {
		return []byte("[]"), nil
	}
	return b, nil
}
