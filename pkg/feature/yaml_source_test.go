package feature_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/forgekit/pkg/feature"
)

const catalogYAML = `
modules:
  - slug: auth
    name: Authentication
    category: security
    display_order: 1
  - name: Billing & Payments
    display_order: 2
features:
  - slug: user-auth
    module: auth
    name: User Auth
    price: 0
    tier: free
    npm_packages:
      - {name: bcrypt, version: ^5.1.0}
      - {name: "@types/bcrypt", version: ^5.0.0, dev: true}
    env_vars:
      - {key: JWT_SECRET, required: true}
  - name: Stripé Checkout
    module: billing-payments
    price: 4900
    tier: pro
    active: false
    requires: [user-auth]
    conflicts: [paddle-checkout]
    file_mappings:
      - {source: billing/stripe.ts, destination: src/billing/stripe.ts}
`

func TestParseYAML(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	src, err := feature.ParseYAML([]byte(catalogYAML))
	require.NoError(t, err)

	modules, err := src.ListModules(ctx)
	require.NoError(t, err)
	require.Len(t, modules, 2)
	assert.Equal(t, "billing-payments", modules[1].Slug, "slug derived from name")

	auth, err := src.GetFeature(ctx, "user-auth")
	require.NoError(t, err)
	assert.True(t, auth.IsActive, "active defaults to true")
	assert.Equal(t, modules[0].ID, auth.ModuleID)
	require.Len(t, auth.NPMPackages, 2)
	assert.True(t, auth.NPMPackages[1].Dev)
	require.NotNil(t, auth.Tier)
	assert.Equal(t, feature.TierFree, *auth.Tier)

	stripe, err := src.GetFeature(ctx, "stripe-checkout")
	require.NoError(t, err)
	assert.False(t, stripe.IsActive)
	assert.Equal(t, []string{"user-auth"}, stripe.Requires)
	assert.Equal(t, modules[1].ID, stripe.ModuleID)
	assert.Equal(t, int64(4900), stripe.Price)

	again, err := feature.ParseYAML([]byte(catalogYAML))
	require.NoError(t, err)
	stripeAgain, err := again.GetFeature(ctx, "stripe-checkout")
	require.NoError(t, err)
	assert.Equal(t, stripe.ID, stripeAgain.ID, "ids are deterministic")
}

func TestParseYAML_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		doc  string
		err  error
	}{
		{"syntax", "modules: [", feature.ErrInvalidCatalog},
		{"unknown field", "features:\n  - slug: a\n    name: A\n    colour: red\n", feature.ErrInvalidCatalog},
		{"unknown module", "features:\n  - slug: a\n    name: A\n    module: ghost\n", feature.ErrModuleNotFound},
		{"invalid record", "features:\n  - slug: a\n    name: A\n    price: -1\n", feature.ErrInvalidFeature},
		{"bad id", "features:\n  - slug: a\n    id: nope\n    name: A\n", feature.ErrInvalidCatalog},
		{"duplicate module", "modules:\n  - {slug: m, name: M}\n  - {slug: m, name: M2}\n", feature.ErrInvalidCatalog},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := feature.ParseYAML([]byte(tt.doc))
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestYAMLSource_Reload(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "features.yaml")
	require.NoError(t, os.WriteFile(path, []byte(catalogYAML), 0o600))

	src, err := feature.LoadYAML(path)
	require.NoError(t, err)

	id := "0b6d3f57-3c0e-4a8b-9a43-8c6f2f0f4a11"
	updated := "features:\n  - slug: audit-log\n    id: " + id + "\n    name: Audit Log\n"
	require.NoError(t, os.WriteFile(path, []byte(updated), 0o600))
	require.NoError(t, src.Reload())

	all, err := src.ListFeatures(ctx, feature.Filter{})
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, uuid.MustParse(id), all[0].ID)

	require.NoError(t, os.WriteFile(path, []byte("features: ["), 0o600))
	require.ErrorIs(t, src.Reload(), feature.ErrInvalidCatalog)

	all, err = src.ListFeatures(ctx, feature.Filter{})
	require.NoError(t, err)
	assert.Len(t, all, 1, "failed reload keeps the previous catalog")

	_, err = feature.LoadYAML(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, feature.ErrInvalidCatalog)
}
