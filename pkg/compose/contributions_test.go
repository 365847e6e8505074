package compose_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/forgekit/pkg/compose"
	"github.com/dmitrymomot/forgekit/pkg/feature"
)

func TestAggregate(t *testing.T) {
	t.Parallel()

	t.Run("empty selection", func(t *testing.T) {
		t.Parallel()
		c := compose.Aggregate(nil)
		assert.NotNil(t, c.Files)
		assert.NotNil(t, c.EnvConflicts)
		assert.False(t, c.HasConflicts())
	})

	t.Run("selection order and conflicts", func(t *testing.T) {
		t.Parallel()

		auth := feature.Feature{
			Slug: "auth",
			FileMappings: []feature.FileMapping{
				{Source: "features/auth/routes.ts", Destination: "src/routes/auth.ts"},
				{Source: "shared/env.ts", Destination: "src/env.ts"},
			},
			SchemaMappings: []feature.SchemaMapping{{Model: "User", Fragment: "email String @unique"}},
			EnvVars: []feature.EnvVar{
				{Key: "JWT_SECRET", Required: true},
				{Key: "APP_URL", Default: "http://localhost:3000"},
			},
		}
		billing := feature.Feature{
			Slug: "billing",
			FileMappings: []feature.FileMapping{
				{Source: "shared/env.ts", Destination: "src/env.ts"},
				{Source: "features/billing/env.ts", Destination: "src/env.ts"},
			},
			SchemaMappings: []feature.SchemaMapping{
				{Model: "User", Fragment: "email String @unique"},
				{Model: "User", Fragment: "stripeCustomerId String?"},
			},
			EnvVars: []feature.EnvVar{
				{Key: "APP_URL", Default: "https://acme.dev", Required: true},
				{Key: "STRIPE_KEY", Required: true},
			},
		}

		c := compose.Aggregate([]feature.Feature{auth, billing})

		require.Len(t, c.Files, 2)
		assert.Equal(t, "auth", c.Files[1].Feature)
		assert.Equal(t, "src/env.ts", c.Files[1].Destination)

		require.Len(t, c.FileConflicts, 1)
		assert.Equal(t, "src/env.ts", c.FileConflicts[0].Destination)
		assert.Equal(t, "shared/env.ts", c.FileConflicts[0].Kept.Source)
		assert.Equal(t, "billing", c.FileConflicts[0].Dropped.Feature)
		assert.Equal(t, "features/billing/env.ts", c.FileConflicts[0].Dropped.Source)

		require.Len(t, c.Schemas, 2)
		assert.Equal(t, "auth", c.Schemas[0].Feature)
		assert.Equal(t, "billing", c.Schemas[1].Feature)

		keys := make([]string, len(c.EnvVars))
		for i, v := range c.EnvVars {
			keys[i] = v.Key
		}
		assert.Equal(t, []string{"JWT_SECRET", "APP_URL", "STRIPE_KEY"}, keys)
		assert.Equal(t, "http://localhost:3000", c.EnvVars[1].Default)
		assert.True(t, c.EnvVars[1].Required)

		require.Len(t, c.EnvConflicts, 1)
		assert.Equal(t, "APP_URL", c.EnvConflicts[0].Key)
		assert.Equal(t, "https://acme.dev", c.EnvConflicts[0].Dropped.Default)
		assert.True(t, c.HasConflicts())
	})
}
