package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/forgekit/pkg/logger"
)

type ctxKey struct{}

func decode(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("json defaults", func(t *testing.T) {
		t.Parallel()
		buf := &bytes.Buffer{}
		log := logger.New(logger.WithOutput(buf))
		log.Debug("hidden")
		log.Info("hello", logger.Target("backend"))

		entry := decode(t, buf)
		assert.Equal(t, "INFO", entry["level"])
		assert.Equal(t, "hello", entry["msg"])
		assert.Equal(t, "backend", entry["target"])
	})

	t.Run("text format", func(t *testing.T) {
		t.Parallel()
		buf := &bytes.Buffer{}
		log := logger.New(logger.WithOutput(buf), logger.WithFormat(logger.FormatText))
		log.Info("hello")
		assert.Contains(t, buf.String(), "msg=hello")
	})

	t.Run("invalid format panics", func(t *testing.T) {
		t.Parallel()
		assert.Panics(t, func() { logger.New(logger.WithFormat("xml")) })
	})

	t.Run("static attrs and context values", func(t *testing.T) {
		t.Parallel()
		buf := &bytes.Buffer{}
		log := logger.New(
			logger.WithOutput(buf),
			logger.WithAttr(slog.String("svc", "forgekit")),
			logger.WithContextValue("composition_id", ctxKey{}),
		)
		ctx := context.WithValue(context.Background(), ctxKey{}, "c-42")
		log.With(logger.Component("compose")).InfoContext(ctx, "done")

		entry := decode(t, buf)
		assert.Equal(t, "forgekit", entry["svc"])
		assert.Equal(t, "c-42", entry["composition_id"])
		assert.Equal(t, "compose", entry["component"])
	})

	t.Run("environment defaults", func(t *testing.T) {
		t.Parallel()
		buf := &bytes.Buffer{}
		log := logger.New(logger.WithOutput(buf), logger.WithEnvironment("prod", "forgekit"))
		log.Debug("hidden")
		log.Info("shown")

		entry := decode(t, buf)
		assert.Equal(t, "prod", entry["env"])
		assert.Equal(t, "forgekit", entry["service"])
	})
}

func TestAttrs(t *testing.T) {
	t.Parallel()

	assert.Equal(t, slog.Attr{}, logger.Error(nil))
	assert.Equal(t, "error", logger.Error(errors.New("boom")).Key)
	assert.Equal(t, slog.Attr{}, logger.CompositionID(nil))
	assert.Equal(t, time.Second, logger.Duration(time.Second).Value.Duration())

	buf := &bytes.Buffer{}
	log := logger.New(logger.WithOutput(buf))
	log.Info("conflict", logger.Conflict("lodash", "^4.17.21", []string{"^4.17.0"}, []string{"dependencies"}))

	entry := decode(t, buf)
	conflict, ok := entry["conflict"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "lodash", conflict["package"])
	assert.Equal(t, []any{"^4.17.0"}, conflict["alternatives"])
	assert.Equal(t, []any{"dependencies"}, conflict["namespaces"])
}

func TestParse(t *testing.T) {
	t.Parallel()

	f, err := logger.ParseFormat("TEXT")
	require.NoError(t, err)
	assert.Equal(t, logger.FormatText, f)
	_, err = logger.ParseFormat("xml")
	assert.Error(t, err)

	l, err := logger.ParseLevel("warn")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, l)
	_, err = logger.ParseLevel("loud")
	assert.Error(t, err)
}
