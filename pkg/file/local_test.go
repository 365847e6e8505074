package file_test

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/forgekit/pkg/file"
)

func TestNewLocalStorage(t *testing.T) {
	t.Parallel()

	_, err := file.NewLocalStorage("")
	assert.ErrorIs(t, err, file.ErrInvalidConfig)

	dir := filepath.Join(t.TempDir(), "nested", "templates")
	_, err = file.NewLocalStorage(dir)
	require.NoError(t, err)
	assert.DirExists(t, dir)
}

func TestLocalStorage_ReadWrite(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	s, err := file.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, s.Write(ctx, "templates/backend/package.json", []byte(`{"name":"base"}`)))
	assert.True(t, s.Exists(ctx, "templates/backend/package.json"))
	assert.True(t, s.Exists(ctx, "/templates/backend/package.json"), "leading slash is relative to root")

	data, err := s.Read(ctx, "templates/backend/package.json")
	require.NoError(t, err)
	assert.Equal(t, `{"name":"base"}`, string(data))

	require.NoError(t, s.Write(ctx, "templates/backend/package.json", []byte(`{}`)))
	data, err = s.Read(ctx, "./templates/backend/package.json")
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(data))

	_, err = s.Read(ctx, "templates/web/package.json")
	assert.ErrorIs(t, err, file.ErrFileNotFound)

	_, err = s.Read(ctx, "templates")
	assert.ErrorIs(t, err, file.ErrIsDirectory)
}

func TestLocalStorage_PathTraversal(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	root := t.TempDir()
	s, err := file.NewLocalStorage(filepath.Join(root, "inner"))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(root, "secret.txt"), []byte("x"), 0o600))

	for _, p := range []string{"../secret.txt", "a/../../secret.txt", `..\secret.txt`} {
		_, err := s.Read(ctx, p)
		assert.ErrorIs(t, err, file.ErrInvalidPath, p)
		assert.ErrorIs(t, s.Write(ctx, p, []byte("y")), file.ErrInvalidPath, p)
		assert.False(t, s.Exists(ctx, p), p)
	}
}

func TestLocalStorage_MaxReadSize(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	s, err := file.NewLocalStorage(t.TempDir(), file.WithLocalMaxReadSize(4))
	require.NoError(t, err)

	require.NoError(t, s.Write(ctx, "small", []byte("1234")))
	require.NoError(t, s.Write(ctx, "large", []byte("12345")))

	_, err = s.Read(ctx, "small")
	assert.NoError(t, err)
	_, err = s.Read(ctx, "large")
	assert.ErrorIs(t, err, file.ErrFileTooLarge)
}

func TestLocalStorage_List(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	s, err := file.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, s.Write(ctx, "templates/backend/package.json", []byte("{}")))
	require.NoError(t, s.Write(ctx, "templates/web/package.json", []byte("{}")))
	require.NoError(t, s.Write(ctx, "templates/README.md", []byte("# templates")))

	entries, err := s.List(ctx, "templates")
	require.NoError(t, err)
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })

	require.Len(t, entries, 3)
	assert.Equal(t, file.Entry{Name: "README.md", Path: "templates/README.md", Size: 11}, entries[0])
	assert.Equal(t, file.Entry{Name: "backend", Path: "templates/backend", IsDir: true}, entries[1])
	assert.True(t, entries[2].IsDir)

	_, err = s.List(ctx, "missing")
	assert.ErrorIs(t, err, file.ErrDirectoryNotFound)
	_, err = s.List(ctx, "templates/README.md")
	assert.ErrorIs(t, err, file.ErrNotDirectory)
}

func TestLocalStorage_CanceledContext(t *testing.T) {
	t.Parallel()

	s, err := file.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = s.Read(ctx, "x")
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, s.Write(ctx, "x", nil), context.Canceled)
}
