package file

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// LocalStorage serves files below a base directory on the local filesystem.
type LocalStorage struct {
	baseDir     string
	maxReadSize int64
}

type LocalOption func(*LocalStorage)

// WithLocalMaxReadSize overrides DefaultMaxReadSize.
func WithLocalMaxReadSize(n int64) LocalOption {
	return func(s *LocalStorage) {
		s.maxReadSize = n
	}
}

// NewLocalStorage resolves baseDir to an absolute path and creates it when missing.
func NewLocalStorage(baseDir string, opts ...LocalOption) (*LocalStorage, error) {
	if baseDir == "" {
		return nil, ErrInvalidConfig
	}
	abs, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, errors.Join(ErrFailedToGetAbsolutePath, err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, errors.Join(ErrFailedToCreateDirectory, err)
	}

	s := &LocalStorage{baseDir: abs, maxReadSize: DefaultMaxReadSize}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *LocalStorage) Read(ctx context.Context, p string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	abs, err := s.resolve(p)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(abs)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, p)
		}
		return nil, errors.Join(ErrFailedToReadFile, err)
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		return nil, errors.Join(ErrFailedToStatPath, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrIsDirectory, p)
	}

	data, err := io.ReadAll(io.LimitReader(f, s.maxReadSize+1))
	if err != nil {
		return nil, errors.Join(ErrFailedToReadFile, err)
	}
	if int64(len(data)) > s.maxReadSize {
		return nil, fmt.Errorf("%w: %s", ErrFileTooLarge, p)
	}
	return data, nil
}

// Write replaces the file atomically by renaming a temporary sibling.
func (s *LocalStorage) Write(ctx context.Context, p string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	abs, err := s.resolve(p)
	if err != nil {
		return err
	}
	if abs == s.baseDir {
		return fmt.Errorf("%w: %s", ErrIsDirectory, p)
	}

	dir := filepath.Dir(abs)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Join(ErrFailedToCreateDirectory, err)
	}

	tmp, err := os.CreateTemp(dir, ".forgekit-*")
	if err != nil {
		return errors.Join(ErrFailedToWriteFile, err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return errors.Join(ErrFailedToWriteFile, err)
	}
	if err := tmp.Close(); err != nil {
		return errors.Join(ErrFailedToWriteFile, err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return errors.Join(ErrFailedToWriteFile, err)
	}
	if err := os.Rename(tmp.Name(), abs); err != nil {
		return errors.Join(ErrFailedToWriteFile, err)
	}
	return nil
}

func (s *LocalStorage) Exists(ctx context.Context, p string) bool {
	if ctx.Err() != nil {
		return false
	}
	abs, err := s.resolve(p)
	if err != nil {
		return false
	}
	_, err = os.Stat(abs)
	return err == nil
}

func (s *LocalStorage) List(ctx context.Context, dir string) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	abs, err := s.resolve(dir)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(abs)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrDirectoryNotFound, dir)
		}
		return nil, errors.Join(ErrFailedToStatPath, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotDirectory, dir)
	}

	dirEntries, err := os.ReadDir(abs)
	if err != nil {
		return nil, errors.Join(ErrFailedToReadDirectory, err)
	}

	key, _ := cleanKey(dir)
	entries := make([]Entry, 0, len(dirEntries))
	for _, de := range dirEntries {
		if strings.HasPrefix(de.Name(), ".forgekit-") {
			continue
		}
		e := Entry{Name: de.Name(), Path: path.Join(key, de.Name()), IsDir: de.IsDir()}
		if !de.IsDir() {
			fi, err := de.Info()
			if err != nil {
				continue
			}
			e.Size = fi.Size()
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func (s *LocalStorage) resolve(p string) (string, error) {
	key, err := cleanKey(p)
	if err != nil {
		return "", err
	}
	abs := filepath.Join(s.baseDir, filepath.FromSlash(key))
	if abs != s.baseDir && !strings.HasPrefix(abs, s.baseDir+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrInvalidPath, p)
	}
	return abs, nil
}
