package file

import (
	"context"
	"fmt"
	"path"
	"strings"
)

// DefaultMaxReadSize bounds Read for manifests and other template files.
const DefaultMaxReadSize int64 = 1 << 20

// Entry is a file or directory returned by List.
type Entry struct {
	Name  string
	Path  string
	IsDir bool
	Size  int64
}

// Storage is a slash-path keyed blob store holding project templates.
type Storage interface {
	// Read returns the whole content of a file.
	Read(ctx context.Context, path string) ([]byte, error)
	// Write creates or replaces a file.
	Write(ctx context.Context, path string, data []byte) error
	Exists(ctx context.Context, path string) bool
	// List returns the direct children of dir.
	List(ctx context.Context, dir string) ([]Entry, error)
}

// cleanKey normalises a slash path relative to the storage root. Parent
// segments are rejected outright.
func cleanKey(p string) (string, error) {
	if strings.ContainsAny(p, "\\\x00") {
		return "", fmt.Errorf("%w: %q", ErrInvalidPath, p)
	}
	for _, seg := range strings.Split(p, "/") {
		if seg == ".." {
			return "", fmt.Errorf("%w: %q", ErrInvalidPath, p)
		}
	}
	return strings.TrimPrefix(path.Clean("/"+p), "/"), nil
}
