package compose

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/dmitrymomot/forgekit/pkg/file"
)

// DefaultManifestPath is the storage path template for base manifests.
const DefaultManifestPath = "templates/{target}/package.json"

var targetPattern = regexp.MustCompile(`^[a-z0-9]+(?:[-_][a-z0-9]+)*$`)

// ManifestSource returns the raw base manifest for a target.
type ManifestSource interface {
	BaseManifest(ctx context.Context, target string) ([]byte, error)
}

// StorageManifestSource reads base manifests from a file.Storage.
type StorageManifestSource struct {
	storage  file.Storage
	template string
}

// NewStorageManifestSource uses DefaultManifestPath when template is empty.
func NewStorageManifestSource(storage file.Storage, template string) *StorageManifestSource {
	if template == "" {
		template = DefaultManifestPath
	}
	return &StorageManifestSource{storage: storage, template: template}
}

// Path returns the storage path of the base manifest for target.
func (s *StorageManifestSource) Path(target string) string {
	return strings.ReplaceAll(s.template, "{target}", target)
}

// BaseManifest reads the manifest once. Every failure, including a missing
// file, is reported as ErrConfiguration.
func (s *StorageManifestSource) BaseManifest(ctx context.Context, target string) ([]byte, error) {
	if !targetPattern.MatchString(target) {
		return nil, errors.Join(ErrConfiguration, fmt.Errorf("invalid target %q", target))
	}
	p := s.Path(target)
	data, err := s.storage.Read(ctx, p)
	if err != nil {
		return nil, errors.Join(ErrConfiguration, fmt.Errorf("base manifest %s", p), err)
	}
	return data, nil
}
