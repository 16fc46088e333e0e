// Package stager materializes placeholder blobs for a workflow's files and
// uploads them to object storage.
package stager

import (
	"context"
	"fmt"

	"github.com/me/wfsynth/internal/config"
)

// ObjectStore is a bucket in an object storage service.
type ObjectStore interface {
	// EnsureBucket creates the bucket if the service reports it missing.
	// Any other failure is returned.
	EnsureBucket(ctx context.Context) error

	// PutFile uploads the local file to key, overwriting any existing object.
	PutFile(ctx context.Context, key, localPath string) error

	// GetFile downloads key to localPath.
	GetFile(ctx context.Context, key, localPath string) error
}

// StorageError records a failed object-storage operation.
type StorageError struct {
	Op  string // "head bucket", "create bucket", "put", "get"
	Key string // bucket for bucket operations, object key otherwise
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s %s: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// NewStore returns the ObjectStore selected by cfg.Backend.
func NewStore(ctx context.Context, cfg config.StorageConfig) (ObjectStore, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	switch cfg.Backend {
	case config.BackendS3:
		return NewS3Store(ctx, cfg)
	case config.BackendMinio:
		return NewMinioStore(cfg)
	case config.BackendDir:
		return NewDirStore(cfg.Endpoint, cfg.Bucket), nil
	default:
		return nil, fmt.Errorf("storage: unknown backend %q", cfg.Backend)
	}
}
