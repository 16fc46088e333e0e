package stager

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"slices"

	"github.com/dustin/go-humanize"

	"github.com/me/wfsynth/internal/logging"
)

// DefaultStagingDir is the local scratch directory placeholders are written to.
const DefaultStagingDir = "temp"

// ErrStagingDirExists is returned by StageAll when the staging directory is
// already present.
var ErrStagingDirExists = errors.New("staging directory already exists")

// BlobStager uploads zero-filled placeholder files of declared sizes.
type BlobStager struct {
	Store ObjectStore

	// Folder is the key prefix; objects land at Folder/name.
	Folder string

	// StagingDir holds placeholders while they upload. Empty means
	// DefaultStagingDir.
	StagingDir string

	Logger *slog.Logger
}

// Key returns the object key for a file name.
func (s *BlobStager) Key(name string) string {
	return path.Join(s.Folder, name)
}

func (s *BlobStager) stagingDir() string {
	if s.StagingDir == "" {
		return DefaultStagingDir
	}
	return s.StagingDir
}

// Put writes a sparse file of exactly size bytes into the staging directory,
// uploads it as name and removes it. The staging directory is created if
// missing. Uploading the same name again overwrites the object.
func (s *BlobStager) Put(ctx context.Context, name string, size int64) error {
	if size < 0 {
		return fmt.Errorf("stage %s: negative size %d", name, size)
	}
	if err := os.MkdirAll(s.stagingDir(), 0o755); err != nil {
		return fmt.Errorf("stage %s: %w", name, err)
	}
	f, err := os.CreateTemp(s.stagingDir(), "blob-*")
	if err != nil {
		return fmt.Errorf("stage %s: %w", name, err)
	}
	tmp := f.Name()
	defer os.Remove(tmp)

	if err := f.Truncate(size); err != nil {
		f.Close()
		return fmt.Errorf("stage %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("stage %s: %w", name, err)
	}

	return s.Store.PutFile(ctx, s.Key(name), tmp)
}

// Get downloads the object for name to dest.
func (s *BlobStager) Get(ctx context.Context, name, dest string) error {
	return s.Store.GetFile(ctx, s.Key(name), dest)
}

// StageAll ensures the bucket exists and uploads one placeholder per entry of
// files, in name order. It fails with ErrStagingDirExists if the staging
// directory is already present. On success the staging directory is removed;
// a mid-run failure leaves it in place.
func (s *BlobStager) StageAll(ctx context.Context, files map[string]int64) error {
	log := logging.Component(s.Logger, "stager")

	if err := s.Store.EnsureBucket(ctx); err != nil {
		return err
	}

	dir := s.stagingDir()
	if err := os.Mkdir(dir, 0o755); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("%w: %s", ErrStagingDirExists, dir)
		}
		return fmt.Errorf("create staging directory: %w", err)
	}

	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	slices.Sort(names)

	var total int64
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return err
		}
		size := files[name]
		if err := s.Put(ctx, name, size); err != nil {
			return err
		}
		total += size
		log.Info("staged file", "key", s.Key(name), "size", humanize.IBytes(uint64(size)))
	}

	if err := os.Remove(dir); err != nil {
		return fmt.Errorf("remove staging directory: %w", err)
	}
	log.Info("staging complete", "files", len(names), "total", humanize.IBytes(uint64(total)))
	return nil
}
