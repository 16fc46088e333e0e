package stager

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// DirStore keeps objects as files under root/bucket. It is used for local
// runs and tests.
type DirStore struct {
	root   string
	bucket string
}

// NewDirStore returns a DirStore rooted at root.
func NewDirStore(root, bucket string) *DirStore {
	return &DirStore{root: root, bucket: bucket}
}

// Path returns the local path of the object stored at key.
func (s *DirStore) Path(key string) string {
	return filepath.Join(s.root, s.bucket, filepath.FromSlash(key))
}

// EnsureBucket creates the bucket directory if it does not exist.
func (s *DirStore) EnsureBucket(_ context.Context) error {
	dir := filepath.Join(s.root, s.bucket)
	info, err := os.Stat(dir)
	switch {
	case err == nil && info.IsDir():
		return nil
	case err == nil:
		return &StorageError{Op: "head bucket", Key: s.bucket, Err: errors.New("not a directory")}
	case !errors.Is(err, fs.ErrNotExist):
		return &StorageError{Op: "head bucket", Key: s.bucket, Err: err}
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &StorageError{Op: "create bucket", Key: s.bucket, Err: err}
	}
	return nil
}

func (s *DirStore) PutFile(_ context.Context, key, localPath string) error {
	if err := copyFile(localPath, s.Path(key)); err != nil {
		return &StorageError{Op: "put", Key: key, Err: err}
	}
	return nil
}

func (s *DirStore) GetFile(_ context.Context, key, localPath string) error {
	if err := copyFile(s.Path(key), localPath); err != nil {
		return &StorageError{Op: "get", Key: key, Err: err}
	}
	return nil
}

// copyFile copies src to dst, creating parent directories as needed.
func copyFile(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
