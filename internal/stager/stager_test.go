package stager

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/me/wfsynth/internal/config"
)

func newTestStager(t *testing.T) (*BlobStager, *DirStore) {
	t.Helper()
	root := t.TempDir()
	store := NewDirStore(filepath.Join(root, "objects"), "faasr")
	return &BlobStager{
		Store:      store,
		Folder:     "synthetic_files",
		StagingDir: filepath.Join(root, "temp"),
	}, store
}

func TestStageAll(t *testing.T) {
	s, store := newTestStager(t)
	files := map[string]int64{"a.dat": 0, "b.dat": 1536, "nested/c.dat": 10}

	if err := s.StageAll(context.Background(), files); err != nil {
		t.Fatalf("StageAll: %v", err)
	}

	for name, size := range files {
		info, err := os.Stat(store.Path("synthetic_files/" + name))
		if err != nil {
			t.Errorf("object %s: %v", name, err)
			continue
		}
		if info.Size() != size {
			t.Errorf("object %s size = %d, want %d", name, info.Size(), size)
		}
	}
	if _, err := os.Stat(s.StagingDir); !os.IsNotExist(err) {
		t.Errorf("staging dir not removed: %v", err)
	}
}

func TestStageAll_StagingDirExists(t *testing.T) {
	s, store := newTestStager(t)
	if err := os.Mkdir(s.StagingDir, 0o755); err != nil {
		t.Fatal(err)
	}

	err := s.StageAll(context.Background(), map[string]int64{"a": 1})
	if !errors.Is(err, ErrStagingDirExists) {
		t.Fatalf("err = %v, want ErrStagingDirExists", err)
	}
	if _, err := os.Stat(store.Path("synthetic_files/a")); !os.IsNotExist(err) {
		t.Error("object uploaded despite staging dir error")
	}
}

func TestStageAll_CreatesBucket(t *testing.T) {
	s, store := newTestStager(t)
	bucket := filepath.Dir(store.Path("x"))
	if _, err := os.Stat(bucket); !os.IsNotExist(err) {
		t.Fatalf("bucket should not exist yet: %v", err)
	}
	if err := s.StageAll(context.Background(), nil); err != nil {
		t.Fatalf("StageAll: %v", err)
	}
	if info, err := os.Stat(bucket); err != nil || !info.IsDir() {
		t.Errorf("bucket not created: %v", err)
	}
}

func TestPut_OverwritesAndGet(t *testing.T) {
	s, _ := newTestStager(t)
	ctx := context.Background()
	if err := os.Mkdir(s.StagingDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := s.Store.EnsureBucket(ctx); err != nil {
		t.Fatal(err)
	}

	if err := s.Put(ctx, "f", 100); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := s.Put(ctx, "f", 7); err != nil {
		t.Fatalf("second Put: %v", err)
	}

	dest := filepath.Join(t.TempDir(), "out", "f")
	if err := s.Get(ctx, "f", dest); err != nil {
		t.Fatalf("Get: %v", err)
	}
	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatal(err)
	}
	if len(data) != 7 {
		t.Errorf("downloaded %d bytes, want 7", len(data))
	}
	for _, b := range data {
		if b != 0 {
			t.Fatal("placeholder should be zero-filled")
		}
	}

	entries, _ := os.ReadDir(s.StagingDir)
	if len(entries) != 0 {
		t.Errorf("temp files left behind: %v", entries)
	}
}

func TestPut_CreatesStagingDir(t *testing.T) {
	s, store := newTestStager(t)
	ctx := context.Background()
	if err := store.EnsureBucket(ctx); err != nil {
		t.Fatal(err)
	}

	if err := s.Put(ctx, "f", 42); err != nil {
		t.Fatalf("Put without staging dir: %v", err)
	}
	info, err := os.Stat(store.Path(s.Key("f")))
	if err != nil {
		t.Fatalf("object not stored: %v", err)
	}
	if info.Size() != 42 {
		t.Errorf("object size = %d, want 42", info.Size())
	}
}

func TestS3Store_LocalFileErrors(t *testing.T) {
	ctx := context.Background()
	store, err := NewS3Store(ctx, config.StorageConfig{
		Backend:   config.BackendS3,
		Endpoint:  "http://localhost:9000",
		Bucket:    "faasr",
		Region:    "us-east-1",
		AccessKey: "k",
		SecretKey: "s",
	})
	if err != nil {
		t.Fatalf("NewS3Store: %v", err)
	}
	dir := t.TempDir()

	var se *StorageError
	err = store.PutFile(ctx, "k/missing", filepath.Join(dir, "missing"))
	if !errors.As(err, &se) || se.Op != "put" || se.Key != "k/missing" {
		t.Errorf("PutFile err = %v, want *StorageError{put k/missing}", err)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("PutFile err = %v, want wrapped fs.ErrNotExist", err)
	}

	blocker := filepath.Join(dir, "blocker")
	if err := os.WriteFile(blocker, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	err = store.GetFile(ctx, "k/obj", filepath.Join(blocker, "sub", "obj"))
	if !errors.As(err, &se) || se.Op != "get" || se.Key != "k/obj" {
		t.Errorf("GetFile err = %v, want *StorageError{get k/obj}", err)
	}
}

func TestPut_NegativeSize(t *testing.T) {
	s, _ := newTestStager(t)
	if err := s.Put(context.Background(), "f", -1); err == nil {
		t.Fatal("expected error for negative size")
	}
}

func TestGet_Missing(t *testing.T) {
	s, _ := newTestStager(t)
	err := s.Get(context.Background(), "ghost", filepath.Join(t.TempDir(), "g"))
	var se *StorageError
	if !errors.As(err, &se) || se.Op != "get" {
		t.Fatalf("err = %v, want get StorageError", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("StorageError should unwrap to os.ErrNotExist, got %v", se.Err)
	}
}

func TestKey(t *testing.T) {
	tests := []struct {
		folder, name, want string
	}{
		{"synthetic_files", "a.dat", "synthetic_files/a.dat"},
		{"", "a.dat", "a.dat"},
		{"x/", "y", "x/y"},
	}
	for _, tt := range tests {
		s := &BlobStager{Folder: tt.folder}
		if got := s.Key(tt.name); got != tt.want {
			t.Errorf("Key(%q, %q) = %q, want %q", tt.folder, tt.name, got, tt.want)
		}
	}
}

func TestIsBucketMissing(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{&types.NotFound{}, true},
		{&types.NoSuchBucket{}, true},
		{&smithy.GenericAPIError{Code: "NoSuchBucket"}, true},
		{fmt.Errorf("head: %w", &smithy.GenericAPIError{Code: "NotFound"}), true},
		{&smithy.GenericAPIError{Code: "AccessDenied"}, false},
		{errors.New("connection refused"), false},
	}
	for _, tt := range tests {
		if got := isBucketMissing(tt.err); got != tt.want {
			t.Errorf("isBucketMissing(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}

func TestSplitEndpoint(t *testing.T) {
	tests := []struct {
		in       string
		host     string
		secure   bool
		wantFail bool
	}{
		{"https://play.min.io", "play.min.io", true, false},
		{"http://localhost:9000", "localhost:9000", false, false},
		{"minio:9000", "minio:9000", true, false},
		{"ftp://x", "", false, true},
		{"", "", false, true},
	}
	for _, tt := range tests {
		host, secure, err := splitEndpoint(tt.in)
		if tt.wantFail {
			if err == nil {
				t.Errorf("splitEndpoint(%q) expected error", tt.in)
			}
			continue
		}
		if err != nil || host != tt.host || secure != tt.secure {
			t.Errorf("splitEndpoint(%q) = %q, %v, %v", tt.in, host, secure, err)
		}
	}
}

func TestNewStore(t *testing.T) {
	ctx := context.Background()
	base := config.StorageConfig{
		Endpoint:  "http://localhost:9000",
		Bucket:    "faasr",
		Region:    "us-east-1",
		AccessKey: "k",
		SecretKey: "s",
	}

	for backend, want := range map[string]string{
		config.BackendS3:    "*stager.S3Store",
		config.BackendMinio: "*stager.MinioStore",
	} {
		cfg := base
		cfg.Backend = backend
		store, err := NewStore(ctx, cfg)
		if err != nil {
			t.Fatalf("NewStore(%s): %v", backend, err)
		}
		if got := fmt.Sprintf("%T", store); got != want {
			t.Errorf("NewStore(%s) = %s, want %s", backend, got, want)
		}
	}

	dirCfg := config.StorageConfig{Backend: config.BackendDir, Endpoint: t.TempDir(), Bucket: "b"}
	if store, err := NewStore(ctx, dirCfg); err != nil {
		t.Errorf("NewStore(dir): %v", err)
	} else if _, ok := store.(*DirStore); !ok {
		t.Errorf("NewStore(dir) = %T", store)
	}

	if _, err := NewStore(ctx, config.StorageConfig{Backend: "ftp", Bucket: "b"}); err == nil {
		t.Error("expected error for unknown backend")
	}
}
