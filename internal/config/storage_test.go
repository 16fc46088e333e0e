package config

import (
	"strings"
	"testing"
)

func TestLoadStorageEnv(t *testing.T) {
	t.Chdir(t.TempDir()) // keep any developer .env out of the test
	t.Setenv("S3_BACKEND", "")
	t.Setenv("S3_ENDPOINT", "")
	t.Setenv("S3_REGION", "")
	t.Setenv("S3_BUCKET", "override")
	t.Setenv("S3_ACCESS_KEY", "")
	t.Setenv("MINIO_ROOT_USER", "minioadmin")
	t.Setenv("S3_SECRET_KEY", "secret")
	t.Setenv("S3_FOLDER", "")

	sc := LoadStorageEnv(DefaultDataStore(), "files")

	if sc.Backend != BackendMinio {
		t.Errorf("Backend = %q, want minio", sc.Backend)
	}
	if sc.Endpoint != "https://play.min.io" || sc.Region != "us-east-1" {
		t.Errorf("Endpoint = %q, Region = %q", sc.Endpoint, sc.Region)
	}
	if sc.Bucket != "override" {
		t.Errorf("Bucket = %q, want override", sc.Bucket)
	}
	if sc.AccessKey != "minioadmin" || sc.SecretKey != "secret" {
		t.Errorf("credentials = %q/%q", sc.AccessKey, sc.SecretKey)
	}
	if sc.Folder != "files" {
		t.Errorf("Folder = %q, want files", sc.Folder)
	}
	if err := sc.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestStorageConfig_Override(t *testing.T) {
	base := StorageConfig{Backend: BackendS3, Bucket: "a", Region: "us-east-1", Folder: "f"}
	got := base.Override(StorageConfig{Bucket: "b", Folder: " "})
	if got.Bucket != "b" || got.Backend != BackendS3 || got.Folder != "f" {
		t.Errorf("Override = %+v", got)
	}
}

func TestStorageConfig_Validate(t *testing.T) {
	tests := []struct {
		name string
		sc   StorageConfig
		want string
	}{
		{"unknown backend", StorageConfig{Backend: "ftp", Bucket: "b"}, "unknown backend"},
		{"s3 without keys", StorageConfig{Backend: BackendS3, Bucket: "b"}, "access key"},
		{"dir without root", StorageConfig{Backend: BackendDir, Bucket: "b"}, "root directory"},
		{"no bucket", StorageConfig{Backend: BackendDir, Endpoint: "/tmp"}, "bucket"},
		{"ok", StorageConfig{Backend: BackendDir, Endpoint: "/tmp", Bucket: "b"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.sc.Validate()
			if tt.want == "" {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Validate() = %v, want %q", err, tt.want)
			}
		})
	}
}
