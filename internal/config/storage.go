package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/me/wfsynth/pkg/model"
)

// Storage backends.
const (
	BackendS3    = "s3"
	BackendMinio = "minio"
	BackendDir   = "dir"
)

// StorageConfig describes the object store files are staged to.
type StorageConfig struct {
	Backend string

	// Endpoint is a URL for s3 and minio, or a local directory for dir.
	Endpoint  string
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string

	// Folder is the key prefix objects are stored under.
	Folder string
}

// LoadStorageEnv reads storage settings from the environment, after loading a
// .env file if one exists. Unset values fall back to ds and folder.
func LoadStorageEnv(ds model.DataStore, folder string) StorageConfig {
	_ = godotenv.Load()

	return StorageConfig{
		Backend:   firstNonEmpty(env("S3_BACKEND"), BackendMinio),
		Endpoint:  firstNonEmpty(env("S3_ENDPOINT"), ds.Endpoint),
		Region:    firstNonEmpty(env("S3_REGION"), ds.Region, "us-east-1"),
		Bucket:    firstNonEmpty(env("S3_BUCKET"), ds.Bucket),
		AccessKey: firstNonEmpty(env("S3_ACCESS_KEY"), env("MINIO_ROOT_USER")),
		SecretKey: firstNonEmpty(env("S3_SECRET_KEY"), env("MINIO_ROOT_PASSWORD")),
		Folder:    firstNonEmpty(env("S3_FOLDER"), folder),
	}
}

// Override returns s with every non-empty field of o applied.
func (s StorageConfig) Override(o StorageConfig) StorageConfig {
	s.Backend = firstNonEmpty(o.Backend, s.Backend)
	s.Endpoint = firstNonEmpty(o.Endpoint, s.Endpoint)
	s.Region = firstNonEmpty(o.Region, s.Region)
	s.Bucket = firstNonEmpty(o.Bucket, s.Bucket)
	s.AccessKey = firstNonEmpty(o.AccessKey, s.AccessKey)
	s.SecretKey = firstNonEmpty(o.SecretKey, s.SecretKey)
	s.Folder = firstNonEmpty(o.Folder, s.Folder)
	return s
}

// Validate checks that the selected backend has what it needs.
func (s StorageConfig) Validate() error {
	switch s.Backend {
	case BackendS3, BackendMinio:
		if s.AccessKey == "" || s.SecretKey == "" {
			return fmt.Errorf("storage: %s backend needs an access key and a secret key", s.Backend)
		}
	case BackendDir:
		if s.Endpoint == "" {
			return fmt.Errorf("storage: dir backend needs a root directory as endpoint")
		}
	default:
		return fmt.Errorf("storage: unknown backend %q (want s3, minio or dir)", s.Backend)
	}
	if s.Bucket == "" {
		return fmt.Errorf("storage: bucket is required")
	}
	return nil
}

func env(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
