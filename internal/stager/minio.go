package stager

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/me/wfsynth/internal/config"
)

// MinioStore stores objects through the MinIO client.
type MinioStore struct {
	client *minio.Client
	bucket string
	region string
}

// NewMinioStore creates a MinioStore. cfg.Endpoint may be a bare host:port
// or a URL; an https scheme enables TLS.
func NewMinioStore(cfg config.StorageConfig) (*MinioStore, error) {
	host, secure, err := splitEndpoint(cfg.Endpoint)
	if err != nil {
		return nil, err
	}
	region := strings.TrimSpace(cfg.Region)
	if region == "" {
		region = "us-east-1"
	}

	client, err := minio.New(host, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: secure,
		Region: region,
	})
	if err != nil {
		return nil, fmt.Errorf("init minio client: %w", err)
	}
	return &MinioStore{client: client, bucket: cfg.Bucket, region: region}, nil
}

// EnsureBucket creates the bucket when BucketExists reports false.
func (s *MinioStore) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return &StorageError{Op: "head bucket", Key: s.bucket, Err: err}
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{Region: s.region}); err != nil {
		return &StorageError{Op: "create bucket", Key: s.bucket, Err: err}
	}
	return nil
}

func (s *MinioStore) PutFile(ctx context.Context, key, localPath string) error {
	_, err := s.client.FPutObject(ctx, s.bucket, key, localPath, minio.PutObjectOptions{
		ContentType: "application/octet-stream",
	})
	if err != nil {
		return &StorageError{Op: "put", Key: key, Err: err}
	}
	return nil
}

func (s *MinioStore) GetFile(ctx context.Context, key, localPath string) error {
	if err := s.client.FGetObject(ctx, s.bucket, key, localPath, minio.GetObjectOptions{}); err != nil {
		return &StorageError{Op: "get", Key: key, Err: err}
	}
	return nil
}

// splitEndpoint returns the host:port of endpoint and whether it uses TLS.
// A bare host defaults to TLS.
func splitEndpoint(endpoint string) (string, bool, error) {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return "", false, fmt.Errorf("minio endpoint is required")
	}
	if !strings.Contains(endpoint, "://") {
		return strings.TrimSuffix(endpoint, "/"), true, nil
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return "", false, fmt.Errorf("parse minio endpoint: %w", err)
	}
	switch u.Scheme {
	case "https":
		return u.Host, true, nil
	case "http":
		return u.Host, false, nil
	default:
		return "", false, fmt.Errorf("minio endpoint %q: unsupported scheme %q", endpoint, u.Scheme)
	}
}
