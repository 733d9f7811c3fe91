package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"path/filepath"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"student-admin-backend/internal/config"
)

// MinIOImageStore uploads profile images to a MinIO / S3 bucket.
type MinIOImageStore struct {
	client *minio.Client
	bucket string
	scheme string
}

// NewMinIOImageStore connects to MinIO and creates the bucket when missing.
func NewMinIOImageStore(ctx context.Context, cfg config.MinIO) (*MinIOImageStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	scheme := "http"
	if cfg.UseSSL {
		scheme = "https"
	}
	return &MinIOImageStore{client: client, bucket: cfg.Bucket, scheme: scheme}, nil
}

// Upload stores the image under images/<fileName> and returns its URL.
func (s *MinIOImageStore) Upload(ctx context.Context, image io.Reader, fileName string) (string, error) {
	data, err := io.ReadAll(image)
	if err != nil {
		return "", fmt.Errorf("failed to read image: %w", err)
	}

	key := "images/" + filepath.Base(fileName)
	_, err = s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentTypeFor(fileName),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to minio: %w", err)
	}

	return fmt.Sprintf("%s://%s/%s/%s", s.scheme, s.client.EndpointURL().Host, s.bucket, key), nil
}

func contentTypeFor(fileName string) string {
	if ct := mime.TypeByExtension(filepath.Ext(fileName)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
