package storage

import (
	"context"
	"fmt"
	"io"

	"student-admin-backend/internal/config"
)

// ImageStore persists profile images and returns a location clients can fetch
// them from. An error means nothing usable was written.
type ImageStore interface {
	Upload(ctx context.Context, image io.Reader, fileName string) (string, error)
}

// New builds the image store selected by images.backend.
func New(ctx context.Context, images config.Images, minio config.MinIO) (ImageStore, error) {
	switch images.Backend {
	case "minio":
		return NewMinIOImageStore(ctx, minio)
	case "local", "":
		return NewLocalImageStore(images.Dir, images.BaseURL)
	default:
		return nil, fmt.Errorf("unsupported images backend %q", images.Backend)
	}
}
