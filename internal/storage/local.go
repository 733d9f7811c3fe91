package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"student-admin-backend/internal/logger"
)

const defaultPublicPrefix = "Resources/Images"

// stored images are served by whatever exposes the directory
const imageFileMode os.FileMode = 0o644

// LocalImageStore handles saving images to the local filesystem.
type LocalImageStore struct {
	basePath string // directory the images are written to
	baseURL  string // optional prefix for returned locations
}

// NewLocalImageStore ensures basePath exists. When baseURL is empty the
// returned locations are relative paths under Resources/Images.
func NewLocalImageStore(basePath, baseURL string) (*LocalImageStore, error) {
	if err := os.MkdirAll(basePath, os.ModePerm); err != nil {
		logger.Error().Err(err).Str("path", basePath).Msg("Failed to create image directory")
		return nil, fmt.Errorf("failed to create image directory %s: %w", basePath, err)
	}
	logger.Info().Str("path", basePath).Msg("Local image directory ensured")

	return &LocalImageStore{
		basePath: basePath,
		baseURL:  baseURL,
	}, nil
}

// Upload writes to a temp file next to the target and renames it into place,
// so the target either holds the complete image or is left untouched.
func (ls *LocalImageStore) Upload(ctx context.Context, image io.Reader, fileName string) (string, error) {
	name := filepath.Base(fileName)
	if name == "" || name == "." || name == string(filepath.Separator) {
		return "", fmt.Errorf("invalid image file name %q", fileName)
	}

	tmp, err := os.CreateTemp(ls.basePath, ".upload-*")
	if err != nil {
		logger.Error().Err(err).Str("path", ls.basePath).Msg("Failed to create temp image file")
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if err := tmp.Chmod(imageFileMode); err != nil {
		tmp.Close()
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("failed to set image permissions: %w", err)
	}

	if _, err := io.Copy(tmp, contextReader{ctx: ctx, r: image}); err != nil {
		tmp.Close()
		_ = os.Remove(tmpPath)
		logger.Error().Err(err).Str("file", name).Msg("Failed to write image content")
		return "", fmt.Errorf("failed to save image content: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("failed to close temp file: %w", err)
	}

	dstPath := filepath.Join(ls.basePath, name)
	if err := os.Rename(tmpPath, dstPath); err != nil {
		_ = os.Remove(tmpPath)
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to move image into place")
		return "", fmt.Errorf("failed to move image into place: %w", err)
	}

	location := ls.location(name)
	logger.Info().Str("file", name).Str("location", location).Msg("Image saved")
	return location, nil
}

func (ls *LocalImageStore) location(name string) string {
	if ls.baseURL != "" {
		return strings.TrimRight(ls.baseURL, "/") + "/" + name
	}
	return path.Join(defaultPublicPrefix, name)
}

// contextReader stops a copy once the context is cancelled.
type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (cr contextReader) Read(p []byte) (int, error) {
	if err := cr.ctx.Err(); err != nil {
		return 0, err
	}
	return cr.r.Read(p)
}
