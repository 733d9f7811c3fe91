package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"student-admin-backend/internal/model"
)

// FileRepository handles database operations for uploaded files
type FileRepository struct {
	db *gorm.DB
}

func NewFileRepository(db *gorm.DB) *FileRepository {
	return &FileRepository{db: db}
}

// Store inserts the file and returns its generated id.
func (r *FileRepository) Store(ctx context.Context, file *model.UploadedFile) (uuid.UUID, error) {
	if err := r.db.WithContext(ctx).Create(file).Error; err != nil {
		return uuid.Nil, fmt.Errorf("store file %s: %w", file.FileName, err)
	}
	return file.ID, nil
}

// List returns every file without its content, newest first.
func (r *FileRepository) List(ctx context.Context) ([]model.UploadedFile, error) {
	files := make([]model.UploadedFile, 0)
	err := r.db.WithContext(ctx).
		Select("id", "file_name", "content_type", "file_size", "upload_date").
		Order("upload_date desc").
		Find(&files).Error
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	return files, nil
}

// Retrieve returns nil without an error when the id is unknown.
func (r *FileRepository) Retrieve(ctx context.Context, id uuid.UUID) (*model.UploadedFile, error) {
	var file model.UploadedFile
	err := r.db.WithContext(ctx).First(&file, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("retrieve file %s: %w", id, err)
	}
	return &file, nil
}
