package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"student-admin-backend/internal/apperrors"
	"student-admin-backend/internal/domain"
	"student-admin-backend/internal/logger"
	"student-admin-backend/internal/mapper"
	"student-admin-backend/internal/model"
)

// FileRepository is the persistence FileService needs.
type FileRepository interface {
	Store(ctx context.Context, file *model.UploadedFile) (uuid.UUID, error)
	List(ctx context.Context) ([]model.UploadedFile, error)
	Retrieve(ctx context.Context, id uuid.UUID) (*model.UploadedFile, error)
}

// FileService keeps arbitrary uploaded files in the database.
type FileService struct {
	repo    FileRepository
	maxSize int64
}

func NewFileService(repo FileRepository, maxSize int64) *FileService {
	return &FileService{repo: repo, maxSize: maxSize}
}

func (s *FileService) MaxSize() int64 {
	return s.maxSize
}

func (s *FileService) Store(ctx context.Context, name, contentType string, data []byte) (uuid.UUID, error) {
	if len(data) == 0 {
		return uuid.Nil, apperrors.ErrNoFileUploaded
	}
	if int64(len(data)) > s.maxSize {
		return uuid.Nil, apperrors.ErrFileTooLarge
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	id, err := s.repo.Store(ctx, &model.UploadedFile{
		FileName:    name,
		ContentType: contentType,
		FileSize:    int64(len(data)),
		FileContent: data,
		UploadDate:  time.Now().UTC(),
	})
	if err != nil {
		return uuid.Nil, err
	}

	logger.Info().Str("file_id", id.String()).Str("file", name).Int("size", len(data)).Msg("File stored")
	return id, nil
}

func (s *FileService) List(ctx context.Context) ([]domain.FileMetadata, error) {
	files, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]domain.FileMetadata, 0, len(files))
	for _, f := range files {
		result = append(result, mapper.ToDomainFileMetadata(f))
	}
	return result, nil
}

func (s *FileService) Retrieve(ctx context.Context, id uuid.UUID) (domain.UploadedFile, error) {
	file, err := s.repo.Retrieve(ctx, id)
	if err != nil {
		return domain.UploadedFile{}, err
	}
	if file == nil {
		return domain.UploadedFile{}, apperrors.ErrFileNotFound
	}
	return mapper.ToDomainUploadedFile(*file), nil
}
