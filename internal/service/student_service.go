package service

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"student-admin-backend/internal/apperrors"
	"student-admin-backend/internal/domain"
	"student-admin-backend/internal/logger"
	"student-admin-backend/internal/mapper"
	"student-admin-backend/internal/repository"
	"student-admin-backend/internal/storage"
)

// ProfileImage is an uploaded image as received from the client.
type ProfileImage struct {
	FileName string
	Size     int64
	Content  io.Reader
}

type StudentService struct {
	repo              repository.StudentRepository
	images            storage.ImageStore
	allowedExtensions map[string]struct{}
}

// NewStudentService accepts extensions with their leading dot; they are
// matched case-insensitively.
func NewStudentService(repo repository.StudentRepository, images storage.ImageStore, allowedExtensions []string) *StudentService {
	allowed := make(map[string]struct{}, len(allowedExtensions))
	for _, ext := range allowedExtensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		allowed[ext] = struct{}{}
	}

	return &StudentService{
		repo:              repo,
		images:            images,
		allowedExtensions: allowed,
	}
}

func (s *StudentService) ListStudents(ctx context.Context) ([]domain.Student, error) {
	students, err := s.repo.ListStudents(ctx)
	if err != nil {
		return nil, err
	}
	return mapper.ToDomainStudents(students), nil
}

func (s *StudentService) GetStudent(ctx context.Context, id uuid.UUID) (domain.Student, error) {
	student, err := s.repo.GetStudent(ctx, id)
	if err != nil {
		return domain.Student{}, err
	}
	if student == nil {
		return domain.Student{}, apperrors.ErrStudentNotFound
	}
	return mapper.ToDomainStudent(*student), nil
}

func (s *StudentService) UpdateStudent(ctx context.Context, id uuid.UUID, req domain.UpdateStudentRequest) (domain.Student, error) {
	if err := s.ensureExists(ctx, id); err != nil {
		return domain.Student{}, err
	}

	changes := mapper.StudentFromUpdateRequest(req)
	updated, err := s.repo.UpdateStudent(ctx, id, &changes)
	if err != nil {
		return domain.Student{}, err
	}
	logger.Info().Str("student_id", id.String()).Msg("Student updated")
	return mapper.ToDomainStudent(*updated), nil
}

func (s *StudentService) DeleteStudent(ctx context.Context, id uuid.UUID) (domain.Student, error) {
	if err := s.ensureExists(ctx, id); err != nil {
		return domain.Student{}, err
	}

	deleted, err := s.repo.DeleteStudent(ctx, id)
	if err != nil {
		return domain.Student{}, err
	}
	logger.Info().Str("student_id", id.String()).Msg("Student deleted")
	return mapper.ToDomainStudent(*deleted), nil
}

func (s *StudentService) AddStudent(ctx context.Context, req domain.AddStudentRequest) (domain.Student, error) {
	student := mapper.StudentFromAddRequest(req)
	created, err := s.repo.AddStudent(ctx, &student)
	if err != nil {
		return domain.Student{}, err
	}
	logger.Info().Str("student_id", created.ID.String()).Msg("Student added")
	return mapper.ToDomainStudent(*created), nil
}

// UploadProfileImage stores the image as <id><ext> and records its location
// on the student.
func (s *StudentService) UploadProfileImage(ctx context.Context, id uuid.UUID, image *ProfileImage) (string, error) {
	if image == nil || image.Size <= 0 {
		return "", apperrors.ErrProfileImageMissing
	}

	ext := strings.ToLower(filepath.Ext(image.FileName))
	if _, ok := s.allowedExtensions[ext]; ok {
		exists, err := s.repo.Exists(ctx, id)
		if err != nil {
			return "", err
		}
		// an unknown student is reported as a format error, not a 404
		if exists {
			location, err := s.images.Upload(ctx, image.Content, id.String()+ext)
			if err != nil {
				return "", fmt.Errorf("upload profile image for %s: %w", id, err)
			}

			saved, err := s.repo.UpdateProfileImage(ctx, id, location)
			if err != nil {
				return "", err
			}
			if saved {
				logger.Info().Str("student_id", id.String()).Str("location", location).Msg("Profile image updated")
				return location, nil
			}
			logger.Warn().Str("student_id", id.String()).Msg("Profile image stored but not recorded")
			return "", apperrors.ErrProfileImageNotSaved
		}
	}

	return "", apperrors.ErrInvalidImageFormat
}

func (s *StudentService) ListGenders(ctx context.Context) ([]domain.Gender, error) {
	genders, err := s.repo.ListGenders(ctx)
	if err != nil {
		return nil, err
	}
	return mapper.ToDomainGenders(genders), nil
}

func (s *StudentService) ensureExists(ctx context.Context, id uuid.UUID) error {
	exists, err := s.repo.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return apperrors.ErrStudentNotFound
	}
	return nil
}
