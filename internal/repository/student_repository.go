package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"student-admin-backend/internal/apperrors"
	"student-admin-backend/internal/model"
)

// StudentRepository persists students. Mutating calls addressed by id expect
// the caller to have checked Exists first.
type StudentRepository interface {
	ListStudents(ctx context.Context) ([]model.Student, error)
	// GetStudent returns nil without an error when the id is unknown.
	GetStudent(ctx context.Context, id uuid.UUID) (*model.Student, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	AddStudent(ctx context.Context, student *model.Student) (*model.Student, error)
	AddStudents(ctx context.Context, students []model.Student) (int, error)
	UpdateStudent(ctx context.Context, id uuid.UUID, student *model.Student) (*model.Student, error)
	DeleteStudent(ctx context.Context, id uuid.UUID) (*model.Student, error)
	// UpdateProfileImage reports false when no row was written.
	UpdateProfileImage(ctx context.Context, id uuid.UUID, location string) (bool, error)
	ListGenders(ctx context.Context) ([]model.Gender, error)
}

type gormStudentRepository struct {
	db        *gorm.DB
	batchSize int
}

func NewStudentRepository(db *gorm.DB) StudentRepository {
	return &gormStudentRepository{db: db, batchSize: 500}
}

func (r *gormStudentRepository) withDetails(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Gender").Preload("Address")
}

func (r *gormStudentRepository) ListStudents(ctx context.Context) ([]model.Student, error) {
	students := make([]model.Student, 0)
	if err := r.withDetails(ctx).Order("last_name, first_name").Find(&students).Error; err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	return students, nil
}

func (r *gormStudentRepository) GetStudent(ctx context.Context, id uuid.UUID) (*model.Student, error) {
	var student model.Student
	err := r.withDetails(ctx).First(&student, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get student %s: %w", id, err)
	}
	return &student, nil
}

func (r *gormStudentRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Student{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, fmt.Errorf("check student %s: %w", id, err)
	}
	return count > 0, nil
}

func (r *gormStudentRepository) AddStudent(ctx context.Context, student *model.Student) (*model.Student, error) {
	if err := r.db.WithContext(ctx).Omit("Gender").Create(student).Error; err != nil {
		return nil, fmt.Errorf("add student: %w", err)
	}
	return r.mustGet(ctx, student.ID)
}

func (r *gormStudentRepository) AddStudents(ctx context.Context, students []model.Student) (int, error) {
	if len(students) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).Omit("Gender").CreateInBatches(&students, r.batchSize)
	if res.Error != nil {
		return 0, fmt.Errorf("add %d students: %w", len(students), res.Error)
	}
	return len(students), nil
}

func (r *gormStudentRepository) UpdateStudent(ctx context.Context, id uuid.UUID, student *model.Student) (*model.Student, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Student{}).Where("id = ?", id).Updates(map[string]interface{}{
			"first_name":    student.FirstName,
			"last_name":     student.LastName,
			"date_of_birth": student.DateOfBirth,
			"email":         student.Email,
			"mobile":        student.Mobile,
			"gender_id":     student.GenderID,
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperrors.ErrStudentNotFound
		}

		res = tx.Model(&model.Address{}).Where("student_id = ?", id).Updates(map[string]interface{}{
			"physical_address": student.Address.PhysicalAddress,
			"postal_address":   student.Address.PostalAddress,
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			address := model.Address{
				StudentID:       id,
				PhysicalAddress: student.Address.PhysicalAddress,
				PostalAddress:   student.Address.PostalAddress,
			}
			return tx.Create(&address).Error
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("update student %s: %w", id, err)
	}
	return r.mustGet(ctx, id)
}

func (r *gormStudentRepository) DeleteStudent(ctx context.Context, id uuid.UUID) (*model.Student, error) {
	existing, err := r.GetStudent(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, fmt.Errorf("delete student %s: %w", id, apperrors.ErrStudentNotFound)
	}

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("student_id = ?", id).Delete(&model.Address{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&model.Student{}).Error
	})
	if err != nil {
		return nil, fmt.Errorf("delete student %s: %w", id, err)
	}
	return existing, nil
}

func (r *gormStudentRepository) UpdateProfileImage(ctx context.Context, id uuid.UUID, location string) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.Student{}).Where("id = ?", id).Update("profile_image_url", location)
	if res.Error != nil {
		return false, fmt.Errorf("update profile image %s: %w", id, res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *gormStudentRepository) ListGenders(ctx context.Context) ([]model.Gender, error) {
	genders := make([]model.Gender, 0)
	if err := r.db.WithContext(ctx).Order("description").Find(&genders).Error; err != nil {
		return nil, fmt.Errorf("list genders: %w", err)
	}
	return genders, nil
}

func (r *gormStudentRepository) mustGet(ctx context.Context, id uuid.UUID) (*model.Student, error) {
	student, err := r.GetStudent(ctx, id)
	if err != nil {
		return nil, err
	}
	if student == nil {
		return nil, fmt.Errorf("reload student %s: %w", id, apperrors.ErrStudentNotFound)
	}
	return student, nil
}
