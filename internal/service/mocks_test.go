package service

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"student-admin-backend/internal/model"
)

type MockStudentRepository struct {
	mock.Mock
}

func (m *MockStudentRepository) ListStudents(ctx context.Context) ([]model.Student, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Student), args.Error(1)
}

func (m *MockStudentRepository) GetStudent(ctx context.Context, id uuid.UUID) (*model.Student, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Student), args.Error(1)
}

func (m *MockStudentRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockStudentRepository) AddStudent(ctx context.Context, student *model.Student) (*model.Student, error) {
	args := m.Called(ctx, student)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Student), args.Error(1)
}

func (m *MockStudentRepository) AddStudents(ctx context.Context, students []model.Student) (int, error) {
	args := m.Called(ctx, students)
	return args.Int(0), args.Error(1)
}

func (m *MockStudentRepository) UpdateStudent(ctx context.Context, id uuid.UUID, student *model.Student) (*model.Student, error) {
	args := m.Called(ctx, id, student)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Student), args.Error(1)
}

func (m *MockStudentRepository) DeleteStudent(ctx context.Context, id uuid.UUID) (*model.Student, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Student), args.Error(1)
}

func (m *MockStudentRepository) UpdateProfileImage(ctx context.Context, id uuid.UUID, location string) (bool, error) {
	args := m.Called(ctx, id, location)
	return args.Bool(0), args.Error(1)
}

func (m *MockStudentRepository) ListGenders(ctx context.Context) ([]model.Gender, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Gender), args.Error(1)
}

type MockImageStore struct {
	mock.Mock
}

func (m *MockImageStore) Upload(ctx context.Context, image io.Reader, fileName string) (string, error) {
	args := m.Called(ctx, image, fileName)
	return args.String(0), args.Error(1)
}
