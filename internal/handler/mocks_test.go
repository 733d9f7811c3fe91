package handler_test

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"student-admin-backend/internal/domain"
	"student-admin-backend/internal/service"
)

type MockStudentService struct {
	mock.Mock
}

func (m *MockStudentService) ListStudents(ctx context.Context) ([]domain.Student, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Student), args.Error(1)
}

func (m *MockStudentService) GetStudent(ctx context.Context, id uuid.UUID) (domain.Student, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Student), args.Error(1)
}

func (m *MockStudentService) UpdateStudent(ctx context.Context, id uuid.UUID, req domain.UpdateStudentRequest) (domain.Student, error) {
	args := m.Called(ctx, id, req)
	return args.Get(0).(domain.Student), args.Error(1)
}

func (m *MockStudentService) DeleteStudent(ctx context.Context, id uuid.UUID) (domain.Student, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Student), args.Error(1)
}

func (m *MockStudentService) AddStudent(ctx context.Context, req domain.AddStudentRequest) (domain.Student, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(domain.Student), args.Error(1)
}

func (m *MockStudentService) UploadProfileImage(ctx context.Context, id uuid.UUID, image *service.ProfileImage) (string, error) {
	args := m.Called(ctx, id, image)
	return args.String(0), args.Error(1)
}

func (m *MockStudentService) ListGenders(ctx context.Context) ([]domain.Gender, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Gender), args.Error(1)
}

type MockValidator struct {
	mock.Mock
}

func (m *MockValidator) Validate(ctx context.Context, req any) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

type MockFileStore struct {
	mock.Mock
}

func (m *MockFileStore) Store(ctx context.Context, name, contentType string, data []byte) (uuid.UUID, error) {
	args := m.Called(ctx, name, contentType, data)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockFileStore) List(ctx context.Context) ([]domain.FileMetadata, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FileMetadata), args.Error(1)
}

func (m *MockFileStore) Retrieve(ctx context.Context, id uuid.UUID) (domain.UploadedFile, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.UploadedFile), args.Error(1)
}

func (m *MockFileStore) MaxSize() int64 {
	args := m.Called()
	return args.Get(0).(int64)
}

type MockImportProcessor struct {
	mock.Mock
}

func (m *MockImportProcessor) ProcessCSV(ctx context.Context, filePath string) error {
	args := m.Called(ctx, filePath)
	return args.Error(0)
}

type MockProgressService struct {
	mock.Mock
}

func (m *MockProgressService) GetFileProgress(fileName string) *service.ProgressInfo {
	args := m.Called(fileName)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*service.ProgressInfo)
}

func (m *MockProgressService) GetAllFileProgress() []*service.ProgressInfo {
	args := m.Called()
	return args.Get(0).([]*service.ProgressInfo)
}

func (m *MockProgressService) RegisterProgressListener(ch chan service.ProgressInfo) {
	m.Called(ch)
}

func (m *MockProgressService) UnregisterProgressListener(ch chan service.ProgressInfo) {
	m.Called(ch)
}

type formFile struct {
	field, name string
	content    []byte
}

// multipartRequest builds a POST with the given files attached.
func multipartRequest(t *testing.T, target string, files ...formFile) *http.Request {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for _, f := range files {
		part, err := writer.CreateFormFile(f.field, f.name)
		require.NoError(t, err)
		_, err = io.Copy(part, bytes.NewReader(f.content))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, target, body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}
