package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"student-admin-backend/internal/apperrors"
	"student-admin-backend/internal/database"
	"student-admin-backend/internal/repository"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	require.NoError(t, err)
	// import workers share the database, keep sqlite to a single writer
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))
	return db
}

func newFileService(t *testing.T, maxSize int64) *FileService {
	return NewFileService(repository.NewFileRepository(setupTestDB(t)), maxSize)
}

func TestFileServiceStoreAndRetrieve(t *testing.T) {
	svc := newFileService(t, 1024)
	ctx := context.Background()

	id, err := svc.Store(ctx, "report.pdf", "application/pdf", []byte("%PDF-1.7"))
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, id)

	file, err := svc.Retrieve(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "report.pdf", file.FileName)
	assert.Equal(t, "application/pdf", file.ContentType)
	assert.Equal(t, int64(8), file.FileSize)
	assert.Equal(t, []byte("%PDF-1.7"), file.FileContent)
	assert.False(t, file.UploadDate.IsZero())
}

func TestFileServiceStoreDefaultsContentType(t *testing.T) {
	svc := newFileService(t, 1024)
	ctx := context.Background()

	id, err := svc.Store(ctx, "blob", "", []byte{1, 2, 3})
	require.NoError(t, err)

	file, err := svc.Retrieve(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "application/octet-stream", file.ContentType)
}

func TestFileServiceStoreRejects(t *testing.T) {
	svc := newFileService(t, 4)
	ctx := context.Background()

	_, err := svc.Store(ctx, "empty.txt", "text/plain", nil)
	assert.ErrorIs(t, err, apperrors.ErrNoFileUploaded)

	_, err = svc.Store(ctx, "big.txt", "text/plain", []byte("12345"))
	assert.ErrorIs(t, err, apperrors.ErrFileTooLarge)

	files, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestFileServiceList(t *testing.T) {
	svc := newFileService(t, 1024)
	ctx := context.Background()

	_, err := svc.Store(ctx, "a.txt", "text/plain", []byte("a"))
	require.NoError(t, err)
	_, err = svc.Store(ctx, "b.txt", "text/plain", []byte("bb"))
	require.NoError(t, err)

	files, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, files, 2)

	names := []string{files[0].FileName, files[1].FileName}
	assert.ElementsMatch(t, []string{"a.txt", "b.txt"}, names)
}

func TestFileServiceRetrieveUnknown(t *testing.T) {
	svc := newFileService(t, 1024)

	_, err := svc.Retrieve(context.Background(), uuid.New())
	assert.ErrorIs(t, err, apperrors.ErrFileNotFound)
}
