package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"student-admin-backend/internal/model"
)

func TestFileRepositoryStoreAndRetrieve(t *testing.T) {
	repo := NewFileRepository(setupTestDB(t))
	ctx := context.Background()

	id, err := repo.Store(ctx, &model.UploadedFile{
		FileName:    "notes.txt",
		ContentType: "text/plain",
		FileSize:    5,
		FileContent: []byte("hello"),
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, id)

	got, err := repo.Retrieve(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "notes.txt", got.FileName)
	assert.Equal(t, "text/plain", got.ContentType)
	assert.Equal(t, []byte("hello"), got.FileContent)
	assert.False(t, got.UploadDate.IsZero())
}

func TestFileRepositoryRetrieveUnknown(t *testing.T) {
	repo := NewFileRepository(setupTestDB(t))

	got, err := repo.Retrieve(context.Background(), uuid.New())
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestFileRepositoryListOmitsContent(t *testing.T) {
	repo := NewFileRepository(setupTestDB(t))
	ctx := context.Background()

	older := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	_, err := repo.Store(ctx, &model.UploadedFile{FileName: "a.bin", ContentType: "application/octet-stream", FileSize: 1, FileContent: []byte{1}, UploadDate: older})
	require.NoError(t, err)
	_, err = repo.Store(ctx, &model.UploadedFile{FileName: "b.bin", ContentType: "application/octet-stream", FileSize: 1, FileContent: []byte{2}, UploadDate: older.Add(time.Hour)})
	require.NoError(t, err)

	files, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "b.bin", files[0].FileName)
	assert.Nil(t, files[0].FileContent)
	assert.Equal(t, int64(1), files[1].FileSize)
}
