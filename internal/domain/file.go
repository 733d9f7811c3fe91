package domain

import (
	"time"

	"github.com/google/uuid"
)

// FileMetadata describes a stored file without its content.
type FileMetadata struct {
	ID          uuid.UUID `json:"id"`
	FileName    string    `json:"fileName"`
	ContentType string    `json:"contentType"`
	FileSize    int64     `json:"fileSize"`
	UploadDate  time.Time `json:"uploadDate"`
}

type UploadedFile struct {
	FileMetadata
	FileContent []byte `json:"-"`
}
