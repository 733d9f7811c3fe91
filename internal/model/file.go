package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UploadedFile stores arbitrary binary uploads directly in the database.
type UploadedFile struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	FileName    string    `gorm:"size:255;not null"`
	ContentType string    `gorm:"size:100;not null"`
	FileSize    int64     `gorm:"not null"`
	FileContent []byte    `gorm:"not null"`
	UploadDate  time.Time `gorm:"not null"`
}

func (f *UploadedFile) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	if f.UploadDate.IsZero() {
		f.UploadDate = time.Now().UTC()
	}
	return nil
}
