package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Student is the persisted student row. GenderID references genders.id and
// the address lives in its own table keyed by student_id.
type Student struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	FirstName       string    `gorm:"size:100;not null"`
	LastName        string    `gorm:"size:100;not null"`
	DateOfBirth     time.Time `gorm:"not null"`
	Email           string    `gorm:"size:255;not null"`
	Mobile          int64     `gorm:"not null"`
	ProfileImageURL *string   `gorm:"size:512"`
	GenderID        uuid.UUID `gorm:"type:uuid;not null"`
	Gender          Gender
	Address         Address `gorm:"constraint:OnDelete:CASCADE"`
}

func (s *Student) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

type Gender struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Description string    `gorm:"size:50;not null;uniqueIndex"`
}

func (g *Gender) BeforeCreate(tx *gorm.DB) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	return nil
}

type Address struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	PhysicalAddress string    `gorm:"size:500"`
	PostalAddress   string    `gorm:"size:500"`
	StudentID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
}

func (a *Address) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
