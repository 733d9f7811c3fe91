// Package domain holds the shapes exposed to API consumers and the inbound
// request payloads. None of these types are persisted directly.
package domain

import (
	"time"

	"github.com/google/uuid"
)

type Student struct {
	ID              uuid.UUID `json:"id"`
	FirstName       string    `json:"firstName"`
	LastName        string    `json:"lastName"`
	DateOfBirth     time.Time `json:"dateOfBirth"`
	Email           string    `json:"email"`
	Mobile          int64     `json:"mobile"`
	ProfileImageURL *string   `json:"profileImageUrl"`
	GenderID        uuid.UUID `json:"genderId"`
	Gender          Gender    `json:"gender"`
	Address         Address   `json:"address"`
}

type Gender struct {
	ID          uuid.UUID `json:"id"`
	Description string    `json:"description"`
}

type Address struct {
	ID              uuid.UUID `json:"id"`
	PhysicalAddress string    `json:"physicalAddress"`
	PostalAddress   string    `json:"postalAddress"`
}

// UpdateStudentRequest is the body of PUT /students/{id}.
type UpdateStudentRequest struct {
	FirstName       string    `json:"firstName" validate:"required"`
	LastName        string    `json:"lastName" validate:"required"`
	DateOfBirth     time.Time `json:"dateOfBirth" validate:"required"`
	Email           string    `json:"email" validate:"required,email"`
	Mobile          int64     `json:"mobile" validate:"gt=99999,lt=10000000000"`
	GenderID        uuid.UUID `json:"genderId" validate:"required,gender"`
	PhysicalAddress string    `json:"physicalAddress"`
	PostalAddress   string    `json:"postalAddress"`
}

// AddStudentRequest is the body of POST /students.
type AddStudentRequest struct {
	FirstName       string    `json:"firstName" validate:"required"`
	LastName        string    `json:"lastName" validate:"required"`
	DateOfBirth     time.Time `json:"dateOfBirth" validate:"required"`
	Email           string    `json:"email" validate:"required,email"`
	Mobile          int64     `json:"mobile" validate:"gt=99999,lt=10000000000"`
	GenderID        uuid.UUID `json:"genderId" validate:"required,gender"`
	PhysicalAddress string    `json:"physicalAddress"`
	PostalAddress   string    `json:"postalAddress"`
}
