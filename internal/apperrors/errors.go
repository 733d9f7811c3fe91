package apperrors

import "errors"

// Student errors
var (
	ErrStudentNotFound = errors.New("student not found")
)

// Profile image errors. The messages are returned to clients verbatim.
var (
	ErrProfileImageMissing  = errors.New("profile image not provided")
	ErrInvalidImageFormat   = errors.New("This is not a valid Image format")
	ErrProfileImageNotSaved = errors.New("Error uploading image")
)

// File store errors
var (
	ErrNoFileUploaded = errors.New("No file uploaded.")
	ErrFileTooLarge   = errors.New("File size exceeds the upload limit for direct database storage.")
	ErrFileNotFound   = errors.New("File not found in database.")
)
