// Package mapper translates between request payloads, persisted records and
// the shapes returned to API consumers. Every function is pure.
package mapper

import (
	"student-admin-backend/internal/domain"
	"student-admin-backend/internal/model"
)

func ToDomainStudent(s model.Student) domain.Student {
	return domain.Student{
		ID:              s.ID,
		FirstName:       s.FirstName,
		LastName:        s.LastName,
		DateOfBirth:     s.DateOfBirth,
		Email:           s.Email,
		Mobile:          s.Mobile,
		ProfileImageURL: copyString(s.ProfileImageURL),
		GenderID:        s.GenderID,
		Gender:          ToDomainGender(s.Gender),
		Address: domain.Address{
			ID:              s.Address.ID,
			PhysicalAddress: s.Address.PhysicalAddress,
			PostalAddress:   s.Address.PostalAddress,
		},
	}
}

// ToDomainStudents never returns nil so an empty list encodes as [].
func ToDomainStudents(students []model.Student) []domain.Student {
	result := make([]domain.Student, 0, len(students))
	for _, s := range students {
		result = append(result, ToDomainStudent(s))
	}
	return result
}

func ToDomainGender(g model.Gender) domain.Gender {
	return domain.Gender{
		ID:          g.ID,
		Description: g.Description,
	}
}

func ToDomainGenders(genders []model.Gender) []domain.Gender {
	result := make([]domain.Gender, 0, len(genders))
	for _, g := range genders {
		result = append(result, ToDomainGender(g))
	}
	return result
}

func StudentFromAddRequest(req domain.AddStudentRequest) model.Student {
	return model.Student{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		DateOfBirth: req.DateOfBirth,
		Email:       req.Email,
		Mobile:      req.Mobile,
		GenderID:    req.GenderID,
		Address: model.Address{
			PhysicalAddress: req.PhysicalAddress,
			PostalAddress:   req.PostalAddress,
		},
	}
}

func StudentFromUpdateRequest(req domain.UpdateStudentRequest) model.Student {
	return model.Student{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		DateOfBirth: req.DateOfBirth,
		Email:       req.Email,
		Mobile:      req.Mobile,
		GenderID:    req.GenderID,
		Address: model.Address{
			PhysicalAddress: req.PhysicalAddress,
			PostalAddress:   req.PostalAddress,
		},
	}
}

func ToDomainFileMetadata(f model.UploadedFile) domain.FileMetadata {
	return domain.FileMetadata{
		ID:          f.ID,
		FileName:    f.FileName,
		ContentType: f.ContentType,
		FileSize:    f.FileSize,
		UploadDate:  f.UploadDate,
	}
}

func ToDomainUploadedFile(f model.UploadedFile) domain.UploadedFile {
	return domain.UploadedFile{
		FileMetadata: ToDomainFileMetadata(f),
		FileContent:  f.FileContent,
	}
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
