package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"student-admin-backend/internal/domain"
	"student-admin-backend/internal/logger"
	"student-admin-backend/internal/response"
	"student-admin-backend/internal/service"
)

const (
	routeGetStudent = "GetStudent"
	imageFormField  = "profileImage"
)

type StudentService interface {
	ListStudents(ctx context.Context) ([]domain.Student, error)
	GetStudent(ctx context.Context, id uuid.UUID) (domain.Student, error)
	UpdateStudent(ctx context.Context, id uuid.UUID, req domain.UpdateStudentRequest) (domain.Student, error)
	DeleteStudent(ctx context.Context, id uuid.UUID) (domain.Student, error)
	AddStudent(ctx context.Context, req domain.AddStudentRequest) (domain.Student, error)
	UploadProfileImage(ctx context.Context, id uuid.UUID, image *service.ProfileImage) (string, error)
	ListGenders(ctx context.Context) ([]domain.Gender, error)
}

type RequestValidator interface {
	Validate(ctx context.Context, req any) error
}

type StudentHandler struct {
	studentService StudentService
	validator      RequestValidator
	maxImageSize   int64
	router         *mux.Router
}

func NewStudentHandler(studentService StudentService, validator RequestValidator, maxImageSize int64) *StudentHandler {
	return &StudentHandler{
		studentService: studentService,
		validator:      validator,
		maxImageSize:   maxImageSize,
	}
}

// RegisterRoutes mounts the student routes. The router is kept so Add can
// build the Location of the new record from the named Get route.
func (h *StudentHandler) RegisterRoutes(r *mux.Router) {
	h.router = r

	r.HandleFunc("/students", h.ListStudents).Methods(http.MethodGet)
	r.HandleFunc("/students", h.AddStudent).Methods(http.MethodPost)
	r.HandleFunc("/students/{id}", h.GetStudent).Methods(http.MethodGet).Name(routeGetStudent)
	r.HandleFunc("/students/{id}", h.UpdateStudent).Methods(http.MethodPut)
	r.HandleFunc("/students/{id}", h.DeleteStudent).Methods(http.MethodDelete)
	r.HandleFunc("/students/{id}/upload-image", h.UploadImage).Methods(http.MethodPost)
	r.HandleFunc("/students/{id}/image", h.UploadImage).Methods(http.MethodPost)
	r.HandleFunc("/genders", h.ListGenders).Methods(http.MethodGet)
}

func (h *StudentHandler) ListStudents(w http.ResponseWriter, r *http.Request) {
	students, err := h.studentService.ListStudents(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, students)
}

func (h *StudentHandler) GetStudent(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	student, err := h.studentService.GetStudent(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, student)
}

func (h *StudentHandler) UpdateStudent(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	var req domain.UpdateStudentRequest
	if err := decodeJSON(r, &req); err != nil {
		response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
		return
	}
	if err := h.validator.Validate(r.Context(), req); err != nil {
		writeError(w, r, err)
		return
	}

	student, err := h.studentService.UpdateStudent(r.Context(), id, req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, student)
}

func (h *StudentHandler) DeleteStudent(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	student, err := h.studentService.DeleteStudent(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, student)
}

func (h *StudentHandler) AddStudent(w http.ResponseWriter, r *http.Request) {
	var req domain.AddStudentRequest
	if err := decodeJSON(r, &req); err != nil {
		response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
		return
	}
	if err := h.validator.Validate(r.Context(), req); err != nil {
		writeError(w, r, err)
		return
	}

	student, err := h.studentService.AddStudent(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if h.router != nil {
		if location, err := h.router.Get(routeGetStudent).URL("id", student.ID.String()); err == nil {
			w.Header().Set("Location", location.String())
		} else {
			logger.Warn().Err(err).Msg("Failed to build student location")
		}
	}
	response.WriteJSON(w, http.StatusCreated, student)
}

// UploadImage accepts a multipart form with the image in the profileImage
// field and answers with the stored location as a JSON string.
func (h *StudentHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxImageSize)
	var image *service.ProfileImage

	file, header, err := r.FormFile(imageFormField)
	switch {
	case err == nil:
		defer file.Close()
		image = &service.ProfileImage{
			FileName: header.Filename,
			Size:     header.Size,
			Content:  file,
		}
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
		// no image, the service answers 404
	default:
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, r, err)
			return
		}
		response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
		return
	}

	location, err := h.studentService.UploadProfileImage(r.Context(), id, image)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, location)
}

func (h *StudentHandler) ListGenders(w http.ResponseWriter, r *http.Request) {
	genders, err := h.studentService.ListGenders(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, genders)
}
