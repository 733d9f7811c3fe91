package handler

import (
	"context"
	"errors"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"student-admin-backend/internal/apperrors"
	"student-admin-backend/internal/domain"
	"student-admin-backend/internal/response"
)

// multipart framing allowance on top of the file limit
const multipartOverhead = 1 << 20

type FileStore interface {
	Store(ctx context.Context, name, contentType string, data []byte) (uuid.UUID, error)
	List(ctx context.Context) ([]domain.FileMetadata, error)
	Retrieve(ctx context.Context, id uuid.UUID) (domain.UploadedFile, error)
	MaxSize() int64
}

type FileHandler struct {
	files FileStore
}

func NewFileHandler(files FileStore) *FileHandler {
	return &FileHandler{files: files}
}

func (h *FileHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/upload", h.Upload).Methods(http.MethodPost)
	r.HandleFunc("/download", h.ListFiles).Methods(http.MethodGet)
	r.HandleFunc("/download/{fileId}", h.Download).Methods(http.MethodGet)
}

// Upload stores the multipart field "file" in the database.
func (h *FileHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.files.MaxSize()+multipartOverhead)

	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, r, apperrors.ErrFileTooLarge)
			return
		}
		writeError(w, r, apperrors.ErrNoFileUploaded)
		return
	}
	defer file.Close()

	if header.Size > h.files.MaxSize() {
		writeError(w, r, apperrors.ErrFileTooLarge)
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, r, err)
		return
	}

	id, err := h.files.Store(r.Context(), filepath.Base(header.Filename), header.Header.Get("Content-Type"), data)
	if err != nil {
		writeError(w, r, err)
		return
	}

	response.WriteJSON(w, http.StatusOK, map[string]any{
		"message": "File uploaded successfully!",
		"fileId":  id,
	})
}

func (h *FileHandler) ListFiles(w http.ResponseWriter, r *http.Request) {
	files, err := h.files.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, files)
}

// Download echoes the stored content type and offers the original name.
func (h *FileHandler) Download(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "fileId")
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	if id == uuid.Nil {
		response.WriteMessage(w, http.StatusBadRequest, "File ID not provided.")
		return
	}

	file, err := h.files.Retrieve(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", file.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(file.FileContent)))
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": file.FileName}))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(file.FileContent)
}
