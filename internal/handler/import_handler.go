package handler

import (
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"student-admin-backend/internal/logger"
	"student-admin-backend/internal/response"
)

type ImportProcessor interface {
	ProcessCSV(ctx context.Context, filePath string) error
}

// ImportHandler saves uploaded CSV files and imports them in the background.
type ImportHandler struct {
	importer      ImportProcessor
	uploadDir     string
	maxUploadSize int64

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

func NewImportHandler(importer ImportProcessor, uploadDir string, maxUploadSize int64) *ImportHandler {
	return &ImportHandler{
		importer:      importer,
		uploadDir:     uploadDir,
		maxUploadSize: maxUploadSize,
	}
}

func (h *ImportHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/students/import", h.UploadCSV).Methods(http.MethodPost)
}

// Wait stops new imports from starting and blocks until every import
// started by this handler has finished.
func (h *ImportHandler) Wait() {
	h.mu.Lock()
	h.closed = true
	h.mu.Unlock()
	h.wg.Wait()
}

// track registers an import with the wait group unless Wait has been called.
func (h *ImportHandler) track() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.wg.Add(1)
	return true
}

func (h *ImportHandler) UploadCSV(w http.ResponseWriter, r *http.Request) {
	if err := os.MkdirAll(h.uploadDir, 0o755); err != nil {
		writeError(w, r, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, r, err)
			return
		}
		response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
		return
	}

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		response.WriteMessage(w, http.StatusBadRequest, "No files uploaded")
		return
	}

	// imports outlive the request but keep its values
	ctx := context.WithoutCancel(r.Context())
	fileNames := make([]string, 0, len(files))
	shuttingDown := false

	for _, header := range files {
		name := filepath.Base(header.Filename)
		if !strings.EqualFold(filepath.Ext(name), ".csv") {
			logger.Warn().Str("file", name).Msg("Skipping non-CSV upload")
			continue
		}

		// a unique prefix keeps concurrent uploads of one name apart and
		// doubles as the progress key
		savedName := uuid.NewString() + "_" + name
		savePath := filepath.Join(h.uploadDir, savedName)
		if err := saveUpload(header, savePath); err != nil {
			logger.Error().Err(err).Str("file", name).Msg("Error saving the file")
			continue
		}

		if !h.track() {
			_ = os.Remove(savePath)
			shuttingDown = true
			continue
		}
		fileNames = append(fileNames, savedName)

		go func(filePath string) {
			defer h.wg.Done()
			if err := h.importer.ProcessCSV(ctx, filePath); err != nil {
				logger.Error().Err(err).Str("file", filePath).Msg("Error processing file")
			}
		}(savePath)
	}

	if len(fileNames) == 0 && shuttingDown {
		response.WriteMessage(w, http.StatusServiceUnavailable, "Server is shutting down")
		return
	}
	if len(fileNames) == 0 {
		response.WriteMessage(w, http.StatusBadRequest, "No CSV files uploaded")
		return
	}

	response.WriteJSON(w, http.StatusAccepted, map[string]any{
		"message": "Files uploaded successfully and processing started",
		"files":   fileNames,
	})
}

func saveUpload(header *multipart.FileHeader, savePath string) error {
	file, err := header.Open()
	if err != nil {
		return err
	}
	defer file.Close()

	outFile, err := os.Create(savePath)
	if err != nil {
		return err
	}
	if _, err := io.Copy(outFile, file); err != nil {
		outFile.Close()
		return err
	}
	return outFile.Close()
}
