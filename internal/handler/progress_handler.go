package handler

import (
	"encoding/json"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gorilla/mux"

	"student-admin-backend/internal/logger"
	"student-admin-backend/internal/response"
	"student-admin-backend/internal/service"
)

type ProgressSource interface {
	GetFileProgress(fileName string) *service.ProgressInfo
	GetAllFileProgress() []*service.ProgressInfo
	RegisterProgressListener(ch chan service.ProgressInfo)
	UnregisterProgressListener(ch chan service.ProgressInfo)
}

type ProgressHandler struct {
	progress ProgressSource
}

func NewProgressHandler(progress ProgressSource) *ProgressHandler {
	return &ProgressHandler{progress: progress}
}

func (h *ProgressHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/students/import/progress", h.GetAllProgress).Methods(http.MethodGet)
	r.HandleFunc("/students/import/progress/file", h.GetFileProgress).Methods(http.MethodGet)
	r.HandleFunc("/students/import/progress/stream", h.SSEProgress).Methods(http.MethodGet)
}

// GetFileProgress returns the progress for the file named in ?fileName=.
func (h *ProgressHandler) GetFileProgress(w http.ResponseWriter, r *http.Request) {
	fileName := r.URL.Query().Get("fileName")
	if fileName == "" {
		response.WriteMessage(w, http.StatusBadRequest, "fileName parameter is required")
		return
	}

	progress := h.progress.GetFileProgress(filepath.Base(fileName))
	if progress == nil {
		response.WriteMessage(w, http.StatusNotFound, "File not found or not being processed")
		return
	}
	response.WriteJSON(w, http.StatusOK, progress)
}

func (h *ProgressHandler) GetAllProgress(w http.ResponseWriter, r *http.Request) {
	response.WriteJSON(w, http.StatusOK, h.progress.GetAllFileProgress())
}

// SSEProgress streams progress updates until the client goes away.
func (h *ProgressHandler) SSEProgress(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		response.WriteMessage(w, http.StatusInternalServerError, "Streaming unsupported")
		return
	}

	// the stream outlives the server's write timeout
	_ = http.NewResponseController(w).SetWriteDeadline(time.Time{})

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	// broadcasts never block, a full buffer drops the update
	progressChan := make(chan service.ProgressInfo, 16)
	h.progress.RegisterProgressListener(progressChan)
	defer h.progress.UnregisterProgressListener(progressChan)

	for {
		select {
		case progress := <-progressChan:
			data, err := json.Marshal(progress)
			if err != nil {
				logger.Error().Err(err).Msg("Error marshaling progress")
				continue
			}
			if _, err := w.Write([]byte("data: " + string(data) + "\n\n")); err != nil {
				logger.Debug().Err(err).Msg("Error writing SSE data")
				return
			}
			flusher.Flush()

		case <-r.Context().Done():
			logger.Debug().Msg("Progress stream client disconnected")
			return
		}
	}
}
