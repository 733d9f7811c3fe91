package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"student-admin-backend/internal/apperrors"
	"student-admin-backend/internal/logger"
	"student-admin-backend/internal/response"
)

var errInternal = errors.New("internal server error")

// writeError maps service errors onto status codes. Anything unrecognised is
// logged and reported as a generic 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verrs validator.ValidationErrors
	var tooLarge *http.MaxBytesError

	switch {
	case errors.Is(err, apperrors.ErrStudentNotFound),
		errors.Is(err, apperrors.ErrProfileImageMissing):
		w.WriteHeader(http.StatusNotFound)
	case errors.Is(err, apperrors.ErrInvalidImageFormat),
		errors.Is(err, apperrors.ErrNoFileUploaded),
		errors.Is(err, apperrors.ErrFileTooLarge):
		response.WriteMessage(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, apperrors.ErrFileNotFound):
		response.WriteMessage(w, http.StatusNotFound, err.Error())
	case errors.Is(err, apperrors.ErrProfileImageNotSaved):
		response.WriteMessage(w, http.StatusInternalServerError, err.Error())
	case errors.As(err, &verrs):
		response.WriteJSON(w, http.StatusBadRequest, response.ValidationError(verrs))
	case errors.As(err, &tooLarge):
		response.WriteJSON(w, http.StatusRequestEntityTooLarge, response.GeneralError(err))
	default:
		logger.Error().Err(err).Str("method", r.Method).Str("path", r.URL.Path).Msg("Request failed")
		response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(errInternal))
	}
}

// pathID parses the named path variable. A value that is not a UUID can never
// match a record, so callers answer 404.
func pathID(r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)[name])
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

func decodeJSON(r *http.Request, v any) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return errors.New("request body is empty")
	}
	return err
}
