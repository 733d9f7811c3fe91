// Package response writes JSON bodies in the shapes the front end expects.
// Error bodies use the envelope {"status":"error","error":"..."}.
package response

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"student-admin-backend/internal/logger"
)

type Response struct {
	Status string `json:"status"`
	Error  string `json:"error"`
}

const (
	StatusOK    = "ok"
	StatusError = "error"
)

// WriteJSON sets the content type and status before encoding data.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error().Err(err).Int("status", status).Msg("Error encoding response")
	}
}

// WriteMessage sends a bare JSON string, used for the fixed client messages.
func WriteMessage(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, message)
}

func GeneralError(err error) Response {
	return Response{
		Status: StatusError,
		Error:  err.Error(),
	}
}

// ValidationError joins one sentence per failing field.
func ValidationError(errs validator.ValidationErrors) Response {
	messages := make([]string, 0, len(errs))

	for _, e := range errs {
		switch e.ActualTag() {
		case "required":
			messages = append(messages, fmt.Sprintf("field %s is required", e.Field()))
		case "email":
			messages = append(messages, fmt.Sprintf("field %s must be a valid email address", e.Field()))
		case "gt", "lt":
			messages = append(messages, fmt.Sprintf("field %s must be between 6 and 10 digits", e.Field()))
		case "gender":
			messages = append(messages, fmt.Sprintf("field %s is not a known gender", e.Field()))
		default:
			messages = append(messages, fmt.Sprintf("field %s is invalid", e.Field()))
		}
	}

	return Response{
		Status: StatusError,
		Error:  strings.Join(messages, ", "),
	}
}
