package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteJSON(t *testing.T) {
	w := httptest.NewRecorder()

	WriteJSON(w, http.StatusCreated, map[string]string{"id": "42"})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"id":"42"}`, w.Body.String())
}

func TestWriteMessage(t *testing.T) {
	w := httptest.NewRecorder()

	WriteMessage(w, http.StatusBadRequest, "This is not a valid Image format")

	var body string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "This is not a valid Image format", body)
}

func TestGeneralError(t *testing.T) {
	resp := GeneralError(errors.New("boom"))

	assert.Equal(t, Response{Status: StatusError, Error: "boom"}, resp)
}

type sample struct {
	Name   string `validate:"required"`
	Email  string `validate:"email"`
	Mobile int64  `validate:"gt=99999"`
	Code   string `validate:"len=3"`
}

func TestValidationError(t *testing.T) {
	err := validator.New().Struct(sample{Email: "nope", Mobile: 1, Code: "x"})
	var verrs validator.ValidationErrors
	require.True(t, errors.As(err, &verrs))

	resp := ValidationError(verrs)

	assert.Equal(t, StatusError, resp.Status)
	assert.Equal(t,
		"field Name is required, field Email must be a valid email address, "+
			"field Mobile must be between 6 and 10 digits, field Code is invalid",
		resp.Error)
}
