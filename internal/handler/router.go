package handler

import (
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"student-admin-backend/internal/logger"
)

type RouteRegistrar interface {
	RegisterRoutes(r *mux.Router)
}

// NewRouter mounts every registrar behind request logging, CORS and panic
// recovery.
func NewRouter(allowedOrigins []string, registrars ...RouteRegistrar) http.Handler {
	r := mux.NewRouter()
	r.Use(RequestLogger)

	for _, registrar := range registrars {
		registrar.RegisterRoutes(r)
	}

	cors := handlers.CORS(
		handlers.AllowedOrigins(allowedOrigins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization", requestIDHeader}),
		handlers.ExposedHeaders([]string{"Location", requestIDHeader}),
	)

	recovery := handlers.RecoveryHandler(
		handlers.RecoveryLogger(logger.RecoveryLogger{}),
		handlers.PrintRecoveryStack(true),
	)

	return recovery(cors(r))
}
