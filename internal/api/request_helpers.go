// Package api implements the HTTP handlers for the task-tracking API.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/taskfolio/taskfolio-api/internal/api/middleware"
	"github.com/taskfolio/taskfolio-api/internal/api/shared"
)

// requireUserID extracts the authenticated user's ID from the request
// context, writing a 401 response and returning false if it is absent.
// Absence means the handler was wired without the auth middleware.
func requireUserID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, ok := middleware.GetUserID(r)
	if !ok || userID == uuid.Nil {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return uuid.Nil, false
	}
	return userID, true
}

// pathUUID parses the named URL parameter as a UUID. The boolean result
// is false when the parameter is missing or malformed; callers decide
// whether that is a 400 or, for resource IDs, a 404 that hides whether
// the resource could even exist.
func pathUUID(r *http.Request, paramName string) (uuid.UUID, bool) {
	raw := chi.URLParam(r, paramName)
	if raw == "" {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
