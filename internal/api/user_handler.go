package api

import (
	"errors"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/taskfolio/taskfolio-api/internal/api/middleware"
	"github.com/taskfolio/taskfolio-api/internal/api/shared"
	"github.com/taskfolio/taskfolio-api/internal/config"
	"github.com/taskfolio/taskfolio-api/internal/service"
	"github.com/taskfolio/taskfolio-api/internal/store"
)

// allowedAvatarExtensions mirrors the upload filter: only these file
// extensions are accepted before decoding is even attempted.
var allowedAvatarExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// UserHandler handles account and session API requests.
type UserHandler struct {
	users     service.UserService
	sessions  service.SessionService
	avatars   *service.AvatarProcessor
	avatarCfg config.AvatarConfig
}

// NewUserHandler creates a new UserHandler with the given dependencies.
func NewUserHandler(
	users service.UserService,
	sessions service.SessionService,
	avatars *service.AvatarProcessor,
	avatarCfg config.AvatarConfig,
) *UserHandler {
	return &UserHandler{
		users:     users,
		sessions:  sessions,
		avatars:   avatars,
		avatarCfg: avatarCfg,
	}
}

// Register handles POST /users.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	user, err := h.users.Register(r.Context(), req.Name, req.Email, req.Password, req.Age)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	token, err := h.sessions.IssueToken(r.Context(), user.ID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to issue authentication token")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, AuthResponse{
		User:  NewUserResponse(user),
		Token: token,
	})
}

// Login handles POST /users/login.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	user, err := h.users.VerifyCredentials(r.Context(), req.Email, req.Password)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	token, err := h.sessions.IssueToken(r.Context(), user.ID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to issue authentication token")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, AuthResponse{
		User:  NewUserResponse(user),
		Token: token,
	})
}

// Logout handles POST /users/logout: it revokes exactly the token the
// request presented, leaving other devices' sessions live.
func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	token, ok := middleware.GetSessionToken(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	if err := h.sessions.RevokeToken(r.Context(), userID, token); err != nil {
		HandleAPIError(w, r, err, "Failed to log out")
		return
	}

	w.WriteHeader(http.StatusOK)
}

// LogoutAll handles POST /users/logoutAll: it revokes every session for
// the authenticated user.
func (h *UserHandler) LogoutAll(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	if err := h.sessions.RevokeAllTokens(r.Context(), userID); err != nil {
		HandleAPIError(w, r, err, "Failed to log out")
		return
	}

	w.WriteHeader(http.StatusOK)
}

// GetProfile handles GET /users/me.
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	user, err := h.users.GetUser(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewUserResponse(user))
}

// UpdateProfile handles PATCH /users/me. The request body may contain
// only the whitelisted fields; anything else fails the whole update.
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req UpdateProfileRequest
	if err := shared.DecodeJSONStrict(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid update")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	user, err := h.users.UpdateProfile(r.Context(), userID, service.ProfileUpdate{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Age:      req.Age,
	})
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewUserResponse(user))
}

// DeleteProfile handles DELETE /users/me. The response echoes the
// deleted account.
func (h *UserHandler) DeleteProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	user, err := h.users.GetUser(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if err := h.users.DeleteUser(r.Context(), userID); err != nil {
		HandleAPIError(w, r, err, "Failed to delete account")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewUserResponse(user))
}

// UploadAvatar handles POST /users/me/avatar. The multipart field
// "avatar" must be a jpg, jpeg, or png within the configured size limit;
// it is resized to a fixed square and stored as PNG.
func (h *UserHandler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.avatarCfg.MaxUploadBytes)
	if err := r.ParseMultipartForm(h.avatarCfg.MaxUploadBytes); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Image too large or malformed upload")
		return
	}

	file, header, err := r.FormFile("avatar")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Missing avatar file")
		return
	}
	defer func() { _ = file.Close() }()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedAvatarExtensions[ext] {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Please upload a jpg, jpeg, or png image")
		return
	}

	avatar, err := h.avatars.Process(file)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if err := h.users.SetAvatar(r.Context(), userID, avatar); err != nil {
		HandleAPIError(w, r, err, "Failed to store avatar")
		return
	}

	w.WriteHeader(http.StatusOK)
}

// DeleteAvatar handles DELETE /users/me/avatar.
func (h *UserHandler) DeleteAvatar(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	if err := h.users.DeleteAvatar(r.Context(), userID); err != nil {
		HandleAPIError(w, r, err, "Failed to delete avatar")
		return
	}

	w.WriteHeader(http.StatusOK)
}

// GetAvatar handles the public GET /users/{id}/avatar. A malformed ID,
// an unknown user, and a user without an avatar all yield 404.
func (h *UserHandler) GetAvatar(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(r, "id")
	if !ok {
		shared.RespondWithError(w, r, http.StatusNotFound, "Not found")
		return
	}

	avatar, err := h.users.GetAvatar(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			shared.RespondWithError(w, r, http.StatusNotFound, "Not found")
			return
		}
		HandleAPIError(w, r, err, "Failed to fetch avatar")
		return
	}

	// Avatars are re-encoded to PNG on upload.
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(avatar)
}
