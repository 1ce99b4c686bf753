package api_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/taskfolio/taskfolio-api/internal/api"
	apiMiddleware "github.com/taskfolio/taskfolio-api/internal/api/middleware"
	"github.com/taskfolio/taskfolio-api/internal/config"
	"github.com/taskfolio/taskfolio-api/internal/mocks"
	"github.com/taskfolio/taskfolio-api/internal/service"
)

// testEnv wires real services over mock stores behind the same routes the
// server exposes, so handler tests exercise routing, middleware, and
// error mapping together.
type testEnv struct {
	router   chi.Router
	users    *mocks.MockUserStore
	sessions *mocks.MockSessionStore
	tasks    *mocks.MockTaskStore
	dbMock   sqlmock.Sqlmock

	userService    service.UserService
	sessionService service.SessionService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	env := &testEnv{
		users:    mocks.NewMockUserStore(),
		sessions: mocks.NewMockSessionStore(),
		tasks:    mocks.NewMockTaskStore(),
		dbMock:   dbMock,
	}

	tokens := mocks.NewMockTokenService()
	env.sessionService = service.NewSessionService(tokens, env.sessions, env.users, nil)
	env.userService = service.NewUserService(
		env.users,
		env.sessions,
		env.tasks,
		&mocks.MockPasswordHasher{},
		&mocks.MockPasswordVerifier{},
		&mocks.MockDispatcher{},
		db,
		nil,
	)
	taskService := service.NewTaskService(env.tasks, nil)

	avatarCfg := config.AvatarConfig{MaxUploadBytes: 1 << 20, Dimension: 250}
	userHandler := api.NewUserHandler(
		env.userService,
		env.sessionService,
		service.NewAvatarProcessor(avatarCfg),
		avatarCfg,
	)
	taskHandler := api.NewTaskHandler(taskService)
	authMiddleware := apiMiddleware.NewAuthMiddleware(env.sessionService)

	r := chi.NewRouter()
	r.Use(apiMiddleware.TraceMiddleware)

	r.Post("/users", userHandler.Register)
	r.Post("/users/login", userHandler.Login)
	r.Get("/users/{id}/avatar", userHandler.GetAvatar)

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.Authenticate)
		r.Post("/users/logout", userHandler.Logout)
		r.Post("/users/logoutAll", userHandler.LogoutAll)
		r.Get("/users/me", userHandler.GetProfile)
		r.Patch("/users/me", userHandler.UpdateProfile)
		r.Delete("/users/me", userHandler.DeleteProfile)
		r.Post("/users/me/avatar", userHandler.UploadAvatar)
		r.Delete("/users/me/avatar", userHandler.DeleteAvatar)

		r.Post("/tasks", taskHandler.Create)
		r.Get("/tasks", taskHandler.List)
		r.Get("/tasks/{id}", taskHandler.Get)
		r.Patch("/tasks/{id}", taskHandler.Update)
		r.Delete("/tasks/{id}", taskHandler.Delete)
	})

	env.router = r
	return env
}

// register creates an account through the API and returns the decoded
// auth response.
func (env *testEnv) register(t *testing.T, name, email, password string, age int) api.AuthResponse {
	t.Helper()

	body := map[string]interface{}{
		"name":     name,
		"email":    email,
		"password": password,
		"age":      age,
	}
	rec := env.do(t, http.MethodPost, "/users", "", body)
	require.Equal(t, http.StatusCreated, rec.Code, "register failed: %s", rec.Body.String())

	var resp api.AuthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp
}

// do performs a JSON request against the test router. A non-empty token
// is sent as a bearer credential.
func (env *testEnv) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	return rec
}

// doRaw performs a request with a prebuilt body and content type.
func (env *testEnv) doRaw(t *testing.T, method, path, token, contentType string, body io.Reader) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	return rec
}

// multipartFile builds a multipart body with one file field.
func multipartFile(t *testing.T, field, filename string, content []byte) (io.Reader, string) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}
