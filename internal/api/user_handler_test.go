package api_test

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/jpeg"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskfolio/taskfolio-api/internal/api"
)

func TestRegisterEndpoint(t *testing.T) {
	env := newTestEnv(t)

	resp := env.register(t, "Ada", "Ada@Example.COM", "secret99", 30)

	assert.Equal(t, "Ada", resp.User.Name)
	assert.Equal(t, "ada@example.com", resp.User.Email)
	assert.Equal(t, 30, resp.User.Age)
	assert.NotEmpty(t, resp.Token)

	// The issued token is immediately usable.
	rec := env.do(t, http.MethodGet, "/users/me", resp.Token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRegisterEndpointValidation(t *testing.T) {
	env := newTestEnv(t)

	cases := []struct {
		name string
		body map[string]interface{}
	}{
		{"missing name", map[string]interface{}{"email": "a@b.com", "password": "secret99"}},
		{"bad email", map[string]interface{}{"name": "Ada", "email": "nope", "password": "secret99"}},
		{"short password", map[string]interface{}{"name": "Ada", "email": "a@b.com", "password": "abc"}},
		{"negative age", map[string]interface{}{"name": "Ada", "email": "a@b.com", "password": "secret99", "age": -1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := env.do(t, http.MethodPost, "/users", "", tc.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestRegisterEndpointDuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "Ada", "ada@example.com", "secret99", 30)

	rec := env.do(t, http.MethodPost, "/users", "", map[string]interface{}{
		"name":     "Other",
		"email":    "ada@example.com",
		"password": "secret99",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestLoginEndpoint(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "Ada", "ada@example.com", "secret99", 30)

	rec := env.do(t, http.MethodPost, "/users/login", "", map[string]interface{}{
		"email":    "ada@example.com",
		"password": "secret99",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp api.AuthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ada@example.com", resp.User.Email)
	assert.NotEmpty(t, resp.Token)
}

func TestLoginEndpointBadCredentials(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "Ada", "ada@example.com", "secret99", 30)

	unknown := env.do(t, http.MethodPost, "/users/login", "", map[string]interface{}{
		"email":    "nobody@example.com",
		"password": "secret99",
	})
	wrong := env.do(t, http.MethodPost, "/users/login", "", map[string]interface{}{
		"email":    "ada@example.com",
		"password": "wrong-password",
	})

	// Unknown email and wrong password are indistinguishable.
	assert.Equal(t, http.StatusUnauthorized, unknown.Code)
	assert.Equal(t, http.StatusUnauthorized, wrong.Code)

	var unknownResp, wrongResp struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(unknown.Body.Bytes(), &unknownResp))
	require.NoError(t, json.Unmarshal(wrong.Body.Bytes(), &wrongResp))
	assert.Equal(t, unknownResp.Error, wrongResp.Error)
}

func TestLogoutEndpoint(t *testing.T) {
	env := newTestEnv(t)
	resp := env.register(t, "Ada", "ada@example.com", "secret99", 30)

	// A second device logs in.
	login := env.do(t, http.MethodPost, "/users/login", "", map[string]interface{}{
		"email":    "ada@example.com",
		"password": "secret99",
	})
	require.Equal(t, http.StatusOK, login.Code)
	var second api.AuthResponse
	require.NoError(t, json.Unmarshal(login.Body.Bytes(), &second))

	rec := env.do(t, http.MethodPost, "/users/logout", resp.Token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	// The logged-out token is dead, the other device's still works.
	assert.Equal(t, http.StatusUnauthorized,
		env.do(t, http.MethodGet, "/users/me", resp.Token, nil).Code)
	assert.Equal(t, http.StatusOK,
		env.do(t, http.MethodGet, "/users/me", second.Token, nil).Code)
}

func TestLogoutAllEndpoint(t *testing.T) {
	env := newTestEnv(t)
	resp := env.register(t, "Ada", "ada@example.com", "secret99", 30)

	login := env.do(t, http.MethodPost, "/users/login", "", map[string]interface{}{
		"email":    "ada@example.com",
		"password": "secret99",
	})
	require.Equal(t, http.StatusOK, login.Code)
	var second api.AuthResponse
	require.NoError(t, json.Unmarshal(login.Body.Bytes(), &second))

	rec := env.do(t, http.MethodPost, "/users/logoutAll", resp.Token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	for _, token := range []string{resp.Token, second.Token} {
		assert.Equal(t, http.StatusUnauthorized,
			env.do(t, http.MethodGet, "/users/me", token, nil).Code)
	}
}

func TestGetProfileEndpoint(t *testing.T) {
	env := newTestEnv(t)
	resp := env.register(t, "Ada", "ada@example.com", "secret99", 30)

	rec := env.do(t, http.MethodGet, "/users/me", resp.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var user api.UserResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &user))
	assert.Equal(t, resp.User.ID, user.ID)

	// The raw body must never leak credential material.
	body := rec.Body.String()
	assert.NotContains(t, body, "password")
	assert.NotContains(t, body, "hashed")
	assert.NotContains(t, body, "token")
}

func TestProtectedEndpointsRequireAuth(t *testing.T) {
	env := newTestEnv(t)

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/users/me"},
		{http.MethodPatch, "/users/me"},
		{http.MethodDelete, "/users/me"},
		{http.MethodPost, "/users/logout"},
		{http.MethodPost, "/users/logoutAll"},
		{http.MethodPost, "/tasks"},
		{http.MethodGet, "/tasks"},
	}
	for _, tc := range paths {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			// No header at all.
			rec := env.do(t, tc.method, tc.path, "", nil)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)

			// A token that was never issued.
			rec = env.do(t, tc.method, tc.path, "bogus-token", nil)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestUpdateProfileEndpoint(t *testing.T) {
	env := newTestEnv(t)
	resp := env.register(t, "Ada", "ada@example.com", "secret99", 30)

	rec := env.do(t, http.MethodPatch, "/users/me", resp.Token, map[string]interface{}{
		"name": "Ada L.",
		"age":  31,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var user api.UserResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &user))
	assert.Equal(t, "Ada L.", user.Name)
	assert.Equal(t, 31, user.Age)
	assert.Equal(t, "ada@example.com", user.Email)
}

func TestUpdateProfileEndpointRejectsUnknownFields(t *testing.T) {
	env := newTestEnv(t)
	resp := env.register(t, "Ada", "ada@example.com", "secret99", 30)

	// Unknown fields fail the whole update, nothing is applied.
	rec := env.do(t, http.MethodPatch, "/users/me", resp.Token, map[string]interface{}{
		"name":     "Changed",
		"location": "nowhere",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	me := env.do(t, http.MethodGet, "/users/me", resp.Token, nil)
	var user api.UserResponse
	require.NoError(t, json.Unmarshal(me.Body.Bytes(), &user))
	assert.Equal(t, "Ada", user.Name)
}

func TestUpdateProfilePasswordRules(t *testing.T) {
	env := newTestEnv(t)
	resp := env.register(t, "Ada", "ada@example.com", "secret99", 30)

	rec := env.do(t, http.MethodPatch, "/users/me", resp.Token, map[string]interface{}{
		"password": "Password1",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPatch, "/users/me", resp.Token, map[string]interface{}{
		"password": "newsecret1",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	// The new password works, the old one does not.
	assert.Equal(t, http.StatusOK, env.do(t, http.MethodPost, "/users/login", "", map[string]interface{}{
		"email": "ada@example.com", "password": "newsecret1",
	}).Code)
	assert.Equal(t, http.StatusUnauthorized, env.do(t, http.MethodPost, "/users/login", "", map[string]interface{}{
		"email": "ada@example.com", "password": "secret99",
	}).Code)
}

func TestDeleteProfileEndpoint(t *testing.T) {
	env := newTestEnv(t)
	resp := env.register(t, "Ada", "ada@example.com", "secret99", 30)

	// Seed a task so the cascade has something to remove.
	created := env.do(t, http.MethodPost, "/tasks", resp.Token, map[string]interface{}{
		"description": "buy milk",
	})
	require.Equal(t, http.StatusCreated, created.Code)

	env.dbMock.ExpectBegin()
	env.dbMock.ExpectCommit()

	rec := env.do(t, http.MethodDelete, "/users/me", resp.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, env.dbMock.ExpectationsWereMet())

	// The response echoes the deleted account.
	var user api.UserResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &user))
	assert.Equal(t, resp.User.ID, user.ID)

	// Token, account, and tasks are all gone.
	assert.Equal(t, http.StatusUnauthorized,
		env.do(t, http.MethodGet, "/users/me", resp.Token, nil).Code)
	assert.Empty(t, env.tasks.Tasks)
}

func jpegBytes(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: 200, G: uint8(x % 256), B: uint8(y % 256), A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return buf.Bytes()
}

func TestAvatarUploadAndServe(t *testing.T) {
	env := newTestEnv(t)
	resp := env.register(t, "Ada", "ada@example.com", "secret99", 30)

	body, contentType := multipartFile(t, "avatar", "me.jpg", jpegBytes(t, 300, 200))
	rec := env.doRaw(t, http.MethodPost, "/users/me/avatar", resp.Token, contentType, body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// The avatar is publicly served as PNG.
	serve := env.do(t, http.MethodGet, "/users/"+resp.User.ID.String()+"/avatar", "", nil)
	require.Equal(t, http.StatusOK, serve.Code)
	assert.Equal(t, "image/png", serve.Header().Get("Content-Type"))

	decoded, format, err := image.Decode(bytes.NewReader(serve.Body.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.Equal(t, 250, decoded.Bounds().Dx())
	assert.Equal(t, 250, decoded.Bounds().Dy())
}

func TestAvatarUploadRejectsBadInput(t *testing.T) {
	env := newTestEnv(t)
	resp := env.register(t, "Ada", "ada@example.com", "secret99", 30)

	t.Run("disallowed extension", func(t *testing.T) {
		body, contentType := multipartFile(t, "avatar", "notes.txt", []byte("hello"))
		rec := env.doRaw(t, http.MethodPost, "/users/me/avatar", resp.Token, contentType, body)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("undecodable image", func(t *testing.T) {
		body, contentType := multipartFile(t, "avatar", "fake.jpg", []byte("not an image"))
		rec := env.doRaw(t, http.MethodPost, "/users/me/avatar", resp.Token, contentType, body)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing field", func(t *testing.T) {
		body, contentType := multipartFile(t, "other", "me.jpg", jpegBytes(t, 10, 10))
		rec := env.doRaw(t, http.MethodPost, "/users/me/avatar", resp.Token, contentType, body)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestAvatarDelete(t *testing.T) {
	env := newTestEnv(t)
	resp := env.register(t, "Ada", "ada@example.com", "secret99", 30)

	body, contentType := multipartFile(t, "avatar", "me.jpg", jpegBytes(t, 50, 50))
	require.Equal(t, http.StatusOK,
		env.doRaw(t, http.MethodPost, "/users/me/avatar", resp.Token, contentType, body).Code)

	rec := env.do(t, http.MethodDelete, "/users/me/avatar", resp.Token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	serve := env.do(t, http.MethodGet, "/users/"+resp.User.ID.String()+"/avatar", "", nil)
	assert.Equal(t, http.StatusNotFound, serve.Code)
}

func TestGetAvatarNotFoundCases(t *testing.T) {
	env := newTestEnv(t)
	resp := env.register(t, "Ada", "ada@example.com", "secret99", 30)

	// No avatar uploaded yet.
	assert.Equal(t, http.StatusNotFound,
		env.do(t, http.MethodGet, "/users/"+resp.User.ID.String()+"/avatar", "", nil).Code)

	// Unknown user.
	assert.Equal(t, http.StatusNotFound,
		env.do(t, http.MethodGet, "/users/b9f7d0f0-0000-4000-8000-000000000000/avatar", "", nil).Code)

	// Malformed user ID is the same 404.
	assert.Equal(t, http.StatusNotFound,
		env.do(t, http.MethodGet, "/users/not-a-uuid/avatar", "", nil).Code)
}
