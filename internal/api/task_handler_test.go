package api_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskfolio/taskfolio-api/internal/domain"
)

func createTask(t *testing.T, env *testEnv, token, description string, completed bool) domain.Task {
	t.Helper()

	rec := env.do(t, http.MethodPost, "/tasks", token, map[string]interface{}{
		"description": description,
		"completed":   completed,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var task domain.Task
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &task))
	return task
}

func TestCreateTaskEndpoint(t *testing.T) {
	env := newTestEnv(t)
	resp := env.register(t, "Ada", "ada@example.com", "secret99", 30)

	task := createTask(t, env, resp.Token, "buy milk", false)

	assert.NotEqual(t, uuid.Nil, task.ID)
	assert.Equal(t, "buy milk", task.Description)
	assert.False(t, task.Completed)
	assert.Equal(t, resp.User.ID, task.OwnerID)
}

func TestCreateTaskEndpointValidation(t *testing.T) {
	env := newTestEnv(t)
	resp := env.register(t, "Ada", "ada@example.com", "secret99", 30)

	rec := env.do(t, http.MethodPost, "/tasks", resp.Token, map[string]interface{}{
		"completed": true,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetTaskEndpoint(t *testing.T) {
	env := newTestEnv(t)
	resp := env.register(t, "Ada", "ada@example.com", "secret99", 30)
	task := createTask(t, env, resp.Token, "buy milk", false)

	rec := env.do(t, http.MethodGet, "/tasks/"+task.ID.String(), resp.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var got domain.Task
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, task.ID, got.ID)
}

func TestGetTaskEndpointNotFoundCases(t *testing.T) {
	env := newTestEnv(t)
	owner := env.register(t, "Ada", "ada@example.com", "secret99", 30)
	other := env.register(t, "Bob", "bob@example.com", "secret99", 40)
	task := createTask(t, env, owner.Token, "buy milk", false)

	// Absent ID, malformed ID, and another user's task all read as the
	// same 404.
	cases := map[string]string{
		"absent":        "/tasks/" + uuid.New().String(),
		"malformed":     "/tasks/definitely-not-a-uuid",
		"foreign owner": "/tasks/" + task.ID.String(),
	}
	for name, path := range cases {
		t.Run(name, func(t *testing.T) {
			token := owner.Token
			if name == "foreign owner" {
				token = other.Token
			}
			rec := env.do(t, http.MethodGet, path, token, nil)
			assert.Equal(t, http.StatusNotFound, rec.Code)
		})
	}
}

func TestUpdateTaskEndpoint(t *testing.T) {
	env := newTestEnv(t)
	resp := env.register(t, "Ada", "ada@example.com", "secret99", 30)
	task := createTask(t, env, resp.Token, "buy milk", false)

	rec := env.do(t, http.MethodPatch, "/tasks/"+task.ID.String(), resp.Token, map[string]interface{}{
		"completed": true,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var got domain.Task
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.True(t, got.Completed)
	assert.Equal(t, "buy milk", got.Description)
}

func TestUpdateTaskEndpointRejectsUnknownFields(t *testing.T) {
	env := newTestEnv(t)
	resp := env.register(t, "Ada", "ada@example.com", "secret99", 30)
	task := createTask(t, env, resp.Token, "buy milk", false)

	rec := env.do(t, http.MethodPatch, "/tasks/"+task.ID.String(), resp.Token, map[string]interface{}{
		"completed": true,
		"priority":  5,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Nothing was applied.
	get := env.do(t, http.MethodGet, "/tasks/"+task.ID.String(), resp.Token, nil)
	var got domain.Task
	require.NoError(t, json.Unmarshal(get.Body.Bytes(), &got))
	assert.False(t, got.Completed)
}

func TestUpdateTaskEndpointForeignTask(t *testing.T) {
	env := newTestEnv(t)
	owner := env.register(t, "Ada", "ada@example.com", "secret99", 30)
	other := env.register(t, "Bob", "bob@example.com", "secret99", 40)
	task := createTask(t, env, owner.Token, "buy milk", false)

	rec := env.do(t, http.MethodPatch, "/tasks/"+task.ID.String(), other.Token, map[string]interface{}{
		"completed": true,
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteTaskEndpoint(t *testing.T) {
	env := newTestEnv(t)
	resp := env.register(t, "Ada", "ada@example.com", "secret99", 30)
	task := createTask(t, env, resp.Token, "buy milk", false)

	rec := env.do(t, http.MethodDelete, "/tasks/"+task.ID.String(), resp.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// The response echoes the deleted task.
	var got domain.Task
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, task.ID, got.ID)

	assert.Equal(t, http.StatusNotFound,
		env.do(t, http.MethodDelete, "/tasks/"+task.ID.String(), resp.Token, nil).Code)
}

func TestListTasksEndpoint(t *testing.T) {
	env := newTestEnv(t)
	resp := env.register(t, "Ada", "ada@example.com", "secret99", 30)
	other := env.register(t, "Bob", "bob@example.com", "secret99", 40)

	createTask(t, env, resp.Token, "one", false)
	createTask(t, env, resp.Token, "two", true)
	createTask(t, env, resp.Token, "three", false)
	createTask(t, env, other.Token, "bob's task", false)

	rec := env.do(t, http.MethodGet, "/tasks", resp.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var tasks []domain.Task
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tasks))
	assert.Len(t, tasks, 3, "listing must only include the caller's tasks")
}

func TestListTasksEndpointFilters(t *testing.T) {
	env := newTestEnv(t)
	resp := env.register(t, "Ada", "ada@example.com", "secret99", 30)

	createTask(t, env, resp.Token, "one", false)
	createTask(t, env, resp.Token, "two", true)
	createTask(t, env, resp.Token, "three", true)

	listLen := func(t *testing.T, query string) []domain.Task {
		rec := env.do(t, http.MethodGet, "/tasks"+query, resp.Token, nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var tasks []domain.Task
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tasks))
		return tasks
	}

	assert.Len(t, listLen(t, "?completed=true"), 2)
	assert.Len(t, listLen(t, "?completed=false"), 1)
	// Anything besides "true" filters for incomplete tasks.
	assert.Len(t, listLen(t, "?completed=banana"), 1)
}

func TestListTasksEndpointSortAndPage(t *testing.T) {
	env := newTestEnv(t)
	resp := env.register(t, "Ada", "ada@example.com", "secret99", 30)

	createTask(t, env, resp.Token, "cherry", false)
	createTask(t, env, resp.Token, "apple", false)
	createTask(t, env, resp.Token, "banana", false)

	rec := env.do(t, http.MethodGet, "/tasks?sortBy=description-asc", resp.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var tasks []domain.Task
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tasks))
	require.Len(t, tasks, 3)
	assert.Equal(t, "apple", tasks[0].Description)
	assert.Equal(t, "cherry", tasks[2].Description)

	rec = env.do(t, http.MethodGet, "/tasks?sortBy=description-desc&limit=1&skip=1", resp.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tasks))
	require.Len(t, tasks, 1)
	assert.Equal(t, "banana", tasks[0].Description)
}

func TestListTasksEndpointBadParams(t *testing.T) {
	env := newTestEnv(t)
	resp := env.register(t, "Ada", "ada@example.com", "secret99", 30)

	for _, query := range []string{
		"?limit=abc",
		"?skip=-1",
		"?limit=-5",
	} {
		rec := env.do(t, http.MethodGet, "/tasks"+query, resp.Token, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "query %s", query)
	}
}
