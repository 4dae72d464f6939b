package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/todo-api/internal/api/middleware"
	"github.com/phrazzld/todo-api/internal/api/shared"
	"github.com/phrazzld/todo-api/internal/config"
	"github.com/phrazzld/todo-api/internal/domain"
	"github.com/phrazzld/todo-api/internal/mocks"
	"github.com/phrazzld/todo-api/internal/platform/logger"
	"github.com/phrazzld/todo-api/internal/service"
	"github.com/phrazzld/todo-api/internal/service/auth"
	"github.com/stretchr/testify/require"
)

// testAPI is the full /api route tree over in-memory stores.
type testAPI struct {
	router http.Handler
	users  *mocks.MockUserStore
	todos  *mocks.MockTodoStore
	tokens auth.JWTService
	sender *mocks.MockInvitationSender
	logs   *logger.TestLogBuffer
	now    time.Time
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	buf, log := logger.NewTestLogger(t)
	a := &testAPI{
		users:  mocks.NewMockUserStore(),
		todos:  mocks.NewMockTodoStore(),
		sender: &mocks.MockInvitationSender{},
		logs:   buf,
		now:    time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC),
	}
	clock := func() time.Time { return a.now }

	tokens, err := auth.NewJWTServiceWithClock(config.AuthConfig{
		JWTSecret:            "api-test-secret-that-is-long-enough",
		Issuer:               "todo-api",
		Audience:             "todo-api-clients",
		TokenLifetimeMinutes: 60,
	}, clock)
	require.NoError(t, err)
	a.tokens = tokens

	authSvc, err := auth.NewService(a.users, tokens, &mocks.MockPasswordHasher{}, a.sender, auth.ServiceConfig{
		BaseURL:            "https://todo.example.com",
		InvitationLifetime: 7 * 24 * time.Hour,
		Now:                clock,
	}, log)
	require.NoError(t, err)
	todoSvc, err := service.NewTodoService(a.todos, clock, log)
	require.NoError(t, err)
	userSvc, err := service.NewUserService(a.users, log)
	require.NoError(t, err)

	r := chi.NewRouter()
	r.Use(middleware.TraceMiddleware(log))
	RegisterRoutes(r, Handlers{
		Auth:  NewAuthHandler(authSvc, log),
		Todos: NewTodoHandler(todoSvc, log),
		Users: NewUserHandler(userSvc, log),
	}, middleware.NewAuthMiddleware(tokens, log))
	a.router = r
	return a
}

// seedUser stores an active user whose password is "Secret1!" and returns
// it with a bearer token.
func (a *testAPI) seedUser(t *testing.T, email, username string, role domain.Role) (*domain.User, string) {
	t.Helper()
	u, err := domain.NewUser(email, username, "hashed:Secret1!", role)
	require.NoError(t, err)
	require.NoError(t, a.users.Create(context.Background(), u))

	token, _, err := a.tokens.GenerateToken(context.Background(), u)
	require.NoError(t, err)
	return u, token
}

func (a *testAPI) seedTodo(t *testing.T, title, category string, priority domain.Priority, age time.Duration) *domain.TodoItem {
	t.Helper()
	item, err := domain.NewTodoItem(title, "", category, priority, nil)
	require.NoError(t, err)
	item.CreatedAt = a.now.Add(-age)
	require.NoError(t, a.todos.Create(context.Background(), item))
	return item
}

func (a *testAPI) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func errorFields(t *testing.T, rec *httptest.ResponseRecorder) []string {
	t.Helper()
	resp := decodeBody[shared.ErrorResponse](t, rec)
	fields := make([]string, 0, len(resp.Fields))
	for _, f := range resp.Fields {
		fields = append(fields, f.Field)
	}
	return fields
}
