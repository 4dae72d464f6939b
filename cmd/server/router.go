package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/todo-api/internal/api"
	apiMiddleware "github.com/phrazzld/todo-api/internal/api/middleware"
)

// setupRouter creates the application router with the standard middleware
// stack, the /api routes and the health check.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware(app.logger))

	api.RegisterRoutes(r, api.Handlers{
		Auth:  api.NewAuthHandler(app.authService, app.logger),
		Todos: api.NewTodoHandler(app.todoService, app.logger),
		Users: api.NewUserHandler(app.userService, app.logger),
	}, apiMiddleware.NewAuthMiddleware(app.jwtService, app.logger))

	r.Method(http.MethodGet, "/health", api.NewHealthHandler(app.db, app.logger))

	return r
}
