package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/todo-api/internal/api/middleware"
	"github.com/phrazzld/todo-api/internal/domain"
)

// Handlers groups the handlers mounted under /api.
type Handlers struct {
	Auth  *AuthHandler
	Todos *TodoHandler
	Users *UserHandler
}

// RegisterRoutes mounts the /api routes on r. Owner-only routes are gated
// with authMW.RequireRole.
func RegisterRoutes(r chi.Router, h Handlers, authMW *middleware.AuthMiddleware) {
	ownerOnly := authMW.RequireRole(domain.RoleOwner)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", h.Auth.Register)
			r.Post("/login", h.Auth.Login)
			r.Post("/accept-invitation", h.Auth.AcceptInvitation)
			r.With(authMW.Authenticate, ownerOnly).Post("/invite", h.Auth.Invite)
		})

		r.Group(func(r chi.Router) {
			r.Use(authMW.Authenticate)

			r.Route("/todo", func(r chi.Router) {
				r.Get("/", h.Todos.ListAll)
				r.Get("/paged", h.Todos.ListPaged)
				r.Get("/by-priority/{priority}", h.Todos.ListByPriority)
				r.Get("/by-category/{category}", h.Todos.ListByCategory)
				r.Get("/filtered", h.Todos.ListFiltered)
				r.With(ownerOnly).Post("/", h.Todos.Create)

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", h.Todos.Get)
					r.Patch("/toggle-completion", h.Todos.ToggleCompletion)
					r.With(ownerOnly).Put("/", h.Todos.Update)
					r.With(ownerOnly).Delete("/", h.Todos.Delete)
				})
			})

			r.Route("/users", func(r chi.Router) {
				r.Use(ownerOnly)
				r.Get("/", h.Users.List)
				r.Put("/{id}", h.Users.Update)
				r.Delete("/{id}", h.Users.Delete)
			})
		})
	})
}

