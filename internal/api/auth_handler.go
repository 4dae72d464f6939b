package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/todo-api/internal/api/shared"
	"github.com/phrazzld/todo-api/internal/platform/logger"
	"github.com/phrazzld/todo-api/internal/service/auth"
)

// AuthHandler handles authentication-related API requests.
type AuthHandler struct {
	authService auth.Service
	logger      *slog.Logger
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(authService auth.Service, logger *slog.Logger) *AuthHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for AuthHandler")
	}
	return &AuthHandler{
		authService: authService,
		logger:      logger.With(slog.String("component", "auth_handler")),
	}
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	res, err := h.authService.Register(r.Context(), auth.RegisterInput{
		Email:    req.Email,
		Username: req.Username,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to register user")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, authResultToResponse(res))
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	res, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to authenticate user")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, authResultToResponse(res))
}

// Invite handles POST /auth/invite. The caller must be authenticated.
func (h *AuthHandler) Invite(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	inviterID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	var req InviteRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	inv, err := h.authService.InviteUser(r.Context(), auth.InviteInput{Email: req.Email, Role: req.Role}, inviterID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to invite user")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, InvitationResponse{
		UserID:         inv.UserID,
		Email:          inv.Email,
		Role:           inv.Role,
		ExpiresAt:      inv.ExpiresAt.UTC(),
		InvitationLink: inv.Link,
	})
}

// AcceptInvitation handles POST /auth/accept-invitation.
func (h *AuthHandler) AcceptInvitation(w http.ResponseWriter, r *http.Request) {
	var req AcceptInvitationRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	res, err := h.authService.AcceptInvitation(r.Context(), auth.AcceptInput{
		Token:    req.Token,
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to accept invitation")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, authResultToResponse(res))
}

// decodeAndValidate decodes the JSON body into req and validates it,
// writing a 400 response on failure.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, req any) bool {
	if err := shared.DecodeJSON(r, req); err != nil {
		HandleAPIError(w, r, err, "")
		return false
	}
	if err := shared.ValidateRequest(req); err != nil {
		HandleAPIError(w, r, err, "")
		return false
	}
	return true
}
