package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/todo-api/internal/domain"
	"github.com/phrazzld/todo-api/internal/service/auth"
)

// RegisterRequest defines the payload for the user registration endpoint.
// An empty role registers a Guest.
type RegisterRequest struct {
	Email    string `json:"email"    validate:"required,email,max=254"`
	Username string `json:"username" validate:"required,max=50"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	Role     string `json:"role"     validate:"omitempty,oneof=Owner Guest owner guest"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

// InviteRequest defines the payload for the invitation endpoint.
type InviteRequest struct {
	Email string `json:"email" validate:"required,email,max=254"`
	Role  string `json:"role"  validate:"omitempty,oneof=Owner Guest owner guest"`
}

// AcceptInvitationRequest defines the payload for accepting an invitation.
type AcceptInvitationRequest struct {
	Token    string `json:"token"    validate:"required"`
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse defines the successful response for authentication endpoints.
type AuthResponse struct {
	UserID    uuid.UUID   `json:"user_id"`
	Email     string      `json:"email"`
	Username  string      `json:"username"`
	Role      domain.Role `json:"role"`
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
}

// InvitationResponse is returned to the inviter.
type InvitationResponse struct {
	UserID         uuid.UUID   `json:"user_id"`
	Email          string      `json:"email"`
	Role           domain.Role `json:"role"`
	ExpiresAt      time.Time   `json:"expires_at"`
	InvitationLink string      `json:"invitation_link"`
}

// CreateTodoRequest defines the payload for creating a todo item.
// Field rules are enforced by the domain so every violation is reported.
// An absent priority is Low.
type CreateTodoRequest struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Priority    domain.Priority `json:"priority"`
	DueDate     *time.Time      `json:"due_date"`
}

// UpdateTodoRequest defines the payload for a partial todo update. Absent
// fields are left unchanged; clear_due_date removes the due date.
type UpdateTodoRequest struct {
	Title        *string          `json:"title"`
	Description  *string          `json:"description"`
	IsCompleted  *bool            `json:"is_completed"`
	DueDate      *time.Time       `json:"due_date"`
	ClearDueDate bool             `json:"clear_due_date"`
	Priority     *domain.Priority `json:"priority"`
	Category     *string          `json:"category"`
}

// Patch converts the request into a domain patch.
func (r UpdateTodoRequest) Patch() domain.TodoPatch {
	return domain.TodoPatch{
		Title:        r.Title,
		Description:  r.Description,
		IsCompleted:  r.IsCompleted,
		DueDate:      r.DueDate,
		ClearDueDate: r.ClearDueDate,
		Priority:     r.Priority,
		Category:     r.Category,
	}
}

// TodoResponse represents a todo item on the wire.
type TodoResponse struct {
	ID          uuid.UUID       `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	IsCompleted bool            `json:"is_completed"`
	CreatedAt   time.Time       `json:"created_at"`
	DueDate     *time.Time      `json:"due_date"`
	CompletedAt *time.Time      `json:"completed_at"`
	Priority    domain.Priority `json:"priority"`
	Category    string          `json:"category"`
}

// UpdateUserRequest changes a user's email and/or role.
type UpdateUserRequest struct {
	Email *string `json:"email" validate:"omitempty,email,max=254"`
	Role  *string `json:"role"  validate:"omitempty,oneof=Owner Guest owner guest"`
}

// UserResponse represents a user on the wire. Credentials never leave the server.
type UserResponse struct {
	ID                uuid.UUID   `json:"id"`
	Email             string      `json:"email"`
	Username          string      `json:"username"`
	Role              domain.Role `json:"role"`
	CreatedAt         time.Time   `json:"created_at"`
	PendingInvitation bool        `json:"pending_invitation"`
}

// HealthResponse is returned by the health endpoint.
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

func todoToResponse(item *domain.TodoItem) TodoResponse {
	return TodoResponse{
		ID:          item.ID,
		Title:       item.Title,
		Description: item.Description,
		IsCompleted: item.IsCompleted,
		CreatedAt:   item.CreatedAt.UTC(),
		DueDate:     item.DueDate,
		CompletedAt: item.CompletedAt,
		Priority:    item.Priority,
		Category:    item.Category,
	}
}

func todosToResponse(items []*domain.TodoItem) []TodoResponse {
	out := make([]TodoResponse, 0, len(items))
	for _, it := range items {
		out = append(out, todoToResponse(it))
	}
	return out
}

func userToResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:                u.ID,
		Email:             u.Email,
		Username:          u.Username,
		Role:              u.Role,
		CreatedAt:         u.CreatedAt.UTC(),
		PendingInvitation: u.IsPendingInvitation(),
	}
}

func authResultToResponse(res *auth.AuthResult) AuthResponse {
	return AuthResponse{
		UserID:    res.User.ID,
		Email:     res.User.Email,
		Username:  res.User.Username,
		Role:      res.User.Role,
		Token:     res.Token,
		ExpiresAt: res.ExpiresAt.UTC(),
	}
}
