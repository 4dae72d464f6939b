package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/todo-api/internal/domain"
	"github.com/phrazzld/todo-api/internal/platform/logger"
	"github.com/phrazzld/todo-api/internal/store"
)

const userServiceName = "user"

// UpdateUserInput changes a user's email and/or role. Nil fields are left unchanged.
type UpdateUserInput struct {
	Email *string
	Role  *string
}

// UserService provides user administration. Callers are expected to have
// checked that the actor may manage users.
type UserService interface {
	// ListUsers returns every user, oldest first.
	ListUsers(ctx context.Context) ([]*domain.User, error)

	// GetUser retrieves a user by their ID
	GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error)

	// UpdateUser changes the email and/or role of a user.
	// Returns domain.ErrConflict when the new email is taken.
	UpdateUser(ctx context.Context, userID uuid.UUID, in UpdateUserInput) (*domain.User, error)

	// DeleteUser deletes a user. An actor cannot delete their own account.
	DeleteUser(ctx context.Context, actorID, userID uuid.UUID) error
}

// UserServiceImpl implements the UserService interface
type UserServiceImpl struct {
	userStore store.UserStore
	logger    *slog.Logger
}

// NewUserService creates a new UserService
func NewUserService(userStore store.UserStore, log *slog.Logger) (UserService, error) {
	if userStore == nil {
		return nil, errors.New("user service requires a user store")
	}
	if log == nil {
		log = slog.Default()
	}
	return &UserServiceImpl{
		userStore: userStore,
		logger:    log.With(slog.String("component", "user_service")),
	}, nil
}

// ListUsers implements UserService.ListUsers
func (s *UserServiceImpl) ListUsers(ctx context.Context) ([]*domain.User, error) {
	users, err := s.userStore.List(ctx)
	if err != nil {
		return nil, mapStoreError(userServiceName, "list", err)
	}
	return users, nil
}

// GetUser implements UserService.GetUser
func (s *UserServiceImpl) GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := s.userStore.GetByID(ctx, userID)
	if err != nil {
		if !errors.Is(err, store.ErrUserNotFound) {
			log.Error("failed to retrieve user",
				slog.String("error", err.Error()),
				slog.String("user_id", userID.String()))
		}
		return nil, mapStoreError(userServiceName, "get", err)
	}
	return user, nil
}

// UpdateUser implements UserService.UpdateUser
func (s *UserServiceImpl) UpdateUser(
	ctx context.Context,
	userID uuid.UUID,
	in UpdateUserInput,
) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	verr := &domain.ValidationError{}
	var email string
	if in.Email != nil {
		email = strings.TrimSpace(*in.Email)
		verr.Merge(domain.ValidateEmail(email))
	}
	var role domain.Role
	if in.Role != nil {
		parsed, err := domain.ParseRole(*in.Role)
		if err != nil {
			verr.Add("role", "must be Owner or Guest")
		}
		role = parsed
	}
	if err := verr.Err(); err != nil {
		return nil, err
	}

	// Following the pattern of getting the complete user first, then
	// updating the specific fields
	user, err := s.userStore.GetByID(ctx, userID)
	if err != nil {
		return nil, mapStoreError(userServiceName, "update", err)
	}
	if in.Email != nil {
		user.Email = email
	}
	if in.Role != nil {
		user.Role = role
	}

	if err := s.userStore.Update(ctx, user); err != nil {
		if store.IsDuplicateError(err) {
			log.Debug("attempted to update user to an existing email", slog.String("user_id", userID.String()))
		}
		return nil, mapStoreError(userServiceName, "update", err)
	}

	log.Info("user updated",
		slog.String("user_id", userID.String()),
		slog.String("role", user.Role.String()))
	return user, nil
}

// DeleteUser implements UserService.DeleteUser
func (s *UserServiceImpl) DeleteUser(ctx context.Context, actorID, userID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if actorID == userID {
		log.Warn("user attempted to delete their own account", slog.String("user_id", userID.String()))
		return ErrSelfDeletion
	}

	if err := s.userStore.Delete(ctx, userID); err != nil {
		return mapStoreError(userServiceName, "delete", err)
	}

	log.Info("user deleted",
		slog.String("user_id", userID.String()),
		slog.String("actor_id", actorID.String()))
	return nil
}
