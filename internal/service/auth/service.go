package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/todo-api/internal/domain"
	"github.com/phrazzld/todo-api/internal/platform/logger"
	"github.com/phrazzld/todo-api/internal/store"
)

// DefaultInvitationLifetime applies when ServiceConfig leaves it unset.
const DefaultInvitationLifetime = 7 * 24 * time.Hour

// acceptInvitationPath is appended to the base URL in invitation links.
const acceptInvitationPath = "/accept-invitation"

// InvitationSender delivers invitation links to invitees.
type InvitationSender interface {
	SendInvitation(ctx context.Context, email, link string) error
}

// RegisterInput carries a self-registration request. An empty Role registers a Guest.
type RegisterInput struct {
	Email    string
	Username string
	Password string
	Role     string
}

// InviteInput carries an invitation request. An empty Role invites a Guest.
type InviteInput struct {
	Email string
	Role  string
}

// AcceptInput carries the invitee's chosen credentials.
type AcceptInput struct {
	Token    string
	Username string
	Password string
}

// AuthResult is returned by every operation that signs a user in.
type AuthResult struct {
	User      *domain.User
	Token     string
	ExpiresAt time.Time
}

// Invitation describes a pending invitation that has just been issued.
type Invitation struct {
	UserID    uuid.UUID
	Email     string
	Role      domain.Role
	Token     string
	ExpiresAt time.Time
	Link      string
}

// Service implements registration, login and the invitation flow.
type Service interface {
	// Register creates an active user and signs them in.
	// Returns domain.ErrConflict if the email or username is taken.
	Register(ctx context.Context, in RegisterInput) (*AuthResult, error)

	// Login verifies credentials and signs the user in.
	// Returns domain.ErrAuthentication for an unknown email, a wrong password
	// or an invitation that has not been accepted yet.
	Login(ctx context.Context, email, password string) (*AuthResult, error)

	// InviteUser creates a pending user and sends them an invitation link.
	// Returns domain.ErrAuthorization unless the inviter may invite, and
	// domain.ErrConflict if the email is already registered.
	InviteUser(ctx context.Context, in InviteInput, inviterID uuid.UUID) (*Invitation, error)

	// AcceptInvitation activates a pending user and signs them in.
	// Returns domain.ErrValidation for an unknown or expired token.
	AcceptInvitation(ctx context.Context, in AcceptInput) (*AuthResult, error)
}

// ServiceConfig holds the non-dependency settings of the auth service.
type ServiceConfig struct {
	// BaseURL prefixes invitation links.
	BaseURL string

	// InvitationLifetime is how long an invitation can be accepted.
	InvitationLifetime time.Duration

	// Now is the clock. Defaults to time.Now.
	Now func() time.Time
}

type authService struct {
	users              store.UserStore
	tokens             JWTService
	hasher             PasswordHasher
	sender             InvitationSender
	baseURL            string
	invitationLifetime time.Duration
	now                func() time.Time
	logger             *slog.Logger
}

// Ensure authService implements Service interface
var _ Service = (*authService)(nil)

// NewService creates the authentication service.
func NewService(
	users store.UserStore,
	tokens JWTService,
	hasher PasswordHasher,
	sender InvitationSender,
	cfg ServiceConfig,
	log *slog.Logger,
) (Service, error) {
	if users == nil || tokens == nil || hasher == nil || sender == nil {
		return nil, errors.New("auth service requires a user store, JWT service, password hasher and invitation sender")
	}
	if _, err := url.ParseRequestURI(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("invalid base URL for invitation links: %w", err)
	}
	if cfg.InvitationLifetime <= 0 {
		cfg.InvitationLifetime = DefaultInvitationLifetime
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if log == nil {
		log = slog.Default()
	}

	return &authService{
		users:              users,
		tokens:             tokens,
		hasher:             hasher,
		sender:             sender,
		baseURL:            strings.TrimRight(cfg.BaseURL, "/"),
		invitationLifetime: cfg.InvitationLifetime,
		now:                cfg.Now,
		logger:             log.With(slog.String("component", "auth_service")),
	}, nil
}

// Register implements Service.
func (s *authService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	email := strings.TrimSpace(in.Email)
	username := strings.TrimSpace(in.Username)

	verr := &domain.ValidationError{}
	verr.Merge(domain.ValidateEmail(email))
	verr.Merge(domain.ValidateUsername(username))
	verr.Merge(domain.ValidatePassword(in.Password))
	role, err := parseRoleOrGuest(in.Role)
	if err != nil {
		verr.Add("role", "must be Owner or Guest")
	}
	if err := verr.Err(); err != nil {
		return nil, err
	}

	if err := s.ensureEmailFree(ctx, email); err != nil {
		return nil, err
	}
	if err := s.ensureUsernameFree(ctx, username); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	user, err := domain.NewUser(email, username, hash, role)
	if err != nil {
		return nil, err
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, s.storeWriteError(err, "register user")
	}

	log.Info("user registered",
		slog.String("user_id", user.ID.String()),
		slog.String("role", user.Role.String()))

	return s.signIn(ctx, user)
}

// Login implements Service.
func (s *authService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			log.Debug("login attempt for unknown email")
			return nil, fmt.Errorf("%w: invalid email or password", domain.ErrAuthentication)
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if user.IsPendingInvitation() || user.PasswordHash == "" {
		log.Debug("login attempt for pending invitation", slog.String("user_id", user.ID.String()))
		return nil, fmt.Errorf("%w: invalid email or password", domain.ErrAuthentication)
	}

	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		log.Debug("login attempt with wrong password", slog.String("user_id", user.ID.String()))
		return nil, fmt.Errorf("%w: invalid email or password", domain.ErrAuthentication)
	}

	log.Info("user logged in", slog.String("user_id", user.ID.String()))
	return s.signIn(ctx, user)
}

// InviteUser implements Service.
func (s *authService) InviteUser(ctx context.Context, in InviteInput, inviterID uuid.UUID) (*Invitation, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	inviter, err := s.users.GetByID(ctx, inviterID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, fmt.Errorf("%w: inviter does not exist", domain.ErrAuthorization)
		}
		return nil, fmt.Errorf("failed to look up inviter: %w", err)
	}
	if !inviter.Role.CanInvite() {
		log.Warn("invitation attempted without privilege",
			slog.String("inviter_id", inviterID.String()),
			slog.String("role", inviter.Role.String()))
		return nil, fmt.Errorf("%w: role %s may not invite users", domain.ErrAuthorization, inviter.Role)
	}

	email := strings.TrimSpace(in.Email)
	verr := &domain.ValidationError{}
	verr.Merge(domain.ValidateEmail(email))
	role, err := parseRoleOrGuest(in.Role)
	if err != nil {
		verr.Add("role", "must be Owner or Guest")
	}
	if err := verr.Err(); err != nil {
		return nil, err
	}

	if err := s.ensureEmailFree(ctx, email); err != nil {
		return nil, err
	}

	token := uuid.NewString()
	expiresAt := s.now().UTC().Add(s.invitationLifetime)

	user, err := domain.NewInvitedUser(email, role, token, expiresAt)
	if err != nil {
		return nil, err
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, s.storeWriteError(err, "create invited user")
	}

	link := s.invitationLink(token)
	if err := s.sender.SendInvitation(ctx, email, link); err != nil {
		// The invitation itself is persisted; the returned link can be shared manually.
		log.Warn("failed to send invitation",
			slog.String("user_id", user.ID.String()),
			slog.String("error", err.Error()))
	}

	log.Info("user invited",
		slog.String("user_id", user.ID.String()),
		slog.String("inviter_id", inviterID.String()),
		slog.String("role", role.String()),
		slog.Time("expires_at", expiresAt))

	return &Invitation{
		UserID:    user.ID,
		Email:     user.Email,
		Role:      role,
		Token:     token,
		ExpiresAt: expiresAt,
		Link:      link,
	}, nil
}

// AcceptInvitation implements Service.
func (s *authService) AcceptInvitation(ctx context.Context, in AcceptInput) (*AuthResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	token := strings.TrimSpace(in.Token)
	if token == "" {
		return nil, domain.NewValidationError("token", "is required")
	}

	user, err := s.users.GetByInvitationToken(ctx, token)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			log.Debug("invitation token not found")
			return nil, domain.NewValidationError("token", "is invalid or has expired")
		}
		return nil, fmt.Errorf("failed to look up invitation: %w", err)
	}
	if user.InvitationExpired(s.now()) {
		log.Debug("invitation token expired", slog.String("user_id", user.ID.String()))
		return nil, domain.NewValidationError("token", "is invalid or has expired")
	}

	username := strings.TrimSpace(in.Username)
	verr := &domain.ValidationError{}
	verr.Merge(domain.ValidateChosenUsername(username))
	verr.Merge(domain.ValidatePassword(in.Password))
	if err := verr.Err(); err != nil {
		return nil, err
	}

	if err := s.ensureUsernameFree(ctx, username); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}
	if err := user.AcceptInvitation(username, hash); err != nil {
		return nil, err
	}
	if err := s.users.Update(ctx, user); err != nil {
		return nil, s.storeWriteError(err, "accept invitation")
	}

	log.Info("invitation accepted", slog.String("user_id", user.ID.String()))
	return s.signIn(ctx, user)
}

func (s *authService) signIn(ctx context.Context, user *domain.User) (*AuthResult, error) {
	token, expiresAt, err := s.tokens.GenerateToken(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}
	return &AuthResult{User: user, Token: token, ExpiresAt: expiresAt}, nil
}

func (s *authService) ensureEmailFree(ctx context.Context, email string) error {
	_, err := s.users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return fmt.Errorf("%w: %w", domain.ErrConflict, store.ErrEmailExists)
	case errors.Is(err, store.ErrUserNotFound):
		return nil
	default:
		return fmt.Errorf("failed to check email: %w", err)
	}
}

func (s *authService) ensureUsernameFree(ctx context.Context, username string) error {
	_, err := s.users.GetByUsername(ctx, username)
	switch {
	case err == nil:
		return fmt.Errorf("%w: %w", domain.ErrConflict, store.ErrUsernameExists)
	case errors.Is(err, store.ErrUserNotFound):
		return nil
	default:
		return fmt.Errorf("failed to check username: %w", err)
	}
}

// storeWriteError turns a unique violation that slipped past the up-front
// checks into a conflict.
func (s *authService) storeWriteError(err error, op string) error {
	if store.IsDuplicateError(err) {
		return fmt.Errorf("%w: %w", domain.ErrConflict, err)
	}
	if errors.Is(err, domain.ErrValidation) {
		return err
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}

func (s *authService) invitationLink(token string) string {
	return s.baseURL + acceptInvitationPath + "?token=" + url.QueryEscape(token)
}

func parseRoleOrGuest(name string) (domain.Role, error) {
	if strings.TrimSpace(name) == "" {
		return domain.RoleGuest, nil
	}
	return domain.ParseRole(name)
}
