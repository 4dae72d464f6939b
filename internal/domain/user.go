package domain

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

const (
	// MinPasswordLength is the shortest plaintext password accepted.
	MinPasswordLength = 6

	// MaxPasswordLength is bcrypt's input limit in bytes.
	MaxPasswordLength = 72

	// MaxUsernameLength bounds every username in characters.
	MaxUsernameLength = 50

	// MinChosenUsernameLength applies to usernames chosen when accepting an invitation.
	MinChosenUsernameLength = 3
)

var validate = validator.New()

// User is an account that can authenticate against the API.
//
// A user is either active (PasswordHash set) or has a pending invitation
// (InvitationToken and InvitationExpiry set, no password yet). Never both.
type User struct {
	ID               uuid.UUID  `json:"id"`
	Email            string     `json:"email"`
	Username         string     `json:"username,omitempty"`
	PasswordHash     string     `json:"-"`
	Role             Role       `json:"role"`
	CreatedAt        time.Time  `json:"created_at"`
	InvitationToken  string     `json:"-"`
	InvitationExpiry *time.Time `json:"-"`
}

// NewUser creates an active user. passwordHash must already be hashed.
func NewUser(email, username, passwordHash string, role Role) (*User, error) {
	u := &User{
		ID:           uuid.New(),
		Email:        email,
		Username:     username,
		PasswordHash: passwordHash,
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	}
	if err := u.Validate(); err != nil {
		return nil, err
	}
	return u, nil
}

// NewInvitedUser creates a user that has been invited but has not yet chosen
// a username or password.
func NewInvitedUser(email string, role Role, token string, expiry time.Time) (*User, error) {
	expiry = expiry.UTC()
	u := &User{
		ID:               uuid.New(),
		Email:            email,
		Role:             role,
		CreatedAt:        time.Now().UTC(),
		InvitationToken:  token,
		InvitationExpiry: &expiry,
	}
	if err := u.Validate(); err != nil {
		return nil, err
	}
	return u, nil
}

// IsPendingInvitation reports whether the user still has to accept an invitation.
func (u *User) IsPendingInvitation() bool {
	return u.InvitationToken != ""
}

// InvitationExpired reports whether the pending invitation is past its expiry at now.
// A user without an invitation expiry is treated as expired.
func (u *User) InvitationExpired(now time.Time) bool {
	if u.InvitationExpiry == nil {
		return true
	}
	return u.InvitationExpiry.Before(now)
}

// AcceptInvitation activates an invited user with the chosen username and
// password hash and clears the invitation fields.
func (u *User) AcceptInvitation(username, passwordHash string) error {
	u.Username = username
	u.PasswordHash = passwordHash
	u.InvitationToken = ""
	u.InvitationExpiry = nil
	return u.Validate()
}

// Validate checks field formats and the password/invitation invariant.
func (u *User) Validate() error {
	verr := &ValidationError{}

	if u.ID == uuid.Nil {
		verr.Add("id", "is required")
	}
	if err := ValidateEmail(u.Email); err != nil {
		verr.Add("email", "must be a valid email address")
	}
	if !u.Role.Valid() {
		verr.Add("role", "must be Owner or Guest")
	}

	hasPassword := u.PasswordHash != ""
	pending := u.InvitationToken != ""
	switch {
	case hasPassword && pending:
		verr.Add("invitation_token", "must be empty once a password is set")
	case !hasPassword && !pending:
		verr.Add("password", "is required")
	case pending && u.InvitationExpiry == nil:
		verr.Add("invitation_expiry", "is required for a pending invitation")
	}

	// Invited users pick their username on acceptance.
	if !pending || u.Username != "" {
		verr.Merge(ValidateUsername(u.Username))
	}

	return verr.Err()
}

// ValidateEmail checks that email is a syntactically valid address.
func ValidateEmail(email string) error {
	if err := validate.Var(email, "required,email,max=254"); err != nil {
		return NewValidationError("email", "must be a valid email address")
	}
	return nil
}

// ValidateUsername checks that a username is present and not too long.
func ValidateUsername(username string) error {
	if strings.TrimSpace(username) == "" {
		return NewValidationError("username", "is required")
	}
	if utf8.RuneCountInString(username) > MaxUsernameLength {
		return NewValidationError("username", "must not exceed 50 characters")
	}
	return nil
}

// ValidateChosenUsername applies the stricter bounds for a username picked
// while accepting an invitation.
func ValidateChosenUsername(username string) error {
	n := utf8.RuneCountInString(username)
	if n < MinChosenUsernameLength || n > MaxUsernameLength {
		return NewValidationError("username", "must be between 3 and 50 characters")
	}
	return nil
}

// ValidatePassword checks a plaintext password against the length limits.
// The upper bound is in bytes because bcrypt truncates beyond 72 bytes.
func ValidatePassword(password string) error {
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return NewValidationError("password", "must be at least 6 characters long")
	}
	if len(password) > MaxPasswordLength {
		return NewValidationError("password", "must be at most 72 bytes long")
	}
	return nil
}
