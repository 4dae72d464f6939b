package domain

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	t.Parallel()

	user, err := NewUser("a@x.com", "alice", "$2a$10$hash", RoleGuest)
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, user.ID)
	assert.Equal(t, "a@x.com", user.Email)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, RoleGuest, user.Role)
	assert.False(t, user.IsPendingInvitation())
	assert.False(t, user.CreatedAt.IsZero())

	tests := []struct {
		name     string
		email    string
		username string
		hash     string
		role     Role
		field    string
	}{
		{name: "bad email", email: "not-an-email", username: "alice", hash: "h", role: RoleOwner, field: "email"},
		{name: "missing username", email: "a@x.com", username: " ", hash: "h", role: RoleOwner, field: "username"},
		{name: "missing password", email: "a@x.com", username: "alice", hash: "", role: RoleOwner, field: "password"},
		{name: "unknown role", email: "a@x.com", username: "alice", hash: "h", role: Role("Admin"), field: "role"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := NewUser(tt.email, tt.username, tt.hash, tt.role)
			require.Error(t, err)

			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.field, verr.Fields[0].Field)
		})
	}
}

func TestNewInvitedUser(t *testing.T) {
	t.Parallel()

	expiry := time.Now().Add(7 * 24 * time.Hour)
	user, err := NewInvitedUser("guest@x.com", RoleGuest, "tok", expiry)
	require.NoError(t, err)

	assert.True(t, user.IsPendingInvitation())
	assert.Empty(t, user.Username)
	assert.Empty(t, user.PasswordHash)
	assert.False(t, user.InvitationExpired(time.Now()))
	assert.True(t, user.InvitationExpired(expiry.Add(time.Second)))
}

func TestUser_AcceptInvitation(t *testing.T) {
	t.Parallel()

	user, err := NewInvitedUser("guest@x.com", RoleGuest, "tok", time.Now().Add(time.Hour))
	require.NoError(t, err)

	require.NoError(t, user.AcceptInvitation("guesty", "$2a$10$hash"))
	assert.False(t, user.IsPendingInvitation())
	assert.Nil(t, user.InvitationExpiry)
	assert.Equal(t, "guesty", user.Username)
	assert.Equal(t, "$2a$10$hash", user.PasswordHash)
}

func TestUser_ValidateInvariant(t *testing.T) {
	t.Parallel()

	expiry := time.Now()
	both := User{
		ID:               uuid.New(),
		Email:            "a@x.com",
		Username:         "alice",
		PasswordHash:     "h",
		Role:             RoleOwner,
		InvitationToken:  "tok",
		InvitationExpiry: &expiry,
	}
	assert.ErrorIs(t, both.Validate(), ErrValidation)

	neither := both
	neither.PasswordHash = ""
	neither.InvitationToken = ""
	neither.InvitationExpiry = nil
	assert.ErrorIs(t, neither.Validate(), ErrValidation)

	noExpiry := neither
	noExpiry.InvitationToken = "tok"
	assert.ErrorIs(t, noExpiry.Validate(), ErrValidation)
}

func TestValidateUsername(t *testing.T) {
	t.Parallel()

	assert.NoError(t, ValidateUsername("a"))
	assert.Error(t, ValidateUsername(""))
	assert.Error(t, ValidateUsername(strings.Repeat("u", MaxUsernameLength+1)))

	assert.Error(t, ValidateChosenUsername("al"))
	assert.NoError(t, ValidateChosenUsername("ali"))
	assert.Error(t, ValidateChosenUsername(strings.Repeat("u", MaxUsernameLength+1)))
}

func TestValidatePassword(t *testing.T) {
	t.Parallel()

	assert.NoError(t, ValidatePassword("Secret1!"))
	assert.ErrorIs(t, ValidatePassword("short"), ErrValidation)
	assert.ErrorIs(t, ValidatePassword(strings.Repeat("x", 73)), ErrValidation)
}

func TestParseRole(t *testing.T) {
	t.Parallel()

	r, err := ParseRole("owner")
	require.NoError(t, err)
	assert.Equal(t, RoleOwner, r)
	assert.True(t, r.CanInvite())
	assert.True(t, r.CanManageTodos())
	assert.True(t, r.CanManageUsers())

	r, err = ParseRole("Guest")
	require.NoError(t, err)
	assert.Equal(t, RoleGuest, r)
	assert.False(t, r.CanInvite())
	assert.False(t, r.CanManageTodos())
	assert.False(t, r.CanManageUsers())

	_, err = ParseRole("admin")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestValidationError(t *testing.T) {
	t.Parallel()

	verr := &ValidationError{}
	assert.NoError(t, verr.Err())

	verr.Add("title", "is required")
	verr.Add("category", "is required")
	err := verr.Err()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidation))
	assert.Equal(t, "validation failed: title is required; category is required", err.Error())
}
