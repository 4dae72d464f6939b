package auth_test

import (
	"context"
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/todo-api/internal/config"
	"github.com/phrazzld/todo-api/internal/domain"
	"github.com/phrazzld/todo-api/internal/mocks"
	"github.com/phrazzld/todo-api/internal/platform/logger"
	"github.com/phrazzld/todo-api/internal/service/auth"
	"github.com/phrazzld/todo-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type authFixture struct {
	svc    auth.Service
	users  *mocks.MockUserStore
	tokens auth.JWTService
	sender *mocks.MockInvitationSender
	now    time.Time
}

func newAuthFixture(t *testing.T, seed ...*domain.User) *authFixture {
	t.Helper()

	f := &authFixture{
		users:  mocks.NewMockUserStore(seed...),
		sender: &mocks.MockInvitationSender{},
		now:    time.Date(2025, 4, 1, 12, 0, 0, 0, time.UTC),
	}
	clock := func() time.Time { return f.now }

	tokens, err := auth.NewJWTServiceWithClock(config.AuthConfig{
		JWTSecret:            "test-jwt-secret-that-is-32-chars-long",
		Issuer:               "todo-api",
		Audience:             "todo-api-clients",
		TokenLifetimeMinutes: 1440,
	}, clock)
	require.NoError(t, err)
	f.tokens = tokens

	_, log := logger.NewTestLogger(t)
	f.svc, err = auth.NewService(f.users, tokens, &mocks.MockPasswordHasher{}, f.sender, auth.ServiceConfig{
		BaseURL:            "https://todo.example.com/",
		InvitationLifetime: 7 * 24 * time.Hour,
		Now:                clock,
	}, log)
	require.NoError(t, err)
	return f
}

func mustUser(t *testing.T, email, username, password string, role domain.Role) *domain.User {
	t.Helper()
	u, err := domain.NewUser(email, username, "hashed:"+password, role)
	require.NoError(t, err)
	return u
}

func TestNewService_RequiresDependencies(t *testing.T) {
	t.Parallel()

	_, err := auth.NewService(nil, mocks.NewMockJWTService(), &mocks.MockPasswordHasher{},
		&mocks.MockInvitationSender{}, auth.ServiceConfig{BaseURL: "http://localhost"}, nil)
	assert.Error(t, err)

	_, err = auth.NewService(mocks.NewMockUserStore(), mocks.NewMockJWTService(), &mocks.MockPasswordHasher{},
		&mocks.MockInvitationSender{}, auth.ServiceConfig{BaseURL: "not a url"}, nil)
	assert.Error(t, err)
}

func TestRegisterThenLogin(t *testing.T) {
	t.Parallel()
	f := newAuthFixture(t)
	ctx := context.Background()

	res, err := f.svc.Register(ctx, auth.RegisterInput{
		Email: "a@x.com", Username: "a_user", Password: "Secret1!", Role: "Guest",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, domain.RoleGuest, res.User.Role)
	assert.Equal(t, f.now.Add(24*time.Hour), res.ExpiresAt)

	claims, err := f.tokens.ValidateToken(ctx, res.Token)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, claims.UserID)
	assert.Equal(t, "a@x.com", claims.Email)
	assert.Equal(t, domain.RoleGuest, claims.Role)

	stored, err := f.users.GetByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.NotEqual(t, "Secret1!", stored.PasswordHash)

	login, err := f.svc.Login(ctx, "a@x.com", "Secret1!")
	require.NoError(t, err)
	assert.NotEmpty(t, login.Token)

	_, err = f.svc.Login(ctx, "a@x.com", "wrong-password")
	assert.ErrorIs(t, err, domain.ErrAuthentication)

	_, err = f.svc.Login(ctx, "nobody@x.com", "Secret1!")
	assert.ErrorIs(t, err, domain.ErrAuthentication)
}

func TestRegister_DefaultsToGuest(t *testing.T) {
	t.Parallel()
	f := newAuthFixture(t)

	res, err := f.svc.Register(context.Background(), auth.RegisterInput{
		Email: "g@x.com", Username: "guest", Password: "Secret1!",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleGuest, res.User.Role)
}

func TestRegister_Conflicts(t *testing.T) {
	t.Parallel()
	existing := mustUser(t, "taken@x.com", "taken", "Secret1!", domain.RoleGuest)
	f := newAuthFixture(t, existing)
	ctx := context.Background()

	_, err := f.svc.Register(ctx, auth.RegisterInput{Email: "TAKEN@x.com", Username: "fresh", Password: "Secret1!"})
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.ErrorIs(t, err, store.ErrEmailExists)

	_, err = f.svc.Register(ctx, auth.RegisterInput{Email: "fresh@x.com", Username: "taken", Password: "Secret1!"})
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.ErrorIs(t, err, store.ErrUsernameExists)

	assert.Equal(t, 1, f.users.Count())
}

func TestRegister_RaceOnUniqueConstraintIsConflict(t *testing.T) {
	t.Parallel()
	f := newAuthFixture(t)
	f.users.CreateError = store.ErrEmailExists

	_, err := f.svc.Register(context.Background(), auth.RegisterInput{
		Email: "a@x.com", Username: "a_user", Password: "Secret1!",
	})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestRegister_ValidationListsEveryField(t *testing.T) {
	t.Parallel()
	f := newAuthFixture(t)

	_, err := f.svc.Register(context.Background(), auth.RegisterInput{
		Email: "not-an-email", Username: "", Password: "123", Role: "Admin",
	})
	require.ErrorIs(t, err, domain.ErrValidation)

	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	fields := make([]string, 0, len(verr.Fields))
	for _, fe := range verr.Fields {
		fields = append(fields, fe.Field)
	}
	assert.ElementsMatch(t, []string{"email", "username", "password", "role"}, fields)
	assert.Zero(t, f.users.Count())
}

func TestInviteAndAccept(t *testing.T) {
	t.Parallel()
	owner := mustUser(t, "owner@x.com", "owner", "Secret1!", domain.RoleOwner)
	f := newAuthFixture(t, owner)
	ctx := context.Background()

	inv, err := f.svc.InviteUser(ctx, auth.InviteInput{Email: "new@x.com", Role: "Guest"}, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, f.now.Add(7*24*time.Hour), inv.ExpiresAt)
	_, err = uuid.Parse(inv.Token)
	assert.NoError(t, err, "invitation token should be a random UUID")

	link, err := url.Parse(inv.Link)
	require.NoError(t, err)
	assert.Equal(t, "todo.example.com", link.Host)
	assert.Equal(t, "/accept-invitation", link.Path)
	assert.Equal(t, inv.Token, link.Query().Get("token"))

	sent := f.sender.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "new@x.com", sent[0].Email)
	assert.Equal(t, inv.Link, sent[0].Link)

	pending, err := f.users.GetByEmail(ctx, "new@x.com")
	require.NoError(t, err)
	assert.True(t, pending.IsPendingInvitation())
	assert.Empty(t, pending.PasswordHash)

	_, err = f.svc.Login(ctx, "new@x.com", "")
	assert.ErrorIs(t, err, domain.ErrAuthentication, "pending invitees cannot log in")

	res, err := f.svc.AcceptInvitation(ctx, auth.AcceptInput{Token: inv.Token, Username: "newbie", Password: "Secret1!"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, domain.RoleGuest, res.User.Role)

	active, err := f.users.GetByEmail(ctx, "new@x.com")
	require.NoError(t, err)
	assert.False(t, active.IsPendingInvitation())
	assert.Nil(t, active.InvitationExpiry)
	assert.Equal(t, "newbie", active.Username)

	_, err = f.svc.AcceptInvitation(ctx, auth.AcceptInput{Token: inv.Token, Username: "again", Password: "Secret1!"})
	assert.ErrorIs(t, err, domain.ErrValidation, "a token is single-use")

	_, err = f.svc.Login(ctx, "new@x.com", "Secret1!")
	assert.NoError(t, err)
}

func TestInviteUser_Authorization(t *testing.T) {
	t.Parallel()
	guest := mustUser(t, "guest@x.com", "guest", "Secret1!", domain.RoleGuest)
	f := newAuthFixture(t, guest)
	ctx := context.Background()

	_, err := f.svc.InviteUser(ctx, auth.InviteInput{Email: "new@x.com"}, guest.ID)
	assert.ErrorIs(t, err, domain.ErrAuthorization)

	_, err = f.svc.InviteUser(ctx, auth.InviteInput{Email: "new@x.com"}, uuid.New())
	assert.ErrorIs(t, err, domain.ErrAuthorization)

	assert.Empty(t, f.sender.Sent())
	assert.Equal(t, 1, f.users.Count())
}

func TestInviteUser_ExistingEmailIsConflict(t *testing.T) {
	t.Parallel()
	owner := mustUser(t, "owner@x.com", "owner", "Secret1!", domain.RoleOwner)
	f := newAuthFixture(t, owner)

	_, err := f.svc.InviteUser(context.Background(), auth.InviteInput{Email: "Owner@X.com"}, owner.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Empty(t, f.sender.Sent())
}

func TestInviteUser_SenderFailureDoesNotFailInvite(t *testing.T) {
	t.Parallel()
	owner := mustUser(t, "owner@x.com", "owner", "Secret1!", domain.RoleOwner)
	f := newAuthFixture(t, owner)
	f.sender.Err = errors.New("webhook unavailable")

	inv, err := f.svc.InviteUser(context.Background(), auth.InviteInput{Email: "new@x.com"}, owner.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, inv.Link)
	assert.Equal(t, 2, f.users.Count())
}

func TestAcceptInvitation_ExpiredTokenFailsRegardlessOfPassword(t *testing.T) {
	t.Parallel()
	owner := mustUser(t, "owner@x.com", "owner", "Secret1!", domain.RoleOwner)
	f := newAuthFixture(t, owner)
	ctx := context.Background()

	inv, err := f.svc.InviteUser(ctx, auth.InviteInput{Email: "late@x.com"}, owner.ID)
	require.NoError(t, err)

	f.now = f.now.Add(8 * 24 * time.Hour)

	for _, password := range []string{"Secret1!", "x"} {
		_, err := f.svc.AcceptInvitation(ctx, auth.AcceptInput{Token: inv.Token, Username: "late", Password: password})
		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "token", verr.Fields[0].Field)
	}

	pending, err := f.users.GetByEmail(ctx, "late@x.com")
	require.NoError(t, err)
	assert.True(t, pending.IsPendingInvitation())
}

func TestAcceptInvitation_Failures(t *testing.T) {
	t.Parallel()
	owner := mustUser(t, "owner@x.com", "owner", "Secret1!", domain.RoleOwner)
	f := newAuthFixture(t, owner)
	ctx := context.Background()

	inv, err := f.svc.InviteUser(ctx, auth.InviteInput{Email: "new@x.com"}, owner.ID)
	require.NoError(t, err)

	_, err = f.svc.AcceptInvitation(ctx, auth.AcceptInput{Token: uuid.NewString(), Username: "newbie", Password: "Secret1!"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.svc.AcceptInvitation(ctx, auth.AcceptInput{Username: "newbie", Password: "Secret1!"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.svc.AcceptInvitation(ctx, auth.AcceptInput{Token: inv.Token, Username: "owner", Password: "Secret1!"})
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = f.svc.AcceptInvitation(ctx, auth.AcceptInput{Token: inv.Token, Username: "newbie", Password: "123"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	pending, err := f.users.GetByEmail(ctx, "new@x.com")
	require.NoError(t, err)
	assert.True(t, pending.IsPendingInvitation())
}

func TestLogin_StoreFailureIsNotAuthenticationError(t *testing.T) {
	t.Parallel()
	f := newAuthFixture(t)
	f.users.GetByEmailFn = func(context.Context, string) (*domain.User, error) {
		return nil, errors.New("connection refused")
	}

	_, err := f.svc.Login(context.Background(), "a@x.com", "Secret1!")
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrAuthentication)
}
