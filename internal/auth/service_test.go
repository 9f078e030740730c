package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amcruz/storefront-backend/internal/users"
	pkgauth "github.com/amcruz/storefront-backend/pkg/auth"
	"github.com/amcruz/storefront-backend/pkg/auth/session"
	"github.com/amcruz/storefront-backend/pkg/config"
	pkgerrors "github.com/amcruz/storefront-backend/pkg/errors"
)

type memorySessions struct {
	tokens  map[string]string
	counter int
}

func newMemorySessions() *memorySessions {
	return &memorySessions{tokens: map[string]string{}}
}

func (m *memorySessions) Generate(_ context.Context, accessID string) (string, error) {
	m.counter++
	token := "refresh-" + accessID
	m.tokens[accessID] = token
	return token, nil
}

func (m *memorySessions) Rotate(_ context.Context, oldAccessID, provided string) (string, string, error) {
	stored, ok := m.tokens[oldAccessID]
	if !ok || stored != provided {
		return "", "", session.ErrInvalidRefreshToken
	}
	delete(m.tokens, oldAccessID)
	newID := pkgauth.NewAccessID()
	token := "refresh-" + newID
	m.tokens[newID] = token
	return newID, token, nil
}

func (m *memorySessions) Revoke(_ context.Context, accessID string) error {
	delete(m.tokens, accessID)
	return nil
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:                 "test-secret",
		Issuer:                 "storefront",
		ExpirationMinutes:      15,
		RefreshTokenTTLMinutes: 60,
	}
}

func newTestService(t *testing.T) (Service, *memorySessions) {
	t.Helper()
	conn := openTestDB(t)
	sessions := newMemorySessions()
	svc, err := NewService(users.NewRepository(conn), sessions, testJWTConfig(), config.PasswordConfig{})
	require.NoError(t, err)
	return svc, sessions
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	registered, err := svc.Register(ctx, RegisterInput{
		Email:    "Shopper@Example.com",
		Password: "correct horse",
		Name:     "Shopper",
	})
	require.NoError(t, err)
	assert.Equal(t, "shopper@example.com", registered.User.Email)
	assert.Equal(t, "customer", registered.User.Role)
	assert.NotEmpty(t, registered.Tokens.AccessToken)
	assert.NotEmpty(t, registered.Tokens.RefreshToken)

	claims, err := pkgauth.ParseAccessToken(testJWTConfig(), registered.Tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, claims.UserID)

	loggedIn, err := svc.Login(ctx, LoginInput{Email: "shopper@example.com", Password: "correct horse"})
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, loggedIn.User.ID)
}

func TestRegisterDuplicateEmailConflicts(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Email: "dup@example.com", Password: "longenough", Name: "One"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, RegisterInput{Email: "DUP@example.com", Password: "longenough", Name: "Two"})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeConflict, typed.Code())
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Email: "user@example.com", Password: "longenough", Name: "User"})
	require.NoError(t, err)

	cases := []LoginInput{
		{Email: "user@example.com", Password: "wrong password"},
		{Email: "nobody@example.com", Password: "longenough"},
	}
	for _, input := range cases {
		_, err := svc.Login(ctx, input)
		require.Error(t, err, "email %s", input.Email)
		typed := pkgerrors.As(err)
		require.NotNil(t, typed)
		assert.Equal(t, pkgerrors.CodeUnauthorized, typed.Code())
	}
}

func TestRefreshRotatesSession(t *testing.T) {
	svc, sessions := newTestService(t)
	ctx := context.Background()

	result, err := svc.Register(ctx, RegisterInput{Email: "r@example.com", Password: "longenough", Name: "R"})
	require.NoError(t, err)

	pair, err := svc.Refresh(ctx, result.Tokens.AccessToken, result.Tokens.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, result.Tokens.RefreshToken, pair.RefreshToken)
	assert.NotEmpty(t, pair.AccessToken)

	// The old pair is dead after rotation.
	_, err = svc.Refresh(ctx, result.Tokens.AccessToken, result.Tokens.RefreshToken)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeUnauthorized, typed.Code())

	assert.Len(t, sessions.tokens, 1)
}

func TestLogoutRevokesSession(t *testing.T) {
	svc, sessions := newTestService(t)
	ctx := context.Background()

	result, err := svc.Register(ctx, RegisterInput{Email: "l@example.com", Password: "longenough", Name: "L"})
	require.NoError(t, err)
	require.Len(t, sessions.tokens, 1)

	require.NoError(t, svc.Logout(ctx, result.Tokens.AccessToken))
	assert.Empty(t, sessions.tokens)

	_, err = svc.Refresh(ctx, result.Tokens.AccessToken, result.Tokens.RefreshToken)
	require.Error(t, err)
}

func TestUpdateAccountPasswordFlow(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	result, err := svc.Register(ctx, RegisterInput{Email: "p@example.com", Password: "first-pass", Name: "P"})
	require.NoError(t, err)

	wrong := "not-the-password"
	next := "second-pass"
	_, err = svc.UpdateAccount(ctx, result.User.ID, UpdateAccountInput{
		CurrentPassword: &wrong,
		NewPassword:     &next,
	})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeForbidden, typed.Code())

	current := "first-pass"
	_, err = svc.UpdateAccount(ctx, result.User.ID, UpdateAccountInput{
		CurrentPassword: &current,
		NewPassword:     &next,
	})
	require.NoError(t, err)

	_, err = svc.Login(ctx, LoginInput{Email: "p@example.com", Password: next})
	require.NoError(t, err)
}
