package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/IrakliAvdulaj/trek-fleet-apply/entity"
	"github.com/IrakliAvdulaj/trek-fleet-apply/pkg/testdb"
	"github.com/IrakliAvdulaj/trek-fleet-apply/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuth(t *testing.T) *AuthService {
	t.Helper()
	db := testdb.Open(t)
	return NewAuthService(repository.NewUserRepository(db), NewMemoryRevoker(), AuthOptions{
		JWTSecret: "test-secret",
		JWTTTL:    time.Hour,
	}, testdb.Logger())
}

func authCode(t *testing.T, err error) string {
	t.Helper()
	var ae *AuthError
	require.True(t, errors.As(err, &ae), "want AuthError, got %v", err)
	return ae.Code
}

func TestSignUpCreatesApplicant(t *testing.T) {
	s := newAuth(t)
	u, err := s.SignUp(context.Background(), " Ana@Example.com ", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", u.Email)
	assert.Equal(t, entity.RoleApplicant, u.Role)
	assert.NotEqual(t, "secret1", u.Password)
}

func TestSignUpPolicy(t *testing.T) {
	s := newAuth(t)
	ctx := context.Background()

	_, err := s.SignUp(ctx, "ana@example.com", "12345")
	assert.Equal(t, AuthWeakPassword, authCode(t, err))

	_, err = s.SignUp(ctx, "not-an-email", "secret1")
	assert.Equal(t, AuthInvalidEmail, authCode(t, err))

	_, err = s.SignUp(ctx, "ana@example.com", "secret1")
	require.NoError(t, err)
	_, err = s.SignUp(ctx, "ANA@example.com", "secret1")
	assert.Equal(t, AuthEmailTaken, authCode(t, err))
}

func TestSignInAndAuthenticate(t *testing.T) {
	s := newAuth(t)
	ctx := context.Background()
	_, err := s.SignUp(ctx, "ana@example.com", "secret1")
	require.NoError(t, err)

	_, _, err = s.SignIn(ctx, "ana@example.com", "wrong-pass")
	assert.Equal(t, AuthInvalidCredentials, authCode(t, err))
	_, _, err = s.SignIn(ctx, "nobody@example.com", "secret1")
	assert.Equal(t, AuthInvalidCredentials, authCode(t, err))

	token, u, err := s.SignIn(ctx, "ana@example.com", "secret1")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	p, err := s.Authenticate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, p.UserID)
	assert.False(t, p.IsAdmin())
}

func TestSignOutRevokesToken(t *testing.T) {
	s := newAuth(t)
	ctx := context.Background()
	_, err := s.SignUp(ctx, "ana@example.com", "secret1")
	require.NoError(t, err)
	token, _, err := s.SignIn(ctx, "ana@example.com", "secret1")
	require.NoError(t, err)

	require.NoError(t, s.SignOut(ctx, token))
	_, err = s.Authenticate(ctx, token)
	assert.Equal(t, AuthInvalidToken, authCode(t, err))

	// token เสียก็ sign out ได้
	assert.NoError(t, s.SignOut(ctx, "garbage"))
}

func TestRefreshIssuesNewTokenAndRevokesOld(t *testing.T) {
	s := newAuth(t)
	ctx := context.Background()
	_, err := s.SignUp(ctx, "ana@example.com", "secret1")
	require.NoError(t, err)
	old, _, err := s.SignIn(ctx, "ana@example.com", "secret1")
	require.NoError(t, err)

	fresh, u, err := s.Refresh(ctx, old)
	require.NoError(t, err)
	assert.NotEqual(t, old, fresh)
	assert.Equal(t, "ana@example.com", u.Email)

	_, err = s.Authenticate(ctx, old)
	assert.Error(t, err)
	_, err = s.Authenticate(ctx, fresh)
	assert.NoError(t, err)
}

func TestAuthenticateSeesRoleChanges(t *testing.T) {
	s := newAuth(t)
	ctx := context.Background()
	u, err := s.SignUp(ctx, "ana@example.com", "secret1")
	require.NoError(t, err)
	token, _, err := s.SignIn(ctx, "ana@example.com", "secret1")
	require.NoError(t, err)

	require.NoError(t, s.userRepo.DB.Model(u).Update("role", entity.RoleAdmin).Error)

	p, err := s.Authenticate(ctx, token)
	require.NoError(t, err)
	assert.True(t, p.IsAdmin())
}
