package session

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/IrakliAvdulaj/trek-fleet-apply/entity"
	"github.com/IrakliAvdulaj/trek-fleet-apply/pkg/testdb"
	"github.com/IrakliAvdulaj/trek-fleet-apply/repository"
	"github.com/IrakliAvdulaj/trek-fleet-apply/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuth(t *testing.T) *services.AuthService {
	t.Helper()
	db := testdb.Open(t)
	testdb.User(t, db, "admin@example.com", "secret1", entity.RoleAdmin)
	return services.NewAuthService(repository.NewUserRepository(db), services.NewMemoryRevoker(), services.AuthOptions{
		JWTSecret: "test-secret",
		JWTTTL:    time.Hour,
	}, testdb.Logger())
}

func TestSignUpDoesNotSignIn(t *testing.T) {
	s := NewStore(newAuth(t), nil, testdb.Logger())
	u, err := s.SignUp(context.Background(), "ana@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", u.Email)
	assert.False(t, s.Current().SignedIn())
}

func TestSignUpWeakPassword(t *testing.T) {
	s := NewStore(newAuth(t), nil, testdb.Logger())
	_, err := s.SignUp(context.Background(), "ana@example.com", "12345")
	var ae *services.AuthError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, services.AuthWeakPassword, ae.Code)
}

func TestSignInNotifiesSubscribers(t *testing.T) {
	s := NewStore(newAuth(t), nil, testdb.Logger())
	var seen []Snapshot
	dispose := s.Subscribe(func(snap Snapshot) { seen = append(seen, snap) })

	ctx := context.Background()
	require.NoError(t, s.SignIn(ctx, "admin@example.com", "secret1"))
	require.Len(t, seen, 1)
	assert.True(t, seen[0].IsAdmin())
	assert.True(t, s.IsAdmin())

	p, ok := services.PrincipalFrom(s.Context(ctx))
	require.True(t, ok)
	assert.Equal(t, "admin@example.com", p.Email)

	require.NoError(t, s.SignOut(ctx))
	require.Len(t, seen, 2)
	assert.False(t, seen[1].SignedIn())
	_, ok = services.PrincipalFrom(s.Context(ctx))
	assert.False(t, ok)

	dispose()
	dispose()
	require.NoError(t, s.SignIn(ctx, "admin@example.com", "secret1"))
	assert.Len(t, seen, 2)
}

func TestSignInBadCredentialsKeepsState(t *testing.T) {
	s := NewStore(newAuth(t), nil, testdb.Logger())
	err := s.SignIn(context.Background(), "admin@example.com", "nope")
	var ae *services.AuthError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, services.AuthInvalidCredentials, ae.Code)
	assert.False(t, s.Current().SignedIn())
}

func TestRestoreAcrossRestarts(t *testing.T) {
	auth := newAuth(t)
	ctx := context.Background()
	file := NewFilePersister(filepath.Join(t.TempDir(), "nested", "session.json"))

	first := NewStore(auth, file, testdb.Logger())
	require.NoError(t, first.SignIn(ctx, "admin@example.com", "secret1"))
	oldToken := first.Current().Token

	second := NewStore(auth, file, testdb.Logger())
	ok, err := second.Restore(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, second.IsAdmin())
	assert.NotEqual(t, oldToken, second.Current().Token)

	saved, err := file.Load()
	require.NoError(t, err)
	assert.Equal(t, second.Current().Token, saved)

	// token เก่าถูก revoke ไปตอน refresh
	_, err = auth.Authenticate(ctx, oldToken)
	assert.Error(t, err)
}

func TestRestoreWithRevokedTokenClearsFile(t *testing.T) {
	auth := newAuth(t)
	ctx := context.Background()
	file := NewFilePersister(filepath.Join(t.TempDir(), "session.json"))

	s := NewStore(auth, file, testdb.Logger())
	require.NoError(t, s.SignIn(ctx, "admin@example.com", "secret1"))
	require.NoError(t, auth.SignOut(ctx, s.Current().Token))

	ok, err := NewStore(auth, file, testdb.Logger()).Restore(ctx)
	assert.Error(t, err)
	assert.False(t, ok)

	saved, err := file.Load()
	require.NoError(t, err)
	assert.Empty(t, saved)
}

func TestSignOutClearsPersistedToken(t *testing.T) {
	auth := newAuth(t)
	ctx := context.Background()
	file := NewFilePersister(filepath.Join(t.TempDir(), "session.json"))

	s := NewStore(auth, file, testdb.Logger())
	require.NoError(t, s.SignIn(ctx, "admin@example.com", "secret1"))
	token := s.Current().Token
	require.NoError(t, s.SignOut(ctx))

	saved, err := file.Load()
	require.NoError(t, err)
	assert.Empty(t, saved)
	_, err = auth.Authenticate(ctx, token)
	assert.Error(t, err)

	ok, err := NewStore(auth, file, testdb.Logger()).Restore(ctx)
	assert.NoError(t, err)
	assert.False(t, ok)
}
