package session_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FrenchMajesty/agrilens/pkg/testutil"
	"github.com/FrenchMajesty/agrilens/pkg/types"
	"github.com/FrenchMajesty/agrilens/session"
)

func TestNew_AssignsID(t *testing.T) {
	s, err := session.New(session.NewMemoryStore(), nil)
	require.NoError(t, err)

	assert.NotEmpty(t, s.ID())
	assert.False(t, s.IsAuthenticated())
	assert.Empty(t, s.Token())
	assert.Nil(t, s.CurrentUser())
}

func TestLogin_Success(t *testing.T) {
	auth := &testutil.MockAuthenticator{}
	store := session.NewMemoryStore()
	s, err := session.New(store, nil)
	require.NoError(t, err)
	s.SetAuthenticator(auth)

	user, err := s.Login(context.Background(), "amina@example.com", "secret")
	require.NoError(t, err)

	assert.Equal(t, "user-1", user.ID)
	assert.Equal(t, "token-amina@example.com", s.Token())
	assert.True(t, s.IsAuthenticated())
	assert.Equal(t, "token-amina@example.com", auth.LastToken, "user lookup should use the fresh token")

	saved, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, s.ID(), saved.ID)
	assert.Equal(t, "token-amina@example.com", saved.Token)
}

func TestLogin_InvalidEmailSkipsBackend(t *testing.T) {
	auth := &testutil.MockAuthenticator{}
	s, err := session.New(nil, nil)
	require.NoError(t, err)
	s.SetAuthenticator(auth)

	_, err = s.Login(context.Background(), "not-an-email", "secret")
	assert.ErrorIs(t, err, session.ErrInvalidEmail)
	assert.Equal(t, 0, auth.LoginCount)
}

func TestLogin_NoAuthenticator(t *testing.T) {
	s, err := session.New(nil, nil)
	require.NoError(t, err)

	_, err = s.Login(context.Background(), "amina@example.com", "secret")
	assert.ErrorIs(t, err, session.ErrNoAuthenticator)
}

func TestLogin_UserLookupFailureLeavesSessionEmpty(t *testing.T) {
	auth := &testutil.MockAuthenticator{
		MeWithTokenFunc: func(ctx context.Context, token string) (*types.User, error) {
			return nil, errors.New("failed to get user info")
		},
	}
	s, err := session.New(nil, nil)
	require.NoError(t, err)
	s.SetAuthenticator(auth)

	_, err = s.Login(context.Background(), "amina@example.com", "secret")
	require.Error(t, err)
	assert.False(t, s.IsAuthenticated())
	assert.Empty(t, s.Token())
}

func TestRegister(t *testing.T) {
	s, err := session.New(nil, nil)
	require.NoError(t, err)
	s.SetAuthenticator(&testutil.MockAuthenticator{})

	user, err := s.Register(context.Background(), types.RegisterRequest{
		Name:     "Kofi Mensah",
		Email:    "kofi@example.com",
		Password: "secret",
		Phone:    "+233 (20) 123-4567",
	})
	require.NoError(t, err)

	assert.Equal(t, "Kofi Mensah", user.Name)
	assert.True(t, s.IsAuthenticated())
	assert.Empty(t, s.Token(), "registration does not issue a token")
}

func TestRegister_InvalidPhone(t *testing.T) {
	s, err := session.New(nil, nil)
	require.NoError(t, err)
	s.SetAuthenticator(&testutil.MockAuthenticator{})

	_, err = s.Register(context.Background(), types.RegisterRequest{
		Email: "kofi@example.com",
		Phone: "123",
	})
	assert.Error(t, err)
}

func TestLogout(t *testing.T) {
	store := session.NewMemoryStore()
	s, err := session.New(store, nil)
	require.NoError(t, err)
	id := s.ID()

	require.NoError(t, s.SetToken("abc"))
	require.NoError(t, s.SetUser(&types.User{ID: "u1"}))
	require.NoError(t, s.Logout(context.Background()))

	assert.False(t, s.IsAuthenticated())
	assert.Empty(t, s.Token())
	assert.Nil(t, s.CurrentUser())
	assert.Equal(t, id, s.ID())

	_, err = s.Require()
	assert.ErrorIs(t, err, session.ErrNotAuthenticated)

	saved, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, saved.Token)
}

func TestExpire(t *testing.T) {
	s, err := session.New(nil, nil)
	require.NoError(t, err)
	require.NoError(t, s.SetToken("abc"))

	s.Expire(context.Background())
	assert.False(t, s.IsAuthenticated())
}

func TestCurrentUser_ReturnsCopy(t *testing.T) {
	s, err := session.New(nil, nil)
	require.NoError(t, err)
	require.NoError(t, s.SetUser(&types.User{ID: "u1", Name: "Amina"}))

	u := s.CurrentUser()
	u.Name = "changed"
	assert.Equal(t, "Amina", s.CurrentUser().Name)
}

func TestConcurrentAccess(t *testing.T) {
	s, err := session.New(nil, nil)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = s.SetToken("t")
		}()
		go func() {
			defer wg.Done()
			_ = s.Token()
			_ = s.IsAuthenticated()
		}()
	}
	wg.Wait()
	assert.Equal(t, "t", s.Token())
}

func TestFileStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	store := session.NewFileStore(path)

	s, err := session.New(store, nil)
	require.NoError(t, err)
	require.NoError(t, s.SetToken("persisted"))

	restored, err := session.New(session.NewFileStore(path), nil)
	require.NoError(t, err)
	assert.Equal(t, s.ID(), restored.ID())
	assert.Equal(t, "persisted", restored.Token())
	assert.True(t, restored.IsAuthenticated())

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestFileStore_MissingFile(t *testing.T) {
	store := session.NewFileStore(filepath.Join(t.TempDir(), "missing.json"))

	state, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, &session.State{}, state)
	assert.NoError(t, store.Clear())
}

func TestFileStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := session.New(session.NewFileStore(path), nil)
	assert.Error(t, err)
}
