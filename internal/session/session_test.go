package session

import (
	"encoding/json"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/maison/internal/domain"
	"github.com/felixgeelhaar/maison/internal/errors"
	"github.com/felixgeelhaar/maison/internal/persist"
)

func randomUser() domain.User {
	return domain.User{
		ID:        gofakeit.UUID(),
		Email:     gofakeit.Email(),
		FirstName: gofakeit.FirstName(),
		LastName:  gofakeit.LastName(),
		Phone:     gofakeit.Phone(),
	}
}

func openSession(backend persist.Backend) *Session {
	return Open(backend, NewTokenStore(backend, "test-passphrase"), nil)
}

func TestFreshSessionIsSignedOut(t *testing.T) {
	backend := persist.NewMemoryBackend()
	s := openSession(backend)

	assert.False(t, s.IsAuthenticated())
	assert.Empty(t, s.Token())
	_, ok := s.User()
	assert.False(t, ok)
	assert.Zero(t, backend.Writes())
}

func TestLoginLogout(t *testing.T) {
	backend := persist.NewMemoryBackend()
	s := openSession(backend)
	u := randomUser()

	require.NoError(t, s.Login(u, "tok-123"))
	assert.True(t, s.IsAuthenticated())
	assert.Equal(t, "tok-123", s.Token())
	got, ok := s.User()
	require.True(t, ok)
	assert.Equal(t, u.Email, got.Email)

	require.NoError(t, s.Logout())
	assert.False(t, s.IsAuthenticated())
	assert.Empty(t, s.Token())
	_, ok, err := backend.Read(TokenRecord)
	require.NoError(t, err)
	assert.False(t, ok, "token record must be removed")
}

func TestLoginRejectsEmptyToken(t *testing.T) {
	s := openSession(persist.NewMemoryBackend())
	assert.Error(t, s.Login(randomUser(), ""))
	assert.False(t, s.IsAuthenticated())
}

func TestTokenNotStoredInSessionRecord(t *testing.T) {
	backend := persist.NewMemoryBackend()
	s := openSession(backend)
	require.NoError(t, s.Login(randomUser(), "secret-token"))

	raw, ok, err := backend.Read(StoreName)
	require.NoError(t, err)
	require.True(t, ok)
	assert.NotContains(t, string(raw), "secret-token")

	tok, ok, err := backend.Read(TokenRecord)
	require.NoError(t, err)
	require.True(t, ok)
	assert.NotContains(t, string(tok), "secret-token")
}

func TestSessionSurvivesRestart(t *testing.T) {
	backend := persist.NewMemoryBackend()
	u := randomUser()
	require.NoError(t, openSession(backend).Login(u, "tok"))

	s := openSession(backend)
	assert.True(t, s.IsAuthenticated())
	assert.Equal(t, "tok", s.Token())
}

func TestWrongPassphraseSignsOut(t *testing.T) {
	backend := persist.NewMemoryBackend()
	require.NoError(t, openSession(backend).Login(randomUser(), "tok"))

	s := Open(backend, NewTokenStore(backend, "other"), nil)
	assert.False(t, s.IsAuthenticated())
	_, ok := s.User()
	assert.False(t, ok)
}

func TestLegacyRecordTokenIsMovedOut(t *testing.T) {
	backend := persist.NewMemoryBackend()
	legacy := `{"state":{"user":{"id":"u1","email":"a@b.pk","first_name":"A","last_name":"B","is_admin":false},"token":"legacy-tok","isAuthenticated":true},"version":0}`
	require.NoError(t, backend.Write(StoreName, []byte(legacy)))

	s := openSession(backend)
	assert.True(t, s.IsAuthenticated())
	assert.Equal(t, "legacy-tok", s.Token())

	raw, _, err := backend.Read(StoreName)
	require.NoError(t, err)
	var env struct {
		State State `json:"state"`
	}
	require.NoError(t, json.Unmarshal(raw, &env))
	assert.Empty(t, env.State.Token)
	assert.True(t, env.State.IsAuthenticated)
}

func TestUpdateUserKeepsToken(t *testing.T) {
	s := openSession(persist.NewMemoryBackend())
	u := randomUser()
	require.NoError(t, s.Login(u, "tok"))

	u.FirstName = "Updated"
	require.NoError(t, s.UpdateUser(u))

	got, _ := s.User()
	assert.Equal(t, "Updated", got.FirstName)
	assert.Equal(t, "tok", s.Token())
	assert.True(t, s.IsAuthenticated())
}

func TestInvalidate(t *testing.T) {
	s := openSession(persist.NewMemoryBackend())
	require.NoError(t, s.Login(randomUser(), "tok"))

	require.NoError(t, s.Invalidate())
	assert.False(t, s.IsAuthenticated())
	assert.Empty(t, s.Token())

	require.NoError(t, s.Invalidate(), "invalidating a signed-out session is a no-op")
}

func TestRequireAdmin(t *testing.T) {
	s := openSession(persist.NewMemoryBackend())
	assert.ErrorIs(t, s.RequireAdmin(), errors.New(errors.ErrCodeAuthRequired, ""))

	u := randomUser()
	require.NoError(t, s.Login(u, "tok"))
	assert.ErrorIs(t, s.RequireAdmin(), errors.New(errors.ErrCodeAuthForbidden, ""))

	u.IsAdmin = true
	require.NoError(t, s.UpdateUser(u))
	assert.NoError(t, s.RequireAdmin())
	assert.True(t, s.IsAdmin())
}
