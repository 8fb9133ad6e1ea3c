package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GSOC-Innovators-Club/Appointment-Letter/directory"
	"github.com/GSOC-Innovators-Club/Appointment-Letter/models"
	"github.com/GSOC-Innovators-Club/Appointment-Letter/utils"
)

// mockProvider implements Authenticator with a per-test function
type mockProvider struct {
	signInFn func(ctx context.Context, email, password string) (*directory.Session, error)
}

func (m *mockProvider) SignIn(ctx context.Context, email, password string) (*directory.Session, error) {
	return m.signInFn(ctx, email, password)
}

// mockFinder implements Finder with a per-test function
type mockFinder struct {
	findFn func(ctx context.Context, email string) (*models.Member, error)
}

func (m *mockFinder) FindByEmail(ctx context.Context, email string) (*models.Member, error) {
	return m.findFn(ctx, email)
}

func validSession(email string) *directory.Session {
	return &directory.Session{
		Email:     email,
		UserID:    "uid-1",
		IDToken:   "token",
		ExpiresAt: time.Now().Add(time.Hour),
	}
}

func TestLogin_Success(t *testing.T) {
	member := &models.Member{Name: "Jane Doe", RegNo: "21BCE123", Email: "jane@vitbhopal.ac.in"}
	provider := &mockProvider{signInFn: func(ctx context.Context, email, password string) (*directory.Session, error) {
		assert.Equal(t, "jane@vitbhopal.ac.in", email)
		assert.Equal(t, "21BCE123", password)
		return validSession(email), nil
	}}
	finder := &mockFinder{findFn: func(ctx context.Context, email string) (*models.Member, error) {
		return member, nil
	}}

	c := NewController(provider, finder, t.TempDir())
	err := c.Login(context.Background(), " jane@vitbhopal.ac.in ", " 21BCE123 ")

	require.NoError(t, err)
	identity := c.Current()
	assert.True(t, identity.Authenticated)
	assert.Equal(t, "21BCE123", identity.Member.RegNo)
	assert.False(t, identity.Loading)
}

func TestLogin_EmptyFieldsRejected(t *testing.T) {
	c := NewController(&mockProvider{}, &mockFinder{}, "")

	err := c.Login(context.Background(), "", "21BCE123")
	require.Error(t, err)

	var appErr *utils.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, 400, appErr.Code)
}

func TestLogin_RejectedCredentials(t *testing.T) {
	provider := &mockProvider{signInFn: func(ctx context.Context, email, password string) (*directory.Session, error) {
		return nil, utils.UnauthorizedError("INVALID_PASSWORD", nil)
	}}

	c := NewController(provider, &mockFinder{}, "")
	err := c.Login(context.Background(), "jane@vitbhopal.ac.in", "wrong")

	require.Error(t, err)
	assert.False(t, c.Current().Authenticated)
}

func TestLogin_ProfileNotFoundFailsClosed(t *testing.T) {
	provider := &mockProvider{signInFn: func(ctx context.Context, email, password string) (*directory.Session, error) {
		return validSession(email), nil
	}}
	finder := &mockFinder{findFn: func(ctx context.Context, email string) (*models.Member, error) {
		return nil, nil
	}}

	c := NewController(provider, finder, t.TempDir())
	err := c.Login(context.Background(), "ghost@vitbhopal.ac.in", "21BCE999")

	// Accepted credentials with no directory record: no error surfaces, but
	// the viewer stays unauthenticated so the gate refuses everything
	require.NoError(t, err)
	identity := c.Current()
	assert.False(t, identity.Authenticated)
	assert.Nil(t, identity.Member)
}

func TestSubscribe_NotifiedOnEveryChange(t *testing.T) {
	member := &models.Member{Name: "Jane Doe", RegNo: "21BCE123", Email: "jane@vitbhopal.ac.in"}
	provider := &mockProvider{signInFn: func(ctx context.Context, email, password string) (*directory.Session, error) {
		return validSession(email), nil
	}}
	finder := &mockFinder{findFn: func(ctx context.Context, email string) (*models.Member, error) {
		return member, nil
	}}

	c := NewController(provider, finder, "")

	var seen []models.Identity
	unsubscribe := c.Subscribe(func(identity models.Identity) {
		seen = append(seen, identity)
	})

	// Fired once immediately with the initial loading state
	require.Len(t, seen, 1)
	assert.True(t, seen[0].Loading)

	require.NoError(t, c.Login(context.Background(), "jane@vitbhopal.ac.in", "21BCE123"))
	require.Len(t, seen, 2)
	assert.True(t, seen[1].Authenticated)

	c.Logout(context.Background())
	require.Len(t, seen, 3)
	assert.False(t, seen[2].Authenticated)

	unsubscribe()
	c.Logout(context.Background())
	assert.Len(t, seen, 3)
}

func TestRestore_PersistedSession(t *testing.T) {
	member := &models.Member{Name: "Jane Doe", RegNo: "21BCE123", Email: "jane@vitbhopal.ac.in"}
	provider := &mockProvider{signInFn: func(ctx context.Context, email, password string) (*directory.Session, error) {
		return validSession(email), nil
	}}
	finder := &mockFinder{findFn: func(ctx context.Context, email string) (*models.Member, error) {
		return member, nil
	}}

	dataDir := t.TempDir()
	c := NewController(provider, finder, dataDir)
	require.NoError(t, c.Login(context.Background(), "jane@vitbhopal.ac.in", "21BCE123"))

	// A fresh controller over the same data dir restores the identity
	restored := NewController(provider, finder, dataDir)
	assert.True(t, restored.Current().Loading)

	restored.Restore(context.Background())
	identity := restored.Current()
	assert.True(t, identity.Authenticated)
	assert.Equal(t, "21BCE123", identity.Member.RegNo)
	assert.False(t, identity.Loading)
}

func TestRestore_NoSessionSettlesUnauthenticated(t *testing.T) {
	c := NewController(&mockProvider{}, &mockFinder{}, t.TempDir())

	c.Restore(context.Background())

	identity := c.Current()
	assert.False(t, identity.Authenticated)
	assert.False(t, identity.Loading)
}

func TestRestore_ExpiredSessionCleared(t *testing.T) {
	finder := &mockFinder{findFn: func(ctx context.Context, email string) (*models.Member, error) {
		t.Fatal("expired session must not resolve a profile")
		return nil, nil
	}}

	dataDir := t.TempDir()
	expired := &directory.Session{
		Email:     "jane@vitbhopal.ac.in",
		ExpiresAt: time.Now().Add(-time.Minute),
	}
	c := NewController(&mockProvider{}, finder, dataDir)
	c.persistSession(expired)

	c.Restore(context.Background())

	identity := c.Current()
	assert.False(t, identity.Authenticated)
	assert.False(t, identity.Loading)
	assert.Nil(t, c.loadPersistedSession())
}

func TestLogout_ClearsPersistedSession(t *testing.T) {
	member := &models.Member{Name: "Jane Doe", RegNo: "21BCE123", Email: "jane@vitbhopal.ac.in"}
	provider := &mockProvider{signInFn: func(ctx context.Context, email, password string) (*directory.Session, error) {
		return validSession(email), nil
	}}
	finder := &mockFinder{findFn: func(ctx context.Context, email string) (*models.Member, error) {
		return member, nil
	}}

	c := NewController(provider, finder, t.TempDir())
	require.NoError(t, c.Login(context.Background(), "jane@vitbhopal.ac.in", "21BCE123"))
	require.NotNil(t, c.loadPersistedSession())

	c.Logout(context.Background())

	assert.False(t, c.Current().Authenticated)
	assert.Nil(t, c.loadPersistedSession())
}
