package directory

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GSOC-Innovators-Club/Appointment-Letter/utils"
)

func TestSignIn_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/accounts:signInWithPassword", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))

		var req map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "jane@vitbhopal.ac.in", req["email"])
		assert.Equal(t, "21BCE123", req["password"])
		assert.Equal(t, true, req["returnSecureToken"])

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{
			"email":        "jane@vitbhopal.ac.in",
			"localId":      "uid-42",
			"idToken":      "id-token",
			"refreshToken": "refresh-token",
			"expiresIn":    "3600",
		})
	}))
	defer server.Close()

	client := NewIdentityClient(testConfig("", server.URL))
	session, err := client.SignIn(context.Background(), "jane@vitbhopal.ac.in", "21BCE123")
	require.NoError(t, err)

	assert.Equal(t, "jane@vitbhopal.ac.in", session.Email)
	assert.Equal(t, "uid-42", session.UserID)
	assert.Equal(t, "id-token", session.IDToken)
	assert.False(t, session.Expired())
	assert.WithinDuration(t, time.Now().Add(time.Hour), session.ExpiresAt, time.Minute)
}

func TestSignIn_RejectedCredentials(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"error": map[string]interface{}{"message": "INVALID_PASSWORD"},
		})
	}))
	defer server.Close()

	client := NewIdentityClient(testConfig("", server.URL))
	_, err := client.SignIn(context.Background(), "jane@vitbhopal.ac.in", "wrong")

	require.Error(t, err)
	var appErr *utils.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, 401, appErr.Code)
	assert.Contains(t, appErr.Message, "INVALID_PASSWORD")
}

func TestSignIn_UnreachableProvider(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // Closed up front so the dial fails

	client := NewIdentityClient(testConfig("", server.URL))
	_, err := client.SignIn(context.Background(), "jane@vitbhopal.ac.in", "21BCE123")

	require.Error(t, err)
	var appErr *utils.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, 503, appErr.Code)
}

func TestSession_Expired(t *testing.T) {
	live := &Session{ExpiresAt: time.Now().Add(time.Minute)}
	assert.False(t, live.Expired())

	stale := &Session{ExpiresAt: time.Now().Add(-time.Minute)}
	assert.True(t, stale.Expired())
}
