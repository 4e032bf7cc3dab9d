package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTokenRoundTrip(t *testing.T) {
	secret := []byte("test-secret")

	token, err := issueToken(7, secret, time.Hour)
	assert.NoError(t, err)

	subject, err := parseTokenSubject(token, secret)
	assert.NoError(t, err)
	assert.Equal(t, "7", subject)
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	token, err := issueToken(7, []byte("secret-a"), time.Hour)
	assert.NoError(t, err)

	_, err = parseTokenSubject(token, []byte("secret-b"))
	assert.Error(t, err)
}

func TestParseTokenRejectsExpired(t *testing.T) {
	token, err := issueToken(7, []byte("test-secret"), -time.Minute)
	assert.NoError(t, err)

	_, err = parseTokenSubject(token, []byte("test-secret"))
	assert.Error(t, err)
}

func TestRequireAuthRejectsMissingHeader(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("next handler should not run")
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/stats/today", nil)
	RequireAuth("test-secret")(next).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAuthInjectsSubject(t *testing.T) {
	token, err := issueToken(7, []byte("test-secret"), time.Hour)
	assert.NoError(t, err)

	var gotUserID int
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID, _ = userIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/stats/today", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	RequireAuth("test-secret")(next).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 7, gotUserID)
}
