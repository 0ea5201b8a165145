package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/anabelic/gymtracker/internal/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthCheck(t *testing.T) {
	checker := auth.NewTestChecker()
	checker.Sessions["valid-token"] = 42

	var gotUserID int
	var gotOk bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID, gotOk = UserIDFromContext(r.Context())
	})
	handler := NewAuthMiddlewareHandler(checker).AuthCheck()(next)

	t.Run("allowed path without token", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/users/login", nil)
		handler.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("protected path without token", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/workouts", nil)
		handler.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("protected path with invalid token", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/workouts", nil)
		req.Header.Set(AuthTokenHeader, "nope")
		handler.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("protected path with valid token", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/workouts", nil)
		req.Header.Set(AuthTokenHeader, "valid-token")
		handler.ServeHTTP(rr, req)
		require.Equal(t, http.StatusOK, rr.Code)
		assert.True(t, gotOk)
		assert.Equal(t, 42, gotUserID)
	})

	t.Run("options preflight", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest("OPTIONS", "/workouts", nil)
		handler.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusOK, rr.Code)
	})
}
