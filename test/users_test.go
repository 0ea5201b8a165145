package test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/anabelic/gymtracker/internal/users"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *IntegrationTestSuite) TestUsers_RegisterAndLogin() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	user := registerUser(ctx, t, "register-login@example.com", "Build strength")
	assert.Greater(t, user.ID, 0)
	assert.Equal(t, "register-login@example.com", user.Email)
	assert.Empty(t, user.PasswordHash)

	// the stored password must be a hash, never the plaintext
	var storedPassword string
	require.NoError(t, s.DB.QueryRow(
		"SELECT password FROM users WHERE id = $1", user.ID,
	).Scan(&storedPassword))
	assert.NotEqual(t, testUserPassword, storedPassword)
	assert.NotEmpty(t, storedPassword)

	loginResp := doLogin(ctx, t, "register-login@example.com")
	assert.Equal(t, user.ID, loginResp.UserID)

	s.Run("duplicate email rejected", func() {
		registerReq := users.RegisterRequest{
			Name:            "Copy Cat",
			Email:           "register-login@example.com",
			Password:        testUserPassword,
			ConfirmPassword: testUserPassword,
		}
		registerReqJson, err := json.Marshal(registerReq)
		require.NoError(t, err)

		req, err := http.NewRequestWithContext(
			ctx, "POST",
			fmt.Sprintf("%s/users/register", serverEndpoint),
			bytes.NewBuffer(registerReqJson),
		)
		require.NoError(t, err)
		req.Header.Set("User-Agent", "test-agent")
		req.Header.Set("Content-Type", "application/json")

		resp, err := s.httpClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})

	s.Run("wrong password rejected", func() {
		loginReqJson, err := json.Marshal(map[string]string{
			"email":    "register-login@example.com",
			"password": "Wr0ng!pass",
		})
		require.NoError(t, err)

		req, err := http.NewRequestWithContext(
			ctx, "POST",
			fmt.Sprintf("%s/users/login", serverEndpoint),
			bytes.NewBuffer(loginReqJson),
		)
		require.NoError(t, err)
		req.Header.Set("User-Agent", "test-agent")
		req.Header.Set("Content-Type", "application/json")

		resp, err := s.httpClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func (s *IntegrationTestSuite) TestUsers_ProfileAndGoal() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	registerUser(ctx, t, "profile@example.com", "Build strength")
	loginResp := doLogin(ctx, t, "profile@example.com")

	req := newAuthedRequest(ctx, t, "GET", "/users/me", loginResp.Token, nil)
	resp, err := s.httpClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	respBytes, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var profile users.User
	require.NoError(t, json.Unmarshal(respBytes, &profile))
	assert.Equal(t, loginResp.UserID, profile.ID)
	assert.Equal(t, "Build strength", profile.Goal)

	s.Run("update goal", func() {
		req := newAuthedRequest(ctx, t, "PUT", "/users/me/goal", loginResp.Token, []byte(`{"goal":"Lose weight"}`))
		resp, err := s.httpClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var storedGoal string
		require.NoError(t, s.DB.QueryRow(
			"SELECT goal FROM users WHERE id = $1", loginResp.UserID,
		).Scan(&storedGoal))
		assert.Equal(t, "Lose weight", storedGoal)
	})

	s.Run("no token, no profile", func() {
		req, err := http.NewRequestWithContext(ctx, "GET", serverEndpoint+"/users/me", nil)
		require.NoError(t, err)
		req.Header.Set("User-Agent", "test-agent")

		resp, err := s.httpClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	s.Run("logout kills the session", func() {
		req := newAuthedRequest(ctx, t, "GET", "/users/logout", loginResp.Token, nil)
		resp, err := s.httpClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		req = newAuthedRequest(ctx, t, "GET", "/users/me", loginResp.Token, nil)
		resp2, err := s.httpClient.Do(req)
		require.NoError(t, err)
		defer resp2.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp2.StatusCode)
	})
}
