package test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"testing"

	"github.com/anabelic/gymtracker/internal/middleware"
	"github.com/anabelic/gymtracker/internal/users"

	"github.com/stretchr/testify/require"
)

const testUserPassword = "Str0ng!pass"

type loginResponse struct {
	Token  string `json:"token"`
	UserID int    `json:"userId"`
}

func registerUser(ctx context.Context, t *testing.T, email, goal string) users.User {
	registerReq := users.RegisterRequest{
		Name:            "Test User",
		Email:           email,
		Password:        testUserPassword,
		ConfirmPassword: testUserPassword,
		Age:             30,
		HeightFt:        5,
		HeightIn:        9,
		Weight:          165,
		Goal:            goal,
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

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	respBytes, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var user users.User
	require.NoError(t, json.Unmarshal(respBytes, &user))
	return user
}

func doLogin(ctx context.Context, t *testing.T, email string) loginResponse {
	loginReqJson, err := json.Marshal(map[string]string{
		"email":    email,
		"password": testUserPassword,
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

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	respBytes, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NotEmpty(t, respBytes)

	var loginResp loginResponse
	require.NoError(t, json.Unmarshal(respBytes, &loginResp))
	require.NotEmpty(t, loginResp.Token)
	return loginResp
}

func newAuthedRequest(ctx context.Context, t *testing.T, method, path, token string, body []byte) *http.Request {
	var reqBody io.Reader
	if body != nil {
		reqBody = bytes.NewBuffer(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, serverEndpoint+path, reqBody)
	require.NoError(t, err)
	req.Header.Set("User-Agent", "test-agent")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(middleware.AuthTokenHeader, token)
	return req
}
