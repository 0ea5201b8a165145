package auth

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/go-redis/redismock/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		// INFO: https://github.com/go-redis/redis/issues/1029
		goleak.IgnoreTopFunction(
			"github.com/go-redis/redis/v8/internal/pool.(*ConnPool).reaper",
		),
	)
}

func TestService_Login(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()

	authService := NewService(time.Hour, db)
	require.NotNil(t, authService)
	assert.NotNil(t, authService.redisClient)
	assert.Equal(t, time.Hour, authService.ttl)

	testToken := "test_token"
	authService.RandStringFunc = func(s int) (string, error) {
		return testToken, nil
	}

	now := time.Now()
	userID := 42
	sessionKey := sessionKeyPrefix + testToken
	mock.ExpectSet(sessionKey, sessionValue(userID, now), 0).SetVal("OK")
	mock.ExpectSAdd(tokensSetKey, testToken).SetVal(1)

	token, err := authService.Login(context.Background(), userID, now)
	require.NoError(t, err)
	assert.Equal(t, testToken, token)
}

func TestService_Logout(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()

	authService := NewService(time.Hour, db)

	now := time.Now()
	testToken := "test_token"
	sessionKey := sessionKeyPrefix + testToken

	mock.ExpectGet(sessionKey).SetVal(sessionValue(42, now))
	mock.ExpectDel(sessionKey).SetVal(1)
	mock.ExpectSRem(tokensSetKey, testToken).SetVal(1)

	loggedOut, err := authService.Logout(context.Background(), testToken)
	require.NoError(t, err)
	assert.True(t, loggedOut)
}

func TestSessionValue_Parse(t *testing.T) {
	now := time.Now()
	userID, createdAt, err := parseSessionValue(sessionValue(42, now))
	require.NoError(t, err)
	assert.Equal(t, 42, userID)
	assert.Equal(t, now.Unix(), createdAt.Unix())

	_, _, err = parseSessionValue("garbage")
	require.Error(t, err)
	_, _, err = parseSessionValue(fmt.Sprintf("nan:%d", now.Unix()))
	require.Error(t, err)
	_, _, err = parseSessionValue("42:nan")
	require.Error(t, err)
}
