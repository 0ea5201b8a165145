package auth

import (
	"context"

	"github.com/go-redis/redis/v8"
)

// TestChecker is an in-memory Checker used in handler and middleware unit tests.
type TestChecker struct {
	Sessions map[string]int // token -> user id
}

func NewTestChecker() *TestChecker {
	return &TestChecker{
		Sessions: make(map[string]int),
	}
}

func (c *TestChecker) UserID(_ context.Context, token string) (int, error) {
	userID, ok := c.Sessions[token]
	if !ok {
		return 0, redis.Nil
	}
	return userID, nil
}
