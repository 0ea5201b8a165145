package middleware

import "context"

type contextKey string

const userIDContextKey contextKey = "user-id"

// ContextWithUserID binds the authenticated user id to the request context.
func ContextWithUserID(ctx context.Context, userID int) context.Context {
	return context.WithValue(ctx, userIDContextKey, userID)
}

// UserIDFromContext returns the authenticated user id bound to the request
// context by the auth middleware.
func UserIDFromContext(ctx context.Context) (int, bool) {
	userID, ok := ctx.Value(userIDContextKey).(int)
	return userID, ok
}
