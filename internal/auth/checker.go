package auth

import "context"

type Checker interface {
	UserID(ctx context.Context, token string) (int, error)
}
