// Package auth carries the user a request acts on through its context.
package auth

import (
	"context"

	"github.com/Rohit-1301/Health/internal/model"
)

type contextKey struct{}

func WithUser(ctx context.Context, u *model.User) context.Context {
	return context.WithValue(ctx, contextKey{}, u)
}

func UserFromContext(ctx context.Context) (*model.User, bool) {
	u, ok := ctx.Value(contextKey{}).(*model.User)
	return u, ok && u != nil
}

// UserID returns the resolved user's ID, or 0 when none is set.
func UserID(ctx context.Context) int64 {
	u, ok := UserFromContext(ctx)
	if !ok {
		return 0
	}
	return u.ID
}
