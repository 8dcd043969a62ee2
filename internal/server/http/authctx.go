package httpserver

import (
	"context"

	"github.com/and161185/portfolio-api/internal/model"
)

type ctxKey string

const userKey ctxKey = "portfolio.user"

// WithUser stores the authenticated user in ctx.
func WithUser(ctx context.Context, u *model.User) context.Context {
	return context.WithValue(ctx, userKey, u)
}

// UserFromContext fetches the authenticated user stored by the auth middleware.
func UserFromContext(ctx context.Context) (*model.User, bool) {
	u, ok := ctx.Value(userKey).(*model.User)
	return u, ok && u != nil
}
