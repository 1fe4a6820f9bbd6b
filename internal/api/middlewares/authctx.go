package middlewares

import (
	"context"

	"github.com/eldieng/Fawsayni-Tech/internal/models"
)

const userKey ctxKey = 1

func WithUser(ctx context.Context, u models.User) context.Context {
	return context.WithValue(ctx, userKey, u)
}

// UserFrom returns the authenticated caller, if any.
func UserFrom(ctx context.Context) (models.User, bool) {
	u, ok := ctx.Value(userKey).(models.User)
	return u, ok && u.ID != ""
}
