// Package actorctx carries per-request identity on a context.Context so that
// code below the HTTP layer can see who is calling without a gin dependency.
package actorctx

import (
	"context"

	"github.com/geocoder89/vacationhub/internal/domain/user"
)

type ctxKey int

const (
	userKey ctxKey = iota
	requestIDKey
)

func WithUser(ctx context.Context, u user.User) context.Context {
	return context.WithValue(ctx, userKey, u)
}

func UserFrom(ctx context.Context) (user.User, bool) {
	u, ok := ctx.Value(userKey).(user.User)

	return u, ok && u.ID > 0
}

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

func RequestIDFrom(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(requestIDKey).(string)

	return v, ok && v != ""
}
