package auth

import (
	"context"

	"github.com/ovaphlow/pitchfork/service-auth-go/internal/user/entity"
)

type ctxKey struct{}

// WithUser attaches the authenticated identity to ctx.
func WithUser(ctx context.Context, u entity.PublicUser) context.Context {
	return context.WithValue(ctx, ctxKey{}, u)
}

// UserFromContext returns the identity attached by WithUser.
func UserFromContext(ctx context.Context) (entity.PublicUser, bool) {
	u, ok := ctx.Value(ctxKey{}).(entity.PublicUser)
	return u, ok
}
