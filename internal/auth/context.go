package auth

import (
	"context"

	"github.com/alamal-ev/website/internal/model"
)

type contextKey struct{}

// Identity is the authenticated caller, derived from the session cookie and
// re-validated against the store on every request.
type Identity struct {
	Email string
	Kind  model.ProfileKind
}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(contextKey{}).(Identity)
	return id, ok
}
