package guard

import (
	"context"
)

var identityCtxKey = &contextKey{"identity"}

type contextKey struct {
	name string
}

// WithContext sets the authenticated Identity in the given context
func WithContext(ctx context.Context, user Identity) context.Context {
	return context.WithValue(ctx, identityCtxKey, user)
}

// FromContext finds the authenticated Identity in the context.
func FromContext(ctx context.Context) (Identity, bool) {
	raw, ok := ctx.Value(identityCtxKey).(Identity)
	return raw, ok
}
