package identity

import "context"

type contextKey string

const identityContextKey contextKey = "identity"

// Identity is the authenticated caller as resolved by the external identity
// provider. UserID is opaque to this service.
type Identity struct {
	UserID string
	Email  string
}

func FromContext(ctx context.Context) Identity {
	if id, ok := ctx.Value(identityContextKey).(Identity); ok {
		return id
	}

	return Identity{}
}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityContextKey, id)
}
