package auth

import "context"

// Identity is the caller admitted by the Gate.
type Identity struct {
	Subject    string
	SelfIssued bool
	Claims     map[string]any
}

type identityKey struct{}

func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

func IdentityFrom(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(*Identity)
	return id, ok && id != nil
}
