package user

import "context"

// unexported, collision-proof context key
type identityContextKeyType struct{}

var identityKey = identityContextKeyType{}

// WithIdentity returns a context carrying the authenticated user.
func WithIdentity(ctx context.Context, u *User) context.Context {
	return context.WithValue(ctx, identityKey, u)
}

// IdentityFromContext extracts the authenticated user from context.
func IdentityFromContext(ctx context.Context) (*User, bool) {
	u, ok := ctx.Value(identityKey).(*User)
	return u, ok
}
