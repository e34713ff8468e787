package domain

import "context"

type userKey struct{}

type branchOverrideKey struct{}

// WithUser stores the authenticated user in the context. The key type is
// unexported so principals cannot be forged from other packages.
func WithUser(ctx context.Context, u *User) context.Context {
	return context.WithValue(ctx, userKey{}, u)
}

// UserFromContext extracts the authenticated user from the context.
func UserFromContext(ctx context.Context) (*User, bool) {
	u, ok := ctx.Value(userKey{}).(*User)
	return u, ok && u != nil
}

// WithBranchOverride stores the raw X-Branch-ID header value in the context.
// Only the branch resolver consumes it; an ID that resolves to no real
// branch is ignored, never an error.
func WithBranchOverride(ctx context.Context, branchID string) context.Context {
	return context.WithValue(ctx, branchOverrideKey{}, branchID)
}

// BranchOverrideFromContext returns the requested branch override, if any.
func BranchOverrideFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(branchOverrideKey{}).(string)
	return id, ok && id != ""
}
