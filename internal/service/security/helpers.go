package security

import (
	"context"

	"visacrm/internal/domain"
)

// Caller returns the authenticated user from the context, or an
// UnauthorizedError when none is present.
func Caller(ctx context.Context) (*domain.User, error) {
	u, ok := domain.UserFromContext(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized("authentication required")
	}
	return u, nil
}
