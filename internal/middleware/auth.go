package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"visacrm/internal/domain"
)

// BranchOverrideHeader carries an explicit branch switch for HQ-level and
// country-manager principals. Consumed only by the branch resolver.
const BranchOverrideHeader = "X-Branch-ID"

// Auth returns middleware that authenticates the request via a Bearer JWT,
// loads the matching user row, and stores it in the context. Role and branch
// assignment are always read from the database, never from token claims.
//
// The X-Branch-ID header value, if present, is stored alongside; whether it
// has any effect is decided later by the branch resolver.
func Auth(validator JWTValidator, users domain.UserRepository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				writeUnauthorized(w, "missing bearer token")
				return
			}

			claims, err := validator.Validate(r.Context(), strings.TrimPrefix(auth, "Bearer "))
			if err != nil {
				writeUnauthorized(w, "invalid token")
				return
			}

			// Subject is the user's email; fall back to the email claim for
			// identity providers that put an opaque ID in sub.
			email := claims.Subject
			user, lookupErr := users.GetByEmail(r.Context(), email)
			if lookupErr != nil && claims.Email != "" && claims.Email != email {
				user, lookupErr = users.GetByEmail(r.Context(), claims.Email)
			}
			if lookupErr != nil || !user.IsActive {
				writeUnauthorized(w, "unknown or inactive user")
				return
			}

			ctx := domain.WithUser(r.Context(), user)
			if override := r.Header.Get(BranchOverrideHeader); override != "" {
				ctx = domain.WithBranchOverride(ctx, override)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func writeUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"code":    http.StatusUnauthorized,
		"message": "unauthorized: " + message,
	})
}
