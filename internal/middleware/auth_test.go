package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"visacrm/internal/domain"
	"visacrm/internal/testutil"
)

const testSecret = "local-dev-secret"

func signHS256(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	if _, ok := claims["exp"]; !ok {
		claims["exp"] = time.Now().Add(time.Hour).Unix()
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func TestHS256Validator_ValidToken(t *testing.T) {
	v, err := NewHS256Validator(testSecret)
	require.NoError(t, err)

	token := signHS256(t, testSecret, jwt.MapClaims{"sub": "ayesha@example.com"})
	claims, err := v.Validate(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "ayesha@example.com", claims.Subject)
}

func TestHS256Validator_WrongSecret(t *testing.T) {
	v, err := NewHS256Validator(testSecret)
	require.NoError(t, err)

	token := signHS256(t, "other-secret", jwt.MapClaims{"sub": "ayesha@example.com"})
	_, err = v.Validate(context.Background(), token)
	assert.Error(t, err)
}

func TestHS256Validator_ExpiredToken(t *testing.T) {
	v, err := NewHS256Validator(testSecret)
	require.NoError(t, err)

	token := signHS256(t, testSecret, jwt.MapClaims{
		"sub": "ayesha@example.com",
		"exp": time.Now().Add(-time.Hour).Unix(),
	})
	_, err = v.Validate(context.Background(), token)
	assert.Error(t, err)
}

func TestHS256Validator_MissingSubject(t *testing.T) {
	v, err := NewHS256Validator(testSecret)
	require.NoError(t, err)

	token := signHS256(t, testSecret, jwt.MapClaims{"email": "ayesha@example.com"})
	_, err = v.Validate(context.Background(), token)
	assert.EqualError(t, err, "token has no subject")
}

func TestHS256Validator_EmptySecretRejected(t *testing.T) {
	_, err := NewHS256Validator("")
	assert.Error(t, err)
}

func authTestHandler(t *testing.T, users domain.UserRepository) http.Handler {
	t.Helper()
	v, err := NewHS256Validator(testSecret)
	require.NoError(t, err)
	return Auth(v, users)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
}

func TestAuth_MissingHeader(t *testing.T) {
	users := &testutil.MockUserRepo{}
	handler := authTestHandler(t, users)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/leads", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "missing bearer token")
}

func TestAuth_UnknownUser(t *testing.T) {
	users := &testutil.MockUserRepo{
		GetByEmailFn: func(_ context.Context, email string) (*domain.User, error) {
			return nil, domain.ErrNotFound("user %q not found", email)
		},
	}
	handler := authTestHandler(t, users)

	req := httptest.NewRequest(http.MethodGet, "/v1/leads", nil)
	req.Header.Set("Authorization", "Bearer "+signHS256(t, testSecret, jwt.MapClaims{"sub": "ghost@example.com"}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "unknown or inactive user")
}

func TestAuth_InactiveUser(t *testing.T) {
	users := &testutil.MockUserRepo{
		GetByEmailFn: func(_ context.Context, email string) (*domain.User, error) {
			return &domain.User{ID: "u-1", Email: email, Role: domain.RoleCounselor}, nil
		},
	}
	handler := authTestHandler(t, users)

	req := httptest.NewRequest(http.MethodGet, "/v1/leads", nil)
	req.Header.Set("Authorization", "Bearer "+signHS256(t, testSecret, jwt.MapClaims{"sub": "ayesha@example.com"}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuth_InjectsUserAndOverride(t *testing.T) {
	branchID := "b-lhr"
	users := &testutil.MockUserRepo{
		GetByEmailFn: func(_ context.Context, email string) (*domain.User, error) {
			return &domain.User{
				ID: "u-1", Email: email, Role: domain.RoleCounselor,
				BranchID: &branchID, IsActive: true,
			}, nil
		},
	}
	v, err := NewHS256Validator(testSecret)
	require.NoError(t, err)

	var gotUser *domain.User
	var gotOverride string
	handler := Auth(v, users)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser, _ = domain.UserFromContext(r.Context())
		gotOverride, _ = domain.BranchOverrideFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/v1/leads", nil)
	req.Header.Set("Authorization", "Bearer "+signHS256(t, testSecret, jwt.MapClaims{"sub": "ayesha@example.com"}))
	req.Header.Set(BranchOverrideHeader, "b-isb")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	require.NotNil(t, gotUser)
	assert.Equal(t, "ayesha@example.com", gotUser.Email)
	assert.Equal(t, "b-isb", gotOverride)
}

func TestAuth_EmailClaimFallback(t *testing.T) {
	// Identity providers that put an opaque ID in sub are matched by the
	// email claim instead.
	users := &testutil.MockUserRepo{
		GetByEmailFn: func(_ context.Context, email string) (*domain.User, error) {
			if email != "ayesha@example.com" {
				return nil, domain.ErrNotFound("user %q not found", email)
			}
			return &domain.User{ID: "u-1", Email: email, Role: domain.RoleCounselor, IsActive: true}, nil
		},
	}
	v, err := NewHS256Validator(testSecret)
	require.NoError(t, err)

	var gotUser *domain.User
	handler := Auth(v, users)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser, _ = domain.UserFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/v1/leads", nil)
	req.Header.Set("Authorization", "Bearer "+signHS256(t, testSecret, jwt.MapClaims{
		"sub": "auth0|abc123", "email": "ayesha@example.com",
	}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	require.NotNil(t, gotUser)
	assert.Equal(t, "u-1", gotUser.ID)
}

func TestRequestID_GeneratedAndReused(t *testing.T) {
	var ctxID string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctxID = RequestIDFromContext(r.Context())
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	generated := rec.Header().Get("X-Request-ID")
	assert.NotEmpty(t, generated)
	assert.Equal(t, generated, ctxID)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "req-preset")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, "req-preset", rec.Header().Get("X-Request-ID"))
	assert.Equal(t, "req-preset", ctxID)
}
