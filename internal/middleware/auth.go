package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/ledgerline/ledger-be/internal/auth"
	"github.com/ledgerline/ledger-be/internal/http/respond"
)

type ctxKey int

const (
	claimsKey ctxKey = iota
	tokenKey
)

// RequireAuth verifies the bearer token on every request and stores the
// claims and the raw token in the request context. All token failures map
// to 401.
func RequireAuth(tokens *auth.TokenManager, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := bearerToken(r)
		claims, err := tokens.Verify(raw)
		if err != nil {
			switch {
			case errors.Is(err, auth.ErrMissingToken):
				respond.Error(w, http.StatusUnauthorized, "token not provided")
			case errors.Is(err, auth.ErrTokenRevoked):
				respond.Error(w, http.StatusUnauthorized, "token expired or invalid")
			case errors.Is(err, auth.ErrTokenExpired):
				respond.Error(w, http.StatusUnauthorized, "token expired")
			default:
				respond.Error(w, http.StatusUnauthorized, "invalid token")
			}
			return
		}

		ctx := context.WithValue(r.Context(), claimsKey, claims)
		ctx = context.WithValue(ctx, tokenKey, raw)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ClaimsFrom returns the verified claims stored by RequireAuth.
func ClaimsFrom(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*auth.Claims)
	return claims, ok
}

// TokenFrom returns the raw bearer token stored by RequireAuth.
func TokenFrom(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(tokenKey).(string)
	return token, ok
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}
