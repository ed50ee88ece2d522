package auth

import (
	"errors"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ledgerline/ledger-be/internal/models"
)

var (
	// ErrMissingToken means no token was supplied at all.
	ErrMissingToken = errors.New("token not provided")
	// ErrTokenRevoked means the token was explicitly invalidated (logout).
	ErrTokenRevoked = errors.New("token has been revoked")
	// ErrTokenExpired means the token is past its expiry.
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenInvalid covers malformed tokens and bad signatures.
	ErrTokenInvalid = errors.New("invalid token")
)

// Claims bind a session token to the user it authenticates.
type Claims struct {
	jwt.RegisteredClaims
	UserID   string `json:"uid"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// TokenManager issues, verifies, and revokes signed session tokens. The
// revocation set lives for the life of the process and is serialized under
// a single mutex; it is not persisted, so a restart clears it.
type TokenManager struct {
	secret []byte
	issuer string
	ttl    time.Duration

	mu      sync.Mutex
	revoked map[string]struct{}
}

// NewTokenManager creates a manager with the provided secret, issuer, and
// token lifetime.
func NewTokenManager(secret, issuer string, ttl time.Duration) *TokenManager {
	return &TokenManager{
		secret:  []byte(secret),
		issuer:  issuer,
		ttl:     ttl,
		revoked: make(map[string]struct{}),
	}
}

// Issue produces a signed token string for the given user, valid for the
// manager's configured lifetime.
func (t *TokenManager) Issue(user models.User) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    t.issuer,
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// Verify checks a token and returns its claims. Revocation is checked
// before the signature is trusted: a well-formed but revoked token must
// never grant access.
func (t *TokenManager) Verify(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, ErrMissingToken
	}
	if t.isRevoked(tokenString) {
		return nil, ErrTokenRevoked
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(tok *jwt.Token) (any, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return t.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}
	if !token.Valid {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

// Revoke adds the token to the revocation set. Revoking twice is a no-op.
func (t *TokenManager) Revoke(tokenString string) {
	if tokenString == "" {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.revoked[tokenString] = struct{}{}
}

func (t *TokenManager) isRevoked(tokenString string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.revoked[tokenString]
	return ok
}
