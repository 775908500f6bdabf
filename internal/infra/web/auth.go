package web

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"translator-booking/internal/domain/model"
)

// ===== Caller identity =====
//
// The authenticated caller is resolved once from the bearer token and passed
// to use cases as an explicit model.Caller. Handlers never reach into shared
// request state for it.

type callerKey struct{}

// CallerFrom returns the authenticated caller resolved by AuthMiddleware.
func CallerFrom(ctx context.Context) (model.Caller, bool) {
	c, ok := ctx.Value(callerKey{}).(model.Caller)
	return c, ok
}

type AuthManager struct {
	secret []byte
	ttl    time.Duration
}

func NewAuthManager(secret string, ttl time.Duration) *AuthManager {
	return &AuthManager{secret: []byte(secret), ttl: ttl}
}

type sessionClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Mint issues a signed token for a caller. Used by the seed tool and tests;
// production tokens come from the identity service sharing the secret.
func (a *AuthManager) Mint(callerID string, role model.Role) (string, error) {
	now := time.Now()
	claims := sessionClaims{
		Role: string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl)),
			Subject:   callerID,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.secret)
}

func (a *AuthManager) parse(tok string) (model.Caller, error) {
	claims := &sessionClaims{}
	tkn, err := jwt.ParseWithClaims(tok, claims, func(t *jwt.Token) (any, error) {
		return a.secret, nil
	})
	if err != nil || !tkn.Valid {
		return model.Caller{}, errors.New("invalid token")
	}
	role, ok := model.ParseRole(claims.Role)
	if !ok || claims.Subject == "" {
		return model.Caller{}, errors.New("malformed claims")
	}
	return model.Caller{ID: claims.Subject, Role: role}, nil
}

// AuthMiddleware rejects requests without a valid bearer token and attaches
// the resolved caller to the request context.
func (a *AuthManager) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hdr := r.Header.Get("Authorization")
		if hdr == "" || !strings.HasPrefix(strings.ToLower(hdr), "bearer ") {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		caller, err := a.parse(strings.TrimSpace(hdr[7:]))
		if err != nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		ctx := context.WithValue(r.Context(), callerKey{}, caller)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
