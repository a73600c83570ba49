package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"agenda/internal/models"
)

// TokenValidity is how long an issued token is accepted. Expiry is absolute;
// there is no refresh or revocation.
const TokenValidity = time.Hour

// Claims defines the JWT claims structure.
type Claims struct {
	UserID int    `json:"user_id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	jwt.RegisteredClaims
}

type contextKey string

// userClaimsKey is the context key under which the middleware stores the
// verified claims.
const userClaimsKey = contextKey("userClaims")

// TokenService issues and verifies signed session tokens. The signing key is
// injected from configuration so nothing in this package touches process
// globals.
type TokenService struct {
	secret []byte
}

// NewTokenService creates a TokenService signing with the given secret.
func NewTokenService(secret string) *TokenService {
	return &TokenService{secret: []byte(secret)}
}

// Issue creates a new signed token for a given user.
func (t *TokenService) Issue(user models.User) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: user.ID,
		Email:  user.Email,
		Name:   user.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenValidity)),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// Verify parses and validates a token string, returning the embedded claims.
// A bad signature and an expired token both fail verification.
func (t *TokenService) Verify(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return t.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}

// Middleware gates protected routes. A missing or malformed Authorization
// header yields 401; a token that fails verification yields 403. On success
// the claims travel down via the request context.
func (t *TokenService) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		tokenStr, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok || tokenStr == "" {
			http.Error(w, "Missing auth token", http.StatusUnauthorized)
			return
		}

		claims, err := t.Verify(tokenStr)
		if err != nil {
			http.Error(w, "Invalid auth token", http.StatusForbidden)
			return
		}

		ctx := context.WithValue(r.Context(), userClaimsKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ClaimsFromContext returns the verified claims stored by the middleware.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(userClaimsKey).(*Claims)
	return claims, ok
}

// ContextWithClaims returns a context carrying the given claims. Intended for
// handler tests that bypass the middleware.
func ContextWithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, userClaimsKey, claims)
}
