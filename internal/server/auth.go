package server

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

type ctxKey int

const subjectKey ctxKey = iota

// AuthService validates the bearer tokens presented to /v1/parse and
// /v1/stream. rtfstream issues no tokens itself — callers bring their own,
// signed with the shared secret configured for the server.
type AuthService struct {
	secret []byte
}

// NewAuthService constructs an AuthService around a shared HMAC secret.
func NewAuthService(secret string) *AuthService {
	return &AuthService{secret: []byte(secret)}
}

// ValidateToken parses and verifies a bearer token, returning its "sub"
// claim.
func (a *AuthService) ValidateToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != "HS256" {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return a.secret, nil
	})
	if err != nil {
		return "", err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", jwt.ErrTokenInvalidClaims
	}
	sub, _ := claims["sub"].(string)
	return sub, nil
}

// Middleware rejects requests with a missing or invalid bearer token and
// stashes the validated subject in the request context otherwise.
func (a *AuthService) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		tokenString := strings.TrimPrefix(header, "Bearer ")
		if tokenString == "" || tokenString == header {
			http.Error(w, "missing bearer token", http.StatusUnauthorized)
			return
		}

		sub, err := a.ValidateToken(tokenString)
		if err != nil {
			http.Error(w, "invalid bearer token", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), subjectKey, sub)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
