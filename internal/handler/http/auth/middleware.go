package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"newswire/internal/handler/http/respond"
)

type ctxKey string

const ctxUserID ctxKey = "user_id"

// UserID returns the authenticated user's id from the request context.
// The second return value is false when the request was not authenticated.
func UserID(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(ctxUserID).(int64)
	return id, ok
}

// Authz returns a middleware that requires a valid bearer token on every
// request it wraps. The token must be signed with HS256 using the given
// secret and carry an unexpired exp claim and the user's id. The user id
// is added to the request context for downstream handlers.
func Authz(secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := validateJWT(r.Header.Get("Authorization"), secret)
			if err != nil {
				respond.SafeError(w, http.StatusUnauthorized, fmt.Errorf("unauthorized: %w", err))
				return
			}
			ctx := context.WithValue(r.Context(), ctxUserID, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func validateJWT(authz string, secret []byte) (int64, error) {
	const prefix = "Bearer "
	if !strings.HasPrefix(authz, prefix) {
		return 0, errors.New("missing bearer token")
	}
	tokenString := strings.TrimPrefix(authz, prefix)
	tok, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	})
	if err != nil || !tok.Valid {
		return 0, errors.New("invalid token")
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return 0, errors.New("invalid claims")
	}
	if exp, ok := claims["exp"].(float64); !ok || int64(exp) < time.Now().Unix() {
		return 0, errors.New("token expired")
	}
	id, ok := claims["id"].(float64)
	if !ok || id <= 0 {
		return 0, errors.New("invalid id claim")
	}
	return int64(id), nil
}
