package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/escolaranieri/galeriabackend/models"
	"github.com/escolaranieri/galeriabackend/repository"
)

// ContextKey is a custom type for context keys to avoid collisions.
type ContextKey string

const (
	// UserContextKey is the key used to store the user object in the request context.
	UserContextKey ContextKey = "user"
)

// UserFromContext returns the authenticated user stored by AuthMiddleware or
// OptionalAuthMiddleware. The second return is false for guest requests.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(UserContextKey).(*models.User)
	return user, ok && user != nil
}

// authenticateRequest extracts and verifies the bearer token, then loads the
// user it names. An empty Authorization header is not an error here; callers
// decide whether a guest is acceptable.
func authenticateRequest(r *http.Request, jwtSecret []byte, userRepo repository.UserRepository) (*models.User, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return nil, nil
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return nil, errors.New("authorization header format must be Bearer {token}")
	}
	tokenString := parts[1]

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return jwtSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	var userID uint
	if _, err := fmt.Sscan(claims.Subject, &userID); err != nil {
		return nil, fmt.Errorf("invalid user id in token subject %q", claims.Subject)
	}

	user, err := userRepo.GetByID(userID)
	if err != nil {
		// the user may have been deleted after the token was issued
		return nil, errors.New("user not found")
	}
	return user, nil
}

// AuthMiddleware verifies the JWT bearer token, loads the user with roles and
// groups preloaded, and stores them in the request context. Requests without
// a valid token are rejected.
func AuthMiddleware(jwtSecret []byte, userRepo repository.UserRepository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := authenticateRequest(r, jwtSecret, userRepo)
			if err != nil {
				WriteAPIError(w, http.StatusUnauthorized, "unauthenticated", err.Error())
				return
			}
			if user == nil {
				WriteAPIError(w, http.StatusUnauthorized, "unauthenticated", "authorization header required")
				return
			}

			ctx := context.WithValue(r.Context(), UserContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuthMiddleware behaves like AuthMiddleware but lets requests
// without an Authorization header through as guests. A present but invalid
// token is still rejected rather than silently downgraded.
func OptionalAuthMiddleware(jwtSecret []byte, userRepo repository.UserRepository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := authenticateRequest(r, jwtSecret, userRepo)
			if err != nil {
				WriteAPIError(w, http.StatusUnauthorized, "unauthenticated", err.Error())
				return
			}
			if user == nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), UserContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
