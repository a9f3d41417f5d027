// Package auth resolves the acting user from platform-issued bearer tokens.
// It is the only place session state is read; every service call downstream
// receives the actor as an explicit parameter.
package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Role distinguishes the two sides of the approval workflow.
type Role string

const (
	RoleFounder Role = "founder"
	RolePartner Role = "partner"
)

// Actor is the authenticated user on a request.
type Actor struct {
	ID   uuid.UUID
	Role Role
}

type contextKey struct{}

// FromContext returns the actor resolved by Middleware.
func FromContext(ctx context.Context) (Actor, bool) {
	actor, ok := ctx.Value(contextKey{}).(Actor)
	return actor, ok
}

// Middleware verifies the bearer token and stores the actor on the request
// context. Requests without a valid token are rejected.
func Middleware(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, err := actorFromRequest(r, secret)
			if err != nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), contextKey{}, actor)))
		})
	}
}

// RequirePartner gates partner-only routes (decisions, investment lifecycle).
func RequirePartner(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := FromContext(r.Context())
		if !ok || actor.Role != RolePartner {
			http.Error(w, "partner role required", http.StatusForbidden)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func actorFromRequest(r *http.Request, secret string) (Actor, error) {
	header := r.Header.Get("Authorization")

	raw, found := strings.CutPrefix(header, "Bearer ")
	if !found {
		return Actor{}, fmt.Errorf("missing bearer token")
	}

	token, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}

		return []byte(secret), nil
	})
	if err != nil {
		return Actor{}, fmt.Errorf("parsing token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Actor{}, fmt.Errorf("unexpected claims type")
	}

	sub, err := claims.GetSubject()
	if err != nil {
		return Actor{}, fmt.Errorf("reading subject: %w", err)
	}

	id, err := uuid.Parse(sub)
	if err != nil {
		return Actor{}, fmt.Errorf("parsing subject: %w", err)
	}

	role, _ := claims["role"].(string)

	switch Role(role) {
	case RoleFounder, RolePartner:
	default:
		return Actor{}, fmt.Errorf("unknown role %q", role)
	}

	return Actor{ID: id, Role: Role(role)}, nil
}
