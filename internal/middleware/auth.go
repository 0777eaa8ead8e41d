package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/nexaboard/nexaboard-go/internal/crypto"
	"github.com/nexaboard/nexaboard-go/internal/model"
	"github.com/nexaboard/nexaboard-go/internal/service"
)

type contextKey string

const (
	principalKey      contextKey = "principal"
	principalErrorKey contextKey = "principal_error"
)

// TokenValidator returns the subject of a valid token.
type TokenValidator interface {
	Validate(token string) (string, error)
}

// UserLookup resolves a token subject to a user.
type UserLookup interface {
	UserByEmail(ctx context.Context, email string) (*model.User, error)
}

// Authenticate installs the user named by the session cookie as the request
// principal. It never rejects: missing cookies, invalid tokens and unknown
// users all leave the request anonymous, and Require decides what that means
// for the route. A failed store lookup also leaves the request anonymous but
// records the error with WithPrincipalError, so protected routes report a
// server fault instead of 401.
func Authenticate(tokens TokenValidator, users UserLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(crypto.CookieName)
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(w, r)
				return
			}

			subject, err := tokens.Validate(cookie.Value)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			user, err := users.UserByEmail(r.Context(), subject)
			if errors.Is(err, service.ErrUserNotFound) {
				next.ServeHTTP(w, r)
				return
			}
			if err != nil {
				slog.ErrorContext(r.Context(), "principal lookup failed", "error", err)
				next.ServeHTTP(w, r.WithContext(WithPrincipalError(r.Context(), err)))
				return
			}

			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), user)))
		})
	}
}

// WithPrincipal returns a copy of ctx carrying the authenticated user.
func WithPrincipal(ctx context.Context, user *model.User) context.Context {
	return context.WithValue(ctx, principalKey, user)
}

// PrincipalFromContext extracts the authenticated user from the request context.
func PrincipalFromContext(ctx context.Context) (*model.User, bool) {
	user, ok := ctx.Value(principalKey).(*model.User)
	return user, ok && user != nil
}

// WithPrincipalError records that the principal could not be loaded.
func WithPrincipalError(ctx context.Context, err error) context.Context {
	return context.WithValue(ctx, principalErrorKey, err)
}

// PrincipalErrorFromContext returns the lookup failure recorded by
// Authenticate, or nil.
func PrincipalErrorFromContext(ctx context.Context) error {
	err, _ := ctx.Value(principalErrorKey).(error)
	return err
}
