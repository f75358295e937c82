// Package context provides request-scoped values extraction.
package context

import (
	"context"
)

// UserContext contains the resolved session user.
type UserContext struct {
	UID     string
	UserID  string
	Email   string
	IsAdmin bool
	Blocked bool
}

type userContextKey struct{}

// WithUser adds UserContext to context.
func WithUser(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey{}, user)
}

// GetUser returns UserContext from context.
func GetUser(ctx context.Context) *UserContext {
	if v, ok := ctx.Value(userContextKey{}).(*UserContext); ok {
		return v
	}
	return nil
}

// GetUserEmail returns the session email from context or empty string.
func GetUserEmail(ctx context.Context) string {
	if u := GetUser(ctx); u != nil {
		return u.Email
	}
	return ""
}

// IsAdmin reports whether the session user is an administrator.
func IsAdmin(ctx context.Context) bool {
	u := GetUser(ctx)
	return u != nil && u.IsAdmin
}

// SystemEmail is the actor recorded for operator tools running without a session.
const SystemEmail = "system"

// WithSystemUser marks ctx as an administrative operator session.
// Used by the CLI tools, never by request handling.
func WithSystemUser(ctx context.Context) context.Context {
	return WithUser(ctx, &UserContext{UID: SystemEmail, UserID: SystemEmail, Email: SystemEmail, IsAdmin: true})
}
