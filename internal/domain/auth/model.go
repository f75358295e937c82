// Package auth turns an identity-provider principal into an application session.
package auth

import (
	"context"

	appctx "procurement/internal/core/context"
	"procurement/internal/domain/catalogs/user"
)

// Principal is what the identity provider vouches for.
type Principal struct {
	UID   string
	Email string
}

// TokenVerifier checks a bearer token issued by the identity provider.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (Principal, error)
}

// Session is a signed-in principal joined with its application user.
type Session struct {
	Principal
	User *user.User
}

// IsAdmin reports whether the session may see every purchase request.
func (s *Session) IsAdmin() bool {
	return s != nil && s.User != nil && s.User.IsAdmin
}

// UserContext converts the session to the request-scoped value loggers read.
func (s *Session) UserContext() *appctx.UserContext {
	uc := &appctx.UserContext{
		UID:   s.UID,
		Email: s.Email,
	}
	if s.User != nil {
		uc.UserID = s.User.ID
		uc.IsAdmin = s.User.IsAdmin
		uc.Blocked = s.User.Blocked
	}
	return uc
}
