package auth

import (
	"context"
	"fmt"

	"procurement/internal/core/apperror"
	appctx "procurement/internal/core/context"
	"procurement/internal/domain/catalogs/user"
	"procurement/pkg/logger"
)

// UserStore is the part of the user repository sessions need.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (*user.User, error)
	Create(ctx context.Context, u *user.User) (string, error)
}

// SessionResolver provisions and checks application users for signed-in principals.
type SessionResolver struct {
	users    UserStore
	verifier TokenVerifier
}

// NewSessionResolver creates a SessionResolver. verifier may be nil when only
// Resolve is used.
func NewSessionResolver(users UserStore, verifier TokenVerifier) *SessionResolver {
	return &SessionResolver{users: users, verifier: verifier}
}

// Resolve loads the user of p, creating a non-admin record on first sign-in.
// Blocked users are refused. The returned context carries the session user.
func (r *SessionResolver) Resolve(ctx context.Context, p Principal) (context.Context, *Session, error) {
	email := user.NormalizeEmail(p.Email)
	if email == "" {
		return ctx, nil, apperror.NewUnauthorized("identity has no email")
	}
	p.Email = email

	u, err := r.users.GetByEmail(ctx, email)
	if err != nil {
		return ctx, nil, err
	}

	if u == nil {
		u = user.NewUser(email)
		if _, err := r.users.Create(ctx, u); err != nil {
			return ctx, nil, fmt.Errorf("provision user: %w", err)
		}
		logger.Info(ctx, "user provisioned", "user_id", u.ID, "email", email)
	}

	if u.Blocked {
		logger.Warn(ctx, "blocked user refused", "user_id", u.ID, "email", email)
		return ctx, nil, apperror.NewForbidden("user is blocked").WithDetail("email", email)
	}

	session := &Session{Principal: p, User: u}
	return appctx.WithUser(ctx, session.UserContext()), session, nil
}

// Authenticate verifies token and resolves the session of its principal.
func (r *SessionResolver) Authenticate(ctx context.Context, token string) (context.Context, *Session, error) {
	if r.verifier == nil {
		return ctx, nil, apperror.NewInternal(fmt.Errorf("no token verifier configured"))
	}
	p, err := r.verifier.Verify(ctx, token)
	if err != nil {
		return ctx, nil, err
	}
	return r.Resolve(ctx, p)
}
