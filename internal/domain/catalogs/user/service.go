package user

import (
	"context"

	"procurement/internal/core/apperror"
	appctx "procurement/internal/core/context"
	"procurement/internal/domain"
	"procurement/pkg/logger"
)

// Service provides business logic for users.
type Service struct {
	*domain.EntityService[*User]
	repo  Repository
	audit domain.AuditRecorder
}

// NewService creates a new User service.
func NewService(repo Repository, audit domain.AuditRecorder) *Service {
	base := domain.NewEntityService(domain.EntityServiceConfig[*User]{
		Repo:       repo,
		NewFn:      func() *User { return &User{} },
		EntityName: "user",
		Audit:      audit,
	})
	return &Service{EntityService: base, repo: repo, audit: audit}
}

// GetByEmail returns nil when the email is unknown.
func (s *Service) GetByEmail(ctx context.Context, email string) (*User, error) {
	return s.repo.GetByEmail(ctx, NormalizeEmail(email))
}

// MakeAdmin grants the admin role.
func (s *Service) MakeAdmin(ctx context.Context, id string) error {
	return s.toggle(ctx, id, "isAdmin", true, s.repo.MakeAdmin)
}

// RevokeAdmin removes the admin role. Admins cannot revoke their own role.
func (s *Service) RevokeAdmin(ctx context.Context, id string) error {
	return s.toggle(ctx, id, "isAdmin", false, s.repo.RevokeAdmin)
}

// Block prevents the user from opening a session. Admins cannot block themselves.
func (s *Service) Block(ctx context.Context, id string) error {
	return s.toggle(ctx, id, "blocked", true, s.repo.Block)
}

// Unblock lets the user sign in again.
func (s *Service) Unblock(ctx context.Context, id string) error {
	return s.toggle(ctx, id, "blocked", false, s.repo.Unblock)
}

func (s *Service) toggle(
	ctx context.Context,
	id, field string,
	value bool,
	apply func(ctx context.Context, id string) error,
) error {
	session := appctx.GetUser(ctx)
	if session == nil || !session.IsAdmin {
		return apperror.NewForbidden("only administrators can change user roles")
	}

	// Removing your own access would lock the last admin out.
	selfLockout := (field == "isAdmin" && !value) || (field == "blocked" && value)
	if selfLockout && session.UserID == id {
		return apperror.NewForbidden("administrators cannot remove their own access").
			WithDetail("field", field)
	}

	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}

	if err := apply(ctx, id); err != nil {
		return err
	}

	logger.Info(ctx, "user flag changed", "user_id", id, "field", field, "value", value)
	if s.audit != nil {
		s.audit.Record(ctx, s.EntityName(), id, domain.AuditUpdate, map[string]any{field: value})
	}
	return nil
}
