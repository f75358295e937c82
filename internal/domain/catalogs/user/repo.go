package user

import (
	"context"

	"procurement/internal/domain"
)

// Collection is the document collection holding users.
const Collection = "users"

// Repository defines the interface for User persistence.
type Repository interface {
	domain.Repository[*User]

	// GetByEmail returns nil when no user has the email and a duplicate
	// AppError when more than one does.
	GetByEmail(ctx context.Context, email string) (*User, error)

	// GetByEmails fetches the users of several emails in one query.
	GetByEmails(ctx context.Context, emails []string) ([]*User, error)

	// Each of these updates exactly one boolean field.
	MakeAdmin(ctx context.Context, id string) error
	RevokeAdmin(ctx context.Context, id string) error
	Block(ctx context.Context, id string) error
	Unblock(ctx context.Context, id string) error
}
