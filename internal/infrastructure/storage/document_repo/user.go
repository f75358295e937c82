package document_repo

import (
	"context"

	"procurement/internal/core/docstore"
	"procurement/internal/domain/catalogs/user"
)

var _ user.Repository = (*UserRepo)(nil)

// UserRepo stores users.
type UserRepo struct {
	*BaseDocumentRepo[*user.User]
}

// NewUserRepo creates a new user repository.
func NewUserRepo(store docstore.Store) *UserRepo {
	return &UserRepo{
		BaseDocumentRepo: NewBaseDocumentRepo(store, user.Collection, func() *user.User {
			return &user.User{}
		}),
	}
}

// GetByEmail is GetUniqueByField on email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	return r.GetUniqueByField(ctx, user.EmailField, email)
}

// GetByEmails fetches the users of several emails in one query.
func (r *UserRepo) GetByEmails(ctx context.Context, emails []string) ([]*user.User, error) {
	keys := uniqueNonEmpty(emails)
	values := make([]any, len(keys))
	for i, e := range keys {
		values[i] = e
	}
	return r.GetByFieldIn(ctx, user.EmailField, values)
}

func (r *UserRepo) MakeAdmin(ctx context.Context, id string) error {
	return r.Update(ctx, id, map[string]any{"isAdmin": true})
}

func (r *UserRepo) RevokeAdmin(ctx context.Context, id string) error {
	return r.Update(ctx, id, map[string]any{"isAdmin": false})
}

func (r *UserRepo) Block(ctx context.Context, id string) error {
	return r.Update(ctx, id, map[string]any{"blocked": true})
}

func (r *UserRepo) Unblock(ctx context.Context, id string) error {
	return r.Update(ctx, id, map[string]any{"blocked": false})
}
