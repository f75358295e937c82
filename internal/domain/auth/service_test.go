package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"procurement/internal/core/apperror"
	appctx "procurement/internal/core/context"
	"procurement/internal/domain/auth"
	"procurement/internal/domain/catalogs/user"
	"procurement/internal/infrastructure/storage/document_repo"
	"procurement/internal/infrastructure/storage/memory"
)

func TestResolve_ProvisionsMissingUser(t *testing.T) {
	ctx := context.Background()
	users := document_repo.NewUserRepo(memory.New())
	r := auth.NewSessionResolver(users, nil)

	ctx, session, err := r.Resolve(ctx, auth.Principal{UID: "uid-1", Email: " Ana@X.com"})
	require.NoError(t, err)

	require.NotNil(t, session.User)
	assert.NotEmpty(t, session.User.ID)
	assert.Equal(t, "ana@x.com", session.User.Email)
	assert.False(t, session.IsAdmin())

	stored, err := users.GetByEmail(ctx, "ana@x.com")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.False(t, stored.IsAdmin)
	assert.False(t, stored.Blocked)

	uc := appctx.GetUser(ctx)
	require.NotNil(t, uc)
	assert.Equal(t, stored.ID, uc.UserID)
	assert.Equal(t, "uid-1", uc.UID)

	// A second sign-in reuses the record.
	_, again, err := r.Resolve(context.Background(), auth.Principal{UID: "uid-1", Email: "ana@x.com"})
	require.NoError(t, err)
	assert.Equal(t, stored.ID, again.User.ID)
}

func TestResolve_BlockedIsForbidden(t *testing.T) {
	ctx := context.Background()
	users := document_repo.NewUserRepo(memory.New())
	id, err := users.Create(ctx, &user.User{Email: "a@x.com", Blocked: true})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	_, _, err = auth.NewSessionResolver(users, nil).Resolve(ctx, auth.Principal{UID: "u", Email: "a@x.com"})

	assert.True(t, apperror.IsCode(err, apperror.CodeForbidden))
}

func TestResolve_DuplicateUsersPropagate(t *testing.T) {
	ctx := context.Background()
	users := document_repo.NewUserRepo(memory.New())
	for i := 0; i < 2; i++ {
		_, err := users.Create(ctx, user.NewUser("a@x.com"))
		require.NoError(t, err)
	}

	_, _, err := auth.NewSessionResolver(users, nil).Resolve(ctx, auth.Principal{UID: "u", Email: "a@x.com"})

	assert.True(t, apperror.IsDuplicate(err))
}

func TestResolve_AdminFlag(t *testing.T) {
	ctx := context.Background()
	users := document_repo.NewUserRepo(memory.New())
	_, err := users.Create(ctx, &user.User{Email: "boss@x.com", IsAdmin: true})
	require.NoError(t, err)

	ctx, session, err := auth.NewSessionResolver(users, nil).Resolve(ctx, auth.Principal{UID: "u", Email: "boss@x.com"})
	require.NoError(t, err)

	assert.True(t, session.IsAdmin())
	assert.True(t, appctx.IsAdmin(ctx))
}

func TestResolve_NoEmailIsUnauthorized(t *testing.T) {
	users := document_repo.NewUserRepo(memory.New())

	_, _, err := auth.NewSessionResolver(users, nil).Resolve(context.Background(), auth.Principal{UID: "u"})

	assert.True(t, apperror.IsCode(err, apperror.CodeUnauthorized))
}
