package service

import (
	"context"
	"testing"

	"github.com/contenthub/contenthub/internal/infra/db/dbtest"
	"github.com/contenthub/contenthub/internal/modules/model"
	"github.com/contenthub/contenthub/internal/modules/repo"
	"github.com/contenthub/contenthub/internal/pkg/apperr"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService(t *testing.T) {
	ctx := context.Background()
	svc := NewUserService(repo.NewUserRepo(dbtest.New(t)))

	admin, err := svc.EnsureAdmin(ctx, " Root@Example.com ", "Root")
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, admin.Role)
	assert.Equal(t, "root@example.com", admin.Email)

	again, err := svc.EnsureAdmin(ctx, "root@example.com", "Someone else")
	require.NoError(t, err)
	assert.Equal(t, admin.ID, again.ID)
	assert.Equal(t, "Root", again.Name)

	got, err := svc.Resolve(ctx, admin.ID)
	require.NoError(t, err)
	assert.Equal(t, admin.Email, got.Email)

	_, err = svc.Resolve(ctx, uuid.New())
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	me, err := svc.Me(ctx, got)
	require.NoError(t, err)
	assert.True(t, me.Capabilities.CanReview)
	assert.True(t, me.Capabilities.CanUpload)

	_, err = svc.Me(ctx, nil)
	assert.ErrorIs(t, err, apperr.ErrUnauthenticated)
}
