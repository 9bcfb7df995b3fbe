package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"order-desk/models"
)

func TestEnsureAdmin(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	created, err := EnsureAdmin(ctx, db, " Admin@Example.com ", "change-me-now", "Admin")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = EnsureAdmin(ctx, db, "admin@example.com", "another-pass", "Admin")
	require.NoError(t, err)
	assert.False(t, created)

	var admin models.User
	require.NoError(t, db.Where("email = ?", "admin@example.com").First(&admin).Error)
	assert.Equal(t, models.RoleAdmin, admin.Role)
	assert.True(t, admin.IsActive)
	assert.NoError(t, admin.CheckPassword("change-me-now"))

	created, err = EnsureAdmin(ctx, db, "", "", "")
	require.NoError(t, err)
	assert.False(t, created)
}
