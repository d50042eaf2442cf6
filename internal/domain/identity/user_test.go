package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	t.Run("creates user with hashed password", func(t *testing.T) {
		user, err := NewUser("admin", "secret123", "Store Admin", RoleAdmin)
		require.NoError(t, err)

		assert.Equal(t, "admin", user.Username)
		assert.NotEqual(t, "secret123", user.PasswordHash)
		assert.True(t, user.CheckPassword("secret123"))
		assert.False(t, user.CheckPassword("wrong"))
		assert.True(t, user.Active)
	})

	t.Run("rejects short password", func(t *testing.T) {
		_, err := NewUser("admin", "abc", "", RoleAdmin)
		require.Error(t, err)
	})

	t.Run("rejects unknown role", func(t *testing.T) {
		_, err := NewUser("admin", "secret123", "", Role("owner"))
		require.Error(t, err)
	})
}

func TestRolePermissions(t *testing.T) {
	assert.True(t, RoleAdmin.CanManageInvoices())
	assert.True(t, RoleManager.CanManageInvoices())
	assert.False(t, RoleCashier.CanManageInvoices())
}

func TestChangePassword(t *testing.T) {
	user, err := NewUser("cashier1", "secret123", "", RoleCashier)
	require.NoError(t, err)

	require.NoError(t, user.ChangePassword("newsecret"))
	assert.True(t, user.CheckPassword("newsecret"))
	assert.False(t, user.CheckPassword("secret123"))
}
