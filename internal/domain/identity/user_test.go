package identity

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	t.Run("creates user with valid username and password", func(t *testing.T) {
		user, err := NewUser("testuser", "Password123")

		require.NoError(t, err)
		assert.NotNil(t, user)
		assert.Equal(t, "testuser", user.Username)
		assert.NotEmpty(t, user.PasswordHash)
		assert.Equal(t, UserStatusPending, user.Status)
		assert.Empty(t, user.RoleIDs)
		assert.Nil(t, user.ZoneID)
		assert.Nil(t, user.GroupID)
		assert.NotNil(t, user.PasswordChangedAt)

		// Should have domain event
		events := user.GetDomainEvents()
		assert.Len(t, events, 1)
		_, ok := events[0].(*UserCreatedEvent)
		assert.True(t, ok)
	})

	t.Run("normalizes username to lowercase", func(t *testing.T) {
		user, err := NewUser("TestUser", "Password123")

		require.NoError(t, err)
		assert.Equal(t, "testuser", user.Username)
	})

	t.Run("trims username whitespace", func(t *testing.T) {
		user, err := NewUser("  testuser  ", "Password123")

		require.NoError(t, err)
		assert.Equal(t, "testuser", user.Username)
	})

	t.Run("fails with empty username", func(t *testing.T) {
		_, err := NewUser("", "Password123")

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "cannot be empty")
	})

	t.Run("fails with short username", func(t *testing.T) {
		_, err := NewUser("ab", "Password123")

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "at least 3 characters")
	})

	t.Run("fails with invalid username characters", func(t *testing.T) {
		_, err := NewUser("test@user", "Password123")

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "only contain letters")
	})

	t.Run("fails with empty password", func(t *testing.T) {
		_, err := NewUser("testuser", "")

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "cannot be empty")
	})

	t.Run("fails with short password", func(t *testing.T) {
		_, err := NewUser("testuser", "Pass1")

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "at least 8 characters")
	})

	t.Run("fails with password without letters", func(t *testing.T) {
		_, err := NewUser("testuser", "12345678")

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "at least one letter")
	})

	t.Run("fails with password without numbers", func(t *testing.T) {
		_, err := NewUser("testuser", "Password")

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "at least one letter and one number")
	})
}

func TestNewActiveUser(t *testing.T) {
	t.Run("creates active user", func(t *testing.T) {
		user, err := NewActiveUser("testuser", "Password123")

		require.NoError(t, err)
		assert.Equal(t, UserStatusActive, user.Status)
	})
}

func TestUser_VerifyPassword(t *testing.T) {
	user, _ := NewUser("testuser", "Password123")

	assert.True(t, user.VerifyPassword("Password123"))
	assert.False(t, user.VerifyPassword("WrongPassword1"))
	assert.False(t, user.VerifyPassword(""))
}

func TestUser_SetEmail(t *testing.T) {
	user, _ := NewUser("testuser", "Password123")
	user.ClearDomainEvents()

	t.Run("sets valid email", func(t *testing.T) {
		err := user.SetEmail("test@example.com")

		require.NoError(t, err)
		assert.Equal(t, "test@example.com", user.Email)
	})

	t.Run("normalizes email to lowercase", func(t *testing.T) {
		err := user.SetEmail("Test@Example.COM")

		require.NoError(t, err)
		assert.Equal(t, "test@example.com", user.Email)
	})

	t.Run("allows clearing email", func(t *testing.T) {
		err := user.SetEmail("")

		require.NoError(t, err)
		assert.Empty(t, user.Email)
	})

	t.Run("fails with invalid email", func(t *testing.T) {
		err := user.SetEmail("not-an-email")

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "Invalid email format")
	})
}

func TestUser_AssignToZone(t *testing.T) {
	user, _ := NewActiveUser("testuser", "Password123")

	t.Run("assigns zone", func(t *testing.T) {
		zoneID := uuid.New()
		err := user.AssignToZone(&zoneID)

		require.NoError(t, err)
		require.NotNil(t, user.ZoneID)
		assert.Equal(t, zoneID, *user.ZoneID)
	})

	t.Run("clears zone with nil", func(t *testing.T) {
		err := user.AssignToZone(nil)

		require.NoError(t, err)
		assert.Nil(t, user.ZoneID)
	})

	t.Run("rejects nil uuid", func(t *testing.T) {
		nilID := uuid.Nil
		err := user.AssignToZone(&nilID)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "Zone ID cannot be empty")
	})
}

func TestUser_AssignToGroup(t *testing.T) {
	user, _ := NewActiveUser("testuser", "Password123")

	t.Run("assigns group", func(t *testing.T) {
		groupID := uuid.New()
		err := user.AssignToGroup(&groupID)

		require.NoError(t, err)
		require.NotNil(t, user.GroupID)
		assert.Equal(t, groupID, *user.GroupID)
	})

	t.Run("rejects nil uuid", func(t *testing.T) {
		nilID := uuid.Nil
		err := user.AssignToGroup(&nilID)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "Group ID cannot be empty")
	})
}

func TestUser_ChangePassword(t *testing.T) {
	user, _ := NewUser("testuser", "Password123")
	user.ClearDomainEvents()

	t.Run("changes password with correct old password", func(t *testing.T) {
		err := user.ChangePassword("Password123", "NewPassword456")

		require.NoError(t, err)
		assert.True(t, user.VerifyPassword("NewPassword456"))
		assert.False(t, user.VerifyPassword("Password123"))

		events := user.GetDomainEvents()
		require.Len(t, events, 1)
		_, ok := events[0].(*UserPasswordChangedEvent)
		assert.True(t, ok)
	})

	t.Run("fails with wrong old password", func(t *testing.T) {
		err := user.ChangePassword("WrongPassword1", "AnotherPass789")

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "Current password is incorrect")
	})

	t.Run("fails with invalid new password", func(t *testing.T) {
		err := user.ChangePassword("NewPassword456", "short")

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "at least 8 characters")
	})
}

func TestUser_RoleManagement(t *testing.T) {
	user, _ := NewActiveUser("testuser", "Password123")
	user.ClearDomainEvents()

	roleID1 := uuid.New()
	roleID2 := uuid.New()

	t.Run("assigns role", func(t *testing.T) {
		err := user.AssignRole(roleID1)

		require.NoError(t, err)
		assert.True(t, user.HasRole(roleID1))

		events := user.GetDomainEvents()
		require.Len(t, events, 1)
		assigned, ok := events[0].(*UserRoleAssignedEvent)
		require.True(t, ok)
		assert.Equal(t, roleID1, assigned.RoleID)
	})

	t.Run("rejects duplicate role", func(t *testing.T) {
		err := user.AssignRole(roleID1)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "already has this role")
	})

	t.Run("rejects nil role id", func(t *testing.T) {
		err := user.AssignRole(uuid.Nil)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "cannot be empty")
	})

	t.Run("removes role", func(t *testing.T) {
		user.ClearDomainEvents()
		err := user.RemoveRole(roleID1)

		require.NoError(t, err)
		assert.False(t, user.HasRole(roleID1))
	})

	t.Run("fails removing unassigned role", func(t *testing.T) {
		err := user.RemoveRole(roleID2)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "does not have this role")
	})

	t.Run("sets roles with deduplication", func(t *testing.T) {
		err := user.SetRoles([]uuid.UUID{roleID1, roleID2, roleID1})

		require.NoError(t, err)
		assert.Len(t, user.RoleIDs, 2)
		assert.True(t, user.HasRole(roleID1))
		assert.True(t, user.HasRole(roleID2))
	})
}

func TestUser_StatusTransitions(t *testing.T) {
	t.Run("activate pending user", func(t *testing.T) {
		user, _ := NewUser("testuser", "Password123")
		user.ClearDomainEvents()

		err := user.Activate()
		require.NoError(t, err)
		assert.Equal(t, UserStatusActive, user.Status)
		assert.True(t, user.IsActive())

		// Already active
		err = user.Activate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "already active")
	})

	t.Run("deactivate user", func(t *testing.T) {
		user, _ := NewActiveUser("testuser", "Password123")
		user.ClearDomainEvents()

		err := user.Deactivate()
		require.NoError(t, err)
		assert.True(t, user.IsDeactivated())
		assert.False(t, user.CanLogin())

		// Already deactivated
		err = user.Deactivate()
		assert.Error(t, err)
	})

	t.Run("lock and unlock", func(t *testing.T) {
		user, _ := NewActiveUser("testuser", "Password123")

		err := user.Lock(30 * time.Minute)
		require.NoError(t, err)
		assert.True(t, user.IsLocked())
		assert.False(t, user.CanLogin())
		require.NotNil(t, user.LockedUntil)

		err = user.Unlock()
		require.NoError(t, err)
		assert.True(t, user.IsActive())
		assert.Zero(t, user.FailedAttempts)
		assert.Nil(t, user.LockedUntil)
	})

	t.Run("cannot lock deactivated user", func(t *testing.T) {
		user, _ := NewActiveUser("testuser", "Password123")
		require.NoError(t, user.Deactivate())

		err := user.Lock(time.Minute)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "deactivated")
	})

	t.Run("expired lock allows login", func(t *testing.T) {
		user, _ := NewActiveUser("testuser", "Password123")
		require.NoError(t, user.Lock(-time.Minute))

		assert.False(t, user.IsLocked())
		assert.True(t, user.CanLogin())
	})

	t.Run("pending user cannot login", func(t *testing.T) {
		user, _ := NewUser("testuser", "Password123")
		assert.False(t, user.CanLogin())
	})
}

func TestUser_LoginTracking(t *testing.T) {
	t.Run("records successful login", func(t *testing.T) {
		user, _ := NewActiveUser("testuser", "Password123")
		user.FailedAttempts = 2

		user.RecordLoginSuccess("192.168.1.10")

		assert.NotNil(t, user.LastLoginAt)
		assert.Equal(t, "192.168.1.10", user.LastLoginIP)
		assert.Zero(t, user.FailedAttempts)
	})

	t.Run("locks after max failed attempts", func(t *testing.T) {
		user, _ := NewActiveUser("testuser", "Password123")

		locked := user.RecordLoginFailure(3, 30*time.Minute)
		assert.False(t, locked)
		assert.Equal(t, 1, user.FailedAttempts)

		locked = user.RecordLoginFailure(3, 30*time.Minute)
		assert.False(t, locked)

		locked = user.RecordLoginFailure(3, 30*time.Minute)
		assert.True(t, locked)
		assert.True(t, user.IsLocked())
	})
}

func TestUser_GetDisplayNameOrUsername(t *testing.T) {
	user, _ := NewUser("testuser", "Password123")

	assert.Equal(t, "testuser", user.GetDisplayNameOrUsername())

	require.NoError(t, user.SetDisplayName("Test User"))
	assert.Equal(t, "Test User", user.GetDisplayNameOrUsername())
}
