package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/orgstruct/backend/internal/domain/identity"
	"github.com/orgstruct/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupBatchTestDB creates an in-memory SQLite database with every table
// a creation batch touches
func setupBatchTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.Exec(`
		CREATE TABLE zones (
			id TEXT PRIMARY KEY,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL,
			version INTEGER NOT NULL DEFAULT 1,
			name TEXT NOT NULL UNIQUE,
			city TEXT,
			contact_email TEXT,
			contact_phone TEXT
		)
	`).Error
	require.NoError(t, err)

	err = db.Exec(`
		CREATE TABLE groups (
			id TEXT PRIMARY KEY,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL,
			version INTEGER NOT NULL DEFAULT 1,
			name TEXT NOT NULL,
			zone_id TEXT NOT NULL,
			description TEXT
		)
	`).Error
	require.NoError(t, err)

	err = db.Exec(`
		CREATE TABLE users (
			id TEXT PRIMARY KEY,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL,
			version INTEGER NOT NULL DEFAULT 1,
			username TEXT NOT NULL UNIQUE,
			email TEXT,
			phone TEXT,
			password_hash TEXT NOT NULL,
			display_name TEXT,
			status TEXT NOT NULL DEFAULT 'pending',
			zone_id TEXT,
			group_id TEXT,
			last_login_at DATETIME,
			last_login_ip TEXT,
			failed_attempts INTEGER NOT NULL DEFAULT 0,
			locked_until DATETIME,
			password_changed_at DATETIME
		)
	`).Error
	require.NoError(t, err)

	err = db.Exec(`
		CREATE TABLE user_roles (
			user_id TEXT NOT NULL,
			role_id TEXT NOT NULL,
			created_at DATETIME NOT NULL,
			PRIMARY KEY (user_id, role_id)
		)
	`).Error
	require.NoError(t, err)

	return db
}

func TestGormStructureBatchRepository_CreateZoneWithAdmins(t *testing.T) {
	db := setupBatchTestDB(t)
	repo := NewGormStructureBatchRepository(db)
	userRepo := NewGormUserRepository(db)
	zoneRepo := NewGormZoneRepository(db)
	ctx := context.Background()

	roleID := uuid.New()
	zone := newTestZone(t, "North District")

	first := newTestUser("north.admin1")
	first.ZoneID = &zone.ID
	first.RoleIDs = []uuid.UUID{roleID}
	second := newTestUser("north.admin2")
	second.ZoneID = &zone.ID
	second.RoleIDs = []uuid.UUID{roleID}

	require.NoError(t, repo.CreateZoneWithAdmins(ctx, zone, []*identity.User{first, second}))

	retrieved, err := zoneRepo.FindByID(ctx, zone.ID)
	require.NoError(t, err)
	assert.Equal(t, "North District", retrieved.Name)

	for _, username := range []string{"north.admin1", "north.admin2"} {
		admin, err := userRepo.FindByUsername(ctx, username)
		require.NoError(t, err)
		require.NotNil(t, admin.ZoneID)
		assert.Equal(t, zone.ID, *admin.ZoneID)

		require.NoError(t, userRepo.LoadUserRoles(ctx, admin))
		assert.Equal(t, []uuid.UUID{roleID}, admin.RoleIDs)
	}
}

func TestGormStructureBatchRepository_CreateZoneWithAdmins_RollsBackOnDuplicate(t *testing.T) {
	db := setupBatchTestDB(t)
	repo := NewGormStructureBatchRepository(db)
	userRepo := NewGormUserRepository(db)
	zoneRepo := NewGormZoneRepository(db)
	ctx := context.Background()

	existing := newTestUser("taken")
	require.NoError(t, userRepo.Create(ctx, existing))

	zone := newTestZone(t, "South District")
	// The fresh admin inserts before the duplicate fails, so a committed
	// batch would leave it behind.
	fresh := newTestUser("newcomer")
	fresh.ZoneID = &zone.ID
	duplicate := newTestUser("taken")
	duplicate.ZoneID = &zone.ID

	err := repo.CreateZoneWithAdmins(ctx, zone, []*identity.User{fresh, duplicate})
	require.Error(t, err)

	_, err = zoneRepo.FindByID(ctx, zone.ID)
	assert.Equal(t, shared.ErrNotFound, err)

	_, err = userRepo.FindByUsername(ctx, "newcomer")
	assert.Equal(t, shared.ErrNotFound, err)

	count, err := userRepo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestGormStructureBatchRepository_CreateGroupWithMembers(t *testing.T) {
	db := setupBatchTestDB(t)
	repo := NewGormStructureBatchRepository(db)
	userRepo := NewGormUserRepository(db)
	groupRepo := NewGormGroupRepository(db)
	ctx := context.Background()

	roleID := uuid.New()
	group := newTestGroup(t, "Maintenance Crew", uuid.New())

	member := newTestUser("crew.member")
	member.GroupID = &group.ID
	member.RoleIDs = []uuid.UUID{roleID}

	require.NoError(t, repo.CreateGroupWithMembers(ctx, group, []*identity.User{member}))

	retrieved, err := groupRepo.FindByID(ctx, group.ID)
	require.NoError(t, err)
	assert.Equal(t, "Maintenance Crew", retrieved.Name)

	saved, err := userRepo.FindByUsername(ctx, "crew.member")
	require.NoError(t, err)
	require.NotNil(t, saved.GroupID)
	assert.Equal(t, group.ID, *saved.GroupID)

	require.NoError(t, userRepo.LoadUserRoles(ctx, saved))
	assert.Equal(t, []uuid.UUID{roleID}, saved.RoleIDs)
}

func TestGormStructureBatchRepository_CreateGroupWithMembers_EmptyBatch(t *testing.T) {
	db := setupBatchTestDB(t)
	repo := NewGormStructureBatchRepository(db)
	groupRepo := NewGormGroupRepository(db)
	ctx := context.Background()

	group := newTestGroup(t, "Unstaffed Crew", uuid.New())

	require.NoError(t, repo.CreateGroupWithMembers(ctx, group, nil))

	_, err := groupRepo.FindByID(ctx, group.ID)
	require.NoError(t, err)
}

func TestGormStructureBatchRepository_CreateGroupWithMembers_RollsBackOnDuplicate(t *testing.T) {
	db := setupBatchTestDB(t)
	repo := NewGormStructureBatchRepository(db)
	userRepo := NewGormUserRepository(db)
	groupRepo := NewGormGroupRepository(db)
	ctx := context.Background()

	existing := newTestUser("busy")
	require.NoError(t, userRepo.Create(ctx, existing))

	group := newTestGroup(t, "Doomed Crew", uuid.New())
	duplicate := newTestUser("busy")
	duplicate.GroupID = &group.ID

	err := repo.CreateGroupWithMembers(ctx, group, []*identity.User{duplicate})
	require.Error(t, err)

	_, err = groupRepo.FindByID(ctx, group.ID)
	assert.Equal(t, shared.ErrNotFound, err)
}
