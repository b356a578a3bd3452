package services

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wardshift/backend/internal/models"
	"gorm.io/gorm"
)

func setupRosterTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed opening in-memory sqlite database")

	err = db.AutoMigrate(
		&models.User{},
		&models.Group{},
		&models.GroupMembership{},
	)
	require.NoError(t, err, "failed automigrating models")

	return db
}

func createRosterUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	user := &models.User{
		Email:        email,
		PasswordHash: "hash",
		Name:         "Roster User",
		Role:         models.UserRoleNurse,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createRosterGroup(t *testing.T, db *gorm.DB, code string, members ...*models.User) *models.Group {
	t.Helper()
	group := &models.Group{Name: "Ward", InviteCode: code}
	require.NoError(t, db.Create(group).Error)
	for _, member := range members {
		membership := &models.GroupMembership{
			UserID:  member.ID,
			GroupID: group.ID,
			Role:    models.GroupRoleMember,
		}
		require.NoError(t, db.Create(membership).Error)
	}
	return group
}

func TestRosterService_Membership(t *testing.T) {
	db := setupRosterTestDB(t)
	service := NewRosterService(db)

	member := createRosterUser(t, db, "member@test.com")
	outsider := createRosterUser(t, db, "outsider@test.com")
	group := createRosterGroup(t, db, "CODE0001", member)

	membership, err := service.Membership(group.ID, member.ID)
	require.NoError(t, err)
	assert.Equal(t, models.GroupRoleMember, membership.Role)

	_, err = service.Membership(group.ID, outsider.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	ok, err := service.IsMember(group.ID, member.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = service.IsMember(group.ID, outsider.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRosterService_SharesGroupWith(t *testing.T) {
	db := setupRosterTestDB(t)
	service := NewRosterService(db)

	alice := createRosterUser(t, db, "alice@test.com")
	bob := createRosterUser(t, db, "bob@test.com")
	carol := createRosterUser(t, db, "carol@test.com")
	loner := createRosterUser(t, db, "loner@test.com")

	createRosterGroup(t, db, "CODE0002", alice, bob)
	createRosterGroup(t, db, "CODE0003", alice, carol)

	t.Run("all members shared across groups", func(t *testing.T) {
		shared, err := service.SharesGroupWith(alice.ID, []uuid.UUID{bob.ID, carol.ID})
		require.NoError(t, err)
		assert.True(t, shared)
	})

	t.Run("caller always shares with self", func(t *testing.T) {
		shared, err := service.SharesGroupWith(loner.ID, []uuid.UUID{loner.ID})
		require.NoError(t, err)
		assert.True(t, shared)
	})

	t.Run("one unshared member fails the whole list", func(t *testing.T) {
		shared, err := service.SharesGroupWith(alice.ID, []uuid.UUID{bob.ID, loner.ID})
		require.NoError(t, err)
		assert.False(t, shared)
	})

	t.Run("caller without groups shares with nobody else", func(t *testing.T) {
		shared, err := service.SharesGroupWith(loner.ID, []uuid.UUID{alice.ID})
		require.NoError(t, err)
		assert.False(t, shared)
	})

	t.Run("members must share with the caller, not each other", func(t *testing.T) {
		shared, err := service.SharesGroupWith(bob.ID, []uuid.UUID{carol.ID})
		require.NoError(t, err)
		assert.False(t, shared)
	})
}
