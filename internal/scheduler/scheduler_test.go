package scheduler

import (
	"testing"
	"time"

	"github.com/bizlink-dev/bizlink/db"
	"github.com/bizlink-dev/bizlink/internal/models"
	"github.com/bizlink-dev/bizlink/internal/types"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestSweepPurgesAgedCancelledInvitations(t *testing.T) {
	gdb, err := gorm.Open(sqlite.Open("file:sweeper?mode=memory&cache=shared"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	db.DB = gdb
	require.NoError(t, db.MigrateDatabase())

	owner := models.User{Name: "Olivia", Email: "olivia@acme.test", PasswordHash: "irrelevant"}
	require.NoError(t, gdb.Create(&owner).Error)
	invitee := models.User{Name: "Ethan", Email: "ethan@acme.test", PasswordHash: "irrelevant"}
	require.NoError(t, gdb.Create(&invitee).Error)
	profile := models.BusinessProfile{Name: "Acme Inc", OwnerID: owner.ID, IsActive: true}
	require.NoError(t, gdb.Create(&profile).Error)

	makeCancelled := func(deletedAt time.Time) uint {
		inv := models.Invitation{
			BusinessProfileID: profile.ID,
			InviteeID:         invitee.ID,
			InviterID:         owner.ID,
			Role:              types.RoleEditor,
			Status:            types.InvitationCancelled,
		}
		inv.DeletedAt = gorm.DeletedAt{Time: deletedAt, Valid: true}
		require.NoError(t, gdb.Create(&inv).Error)
		return inv.ID
	}

	aged := makeCancelled(time.Now().Add(-48 * time.Hour))
	recent := makeCancelled(time.Now().Add(-time.Hour))

	sweeper := NewSweeper(time.Hour, 24*time.Hour)
	sweeper.sweep()

	var count int64
	require.NoError(t, gdb.Unscoped().Model(&models.Invitation{}).Where("id = ?", aged).Count(&count).Error)
	require.Zero(t, count, "aged cancelled invitation should be purged")

	require.NoError(t, gdb.Unscoped().Model(&models.Invitation{}).Where("id = ?", recent).Count(&count).Error)
	require.EqualValues(t, 1, count, "invitation inside the retention window must survive")
}
