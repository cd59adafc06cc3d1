package services

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/bizlink-dev/bizlink/db"
	"github.com/bizlink-dev/bizlink/internal/models"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB points the global connection at a fresh in-memory database.
// A single open connection keeps sqlite's write locking out of the picture
// while still letting the accept race run through the real transaction path.
func setupTestDB(t *testing.T) {
	t.Helper()

	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_pragma=busy_timeout(10000)", name)

	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	db.DB = gdb
	require.NoError(t, db.MigrateDatabase())

	t.Cleanup(func() {
		sqlDB.Close()
	})
}

func createUser(t *testing.T, name, email string) models.User {
	t.Helper()

	user := models.User{Name: name, Email: email, PasswordHash: "irrelevant"}
	require.NoError(t, db.DB.Create(&user).Error)
	return user
}

func createProfile(t *testing.T, owner models.User, name string) models.BusinessProfile {
	t.Helper()

	profile := models.BusinessProfile{Name: name, OwnerID: owner.ID, IsActive: true}
	require.NoError(t, db.DB.Create(&profile).Error)
	return profile
}

func addMember(t *testing.T, profile models.BusinessProfile, user models.User, role string, joinedAt time.Time) models.Membership {
	t.Helper()

	membership := models.Membership{
		BusinessProfileID: profile.ID,
		UserID:            user.ID,
		Role:              role,
		CreatedAt:         joinedAt,
		UpdatedAt:         joinedAt,
	}
	require.NoError(t, db.DB.Create(&membership).Error)
	return membership
}

func membershipCount(t *testing.T, profileID, userID uint) int64 {
	t.Helper()

	var count int64
	err := db.DB.Model(&models.Membership{}).
		Where("business_profile_id = ? AND user_id = ?", profileID, userID).
		Count(&count).Error
	require.NoError(t, err)
	return count
}
