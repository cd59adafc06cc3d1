package db

import (
	"github.com/bizlink-dev/bizlink/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func ConnectDatabase(dsn string) error {
	var err error

	// TranslateError turns driver-level unique violations into
	// gorm.ErrDuplicatedKey, which the services map to conflict errors.
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})

	if err != nil {
		return err
	}

	return nil
}

func MigrateDatabase() error {
	tables := []interface{}{
		&models.User{},
		&models.BusinessProfile{},
		&models.Membership{},
		&models.Invitation{},
	}

	for _, table := range tables {
		if err := DB.AutoMigrate(table); err != nil {
			return err
		}
	}

	// At most one pending invitation per (profile, invitee). Partial so
	// terminal and soft-deleted rows never block a re-invite.
	return DB.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_invitations_pending
		ON invitations (business_profile_id, invitee_id)
		WHERE status = 'pending' AND deleted_at IS NULL`).Error
}
