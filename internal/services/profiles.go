package services

import (
	"time"

	"github.com/bizlink-dev/bizlink/db"
	"github.com/bizlink-dev/bizlink/internal/apperrors"
	"github.com/bizlink-dev/bizlink/internal/models"
	"gorm.io/gorm"
)

type LifecycleSummary struct {
	ProfileID uint      `json:"profile_id"`
	IsActive  bool      `json:"is_active"`
	ChangedAt time.Time `json:"changed_at"`
}

// DeactivateProfile hides a business page. Deactivating an already-inactive
// profile is an idempotent write.
func DeactivateProfile(profileID, callerID uint) (*LifecycleSummary, error) {
	if _, err := findOwnedProfile(profileID, callerID); err != nil {
		return nil, err
	}

	now := time.Now()

	err := db.DB.Model(&models.BusinessProfile{}).
		Where("id = ?", profileID).
		Updates(map[string]interface{}{"is_active": false, "updated_at": now}).Error

	if err != nil {
		return nil, err
	}

	return &LifecycleSummary{ProfileID: profileID, IsActive: false, ChangedAt: now}, nil
}

// ReactivateProfile requires the profile to currently be inactive.
func ReactivateProfile(profileID, callerID uint) (*LifecycleSummary, error) {
	profile, err := findOwnedProfile(profileID, callerID)

	if err != nil {
		return nil, err
	}

	if profile.IsActive {
		return nil, apperrors.ErrProfileAlreadyActive
	}

	now := time.Now()

	res := db.DB.Model(&models.BusinessProfile{}).
		Where("id = ? AND is_active = ?", profileID, false).
		Updates(map[string]interface{}{"is_active": true, "updated_at": now})

	if res.Error != nil {
		return nil, res.Error
	}

	// Lost a race with another reactivation.
	if res.RowsAffected == 0 {
		return nil, apperrors.ErrProfileAlreadyActive
	}

	return &LifecycleSummary{ProfileID: profileID, IsActive: true, ChangedAt: now}, nil
}

// DeleteProfile removes the page and everything hanging off it in one
// transaction: memberships first, open invitations, then the profile row, so
// no orphaned grant can survive a partial failure.
func DeleteProfile(profileID, callerID uint) error {
	if _, err := findOwnedProfile(profileID, callerID); err != nil {
		return err
	}

	return db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("business_profile_id = ?", profileID).Delete(&models.Membership{}).Error; err != nil {
			return err
		}

		if err := tx.Where("business_profile_id = ?", profileID).Delete(&models.Invitation{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.BusinessProfile{}, profileID).Error
	})
}
