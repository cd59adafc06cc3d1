package services

import (
	"errors"
	"strconv"
	"strings"

	"github.com/bizlink-dev/bizlink/db"
	"github.com/bizlink-dev/bizlink/internal/apperrors"
	"github.com/bizlink-dev/bizlink/internal/models"
	"gorm.io/gorm"
)

func findProfile(profileID uint) (*models.BusinessProfile, error) {
	var profile models.BusinessProfile

	if err := db.DB.First(&profile, profileID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBusinessProfileNotFound
		}
		return nil, err
	}

	return &profile, nil
}

// findOwnedProfile resolves the profile and checks the caller's ownership.
// Ownership is always read fresh, never taken from the request.
func findOwnedProfile(profileID, callerID uint) (*models.BusinessProfile, error) {
	profile, err := findProfile(profileID)

	if err != nil {
		return nil, err
	}

	if profile.OwnerID != callerID {
		return nil, apperrors.ErrNotProfileOwner
	}

	return profile, nil
}

// resolveInvitee accepts a numeric user id or an email address.
func resolveInvitee(identifier string) (*models.User, error) {
	identifier = strings.TrimSpace(identifier)

	var user models.User
	var err error

	if strings.Contains(identifier, "@") {
		err = db.DB.Where("email = ?", strings.ToLower(identifier)).First(&user).Error
	} else {
		id, parseErr := strconv.ParseUint(identifier, 10, 32)
		if parseErr != nil {
			return nil, apperrors.ErrUserNotFound
		}
		err = db.DB.First(&user, uint(id)).Error
	}

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}

	return &user, nil
}

func isMember(profileID, userID uint) (bool, error) {
	var count int64

	err := db.DB.Model(&models.Membership{}).
		Where("business_profile_id = ? AND user_id = ?", profileID, userID).
		Count(&count).Error

	return count > 0, err
}
