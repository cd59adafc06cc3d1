package services

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/bizlink-dev/bizlink/db"
	"github.com/bizlink-dev/bizlink/internal/apperrors"
	"github.com/bizlink-dev/bizlink/internal/models"
	"github.com/bizlink-dev/bizlink/internal/types"
	"gorm.io/gorm"
)

type RoleChangeSummary struct {
	MembershipID uint   `json:"membership_id"`
	ProfileID    uint   `json:"profile_id"`
	UserID       uint   `json:"user_id"`
	PreviousRole string `json:"previous_role"`
	Role         string `json:"role"`
}

type MemberEntry struct {
	MembershipID uint      `json:"membership_id,omitempty"`
	UserID       uint      `json:"user_id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	AvatarURL    string    `json:"avatar_url,omitempty"`
	Headline     string    `json:"headline,omitempty"`
	Role         string    `json:"role"`
	JoinedAt     time.Time `json:"joined_at"`
}

type MemberPermissions struct {
	Role             string `json:"role"`
	CanInvite        bool   `json:"can_invite"`
	CanManageMembers bool   `json:"can_manage_members"`
}

type MemberList struct {
	Members     []MemberEntry     `json:"members"`
	Total       int               `json:"total"`
	Page        int               `json:"page"`
	Limit       int               `json:"limit"`
	Permissions MemberPermissions `json:"permissions"`
}

// PromoteMember raises an editor to admin. Owner-only; promoting a member who
// is not currently an editor is rejected, not a no-op.
func PromoteMember(profileID, memberUserID, callerID uint) (*RoleChangeSummary, error) {
	return changeMemberRole(profileID, memberUserID, callerID, types.RoleEditor, types.RoleAdmin)
}

// DemoteMember is the mirror: admin back to editor, owner-only.
func DemoteMember(profileID, memberUserID, callerID uint) (*RoleChangeSummary, error) {
	return changeMemberRole(profileID, memberUserID, callerID, types.RoleAdmin, types.RoleEditor)
}

func changeMemberRole(profileID, memberUserID, callerID uint, fromRole, toRole string) (*RoleChangeSummary, error) {
	if _, err := findOwnedProfile(profileID, callerID); err != nil {
		return nil, err
	}

	membership, err := findMembership(profileID, memberUserID)

	if err != nil {
		return nil, err
	}

	if membership.Role != fromRole {
		if fromRole == types.RoleEditor {
			return nil, apperrors.ErrMemberNotEditor
		}
		return nil, apperrors.ErrMemberNotAdmin
	}

	txErr := db.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Membership{}).
			Where("id = ? AND role = ?", membership.ID, fromRole).
			Update("role", toRole)

		if res.Error != nil {
			return res.Error
		}

		// The role changed under us between the read and the write.
		if res.RowsAffected == 0 {
			return fmt.Errorf("membership %d: concurrent role change", membership.ID)
		}

		return nil
	})

	if txErr != nil {
		return nil, txErr
	}

	return &RoleChangeSummary{
		MembershipID: membership.ID,
		ProfileID:    profileID,
		UserID:       memberUserID,
		PreviousRole: fromRole,
		Role:         toRole,
	}, nil
}

// RemoveMember deletes a membership row. The owner is not a row and can never
// be removed through this path.
func RemoveMember(profileID, memberUserID, callerID uint) error {
	profile, err := findOwnedProfile(profileID, callerID)

	if err != nil {
		return err
	}

	if memberUserID == profile.OwnerID {
		return apperrors.ErrCannotRemoveOwner
	}

	membership, err := findMembership(profileID, memberUserID)

	if err != nil {
		return err
	}

	return db.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&models.Membership{}, membership.ID)

		if res.Error != nil {
			return res.Error
		}

		if res.RowsAffected == 0 {
			return fmt.Errorf("membership %d: already removed", membership.ID)
		}

		return nil
	})
}

// ListMembers merges the synthesized owner entry with the stored rows. The
// owner entry is always first; stored rows sort admin before editor, then by
// join time. Pagination slices the merged list, not the storage query, so the
// owner shares one consistent ordering with everyone else.
func ListMembers(profileID, callerID uint, page, limit int) (*MemberList, error) {
	var profile models.BusinessProfile

	err := db.DB.Preload("Owner").First(&profile, profileID).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBusinessProfileNotFound
		}
		return nil, err
	}

	var memberships []models.Membership

	err = db.DB.
		Preload("User").
		Where("business_profile_id = ? AND user_id <> ?", profileID, profile.OwnerID).
		Find(&memberships).Error

	if err != nil {
		return nil, err
	}

	entries := make([]MemberEntry, 0, len(memberships))

	for _, membership := range memberships {
		entries = append(entries, MemberEntry{
			MembershipID: membership.ID,
			UserID:       membership.UserID,
			Name:         membership.User.Name,
			Email:        membership.User.Email,
			AvatarURL:    membership.User.AvatarURL,
			Headline:     membership.User.Headline,
			Role:         membership.Role,
			JoinedAt:     membership.CreatedAt,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if rolePriority(entries[i].Role) != rolePriority(entries[j].Role) {
			return rolePriority(entries[i].Role) < rolePriority(entries[j].Role)
		}
		return entries[i].JoinedAt.Before(entries[j].JoinedAt)
	})

	owner := MemberEntry{
		UserID:    profile.OwnerID,
		Name:      profile.Owner.Name,
		Email:     profile.Owner.Email,
		AvatarURL: profile.Owner.AvatarURL,
		Headline:  profile.Owner.Headline,
		Role:      types.RoleOwner,
		JoinedAt:  profile.CreatedAt,
	}

	merged := append([]MemberEntry{owner}, entries...)

	page, limit = normalizePage(page, limit)
	total := len(merged)

	start := (page - 1) * limit
	if start > total {
		start = total
	}

	end := start + limit
	if end > total {
		end = total
	}

	return &MemberList{
		Members:     merged[start:end],
		Total:       total,
		Page:        page,
		Limit:       limit,
		Permissions: callerPermissions(&profile, merged, callerID),
	}, nil
}

func rolePriority(role string) int {
	switch role {
	case types.RoleAdmin:
		return 0
	case types.RoleEditor:
		return 1
	default:
		return 2
	}
}

func callerPermissions(profile *models.BusinessProfile, members []MemberEntry, callerID uint) MemberPermissions {
	if callerID == profile.OwnerID {
		return MemberPermissions{Role: types.RoleOwner, CanInvite: true, CanManageMembers: true}
	}

	for _, member := range members {
		if member.UserID == callerID {
			return MemberPermissions{Role: member.Role}
		}
	}

	return MemberPermissions{}
}

func findMembership(profileID, memberUserID uint) (*models.Membership, error) {
	var membership models.Membership

	err := db.DB.
		Where("business_profile_id = ? AND user_id = ?", profileID, memberUserID).
		First(&membership).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrMemberNotFound
		}
		return nil, err
	}

	return &membership, nil
}
