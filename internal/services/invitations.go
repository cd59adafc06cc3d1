package services

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/bizlink-dev/bizlink/db"
	"github.com/bizlink-dev/bizlink/internal/apperrors"
	"github.com/bizlink-dev/bizlink/internal/models"
	"github.com/bizlink-dev/bizlink/internal/notifier"
	"github.com/bizlink-dev/bizlink/internal/types"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type InvitationSummary struct {
	ID          uint      `json:"id"`
	ProfileID   uint      `json:"profile_id"`
	ProfileName string    `json:"profile_name,omitempty"`
	ProfileLogo string    `json:"profile_logo,omitempty"`
	InviteeID   uint      `json:"invitee_id"`
	InviteeName string    `json:"invitee_name,omitempty"`
	InviterID   uint      `json:"inviter_id"`
	InviterName string    `json:"inviter_name,omitempty"`
	Role        string    `json:"role"`
	Status      string    `json:"status"`
	Read        bool      `json:"read"`
	CreatedAt   time.Time `json:"created_at"`
}

type MembershipSummary struct {
	ID        uint      `json:"id"`
	ProfileID uint      `json:"profile_id"`
	UserID    uint      `json:"user_id"`
	Role      string    `json:"role"`
	InvitedBy uint      `json:"invited_by,omitempty"`
	JoinedAt  time.Time `json:"joined_at"`
}

type DeclineSummary struct {
	InvitationID uint   `json:"invitation_id"`
	ProfileID    uint   `json:"profile_id"`
	Status       string `json:"status"`
}

type InvitationCounts struct {
	Pending  int64 `json:"pending"`
	Accepted int64 `json:"accepted"`
	Declined int64 `json:"declined"`
	Total    int64 `json:"total"`
}

type UserInvitationList struct {
	Invitations []InvitationSummary `json:"invitations"`
	Counts      InvitationCounts    `json:"counts"`
}

type ProfileInvitationList struct {
	Invitations []InvitationSummary `json:"invitations"`
	Total       int64               `json:"total"`
	Page        int                 `json:"page"`
	Limit       int                 `json:"limit"`
}

// errInvitationRaced marks a guarded status update that affected zero rows:
// another request moved the invitation out of pending first.
var errInvitationRaced = errors.New("invitation no longer pending")

// SendInvitation proposes a role on a profile to an outside user. Only the
// profile owner may invite, and only admin or editor can be offered. The
// pre-checks against existing members and pending invitations are a courtesy;
// the partial unique index is the actual guarantee.
func SendInvitation(profileID uint, invitee string, role string, callerID uint) (*InvitationSummary, error) {
	if !types.ValidInvitationRole(role) {
		return nil, apperrors.ErrInvalidRole
	}

	profile, err := findOwnedProfile(profileID, callerID)

	if err != nil {
		return nil, err
	}

	user, err := resolveInvitee(invitee)

	if err != nil {
		return nil, err
	}

	// The owner has no membership row but is always a member.
	if user.ID == profile.OwnerID {
		return nil, apperrors.ErrUserAlreadyMember
	}

	member, err := isMember(profileID, user.ID)

	if err != nil {
		return nil, err
	}

	if member {
		return nil, apperrors.ErrUserAlreadyMember
	}

	var pending int64

	err = db.DB.Model(&models.Invitation{}).
		Where("business_profile_id = ? AND invitee_id = ? AND status = ?", profileID, user.ID, types.InvitationPending).
		Count(&pending).Error

	if err != nil {
		return nil, err
	}

	if pending > 0 {
		return nil, apperrors.ErrPendingInvitationExists
	}

	var inviter models.User

	if err := db.DB.First(&inviter, callerID).Error; err != nil {
		return nil, err
	}

	meta, err := json.Marshal(map[string]interface{}{"id": inviter.ID, "name": inviter.Name})

	if err != nil {
		return nil, err
	}

	invitation := models.Invitation{
		BusinessProfileID: profileID,
		InviteeID:         user.ID,
		InviterID:         inviter.ID,
		Role:              role,
		Status:            types.InvitationPending,
		InviterMeta:       datatypes.JSON(meta),
	}

	if err := db.DB.Create(&invitation).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrPendingInvitationExists
		}
		return nil, err
	}

	return &InvitationSummary{
		ID:          invitation.ID,
		ProfileID:   profileID,
		ProfileName: profile.Name,
		InviteeID:   user.ID,
		InviteeName: user.Name,
		InviterID:   inviter.ID,
		InviterName: inviter.Name,
		Role:        role,
		Status:      invitation.Status,
		CreatedAt:   invitation.CreatedAt,
	}, nil
}

// AcceptInvitation materializes the proposed role as a membership row. The
// guarded status update and the membership insert commit together or not at
// all; the composite unique index on memberships is the backstop against two
// concurrent accepts of the same invitation.
func AcceptInvitation(invitationID, profileID, callerID uint) (*MembershipSummary, error) {
	profile, err := findProfile(profileID)

	if err != nil {
		return nil, err
	}

	invitation, err := findInvitation(invitationID, profileID)

	if err != nil {
		return nil, err
	}

	if invitation.InviteeID != callerID {
		return nil, apperrors.ErrInvitationNotForUser
	}

	if err := terminalStatusError(invitation.Status); err != nil {
		return nil, err
	}

	membership := models.Membership{
		BusinessProfileID: profileID,
		UserID:            callerID,
		Role:              invitation.Role,
		InvitedByID:       invitation.InviterID,
	}

	txErr := db.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Invitation{}).
			Where("id = ? AND status = ?", invitation.ID, types.InvitationPending).
			Updates(map[string]interface{}{"status": types.InvitationAccepted, "read": true})

		if res.Error != nil {
			return res.Error
		}

		if res.RowsAffected == 0 {
			return errInvitationRaced
		}

		if err := tx.Create(&membership).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperrors.ErrUserAlreadyMember
			}
			return err
		}

		return nil
	})

	if txErr != nil {
		if errors.Is(txErr, errInvitationRaced) {
			return nil, invitationStateError(invitation.ID)
		}
		return nil, txErr
	}

	notifier.Notify(profile.OwnerID, notifier.Event{
		Type:      notifier.EventInvitationAccepted,
		ProfileID: profileID,
		UserID:    callerID,
		UserName:  invitation.Invitee.Name,
		Status:    types.InvitationAccepted,
		Message:   invitation.Invitee.Name + " accepted the invitation to " + profile.Name,
	})

	return &MembershipSummary{
		ID:        membership.ID,
		ProfileID: profileID,
		UserID:    callerID,
		Role:      membership.Role,
		InvitedBy: membership.InvitedByID,
		JoinedAt:  membership.CreatedAt,
	}, nil
}

// DeclineInvitation moves a pending invitation to its other terminal state.
// No membership row is touched.
func DeclineInvitation(invitationID, profileID, callerID uint) (*DeclineSummary, error) {
	profile, err := findProfile(profileID)

	if err != nil {
		return nil, err
	}

	invitation, err := findInvitation(invitationID, profileID)

	if err != nil {
		return nil, err
	}

	if invitation.InviteeID != callerID {
		return nil, apperrors.ErrInvitationNotForUser
	}

	if err := terminalStatusError(invitation.Status); err != nil {
		return nil, err
	}

	res := db.DB.Model(&models.Invitation{}).
		Where("id = ? AND status = ?", invitation.ID, types.InvitationPending).
		Updates(map[string]interface{}{"status": types.InvitationDeclined, "read": true})

	if res.Error != nil {
		return nil, res.Error
	}

	if res.RowsAffected == 0 {
		return nil, invitationStateError(invitation.ID)
	}

	notifier.Notify(profile.OwnerID, notifier.Event{
		Type:      notifier.EventInvitationDeclined,
		ProfileID: profileID,
		UserID:    callerID,
		UserName:  invitation.Invitee.Name,
		Status:    types.InvitationDeclined,
		Message:   invitation.Invitee.Name + " declined the invitation to " + profile.Name,
	})

	return &DeclineSummary{
		InvitationID: invitation.ID,
		ProfileID:    profileID,
		Status:       types.InvitationDeclined,
	}, nil
}

// CancelInvitation withdraws a still-pending invitation. The row is marked
// cancelled and soft-deleted: invisible to every live query, retained for the
// sweeper's retention window.
func CancelInvitation(invitationID, profileID, callerID uint) error {
	if _, err := findOwnedProfile(profileID, callerID); err != nil {
		return err
	}

	invitation, err := findInvitation(invitationID, profileID)

	if err != nil {
		return err
	}

	if invitation.Status != types.InvitationPending {
		return apperrors.ErrInvitationNotPending
	}

	txErr := db.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Invitation{}).
			Where("id = ? AND status = ?", invitation.ID, types.InvitationPending).
			Update("status", types.InvitationCancelled)

		if res.Error != nil {
			return res.Error
		}

		if res.RowsAffected == 0 {
			return errInvitationRaced
		}

		return tx.Delete(&models.Invitation{}, invitation.ID).Error
	})

	if errors.Is(txErr, errInvitationRaced) {
		return apperrors.ErrInvitationNotPending
	}

	return txErr
}

// ListUserInvitations returns every invitation addressed to the user, newest
// first, optionally filtered by status, with per-status counts over the
// unfiltered set.
func ListUserInvitations(userID uint, statusFilter string) (*UserInvitationList, error) {
	if !types.ValidStatusFilter(statusFilter) {
		return nil, apperrors.ErrInvalidStatusFilter
	}

	query := db.DB.
		Preload("BusinessProfile").
		Preload("Inviter").
		Where("invitee_id = ?", userID).
		Order("created_at DESC")

	if statusFilter != "" && statusFilter != types.StatusFilterAll {
		query = query.Where("status = ?", statusFilter)
	}

	var invitations []models.Invitation

	if err := query.Find(&invitations).Error; err != nil {
		return nil, err
	}

	var rows []struct {
		Status string
		Count  int64
	}

	err := db.DB.Model(&models.Invitation{}).
		Select("status, count(*) as count").
		Where("invitee_id = ?", userID).
		Group("status").
		Scan(&rows).Error

	if err != nil {
		return nil, err
	}

	var counts InvitationCounts

	for _, row := range rows {
		switch row.Status {
		case types.InvitationPending:
			counts.Pending = row.Count
		case types.InvitationAccepted:
			counts.Accepted = row.Count
		case types.InvitationDeclined:
			counts.Declined = row.Count
		}
		counts.Total += row.Count
	}

	list := &UserInvitationList{
		Invitations: make([]InvitationSummary, 0, len(invitations)),
		Counts:      counts,
	}

	for _, invitation := range invitations {
		list.Invitations = append(list.Invitations, InvitationSummary{
			ID:          invitation.ID,
			ProfileID:   invitation.BusinessProfileID,
			ProfileName: invitation.BusinessProfile.Name,
			ProfileLogo: invitation.BusinessProfile.LogoURL,
			InviteeID:   invitation.InviteeID,
			InviterID:   invitation.InviterID,
			InviterName: invitation.Inviter.Name,
			Role:        invitation.Role,
			Status:      invitation.Status,
			Read:        invitation.Read,
			CreatedAt:   invitation.CreatedAt,
		})
	}

	return list, nil
}

// ListProfileInvitations is the inviter's management view, scoped by profile.
func ListProfileInvitations(profileID uint, statusFilter string, page, limit int) (*ProfileInvitationList, error) {
	if !types.ValidStatusFilter(statusFilter) {
		return nil, apperrors.ErrInvalidStatusFilter
	}

	if _, err := findProfile(profileID); err != nil {
		return nil, err
	}

	page, limit = normalizePage(page, limit)

	// Fresh chains per statement; reusing one across Count and Find would
	// drag executed clauses along.
	scoped := func() *gorm.DB {
		q := db.DB.Model(&models.Invitation{}).Where("business_profile_id = ?", profileID)
		if statusFilter != "" && statusFilter != types.StatusFilterAll {
			q = q.Where("status = ?", statusFilter)
		}
		return q
	}

	var total int64

	if err := scoped().Count(&total).Error; err != nil {
		return nil, err
	}

	var invitations []models.Invitation

	err := scoped().
		Preload("Invitee").
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&invitations).Error

	if err != nil {
		return nil, err
	}

	list := &ProfileInvitationList{
		Invitations: make([]InvitationSummary, 0, len(invitations)),
		Total:       total,
		Page:        page,
		Limit:       limit,
	}

	for _, invitation := range invitations {
		list.Invitations = append(list.Invitations, InvitationSummary{
			ID:          invitation.ID,
			ProfileID:   invitation.BusinessProfileID,
			InviteeID:   invitation.InviteeID,
			InviteeName: invitation.Invitee.Name,
			InviterID:   invitation.InviterID,
			Role:        invitation.Role,
			Status:      invitation.Status,
			Read:        invitation.Read,
			CreatedAt:   invitation.CreatedAt,
		})
	}

	return list, nil
}

func findInvitation(invitationID, profileID uint) (*models.Invitation, error) {
	var invitation models.Invitation

	err := db.DB.
		Preload("Invitee").
		Where("id = ? AND business_profile_id = ?", invitationID, profileID).
		First(&invitation).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvitationNotFound
		}
		return nil, err
	}

	return &invitation, nil
}

func terminalStatusError(status string) error {
	switch status {
	case types.InvitationPending:
		return nil
	case types.InvitationAccepted:
		return apperrors.ErrInvitationAlreadyAccepted
	case types.InvitationDeclined:
		return apperrors.ErrInvitationAlreadyDeclined
	default:
		return apperrors.ErrInvitationNotPending
	}
}

// invitationStateError re-reads an invitation after a lost guarded update to
// report which terminal state won the race. A cancelled invitation is
// soft-deleted, so the re-read misses and reports not-pending.
func invitationStateError(invitationID uint) error {
	var invitation models.Invitation

	if err := db.DB.First(&invitation, invitationID).Error; err != nil {
		return apperrors.ErrInvitationNotPending
	}

	return terminalStatusError(invitation.Status)
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}

	if limit < 1 || limit > 100 {
		limit = 20
	}

	return page, limit
}
