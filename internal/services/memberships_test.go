package services

import (
	"testing"
	"time"

	"github.com/bizlink-dev/bizlink/db"
	"github.com/bizlink-dev/bizlink/internal/apperrors"
	"github.com/bizlink-dev/bizlink/internal/models"
	"github.com/bizlink-dev/bizlink/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPromoteMember(t *testing.T) {
	setupTestDB(t)

	owner := createUser(t, "Olivia", "olivia@acme.test")
	editor := createUser(t, "Ethan", "ethan@acme.test")
	admin := createUser(t, "Ada", "ada@acme.test")
	profile := createProfile(t, owner, "Acme Inc")

	addMember(t, profile, editor, types.RoleEditor, profile.CreatedAt)
	addMember(t, profile, admin, types.RoleAdmin, profile.CreatedAt)

	// Only the owner may promote; an admin cannot.
	_, err := PromoteMember(profile.ID, editor.ID, admin.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotProfileOwner)

	summary, err := PromoteMember(profile.ID, editor.ID, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, types.RoleEditor, summary.PreviousRole)
	assert.Equal(t, types.RoleAdmin, summary.Role)

	var stored models.Membership
	require.NoError(t, db.DB.Where("business_profile_id = ? AND user_id = ?", profile.ID, editor.ID).First(&stored).Error)
	assert.Equal(t, types.RoleAdmin, stored.Role)

	// Already admin: rejected, not a no-op.
	_, err = PromoteMember(profile.ID, editor.ID, owner.ID)
	assert.ErrorIs(t, err, apperrors.ErrMemberNotEditor)

	_, err = PromoteMember(profile.ID, editor.ID+100, owner.ID)
	assert.ErrorIs(t, err, apperrors.ErrMemberNotFound)

	// The owner has no membership row and cannot be targeted.
	_, err = PromoteMember(profile.ID, owner.ID, owner.ID)
	assert.ErrorIs(t, err, apperrors.ErrMemberNotFound)
}

func TestDemoteMember(t *testing.T) {
	setupTestDB(t)

	owner := createUser(t, "Olivia", "olivia@acme.test")
	admin := createUser(t, "Ada", "ada@acme.test")
	editor := createUser(t, "Ethan", "ethan@acme.test")
	profile := createProfile(t, owner, "Acme Inc")

	addMember(t, profile, admin, types.RoleAdmin, profile.CreatedAt)
	addMember(t, profile, editor, types.RoleEditor, profile.CreatedAt)

	_, err := DemoteMember(profile.ID, admin.ID, editor.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotProfileOwner)

	summary, err := DemoteMember(profile.ID, admin.ID, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, types.RoleAdmin, summary.PreviousRole)
	assert.Equal(t, types.RoleEditor, summary.Role)

	_, err = DemoteMember(profile.ID, editor.ID, owner.ID)
	assert.ErrorIs(t, err, apperrors.ErrMemberNotAdmin)
}

func TestRemoveMember(t *testing.T) {
	setupTestDB(t)

	owner := createUser(t, "Olivia", "olivia@acme.test")
	member := createUser(t, "Mia", "mia@acme.test")
	profile := createProfile(t, owner, "Acme Inc")

	addMember(t, profile, member, types.RoleEditor, profile.CreatedAt)

	err := RemoveMember(profile.ID, member.ID, member.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotProfileOwner)

	err = RemoveMember(profile.ID, owner.ID, owner.ID)
	assert.ErrorIs(t, err, apperrors.ErrCannotRemoveOwner)

	require.NoError(t, RemoveMember(profile.ID, member.ID, owner.ID))
	assert.EqualValues(t, 0, membershipCount(t, profile.ID, member.ID))

	err = RemoveMember(profile.ID, member.ID, owner.ID)
	assert.ErrorIs(t, err, apperrors.ErrMemberNotFound)

	// Removal leaves no tombstone: the user can be invited again.
	invitation, err := SendInvitation(profile.ID, "mia@acme.test", types.RoleEditor, owner.ID)
	require.NoError(t, err)
	_, err = AcceptInvitation(invitation.ID, profile.ID, member.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, membershipCount(t, profile.ID, member.ID))
}

func TestListMembers(t *testing.T) {
	setupTestDB(t)

	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	owner := createUser(t, "Olivia", "olivia@acme.test")
	earlyEditor := createUser(t, "Ethan", "ethan@acme.test")
	admin := createUser(t, "Ada", "ada@acme.test")
	lateEditor := createUser(t, "Liam", "liam@acme.test")
	profile := createProfile(t, owner, "Acme Inc")

	addMember(t, profile, earlyEditor, types.RoleEditor, base)
	addMember(t, profile, admin, types.RoleAdmin, base.Add(time.Hour))
	addMember(t, profile, lateEditor, types.RoleEditor, base.Add(2*time.Hour))

	list, err := ListMembers(profile.ID, owner.ID, 1, 10)
	require.NoError(t, err)
	require.Len(t, list.Members, 4)
	assert.Equal(t, 4, list.Total)

	// Owner first, then admins, then editors by join time.
	assert.Equal(t, types.RoleOwner, list.Members[0].Role)
	assert.Equal(t, owner.ID, list.Members[0].UserID)
	assert.Equal(t, admin.ID, list.Members[1].UserID)
	assert.Equal(t, earlyEditor.ID, list.Members[2].UserID)
	assert.Equal(t, lateEditor.ID, list.Members[3].UserID)

	assert.True(t, list.Permissions.CanManageMembers)
	assert.True(t, list.Permissions.CanInvite)
	assert.Equal(t, types.RoleOwner, list.Permissions.Role)

	// Pagination slices the merged list, owner entry included.
	page2, err := ListMembers(profile.ID, owner.ID, 2, 2)
	require.NoError(t, err)
	require.Len(t, page2.Members, 2)
	assert.Equal(t, earlyEditor.ID, page2.Members[0].UserID)

	// A plain member sees the list without management permissions.
	memberView, err := ListMembers(profile.ID, earlyEditor.ID, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, types.RoleEditor, memberView.Permissions.Role)
	assert.False(t, memberView.Permissions.CanManageMembers)
	assert.False(t, memberView.Permissions.CanInvite)

	_, err = ListMembers(profile.ID+100, owner.ID, 1, 10)
	assert.ErrorIs(t, err, apperrors.ErrBusinessProfileNotFound)
}

func TestProfileLifecycle(t *testing.T) {
	setupTestDB(t)

	owner := createUser(t, "Olivia", "olivia@acme.test")
	outsider := createUser(t, "Oscar", "oscar@acme.test")
	profile := createProfile(t, owner, "Acme Inc")

	_, err := DeactivateProfile(profile.ID, outsider.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotProfileOwner)

	// Reactivating an active profile is a validation error, not a no-op.
	_, err = ReactivateProfile(profile.ID, owner.ID)
	assert.ErrorIs(t, err, apperrors.ErrProfileAlreadyActive)

	summary, err := DeactivateProfile(profile.ID, owner.ID)
	require.NoError(t, err)
	assert.False(t, summary.IsActive)

	var stored models.BusinessProfile
	require.NoError(t, db.DB.First(&stored, profile.ID).Error)
	assert.False(t, stored.IsActive)

	// Deactivating twice is harmless.
	_, err = DeactivateProfile(profile.ID, owner.ID)
	require.NoError(t, err)

	reactivated, err := ReactivateProfile(profile.ID, owner.ID)
	require.NoError(t, err)
	assert.True(t, reactivated.IsActive)

	require.NoError(t, db.DB.First(&stored, profile.ID).Error)
	assert.True(t, stored.IsActive)
}

func TestDeleteProfile(t *testing.T) {
	setupTestDB(t)

	owner := createUser(t, "Olivia", "olivia@acme.test")
	member := createUser(t, "Mia", "mia@acme.test")
	invited := createUser(t, "Ethan", "ethan@acme.test")
	profile := createProfile(t, owner, "Acme Inc")

	addMember(t, profile, member, types.RoleEditor, profile.CreatedAt)
	_, err := SendInvitation(profile.ID, "ethan@acme.test", types.RoleEditor, owner.ID)
	require.NoError(t, err)

	err = DeleteProfile(profile.ID, member.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotProfileOwner)

	require.NoError(t, DeleteProfile(profile.ID, owner.ID))

	err = db.DB.First(&models.BusinessProfile{}, profile.ID).Error
	assert.Error(t, err)

	// No orphaned memberships survive the cascade.
	var memberships int64
	require.NoError(t, db.DB.Model(&models.Membership{}).Where("business_profile_id = ?", profile.ID).Count(&memberships).Error)
	assert.EqualValues(t, 0, memberships)

	list, err := ListUserInvitations(invited.ID, types.StatusFilterAll)
	require.NoError(t, err)
	assert.Empty(t, list.Invitations)
}
