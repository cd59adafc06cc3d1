package models

import "time"

// Membership grants one user one role on one business profile. The owner is
// not stored here; it is synthesized from the profile's owner_id at read time.
//
// No soft delete: a removed member must be re-invitable, so the composite
// unique index cannot be held by tombstone rows.
type Membership struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time

	BusinessProfileID uint   `gorm:"not null;uniqueIndex:idx_profile_user"`
	UserID            uint   `gorm:"not null;uniqueIndex:idx_profile_user"`
	Role              string `gorm:"not null"`
	InvitedByID       uint

	// Relationships
	BusinessProfile BusinessProfile `gorm:"foreignKey:BusinessProfileID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	User            User            `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
