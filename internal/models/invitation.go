package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Invitation is a proposal to grant a role on a business profile. It carries
// no authority by itself; authority exists only once a Membership row is
// inserted on acceptance.
//
// Cancellation sets status to cancelled and soft-deletes the row, so live
// queries never see it but the record survives for audit until the retention
// sweeper purges it.
type Invitation struct {
	gorm.Model

	BusinessProfileID uint   `gorm:"not null;index"`
	InviteeID         uint   `gorm:"not null;index"`
	InviterID         uint   `gorm:"not null"`
	Role              string `gorm:"not null"`
	Status            string `gorm:"not null;default:'pending'"`
	Read              bool   `gorm:"not null;default:false"`
	InviterMeta       datatypes.JSON

	// Relationships
	BusinessProfile BusinessProfile `gorm:"foreignKey:BusinessProfileID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Invitee         User            `gorm:"foreignKey:InviteeID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Inviter         User            `gorm:"foreignKey:InviterID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
