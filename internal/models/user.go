package models

import "gorm.io/gorm"

type User struct {
	gorm.Model

	Name         string `gorm:"not null"`
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
	Headline     string
	AvatarURL    string

	// Relationships
	OwnedProfiles []BusinessProfile `gorm:"foreignKey:OwnerID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Memberships   []Membership      `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Invitations   []Invitation      `gorm:"foreignKey:InviteeID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
