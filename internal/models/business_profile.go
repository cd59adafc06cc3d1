package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type BusinessProfile struct {
	gorm.Model

	Name        string `gorm:"not null"`
	Description string
	Industry    string
	Website     string
	LogoURL     string
	Links       datatypes.JSON
	OwnerID     uint `gorm:"not null;index"`
	IsActive    bool `gorm:"not null;default:true"`

	// Relationships
	Owner       User         `gorm:"foreignKey:OwnerID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Memberships []Membership `gorm:"foreignKey:BusinessProfileID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Invitations []Invitation `gorm:"foreignKey:BusinessProfileID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
