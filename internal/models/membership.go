package models

import (
	"time"
)

// Membership binds a user to an organization. A user may hold any number of
// memberships; polls are always created through one of them.
type Membership struct {
	ID             uint         `gorm:"primaryKey" json:"id"`
	UserID         uint         `gorm:"not null;uniqueIndex:idx_user_org" json:"user_id"`
	User           User         `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user"`
	OrganizationID uint         `gorm:"not null;uniqueIndex:idx_user_org" json:"organization_id"`
	Organization   Organization `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"organization"`
	IsAdmin        bool         `gorm:"not null;default:false" json:"is_admin"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}
