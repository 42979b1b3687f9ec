package models

import (
	"time"
)

type Organization struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	PaidUntil time.Time `gorm:"not null" json:"paid_until"` // access runs out at end of this day
	Timezone  string    `gorm:"size:50;default:'UTC'" json:"timezone"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsActive reports whether the organization's subscription covers today.
// Dates are compared in UTC so the boundary does not depend on the host
// timezone.
func (o *Organization) IsActive() bool {
	y, m, d := time.Now().UTC().Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return !o.PaidUntil.Before(today)
}
