package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Participant is an invited voter. The token doubles as the external address
// of their personal voting link, so it must stay unguessable.
type Participant struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PollID    uint      `gorm:"not null;uniqueIndex:idx_poll_email" json:"poll_id"`
	Email     string    `gorm:"size:150;not null;uniqueIndex:idx_poll_email" json:"email"`
	Name      string    `gorm:"size:150" json:"name"`
	Token     string    `gorm:"uniqueIndex;size:36;not null" json:"token"`
	IsVoted   bool      `gorm:"not null;default:false" json:"is_voted"`
	CreatedAt time.Time `json:"created_at"`
}

func (p *Participant) BeforeCreate(tx *gorm.DB) error {
	if p.Token == "" {
		p.Token = uuid.NewString()
	}
	return nil
}
