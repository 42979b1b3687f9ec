package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Poll status values, derived from the two timestamps. There is no stored
// status column, so the flags can never drift from the times that gate
// behavior.
const (
	StatusWaiting  = "WAITING"
	StatusPending  = "PENDING"
	StatusFinished = "FINISHED"
)

type Poll struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Token       string     `gorm:"uniqueIndex;size:36;not null" json:"token"` // opaque voting-link identifier
	Title       string     `gorm:"size:400;not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"` // markdown, shown in invite emails
	CreatorID   uint       `gorm:"not null;index" json:"creator_id"`
	Creator     Membership `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	TimeStart   *time.Time `json:"time_start"`
	TimeEnd     *time.Time `json:"time_end"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	Questions    []Question    `gorm:"constraint:OnDelete:CASCADE;" json:"questions,omitempty"`
	Participants []Participant `gorm:"constraint:OnDelete:CASCADE;" json:"participants,omitempty"`
}

func (p *Poll) BeforeCreate(tx *gorm.DB) error {
	if p.Token == "" {
		p.Token = uuid.NewString()
	}
	return nil
}

// Status derives the lifecycle phase from the start/end timestamps.
func (p *Poll) Status() string {
	if p.TimeStart == nil {
		return StatusWaiting
	}
	if p.TimeEnd == nil {
		return StatusPending
	}
	return StatusFinished
}
