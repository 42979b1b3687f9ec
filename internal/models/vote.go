package models

import (
	"time"
)

// Vote is an immutable fact: one participant picked one choice. The unique
// index on (participant_id, choice_id) is the database-level backstop against
// duplicate submissions racing past the is_voted check.
type Vote struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	ParticipantID uint      `gorm:"not null;uniqueIndex:idx_participant_choice" json:"participant_id"`
	ChoiceID      uint      `gorm:"not null;index;uniqueIndex:idx_participant_choice" json:"choice_id"`
	CreatedAt     time.Time `json:"created_at"`
}
