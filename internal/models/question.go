package models

// Question kinds. Single-choice questions always carry min=1, max=1.
const (
	KindSingle = "single"
	KindMulti  = "multi"
)

type Question struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	PollID uint   `gorm:"not null;index" json:"poll_id"`
	Text   string `gorm:"size:400;not null" json:"text"`
	Kind   string `gorm:"size:20;not null" json:"kind"`
	// No default tag: gorm would skip a zero Min on insert, and min=0 is a
	// valid bound for multi questions.
	Min int `gorm:"not null" json:"min"`
	Max int `gorm:"not null;default:1" json:"max"`

	Choices []Choice `gorm:"constraint:OnDelete:CASCADE;" json:"choices,omitempty"`
}

type Choice struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	QuestionID uint   `gorm:"not null;index" json:"question_id"`
	Text       string `gorm:"size:400;not null" json:"text"`
}
