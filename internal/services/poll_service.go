package services

import (
	"errors"
	"fmt"
	"log"
	"os"
	"pollbox/internal/db"
	"pollbox/internal/models"
	"pollbox/internal/utils"
	"time"

	"gorm.io/gorm"
)

// PollService owns the poll lifecycle: atomic creation, the WAITING →
// PENDING → FINISHED transitions, and invite dispatch on start.
type PollService struct {
	mail *MailService
}

func NewPollService() *PollService {
	return &PollService{mail: NewMailService()}
}

type CreatePollInput struct {
	Title        string             `json:"title"`
	Description  string             `json:"description"`
	Questions    []QuestionInput    `json:"questions"`
	Participants []ParticipantInput `json:"participants"`
}

// Create validates the whole request and persists the poll with its
// questions, choices and participants in one transaction. The actor must
// carry a preloaded Organization.
func (s *PollService) Create(actor *models.Membership, in CreatePollInput) (*models.Poll, error) {
	if !actor.Organization.IsActive() {
		return nil, &Error{KindPermissionDenied, "PermissionDenied", "organization subscription has expired"}
	}

	title := utils.PlainText(in.Title)
	if title == "" {
		return nil, validationError("TitleRequired", "poll title must not be empty")
	}

	questions, err := validateQuestions(in.Questions)
	if err != nil {
		return nil, err
	}
	participants, err := validateParticipants(in.Participants)
	if err != nil {
		return nil, err
	}

	poll := models.Poll{
		Title:       title,
		Description: in.Description,
		CreatorID:   actor.ID,
	}
	err = db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&poll).Error; err != nil {
			return err
		}
		for _, q := range questions {
			question := models.Question{
				PollID: poll.ID,
				Text:   q.Text,
				Kind:   q.Kind,
				Min:    q.Min,
				Max:    q.Max,
			}
			for _, c := range q.Choices {
				question.Choices = append(question.Choices, models.Choice{Text: c})
			}
			if err := tx.Create(&question).Error; err != nil {
				return err
			}
		}
		for _, p := range participants {
			participant := models.Participant{
				PollID: poll.ID,
				Email:  p.Email,
				Name:   p.Name,
			}
			if err := tx.Create(&participant).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &poll, nil
}

// findForActor resolves a poll the actor is allowed to manage. Only the
// creator membership may start or end a poll.
func findForActor(actor *models.Membership, pollID uint) (*models.Poll, error) {
	var poll models.Poll
	if err := db.DB.First(&poll, pollID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if poll.CreatorID != actor.ID {
		return nil, ErrPermissionDenied
	}
	return &poll, nil
}

// Start moves a WAITING poll to PENDING and dispatches the invite emails.
// The timestamp write is guarded at the database level, so two racing starts
// cannot both succeed.
func (s *PollService) Start(actor *models.Membership, pollID uint) (*models.Poll, error) {
	poll, err := findForActor(actor, pollID)
	if err != nil {
		return nil, err
	}
	if poll.TimeStart != nil {
		return nil, ErrAlreadyStarted
	}

	now := time.Now()
	res := db.DB.Model(&models.Poll{}).
		Where("id = ? AND time_start IS NULL", poll.ID).
		Update("time_start", now)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrAlreadyStarted
	}
	poll.TimeStart = &now

	// Invites go out only after the transition is durable. Each send is
	// best-effort; a failed mailbox is logged and skipped.
	var participants []models.Participant
	if err := db.DB.Where("poll_id = ?", poll.ID).Find(&participants).Error; err != nil {
		log.Printf("Failed to load participants for poll %d invites: %v", poll.ID, err)
		return poll, nil
	}
	for _, p := range participants {
		s.mail.SendVoteInvite(p.Email, p.Name, poll.Title, poll.Description, VoteURL(poll.Token, p.Token))
	}
	return poll, nil
}

// End moves a PENDING poll to FINISHED, unlocking result computation.
func (s *PollService) End(actor *models.Membership, pollID uint) (*models.Poll, error) {
	poll, err := findForActor(actor, pollID)
	if err != nil {
		return nil, err
	}
	if poll.TimeStart == nil {
		return nil, ErrNotStarted
	}
	if poll.TimeEnd != nil {
		return nil, ErrAlreadyEnded
	}

	now := time.Now()
	res := db.DB.Model(&models.Poll{}).
		Where("id = ? AND time_start IS NOT NULL AND time_end IS NULL", poll.ID).
		Update("time_end", now)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrAlreadyEnded
	}
	poll.TimeEnd = &now
	return poll, nil
}

// VoteURL builds a participant's personal voting link from the public base
// URL of the deployment.
func VoteURL(pollToken, participantToken string) string {
	base := os.Getenv("BASE_URL")
	if base == "" {
		base = "http://localhost:8080"
	}
	return fmt.Sprintf("%s/v/%s/%s", base, pollToken, participantToken)
}
