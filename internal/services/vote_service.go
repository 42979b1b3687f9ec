package services

import (
	"errors"
	"pollbox/internal/db"
	"pollbox/internal/models"

	"gorm.io/gorm"
)

// VoteService validates and persists ballots. All checks across all
// questions pass before anything is written; partial acceptance is never
// possible.
type VoteService struct{}

func NewVoteService() *VoteService {
	return &VoteService{}
}

// Ballot maps question id to the selected choice ids.
type Ballot map[uint][]uint

// ResolveVoter looks up a poll and one of its participants by their opaque
// tokens. Both must match, and the participant must belong to that poll.
func (s *VoteService) ResolveVoter(pollToken, participantToken string) (*models.Poll, *models.Participant, error) {
	var poll models.Poll
	err := db.DB.Preload("Questions.Choices").
		Where("token = ?", pollToken).
		First(&poll).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, err
	}

	var participant models.Participant
	err = db.DB.Where("token = ? AND poll_id = ?", participantToken, poll.ID).
		First(&participant).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, err
	}
	return &poll, &participant, nil
}

// Submit records one participant's complete ballot. A second submission by
// the same participant always fails with AlreadyVoted; voting is a one-time
// action and silent repetition would hide a real error from the voter.
func (s *VoteService) Submit(pollToken, participantToken string, answers Ballot) error {
	poll, participant, err := s.ResolveVoter(pollToken, participantToken)
	if err != nil {
		return err
	}

	if participant.IsVoted {
		return ErrAlreadyVoted
	}
	if poll.Status() != models.StatusPending {
		return ErrPollNotActive
	}

	votes, err := collectVotes(poll, participant, answers)
	if err != nil {
		return err
	}

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		// The is_voted flip is the primary gate. Re-checked here under the
		// transaction: the guard clause makes a racing duplicate lose.
		res := tx.Model(&models.Participant{}).
			Where("id = ? AND is_voted = ?", participant.ID, false).
			Update("is_voted", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrAlreadyVoted
		}
		for i := range votes {
			if err := tx.Create(&votes[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		// The (participant, choice) unique index is the backstop for races
		// that slip past the flag; surface it as the same conflict.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrAlreadyVoted
		}
		return err
	}
	participant.IsVoted = true
	return nil
}

// collectVotes checks every question's cardinality constraints and builds
// the rows to insert. Answer keys that do not match a poll question are
// ignored, mirroring how unknown form fields are dropped.
func collectVotes(poll *models.Poll, participant *models.Participant, answers Ballot) ([]models.Vote, error) {
	var votes []models.Vote
	for _, q := range poll.Questions {
		valid := make(map[uint]bool, len(q.Choices))
		for _, c := range q.Choices {
			valid[c.ID] = true
		}

		selected := dedupe(answers[q.ID])
		for _, choiceID := range selected {
			if !valid[choiceID] {
				return nil, validationError("InvalidChoice", "choice %d does not belong to question %d", choiceID, q.ID)
			}
		}

		switch q.Kind {
		case models.KindSingle:
			if len(selected) == 0 {
				return nil, validationError("MissingRequiredAnswer", "question %d requires an answer", q.ID)
			}
			if len(selected) > 1 {
				return nil, validationError("TooManySelections", "question %d allows exactly one selection", q.ID)
			}
		default:
			if len(selected) < q.Min {
				return nil, validationError("TooFewSelections", "question %d requires at least %d selections", q.ID, q.Min)
			}
			if len(selected) > q.Max {
				return nil, validationError("TooManySelections", "question %d allows at most %d selections", q.ID, q.Max)
			}
		}

		for _, choiceID := range selected {
			votes = append(votes, models.Vote{
				ParticipantID: participant.ID,
				ChoiceID:      choiceID,
			})
		}
	}
	return votes, nil
}

func dedupe(ids []uint) []uint {
	if len(ids) < 2 {
		return ids
	}
	seen := make(map[uint]bool, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
