package services

import (
	"pollbox/internal/db"
	"pollbox/internal/models"
)

// ResultsService computes per-choice tallies for finished polls. Results are
// recomputed from the vote rows on every request; the store stays the single
// source of truth.
type ResultsService struct{}

func NewResultsService() *ResultsService {
	return &ResultsService{}
}

type ChoiceResult struct {
	Choice    models.Choice `json:"choice"`
	VoteCount int64         `json:"vote_count"`
}

type QuestionResult struct {
	Question models.Question `json:"question"`
	Choices  []ChoiceResult  `json:"choices"`
}

// ForPoll tallies votes per choice, grouped by question. Fails with
// ResultsUnavailable unless the poll is FINISHED.
func (s *ResultsService) ForPoll(poll *models.Poll) ([]QuestionResult, error) {
	if poll.Status() != models.StatusFinished {
		return nil, ErrResultsUnavailable
	}

	var questions []models.Question
	err := db.DB.Preload("Choices").
		Where("poll_id = ?", poll.ID).
		Order("id").
		Find(&questions).Error
	if err != nil {
		return nil, err
	}

	choiceIDs := make([]uint, 0)
	for _, q := range questions {
		for _, c := range q.Choices {
			choiceIDs = append(choiceIDs, c.ID)
		}
	}

	countMap := make(map[uint]int64)
	if len(choiceIDs) > 0 {
		type countRow struct {
			ChoiceID uint
			Count    int64
		}
		var rows []countRow
		err = db.DB.Model(&models.Vote{}).
			Select("choice_id, COUNT(*) as count").
			Where("choice_id IN ?", choiceIDs).
			Group("choice_id").
			Scan(&rows).Error
		if err != nil {
			return nil, err
		}
		for _, r := range rows {
			countMap[r.ChoiceID] = r.Count
		}
	}

	results := make([]QuestionResult, 0, len(questions))
	for _, q := range questions {
		qr := QuestionResult{Question: q}
		for _, c := range q.Choices {
			qr.Choices = append(qr.Choices, ChoiceResult{Choice: c, VoteCount: countMap[c.ID]})
		}
		qr.Question.Choices = nil // already carried per-choice above
		results = append(results, qr)
	}
	return results, nil
}
