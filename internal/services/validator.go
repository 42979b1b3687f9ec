package services

import (
	"pollbox/internal/models"
	"pollbox/internal/utils"
	"strconv"
	"strings"
)

// QuestionInput is one question definition as submitted by the creator. Min
// and Max arrive as strings because the client assembles the payload from
// form inputs; the validator owns the parse.
type QuestionInput struct {
	Text    string   `json:"text"`
	Kind    string   `json:"kind"`
	Choices []string `json:"choices"`
	Min     string   `json:"min"`
	Max     string   `json:"max"`
}

type ParticipantInput struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

type questionSpec struct {
	Text    string
	Kind    string
	Min     int
	Max     int
	Choices []string
}

type participantSpec struct {
	Email string
	Name  string
}

// validateQuestions normalizes and checks the whole question list. The first
// failure aborts the request; nothing is persisted on a partial pass.
func validateQuestions(inputs []QuestionInput) ([]questionSpec, error) {
	if len(inputs) == 0 {
		return nil, validationError("QuestionsRequired", "add at least one question")
	}

	specs := make([]questionSpec, 0, len(inputs))
	for idx, in := range inputs {
		n := idx + 1

		text := utils.PlainText(in.Text)
		if text == "" {
			return nil, validationError("EmptyQuestionText", "question %d has no text", n)
		}

		choices := make([]string, 0, len(in.Choices))
		for _, c := range in.Choices {
			if cleaned := utils.PlainText(c); cleaned != "" {
				choices = append(choices, cleaned)
			}
		}
		if len(choices) < 2 {
			return nil, validationError("InsufficientChoices", "question %d needs at least two choices", n)
		}

		switch in.Kind {
		case models.KindSingle:
			// User-supplied bounds are ignored for single-choice questions.
			specs = append(specs, questionSpec{Text: text, Kind: models.KindSingle, Min: 1, Max: 1, Choices: choices})
		case models.KindMulti:
			min, err := strconv.Atoi(strings.TrimSpace(in.Min))
			if err != nil || min < 0 {
				return nil, validationError("NonNumericBounds", "question %d min must be a non-negative integer", n)
			}
			max, err := strconv.Atoi(strings.TrimSpace(in.Max))
			if err != nil || max < 0 {
				return nil, validationError("NonNumericBounds", "question %d max must be a non-negative integer", n)
			}
			if max < 1 || min > max {
				return nil, validationError("InvalidRange", "question %d has an invalid selection range", n)
			}
			if max > len(choices) {
				return nil, validationError("MaxExceedsChoices", "question %d max cannot exceed its choice count", n)
			}
			specs = append(specs, questionSpec{Text: text, Kind: models.KindMulti, Min: min, Max: max, Choices: choices})
		default:
			return nil, validationError("InvalidKind", "question %d has an unknown kind", n)
		}
	}
	return specs, nil
}

// validateParticipants normalizes the invite list. Duplicate emails within
// one submission collapse to the first occurrence rather than erroring, to
// tolerate client-side duplication.
func validateParticipants(inputs []ParticipantInput) ([]participantSpec, error) {
	seen := make(map[string]bool, len(inputs))
	specs := make([]participantSpec, 0, len(inputs))
	for _, in := range inputs {
		email := strings.ToLower(strings.TrimSpace(in.Email))
		name := utils.PlainText(in.Name)
		if email == "" && name == "" {
			continue // fully blank row, the client sends these for empty form slots
		}
		if email == "" {
			return nil, validationError("EmailRequired", "every participant needs an email")
		}
		if seen[email] {
			continue
		}
		seen[email] = true
		if name == "" {
			name = "Participant"
		}
		specs = append(specs, participantSpec{Email: email, Name: name})
	}
	return specs, nil
}
