package handlers

import (
	"net/http"
	"pollbox/internal/models"
	"pollbox/internal/services"
	"pollbox/internal/utils"

	"github.com/gin-gonic/gin"
)

// VoteHandler is the public, token-addressed surface participants use. No
// session is involved; the two opaque tokens are the whole credential.
type VoteHandler struct {
	votes   *services.VoteService
	results *services.ResultsService
}

func NewVoteHandler() *VoteHandler {
	return &VoteHandler{
		votes:   services.NewVoteService(),
		results: services.NewResultsService(),
	}
}

// Show handles GET /v/:poll/:participant, the voter's view of the poll.
// While PENDING and not yet voted it includes the questions; once FINISHED
// it includes the results.
func (h *VoteHandler) Show(c *gin.Context) {
	poll, participant, err := h.votes.ResolveVoter(c.Param("poll"), c.Param("participant"))
	if err != nil {
		ServiceError(c, err)
		return
	}

	resp := gin.H{
		"title":       poll.Title,
		"description": poll.Description,
		"status":      poll.Status(),
		"participant": gin.H{"name": participant.Name, "is_voted": participant.IsVoted},
	}
	switch {
	case poll.Status() == models.StatusPending && !participant.IsVoted:
		resp["questions"] = poll.Questions
	case poll.Status() == models.StatusFinished:
		results, err := h.results.ForPoll(poll)
		if err != nil {
			ServiceError(c, err)
			return
		}
		resp["results"] = results
	}
	c.JSON(http.StatusOK, resp)
}

type submitVoteRequest struct {
	// Keys are question ids as strings; JSON object keys are always strings.
	Answers map[string][]uint `json:"answers"`
}

// Submit handles POST /v/:poll/:participant with one complete ballot.
func (h *VoteHandler) Submit(c *gin.Context) {
	var req submitVoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	answers := make(services.Ballot, len(req.Answers))
	for key, choiceIDs := range req.Answers {
		if qid := utils.StringToUint(key); qid != 0 {
			answers[qid] = choiceIDs
		}
	}

	if err := h.votes.Submit(c.Param("poll"), c.Param("participant"), answers); err != nil {
		ServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
