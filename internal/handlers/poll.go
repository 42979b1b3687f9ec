package handlers

import (
	"net/http"
	"pollbox/internal/db"
	"pollbox/internal/models"
	"pollbox/internal/services"
	"pollbox/internal/utils"
	"strconv"

	"github.com/gin-gonic/gin"
)

type PollHandler struct {
	polls   *services.PollService
	results *services.ResultsService
}

func NewPollHandler() *PollHandler {
	return &PollHandler{
		polls:   services.NewPollService(),
		results: services.NewResultsService(),
	}
}

// Create handles POST /api/polls.
func (h *PollHandler) Create(c *gin.Context) {
	actor, ok := CurrentMembership(c)
	if !ok {
		c.JSON(http.StatusForbidden, gin.H{"error": "no organization access"})
		return
	}

	var in services.CreatePollInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	poll, err := h.polls.Create(actor, in)
	if err != nil {
		ServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"poll": poll})
}

// List returns the actor's polls, newest first, 10 per page.
func (h *PollHandler) List(c *gin.Context) {
	actor, ok := CurrentMembership(c)
	if !ok {
		c.JSON(http.StatusForbidden, gin.H{"error": "no organization access"})
		return
	}

	page := 1
	if p := c.Query("page"); p != "" {
		if pageNum, err := strconv.Atoi(p); err == nil && pageNum > 0 {
			page = pageNum
		}
	}
	perPage := 10

	var total int64
	db.DB.Model(&models.Poll{}).Where("creator_id = ?", actor.ID).Count(&total)

	var polls []models.Poll
	db.DB.Where("creator_id = ?", actor.ID).
		Order("created_at DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&polls)

	items := make([]gin.H, 0, len(polls))
	for i := range polls {
		items = append(items, gin.H{"poll": polls[i], "status": polls[i].Status()})
	}

	c.JSON(http.StatusOK, gin.H{
		"polls": items,
		"page":  page,
		"total": total,
	})
}

// Detail returns one of the actor's polls with questions, participants and,
// once finished, results.
func (h *PollHandler) Detail(c *gin.Context) {
	actor, ok := CurrentMembership(c)
	if !ok {
		c.JSON(http.StatusForbidden, gin.H{"error": "no organization access"})
		return
	}

	var poll models.Poll
	err := db.DB.Preload("Questions.Choices").Preload("Participants").
		Where("id = ? AND creator_id = ?", utils.StringToUint(c.Param("id")), actor.ID).
		First(&poll).Error
	if err != nil {
		ServiceError(c, services.ErrNotFound)
		return
	}

	resp := gin.H{"poll": poll, "status": poll.Status()}
	if poll.Status() == models.StatusFinished {
		results, err := h.results.ForPoll(&poll)
		if err != nil {
			ServiceError(c, err)
			return
		}
		resp["results"] = results
	}
	c.JSON(http.StatusOK, resp)
}

// Start handles POST /api/polls/:id/start.
func (h *PollHandler) Start(c *gin.Context) {
	actor, ok := CurrentMembership(c)
	if !ok {
		c.JSON(http.StatusForbidden, gin.H{"error": "no organization access"})
		return
	}

	poll, err := h.polls.Start(actor, utils.StringToUint(c.Param("id")))
	if err != nil {
		ServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "time_start": poll.TimeStart})
}

// End handles POST /api/polls/:id/end.
func (h *PollHandler) End(c *gin.Context) {
	actor, ok := CurrentMembership(c)
	if !ok {
		c.JSON(http.StatusForbidden, gin.H{"error": "no organization access"})
		return
	}

	poll, err := h.polls.End(actor, utils.StringToUint(c.Param("id")))
	if err != nil {
		ServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "time_end": poll.TimeEnd})
}
