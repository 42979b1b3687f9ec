package handlers

import (
	"net/http"
	"pollbox/internal/db"
	"pollbox/internal/models"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

type OrgHandler struct{}

func NewOrgHandler() *OrgHandler {
	return &OrgHandler{}
}

// List returns the organizations the user belongs to.
func (h *OrgHandler) List(c *gin.Context) {
	user, _ := CurrentUser(c)

	var memberships []models.Membership
	db.DB.Preload("Organization").
		Where("user_id = ?", user.ID).
		Order("id").
		Find(&memberships)

	c.JSON(http.StatusOK, gin.H{"memberships": memberships})
}

type selectOrgRequest struct {
	OrganizationID uint `json:"organization_id"`
}

// Select stores the chosen organization in the session. The choice only
// sticks if the user actually holds a membership there.
func (h *OrgHandler) Select(c *gin.Context) {
	user, _ := CurrentUser(c)

	var req selectOrgRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.OrganizationID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "organization_id is required"})
		return
	}

	var count int64
	db.DB.Model(&models.Membership{}).
		Where("user_id = ? AND organization_id = ?", user.ID, req.OrganizationID).
		Count(&count)
	if count == 0 {
		c.JSON(http.StatusForbidden, gin.H{"error": "organization not available"})
		return
	}

	session := sessions.Default(c)
	session.Set(currentOrgKey, req.OrganizationID)
	session.Save()

	c.JSON(http.StatusOK, gin.H{"ok": true, "organization_id": req.OrganizationID})
}
