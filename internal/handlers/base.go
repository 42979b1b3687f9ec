package handlers

import (
	"log"
	"net/http"
	"pollbox/internal/db"
	"pollbox/internal/middleware"
	"pollbox/internal/models"
	"pollbox/internal/services"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const currentOrgKey = "current_org_id"

// ServiceError maps a service-layer error to the matching HTTP response.
// Every error kind stays a distinct, inspectable condition on the wire.
func ServiceError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch services.KindOf(err) {
	case services.KindValidation:
		status = http.StatusBadRequest
	case services.KindStateConflict, services.KindUnavailable:
		status = http.StatusConflict
	case services.KindPermissionDenied:
		status = http.StatusForbidden
	case services.KindNotFound:
		status = http.StatusNotFound
	default:
		log.Printf("Internal error: %v", err)
		c.JSON(status, gin.H{"error": "internal error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error(), "code": services.CodeOf(err)})
}

// CurrentUser returns the logged-in user set by the LoadUser middleware.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	user, exists := c.Get(middleware.CheckUserKey)
	if !exists {
		return nil, false
	}
	return user.(*models.User), true
}

// CurrentMembership resolves the acting membership: the session's selected
// organization if the user belongs to it, otherwise the user's first
// membership. Core operations always receive this explicitly; nothing below
// the handlers reads the session.
func CurrentMembership(c *gin.Context) (*models.Membership, bool) {
	user, ok := CurrentUser(c)
	if !ok {
		return nil, false
	}

	session := sessions.Default(c)
	var membership models.Membership
	if orgID, ok := session.Get(currentOrgKey).(uint); ok {
		err := db.DB.Preload("Organization").
			Where("user_id = ? AND organization_id = ?", user.ID, orgID).
			First(&membership).Error
		if err == nil {
			return &membership, true
		}
	}

	err := db.DB.Preload("Organization").
		Where("user_id = ?", user.ID).
		Order("id").
		First(&membership).Error
	if err != nil {
		return nil, false
	}
	return &membership, true
}
