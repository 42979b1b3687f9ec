package handlers

import (
	"net/http"
	"pollbox/internal/db"
	"pollbox/internal/models"
	"pollbox/internal/utils"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct{}

func NewAuthHandler() *AuthHandler {
	return &AuthHandler{}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login authenticates by email and password. Users without at least one
// organization membership cannot log in, even with valid credentials.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	var user models.User
	if err := db.DB.Where("email = ?", req.Email).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "wrong email or password"})
		return
	}
	if !utils.CheckPasswordHash(req.Password, user.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "wrong email or password"})
		return
	}

	var memberships int64
	db.DB.Model(&models.Membership{}).Where("user_id = ?", user.ID).Count(&memberships)
	if memberships == 0 {
		c.JSON(http.StatusForbidden, gin.H{"error": "no organization access"})
		return
	}

	session := sessions.Default(c)
	session.Set("user_id", user.ID)
	session.Save()

	c.JSON(http.StatusOK, gin.H{"user": user})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Save()
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Me returns the logged-in user and their acting membership.
func (h *AuthHandler) Me(c *gin.Context) {
	user, _ := CurrentUser(c)
	membership, ok := CurrentMembership(c)
	if !ok {
		c.JSON(http.StatusForbidden, gin.H{"error": "no organization access"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user, "membership": membership})
}
