package services

import (
	"pollbox/internal/db"
	"pollbox/internal/models"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

// setupTestDB points the shared handle at a fresh in-memory database. One
// open connection, or each pooled connection would see its own empty store.
func setupTestDB(t *testing.T) {
	t.Helper()

	g, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	sqlDB, err := g.DB()
	if err != nil {
		t.Fatalf("Failed to access test database: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.Migrate(g); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	db.DB = g
}

func createTestMembership(t *testing.T, paidUntil time.Time) *models.Membership {
	t.Helper()

	org := models.Organization{Name: "Test Org", PaidUntil: paidUntil, Timezone: "UTC"}
	if err := db.DB.Create(&org).Error; err != nil {
		t.Fatalf("Failed to create organization: %v", err)
	}
	user := models.User{Name: "John Doe", Email: "john@example.com", Password: "x"}
	if err := db.DB.Create(&user).Error; err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}
	membership := models.Membership{UserID: user.ID, OrganizationID: org.ID, IsAdmin: true}
	if err := db.DB.Create(&membership).Error; err != nil {
		t.Fatalf("Failed to create membership: %v", err)
	}
	membership.Organization = org
	membership.User = user
	return &membership
}

func activeMembership(t *testing.T) *models.Membership {
	return createTestMembership(t, time.Now().AddDate(1, 0, 0))
}

// createTestPoll goes through the real creation path: one single-choice
// question (Red/Blue), one multi question (A/B/C, 0..2), two participants.
func createTestPoll(t *testing.T, s *PollService, actor *models.Membership) *models.Poll {
	t.Helper()

	poll, err := s.Create(actor, CreatePollInput{
		Title: "Team survey",
		Questions: []QuestionInput{
			{Text: "Favorite color?", Kind: models.KindSingle, Choices: []string{"Red", "Blue"}},
			{Text: "Pick up to two", Kind: models.KindMulti, Choices: []string{"A", "B", "C"}, Min: "0", Max: "2"},
		},
		Participants: []ParticipantInput{
			{Email: "alex@example.com", Name: "Alex"},
			{Email: "maria@example.com", Name: "Maria"},
		},
	})
	if err != nil {
		t.Fatalf("Failed to create poll: %v", err)
	}
	return poll
}

func loadPoll(t *testing.T, id uint) *models.Poll {
	t.Helper()

	var poll models.Poll
	if err := db.DB.Preload("Questions.Choices").Preload("Participants").First(&poll, id).Error; err != nil {
		t.Fatalf("Failed to load poll %d: %v", id, err)
	}
	return &poll
}
