package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"pollbox/internal/db"
	"pollbox/internal/models"
	"pollbox/internal/services"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

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

func voteRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewVoteHandler()
	r.GET("/v/:poll/:participant", h.Show)
	r.POST("/v/:poll/:participant", h.Submit)
	return r
}

// fixturePoll creates a PENDING poll with one single-choice question and one
// participant, returning the loaded poll.
func fixturePoll(t *testing.T) *models.Poll {
	t.Helper()

	org := models.Organization{Name: "Test Org", PaidUntil: time.Now().AddDate(1, 0, 0)}
	if err := db.DB.Create(&org).Error; err != nil {
		t.Fatalf("Failed to create organization: %v", err)
	}
	user := models.User{Name: "John", Email: "john@example.com", Password: "x"}
	if err := db.DB.Create(&user).Error; err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}
	membership := models.Membership{UserID: user.ID, OrganizationID: org.ID}
	if err := db.DB.Create(&membership).Error; err != nil {
		t.Fatalf("Failed to create membership: %v", err)
	}
	membership.Organization = org

	ps := services.NewPollService()
	created, err := ps.Create(&membership, services.CreatePollInput{
		Title: "Lunch poll",
		Questions: []services.QuestionInput{
			{Text: "Where to?", Kind: models.KindSingle, Choices: []string{"Cafe", "Park"}},
		},
		Participants: []services.ParticipantInput{{Email: "alex@example.com", Name: "Alex"}},
	})
	if err != nil {
		t.Fatalf("Failed to create poll: %v", err)
	}
	if _, err := ps.Start(&membership, created.ID); err != nil {
		t.Fatalf("Failed to start poll: %v", err)
	}

	var poll models.Poll
	if err := db.DB.Preload("Questions.Choices").Preload("Participants").First(&poll, created.ID).Error; err != nil {
		t.Fatalf("Failed to load poll: %v", err)
	}
	return &poll
}

func TestVoteShow(t *testing.T) {
	setupTestDB(t)
	r := voteRouter()
	poll := fixturePoll(t)
	voter := poll.Participants[0]

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/v/"+poll.Token+"/"+voter.Token, nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Title     string            `json:"title"`
		Status    string            `json:"status"`
		Questions []models.Question `json:"questions"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.Title != "Lunch poll" || resp.Status != models.StatusPending {
		t.Errorf("Unexpected poll view: title=%q status=%q", resp.Title, resp.Status)
	}
	if len(resp.Questions) != 1 {
		t.Errorf("Expected the questions while PENDING, got %d", len(resp.Questions))
	}
}

func TestVoteShowUnknownTokens(t *testing.T) {
	setupTestDB(t)
	r := voteRouter()
	fixturePoll(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/v/bogus/bogus", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown tokens, got %d", w.Code)
	}
}

func TestVoteSubmit(t *testing.T) {
	setupTestDB(t)
	r := voteRouter()
	poll := fixturePoll(t)
	q := poll.Questions[0]
	voter := poll.Participants[0]

	payload := map[string]interface{}{
		"answers": map[string][]uint{
			fmt.Sprintf("%d", q.ID): {q.Choices[0].ID},
		},
	}
	body, _ := json.Marshal(payload)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/v/"+poll.Token+"/"+voter.Token, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	// Resubmission maps the AlreadyVoted conflict to 409 with its code.
	w = httptest.NewRecorder()
	req = httptest.NewRequest("POST", "/v/"+poll.Token+"/"+voter.Token, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Fatalf("Expected 409 on resubmission, got %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.Code != "AlreadyVoted" {
		t.Errorf("Expected code AlreadyVoted, got %q", resp.Code)
	}
}

func TestVoteSubmitMissingAnswer(t *testing.T) {
	setupTestDB(t)
	r := voteRouter()
	poll := fixturePoll(t)
	voter := poll.Participants[0]

	body := []byte(`{"answers": {}}`)
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/v/"+poll.Token+"/"+voter.Token, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400 for missing answer, got %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.Code != "MissingRequiredAnswer" {
		t.Errorf("Expected code MissingRequiredAnswer, got %q", resp.Code)
	}
}
