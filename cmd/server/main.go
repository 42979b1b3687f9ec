package main

import (
	"log"
	"os"
	"pollbox/internal/db"
	"pollbox/internal/handlers"
	"pollbox/internal/middleware"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, finding env vars from system")
	}

	// Initialize Database
	db.Init()

	// Initialize Gin
	r := gin.Default()

	// Setup Sessions
	secret := os.Getenv("SESSION_SECRET")
	if secret == "" {
		secret = "secret_key_change_me"
	}
	store := cookie.NewStore([]byte(secret))
	r.Use(sessions.Sessions("pollbox_session", store))

	// Middleware
	r.Use(middleware.LoadUser())

	// Handlers
	authHandler := handlers.NewAuthHandler()
	orgHandler := handlers.NewOrgHandler()
	pollHandler := handlers.NewPollHandler()
	voteHandler := handlers.NewVoteHandler()

	// Public Routes
	r.POST("/login", authHandler.Login)
	r.POST("/logout", authHandler.Logout)

	// Voting links sent by email; the tokens are the credential
	r.GET("/v/:poll/:participant", voteHandler.Show)
	r.POST("/v/:poll/:participant", voteHandler.Submit)

	// Creator API
	api := r.Group("/api")
	api.Use(middleware.AuthRequired())
	{
		api.GET("/me", authHandler.Me)
		api.GET("/organizations", orgHandler.List)
		api.POST("/organizations/select", orgHandler.Select)

		api.POST("/polls", pollHandler.Create)
		api.GET("/polls", pollHandler.List)
		api.GET("/polls/:id", pollHandler.Detail)
		api.POST("/polls/:id/start", pollHandler.Start)
		api.POST("/polls/:id/end", pollHandler.End)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Pollbox server starting on :%s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatal(err)
	}
}
