package db

import (
	"log"
	"os"
	"pollbox/internal/models"
	"pollbox/internal/utils"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		// Fallback for local dev if not set
		dsn = "host=localhost user=postgres password=postgres dbname=pollbox port=5432 sslmode=disable TimeZone=UTC"
	}

	var err error
	// TranslateError lets unique-index violations surface as
	// gorm.ErrDuplicatedKey, which the vote engine relies on.
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	log.Println("Database connection established")

	if err := Migrate(DB); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed")

	seedOperator()
}

// Migrate creates or updates the schema. Split out so tests can run it
// against their own database handle.
func Migrate(g *gorm.DB) error {
	return g.AutoMigrate(
		&models.User{},
		&models.Organization{},
		&models.Membership{},
		&models.Poll{},
		&models.Question{},
		&models.Choice{},
		&models.Participant{},
		&models.Vote{},
	)
}

// seedOperator bootstraps a first organization and admin membership from the
// environment so a fresh deployment is usable without direct SQL.
func seedOperator() {
	email := os.Getenv("SEED_ADMIN_EMAIL")
	password := os.Getenv("SEED_ADMIN_PASSWORD")
	orgName := os.Getenv("SEED_ORG_NAME")
	if email == "" || password == "" || orgName == "" {
		return
	}

	var count int64
	DB.Model(&models.User{}).Count(&count)
	if count > 0 {
		log.Println("Users already present, skipping operator seed")
		return
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		log.Printf("Failed to hash seed password: %v", err)
		return
	}

	err = DB.Transaction(func(tx *gorm.DB) error {
		org := models.Organization{
			Name:      orgName,
			PaidUntil: time.Now().AddDate(1, 0, 0),
			Timezone:  "UTC",
		}
		if err := tx.Create(&org).Error; err != nil {
			return err
		}
		user := models.User{Name: "Operator", Email: email, Password: hash}
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		membership := models.Membership{
			UserID:         user.ID,
			OrganizationID: org.ID,
			IsAdmin:        true,
		}
		return tx.Create(&membership).Error
	})
	if err != nil {
		log.Printf("Failed to seed operator: %v", err)
		return
	}
	log.Printf("Seeded operator %s in organization %q", email, orgName)
}
