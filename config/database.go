package config

import (
	"fmt"
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/curbline/api-go/models"
)

// InitDB opens the database and migrates the schema. TranslateError makes
// unique-index violations surface as gorm.ErrDuplicatedKey, which the store
// layer relies on to arbitrate concurrent ledger inserts.
func InitDB() (*gorm.DB, error) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
			os.Getenv("DB_HOST"), os.Getenv("DB_USER"), os.Getenv("DB_PASSWORD"),
			os.Getenv("DB_NAME"), os.Getenv("DB_PORT"))
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Post{},
		&models.Gig{},
		&models.SkateSpot{},
		&models.TrickVideo{},
		&models.ForumTopic{},
		&models.CommuteAlert{},
		&models.InteractionRecord{},
		&models.Comment{},
		&models.Report{},
		&models.ModerationAction{},
		&models.UserWarning{},
		&models.Campaign{},
		&models.DailySpend{},
		&models.PromotedPost{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return db, nil
}
