package database

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	config "github.com/clubsplusplus/club_recruitment/configs"
	"github.com/clubsplusplus/club_recruitment/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

// ConnectDB opens the Postgres handle that every service receives explicitly.
func ConnectDB(settings config.Settings) (*gorm.DB, error) {
	if settings.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL is not set")
	}

	db, err := gorm.Open(postgres.Open(settings.DatabaseURL), GormConfig(settings.SQLLogLevel))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	fmt.Println("✅ Database connected successfully")
	return db, nil
}

// GormConfig keeps foreign keys on so that deleting a form cascades to its
// interview schedule, slots, panels and events.
func GormConfig(sqlLogLevel string) *gorm.Config {
	return &gorm.Config{
		PrepareStmt:                              false,
		SkipDefaultTransaction:                   true,
		DisableForeignKeyConstraintWhenMigrating: false,
		Logger:                                   NewLogger(sqlLogLevel),
	}
}

func NewLogger(level string) gormLogger.Interface {
	return gormLogger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		gormLogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  parseLogLevel(level),
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
}

func parseLogLevel(level string) gormLogger.LogLevel {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "silent":
		return gormLogger.Silent
	case "error":
		return gormLogger.Error
	case "info":
		return gormLogger.Info
	default:
		return gormLogger.Warn
	}
}

func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Club{},
		&models.ClubMember{},
		&models.Form{},
		&models.Application{},
		&models.InterviewSchedule{},
		&models.InterviewSlot{},
		&models.InterviewPanel{},
		&models.CalendarEvent{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	fmt.Println("✅ Database migration successful")
	return nil
}

// SeedClub makes sure the configured club and its service account exist.
func SeedClub(db *gorm.DB, settings config.Settings) error {
	if settings.SeedClubID == "" {
		return nil
	}

	var count int64
	if err := db.Model(&models.Club{}).Where("cid = ?", settings.SeedClubID).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check for club %s: %w", settings.SeedClubID, err)
	}
	if count > 0 {
		log.Printf("Club %s already exists.", settings.SeedClubID)
		return nil
	}

	name := settings.SeedClubName
	if name == "" {
		name = settings.SeedClubID
	}
	email := settings.SeedClubEmail
	if email == "" {
		email = settings.SeedClubID + "@clubs.local"
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		account := models.User{UID: settings.SeedClubID, Email: email, FirstName: name}
		if err := tx.Where("uid = ?", account.UID).FirstOrCreate(&account).Error; err != nil {
			return err
		}
		club := models.Club{CID: settings.SeedClubID, Name: name, Email: &email}
		return tx.Create(&club).Error
	})
	if err != nil {
		return fmt.Errorf("failed to seed club %s: %w", settings.SeedClubID, err)
	}

	log.Printf("✅ Club %s seeded successfully", settings.SeedClubID)
	return nil
}
