package services

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/clubsplusplus/club_recruitment/database"
	"github.com/clubsplusplus/club_recruitment/models"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_pragma=foreign_keys(1)", name)
	db, err := gorm.Open(sqlite.Open(dsn), database.GormConfig("silent"))
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

type fixture struct {
	club  models.Club
	form  models.Form
	users []models.User
	apps  []models.Application
}

// seedForm creates a closed form for clubID with one application per applicant.
func seedForm(t *testing.T, db *gorm.DB, clubID string, applicants int) fixture {
	t.Helper()
	f := fixture{club: models.Club{CID: clubID, Name: "Club " + clubID}}
	if err := db.Create(&models.User{UID: clubID, Email: clubID + "@clubs.local", FirstName: f.club.Name}).Error; err != nil {
		t.Fatalf("seed club account: %v", err)
	}
	if err := db.Create(&f.club).Error; err != nil {
		t.Fatalf("seed club: %v", err)
	}

	deadline := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	f.form = models.Form{Name: "Recruitment " + clubID, ClubID: clubID, Deadline: &deadline}
	if err := db.Create(&f.form).Error; err != nil {
		t.Fatalf("seed form: %v", err)
	}

	for i := 0; i < applicants; i++ {
		uid := fmt.Sprintf("%s.applicant%d", clubID, i+1)
		user := models.User{UID: uid, Email: uid + "@students.example.edu", FirstName: "Applicant", LastName: fmt.Sprint(i + 1)}
		if err := db.Create(&user).Error; err != nil {
			t.Fatalf("seed user: %v", err)
		}
		app := models.Application{FormID: f.form.ID, UserID: uid, Status: models.ApplicationOngoing}
		if err := db.Create(&app).Error; err != nil {
			t.Fatalf("seed application: %v", err)
		}
		f.users = append(f.users, user)
		f.apps = append(f.apps, app)
	}
	return f
}

func countRows(t *testing.T, db *gorm.DB, model any) int64 {
	t.Helper()
	var n int64
	if err := db.Model(model).Count(&n).Error; err != nil {
		t.Fatalf("count %T: %v", model, err)
	}
	return n
}

func fixedNow() time.Time { return time.Date(2025, 4, 10, 9, 0, 0, 0, time.UTC) }

var ctx = context.Background()
