package services

import (
	"errors"
	"testing"
	"time"

	"github.com/clubsplusplus/club_recruitment/models"
	"gorm.io/gorm"
)

func newTestScheduler(db *gorm.DB) *Scheduler {
	s := NewScheduler(db)
	s.Now = fixedNow
	return s
}

func morningRequest(formID uint) ScheduleRequest {
	return ScheduleRequest{
		FormID:              formID,
		Dates:               []DateSchedule{{Date: "2025-04-20", TimeRanges: []TimeRange{{StartTime: "10:00", EndTime: "12:00"}}}},
		SlotDurationMinutes: 30,
		PanelCount:          2,
	}
}

func clubAccount(clubID string) models.CurrentUser {
	return models.CurrentUser{UID: clubID, Email: clubID + "@clubs.local"}
}

func TestScheduleInterviews(t *testing.T) {
	db := newTestDB(t)
	f := seedForm(t, db, "music", 5)

	result, err := newTestScheduler(db).ScheduleInterviews(ctx, clubAccount("music"), morningRequest(f.form.ID))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if result.ScheduleID == 0 {
		t.Fatalf("expected a schedule id")
	}
	if result.SlotCount != 4 || result.PanelCount != 2 || result.EventCount != 5 {
		t.Fatalf("expected 4/2/5, got %d/%d/%d", result.SlotCount, result.PanelCount, result.EventCount)
	}
	if len(result.Invites) != 5 {
		t.Fatalf("expected 5 invites, got %d", len(result.Invites))
	}

	expected := []struct {
		start    string
		position int
	}{
		{"10:00", 1}, {"10:00", 2}, {"10:30", 1}, {"10:30", 2}, {"11:00", 1},
	}
	for i, inv := range result.Invites {
		if inv.ApplicationID != f.apps[i].ID {
			t.Fatalf("invite %d: expected application %d, got %d", i, f.apps[i].ID, inv.ApplicationID)
		}
		if inv.Email != f.users[i].Email {
			t.Fatalf("invite %d: expected email %s, got %s", i, f.users[i].Email, inv.Email)
		}
		if inv.Event.StartTime.String() != expected[i].start || inv.PanelPosition != expected[i].position {
			t.Fatalf("invite %d: expected %s panel %d, got %s panel %d", i, expected[i].start, expected[i].position, inv.Event.StartTime, inv.PanelPosition)
		}
	}

	if n := countRows(t, db, &models.CalendarEvent{}); n != 5 {
		t.Fatalf("expected 5 events, got %d", n)
	}
}

func TestScheduleInterviewsRerunDoesNotDuplicate(t *testing.T) {
	db := newTestDB(t)
	f := seedForm(t, db, "drama", 3)
	s := newTestScheduler(db)

	first, err := s.ScheduleInterviews(ctx, clubAccount("drama"), morningRequest(f.form.ID))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	second, err := s.ScheduleInterviews(ctx, clubAccount("drama"), morningRequest(f.form.ID))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if first.ScheduleID != second.ScheduleID {
		t.Fatalf("expected schedule %d, got %d", first.ScheduleID, second.ScheduleID)
	}
	if second.SlotCount != 4 || second.PanelCount != 2 || second.EventCount != 3 {
		t.Fatalf("expected 4/2/3, got %d/%d/%d", second.SlotCount, second.PanelCount, second.EventCount)
	}
	if len(second.Invites) != 0 {
		t.Fatalf("expected no invites on rerun, got %d", len(second.Invites))
	}
	checks := []struct {
		model any
		want  int64
	}{
		{&models.InterviewSchedule{}, 1},
		{&models.InterviewSlot{}, 4},
		{&models.InterviewPanel{}, 2},
		{&models.CalendarEvent{}, 3},
	}
	for _, c := range checks {
		if n := countRows(t, db, c.model); n != c.want {
			t.Fatalf("%T: expected %d rows, got %d", c.model, c.want, n)
		}
	}
}

func TestScheduleInterviewsByClubAdmin(t *testing.T) {
	db := newTestDB(t)
	f := seedForm(t, db, "art", 1)
	admin := models.User{UID: "curator", Email: "curator@students.example.edu"}
	poc := models.User{UID: "poc", Email: "poc@students.example.edu"}
	member := models.User{UID: "painter", Email: "painter@students.example.edu"}
	for _, u := range []models.User{admin, poc, member} {
		if err := db.Create(&u).Error; err != nil {
			t.Fatalf("seed user: %v", err)
		}
	}
	memberships := []models.ClubMember{
		{ClubID: "art", UserID: "curator", Role: models.ClubRoleAdmin},
		{ClubID: "art", UserID: "poc", Role: models.ClubRoleMember, IsPOC: true},
		{ClubID: "art", UserID: "painter", Role: models.ClubRoleMember},
	}
	if err := db.Create(&memberships).Error; err != nil {
		t.Fatalf("seed memberships: %v", err)
	}
	s := newTestScheduler(db)

	for _, uid := range []string{"curator", "poc"} {
		if _, err := s.ScheduleInterviews(ctx, models.CurrentUser{UID: uid}, morningRequest(f.form.ID)); err != nil {
			t.Fatalf("%s: expected no error, got %v", uid, err)
		}
	}

	_, err := s.ScheduleInterviews(ctx, models.CurrentUser{UID: "painter"}, morningRequest(f.form.ID))
	var authErr *AuthorizationError
	if !errors.As(err, &authErr) {
		t.Fatalf("expected AuthorizationError, got %v", err)
	}
}

func TestScheduleInterviewsRejectsNonAdmin(t *testing.T) {
	db := newTestDB(t)
	f := seedForm(t, db, "music", 2)

	_, err := newTestScheduler(db).ScheduleInterviews(ctx, models.CurrentUser{UID: "music.applicant1"}, morningRequest(f.form.ID))
	var authErr *AuthorizationError
	if !errors.As(err, &authErr) {
		t.Fatalf("expected AuthorizationError, got %v", err)
	}
	if n := countRows(t, db, &models.InterviewSchedule{}); n != 0 {
		t.Fatalf("expected no schedule rows, got %d", n)
	}
}

func TestScheduleInterviewsRejectsOpenForm(t *testing.T) {
	db := newTestDB(t)
	f := seedForm(t, db, "music", 2)
	future := fixedNow().Add(72 * time.Hour)
	if err := db.Model(&f.form).Update("deadline", future).Error; err != nil {
		t.Fatalf("extend deadline: %v", err)
	}

	_, err := newTestScheduler(db).ScheduleInterviews(ctx, clubAccount("music"), morningRequest(f.form.ID))
	var stateErr *StateError
	if !errors.As(err, &stateErr) {
		t.Fatalf("expected StateError, got %v", err)
	}
	if n := countRows(t, db, &models.InterviewSchedule{}); n != 0 {
		t.Fatalf("expected no schedule rows, got %d", n)
	}
}

func TestScheduleInterviewsUnknownForm(t *testing.T) {
	db := newTestDB(t)

	_, err := newTestScheduler(db).ScheduleInterviews(ctx, clubAccount("music"), morningRequest(404))
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestScheduleInterviewsCapacityExceededWritesNothing(t *testing.T) {
	db := newTestDB(t)
	f := seedForm(t, db, "quiz", 9)

	_, err := newTestScheduler(db).ScheduleInterviews(ctx, clubAccount("quiz"), morningRequest(f.form.ID))
	var capErr *CapacityExceededError
	if !errors.As(err, &capErr) {
		t.Fatalf("expected CapacityExceededError, got %v", err)
	}
	if capErr.Capacity != 8 || capErr.Overflow != 1 {
		t.Fatalf("expected capacity 8 overflow 1, got %+v", capErr)
	}
	for _, model := range []any{&models.InterviewSchedule{}, &models.InterviewSlot{}, &models.InterviewPanel{}, &models.CalendarEvent{}} {
		if n := countRows(t, db, model); n != 0 {
			t.Fatalf("%T: expected no rows, got %d", model, n)
		}
	}
}

func TestScheduleInterviewsRejectsOverlap(t *testing.T) {
	db := newTestDB(t)
	f := seedForm(t, db, "music", 1)
	req := morningRequest(f.form.ID)
	req.Dates[0].TimeRanges = append(req.Dates[0].TimeRanges, TimeRange{StartTime: "11:30", EndTime: "13:00"})

	_, err := newTestScheduler(db).ScheduleInterviews(ctx, clubAccount("music"), req)
	var overlap *OverlapError
	if !errors.As(err, &overlap) {
		t.Fatalf("expected OverlapError, got %v", err)
	}
	if n := countRows(t, db, &models.InterviewSchedule{}); n != 0 {
		t.Fatalf("expected no schedule rows, got %d", n)
	}
}

func TestScheduleInterviewsWithoutApplicants(t *testing.T) {
	db := newTestDB(t)
	f := seedForm(t, db, "chess", 0)

	result, err := newTestScheduler(db).ScheduleInterviews(ctx, clubAccount("chess"), morningRequest(f.form.ID))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.SlotCount != 4 || result.PanelCount != 2 || result.EventCount != 0 {
		t.Fatalf("expected 4/2/0, got %d/%d/%d", result.SlotCount, result.PanelCount, result.EventCount)
	}
}

func TestDeletingFormRemovesSchedule(t *testing.T) {
	db := newTestDB(t)
	f := seedForm(t, db, "music", 3)
	if _, err := newTestScheduler(db).ScheduleInterviews(ctx, clubAccount("music"), morningRequest(f.form.ID)); err != nil {
		t.Fatalf("schedule: %v", err)
	}

	if err := db.Delete(&models.Form{}, f.form.ID).Error; err != nil {
		t.Fatalf("delete form: %v", err)
	}

	for _, model := range []any{&models.InterviewSchedule{}, &models.InterviewSlot{}, &models.InterviewPanel{}, &models.CalendarEvent{}, &models.Application{}} {
		if n := countRows(t, db, model); n != 0 {
			t.Fatalf("%T: expected cascade to remove all rows, got %d", model, n)
		}
	}
}

func TestScheduleInterviewsRerunKeepsPanelSet(t *testing.T) {
	db := newTestDB(t)
	f := seedForm(t, db, "film", 4)
	s := newTestScheduler(db)

	req := morningRequest(f.form.ID)
	req.PanelCount = 1
	if _, err := s.ScheduleInterviews(ctx, clubAccount("film"), req); err != nil {
		t.Fatalf("first run: %v", err)
	}

	late := models.User{UID: "film.late", Email: "late@students.example.edu"}
	if err := db.Create(&late).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	if err := db.Create(&models.Application{FormID: f.form.ID, UserID: late.UID}).Error; err != nil {
		t.Fatalf("seed application: %v", err)
	}

	// more panels are requested, but the stored single panel is what gets used
	// and all four of its pairs are booked
	req.PanelCount = 2
	_, err := s.ScheduleInterviews(ctx, clubAccount("film"), req)
	var capErr *CapacityExceededError
	if !errors.As(err, &capErr) {
		t.Fatalf("expected CapacityExceededError, got %v", err)
	}
	if capErr.Applicants != 1 || capErr.Capacity != 0 || capErr.Overflow != 1 {
		t.Fatalf("expected applicants 1 capacity 0 overflow 1, got %+v", capErr)
	}
	if n := countRows(t, db, &models.InterviewPanel{}); n != 1 {
		t.Fatalf("expected 1 panel row, got %d", n)
	}

	req.Dates[0].TimeRanges = append(req.Dates[0].TimeRanges, TimeRange{StartTime: "14:00", EndTime: "14:30"})
	result, err := s.ScheduleInterviews(ctx, clubAccount("film"), req)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.EventCount != 5 || len(result.Created) != 1 || len(result.Invites) != 1 {
		t.Fatalf("expected 5 events with 1 new, got %d with %d new", result.EventCount, len(result.Created))
	}
	if inv := result.Invites[0]; inv.Email != late.Email || inv.Event.StartTime.String() != "14:00" {
		t.Fatalf("expected late applicant at 14:00, got %s at %s", inv.Email, inv.Event.StartTime)
	}
	if n := countRows(t, db, &models.CalendarEvent{}); n != 5 {
		t.Fatalf("expected 5 event rows, got %d", n)
	}
}

func TestScheduleInterviewsRerunKeepsExistingBookings(t *testing.T) {
	db := newTestDB(t)
	f := seedForm(t, db, "debate", 2)
	s := newTestScheduler(db)

	first, err := s.ScheduleInterviews(ctx, clubAccount("debate"), morningRequest(f.form.ID))
	if err != nil {
		t.Fatalf("first run: %v", err)
	}

	req := morningRequest(f.form.ID)
	req.Dates = []DateSchedule{{Date: "2025-04-21", TimeRanges: []TimeRange{{StartTime: "14:00", EndTime: "15:00"}}}}
	second, err := s.ScheduleInterviews(ctx, clubAccount("debate"), req)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}

	if second.EventCount != 2 {
		t.Fatalf("expected 2 events, got %d", second.EventCount)
	}
	if len(second.Created) != 0 || len(second.Invites) != 0 {
		t.Fatalf("expected nothing new, got %d events and %d invites", len(second.Created), len(second.Invites))
	}
	for i, e := range second.Events {
		if e.ID != first.Events[i].ID {
			t.Fatalf("event %d: expected id %d, got %d", i, first.Events[i].ID, e.ID)
		}
	}
	if n := countRows(t, db, &models.CalendarEvent{}); n != 2 {
		t.Fatalf("expected 2 event rows, got %d", n)
	}
	for _, app := range f.apps {
		var n int64
		if err := db.Model(&models.CalendarEvent{}).Where("visible_to_user = ?", app.UserID).Count(&n).Error; err != nil {
			t.Fatalf("count events: %v", err)
		}
		if n != 1 {
			t.Fatalf("%s: expected 1 event, got %d", app.UserID, n)
		}
	}
}

func TestScheduleInterviewsRejectsRepeatedDateOverlap(t *testing.T) {
	db := newTestDB(t)
	f := seedForm(t, db, "music", 1)
	req := morningRequest(f.form.ID)
	window := DateSchedule{Date: "2025-04-20", TimeRanges: []TimeRange{{StartTime: "10:00", EndTime: "11:00"}}}
	req.Dates = []DateSchedule{window, window}

	_, err := newTestScheduler(db).ScheduleInterviews(ctx, clubAccount("music"), req)
	var overlap *OverlapError
	if !errors.As(err, &overlap) {
		t.Fatalf("expected OverlapError, got %v", err)
	}
	for _, model := range []any{&models.InterviewSchedule{}, &models.InterviewSlot{}, &models.CalendarEvent{}} {
		if n := countRows(t, db, model); n != 0 {
			t.Fatalf("%T: expected no rows, got %d", model, n)
		}
	}
}
