package jobs

import (
	"context"
	"log"
	"time"

	"github.com/clubsplusplus/club_recruitment/models"
	"github.com/clubsplusplus/club_recruitment/notifications"
	"gorm.io/gorm"
)

// ReminderSpec matches Window so that each event falls in exactly one run.
const ReminderSpec = "*/5 * * * *"

// ReminderJob emails applicants whose interview starts between Lead and
// Lead+Window from now. Event dates and times are wall-clock values in Location.
type ReminderJob struct {
	DB       *gorm.DB
	Mailer   notifications.Sender
	Location *time.Location
	Lead     time.Duration
	Window   time.Duration
	Now      func() time.Time
}

func NewReminderJob(db *gorm.DB, mailer notifications.Sender, loc *time.Location, lead time.Duration) *ReminderJob {
	return &ReminderJob{
		DB:       db,
		Mailer:   mailer,
		Location: loc,
		Lead:     lead,
		Window:   5 * time.Minute,
		Now:      time.Now,
	}
}

// SendInterviewReminders is the cron entry point.
func (j *ReminderJob) SendInterviewReminders() {
	log.Println("Running job: SendInterviewReminders...")
	if _, err := j.Run(context.Background()); err != nil {
		log.Printf("🔥 Error sending interview reminders: %v", err)
	}
}

// Run sends the reminders that are due and returns how many were sent.
func (j *ReminderJob) Run(ctx context.Context) (int, error) {
	if j.Mailer == nil {
		log.Println("Email client not initialized, skipping reminders.")
		return 0, nil
	}
	events, err := j.dueEvents(ctx)
	if err != nil {
		return 0, err
	}
	if len(events) == 0 {
		return 0, nil
	}

	uids := make([]string, 0, len(events))
	for _, e := range events {
		uids = append(uids, *e.VisibleToUser)
	}
	var users []models.User
	if err := j.DB.WithContext(ctx).Where("uid IN ?", uids).Find(&users).Error; err != nil {
		return 0, err
	}
	byUID := make(map[string]models.User, len(users))
	for _, u := range users {
		byUID[u.UID] = u
	}

	sent := 0
	for _, e := range events {
		user, ok := byUID[*e.VisibleToUser]
		if !ok {
			log.Printf("⚠️ No user %s for interview event %d", *e.VisibleToUser, e.ID)
			continue
		}
		interview := notifications.Interview{
			Name:     user.FullName(),
			FormName: e.Schedule.Form.Name,
			Panel:    e.Panel.Position,
			Starts:   e.Starts(j.Location),
			Ends:     e.Ends(j.Location),
		}
		log.Printf("Sending interview reminder for event ID: %d", e.ID)
		if err := j.Mailer.Send(ctx,
			notifications.Recipient{Name: user.FullName(), Email: user.Email},
			notifications.ReminderSubject(interview.FormName),
			notifications.ReminderBody(interview, j.Lead),
		); err != nil {
			log.Printf("🔥 Failed to send reminder to %s: %v", user.Email, err)
			continue
		}
		sent++
	}

	log.Printf("✅ Sent %d interview reminder(s).", sent)
	return sent, nil
}

func (j *ReminderJob) dueEvents(ctx context.Context) ([]models.CalendarEvent, error) {
	// cron fires a little after the minute; consecutive windows must tile
	now := j.Now().In(j.Location).Truncate(time.Minute)
	lower := now.Add(j.Lead)
	upper := lower.Add(j.Window)

	lowerDate, upperDate := models.DateOf(lower), models.DateOf(upper)
	lowerClock, upperClock := models.ClockOf(lower), models.ClockOf(upper)

	q := j.DB.WithContext(ctx).
		Preload("Schedule.Form").
		Preload("Panel").
		Where("type = ? AND visible_to_user IS NOT NULL", models.CalendarEventInterview)

	if lowerDate.Equal(upperDate.Time) {
		q = q.Where("date = ? AND start_time >= ? AND start_time < ?", lowerDate, lowerClock, upperClock)
	} else {
		// window crosses midnight
		q = q.Where(
			j.DB.Where("date = ? AND start_time >= ?", lowerDate, lowerClock).
				Or("date = ? AND start_time < ?", upperDate, upperClock),
		)
	}

	var events []models.CalendarEvent
	if err := q.Order("date asc, start_time asc, id asc").Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}
