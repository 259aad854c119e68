package notifications

import (
	"fmt"
	"html"
	"time"
)

// Interview holds what the invite and reminder emails show.
type Interview struct {
	Name     string
	FormName string
	Panel    int
	Starts   time.Time
	Ends     time.Time
}

func InviteSubject(formName string) string {
	return fmt.Sprintf("Your interview for %s is scheduled", formName)
}

func InviteBody(i Interview) string {
	return fmt.Sprintf(
		"<h1>Interview Scheduled</h1><p>Hi %s,</p><p>Your interview for <b>%s</b> is on %s from %s to %s with panel %d.</p><p>It is also on your Clubs Plus Plus calendar.</p>",
		html.EscapeString(i.Name),
		html.EscapeString(i.FormName),
		i.Starts.Format("Monday, 2 January 2006"),
		i.Starts.Format(time.Kitchen),
		i.Ends.Format(time.Kitchen),
		i.Panel,
	)
}

func ReminderSubject(formName string) string {
	return fmt.Sprintf("Reminder: your %s interview is coming up", formName)
}

func ReminderBody(i Interview, lead time.Duration) string {
	return fmt.Sprintf(
		"<h1>Interview Reminder</h1><p>Hi %s,</p><p>This is a friendly reminder that your interview for <b>%s</b> starts within %d minutes, at %s.</p>",
		html.EscapeString(i.Name),
		html.EscapeString(i.FormName),
		int(lead.Minutes()),
		i.Starts.Format(time.Kitchen),
	)
}
