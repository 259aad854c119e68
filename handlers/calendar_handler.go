package handlers

import (
	"fmt"
	"strconv"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/clubsplusplus/club_recruitment/middleware"
	"github.com/clubsplusplus/club_recruitment/models"
	"github.com/clubsplusplus/club_recruitment/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// calendarNamespace seeds the deterministic UIDs of exported events.
var calendarNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://clubsplusplus.com/calendar"))

type CalendarHandler struct {
	DB        *gorm.DB
	Directory services.ClubDirectory
	Location  *time.Location
}

func (h *CalendarHandler) visibleEvents(c *fiber.Ctx) ([]models.CalendarEvent, error) {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return nil, err
	}
	ctx := c.UserContext()
	clubIDs, err := h.Directory.ClubIDsForMember(ctx, user.UID)
	if err != nil {
		return nil, err
	}
	return services.VisibleEvents(ctx, h.DB, user.UID, clubIDs)
}

func (h *CalendarHandler) GetEvents(c *fiber.Ctx) error {
	events, err := h.visibleEvents(c)
	if err == middleware.ErrNoUser {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"events": events})
}

// GetEventsICS serves the same events as an iCalendar feed.
func (h *CalendarHandler) GetEventsICS(c *fiber.Ctx) error {
	events, err := h.visibleEvents(c)
	if err == middleware.ErrNoUser {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}
	if err != nil {
		return respondError(c, err)
	}

	c.Set(fiber.HeaderContentType, "text/calendar; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="interviews.ics"`)
	return c.SendString(BuildCalendar(events, h.location()).Serialize())
}

// BuildCalendar renders events as VEVENTs. Event dates and times are read as
// wall-clock values in loc.
func BuildCalendar(events []models.CalendarEvent, loc *time.Location) *ical.Calendar {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId("-//Clubs Plus Plus//Interviews//EN")
	cal.SetXWRCalName("Clubs Plus Plus")
	cal.SetXWRTimezone(loc.String())

	for _, e := range events {
		ev := cal.AddEvent(EventUID(e))
		ev.SetCreatedTime(e.CreatedAt)
		ev.SetDtStampTime(e.CreatedAt)
		ev.SetStartAt(e.Starts(loc))
		ev.SetEndAt(e.Ends(loc))
		ev.SetSummary(e.Title)
		ev.SetDescription(fmt.Sprintf("%s event for club %s", e.Type, e.ClubID))
	}
	return cal
}

// EventUID is stable across exports so calendar clients update in place.
func EventUID(e models.CalendarEvent) string {
	name := strconv.FormatUint(uint64(e.ID), 10) + "/" + strconv.FormatUint(uint64(e.InterviewScheduleID), 10)
	return uuid.NewSHA1(calendarNamespace, []byte(name)).String() + "@clubsplusplus.com"
}

func (h *CalendarHandler) location() *time.Location {
	if h.Location == nil {
		return time.UTC
	}
	return h.Location
}
