package handlers

import (
	"context"
	"log"
	"strconv"
	"time"

	config "github.com/clubsplusplus/club_recruitment/configs"
	"github.com/clubsplusplus/club_recruitment/middleware"
	"github.com/clubsplusplus/club_recruitment/models"
	"github.com/clubsplusplus/club_recruitment/notifications"
	"github.com/clubsplusplus/club_recruitment/services"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

type InterviewScheduleRequest struct {
	SlotDurationMinutes int                     `json:"slotDurationMinutes"`
	InterviewPanelCount int                     `json:"interviewPanelCount"`
	Dates               []services.DateSchedule `json:"dates" validate:"dive"`
	TotalInterviewSlots int                     `json:"totalInterviewSlots"`
}

type ScheduleInterviewsRequest struct {
	FormID            uint                     `json:"formId" validate:"required"`
	InterviewSchedule InterviewScheduleRequest `json:"interviewSchedule"`
}

// EventPublisher receives events right after they are written.
type EventPublisher interface {
	Publish(events []models.CalendarEvent)
}

type InterviewHandler struct {
	Scheduler *services.Scheduler
	Store     *services.ScheduleStore
	Mailer    notifications.Sender
	Events    EventPublisher
	Location  *time.Location
	Limits    config.SchedulingSettings
}

func (h *InterviewHandler) ScheduleInterviews(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	var req ScheduleInterviewsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	cfg := req.InterviewSchedule
	if h.Limits.MaxSlotMinutes > 0 && cfg.SlotDurationMinutes > h.Limits.MaxSlotMinutes {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "slotDurationMinutes may not exceed " + strconv.Itoa(h.Limits.MaxSlotMinutes),
			"field": "slotDurationMinutes",
		})
	}
	if h.Limits.MaxPanels > 0 && cfg.InterviewPanelCount > h.Limits.MaxPanels {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "interviewPanelCount may not exceed " + strconv.Itoa(h.Limits.MaxPanels),
			"field": "interviewPanelCount",
		})
	}

	result, err := h.Scheduler.ScheduleInterviews(c.UserContext(), user, services.ScheduleRequest{
		FormID:              req.FormID,
		Dates:               cfg.Dates,
		SlotDurationMinutes: cfg.SlotDurationMinutes,
		PanelCount:          cfg.InterviewPanelCount,
	})
	if err != nil {
		return respondError(c, err)
	}

	if capacity := result.SlotCount * result.PanelCount; cfg.TotalInterviewSlots != 0 && cfg.TotalInterviewSlots != capacity {
		log.Printf("⚠️ Form %d: client expected %d interview slot(s), scheduled capacity is %d",
			req.FormID, cfg.TotalInterviewSlots, capacity)
	}

	if h.Events != nil && len(result.Created) > 0 {
		h.Events.Publish(result.Created)
	}
	if h.Mailer != nil && len(result.Invites) > 0 {
		go h.sendInvites(result.Invites)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Interviews scheduled successfully",
		"details": result,
	})
}

func (h *InterviewHandler) sendInvites(invites []services.Invite) {
	ctx := context.Background()
	for _, inv := range invites {
		interview := notifications.Interview{
			Name:     inv.Name,
			FormName: inv.FormName,
			Panel:    inv.PanelPosition,
			Starts:   inv.Event.Starts(h.location()),
			Ends:     inv.Event.Ends(h.location()),
		}
		notifications.SendEmail(ctx, h.Mailer,
			notifications.Recipient{Name: inv.Name, Email: inv.Email},
			notifications.InviteSubject(inv.FormName),
			notifications.InviteBody(interview),
		)
	}
}

// GetFormSchedule returns the form's schedule with slots and panels. Only club
// admins may look.
func (h *InterviewHandler) GetFormSchedule(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	formID, err := strconv.ParseUint(c.Params("formId"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid form ID"})
	}

	ctx := c.UserContext()
	form, err := h.Scheduler.Forms.GetForm(ctx, uint(formID))
	if err != nil {
		return respondError(c, err)
	}
	isAdmin, err := h.Scheduler.Directory.IsAdminOfClub(ctx, user.UID, form.ClubID)
	if err != nil {
		return respondError(c, err)
	}
	if !isAdmin {
		return respondError(c, &services.AuthorizationError{UID: user.UID, ClubID: form.ClubID})
	}

	schedule, err := h.Store.ScheduleForForm(ctx, form.ID, form.ClubID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(schedule)
}

func (h *InterviewHandler) location() *time.Location {
	if h.Location == nil {
		return time.UTC
	}
	return h.Location
}
