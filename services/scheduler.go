package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/clubsplusplus/club_recruitment/models"
	"gorm.io/gorm"
)

type ScheduleRequest struct {
	FormID              uint
	Dates               []DateSchedule
	SlotDurationMinutes int
	PanelCount          int
}

// Invite is what an applicant needs to know about their interview.
type Invite struct {
	ApplicationID uint
	Name          string
	Email         string
	FormName      string
	PanelPosition int
	Event         models.CalendarEvent
}

type ScheduleResult struct {
	ScheduleID uint                   `json:"schedule_id"`
	SlotCount  int                    `json:"slot_count"`
	PanelCount int                    `json:"panel_count"`
	EventCount int                    `json:"event_count"`
	Events     []models.CalendarEvent `json:"-"`
	Created    []models.CalendarEvent `json:"-"`
	Invites    []Invite               `json:"-"`
}

type Scheduler struct {
	Directory    ClubDirectory
	Forms        FormStore
	Applications ApplicationStore
	Store        *ScheduleStore
	Calendar     *CalendarMaterializer
	Now          func() time.Time
}

// NewScheduler wires the pipeline against a single database handle.
func NewScheduler(db *gorm.DB) *Scheduler {
	recruitment := NewRecruitment(db)
	return &Scheduler{
		Directory:    recruitment,
		Forms:        recruitment,
		Applications: recruitment,
		Store:        NewScheduleStore(db),
		Calendar:     NewCalendarMaterializer(db),
		Now:          time.Now,
	}
}

// ScheduleInterviews runs validate, generate, persist, allocate and
// materialize for one form. Authorization, form state, input and capacity are
// all checked before anything is written. Applicants who already hold an
// interview on the form's schedule keep it; only the others are allocated.
func (s *Scheduler) ScheduleInterviews(ctx context.Context, user models.CurrentUser, req ScheduleRequest) (*ScheduleResult, error) {
	form, err := s.Forms.GetForm(ctx, req.FormID)
	if err != nil {
		return nil, err
	}

	isAdmin, err := s.Directory.IsAdminOfClub(ctx, user.UID, form.ClubID)
	if err != nil {
		return nil, err
	}
	if !isAdmin {
		return nil, &AuthorizationError{UID: user.UID, ClubID: form.ClubID}
	}

	if form.IsOpen(s.now()) {
		return nil, &StateError{FormID: form.ID, Deadline: *form.Deadline}
	}

	windows, err := ValidateWindows(req.Dates, req.SlotDurationMinutes, req.PanelCount)
	if err != nil {
		return nil, err
	}
	generated := GenerateSlots(windows, req.SlotDurationMinutes)

	applications, err := s.Applications.ApplicationsForForm(ctx, form.ID)
	if err != nil {
		return nil, err
	}
	existing, booked, err := s.existingBookings(ctx, form)
	if err != nil {
		return nil, err
	}
	pending := make([]Applicant, 0, len(applications))
	byID := make(map[uint]models.Application, len(applications))
	for _, app := range applications {
		byID[app.ID] = app
		if _, ok := booked[app.UserID]; !ok {
			pending = append(pending, Applicant{ApplicationID: app.ID, UserID: app.UserID})
		}
	}
	if free := freeCapacity(existing, booked, generated, req.PanelCount); len(pending) > free {
		return nil, &CapacityExceededError{
			Applicants: len(pending),
			Capacity:   free,
			Overflow:   len(pending) - free,
		}
	}

	schedule, err := s.Store.CreateSchedule(ctx, form.ClubID, form.ID, req.SlotDurationMinutes, req.PanelCount)
	if err != nil {
		return nil, err
	}
	slotIDs, err := s.Store.CreateSlots(ctx, schedule.ID, form.ClubID, generated)
	if err != nil {
		return nil, err
	}
	panelIDs, err := s.Store.CreatePanels(ctx, schedule.ID, form.ClubID, req.PanelCount)
	if err != nil {
		return nil, err
	}

	taken := make(map[Pair]bool, len(booked))
	for _, e := range booked {
		taken[Pair{SlotID: e.InterviewSlotID, PanelID: e.PanelID}] = true
	}
	alloc, err := AllocatePairs(OpenPairs(slotIDs, panelIDs, taken), pending)
	if err != nil {
		return nil, err
	}

	created, err := s.Calendar.Materialize(ctx, schedule, form.Name, alloc.Assignments)
	if err != nil {
		return nil, err
	}
	for _, e := range created {
		booked[*e.VisibleToUser] = e
	}

	positions := make(map[uint]int, len(panelIDs))
	for i, id := range panelIDs {
		positions[id] = i + 1
	}
	invites := make([]Invite, 0, len(created))
	for i, a := range alloc.Assignments {
		app := byID[a.ApplicationID]
		invites = append(invites, Invite{
			ApplicationID: a.ApplicationID,
			Name:          app.User.FullName(),
			Email:         app.User.Email,
			FormName:      form.Name,
			PanelPosition: positions[a.PanelID],
			Event:         created[i],
		})
	}

	events := make([]models.CalendarEvent, 0, len(applications))
	for _, app := range applications {
		if e, ok := booked[app.UserID]; ok {
			events = append(events, e)
		}
	}

	log.Printf("✅ Scheduled interviews for form %d: %d slot(s), %d panel(s), %d event(s), %d new",
		form.ID, len(slotIDs), len(panelIDs), len(events), len(created))

	return &ScheduleResult{
		ScheduleID: schedule.ID,
		SlotCount:  len(slotIDs),
		PanelCount: len(panelIDs),
		EventCount: len(events),
		Events:     events,
		Created:    created,
		Invites:    invites,
	}, nil
}

// existingBookings returns the form's stored schedule, or nil before the first
// run, with its interview events keyed by the applicant they belong to.
func (s *Scheduler) existingBookings(ctx context.Context, form models.Form) (*models.InterviewSchedule, map[string]models.CalendarEvent, error) {
	booked := make(map[string]models.CalendarEvent)
	existing, err := s.Store.ScheduleForForm(ctx, form.ID, form.ClubID)
	var nf *NotFoundError
	if errors.As(err, &nf) {
		return nil, booked, nil
	}
	if err != nil {
		return nil, nil, err
	}
	events, err := s.Calendar.EventsForSchedule(ctx, existing.ID)
	if err != nil {
		return nil, nil, err
	}
	for _, e := range events {
		if e.VisibleToUser != nil {
			booked[*e.VisibleToUser] = e
		}
	}
	return existing, booked, nil
}

// freeCapacity counts the (slot, panel) pairs a run can still hand out. An
// existing schedule keeps its panel set and pairs already booked are not free.
func freeCapacity(existing *models.InterviewSchedule, booked map[string]models.CalendarEvent, generated []GeneratedSlot, requestedPanels int) int {
	if existing == nil || len(existing.Panels) == 0 {
		return Capacity(len(generated), requestedPanels)
	}
	taken := make(map[string]bool, len(booked))
	for _, e := range booked {
		taken[pairKey(e.Date, e.StartTime, e.EndTime, e.PanelID)] = true
	}
	free := 0
	for _, gs := range generated {
		for _, panel := range existing.Panels {
			if !taken[pairKey(gs.Date, models.ClockOf(gs.Start), models.ClockOf(gs.End), panel.ID)] {
				free++
			}
		}
	}
	return free
}

func pairKey(date models.Date, start, end models.ClockTime, panelID uint) string {
	return fmt.Sprintf("%s %s-%s #%d", date, start, end, panelID)
}

func (s *Scheduler) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}
