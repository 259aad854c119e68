package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"slices"

	"github.com/clubsplusplus/club_recruitment/models"
	"gorm.io/gorm"
)

type CalendarMaterializer struct {
	DB *gorm.DB
}

func NewCalendarMaterializer(db *gorm.DB) *CalendarMaterializer {
	return &CalendarMaterializer{DB: db}
}

func InterviewTitle(formName string) string {
	return fmt.Sprintf("%s Interview", formName)
}

// Materialize writes one interview event per assignment and returns them in
// assignment order. An assignment whose (schedule, slot, panel) already has an
// event reuses that row, so a retried run converges on the same set.
func (m *CalendarMaterializer) Materialize(ctx context.Context, schedule models.InterviewSchedule, formName string, assignments []Assignment) ([]models.CalendarEvent, error) {
	events := make([]models.CalendarEvent, 0, len(assignments))
	if len(assignments) == 0 {
		return events, nil
	}

	err := m.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		slots, err := slotsByID(tx, schedule.ID, assignments)
		if err != nil {
			return err
		}
		panels, err := panelsByID(tx, schedule.ID, assignments)
		if err != nil {
			return err
		}

		for _, a := range assignments {
			slot, ok := slots[a.SlotID]
			if !ok {
				return fmt.Errorf("slot %d does not belong to schedule %d", a.SlotID, schedule.ID)
			}
			panel, ok := panels[a.PanelID]
			if !ok {
				return fmt.Errorf("panel %d does not belong to schedule %d", a.PanelID, schedule.ID)
			}

			event, err := findEvent(tx, schedule.ID, slot.ID, panel.ID)
			if err != nil {
				return err
			}
			if event == nil {
				uid := a.UserID
				event = &models.CalendarEvent{
					Type:                models.CalendarEventInterview,
					InterviewScheduleID: schedule.ID,
					InterviewSlotID:     slot.ID,
					PanelID:             panel.ID,
					ClubID:              schedule.ClubID,
					VisibleToUser:       &uid,
					Title:               InterviewTitle(formName),
					Date:                slot.Date,
					StartTime:           slot.StartTime,
					EndTime:             slot.EndTime,
				}
				if err := insertIgnoringConflict(tx, event); err != nil {
					return err
				}
				if event.ID == 0 {
					if event, err = findEvent(tx, schedule.ID, slot.ID, panel.ID); err != nil {
						return err
					}
					if event == nil {
						return errors.New("calendar event vanished after conflicting insert")
					}
				}
			}
			if event.VisibleToUser == nil || *event.VisibleToUser != a.UserID {
				return fmt.Errorf("slot %d panel %d of schedule %d is already assigned to another applicant",
					slot.ID, panel.ID, schedule.ID)
			}
			events = append(events, *event)
		}
		return nil
	})
	if err != nil {
		return nil, storageError("materialize calendar events", err)
	}

	log.Printf("✅ Materialized %d interview event(s) for schedule %d", len(events), schedule.ID)
	return events, nil
}

// EventsForSchedule returns the interview events already written for a
// schedule, earliest first.
func (m *CalendarMaterializer) EventsForSchedule(ctx context.Context, scheduleID uint) ([]models.CalendarEvent, error) {
	events := make([]models.CalendarEvent, 0)
	err := m.DB.WithContext(ctx).
		Where("interview_schedule_id = ? AND type = ?", scheduleID, models.CalendarEventInterview).
		Order("date asc, start_time asc, id asc").
		Find(&events).Error
	if err != nil {
		return nil, storageError("list schedule events", err)
	}
	return events, nil
}

func slotsByID(tx *gorm.DB, scheduleID uint, assignments []Assignment) (map[uint]models.InterviewSlot, error) {
	ids := make([]uint, 0, len(assignments))
	for _, a := range assignments {
		ids = append(ids, a.SlotID)
	}
	var slots []models.InterviewSlot
	if err := tx.Where("interview_schedule_id = ? AND id IN ?", scheduleID, uniqueIDs(ids)).Find(&slots).Error; err != nil {
		return nil, err
	}
	out := make(map[uint]models.InterviewSlot, len(slots))
	for _, s := range slots {
		out[s.ID] = s
	}
	return out, nil
}

func panelsByID(tx *gorm.DB, scheduleID uint, assignments []Assignment) (map[uint]models.InterviewPanel, error) {
	ids := make([]uint, 0, len(assignments))
	for _, a := range assignments {
		ids = append(ids, a.PanelID)
	}
	var panels []models.InterviewPanel
	if err := tx.Where("interview_schedule_id = ? AND id IN ?", scheduleID, uniqueIDs(ids)).Find(&panels).Error; err != nil {
		return nil, err
	}
	out := make(map[uint]models.InterviewPanel, len(panels))
	for _, p := range panels {
		out[p.ID] = p
	}
	return out, nil
}

func findEvent(tx *gorm.DB, scheduleID, slotID, panelID uint) (*models.CalendarEvent, error) {
	var event models.CalendarEvent
	err := tx.Where("interview_schedule_id = ? AND interview_slot_id = ? AND panel_id = ?", scheduleID, slotID, panelID).
		First(&event).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func uniqueIDs(ids []uint) []uint {
	out := slices.Clone(ids)
	slices.Sort(out)
	return slices.Compact(out)
}

// IsVisibleTo applies the calendar visibility rule for a requester with the
// given club memberships.
func IsVisibleTo(event models.CalendarEvent, uid string, clubIDs []string) bool {
	if uid == "" {
		return false
	}
	if event.VisibleToUser != nil && *event.VisibleToUser == uid {
		return true
	}
	return event.ClubID == uid || slices.Contains(clubIDs, event.ClubID)
}

// VisibleEvents lists the events a requester may see, earliest first.
func VisibleEvents(ctx context.Context, db *gorm.DB, uid string, clubIDs []string) ([]models.CalendarEvent, error) {
	events := make([]models.CalendarEvent, 0)
	if uid == "" {
		return events, nil
	}

	visible := db.Where("visible_to_user = ?", uid).Or("club_id = ?", uid)
	if len(clubIDs) > 0 {
		visible = visible.Or("club_id IN ?", clubIDs)
	}
	err := db.WithContext(ctx).
		Where(visible).
		Order("date asc, start_time asc, id asc").
		Find(&events).Error
	if err != nil {
		return nil, storageError("list calendar events", err)
	}
	return events, nil
}
