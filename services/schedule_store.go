package services

import (
	"context"
	"errors"
	"log"

	"github.com/clubsplusplus/club_recruitment/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ScheduleStore persists schedules, slots and panels. Every method runs in a
// single transaction and may be called again with the same input without
// creating duplicate rows.
type ScheduleStore struct {
	DB *gorm.DB
}

func NewScheduleStore(db *gorm.DB) *ScheduleStore {
	return &ScheduleStore{DB: db}
}

func (s *ScheduleStore) CreateSchedule(ctx context.Context, clubID string, formID uint, slotLength, numPanels int) (models.InterviewSchedule, error) {
	var schedule models.InterviewSchedule
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		found, err := findSchedule(tx, formID, clubID)
		if err != nil {
			return err
		}
		if found != nil {
			if found.SlotLength != slotLength || found.NumPanels != numPanels {
				log.Printf("⚠️ Reusing schedule %d for form %d: stored slot_length=%d num_panels=%d, requested %d/%d",
					found.ID, formID, found.SlotLength, found.NumPanels, slotLength, numPanels)
			}
			schedule = *found
			return nil
		}

		schedule = models.InterviewSchedule{
			FormID:     formID,
			ClubID:     clubID,
			SlotLength: slotLength,
			NumPanels:  numPanels,
		}
		if err := insertIgnoringConflict(tx, &schedule); err != nil {
			return err
		}
		if schedule.ID != 0 {
			log.Printf("✅ Created interview schedule %d for form %d", schedule.ID, formID)
			return nil
		}

		found, err = findSchedule(tx, formID, clubID)
		if err != nil {
			return err
		}
		if found == nil {
			return errors.New("schedule vanished after conflicting insert")
		}
		schedule = *found
		return nil
	})
	if err != nil {
		return models.InterviewSchedule{}, storageError("create schedule", err)
	}
	return schedule, nil
}

// CreateSlots returns slot ids in the same order as slots.
func (s *ScheduleStore) CreateSlots(ctx context.Context, scheduleID uint, clubID string, slots []GeneratedSlot) ([]uint, error) {
	ids := make([]uint, 0, len(slots))
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, gs := range slots {
			slot := models.InterviewSlot{
				ScheduleID: scheduleID,
				ClubID:     clubID,
				Date:       gs.Date,
				StartTime:  models.ClockOf(gs.Start),
				EndTime:    models.ClockOf(gs.End),
			}

			id, err := findSlotID(tx, slot)
			if err != nil {
				return err
			}
			if id == 0 {
				if err := insertIgnoringConflict(tx, &slot); err != nil {
					return err
				}
				id = slot.ID
			}
			if id == 0 {
				if id, err = findSlotID(tx, slot); err != nil {
					return err
				}
				if id == 0 {
					return errors.New("slot vanished after conflicting insert")
				}
			}
			ids = append(ids, id)
		}
		return nil
	})
	if err != nil {
		return nil, storageError("create slots", err)
	}
	return ids, nil
}

// CreatePanels creates panels 1..numPanels for a schedule that has none and
// otherwise returns the existing ones. Ids are ordered by position.
func (s *ScheduleStore) CreatePanels(ctx context.Context, scheduleID uint, clubID string, numPanels int) ([]uint, error) {
	var ids []uint
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := panelIDs(tx, scheduleID)
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			ids = existing
			return nil
		}

		for position := 1; position <= numPanels; position++ {
			panel := models.InterviewPanel{ScheduleID: scheduleID, ClubID: clubID, Position: position}
			if err := insertIgnoringConflict(tx, &panel); err != nil {
				return err
			}
		}
		ids, err = panelIDs(tx, scheduleID)
		return err
	})
	if err != nil {
		return nil, storageError("create panels", err)
	}
	return ids, nil
}

// ScheduleForForm loads a form's schedule with slots in chronological order
// and panels in positional order.
func (s *ScheduleStore) ScheduleForForm(ctx context.Context, formID uint, clubID string) (*models.InterviewSchedule, error) {
	var schedule models.InterviewSchedule
	err := s.DB.WithContext(ctx).
		Preload("Slots", func(db *gorm.DB) *gorm.DB {
			return db.Order("date asc, start_time asc, id asc")
		}).
		Preload("Panels", func(db *gorm.DB) *gorm.DB {
			return db.Order("position asc")
		}).
		Where("form_id = ? AND club_id = ?", formID, clubID).
		First(&schedule).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &NotFoundError{Resource: "interview schedule for form", ID: formID}
	}
	if err != nil {
		return nil, storageError("load schedule", err)
	}
	return &schedule, nil
}

func findSchedule(tx *gorm.DB, formID uint, clubID string) (*models.InterviewSchedule, error) {
	var schedule models.InterviewSchedule
	err := tx.Where("form_id = ? AND club_id = ?", formID, clubID).First(&schedule).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &schedule, nil
}

func findSlotID(tx *gorm.DB, slot models.InterviewSlot) (uint, error) {
	var ids []uint
	err := tx.Model(&models.InterviewSlot{}).
		Where("interview_schedule_id = ? AND date = ? AND start_time = ? AND end_time = ?",
			slot.ScheduleID, slot.Date, slot.StartTime, slot.EndTime).
		Limit(1).
		Pluck("id", &ids).Error
	if err != nil || len(ids) == 0 {
		return 0, err
	}
	return ids[0], nil
}

func panelIDs(tx *gorm.DB, scheduleID uint) ([]uint, error) {
	ids := make([]uint, 0)
	err := tx.Model(&models.InterviewPanel{}).
		Where("interview_schedule_id = ?", scheduleID).
		Order("position asc").
		Pluck("id", &ids).Error
	return ids, err
}

// insertIgnoringConflict leaves the primary key at zero when a unique index
// already holds an equivalent row.
func insertIgnoringConflict(tx *gorm.DB, value any) error {
	return tx.Omit(clause.Associations).Clauses(clause.OnConflict{DoNothing: true}).Create(value).Error
}
