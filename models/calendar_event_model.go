package models

import "time"

type CalendarEventType string

const CalendarEventInterview CalendarEventType = "interview"

// CalendarEvent is visible to every member of ClubID and to the club account.
// When VisibleToUser is set, that user can see it as well.
type CalendarEvent struct {
	ID                  uint              `gorm:"primaryKey" json:"id"`
	Type                CalendarEventType `gorm:"size:20;not null" json:"type"`
	InterviewScheduleID uint              `gorm:"not null;uniqueIndex:idx_event_allocation,priority:1" json:"interview_schedule_id"`
	InterviewSlotID     uint              `gorm:"not null;uniqueIndex:idx_event_allocation,priority:2" json:"interview_slot_id"`
	PanelID             uint              `gorm:"not null;uniqueIndex:idx_event_allocation,priority:3" json:"panel_id"`
	ClubID              string            `gorm:"size:64;not null;index" json:"club_id"`
	VisibleToUser       *string           `gorm:"size:64;index" json:"visible_to_user"`
	Title               string            `gorm:"size:255;not null" json:"title"`
	Date                Date              `gorm:"type:date;not null" json:"date"`
	StartTime           ClockTime         `gorm:"type:time;not null" json:"start_time"`
	EndTime             ClockTime         `gorm:"type:time;not null" json:"end_time"`

	Schedule InterviewSchedule `gorm:"foreignKey:InterviewScheduleID;constraint:OnDelete:CASCADE" json:"-"`
	Slot     InterviewSlot     `gorm:"foreignKey:InterviewSlotID;constraint:OnDelete:CASCADE" json:"-"`
	Panel    InterviewPanel    `gorm:"foreignKey:PanelID;constraint:OnDelete:CASCADE" json:"-"`

	CreatedAt time.Time `json:"created_at"`
}

func (e CalendarEvent) Starts(loc *time.Location) time.Time { return e.Date.At(e.StartTime, loc) }

func (e CalendarEvent) Ends(loc *time.Location) time.Time { return e.Date.At(e.EndTime, loc) }
