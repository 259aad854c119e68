package models

import "time"

type InterviewSchedule struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	FormID     uint   `gorm:"not null;uniqueIndex:idx_schedule_form_club,priority:1" json:"form_id"`
	ClubID     string `gorm:"size:64;not null;uniqueIndex:idx_schedule_form_club,priority:2" json:"club_id"`
	SlotLength int    `gorm:"not null" json:"slot_length"` // minutes
	NumPanels  int    `gorm:"not null" json:"num_panels"`

	Form   Form             `gorm:"foreignKey:FormID;constraint:OnDelete:CASCADE" json:"-"`
	Slots  []InterviewSlot  `gorm:"foreignKey:ScheduleID;constraint:OnDelete:CASCADE" json:"slots,omitempty"`
	Panels []InterviewPanel `gorm:"foreignKey:ScheduleID;constraint:OnDelete:CASCADE" json:"panels,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

type InterviewSlot struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	ScheduleID uint      `gorm:"column:interview_schedule_id;not null;uniqueIndex:idx_slot_identity,priority:1" json:"interview_schedule_id"`
	ClubID     string    `gorm:"size:64;not null" json:"club_id"`
	Date       Date      `gorm:"type:date;not null;uniqueIndex:idx_slot_identity,priority:2" json:"date"`
	StartTime  ClockTime `gorm:"type:time;not null;uniqueIndex:idx_slot_identity,priority:3" json:"start_time"`
	EndTime    ClockTime `gorm:"type:time;not null;uniqueIndex:idx_slot_identity,priority:4" json:"end_time"`
}

// InterviewPanel is one parallel interview track. Panels carry no attributes
// of their own yet, so Position is their identity within a schedule.
type InterviewPanel struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	ScheduleID uint   `gorm:"column:interview_schedule_id;not null;uniqueIndex:idx_panel_position,priority:1" json:"interview_schedule_id"`
	ClubID     string `gorm:"size:64;not null" json:"club_id"`
	Position   int    `gorm:"not null;uniqueIndex:idx_panel_position,priority:2" json:"position"`
}
