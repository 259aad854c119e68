package models

import "time"

type Form struct {
	ID       uint       `gorm:"primaryKey" json:"id"`
	Name     string     `gorm:"size:255;not null;uniqueIndex:uq_club_id_form_name,priority:2" json:"name"`
	ClubID   string     `gorm:"size:64;not null;uniqueIndex:uq_club_id_form_name,priority:1" json:"club_id"`
	Deadline *time.Time `json:"deadline"`

	Applications []Application `gorm:"foreignKey:FormID;constraint:OnDelete:CASCADE" json:"-"`

	CreatedAt time.Time `json:"created_at"`
}

// IsOpen reports whether the form still accepts submissions at now.
// A form without a deadline is never considered open for scheduling purposes.
func (f Form) IsOpen(now time.Time) bool {
	return f.Deadline != nil && now.Before(*f.Deadline)
}
