package models

import "time"

type ApplicationStatus string

const (
	ApplicationOngoing     ApplicationStatus = "ongoing"
	ApplicationUnderReview ApplicationStatus = "under review"
	ApplicationAccepted    ApplicationStatus = "accepted"
	ApplicationRejected    ApplicationStatus = "rejected"
)

type Application struct {
	ID          uint              `gorm:"primaryKey" json:"id"`
	FormID      uint              `gorm:"not null;index" json:"form_id"`
	UserID      string            `gorm:"size:64;not null;index" json:"user_id"`
	Status      ApplicationStatus `gorm:"size:20;not null;default:'ongoing'" json:"status"`
	SubmittedAt time.Time         `gorm:"autoCreateTime" json:"submitted_at"`

	User User `gorm:"foreignKey:UserID;references:UID" json:"user,omitempty"`
}
