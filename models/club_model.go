package models

import (
	"time"

	"gorm.io/datatypes"
)

type Club struct {
	CID         string            `gorm:"primaryKey;size:64" json:"cid"`
	Name        string            `gorm:"size:255;not null" json:"name"`
	Tagline     *string           `gorm:"size:255" json:"tagline"`
	Description *string           `gorm:"type:text" json:"description"`
	Category    *string           `gorm:"size:50" json:"category"`
	Email       *string           `gorm:"size:255" json:"email"`
	Socials     datatypes.JSONMap `json:"socials,omitempty"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

const (
	ClubRoleAdmin  = "admin"
	ClubRoleMember = "member"
)

type ClubMember struct {
	ClubID string `gorm:"primaryKey;size:64" json:"club_id"`
	UserID string `gorm:"primaryKey;size:64" json:"user_id"`
	Role   string `gorm:"size:50;not null;default:'member'" json:"role"`
	IsPOC  bool   `gorm:"column:is_poc;default:false" json:"is_poc"`
}
