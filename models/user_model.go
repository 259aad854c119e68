package models

import "time"

type User struct {
	UID            string  `gorm:"primaryKey;size:64" json:"uid"`
	Email          string  `gorm:"size:255;not null;uniqueIndex" json:"email"`
	FirstName      string  `gorm:"size:255" json:"first_name"`
	LastName       string  `gorm:"size:255" json:"last_name"`
	RollNumber     *string `gorm:"size:50;uniqueIndex" json:"roll_number"`
	Batch          *string `gorm:"size:50" json:"batch"`
	ProfilePicture *string `gorm:"size:255" json:"profile_picture"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u User) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// CurrentUser is the authenticated caller as carried in the session token.
type CurrentUser struct {
	UID        string `json:"uid"`
	Email      string `json:"email"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	RollNumber string `json:"roll_number"`
}
