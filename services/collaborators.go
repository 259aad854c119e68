package services

import (
	"context"
	"errors"

	"github.com/clubsplusplus/club_recruitment/models"
	"gorm.io/gorm"
)

type ClubDirectory interface {
	IsAdminOfClub(ctx context.Context, uid, clubID string) (bool, error)
	ClubIDsForMember(ctx context.Context, uid string) ([]string, error)
}

type FormStore interface {
	GetForm(ctx context.Context, formID uint) (models.Form, error)
}

type ApplicationStore interface {
	// ApplicationsForForm returns applications in submission (id) order with
	// the applicant preloaded.
	ApplicationsForForm(ctx context.Context, formID uint) ([]models.Application, error)
}

// Recruitment reads clubs, forms and applications from the local tables that
// the membership sync and form/application APIs maintain.
type Recruitment struct {
	DB *gorm.DB
}

func NewRecruitment(db *gorm.DB) *Recruitment {
	return &Recruitment{DB: db}
}

// IsAdminOfClub is true for the club's own account and for members holding
// the admin role or marked as point of contact.
func (r *Recruitment) IsAdminOfClub(ctx context.Context, uid, clubID string) (bool, error) {
	if uid == "" {
		return false, nil
	}
	if uid == clubID {
		return true, nil
	}
	var count int64
	err := r.DB.WithContext(ctx).Model(&models.ClubMember{}).
		Where("club_id = ? AND user_id = ? AND (role = ? OR is_poc = ?)", clubID, uid, models.ClubRoleAdmin, true).
		Count(&count).Error
	if err != nil {
		return false, storageError("check club admin", err)
	}
	return count > 0, nil
}

func (r *Recruitment) ClubIDsForMember(ctx context.Context, uid string) ([]string, error) {
	clubIDs := make([]string, 0)
	err := r.DB.WithContext(ctx).Model(&models.ClubMember{}).
		Where("user_id = ?", uid).
		Order("club_id asc").
		Pluck("club_id", &clubIDs).Error
	if err != nil {
		return nil, storageError("list club memberships", err)
	}
	return clubIDs, nil
}

func (r *Recruitment) GetForm(ctx context.Context, formID uint) (models.Form, error) {
	var form models.Form
	err := r.DB.WithContext(ctx).First(&form, "id = ?", formID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Form{}, &NotFoundError{Resource: "form", ID: formID}
	}
	if err != nil {
		return models.Form{}, storageError("load form", err)
	}
	return form, nil
}

func (r *Recruitment) ApplicationsForForm(ctx context.Context, formID uint) ([]models.Application, error) {
	applications := make([]models.Application, 0)
	err := r.DB.WithContext(ctx).
		Preload("User").
		Where("form_id = ?", formID).
		Order("id asc").
		Find(&applications).Error
	if err != nil {
		return nil, storageError("load applications", err)
	}
	return applications, nil
}
