package repository

import (
	"errors"
	"fmt"

	guestModel "guest-messaging/models/guest"

	"gorm.io/gorm"
)

// GuestRepository looks up canonical guest profiles
type GuestRepository struct {
	DB *gorm.DB
}

// NewGuestRepository creates a new guest repository
func NewGuestRepository(db *gorm.DB) *GuestRepository {
	return &GuestRepository{DB: db}
}

// FindByPhoneSuffix returns profiles whose phone, reduced to digits, ends
// with the given digit suffix.
func (r *GuestRepository) FindByPhoneSuffix(digits string) ([]guestModel.Guest, error) {
	if digits == "" {
		return nil, nil
	}

	var rows []guestModel.Guest
	err := r.DB.
		Where("phone <> ''").
		Where(cleanedPhone("phone")+" LIKE ?", "%"+digits).
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find guests by phone suffix: %w", err)
	}
	return rows, nil
}

// GetByID fetches a profile by primary key, nil when absent.
func (r *GuestRepository) GetByID(id uint) (*guestModel.Guest, error) {
	if id == 0 {
		return nil, nil
	}

	var row guestModel.Guest
	if err := r.DB.First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find guest %d: %w", id, err)
	}
	return &row, nil
}

// GetByUserID fetches the profile linked to a CMS user account, nil when none
// is linked.
func (r *GuestRepository) GetByUserID(id uint) (*guestModel.Guest, error) {
	if id == 0 {
		return nil, nil
	}

	var row guestModel.Guest
	if err := r.DB.Where("wp_user_id = ?", id).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find guest for user %d: %w", id, err)
	}
	return &row, nil
}
