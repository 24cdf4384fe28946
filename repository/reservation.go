package repository

import (
	"errors"
	"fmt"

	reservationModel "guest-messaging/models/reservation"

	"gorm.io/gorm"
)

// ReservationRepository looks up reservations for identity resolution
type ReservationRepository struct {
	DB *gorm.DB
}

// NewReservationRepository creates a new reservation repository
func NewReservationRepository(db *gorm.DB) *ReservationRepository {
	return &ReservationRepository{DB: db}
}

// FindByPhoneSuffix returns reservations whose stored guest phone, reduced to
// digits, ends with the given digit suffix. Candidate sets are expected to be
// small; rows are returned in id order so resolution is deterministic.
func (r *ReservationRepository) FindByPhoneSuffix(digits string) ([]reservationModel.Reservation, error) {
	if digits == "" {
		return nil, nil
	}

	var rows []reservationModel.Reservation
	err := r.DB.
		Where("guest_phone <> ''").
		Where(cleanedPhone("guest_phone")+" LIKE ?", "%"+digits).
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find reservations by phone suffix: %w", err)
	}
	return rows, nil
}

// GetByID fetches a reservation by primary key, nil when absent.
func (r *ReservationRepository) GetByID(id uint) (*reservationModel.Reservation, error) {
	if id == 0 {
		return nil, nil
	}

	var row reservationModel.Reservation
	if err := r.DB.First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find reservation %d: %w", id, err)
	}
	return &row, nil
}
