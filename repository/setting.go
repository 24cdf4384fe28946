package repository

import (
	"errors"
	"fmt"

	settingModel "guest-messaging/models/setting"

	"gorm.io/gorm"
)

// SettingRepository is the key/value store backing the migration version gate
type SettingRepository struct {
	DB *gorm.DB
}

// NewSettingRepository creates a new setting repository
func NewSettingRepository(db *gorm.DB) *SettingRepository {
	return &SettingRepository{DB: db}
}

// Get returns the value for a key, empty string when the key is absent.
func (r *SettingRepository) Get(key string) (string, error) {
	var row settingModel.Setting
	if err := r.DB.Where("setting_key = ?", key).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("failed to read setting %s: %w", key, err)
	}
	return row.Value, nil
}

// Set stores the value for a key, creating the row if needed.
func (r *SettingRepository) Set(key, value string) error {
	var row settingModel.Setting
	err := r.DB.Where("setting_key = ?", key).First(&row).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to read setting %s: %w", key, err)
		}
		row = settingModel.Setting{Key: key, Value: value}
		if err := r.DB.Create(&row).Error; err != nil {
			return fmt.Errorf("failed to create setting %s: %w", key, err)
		}
		return nil
	}

	row.Value = value
	if err := r.DB.Save(&row).Error; err != nil {
		return fmt.Errorf("failed to update setting %s: %w", key, err)
	}
	return nil
}
