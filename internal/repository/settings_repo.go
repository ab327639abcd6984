package repository

import (
	"context"
	"errors"

	"mobileopsconnect/internal/model"

	"gorm.io/gorm"
)

// SettingsRepository reads and writes the single settings row
type SettingsRepository interface {
	Get(ctx context.Context) (*model.SystemSettings, error)
	Update(ctx context.Context, settings *model.SystemSettings) error
}

type settingsRepository struct {
	db *gorm.DB
}

// NewSettingsRepository returns a new instance of SettingsRepository
func NewSettingsRepository(db *gorm.DB) SettingsRepository {
	return &settingsRepository{db: db}
}

// Get returns row #1, creating it with defaults when missing
func (r *settingsRepository) Get(ctx context.Context) (*model.SystemSettings, error) {
	var settings model.SystemSettings
	err := r.db.WithContext(ctx).First(&settings, 1).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		settings = model.SystemSettings{ID: 1}
		if err := r.db.WithContext(ctx).Create(&settings).Error; err != nil {
			return nil, err
		}
		return &settings, nil
	}
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

func (r *settingsRepository) Update(ctx context.Context, settings *model.SystemSettings) error {
	settings.ID = 1
	return r.db.WithContext(ctx).Save(settings).Error
}
