package repository

import (
	"context"
	"errors"
	"time"

	"github.com/RamaAlqdri/sehatin/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DeviceRepository struct {
	DB *gorm.DB
}

func NewDeviceRepository(db *gorm.DB) *DeviceRepository {
	return &DeviceRepository{DB: db}
}

// Upsert keys devices on (user_id, token_hash) and refreshes the endpoint.
func (r *DeviceRepository) Upsert(ctx context.Context, dev *models.UserDevice) (*models.UserDevice, error) {
	var existing models.UserDevice
	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND token_hash = ?", dev.UserID, dev.TokenHash).
		First(&existing).Error
	switch {
	case err == nil:
		existing.EndpointARN = dev.EndpointARN
		existing.Platform = dev.Platform
		existing.Enabled = true
		existing.UpdatedAt = time.Now().UTC()
		if err := r.DB.WithContext(ctx).Omit(clause.Associations).Save(&existing).Error; err != nil {
			return nil, err
		}
		return &existing, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		dev.Enabled = true
		if err := r.DB.WithContext(ctx).Create(dev).Error; err != nil {
			return nil, err
		}
		return dev, nil
	default:
		return nil, err
	}
}

func (r *DeviceRepository) ListEnabled(ctx context.Context, userID uuid.UUID) ([]models.UserDevice, error) {
	var rows []models.UserDevice
	err := r.DB.WithContext(ctx).Where("user_id = ? AND enabled = ?", userID, true).Find(&rows).Error
	return rows, err
}

// SetEnabled flips push delivery for every device of the user.
func (r *DeviceRepository) SetEnabled(ctx context.Context, userID uuid.UUID, enabled bool) (int64, error) {
	res := r.DB.WithContext(ctx).Model(&models.UserDevice{}).
		Where("user_id = ?", userID).
		Updates(map[string]any{"enabled": enabled, "updated_at": time.Now().UTC()})
	return res.RowsAffected, res.Error
}
