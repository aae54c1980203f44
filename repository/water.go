package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/RamaAlqdri/sehatin/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type WaterRepository struct {
	DB *gorm.DB
}

func NewWaterRepository(db *gorm.DB) *WaterRepository {
	return &WaterRepository{DB: db}
}

func (r *WaterRepository) Create(ctx context.Context, w *models.WaterHistory) error {
	return r.DB.WithContext(ctx).Create(w).Error
}

func (r *WaterRepository) ListWater(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]models.WaterHistory, error) {
	var rows []models.WaterHistory
	if err := r.DB.WithContext(ctx).
		Where("user_id = ? AND occurred_at BETWEEN ? AND ?", userID, from.UTC(), to.UTC()).
		Order("occurred_at ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list water: %w", err)
	}
	return rows, nil
}

func (r *WaterRepository) Latest(ctx context.Context, userID uuid.UUID) (*models.WaterHistory, error) {
	var w models.WaterHistory
	if err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("occurred_at DESC, created_at DESC").
		First(&w).Error; err != nil {
		return nil, notFound(err, "water history")
	}
	return &w, nil
}

// DeleteForUser removes the record only when it belongs to userID.
func (r *WaterRepository) DeleteForUser(ctx context.Context, id, userID uuid.UUID) error {
	res := r.DB.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&models.WaterHistory{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return notFound(gorm.ErrRecordNotFound, "water history")
	}
	return nil
}
