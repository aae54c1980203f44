package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/RamaAlqdri/sehatin/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FoodHistoryRepository struct {
	DB *gorm.DB
}

func NewFoodHistoryRepository(db *gorm.DB) *FoodHistoryRepository {
	return &FoodHistoryRepository{DB: db}
}

// ListConsumption returns the user's records with occurred_at in [from, to],
// oldest first, with Food populated.
func (r *FoodHistoryRepository) ListConsumption(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]models.FoodHistory, error) {
	var rows []models.FoodHistory
	if err := r.DB.WithContext(ctx).
		Preload("Food").
		Where("user_id = ? AND occurred_at BETWEEN ? AND ?", userID, from.UTC(), to.UTC()).
		Order("occurred_at ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list consumption: %w", err)
	}
	return rows, nil
}

func (r *FoodHistoryRepository) ListByMealType(ctx context.Context, userID uuid.UUID, meal models.MealType, from, to time.Time) ([]models.FoodHistory, error) {
	var rows []models.FoodHistory
	err := r.DB.WithContext(ctx).
		Preload("Food").
		Where("user_id = ? AND meal_type = ? AND occurred_at BETWEEN ? AND ?", userID, meal, from.UTC(), to.UTC()).
		Order("occurred_at ASC").
		Find(&rows).Error
	return rows, err
}

// Find looks up the single record keyed by (user, food, meal type) inside the window.
func (r *FoodHistoryRepository) Find(ctx context.Context, userID, foodID uuid.UUID, meal models.MealType, from, to time.Time) (*models.FoodHistory, error) {
	var row models.FoodHistory
	if err := r.DB.WithContext(ctx).
		Preload("Food").
		Where("user_id = ? AND food_id = ? AND meal_type = ? AND occurred_at BETWEEN ? AND ?",
			userID, foodID, meal, from.UTC(), to.UTC()).
		First(&row).Error; err != nil {
		return nil, notFound(err, "food history")
	}
	return &row, nil
}

func (r *FoodHistoryRepository) Create(ctx context.Context, row *models.FoodHistory) error {
	return r.DB.WithContext(ctx).Omit(clause.Associations).Create(row).Error
}

func (r *FoodHistoryRepository) UpdateServing(ctx context.Context, id uuid.UUID, servingAmount, calories float64) error {
	return r.DB.WithContext(ctx).Model(&models.FoodHistory{}).
		Where("id = ?", id).
		Updates(map[string]any{"serving_amount": servingAmount, "calories": calories}).Error
}

func (r *FoodHistoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.DB.WithContext(ctx).Delete(&models.FoodHistory{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return notFound(gorm.ErrRecordNotFound, "food history")
	}
	return nil
}
