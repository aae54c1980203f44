package repository

import (
	"context"
	"strings"

	"github.com/RamaAlqdri/sehatin/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FoodRepository struct {
	DB *gorm.DB
}

func NewFoodRepository(db *gorm.DB) *FoodRepository {
	return &FoodRepository{DB: db}
}

func (r *FoodRepository) Create(ctx context.Context, food *models.Food) error {
	return r.DB.WithContext(ctx).Create(food).Error
}

func (r *FoodRepository) Save(ctx context.Context, food *models.Food) error {
	return r.DB.WithContext(ctx).Save(food).Error
}

func (r *FoodRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Food, error) {
	var food models.Food
	if err := r.DB.WithContext(ctx).First(&food, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "food")
	}
	return &food, nil
}

func (r *FoodRepository) List(ctx context.Context) ([]models.Food, error) {
	var foods []models.Food
	err := r.DB.WithContext(ctx).Order("name ASC").Find(&foods).Error
	return foods, err
}

// FilterByName is a case-insensitive substring match.
func (r *FoodRepository) FilterByName(ctx context.Context, name string, limit int) ([]models.Food, error) {
	var foods []models.Food
	pattern := "%" + strings.ToLower(name) + "%"
	err := r.DB.WithContext(ctx).
		Where("LOWER(name) LIKE ?", pattern).
		Order("name ASC").
		Limit(limit).
		Find(&foods).Error
	return foods, err
}

func (r *FoodRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Food, error) {
	var foods []models.Food
	if len(ids) == 0 {
		return foods, nil
	}
	err := r.DB.WithContext(ctx).Where("id IN ?", ids).Find(&foods).Error
	return foods, err
}

// Random returns up to n foods in random order. RANDOM() exists in both
// Postgres and SQLite.
func (r *FoodRepository) Random(ctx context.Context, n int) ([]models.Food, error) {
	var foods []models.Food
	err := r.DB.WithContext(ctx).Order("RANDOM()").Limit(n).Find(&foods).Error
	return foods, err
}
