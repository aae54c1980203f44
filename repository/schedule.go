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

type ScheduleRepository struct {
	DB *gorm.DB
}

func NewScheduleRepository(db *gorm.DB) *ScheduleRepository {
	return &ScheduleRepository{DB: db}
}

func (r *ScheduleRepository) Create(ctx context.Context, s *models.Schedule) error {
	return r.DB.WithContext(ctx).Omit(clause.Associations).Create(s).Error
}

func (r *ScheduleRepository) CreateMany(ctx context.Context, rows []models.Schedule) error {
	if len(rows) == 0 {
		return nil
	}
	return r.DB.WithContext(ctx).Omit(clause.Associations).CreateInBatches(rows, 100).Error
}

func (r *ScheduleRepository) Save(ctx context.Context, s *models.Schedule) error {
	return r.DB.WithContext(ctx).Omit(clause.Associations).Save(s).Error
}

func (r *ScheduleRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Schedule, error) {
	var s models.Schedule
	if err := r.DB.WithContext(ctx).Preload("Food").First(&s, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "schedule")
	}
	return &s, nil
}

// GetForUpdate loads the user's schedule and locks the row until the
// surrounding transaction ends. SQLite ignores the lock clause.
func (r *ScheduleRepository) GetForUpdate(ctx context.Context, id, userID uuid.UUID) (*models.Schedule, error) {
	var s models.Schedule
	if err := r.DB.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ? AND user_id = ?", id, userID).
		First(&s).Error; err != nil {
		return nil, notFound(err, "schedule")
	}
	return &s, nil
}

// ListByUser returns every schedule the user has, earliest first.
func (r *ScheduleRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Schedule, error) {
	var rows []models.Schedule
	if err := r.DB.WithContext(ctx).
		Preload("Food").
		Where("user_id = ?", userID).
		Order("scheduled_at ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list schedules: %w", err)
	}
	return rows, nil
}

func (r *ScheduleRepository) ListInRange(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]models.Schedule, error) {
	var rows []models.Schedule
	if err := r.DB.WithContext(ctx).
		Preload("Food").
		Where("user_id = ? AND scheduled_at BETWEEN ? AND ?", userID, from.UTC(), to.UTC()).
		Order("scheduled_at ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list schedules in range: %w", err)
	}
	return rows, nil
}

// Closest returns the first schedule at or after from.
func (r *ScheduleRepository) Closest(ctx context.Context, userID uuid.UUID, from time.Time) (*models.Schedule, error) {
	var s models.Schedule
	if err := r.DB.WithContext(ctx).
		Preload("Food").
		Where("user_id = ? AND scheduled_at >= ?", userID, from.UTC()).
		Order("scheduled_at ASC").
		First(&s).Error; err != nil {
		return nil, notFound(err, "schedule")
	}
	return &s, nil
}

// ListForFood returns the user's schedules for foodID inside [from, to]
// whose is_completed equals completed, earliest first.
func (r *ScheduleRepository) ListForFood(ctx context.Context, userID, foodID uuid.UUID, from, to time.Time, completed bool) ([]models.Schedule, error) {
	var rows []models.Schedule
	if err := r.DB.WithContext(ctx).
		Where("user_id = ? AND food_id = ? AND is_completed = ? AND scheduled_at BETWEEN ? AND ?",
			userID, foodID, completed, from.UTC(), to.UTC()).
		Order("scheduled_at ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list schedules for food: %w", err)
	}
	return rows, nil
}

func (r *ScheduleRepository) SetCompleted(ctx context.Context, id uuid.UUID, completed bool) error {
	return r.DB.WithContext(ctx).Model(&models.Schedule{}).
		Where("id = ?", id).
		Update("is_completed", completed).Error
}

func (r *ScheduleRepository) DeleteInRange(ctx context.Context, userID uuid.UUID, from, to time.Time) error {
	return r.DB.WithContext(ctx).
		Where("user_id = ? AND scheduled_at BETWEEN ? AND ?", userID, from.UTC(), to.UTC()).
		Delete(&models.Schedule{}).Error
}
