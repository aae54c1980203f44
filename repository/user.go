package repository

import (
	"context"
	"fmt"

	"github.com/RamaAlqdri/sehatin/models"
	"github.com/RamaAlqdri/sehatin/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	return r.DB.WithContext(ctx).Create(user).Error
}

func (r *UserRepository) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "user")
	}
	return &user, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, notFound(err, "user")
	}
	return &user, nil
}

func (r *UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var n int64
	if err := r.DB.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *UserRepository) List(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := r.DB.WithContext(ctx).Order("created_at ASC").Find(&users).Error
	return users, err
}

// Update writes the given columns and returns the refreshed user.
func (r *UserRepository) Update(ctx context.Context, id uuid.UUID, fields map[string]any) (*models.User, error) {
	res := r.DB.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		// Updates reports 0 rows when values are unchanged on some drivers,
		// so confirm existence before calling it missing.
		if _, err := r.GetUser(ctx, id); err != nil {
			return nil, err
		}
	}
	return r.GetUser(ctx, id)
}

func (r *UserRepository) AddWeightSample(ctx context.Context, sample *models.WeightHistory) error {
	return r.DB.WithContext(ctx).Create(sample).Error
}

// ListWeightHistory returns the samples oldest first.
func (r *UserRepository) ListWeightHistory(ctx context.Context, userID uuid.UUID) ([]models.WeightHistory, error) {
	var rows []models.WeightHistory
	if err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list weight history: %w", err)
	}
	return rows, nil
}

// MustExist returns utils.ErrNotFound when the user is missing.
func (r *UserRepository) MustExist(ctx context.Context, id uuid.UUID) error {
	var n int64
	if err := r.DB.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: user not found", utils.ErrNotFound)
	}
	return nil
}

// LockForUpdate takes a row lock on the user until the surrounding
// transaction ends. Writers of per-day records lock here first so two
// concurrent writes for the same user are serialized. SQLite ignores it.
func (r *UserRepository) LockForUpdate(ctx context.Context, id uuid.UUID) error {
	var user models.User
	if err := r.DB.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id").
		First(&user, "id = ?", id).Error; err != nil {
		return notFound(err, "user")
	}
	return nil
}
