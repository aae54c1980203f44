package repository

import (
	"context"

	"github.com/RamaAlqdri/sehatin/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OtpRepository struct {
	DB *gorm.DB
}

func NewOtpRepository(db *gorm.DB) *OtpRepository {
	return &OtpRepository{DB: db}
}

// Replace drops any pending code for the user and stores otp in its place.
func (r *OtpRepository) Replace(ctx context.Context, otp *models.Otp) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", otp.UserID).Delete(&models.Otp{}).Error; err != nil {
			return err
		}
		return tx.Create(otp).Error
	})
}

func (r *OtpRepository) GetByUser(ctx context.Context, userID uuid.UUID) (*models.Otp, error) {
	var otp models.Otp
	if err := r.DB.WithContext(ctx).Where("user_id = ?", userID).First(&otp).Error; err != nil {
		return nil, notFound(err, "otp")
	}
	return &otp, nil
}

func (r *OtpRepository) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	return r.DB.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.Otp{}).Error
}
