package repository

import (
	"context"
	"errors"

	"github.com/RamaAlqdri/sehatin/models"

	"gorm.io/gorm"
)

type AdminRepository struct {
	DB *gorm.DB
}

func NewAdminRepository(db *gorm.DB) *AdminRepository {
	return &AdminRepository{DB: db}
}

func (r *AdminRepository) GetByEmail(ctx context.Context, email string) (*models.Admin, error) {
	var admin models.Admin
	if err := r.DB.WithContext(ctx).Where("email = ?", email).First(&admin).Error; err != nil {
		return nil, notFound(err, "admin")
	}
	return &admin, nil
}

// FirstOrCreate inserts the admin unless one with the same email exists.
// The returned bool reports whether a row was created.
func (r *AdminRepository) FirstOrCreate(ctx context.Context, admin *models.Admin) (bool, error) {
	var existing models.Admin
	err := r.DB.WithContext(ctx).Where("email = ?", admin.Email).First(&existing).Error
	switch {
	case err == nil:
		*admin = existing
		return false, nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return false, err
	}
	if err := r.DB.WithContext(ctx).Create(admin).Error; err != nil {
		return false, err
	}
	return true, nil
}
