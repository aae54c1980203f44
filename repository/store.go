package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/RamaAlqdri/sehatin/utils"

	"gorm.io/gorm"
)

// Store bundles every repository over one *gorm.DB, which may be a transaction.
type Store struct {
	DB *gorm.DB

	Users     *UserRepository
	Admins    *AdminRepository
	Otps      *OtpRepository
	Foods     *FoodRepository
	History   *FoodHistoryRepository
	Schedules *ScheduleRepository
	Water     *WaterRepository
	Messages  *MessageRepository
	Devices   *DeviceRepository
}

func NewStore(db *gorm.DB) *Store {
	return &Store{
		DB:        db,
		Users:     NewUserRepository(db),
		Admins:    NewAdminRepository(db),
		Otps:      NewOtpRepository(db),
		Foods:     NewFoodRepository(db),
		History:   NewFoodHistoryRepository(db),
		Schedules: NewScheduleRepository(db),
		Water:     NewWaterRepository(db),
		Messages:  NewMessageRepository(db),
		Devices:   NewDeviceRepository(db),
	}
}

// Transaction runs fn with a Store bound to a single database transaction.
// Any error returned by fn rolls the transaction back.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}

// notFound maps gorm's sentinel onto utils.ErrNotFound.
func notFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %s not found", utils.ErrNotFound, what)
	}
	return err
}
