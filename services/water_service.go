package services

import (
	"context"
	"fmt"
	"time"

	"github.com/RamaAlqdri/sehatin/models"
	"github.com/RamaAlqdri/sehatin/repository"
	"github.com/RamaAlqdri/sehatin/utils"

	"github.com/google/uuid"
)

type WaterService struct {
	water    *repository.WaterRepository
	users    *repository.UserRepository
	clock    utils.Clock
	notifier *Notifier
}

func NewWaterService(water *repository.WaterRepository, users *repository.UserRepository, clock utils.Clock, notifier *Notifier) *WaterService {
	return &WaterService{water: water, users: users, clock: clock, notifier: notifier}
}

// Create logs amountMl of water drunk now.
func (s *WaterService) Create(ctx context.Context, userID uuid.UUID, amountMl float64) (*models.WaterHistory, error) {
	if amountMl <= 0 {
		return nil, fmt.Errorf("%w: water amount must be positive", utils.ErrInvalidInput)
	}
	if err := s.users.MustExist(ctx, userID); err != nil {
		return nil, err
	}
	w := &models.WaterHistory{
		UserID:     userID,
		AmountMl:   amountMl,
		OccurredAt: s.clock.Now().UTC(),
	}
	if err := s.water.Create(ctx, w); err != nil {
		return nil, fmt.Errorf("create water history: %w", err)
	}
	s.notifier.Emit(userID, EventWaterLogged, w)
	return w, nil
}

func (s *WaterService) DeleteLatest(ctx context.Context, userID uuid.UUID) error {
	latest, err := s.water.Latest(ctx, userID)
	if err != nil {
		return err
	}
	return s.water.DeleteForUser(ctx, latest.ID, userID)
}

func (s *WaterService) DeleteByID(ctx context.Context, userID, id uuid.UUID) error {
	return s.water.DeleteForUser(ctx, id, userID)
}

func (s *WaterService) HistoryForDay(ctx context.Context, userID uuid.UUID, date time.Time) ([]models.WaterHistory, error) {
	return s.water.ListWater(ctx, userID, s.clock.StartOfDay(date), s.clock.EndOfDay(date))
}
