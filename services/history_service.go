package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/RamaAlqdri/sehatin/models"
	"github.com/RamaAlqdri/sehatin/repository"
	"github.com/RamaAlqdri/sehatin/utils"

	"github.com/google/uuid"
)

// HistoryService writes and reads food consumption records.
type HistoryService struct {
	store    *repository.Store
	clock    utils.Clock
	notifier *Notifier
}

func NewHistoryService(store *repository.Store, clock utils.Clock, notifier *Notifier) *HistoryService {
	return &HistoryService{store: store, clock: clock, notifier: notifier}
}

type CalorieEntry struct {
	ID        uuid.UUID `json:"id"`
	Calories  float64   `json:"calories"`
	CreatedAt time.Time `json:"created_at"`
}

// AddConsumption records servingAmount of a food for the calendar day of date.
// A record already present for (user, food, meal type, day) is updated in place.
// A new record also completes that day's open schedule for the food,
// preferring the one in the same meal slot.
func (s *HistoryService) AddConsumption(ctx context.Context, userID, foodID uuid.UUID, servingAmount float64, meal models.MealType, date time.Time) (*models.FoodHistory, error) {
	if servingAmount <= 0 {
		return nil, fmt.Errorf("%w: serving amount must be positive", utils.ErrInvalidInput)
	}
	if !meal.Valid() {
		return nil, fmt.Errorf("%w: unknown meal type %q", utils.ErrInvalidInput, meal)
	}
	from, to := s.clock.StartOfDay(date), s.clock.EndOfDay(date)

	var out *models.FoodHistory
	created := false
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		if err := tx.Users.LockForUpdate(ctx, userID); err != nil {
			return err
		}
		food, err := tx.Foods.GetByID(ctx, foodID)
		if err != nil {
			return err
		}
		calories := food.CaloriesFor(servingAmount)

		existing, err := tx.History.Find(ctx, userID, foodID, meal, from, to)
		switch {
		case err == nil:
			if err := tx.History.UpdateServing(ctx, existing.ID, servingAmount, calories); err != nil {
				return err
			}
			existing.ServingAmount, existing.Calories = servingAmount, calories
			out = existing
			return nil
		case !errors.Is(err, utils.ErrNotFound):
			return err
		}

		rec := &models.FoodHistory{
			UserID:        userID,
			FoodID:        foodID,
			MealType:      meal,
			ServingAmount: servingAmount,
			ServingUnit:   food.ServingUnit,
			Calories:      calories,
			OccurredAt:    occurredOn(s.clock, date).UTC(),
		}
		if err := tx.History.Create(ctx, rec); err != nil {
			return err
		}
		if err := markScheduleForFood(ctx, tx, s.clock, userID, foodID, meal, from, to, true); err != nil {
			return err
		}
		rec.Food = food
		out, created = rec, true
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("add consumption: %w", err)
	}
	if created {
		s.notifier.Emit(userID, EventConsumptionLogged, out)
	}
	return out, nil
}

// occurredOn keeps today's entries at the current instant and pins other
// days to the same wall-clock time on that day.
func occurredOn(clock utils.Clock, date time.Time) time.Time {
	now := clock.Now()
	d := clock.In(date)
	if clock.DaysBetween(now, d) == 0 {
		return now
	}
	return time.Date(d.Year(), d.Month(), d.Day(), now.Hour(), now.Minute(), now.Second(), 0, now.Location())
}

// DeleteConsumption removes the record and reopens that day's schedule for
// the food, preferring the one in the record's meal slot.
func (s *HistoryService) DeleteConsumption(ctx context.Context, userID, foodID uuid.UUID, meal models.MealType, date time.Time) error {
	from, to := s.clock.StartOfDay(date), s.clock.EndOfDay(date)
	return s.store.Transaction(ctx, func(tx *repository.Store) error {
		rec, err := tx.History.Find(ctx, userID, foodID, meal, from, to)
		if err != nil {
			return err
		}
		if err := markScheduleForFood(ctx, tx, s.clock, userID, foodID, rec.MealType, from, to, false); err != nil {
			return err
		}
		return tx.History.Delete(ctx, rec.ID)
	})
}

func (s *HistoryService) GetConsumption(ctx context.Context, userID, foodID uuid.UUID, meal models.MealType, date time.Time) (*models.FoodHistory, error) {
	return s.store.History.Find(ctx, userID, foodID, meal, s.clock.StartOfDay(date), s.clock.EndOfDay(date))
}

func (s *HistoryService) ListByMealType(ctx context.Context, userID uuid.UUID, meal models.MealType, date time.Time) ([]models.FoodHistory, error) {
	if !meal.Valid() {
		return nil, fmt.Errorf("%w: unknown meal type %q", utils.ErrInvalidInput, meal)
	}
	return s.store.History.ListByMealType(ctx, userID, meal, s.clock.StartOfDay(date), s.clock.EndOfDay(date))
}

func (s *HistoryService) ListRange(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]models.FoodHistory, error) {
	if s.clock.StartOfDay(end).Before(s.clock.StartOfDay(start)) {
		return nil, fmt.Errorf("%w: end must be on or after start", utils.ErrInvalidInput)
	}
	return s.store.History.ListConsumption(ctx, userID, s.clock.StartOfDay(start), s.clock.EndOfDay(end))
}

func (s *HistoryService) CaloriesHistoryForDay(ctx context.Context, userID uuid.UUID, date time.Time) ([]CalorieEntry, error) {
	rows, err := s.store.History.ListConsumption(ctx, userID, s.clock.StartOfDay(date), s.clock.EndOfDay(date))
	if err != nil {
		return nil, err
	}
	out := make([]CalorieEntry, 0, len(rows))
	for _, r := range rows {
		out = append(out, CalorieEntry{ID: r.ID, Calories: utils.Round2(r.Calories), CreatedAt: r.OccurredAt})
	}
	return out, nil
}
