package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/RamaAlqdri/sehatin/models"
	"github.com/RamaAlqdri/sehatin/repository"
	"github.com/RamaAlqdri/sehatin/utils"

	"github.com/google/uuid"
)

const (
	dummyMealsPerDay  = 3
	dummyMealSpacing  = 14 * time.Hour
	dummyWaterMin     = 500
	dummyWaterMax     = 750
	dummyFoodPoolSize = 100
	completedServing  = 1.0
)

type ScheduleService struct {
	store    *repository.Store
	clock    utils.Clock
	notifier *Notifier

	rngMu sync.Mutex
	rng   *rand.Rand
}

func NewScheduleService(store *repository.Store, clock utils.Clock, notifier *Notifier) *ScheduleService {
	return &ScheduleService{
		store:    store,
		clock:    clock,
		notifier: notifier,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

type CreateScheduleInput struct {
	UserID         uuid.UUID `json:"user_id" binding:"required"`
	FoodID         uuid.UUID `json:"food_id" binding:"required"`
	ScheduledAt    time.Time `json:"scheduled_at" binding:"required"`
	CaloriesTarget *float64  `json:"calories_target"`
	WaterTarget    float64   `json:"water_target"`
}

type UpdateScheduleInput struct {
	ScheduleID     uuid.UUID  `json:"schedule_id"`
	FoodID         *uuid.UUID `json:"food_id"`
	ScheduledAt    *time.Time `json:"scheduled_at"`
	IsCompleted    *bool      `json:"is_completed"`
	CaloriesTarget *float64   `json:"calories_target"`
	WaterTarget    *float64   `json:"water_target"`
	CaloriesBurned *float64   `json:"calories_burned"`
	WaterConsum    *float64   `json:"water_consum"`
}

// Create defaults the calorie target to the food's calories.
func (s *ScheduleService) Create(ctx context.Context, in CreateScheduleInput) (*models.Schedule, error) {
	if in.WaterTarget < 0 {
		return nil, fmt.Errorf("%w: water target must not be negative", utils.ErrInvalidInput)
	}
	if err := s.store.Users.MustExist(ctx, in.UserID); err != nil {
		return nil, err
	}
	food, err := s.store.Foods.GetByID(ctx, in.FoodID)
	if err != nil {
		return nil, err
	}

	target := food.Calories
	if in.CaloriesTarget != nil {
		target = *in.CaloriesTarget
	}
	sch := &models.Schedule{
		UserID:         in.UserID,
		FoodID:         food.ID,
		CaloriesTarget: target,
		WaterTarget:    in.WaterTarget,
		ScheduledAt:    in.ScheduledAt.UTC(),
	}
	if err := s.store.Schedules.Create(ctx, sch); err != nil {
		return nil, fmt.Errorf("create schedule: %w", err)
	}
	sch.Food = food
	return sch, nil
}

// Get returns the schedule when userID owns it or asAdmin is set.
func (s *ScheduleService) Get(ctx context.Context, id, userID uuid.UUID, asAdmin bool) (*models.Schedule, error) {
	sch, err := s.store.Schedules.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !asAdmin && sch.UserID != userID {
		return nil, fmt.Errorf("%w: schedule not found", utils.ErrNotFound)
	}
	return sch, nil
}

func (s *ScheduleService) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Schedule, error) {
	return s.store.Schedules.ListByUser(ctx, userID)
}

func (s *ScheduleService) Update(ctx context.Context, userID uuid.UUID, asAdmin bool, in UpdateScheduleInput) (*models.Schedule, error) {
	sch, err := s.Get(ctx, in.ScheduleID, userID, asAdmin)
	if err != nil {
		return nil, err
	}

	if in.FoodID != nil {
		food, err := s.store.Foods.GetByID(ctx, *in.FoodID)
		if err != nil {
			return nil, err
		}
		sch.FoodID, sch.Food = food.ID, food
	}
	if in.ScheduledAt != nil {
		sch.ScheduledAt = in.ScheduledAt.UTC()
	}
	if in.IsCompleted != nil {
		sch.IsCompleted = *in.IsCompleted
	}
	if in.CaloriesTarget != nil {
		sch.CaloriesTarget = *in.CaloriesTarget
	}
	if in.WaterTarget != nil {
		if *in.WaterTarget < 0 {
			return nil, fmt.Errorf("%w: water target must not be negative", utils.ErrInvalidInput)
		}
		sch.WaterTarget = *in.WaterTarget
	}
	if in.CaloriesBurned != nil {
		sch.CaloriesBurned = *in.CaloriesBurned
	}
	if in.WaterConsum != nil {
		sch.WaterConsum = *in.WaterConsum
	}

	if err := s.store.Schedules.Save(ctx, sch); err != nil {
		return nil, fmt.Errorf("update schedule: %w", err)
	}
	return sch, nil
}

func (s *ScheduleService) UpdateFood(ctx context.Context, userID uuid.UUID, asAdmin bool, scheduleID, foodID uuid.UUID) (*models.Schedule, error) {
	return s.Update(ctx, userID, asAdmin, UpdateScheduleInput{ScheduleID: scheduleID, FoodID: &foodID})
}

// Closest returns the first schedule at or after date.
func (s *ScheduleService) Closest(ctx context.Context, userID uuid.UUID, date time.Time) (*models.Schedule, error) {
	return s.store.Schedules.Closest(ctx, userID, date)
}

func (s *ScheduleService) ByDay(ctx context.Context, userID uuid.UUID, date time.Time) ([]models.Schedule, error) {
	return s.store.Schedules.ListInRange(ctx, userID, s.clock.StartOfDay(date), s.clock.EndOfDay(date))
}

func (s *ScheduleService) ByMonth(ctx context.Context, userID uuid.UUID, date time.Time) ([]models.Schedule, error) {
	return s.store.Schedules.ListInRange(ctx, userID, s.clock.StartOfMonth(date), s.clock.EndOfMonth(date))
}

// MealTypeAt derives the meal slot from the local hour:
// [6,11) breakfast, [11,17) lunch, everything else dinner.
func MealTypeAt(t time.Time) models.MealType {
	switch h := t.Hour(); {
	case h >= 6 && h < 11:
		return models.MealBreakfast
	case h >= 11 && h < 17:
		return models.MealLunch
	default:
		return models.MealDinner
	}
}

// Complete marks the schedule done and logs one serving of its food, all in
// one transaction. Meal type and day come from the schedule's own time, so a
// late completion lands on the day the meal was planned for. A record already
// present for that food, meal type and day is left untouched.
func (s *ScheduleService) Complete(ctx context.Context, scheduleID, userID uuid.UUID) (*models.Schedule, error) {
	var out *models.Schedule
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		if err := tx.Users.LockForUpdate(ctx, userID); err != nil {
			return err
		}
		sch, err := tx.Schedules.GetForUpdate(ctx, scheduleID, userID)
		if err != nil {
			return err
		}
		at := s.clock.In(sch.ScheduledAt)
		meal := MealTypeAt(at)
		from, to := s.clock.StartOfDay(at), s.clock.EndOfDay(at)

		food, err := tx.Foods.GetByID(ctx, sch.FoodID)
		if err != nil {
			return err
		}

		_, err = tx.History.Find(ctx, userID, food.ID, meal, from, to)
		switch {
		case errors.Is(err, utils.ErrNotFound):
			if err := tx.History.Create(ctx, &models.FoodHistory{
				UserID:        userID,
				FoodID:        food.ID,
				MealType:      meal,
				ServingAmount: completedServing,
				ServingUnit:   food.ServingUnit,
				Calories:      food.CaloriesFor(completedServing),
				OccurredAt:    occurredOn(s.clock, at).UTC(),
			}); err != nil {
				return err
			}
		case err != nil:
			return err
		}

		sch.IsCompleted = true
		if err := tx.Schedules.Save(ctx, sch); err != nil {
			return err
		}
		sch.Food = food
		out = sch
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("complete schedule: %w", err)
	}
	s.notifier.Emit(userID, EventScheduleCompleted, out)
	return out, nil
}

// markScheduleForFood sets is_completed on one of the user's schedules for
// the food inside [from, to]. Among the schedules not yet in that state it
// picks the one whose slot matches meal, else the earliest.
func markScheduleForFood(ctx context.Context, tx *repository.Store, clock utils.Clock, userID, foodID uuid.UUID, meal models.MealType, from, to time.Time, completed bool) error {
	rows, err := tx.Schedules.ListForFood(ctx, userID, foodID, from, to, !completed)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}
	pick := rows[0]
	for _, r := range rows {
		if MealTypeAt(clock.In(r.ScheduledAt)) == meal {
			pick = r
			break
		}
	}
	return tx.Schedules.SetCompleted(ctx, pick.ID, completed)
}

// CreateDummyMonth replaces the user's schedules for the month with three
// random meals per day, fourteen hours apart from local midnight.
// It returns how many schedules were written.
func (s *ScheduleService) CreateDummyMonth(ctx context.Context, userID uuid.UUID, month, year int) (int, error) {
	if month < 1 || month > 12 || year < 1970 {
		return 0, fmt.Errorf("%w: invalid month %d/%d", utils.ErrInvalidInput, month, year)
	}
	if err := s.store.Users.MustExist(ctx, userID); err != nil {
		return 0, err
	}
	foods, err := s.store.Foods.Random(ctx, dummyFoodPoolSize)
	if err != nil {
		return 0, err
	}
	if len(foods) == 0 {
		return 0, fmt.Errorf("%w: no foods available in the catalog", utils.ErrInvalidInput)
	}

	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, s.clock.Location())
	start, end := s.clock.StartOfMonth(first), s.clock.EndOfMonth(first)

	var rows []models.Schedule
	for day := start; day.Before(end); day = day.AddDate(0, 0, 1) {
		for i := 0; i < dummyMealsPerDay; i++ {
			food := foods[s.intn(len(foods))]
			rows = append(rows, models.Schedule{
				UserID:         userID,
				FoodID:         food.ID,
				ScheduledAt:    day.Add(time.Duration(i) * dummyMealSpacing).UTC(),
				CaloriesTarget: food.Calories,
				WaterTarget:    float64(dummyWaterMin + s.intn(dummyWaterMax-dummyWaterMin+1)),
			})
		}
	}

	err = s.store.Transaction(ctx, func(tx *repository.Store) error {
		if err := tx.Schedules.DeleteInRange(ctx, userID, start, end); err != nil {
			return err
		}
		return tx.Schedules.CreateMany(ctx, rows)
	})
	if err != nil {
		return 0, fmt.Errorf("create dummy schedules: %w", err)
	}
	return len(rows), nil
}

func (s *ScheduleService) intn(n int) int {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	return s.rng.Intn(n)
}
