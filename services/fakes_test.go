package services_test

import (
	"context"
	"time"

	"github.com/RamaAlqdri/sehatin/models"

	"github.com/google/uuid"
)

// memStore serves the progress readers from slices and filters by the
// same inclusive window the repositories use.
type memStore struct {
	records   []models.FoodHistory
	schedules []models.Schedule
	water     []models.WaterHistory
	weights   []models.WeightHistory
	user      *models.User
	err       error
}

func within(t, from, to time.Time) bool { return !t.Before(from) && !t.After(to) }

func (m *memStore) ListConsumption(_ context.Context, userID uuid.UUID, from, to time.Time) ([]models.FoodHistory, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []models.FoodHistory
	for _, r := range m.records {
		if r.UserID == userID && within(r.OccurredAt, from, to) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memStore) ListInRange(_ context.Context, userID uuid.UUID, from, to time.Time) ([]models.Schedule, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []models.Schedule
	for _, s := range m.schedules {
		if s.UserID == userID && within(s.ScheduledAt, from, to) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *memStore) ListByUser(_ context.Context, userID uuid.UUID) ([]models.Schedule, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []models.Schedule
	for _, s := range m.schedules {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *memStore) ListWater(_ context.Context, userID uuid.UUID, from, to time.Time) ([]models.WaterHistory, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []models.WaterHistory
	for _, w := range m.water {
		if w.UserID == userID && within(w.OccurredAt, from, to) {
			out = append(out, w)
		}
	}
	return out, nil
}

func (m *memStore) ListWeightHistory(_ context.Context, userID uuid.UUID) ([]models.WeightHistory, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []models.WeightHistory
	for _, w := range m.weights {
		if w.UserID == userID {
			out = append(out, w)
		}
	}
	return out, nil
}

func (m *memStore) GetUser(_ context.Context, id uuid.UUID) (*models.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.user, nil
}

func record(userID uuid.UUID, meal models.MealType, calories float64, at time.Time) models.FoodHistory {
	return models.FoodHistory{
		Base:       models.Base{ID: uuid.New()},
		UserID:     userID,
		FoodID:     uuid.New(),
		MealType:   meal,
		Calories:   calories,
		OccurredAt: at,
	}
}

func schedule(userID uuid.UUID, at time.Time, calories, water float64, done bool) models.Schedule {
	return models.Schedule{
		Base:           models.Base{ID: uuid.New()},
		UserID:         userID,
		FoodID:         uuid.New(),
		CaloriesTarget: calories,
		WaterTarget:    water,
		ScheduledAt:    at,
		IsCompleted:    done,
	}
}
