package services

import (
	"context"
	"strconv"
	"time"

	"github.com/RamaAlqdri/sehatin/models"

	"github.com/google/uuid"
)

// Data the progress aggregators read. The repository package implements
// all of them; tests pass in-memory fakes.

type ConsumptionLister interface {
	ListConsumption(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]models.FoodHistory, error)
}

type ScheduleLister interface {
	ListInRange(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]models.Schedule, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Schedule, error)
}

type WaterLister interface {
	ListWater(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]models.WaterHistory, error)
}

type WeightLister interface {
	ListWeightHistory(ctx context.Context, userID uuid.UUID) ([]models.WeightHistory, error)
}

type UserGetter interface {
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// Score is a percentage with the band messages shown next to it.
type Score struct {
	Percentage   float64 `json:"percentage"`
	ShortMessage string  `json:"short_message"`
	Description  string  `json:"description"`
}

const (
	msgNoData      = "No Data"
	msgNeedsEffort = "Needs Effort"
	msgInProgress  = "In Progress"
	msgFairlyGood  = "Fairly Good"
	msgGreat       = "Great"
	msgExcellent   = "Excellent"
)

func formatNumber(x float64) string {
	return strconv.FormatFloat(x, 'f', -1, 64)
}
