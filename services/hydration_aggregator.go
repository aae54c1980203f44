package services

import (
	"context"
	"fmt"
	"time"

	"github.com/RamaAlqdri/sehatin/utils"

	"github.com/google/uuid"
)

type WaterSummary struct {
	ConsumedMl float64 `json:"consumed_ml"`
	TargetMl   float64 `json:"target_ml"`
}

type HydrationAggregator struct {
	water     WaterLister
	schedules ScheduleLister
	clock     utils.Clock
}

func NewHydrationAggregator(water WaterLister, schedules ScheduleLister, clock utils.Clock) *HydrationAggregator {
	return &HydrationAggregator{water: water, schedules: schedules, clock: clock}
}

// DailyWater compares intake on the calendar day of date with the water
// targets of that day's schedules.
func (a *HydrationAggregator) DailyWater(ctx context.Context, userID uuid.UUID, date time.Time) (*WaterSummary, error) {
	from, to := a.clock.StartOfDay(date), a.clock.EndOfDay(date)

	schedules, err := a.schedules.ListInRange(ctx, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("daily water: %w", err)
	}
	intake, err := a.water.ListWater(ctx, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("daily water: %w", err)
	}

	var consumed, target float64
	for _, s := range schedules {
		target += s.WaterTarget
	}
	for _, w := range intake {
		consumed += w.AmountMl
	}
	return &WaterSummary{ConsumedMl: utils.Round2(consumed), TargetMl: utils.Round2(target)}, nil
}
