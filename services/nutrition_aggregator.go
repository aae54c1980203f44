package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/RamaAlqdri/sehatin/models"
	"github.com/RamaAlqdri/sehatin/utils"

	"github.com/google/uuid"
)

// Summary modes accepted by Window.
const (
	ModeDay    = "day"
	ModeRange  = "range"
	Mode7Days  = "7days"
	Mode30Days = "30days"
)

// Windows of up to this many calendar days are bucketed per day, longer ones per week.
const dailyBucketMaxDays = 8

type MealCalories struct {
	Breakfast float64 `json:"breakfast"`
	Lunch     float64 `json:"lunch"`
	Dinner    float64 `json:"dinner"`
	Other     float64 `json:"other"`
}

func (m *MealCalories) add(meal models.MealType, calories float64) {
	switch meal.Normalize() {
	case models.MealBreakfast:
		m.Breakfast += calories
	case models.MealLunch:
		m.Lunch += calories
	case models.MealDinner:
		m.Dinner += calories
	default:
		m.Other += calories
	}
}

func (m MealCalories) rounded() MealCalories {
	return MealCalories{
		Breakfast: utils.Round2(m.Breakfast),
		Lunch:     utils.Round2(m.Lunch),
		Dinner:    utils.Round2(m.Dinner),
		Other:     utils.Round2(m.Other),
	}
}

func (m MealCalories) Total() float64 { return m.Breakfast + m.Lunch + m.Dinner + m.Other }

// CalorieBucket is one day or one week of the advanced summary.
type CalorieBucket struct {
	Label string `json:"label"`
	MealCalories
}

type NutritionSummary struct {
	From                time.Time            `json:"from"`
	To                  time.Time            `json:"to"`
	TotalCalories       float64              `json:"total_calories"`
	TotalTargetCalories float64              `json:"total_target_calories"`
	AverageCalories     float64              `json:"average_calories"`
	CaloriesPerMealType MealCalories         `json:"calories_per_meal_type"`
	GroupedCalories     []CalorieBucket      `json:"grouped_calories,omitempty"`
	FoodHistory         []models.FoodHistory `json:"food_history"`
}

// CalorieSummary is consumed versus planned calories for one day.
type CalorieSummary struct {
	Calories float64 `json:"calories"`
	Target   float64 `json:"target"`
}

type NutritionAggregator struct {
	records   ConsumptionLister
	schedules ScheduleLister
	clock     utils.Clock
	locale    utils.Locale
}

func NewNutritionAggregator(records ConsumptionLister, schedules ScheduleLister, clock utils.Clock, locale utils.Locale) *NutritionAggregator {
	return &NutritionAggregator{records: records, schedules: schedules, clock: clock, locale: locale}
}

// Window resolves a summary mode into an inclusive [from, to] window.
// start and end are only read in range mode, where both are required.
func (a *NutritionAggregator) Window(mode string, date, start, end time.Time) (time.Time, time.Time, error) {
	c := a.clock
	switch mode {
	case ModeDay, "":
		return c.StartOfDay(date), c.EndOfDay(date), nil
	case ModeRange:
		if start.IsZero() || end.IsZero() {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: start and end are required for range mode", utils.ErrInvalidInput)
		}
		if c.StartOfDay(end).Before(c.StartOfDay(start)) {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: end must be on or after start", utils.ErrInvalidInput)
		}
		return c.StartOfDay(start), c.EndOfDay(end), nil
	case Mode7Days:
		return c.StartOfDay(date.AddDate(0, 0, -7)), c.EndOfDay(date), nil
	case Mode30Days:
		return c.StartOfDay(date.AddDate(0, 0, -30)), c.EndOfDay(date), nil
	default:
		return time.Time{}, time.Time{}, fmt.Errorf("%w: unknown summary mode %q", utils.ErrInvalidInput, mode)
	}
}

func (a *NutritionAggregator) Summarize(ctx context.Context, userID uuid.UUID, start, end time.Time) (*NutritionSummary, error) {
	return a.summarize(ctx, userID, start, end, false)
}

// SummarizeAdvanced adds GroupedCalories to the plain summary.
func (a *NutritionAggregator) SummarizeAdvanced(ctx context.Context, userID uuid.UUID, start, end time.Time) (*NutritionSummary, error) {
	return a.summarize(ctx, userID, start, end, true)
}

func (a *NutritionAggregator) summarize(ctx context.Context, userID uuid.UUID, start, end time.Time, grouped bool) (*NutritionSummary, error) {
	from, to := a.clock.StartOfDay(start), a.clock.EndOfDay(end)

	records, err := a.records.ListConsumption(ctx, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("nutrition summary: %w", err)
	}
	schedules, err := a.schedules.ListInRange(ctx, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("nutrition summary: %w", err)
	}

	out := SummarizeRecords(records, schedules)
	out.From, out.To = from, to
	if grouped {
		out.GroupedCalories = GroupCalories(records, from, to, a.clock, a.locale)
	}
	return out, nil
}

// SummarizeRecords computes totals over already-fetched rows. Rounding
// happens once, on the returned values.
func SummarizeRecords(records []models.FoodHistory, schedules []models.Schedule) *NutritionSummary {
	var (
		total  float64
		target float64
		meals  MealCalories
	)
	for _, r := range records {
		total += r.Calories
		meals.add(r.MealType, r.Calories)
	}
	for _, s := range schedules {
		target += s.CaloriesTarget
	}

	var avg float64
	if len(records) > 0 {
		avg = total / float64(len(records))
	}
	if records == nil {
		records = []models.FoodHistory{}
	}
	return &NutritionSummary{
		TotalCalories:       utils.Round2(total),
		TotalTargetCalories: utils.Round2(target),
		AverageCalories:     utils.Round2(avg),
		CaloriesPerMealType: meals.rounded(),
		FoodHistory:         records,
	}
}

// GroupCalories buckets records per calendar day when the window spans at
// most eight days and per seven-day week counted from `from` otherwise.
// Buckets are ordered by the number in their label.
func GroupCalories(records []models.FoodHistory, from, to time.Time, clock utils.Clock, locale utils.Locale) []CalorieBucket {
	daily := clock.DaysBetween(from, to)+1 <= dailyBucketMaxDays

	type bucket struct {
		key   int
		label string
		meals MealCalories
	}
	byLabel := map[string]*bucket{}
	for _, r := range records {
		at := clock.In(r.OccurredAt)
		var key int
		var label string
		if daily {
			key, label = at.Day(), locale.DayLabel(at)
		} else {
			key = clock.DaysBetween(from, at)/7 + 1
			label = locale.WeekLabel(key)
		}
		b, ok := byLabel[label]
		if !ok {
			b = &bucket{key: key, label: label}
			byLabel[label] = b
		}
		b.meals.add(r.MealType, r.Calories)
	}

	buckets := make([]*bucket, 0, len(byLabel))
	for _, b := range byLabel {
		buckets = append(buckets, b)
	}
	sort.Slice(buckets, func(i, j int) bool {
		if buckets[i].key != buckets[j].key {
			return buckets[i].key < buckets[j].key
		}
		return buckets[i].label < buckets[j].label
	})

	out := make([]CalorieBucket, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, CalorieBucket{Label: b.label, MealCalories: b.meals.rounded()})
	}
	return out
}

// DailyCalories sums consumed and planned calories for the calendar day of date.
func (a *NutritionAggregator) DailyCalories(ctx context.Context, userID uuid.UUID, date time.Time) (*CalorieSummary, error) {
	from, to := a.clock.StartOfDay(date), a.clock.EndOfDay(date)

	schedules, err := a.schedules.ListInRange(ctx, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("daily calories: %w", err)
	}
	records, err := a.records.ListConsumption(ctx, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("daily calories: %w", err)
	}

	var consumed, target float64
	for _, s := range schedules {
		target += s.CaloriesTarget
	}
	for _, r := range records {
		consumed += r.Calories
	}
	return &CalorieSummary{Calories: utils.Round2(consumed), Target: utils.Round2(target)}, nil
}
