package services

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/RamaAlqdri/sehatin/models"
	"github.com/RamaAlqdri/sehatin/utils"

	"github.com/google/uuid"
)

const (
	TrendCloser     = "closer"
	TrendMovingAway = "moving away"
	TrendStagnant   = "stagnant"
)

type WeightProgress struct {
	Score
	Target        float64 `json:"target"`
	FirstWeight   float64 `json:"first_weight"`
	CurrentWeight float64 `json:"current_weight"`
	Delta         float64 `json:"delta"`
	Trend         string  `json:"trend,omitempty"`
}

type WeightProgressScorer struct {
	users   UserGetter
	weights WeightLister
}

func NewWeightProgressScorer(users UserGetter, weights WeightLister) *WeightProgressScorer {
	return &WeightProgressScorer{users: users, weights: weights}
}

func (s *WeightProgressScorer) Progress(ctx context.Context, userID uuid.UUID) (*WeightProgress, error) {
	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("weight progress: %w", err)
	}
	samples, err := s.weights.ListWeightHistory(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("weight progress: %w", err)
	}
	out := ComputeWeightProgress(samples, user.WeightTarget)
	return &out, nil
}

// ComputeWeightProgress measures how much of the gap between the first
// sample and target has been closed by the latest sample.
func ComputeWeightProgress(samples []models.WeightHistory, target float64) WeightProgress {
	if len(samples) == 0 {
		return WeightProgress{
			Score:  Score{Percentage: 0, ShortMessage: msgNoData, Description: "No weight history found."},
			Target: target,
		}
	}

	sorted := make([]models.WeightHistory, len(samples))
	copy(sorted, samples)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].CreatedAt.Before(sorted[j].CreatedAt) })

	first := sorted[0].Weight
	current := sorted[len(sorted)-1].Weight
	totalDistance := math.Abs(first - target)
	currentDistance := math.Abs(current - target)

	pct := 100.0
	if totalDistance != 0 {
		pct = utils.Clamp(utils.Round2((1-currentDistance/totalDistance)*100), 0, 100)
	}

	trend := TrendStagnant
	switch {
	case currentDistance < totalDistance:
		trend = TrendCloser
	case currentDistance > totalDistance:
		trend = TrendMovingAway
	}

	out := WeightProgress{
		Target:        target,
		FirstWeight:   first,
		CurrentWeight: current,
		Delta:         utils.Round1(math.Abs(current - first)),
		Trend:         trend,
	}
	out.Percentage = pct
	out.ShortMessage, out.Description = weightBand(pct, current, target, currentDistance)
	return out
}

// Below 100 the bands are open above (<20, <40, ...), unlike completion.
func weightBand(pct, current, target, remaining float64) (string, string) {
	if pct >= 100 {
		if current < target {
			return "Target Reached!", fmt.Sprintf(
				"You have passed your target. Consider gaining back up to %skg (current %skg).",
				formatNumber(target), formatNumber(current))
		}
		return "Target Reached!", "Congratulations, you have reached your target weight!"
	}

	desc := fmt.Sprintf("%skg remaining to reach your target", formatNumber(utils.Round2(remaining)))
	switch {
	case pct < 20:
		return msgNeedsEffort, desc
	case pct < 40:
		return msgInProgress, desc
	case pct < 60:
		return msgFairlyGood, desc
	case pct < 80:
		return msgGreat, desc
	default:
		return msgExcellent, desc
	}
}
