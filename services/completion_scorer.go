package services

import (
	"context"
	"fmt"

	"github.com/RamaAlqdri/sehatin/models"
	"github.com/RamaAlqdri/sehatin/utils"

	"github.com/google/uuid"
)

type CompletionScorer struct {
	schedules ScheduleLister
}

func NewCompletionScorer(schedules ScheduleLister) *CompletionScorer {
	return &CompletionScorer{schedules: schedules}
}

// Score rates every schedule the user has ever had, not a time window.
func (s *CompletionScorer) Score(ctx context.Context, userID uuid.UUID) (*Score, error) {
	rows, err := s.schedules.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("completion score: %w", err)
	}
	out := CompletionScore(rows)
	return &out, nil
}

func CompletionScore(schedules []models.Schedule) Score {
	if len(schedules) == 0 {
		return Score{Percentage: 0, ShortMessage: msgNoData, Description: "No schedule found for this user."}
	}
	var done int
	for _, s := range schedules {
		if s.IsCompleted {
			done++
		}
	}
	pct := utils.Clamp(utils.Round2(float64(done)/float64(len(schedules))*100), 0, 100)
	short, desc := completionBand(pct)
	return Score{Percentage: pct, ShortMessage: short, Description: desc}
}

// Bands are closed above: 20 is still "Needs Effort", 20.01 is "In Progress".
func completionBand(pct float64) (string, string) {
	switch {
	case pct <= 20:
		return msgNeedsEffort, "Increase your schedule completion."
	case pct <= 40:
		return msgInProgress, "There is progress, keep going."
	case pct <= 60:
		return msgFairlyGood, "You are doing fairly well."
	case pct <= 80:
		return msgGreat, "You are on the right track."
	default:
		return msgExcellent, "You completed most of your schedule."
	}
}
