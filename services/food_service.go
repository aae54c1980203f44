package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/RamaAlqdri/sehatin/models"
	"github.com/RamaAlqdri/sehatin/repository"
	"github.com/RamaAlqdri/sehatin/utils"

	"github.com/google/uuid"
)

const (
	defaultFilterLimit  = 5
	recommendationCount = 6
	foodImagePrefix     = "food-images"
)

type ImageUploader interface {
	UploadBase64Image(ctx context.Context, dataURI, prefix, name string) (string, error)
}

type LabelDetector interface {
	DetectLabels(ctx context.Context, dataURI string) ([]string, error)
}

type FoodService struct {
	foods    *repository.FoodRepository
	uploader ImageUploader
	labels   LabelDetector
}

// NewFoodService accepts nil uploader or labels when AWS is not configured.
func NewFoodService(foods *repository.FoodRepository, uploader ImageUploader, labels LabelDetector) *FoodService {
	return &FoodService{foods: foods, uploader: uploader, labels: labels}
}

type FoodInput struct {
	Name          string  `json:"name" binding:"required"`
	Description   string  `json:"description"`
	Calories      float64 `json:"calories"`
	Protein       float64 `json:"protein"`
	Fat           float64 `json:"fat"`
	Carb          float64 `json:"carb"`
	Fiber         float64 `json:"fiber"`
	ServingAmount float64 `json:"serving_amount"`
	ServingUnit   string  `json:"serving_unit"`
	Image         string  `json:"image"`
}

// FoodPatch updates only the fields that are set.
type FoodPatch struct {
	Name          *string  `json:"name"`
	Description   *string  `json:"description"`
	Calories      *float64 `json:"calories"`
	Protein       *float64 `json:"protein"`
	Fat           *float64 `json:"fat"`
	Carb          *float64 `json:"carb"`
	Fiber         *float64 `json:"fiber"`
	ServingAmount *float64 `json:"serving_amount"`
	ServingUnit   *string  `json:"serving_unit"`
	Image         *string  `json:"image"`
}

type Recognition struct {
	Labels []string      `json:"labels"`
	Foods  []models.Food `json:"foods"`
}

func (s *FoodService) Create(ctx context.Context, in FoodInput) (*models.Food, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", utils.ErrInvalidInput)
	}
	if in.Calories < 0 || in.ServingAmount < 0 {
		return nil, fmt.Errorf("%w: calories and serving amount must not be negative", utils.ErrInvalidInput)
	}
	if in.ServingAmount == 0 {
		in.ServingAmount = 1
	}

	food := &models.Food{
		Base:          models.Base{ID: uuid.New()},
		Name:          strings.TrimSpace(in.Name),
		Description:   in.Description,
		Calories:      in.Calories,
		Protein:       in.Protein,
		Fat:           in.Fat,
		Carb:          in.Carb,
		Fiber:         in.Fiber,
		ServingAmount: in.ServingAmount,
		ServingUnit:   in.ServingUnit,
	}
	image, err := s.resolveImage(ctx, in.Image, food.ID)
	if err != nil {
		return nil, err
	}
	food.Image = image

	if err := s.foods.Create(ctx, food); err != nil {
		return nil, fmt.Errorf("create food: %w", err)
	}
	return food, nil
}

func (s *FoodService) Update(ctx context.Context, id uuid.UUID, p FoodPatch) (*models.Food, error) {
	food, err := s.foods.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if p.Name != nil {
		if strings.TrimSpace(*p.Name) == "" {
			return nil, fmt.Errorf("%w: name must not be empty", utils.ErrInvalidInput)
		}
		food.Name = strings.TrimSpace(*p.Name)
	}
	if p.Description != nil {
		food.Description = *p.Description
	}
	if p.Calories != nil {
		food.Calories = *p.Calories
	}
	if p.Protein != nil {
		food.Protein = *p.Protein
	}
	if p.Fat != nil {
		food.Fat = *p.Fat
	}
	if p.Carb != nil {
		food.Carb = *p.Carb
	}
	if p.Fiber != nil {
		food.Fiber = *p.Fiber
	}
	if p.ServingAmount != nil {
		if *p.ServingAmount <= 0 {
			return nil, fmt.Errorf("%w: serving amount must be positive", utils.ErrInvalidInput)
		}
		food.ServingAmount = *p.ServingAmount
	}
	if p.ServingUnit != nil {
		food.ServingUnit = *p.ServingUnit
	}
	if p.Image != nil {
		image, err := s.resolveImage(ctx, *p.Image, food.ID)
		if err != nil {
			return nil, err
		}
		food.Image = image
	}

	if err := s.foods.Save(ctx, food); err != nil {
		return nil, fmt.Errorf("update food: %w", err)
	}
	return food, nil
}

// resolveImage uploads data URIs and passes plain URLs through.
func (s *FoodService) resolveImage(ctx context.Context, image string, id uuid.UUID) (string, error) {
	if !strings.HasPrefix(image, "data:") {
		return image, nil
	}
	if s.uploader == nil {
		return "", fmt.Errorf("%w: image upload is not configured", utils.ErrInvalidInput)
	}
	return s.uploader.UploadBase64Image(ctx, image, foodImagePrefix, id.String())
}

// UploadImage stores a standalone image so admins can attach the URL later.
func (s *FoodService) UploadImage(ctx context.Context, dataURI string) (string, error) {
	if !strings.HasPrefix(dataURI, "data:") {
		return "", fmt.Errorf("%w: image must be a base64 data URI", utils.ErrInvalidInput)
	}
	return s.resolveImage(ctx, dataURI, uuid.New())
}

func (s *FoodService) Get(ctx context.Context, id uuid.UUID) (*models.Food, error) {
	return s.foods.GetByID(ctx, id)
}

func (s *FoodService) List(ctx context.Context) ([]models.Food, error) {
	return s.foods.List(ctx)
}

func (s *FoodService) Filter(ctx context.Context, name string, limit int) ([]models.Food, error) {
	if limit <= 0 {
		limit = defaultFilterLimit
	}
	return s.foods.FilterByName(ctx, strings.TrimSpace(name), limit)
}

func (s *FoodService) Many(ctx context.Context, ids []uuid.UUID) ([]models.Food, error) {
	return s.foods.GetByIDs(ctx, ids)
}

func (s *FoodService) Recommendations(ctx context.Context) ([]models.Food, error) {
	return s.foods.Random(ctx, recommendationCount)
}

// Recognize labels a photo and returns catalog entries whose names match any label.
func (s *FoodService) Recognize(ctx context.Context, dataURI string) (*Recognition, error) {
	if s.labels == nil {
		return nil, fmt.Errorf("%w: image recognition is not configured", utils.ErrInvalidInput)
	}
	labels, err := s.labels.DetectLabels(ctx, dataURI)
	if err != nil {
		return nil, err
	}

	out := &Recognition{Labels: labels, Foods: []models.Food{}}
	seen := map[uuid.UUID]bool{}
	for _, l := range labels {
		matches, err := s.foods.FilterByName(ctx, l, defaultFilterLimit)
		if err != nil {
			return nil, fmt.Errorf("match label %q: %w", l, err)
		}
		for _, f := range matches {
			if !seen[f.ID] {
				seen[f.ID] = true
				out.Foods = append(out.Foods, f)
			}
		}
	}
	return out, nil
}
