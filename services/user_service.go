package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/RamaAlqdri/sehatin/models"
	"github.com/RamaAlqdri/sehatin/repository"
	"github.com/RamaAlqdri/sehatin/utils"

	"github.com/google/uuid"
)

type UserService struct {
	store *repository.Store
	clock utils.Clock
}

func NewUserService(store *repository.Store, clock utils.Clock) *UserService {
	return &UserService{store: store, clock: clock}
}

// UserDetail is the profile plus derived values.
type UserDetail struct {
	*models.User
	Age         int    `json:"age,omitempty"`
	BMICategory string `json:"bmi_category,omitempty"`
}

func (s *UserService) Detail(ctx context.Context, id uuid.UUID) (*UserDetail, error) {
	user, err := s.store.Users.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	out := &UserDetail{User: user}
	if user.Birthday != nil {
		out.Age = utils.CalculateAge(*user.Birthday, s.clock.Now())
	}
	if user.BMI > 0 {
		out.BMICategory = utils.BMICategory(user.BMI)
	}
	return out, nil
}

func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	return s.store.Users.List(ctx)
}

func (s *UserService) UpdateName(ctx context.Context, id uuid.UUID, name string) (*models.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name must not be empty", utils.ErrInvalidInput)
	}
	return s.store.Users.Update(ctx, id, map[string]any{"name": name})
}

// UpdateHeight also refreshes BMI when a weight is on file.
func (s *UserService) UpdateHeight(ctx context.Context, id uuid.UUID, height float64) (*models.User, error) {
	if height <= 0 {
		return nil, fmt.Errorf("%w: height must be positive", utils.ErrInvalidInput)
	}
	user, err := s.store.Users.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	fields := map[string]any{"height": height}
	if bmi, err := utils.CalculateBMI(height, user.Weight); err == nil {
		fields["bmi"] = utils.Round2(bmi)
	}
	return s.store.Users.Update(ctx, id, fields)
}

// UpdateWeight stores the new weight and appends it to the weight history
// in one transaction.
func (s *UserService) UpdateWeight(ctx context.Context, id uuid.UUID, weight float64) (*models.User, error) {
	if weight <= 0 {
		return nil, fmt.Errorf("%w: weight must be positive", utils.ErrInvalidInput)
	}
	var out *models.User
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		user, err := tx.Users.GetUser(ctx, id)
		if err != nil {
			return err
		}
		fields := map[string]any{"weight": weight}
		if bmi, err := utils.CalculateBMI(user.Height, weight); err == nil {
			fields["bmi"] = utils.Round2(bmi)
		}
		if out, err = tx.Users.Update(ctx, id, fields); err != nil {
			return err
		}
		return tx.Users.AddWeightSample(ctx, &models.WeightHistory{
			UserID:    id,
			Weight:    weight,
			CreatedAt: s.clock.Now().UTC(),
		})
	})
	if err != nil {
		return nil, fmt.Errorf("update weight: %w", err)
	}
	return out, nil
}

func (s *UserService) UpdateWeightTarget(ctx context.Context, id uuid.UUID, target float64) (*models.User, error) {
	if target <= 0 {
		return nil, fmt.Errorf("%w: weight target must be positive", utils.ErrInvalidInput)
	}
	return s.store.Users.Update(ctx, id, map[string]any{"weight_target": target})
}

func (s *UserService) UpdateBMI(ctx context.Context, id uuid.UUID, bmi float64) (*models.User, error) {
	if bmi <= 0 {
		return nil, fmt.Errorf("%w: bmi must be positive", utils.ErrInvalidInput)
	}
	return s.store.Users.Update(ctx, id, map[string]any{"bmi": bmi})
}

func (s *UserService) UpdateBMR(ctx context.Context, id uuid.UUID, bmr float64) (*models.User, error) {
	if bmr <= 0 {
		return nil, fmt.Errorf("%w: bmr must be positive", utils.ErrInvalidInput)
	}
	return s.store.Users.Update(ctx, id, map[string]any{"bmr": bmr})
}

func (s *UserService) UpdateGender(ctx context.Context, id uuid.UUID, g models.Gender) (*models.User, error) {
	if !g.Valid() {
		return nil, fmt.Errorf("%w: gender must be male or female", utils.ErrInvalidInput)
	}
	return s.store.Users.Update(ctx, id, map[string]any{"gender": g})
}

func (s *UserService) UpdateActivity(ctx context.Context, id uuid.UUID, a models.Activity) (*models.User, error) {
	if !a.Valid() {
		return nil, fmt.Errorf("%w: activity must be sedentary, light, moderately or heavy", utils.ErrInvalidInput)
	}
	return s.store.Users.Update(ctx, id, map[string]any{"activity": a})
}

func (s *UserService) UpdateGoal(ctx context.Context, id uuid.UUID, g models.Goal) (*models.User, error) {
	if !g.Valid() {
		return nil, fmt.Errorf("%w: goal must be weight, muscle or health", utils.ErrInvalidInput)
	}
	return s.store.Users.Update(ctx, id, map[string]any{"goal": g})
}

func (s *UserService) UpdateBirthday(ctx context.Context, id uuid.UUID, birthday time.Time) (*models.User, error) {
	if birthday.After(s.clock.Now()) {
		return nil, fmt.Errorf("%w: birthday must not be in the future", utils.ErrInvalidInput)
	}
	return s.store.Users.Update(ctx, id, map[string]any{"birthday": s.clock.StartOfDay(birthday).UTC()})
}

func (s *UserService) ResetPassword(ctx context.Context, id uuid.UUID, password string) error {
	if err := utils.ValidatePassword(password); err != nil {
		return err
	}
	hash, err := utils.HashPassword(password)
	if err != nil {
		return err
	}
	_, err = s.store.Users.Update(ctx, id, map[string]any{"password": hash})
	return err
}

func (s *UserService) WeightHistory(ctx context.Context, id uuid.UUID) ([]models.WeightHistory, error) {
	if err := s.store.Users.MustExist(ctx, id); err != nil {
		return nil, err
	}
	return s.store.Users.ListWeightHistory(ctx, id)
}
