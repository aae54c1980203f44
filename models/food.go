package models

import (
	"time"

	"github.com/google/uuid"
)

type Food struct {
	Base
	Name          string    `gorm:"not null;index" json:"name"`
	Description   string    `json:"description"`
	Calories      float64   `gorm:"type:decimal(10,2)" json:"calories"`
	Protein       float64   `gorm:"type:decimal(10,2)" json:"protein"`
	Fat           float64   `gorm:"type:decimal(10,2)" json:"fat"`
	Carb          float64   `gorm:"type:decimal(10,2)" json:"carb"`
	Fiber         float64   `gorm:"type:decimal(10,2)" json:"fiber"`
	ServingAmount float64   `gorm:"type:decimal(10,2);default:1" json:"serving_amount"`
	ServingUnit   string    `json:"serving_unit"`
	Image         string    `json:"image"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// CaloriesFor scales the catalog calories to the given serving amount.
// A missing serving size on the catalog entry counts as one serving.
func (f *Food) CaloriesFor(servingAmount float64) float64 {
	base := f.ServingAmount
	if base <= 0 {
		base = 1
	}
	return f.Calories / base * servingAmount
}

type MealType string

const (
	MealBreakfast MealType = "breakfast"
	MealLunch     MealType = "lunch"
	MealDinner    MealType = "dinner"
	MealOther     MealType = "other"
)

var MealTypes = []MealType{MealBreakfast, MealLunch, MealDinner, MealOther}

func (m MealType) Valid() bool {
	switch m {
	case MealBreakfast, MealLunch, MealDinner, MealOther:
		return true
	}
	return false
}

// Normalize maps anything unrecognized to MealOther.
func (m MealType) Normalize() MealType {
	if m.Valid() {
		return m
	}
	return MealOther
}

// FoodHistory is one consumption record. There is at most one per
// (user, food, meal type, calendar day).
type FoodHistory struct {
	Base
	UserID        uuid.UUID `gorm:"type:uuid;index:idx_food_history_user_time;not null" json:"user_id"`
	FoodID        uuid.UUID `gorm:"type:uuid;index;not null" json:"food_id"`
	Food          *Food     `gorm:"foreignKey:FoodID" json:"food,omitempty"`
	MealType      MealType  `gorm:"size:16" json:"meal_type"`
	ServingAmount float64   `gorm:"type:double precision" json:"serving_amount"`
	ServingUnit   string    `json:"serving_unit"`
	Calories      float64   `gorm:"type:double precision" json:"calories"`
	OccurredAt    time.Time `gorm:"index:idx_food_history_user_time;not null" json:"occurred_at"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
