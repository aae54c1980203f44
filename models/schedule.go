package models

import (
	"time"

	"github.com/google/uuid"
)

// Schedule is a planned meal slot with calorie and water targets.
type Schedule struct {
	Base
	UserID         uuid.UUID `gorm:"type:uuid;index:idx_schedule_user_time;not null" json:"user_id"`
	FoodID         uuid.UUID `gorm:"type:uuid;index;not null" json:"food_id"`
	Food           *Food     `gorm:"foreignKey:FoodID" json:"food,omitempty"`
	CaloriesTarget float64   `gorm:"type:decimal(10,2)" json:"calories_target"`
	CaloriesBurned float64   `gorm:"type:decimal(10,2);default:0" json:"calories_burned"`
	WaterTarget    float64   `gorm:"type:decimal(10,2);default:0" json:"water_target"`
	WaterConsum    float64   `gorm:"type:decimal(10,2);default:0" json:"water_consum"`
	ScheduledAt    time.Time `gorm:"index:idx_schedule_user_time;not null" json:"scheduled_at"`
	IsCompleted    bool      `gorm:"default:false" json:"is_completed"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type WaterHistory struct {
	Base
	UserID     uuid.UUID `gorm:"type:uuid;index:idx_water_user_time;not null" json:"user_id"`
	AmountMl   float64   `gorm:"type:decimal(10,2)" json:"amount_ml"`
	OccurredAt time.Time `gorm:"index:idx_water_user_time;not null" json:"occurred_at"`
	CreatedAt  time.Time `json:"created_at"`
}
