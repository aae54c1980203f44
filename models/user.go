package models

import (
	"time"

	"github.com/google/uuid"
)

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

type Activity string

const (
	ActivitySedentary  Activity = "sedentary"
	ActivityLight      Activity = "light"
	ActivityModerately Activity = "moderately"
	ActivityHeavy      Activity = "heavy"
)

type Goal string

const (
	GoalWeight Goal = "weight"
	GoalMuscle Goal = "muscle"
	GoalHealth Goal = "health"
)

const DefaultWeightTarget = 55.0

type User struct {
	Base
	Name         string     `json:"name"`
	Email        string     `gorm:"uniqueIndex;not null" json:"email"`
	Password     string     `json:"-"`
	VerifiedAt   *time.Time `json:"verified_at"`
	Height       float64    `gorm:"type:decimal(10,2)" json:"height"`
	Weight       float64    `gorm:"type:decimal(10,2)" json:"weight"`
	Birthday     *time.Time `gorm:"type:date" json:"birthday"`
	BMI          float64    `gorm:"type:decimal(10,2)" json:"bmi"`
	BMR          float64    `gorm:"type:decimal(10,2)" json:"bmr"`
	Gender       Gender     `gorm:"size:16" json:"gender,omitempty"`
	Activity     Activity   `gorm:"size:16" json:"activity,omitempty"`
	Goal         Goal       `gorm:"size:16" json:"goal,omitempty"`
	WeightTarget float64    `gorm:"type:decimal(10,2);default:55" json:"weight_target"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (g Gender) Valid() bool { return g == GenderMale || g == GenderFemale }

func (a Activity) Valid() bool {
	switch a {
	case ActivitySedentary, ActivityLight, ActivityModerately, ActivityHeavy:
		return true
	}
	return false
}

func (g Goal) Valid() bool { return g == GoalWeight || g == GoalMuscle || g == GoalHealth }

type Admin struct {
	Base
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
	Password  string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// Otp keeps at most one pending code per user. Code holds a bcrypt hash.
type Otp struct {
	Base
	UserID    uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	Code      string    `gorm:"not null"`
	ExpiresAt time.Time `gorm:"not null"`
	CreatedAt time.Time
}

type WeightHistory struct {
	Base
	UserID    uuid.UUID `gorm:"type:uuid;index;not null" json:"user_id"`
	Weight    float64   `gorm:"type:decimal(10,2)" json:"weight"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}
