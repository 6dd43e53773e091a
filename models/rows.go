package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// FoodItems is stored as a jsonb column on meal and library rows.
type FoodItems []FoodItem

func (f FoodItems) Value() (driver.Value, error) {
	if f == nil {
		f = FoodItems{}
	}
	return json.Marshal(f)
}

func (f *FoodItems) Scan(value interface{}) error {
	if value == nil {
		*f = FoodItems{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, f)
	case string:
		return json.Unmarshal([]byte(v), f)
	default:
		return errors.New("unsupported type for FoodItems")
	}
}

// MealRow is the persisted shape of a meal, user-scoped, items inline as jsonb.
type MealRow struct {
	ID           string    `gorm:"type:uuid;primaryKey"`
	UserID       uint      `gorm:"index;not null"`
	RecordedAt   time.Time `gorm:"index;not null"`
	MenuName     string
	OriginalText string    `gorm:"type:text"`
	Items        FoodItems `gorm:"type:jsonb"`
	Kcal         float64
	Protein      float64
	Fat          float64
	Carbs        float64
	Source       string `gorm:"size:16"`
	Notes        string `gorm:"type:text"`
	PhotoURL     string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (MealRow) TableName() string { return "meals" }

// FoodRow is a food library entry.
type FoodRow struct {
	ID        string `gorm:"type:uuid;primaryKey"`
	UserID    uint   `gorm:"index;not null"`
	Name      string `gorm:"not null"`
	Amount    string
	Calories  float64
	Protein   float64
	Fat       float64
	Carbs     float64
	Items     FoodItems `gorm:"type:jsonb"`
	CreatedAt time.Time
}

func (FoodRow) TableName() string { return "foods" }

// GoalRow holds the single current goal per user plus the body profile the
// goal may have been calculated from.
type GoalRow struct {
	ID                    string `gorm:"type:uuid;primaryKey"`
	UserID                uint   `gorm:"uniqueIndex;not null"`
	Kcal                  float64
	Protein               float64
	Fat                   float64
	Carbs                 float64
	Source                string `gorm:"size:16"`
	CalculatedFromProfile bool

	Sex           string `gorm:"size:16"`
	BirthDate     *time.Time
	HeightCm      float64
	WeightKg      float64
	ActivityLevel string `gorm:"size:16"`
	Objective     string `gorm:"size:16"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (GoalRow) TableName() string { return "goals" }

// NotificationPreferenceRow stores reminder settings. Times are kept as a
// comma-separated list of slot names.
type NotificationPreferenceRow struct {
	ID              string `gorm:"type:uuid;primaryKey"`
	UserID          uint   `gorm:"uniqueIndex;not null"`
	Enabled         bool
	LastScheduledAt *time.Time
	Timezone        string
	PushToken       string
	Times           string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (NotificationPreferenceRow) TableName() string { return "notification_preferences" }
