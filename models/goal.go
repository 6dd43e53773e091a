package models

import "time"

type GoalSource string

const (
	GoalSourceManual GoalSource = "manual"
	GoalSourceAuto   GoalSource = "auto"
)

// Goal is the user's current daily macro target. A single record per user,
// overwritten on update, never versioned.
type Goal struct {
	ID                    string     `json:"id"`
	Kcal                  float64    `json:"kcal"`
	Protein               float64    `json:"protein"`
	Fat                   float64    `json:"fat"`
	Carbs                 float64    `json:"carbs"`
	Source                GoalSource `json:"source"`
	CalculatedFromProfile bool       `json:"calculatedFromProfile"`
	UpdatedAt             time.Time  `json:"updatedAt"`
}

func (g Goal) Macro() Macro {
	return Macro{Kcal: g.Kcal, Protein: g.Protein, Fat: g.Fat, Carbs: g.Carbs}
}

type Objective string

const (
	ObjectiveLose     Objective = "lose"
	ObjectiveMaintain Objective = "maintain"
	ObjectiveGain     Objective = "gain"
)

// Profile holds the body and activity attributes used only to compute a goal.
// A single record per user, overwritten on update.
type Profile struct {
	Sex           string    `json:"sex"` // "male" | "female"
	BirthDate     time.Time `json:"birthDate"`
	HeightCm      float64   `json:"heightCm"`
	WeightKg      float64   `json:"weightKg"`
	ActivityLevel string    `json:"activityLevel"`
	Objective     Objective `json:"objective"`
}
