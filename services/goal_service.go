package services

import (
	"errors"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/awashimakentaro/diet/models"
	"github.com/awashimakentaro/diet/repository"
	"github.com/awashimakentaro/diet/store"
)

// activityMultipliers maps activity level names to their TDEE multiplier and
// doubles as input validation for profile updates.
var activityMultipliers = map[string]float64{
	"sedentary":   1.2,
	"light":       1.375,
	"moderate":    1.55,
	"active":      1.725,
	"very_active": 1.9,
}

// Calorie adjustment applied on top of maintenance, by objective.
var objectiveAdjustments = map[models.Objective]float64{
	models.ObjectiveLose:     -400,
	models.ObjectiveMaintain: 0,
	models.ObjectiveGain:     +300,
}

type GoalService struct {
	repo    repository.GoalRepository
	stores  *store.Manager
	summary *SummaryService
}

func NewGoalService(repo repository.GoalRepository, stores *store.Manager, summary *SummaryService) *GoalService {
	return &GoalService{repo: repo, stores: stores, summary: summary}
}

// GetGoal loads the current goal (and the profile it may have been computed
// from) and caches both in the user's in-memory state. A user with no goal
// yet gets (nil, nil, nil).
func (s *GoalService) GetGoal(userID uint) (*models.Goal, *models.Profile, error) {
	row, err := s.repo.FindByUser(userID)
	if err != nil {
		return nil, nil, err
	}
	if row == nil {
		return nil, nil, nil
	}

	goal := models.GoalFromRow(*row)
	profile := models.ProfileFromRow(*row)

	st := s.stores.For(userID)
	st.Set(func(state store.DietState) store.DietState {
		g := goal
		state.Goal = &g
		state.Profile = profile
		return state
	})
	return &goal, profile, nil
}

// UpsertManualGoal overwrites the single current goal with hand-entered
// targets. Profile fields on the row are preserved.
func (s *GoalService) UpsertManualGoal(userID uint, target models.Macro) (*models.Goal, error) {
	row, err := s.repo.FindByUser(userID)
	if err != nil {
		return nil, err
	}
	if row == nil {
		row = &models.GoalRow{ID: uuid.NewString(), UserID: userID}
	}

	target = target.Sanitized()
	row.Kcal = target.Kcal
	row.Protein = target.Protein
	row.Fat = target.Fat
	row.Carbs = target.Carbs
	row.Source = string(models.GoalSourceManual)
	row.CalculatedFromProfile = false

	if err := s.repo.Save(row); err != nil {
		return nil, err
	}
	return s.applyGoalRow(userID, row), nil
}

// CalculateFromProfile computes a goal from body attributes: Mifflin-St Jeor
// BMR, an activity multiplier, an objective adjustment, then a 30/25/45
// protein/fat/carbs energy split. The profile is stored alongside the goal.
func (s *GoalService) CalculateFromProfile(userID uint, profile models.Profile) (*models.Goal, error) {
	mult, ok := activityMultipliers[profile.ActivityLevel]
	if !ok {
		return nil, errors.New("活動レベルが正しくありません")
	}
	if profile.HeightCm <= 0 || profile.WeightKg <= 0 {
		return nil, errors.New("身長と体重を入力してください")
	}
	age := ageYears(profile.BirthDate)
	if age < 0 || age > 130 {
		return nil, errors.New("生年月日が正しくありません")
	}

	bmr := 10*profile.WeightKg + 6.25*profile.HeightCm - 5*float64(age)
	if profile.Sex == "male" {
		bmr += 5
	} else {
		bmr -= 161
	}

	kcal := bmr*mult + objectiveAdjustments[profile.Objective]
	if kcal < 1000 {
		kcal = 1000 // floor against extreme inputs
	}

	target := models.Macro{
		Kcal:    kcal,
		Protein: kcal * 0.30 / 4,
		Fat:     kcal * 0.25 / 9,
		Carbs:   kcal * 0.45 / 4,
	}.Sanitized()

	row, err := s.repo.FindByUser(userID)
	if err != nil {
		return nil, err
	}
	if row == nil {
		row = &models.GoalRow{ID: uuid.NewString(), UserID: userID}
	}

	birth := profile.BirthDate
	row.Kcal = target.Kcal
	row.Protein = target.Protein
	row.Fat = target.Fat
	row.Carbs = target.Carbs
	row.Source = string(models.GoalSourceAuto)
	row.CalculatedFromProfile = true
	row.Sex = profile.Sex
	row.BirthDate = &birth
	row.HeightCm = profile.HeightCm
	row.WeightKg = profile.WeightKg
	row.ActivityLevel = profile.ActivityLevel
	row.Objective = string(profile.Objective)

	if err := s.repo.Save(row); err != nil {
		return nil, err
	}
	return s.applyGoalRow(userID, row), nil
}

func (s *GoalService) applyGoalRow(userID uint, row *models.GoalRow) *models.Goal {
	goal := models.GoalFromRow(*row)
	profile := models.ProfileFromRow(*row)

	st := s.stores.For(userID)
	st.Set(func(state store.DietState) store.DietState {
		g := goal
		state.Goal = &g
		state.Profile = profile
		return state
	})

	// Goal changes shift every day's diff and ratio.
	s.summary.Invalidate(userID, "")
	return &goal
}

func ageYears(birth time.Time) int {
	if birth.IsZero() {
		return -1
	}
	now := time.Now()
	age := now.Year() - birth.Year()
	if now.Before(birth.AddDate(age, 0, 0)) {
		age--
	}
	return age
}

// BMI is shown alongside the profile form.
func BMI(heightCm, weightKg float64) (float64, error) {
	if heightCm <= 0 || weightKg <= 0 {
		return 0, errors.New("身長と体重を入力してください")
	}
	h := heightCm / 100.0
	return math.Round(weightKg/(h*h)*10) / 10, nil
}
