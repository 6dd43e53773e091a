package services

import (
	"math"
	"testing"
	"time"

	"github.com/awashimakentaro/diet/models"
	"github.com/awashimakentaro/diet/store"
)

type fakeGoalRepo struct {
	row   *models.GoalRow
	saves int
}

func (r *fakeGoalRepo) FindByUser(userID uint) (*models.GoalRow, error) {
	if r.row == nil || r.row.UserID != userID {
		return nil, nil
	}
	row := *r.row
	return &row, nil
}

func (r *fakeGoalRepo) Save(row *models.GoalRow) error {
	r.saves++
	copied := *row
	r.row = &copied
	return nil
}

func newGoalTestService() (*GoalService, *fakeGoalRepo, *store.Manager) {
	repo := &fakeGoalRepo{}
	stores := store.NewManager()
	svc := NewGoalService(repo, stores, NewSummaryService(nil))
	return svc, repo, stores
}

func testProfile() models.Profile {
	return models.Profile{
		Sex:           "male",
		BirthDate:     time.Date(1996, 8, 1, 0, 0, 0, 0, time.UTC),
		HeightCm:      175,
		WeightKg:      70,
		ActivityLevel: "moderate",
		Objective:     models.ObjectiveMaintain,
	}
}

func TestCalculateFromProfileMifflinStJeor(t *testing.T) {
	svc, repo, _ := newGoalTestService()
	profile := testProfile()

	goal, err := svc.CalculateFromProfile(1, profile)
	if err != nil {
		t.Fatalf("CalculateFromProfile failed: %v", err)
	}

	age := ageYears(profile.BirthDate)
	bmr := 10*70.0 + 6.25*175.0 - 5*float64(age) + 5
	wantKcal := models.SanitizeMacroValue(bmr * 1.55)
	if goal.Kcal != wantKcal {
		t.Errorf("kcal = %v, want %v", goal.Kcal, wantKcal)
	}

	// 30/25/45 energy split in grams.
	if goal.Protein != models.SanitizeMacroValue(goal.Kcal*0.30/4) {
		t.Errorf("protein = %v for kcal %v", goal.Protein, goal.Kcal)
	}
	if goal.Fat != models.SanitizeMacroValue(goal.Kcal*0.25/9) {
		t.Errorf("fat = %v for kcal %v", goal.Fat, goal.Kcal)
	}
	if goal.Carbs != models.SanitizeMacroValue(goal.Kcal*0.45/4) {
		t.Errorf("carbs = %v for kcal %v", goal.Carbs, goal.Kcal)
	}

	if goal.Source != models.GoalSourceAuto || !goal.CalculatedFromProfile {
		t.Errorf("goal marked %s/%v, want auto/true", goal.Source, goal.CalculatedFromProfile)
	}
	if repo.row == nil || repo.row.HeightCm != 175 || repo.row.Objective != "maintain" {
		t.Errorf("profile not stored with the goal: %+v", repo.row)
	}
}

func TestCalculateFromProfileObjectiveAdjustments(t *testing.T) {
	svc, _, _ := newGoalTestService()

	maintain := testProfile()
	base, err := svc.CalculateFromProfile(1, maintain)
	if err != nil {
		t.Fatalf("maintain: %v", err)
	}

	lose := maintain
	lose.Objective = models.ObjectiveLose
	loseGoal, err := svc.CalculateFromProfile(1, lose)
	if err != nil {
		t.Fatalf("lose: %v", err)
	}
	if got := base.Kcal - loseGoal.Kcal; math.Abs(got-400) > 0.11 {
		t.Errorf("lose adjustment = -%v kcal, want -400", got)
	}

	gain := maintain
	gain.Objective = models.ObjectiveGain
	gainGoal, err := svc.CalculateFromProfile(1, gain)
	if err != nil {
		t.Fatalf("gain: %v", err)
	}
	if got := gainGoal.Kcal - base.Kcal; math.Abs(got-300) > 0.11 {
		t.Errorf("gain adjustment = +%v kcal, want +300", got)
	}
}

func TestCalculateFromProfileFloorsAtThousand(t *testing.T) {
	svc, _, _ := newGoalTestService()

	p := models.Profile{
		Sex:           "female",
		BirthDate:     time.Date(1950, 1, 1, 0, 0, 0, 0, time.UTC),
		HeightCm:      120,
		WeightKg:      30,
		ActivityLevel: "sedentary",
		Objective:     models.ObjectiveLose,
	}

	goal, err := svc.CalculateFromProfile(1, p)
	if err != nil {
		t.Fatalf("CalculateFromProfile failed: %v", err)
	}
	if goal.Kcal != 1000 {
		t.Fatalf("kcal = %v, want floored to 1000", goal.Kcal)
	}
}

func TestCalculateFromProfileValidation(t *testing.T) {
	svc, repo, _ := newGoalTestService()

	bad := testProfile()
	bad.ActivityLevel = "couch"
	if _, err := svc.CalculateFromProfile(1, bad); err == nil {
		t.Error("unknown activity level accepted")
	}

	bad = testProfile()
	bad.HeightCm = 0
	if _, err := svc.CalculateFromProfile(1, bad); err == nil {
		t.Error("zero height accepted")
	}

	bad = testProfile()
	bad.BirthDate = time.Time{}
	if _, err := svc.CalculateFromProfile(1, bad); err == nil {
		t.Error("missing birth date accepted")
	}

	if repo.saves != 0 {
		t.Errorf("repo saw %d saves from invalid profiles", repo.saves)
	}
}

func TestUpsertManualGoalPreservesProfile(t *testing.T) {
	svc, repo, stores := newGoalTestService()

	if _, err := svc.CalculateFromProfile(1, testProfile()); err != nil {
		t.Fatalf("seed auto goal: %v", err)
	}

	goal, err := svc.UpsertManualGoal(1, models.Macro{Kcal: 1800, Protein: 120, Fat: 50, Carbs: 200})
	if err != nil {
		t.Fatalf("UpsertManualGoal failed: %v", err)
	}

	if goal.Kcal != 1800 || goal.Source != models.GoalSourceManual || goal.CalculatedFromProfile {
		t.Errorf("goal = %+v, want manual targets", goal)
	}
	if repo.row.HeightCm != 175 || repo.row.Sex != "male" {
		t.Errorf("profile fields lost on manual upsert: %+v", repo.row)
	}

	st := stores.For(1).Get()
	if st.Goal == nil || st.Goal.Kcal != 1800 {
		t.Errorf("store goal = %+v", st.Goal)
	}
}

func TestGetGoalWithoutRecord(t *testing.T) {
	svc, _, _ := newGoalTestService()

	goal, profile, err := svc.GetGoal(1)
	if err != nil {
		t.Fatalf("GetGoal failed: %v", err)
	}
	if goal != nil || profile != nil {
		t.Fatalf("goal = %+v, profile = %+v, want nil for a fresh user", goal, profile)
	}
}

func TestGetGoalCachesInStore(t *testing.T) {
	svc, _, stores := newGoalTestService()

	if _, err := svc.UpsertManualGoal(1, models.Macro{Kcal: 2000}); err != nil {
		t.Fatalf("seed goal: %v", err)
	}
	stores.For(1).Reset()

	goal, _, err := svc.GetGoal(1)
	if err != nil {
		t.Fatalf("GetGoal failed: %v", err)
	}
	if goal == nil || goal.Kcal != 2000 {
		t.Fatalf("goal = %+v", goal)
	}
	if st := stores.For(1).Get(); st.Goal == nil || st.Goal.Kcal != 2000 {
		t.Fatalf("store not populated: %+v", st.Goal)
	}
}

func TestBMI(t *testing.T) {
	got, err := BMI(170, 65)
	if err != nil {
		t.Fatalf("BMI failed: %v", err)
	}
	if got != 22.5 {
		t.Errorf("BMI(170, 65) = %v, want 22.5", got)
	}

	if _, err := BMI(0, 65); err == nil {
		t.Error("zero height accepted")
	}
}
