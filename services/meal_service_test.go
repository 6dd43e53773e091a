package services

import (
	"sync"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/awashimakentaro/diet/models"
	"github.com/awashimakentaro/diet/store"
)

// fakeMealRepo keeps rows in memory so service behavior can be tested
// without a database. A mutex guards it because SaveMeal re-syncs in a
// background goroutine.
type fakeMealRepo struct {
	mu      sync.Mutex
	rows    []models.MealRow
	inserts int
}

func (r *fakeMealRepo) Insert(row *models.MealRow) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.inserts++
	r.rows = append(r.rows, *row)
	return nil
}

func (r *fakeMealRepo) ListByRange(userID uint, from, to time.Time) ([]models.MealRow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.MealRow
	for _, row := range r.rows {
		if row.UserID == userID && !row.RecordedAt.Before(from) && row.RecordedAt.Before(to) {
			out = append(out, row)
		}
	}
	return out, nil
}

func (r *fakeMealRepo) FindByID(userID uint, mealID string) (*models.MealRow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.rows {
		if r.rows[i].UserID == userID && r.rows[i].ID == mealID {
			row := r.rows[i]
			return &row, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeMealRepo) Update(row *models.MealRow) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.rows {
		if r.rows[i].ID == row.ID {
			r.rows[i] = *row
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *fakeMealRepo) Delete(userID uint, mealID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.rows[:0]
	for _, row := range r.rows {
		if row.UserID == userID && row.ID == mealID {
			continue
		}
		kept = append(kept, row)
	}
	r.rows = kept
	return nil
}

func (r *fakeMealRepo) DeleteByRange(userID uint, from, to time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.rows[:0]
	for _, row := range r.rows {
		if row.UserID == userID && !row.RecordedAt.Before(from) && row.RecordedAt.Before(to) {
			continue
		}
		kept = append(kept, row)
	}
	r.rows = kept
	return nil
}

func (r *fakeMealRepo) insertCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.inserts
}

func newMealTestService() (*MealService, *fakeMealRepo, *store.Manager) {
	repo := &fakeMealRepo{}
	stores := store.NewManager()
	svc := NewMealService(repo, stores, NewSummaryService(nil))
	return svc, repo, stores
}

func TestSaveMealRejectsEmptyBeforePersisting(t *testing.T) {
	svc, repo, _ := newMealTestService()

	draft := models.AnalyzeDraft{
		DraftID: "d1",
		Items:   []models.FoodItem{{Name: "カレー", Kcal: 600}},
		Source:  models.SourceText,
	}
	overrides := &SaveMealOverrides{Items: []models.FoodItem{}}

	if _, err := svc.SaveMeal(1, draft, overrides, time.UTC); err != ErrEmptyMeal {
		t.Fatalf("SaveMeal error = %v, want ErrEmptyMeal", err)
	}
	if repo.insertCount() != 0 {
		t.Fatalf("repo saw %d inserts, want 0: rejection must precede persistence", repo.insertCount())
	}
}

func TestSaveMealDefaultsMenuNameAndComputesTotals(t *testing.T) {
	svc, repo, stores := newMealTestService()

	draft := models.AnalyzeDraft{
		DraftID:  "d1",
		MenuName: "   ",
		Items: []models.FoodItem{
			{ID: "a", Name: "鶏むね肉", Kcal: 200, Protein: 18, Fat: 4, Carbs: 0},
			{ID: "b", Name: "ごはん", Kcal: 100, Protein: 2, Fat: 6, Carbs: 30},
		},
		Source: models.SourceText,
	}

	meal, err := svc.SaveMeal(1, draft, nil, time.UTC)
	if err != nil {
		t.Fatalf("SaveMeal failed: %v", err)
	}

	if meal.MenuName != "名称未設定" {
		t.Errorf("menuName = %q, want 名称未設定", meal.MenuName)
	}
	want := models.Macro{Kcal: 300, Protein: 20, Fat: 10, Carbs: 30}
	if meal.Totals != want {
		t.Errorf("totals = %+v, want %+v", meal.Totals, want)
	}
	if repo.insertCount() != 1 {
		t.Errorf("repo saw %d inserts, want 1", repo.insertCount())
	}

	st := stores.For(1).Get()
	if len(st.Meals) != 1 || st.Meals[0].ID != meal.ID {
		t.Fatalf("store not updated: %+v", st.Meals)
	}
}

func TestSaveMealAppliesOverrides(t *testing.T) {
	svc, _, _ := newMealTestService()

	draft := models.AnalyzeDraft{
		DraftID:  "d1",
		MenuName: "推定メニュー",
		Items:    []models.FoodItem{{ID: "a", Kcal: 999}},
		Source:   models.SourceImage,
	}
	name := "昼のカレー"
	overrides := &SaveMealOverrides{
		MenuName: &name,
		Items:    []models.FoodItem{{ID: "a", Name: "カレー", Kcal: 650, Protein: 16, Fat: 22, Carbs: 88}},
	}

	meal, err := svc.SaveMeal(1, draft, overrides, time.UTC)
	if err != nil {
		t.Fatalf("SaveMeal failed: %v", err)
	}
	if meal.MenuName != "昼のカレー" {
		t.Errorf("menuName = %q, want override", meal.MenuName)
	}
	if meal.Totals.Kcal != 650 {
		t.Errorf("totals.Kcal = %v, want from overridden items", meal.Totals.Kcal)
	}
	if meal.Source != models.SourceImage {
		t.Errorf("source = %s, want the draft's", meal.Source)
	}
}

func TestListMealsByDateFiltersAndSorts(t *testing.T) {
	svc, _, stores := newMealTestService()

	loc := time.UTC
	day := time.Date(2026, 8, 20, 0, 0, 0, 0, loc)
	stores.For(1).Set(func(st store.DietState) store.DietState {
		st.Meals = []models.Meal{
			{ID: "late", RecordedAt: day.Add(20 * time.Hour)},
			{ID: "other-day", RecordedAt: day.Add(30 * time.Hour)},
			{ID: "early", RecordedAt: day.Add(8 * time.Hour)},
		}
		return st
	})

	got := svc.ListMealsByDate(1, "2026-08-20", loc)
	if len(got) != 2 {
		t.Fatalf("listed %d meals, want 2", len(got))
	}
	if got[0].ID != "early" || got[1].ID != "late" {
		t.Fatalf("order = [%s %s], want ascending by RecordedAt", got[0].ID, got[1].ID)
	}
}

func TestSyncMealsByDateReplacesDateEntries(t *testing.T) {
	svc, repo, stores := newMealTestService()

	loc := time.UTC
	day := time.Date(2026, 8, 20, 12, 0, 0, 0, loc)
	repo.rows = []models.MealRow{
		{ID: "server", UserID: 1, RecordedAt: day, MenuName: "サーバ側", Kcal: 500},
	}

	stores.For(1).Set(func(st store.DietState) store.DietState {
		st.Meals = []models.Meal{
			{ID: "stale", RecordedAt: day.Add(time.Hour)},
			{ID: "keep", RecordedAt: day.Add(24 * time.Hour)},
		}
		return st
	})

	if err := svc.SyncMealsByDate(1, "2026-08-20", loc); err != nil {
		t.Fatalf("SyncMealsByDate failed: %v", err)
	}

	st := stores.For(1).Get()
	if len(st.Meals) != 2 {
		t.Fatalf("store has %d meals, want 2: %+v", len(st.Meals), st.Meals)
	}
	if st.Meals[0].ID != "server" || st.Meals[1].ID != "keep" {
		t.Fatalf("meals = [%s %s], want the fetched one plus the other day's", st.Meals[0].ID, st.Meals[1].ID)
	}
}

func TestUpdateMealRecomputesTotals(t *testing.T) {
	svc, repo, stores := newMealTestService()

	loc := time.UTC
	now := time.Date(2026, 8, 20, 12, 0, 0, 0, loc)
	repo.rows = []models.MealRow{{
		ID: "m1", UserID: 1, RecordedAt: now,
		MenuName: "旧", Items: models.FoodItems{{ID: "a", Kcal: 100}}, Kcal: 100,
	}}
	stores.For(1).Set(func(st store.DietState) store.DietState {
		st.Meals = []models.Meal{{ID: "m1", RecordedAt: now, MenuName: "旧"}}
		return st
	})

	got, err := svc.UpdateMeal(1, "m1", MealUpdate{
		Items: []models.FoodItem{
			{Name: "そば", Kcal: 350, Protein: 12, Fat: 2, Carbs: 70},
			{Name: "天ぷら", Kcal: 150, Protein: 3, Fat: 10, Carbs: 12},
		},
	}, loc)
	if err != nil {
		t.Fatalf("UpdateMeal failed: %v", err)
	}

	want := models.Macro{Kcal: 500, Protein: 15, Fat: 12, Carbs: 82}
	if got.Totals != want {
		t.Errorf("totals = %+v, want %+v", got.Totals, want)
	}
	for _, it := range got.Items {
		if it.ID == "" {
			t.Errorf("item without assigned ID: %+v", it)
		}
	}

	st := stores.For(1).Get()
	if st.Meals[0].Totals != want {
		t.Errorf("store copy not reconciled: %+v", st.Meals[0].Totals)
	}
}

func TestUpdateMealRejectsEmptyItemList(t *testing.T) {
	svc, repo, _ := newMealTestService()

	now := time.Now()
	repo.rows = []models.MealRow{{ID: "m1", UserID: 1, RecordedAt: now, Items: models.FoodItems{{ID: "a"}}}}

	if _, err := svc.UpdateMeal(1, "m1", MealUpdate{Items: []models.FoodItem{}}, time.UTC); err != ErrEmptyMeal {
		t.Fatalf("UpdateMeal error = %v, want ErrEmptyMeal", err)
	}
}

func TestDeleteMealRemovesRowAndStoreCopy(t *testing.T) {
	svc, repo, stores := newMealTestService()

	now := time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC)
	repo.rows = []models.MealRow{{ID: "m1", UserID: 1, RecordedAt: now}}
	stores.For(1).Set(func(st store.DietState) store.DietState {
		st.Meals = []models.Meal{{ID: "m1", RecordedAt: now}}
		return st
	})

	if err := svc.DeleteMeal(1, "m1", time.UTC); err != nil {
		t.Fatalf("DeleteMeal failed: %v", err)
	}
	if rows, _ := repo.ListByRange(1, now.Add(-time.Hour), now.Add(time.Hour)); len(rows) != 0 {
		t.Errorf("row still persisted: %+v", rows)
	}
	if st := stores.For(1).Get(); len(st.Meals) != 0 {
		t.Errorf("store copy still present: %+v", st.Meals)
	}
}
