package services

import (
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/awashimakentaro/diet/models"
	"github.com/awashimakentaro/diet/repository"
	"github.com/awashimakentaro/diet/store"
	"github.com/awashimakentaro/diet/utils"
)

var ErrEmptyMeal = errors.New("食品が1件もありません")

const defaultMenuName = "名称未設定"

type MealService struct {
	repo    repository.MealRepository
	stores  *store.Manager
	summary *SummaryService
}

func NewMealService(repo repository.MealRepository, stores *store.Manager, summary *SummaryService) *MealService {
	return &MealService{repo: repo, stores: stores, summary: summary}
}

// SaveMealOverrides lets the confirm screen replace parts of the draft at the
// moment of saving without mutating the draft itself.
type SaveMealOverrides struct {
	MenuName     *string
	OriginalText *string
	Items        []models.FoodItem
}

// BuildMealCandidate applies overrides over the draft's own values, trims
// strings, defaults a blank menu name, and recomputes totals from the final
// item list. Pure; persistence happens in SaveMeal.
func BuildMealCandidate(draft models.AnalyzeDraft, overrides *SaveMealOverrides) models.Meal {
	menuName := draft.MenuName
	originalText := draft.OriginalText
	items := models.CloneFoodItems(draft.Items)

	if overrides != nil {
		if overrides.MenuName != nil {
			menuName = *overrides.MenuName
		}
		if overrides.OriginalText != nil {
			originalText = *overrides.OriginalText
		}
		if overrides.Items != nil {
			items = models.CloneFoodItems(overrides.Items)
		}
	}

	for i := range items {
		items[i] = items[i].Sanitized()
	}

	menuName = strings.TrimSpace(menuName)
	if menuName == "" {
		menuName = defaultMenuName
	}

	return models.Meal{
		MenuName:     menuName,
		OriginalText: strings.TrimSpace(originalText),
		Items:        items,
		Totals:       models.CalculateMacroFromItems(items),
		Source:       draft.Source,
		PhotoURL:     draft.PhotoURL,
	}
}

// SaveMeal confirms a draft into a persisted meal. An empty item list is
// rejected before anything touches the backend. On success the meal is
// appended to the in-memory store (fanning out to subscribers), the summary
// is invalidated, and the date's meals are re-synced in the background; the
// re-sync is fire-and-forget and its failures are swallowed because the
// optimistic in-memory update already reflects the save.
func (s *MealService) SaveMeal(userID uint, draft models.AnalyzeDraft, overrides *SaveMealOverrides, loc *time.Location) (*models.Meal, error) {
	candidate := BuildMealCandidate(draft, overrides)
	if len(candidate.Items) == 0 {
		return nil, ErrEmptyMeal
	}

	now := time.Now()
	row := models.MealRow{
		ID:           uuid.NewString(),
		UserID:       userID,
		RecordedAt:   now,
		MenuName:     candidate.MenuName,
		OriginalText: candidate.OriginalText,
		Items:        models.FoodItems(candidate.Items),
		Kcal:         candidate.Totals.Kcal,
		Protein:      candidate.Totals.Protein,
		Fat:          candidate.Totals.Fat,
		Carbs:        candidate.Totals.Carbs,
		Source:       string(candidate.Source),
		Notes:        candidate.Notes,
		PhotoURL:     candidate.PhotoURL,
	}
	if err := s.repo.Insert(&row); err != nil {
		return nil, err
	}

	meal := models.MealFromRow(row)
	st := s.stores.For(userID)
	st.Set(func(state store.DietState) store.DietState {
		state.Meals = append(state.Meals, meal.Clone())
		sortMeals(state.Meals)
		return state
	})

	dateKey := utils.DateKey(meal.RecordedAt, loc)
	s.summary.Invalidate(userID, dateKey)

	go func() {
		_ = s.SyncMealsByDate(userID, dateKey, loc)
	}()

	return &meal, nil
}

// ListMealsByDate reads from the in-memory store only: meals whose local
// calendar date matches dateKey, ascending by RecordedAt, as copies.
func (s *MealService) ListMealsByDate(userID uint, dateKey string, loc *time.Location) []models.Meal {
	state := s.stores.For(userID).Get()
	out := make([]models.Meal, 0, len(state.Meals))
	for _, m := range state.Meals {
		if utils.DateKey(m.RecordedAt, loc) == dateKey {
			out = append(out, m.Clone())
		}
	}
	sortMeals(out)
	return out
}

// SyncMealsByDate fetches the date's UTC range from the backend and replaces
// that date's in-memory entries: stale ones removed, fetched ones appended,
// the whole list re-sorted, and the summary invalidated.
func (s *MealService) SyncMealsByDate(userID uint, dateKey string, loc *time.Location) error {
	from, to, err := utils.DayRange(dateKey, loc)
	if err != nil {
		return err
	}
	rows, err := s.repo.ListByRange(userID, from.UTC(), to.UTC())
	if err != nil {
		return err
	}

	fetched := make([]models.Meal, 0, len(rows))
	for _, r := range rows {
		fetched = append(fetched, models.MealFromRow(r))
	}

	st := s.stores.For(userID)
	st.Set(func(state store.DietState) store.DietState {
		kept := make([]models.Meal, 0, len(state.Meals))
		for _, m := range state.Meals {
			if utils.DateKey(m.RecordedAt, loc) != dateKey {
				kept = append(kept, m)
			}
		}
		kept = append(kept, fetched...)
		sortMeals(kept)
		state.Meals = kept
		return state
	})

	s.summary.Invalidate(userID, dateKey)
	return nil
}

// MealUpdate carries the editable fields; nil means "leave unchanged".
type MealUpdate struct {
	MenuName *string
	Notes    *string
	Items    []models.FoodItem
}

// UpdateMeal mutates the persisted row, recomputing totals whenever the item
// list is replaced, then reconciles the in-memory copy.
func (s *MealService) UpdateMeal(userID uint, mealID string, update MealUpdate, loc *time.Location) (*models.Meal, error) {
	row, err := s.repo.FindByID(userID, mealID)
	if err != nil {
		return nil, err
	}

	if update.MenuName != nil {
		name := strings.TrimSpace(*update.MenuName)
		if name == "" {
			name = defaultMenuName
		}
		row.MenuName = name
	}
	if update.Notes != nil {
		row.Notes = *update.Notes
	}
	if update.Items != nil {
		items := make([]models.FoodItem, 0, len(update.Items))
		for _, it := range update.Items {
			if it.ID == "" {
				it.ID = uuid.NewString()
			}
			items = append(items, it.Sanitized())
		}
		if len(items) == 0 {
			return nil, ErrEmptyMeal
		}
		totals := models.CalculateMacroFromItems(items)
		row.Items = models.FoodItems(items)
		row.Kcal = totals.Kcal
		row.Protein = totals.Protein
		row.Fat = totals.Fat
		row.Carbs = totals.Carbs
	}

	if err := s.repo.Update(row); err != nil {
		return nil, err
	}

	meal := models.MealFromRow(*row)
	st := s.stores.For(userID)
	st.Set(func(state store.DietState) store.DietState {
		for i := range state.Meals {
			if state.Meals[i].ID == meal.ID {
				state.Meals[i] = meal.Clone()
				break
			}
		}
		return state
	})

	s.summary.Invalidate(userID, utils.DateKey(meal.RecordedAt, loc))
	return &meal, nil
}

// DeleteMeal physically removes one meal; there is no undo.
func (s *MealService) DeleteMeal(userID uint, mealID string, loc *time.Location) error {
	if err := s.repo.Delete(userID, mealID); err != nil {
		return err
	}

	var dateKey string
	st := s.stores.For(userID)
	st.Set(func(state store.DietState) store.DietState {
		kept := make([]models.Meal, 0, len(state.Meals))
		for _, m := range state.Meals {
			if m.ID == mealID {
				dateKey = utils.DateKey(m.RecordedAt, loc)
				continue
			}
			kept = append(kept, m)
		}
		state.Meals = kept
		return state
	})

	s.summary.Invalidate(userID, dateKey)
	return nil
}

// DeleteMealsByDate physically removes everything recorded on that local day.
func (s *MealService) DeleteMealsByDate(userID uint, dateKey string, loc *time.Location) error {
	from, to, err := utils.DayRange(dateKey, loc)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteByRange(userID, from.UTC(), to.UTC()); err != nil {
		return err
	}

	st := s.stores.For(userID)
	st.Set(func(state store.DietState) store.DietState {
		kept := make([]models.Meal, 0, len(state.Meals))
		for _, m := range state.Meals {
			if utils.DateKey(m.RecordedAt, loc) != dateKey {
				kept = append(kept, m)
			}
		}
		state.Meals = kept
		return state
	})

	s.summary.Invalidate(userID, dateKey)
	return nil
}

func sortMeals(meals []models.Meal) {
	sort.SliceStable(meals, func(i, j int) bool {
		return meals[i].RecordedAt.Before(meals[j].RecordedAt)
	})
}
