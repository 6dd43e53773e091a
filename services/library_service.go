package services

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/awashimakentaro/diet/models"
	"github.com/awashimakentaro/diet/repository"
	"github.com/awashimakentaro/diet/store"
)

type LibraryService struct {
	repo   repository.LibraryRepository
	stores *store.Manager
}

func NewLibraryService(repo repository.LibraryRepository, stores *store.Manager) *LibraryService {
	return &LibraryService{repo: repo, stores: stores}
}

// List loads the user's library and caches it in the in-memory state.
func (s *LibraryService) List(userID uint) ([]models.FoodLibraryEntry, error) {
	rows, err := s.repo.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	entries := make([]models.FoodLibraryEntry, 0, len(rows))
	for _, r := range rows {
		entries = append(entries, models.LibraryEntryFromRow(r))
	}

	st := s.stores.For(userID)
	st.Set(func(state store.DietState) store.DietState {
		copied := make([]models.FoodLibraryEntry, 0, len(entries))
		for _, e := range entries {
			copied = append(copied, e.Clone())
		}
		state.FoodLibrary = copied
		return state
	})
	return entries, nil
}

func (s *LibraryService) Get(userID uint, entryID string) (*models.FoodLibraryEntry, error) {
	row, err := s.repo.FindByID(userID, entryID)
	if err != nil {
		return nil, err
	}
	entry := models.LibraryEntryFromRow(*row)
	return &entry, nil
}

// Create stores a new reusable template. Whether it is a "single" food or a
// "menu" is derived from the item count, never persisted.
func (s *LibraryService) Create(userID uint, entry models.FoodLibraryEntry) (*models.FoodLibraryEntry, error) {
	name := strings.TrimSpace(entry.Name)
	if name == "" {
		return nil, errors.New("名前を入力してください")
	}

	items := make([]models.FoodItem, 0, len(entry.Items))
	for _, it := range entry.Items {
		if it.ID == "" {
			it.ID = uuid.NewString()
		}
		items = append(items, it.Sanitized())
	}

	row := models.FoodRow{
		ID:        uuid.NewString(),
		UserID:    userID,
		Name:      name,
		Amount:    strings.TrimSpace(entry.Amount),
		Calories:  models.SanitizeMacroValue(entry.Calories),
		Protein:   models.SanitizeMacroValue(entry.Protein),
		Fat:       models.SanitizeMacroValue(entry.Fat),
		Carbs:     models.SanitizeMacroValue(entry.Carbs),
		Items:     models.FoodItems(items),
		CreatedAt: time.Now(),
	}
	if err := s.repo.Insert(&row); err != nil {
		return nil, err
	}

	created := models.LibraryEntryFromRow(row)
	s.appendToState(userID, created)
	return &created, nil
}

// CreateFromMeal saves a confirmed meal as a reusable template.
func (s *LibraryService) CreateFromMeal(userID uint, meal models.Meal) (*models.FoodLibraryEntry, error) {
	return s.Create(userID, models.FoodLibraryEntry{
		Name:     meal.MenuName,
		Calories: meal.Totals.Kcal,
		Protein:  meal.Totals.Protein,
		Fat:      meal.Totals.Fat,
		Carbs:    meal.Totals.Carbs,
		Items:    models.CloneFoodItems(meal.Items),
	})
}

func (s *LibraryService) Delete(userID uint, entryID string) error {
	if err := s.repo.Delete(userID, entryID); err != nil {
		return err
	}
	st := s.stores.For(userID)
	st.Set(func(state store.DietState) store.DietState {
		kept := make([]models.FoodLibraryEntry, 0, len(state.FoodLibrary))
		for _, e := range state.FoodLibrary {
			if e.ID != entryID {
				kept = append(kept, e)
			}
		}
		state.FoodLibrary = kept
		return state
	})
	return nil
}

func (s *LibraryService) appendToState(userID uint, entry models.FoodLibraryEntry) {
	st := s.stores.For(userID)
	st.Set(func(state store.DietState) store.DietState {
		state.FoodLibrary = append([]models.FoodLibraryEntry{entry.Clone()}, state.FoodLibrary...)
		return state
	})
}
