package services

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/awashimakentaro/diet/models"
)

var ErrDraftNotFound = errors.New("下書きが見つかりません")

const (
	defaultItemAmount = "1人前"
	fallbackItemName  = "食品"
)

// DraftService keeps every in-flight draft per user. Drafts are transient:
// they live here until discarded or confirmed into a meal, and multiple
// drafts may coexist (one per in-flight input).
type DraftService struct {
	mu     sync.Mutex
	drafts map[uint]map[string]models.AnalyzeDraft
}

func NewDraftService() *DraftService {
	return &DraftService{drafts: make(map[uint]map[string]models.AnalyzeDraft)}
}

func (s *DraftService) put(userID uint, d models.AnalyzeDraft) {
	if s.drafts[userID] == nil {
		s.drafts[userID] = make(map[string]models.AnalyzeDraft)
	}
	s.drafts[userID][d.DraftID] = d
}

// Register stores a draft produced by the analyze gateway (or handed off via
// the draft inbox) and returns the registered copy.
func (s *DraftService) Register(userID uint, d models.AnalyzeDraft) models.AnalyzeDraft {
	if d.DraftID == "" {
		d.DraftID = uuid.NewString()
	}
	d.Totals = models.CalculateMacroFromItems(d.Items)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.put(userID, d.Clone())
	return d
}

// CreateManual starts a draft with a single blank item for hand entry.
func (s *DraftService) CreateManual(userID uint) models.AnalyzeDraft {
	d := models.AnalyzeDraft{
		DraftID:  uuid.NewString(),
		Items:    []models.FoodItem{models.NewBlankFoodItem()},
		Source:   models.SourceManual,
		Warnings: []string{},
	}
	d.Totals = models.CalculateMacroFromItems(d.Items)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.put(userID, d.Clone())
	return d
}

// CreateFromLibrary copies a library entry's items into a new draft. An empty
// entry synthesizes one item from the entry's own fields so the draft never
// starts without items.
func (s *DraftService) CreateFromLibrary(userID uint, entry models.FoodLibraryEntry) models.AnalyzeDraft {
	items := models.CloneFoodItems(entry.Items)
	if len(items) == 0 {
		items = []models.FoodItem{models.FoodItem{
			ID:       uuid.NewString(),
			Name:     entry.Name,
			Category: models.CategoryUnknown,
			Amount:   entry.Amount,
			Kcal:     entry.Calories,
			Protein:  entry.Protein,
			Fat:      entry.Fat,
			Carbs:    entry.Carbs,
		}.Sanitized()}
	}
	d := models.AnalyzeDraft{
		DraftID:  uuid.NewString(),
		MenuName: entry.Name,
		Items:    items,
		Totals:   models.CalculateMacroFromItems(items),
		Source:   models.SourceLibrary,
		Warnings: []string{},
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.put(userID, d.Clone())
	return d
}

func (s *DraftService) Get(userID uint, draftID string) (models.AnalyzeDraft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.drafts[userID][draftID]
	if !ok {
		return models.AnalyzeDraft{}, ErrDraftNotFound
	}
	return d.Clone(), nil
}

func (s *DraftService) List(userID uint) []models.AnalyzeDraft {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.AnalyzeDraft, 0, len(s.drafts[userID]))
	for _, d := range s.drafts[userID] {
		out = append(out, d.Clone())
	}
	return out
}

// UpdateItem replaces the item at index in an otherwise-copied list and
// recomputes totals. Totals are never edited independently of items.
func (s *DraftService) UpdateItem(userID uint, draftID string, index int, item models.FoodItem) (models.AnalyzeDraft, error) {
	return s.mutate(userID, draftID, func(d models.AnalyzeDraft) (models.AnalyzeDraft, error) {
		if index < 0 || index >= len(d.Items) {
			return d, fmt.Errorf("項目が存在しません: %d", index)
		}
		items := models.CloneFoodItems(d.Items)
		if item.ID == "" {
			item.ID = items[index].ID
		}
		items[index] = item.Sanitized()
		d.Items = items
		d.Totals = models.CalculateMacroFromItems(items)
		return d, nil
	})
}

func (s *DraftService) UpdateMenuName(userID uint, draftID, menuName string) (models.AnalyzeDraft, error) {
	return s.mutate(userID, draftID, func(d models.AnalyzeDraft) (models.AnalyzeDraft, error) {
		d.MenuName = menuName
		return d, nil
	})
}

// AppendItems merges items produced by an AI-assisted "add more food" call:
// items are concatenated, non-empty warnings concatenated, totals recomputed
// from the merged list.
func (s *DraftService) AppendItems(userID uint, draftID string, items []models.FoodItem, warnings []string) (models.AnalyzeDraft, error) {
	return s.mutate(userID, draftID, func(d models.AnalyzeDraft) (models.AnalyzeDraft, error) {
		merged := models.CloneFoodItems(d.Items)
		for _, it := range items {
			if it.ID == "" {
				it.ID = uuid.NewString()
			}
			merged = append(merged, it.Sanitized())
		}
		d.Items = merged
		if len(warnings) > 0 {
			d.Warnings = append(d.Warnings, warnings...)
		}
		d.Totals = models.CalculateMacroFromItems(merged)
		return d, nil
	})
}

// RemoveItem filters out the item at index. A draft being edited is never
// allowed to reach zero items: removing the last one reinserts a blank
// placeholder.
func (s *DraftService) RemoveItem(userID uint, draftID string, index int) (models.AnalyzeDraft, error) {
	return s.mutate(userID, draftID, func(d models.AnalyzeDraft) (models.AnalyzeDraft, error) {
		if index < 0 || index >= len(d.Items) {
			return d, fmt.Errorf("項目が存在しません: %d", index)
		}
		items := make([]models.FoodItem, 0, len(d.Items)-1)
		for i, it := range d.Items {
			if i != index {
				items = append(items, it)
			}
		}
		if len(items) == 0 {
			items = append(items, models.NewBlankFoodItem())
		}
		d.Items = items
		d.Totals = models.CalculateMacroFromItems(items)
		return d, nil
	})
}

func (s *DraftService) Discard(userID uint, draftID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.drafts[userID], draftID)
}

func (s *DraftService) mutate(userID uint, draftID string, fn func(models.AnalyzeDraft) (models.AnalyzeDraft, error)) (models.AnalyzeDraft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.drafts[userID][draftID]
	if !ok {
		return models.AnalyzeDraft{}, ErrDraftNotFound
	}
	next, err := fn(d.Clone())
	if err != nil {
		return models.AnalyzeDraft{}, err
	}
	s.put(userID, next)
	return next.Clone(), nil
}

// NormalizeManualDraft is applied at confirm time: item names are trimmed
// (falling back to "食品{n}"), blank amounts default to "1人前", non-finite
// macros become 0, and a blank menu name falls back to the first item's name.
func NormalizeManualDraft(d models.AnalyzeDraft) models.AnalyzeDraft {
	d = d.Clone()
	for i := range d.Items {
		it := d.Items[i].Sanitized()
		it.Name = strings.TrimSpace(it.Name)
		if it.Name == "" {
			it.Name = fmt.Sprintf("%s%d", fallbackItemName, i+1)
		}
		if strings.TrimSpace(it.Amount) == "" {
			it.Amount = defaultItemAmount
		}
		d.Items[i] = it
	}
	d.MenuName = strings.TrimSpace(d.MenuName)
	if d.MenuName == "" && len(d.Items) > 0 {
		d.MenuName = d.Items[0].Name
	}
	d.Totals = models.CalculateMacroFromItems(d.Items)
	return d
}
