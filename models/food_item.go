package models

import "github.com/google/uuid"

type FoodCategory string

const (
	CategoryDish       FoodCategory = "dish"
	CategoryIngredient FoodCategory = "ingredient"
	CategoryUnknown    FoodCategory = "unknown"
)

// FoodItem is one food on a plate. It is owned by whichever meal, draft or
// library entry contains it and has no lifecycle of its own.
type FoodItem struct {
	ID       string       `json:"id"`
	Name     string       `json:"name"`
	Category FoodCategory `json:"category"`
	Amount   string       `json:"amount"` // free text, e.g. "1人前", "200g"
	Kcal     float64      `json:"kcal"`
	Protein  float64      `json:"protein"`
	Fat      float64      `json:"fat"`
	Carbs    float64      `json:"carbs"`
}

// Sanitized returns a copy with every macro clamped to a non-negative
// one-decimal value. Category falls back to "unknown" when unrecognized.
func (f FoodItem) Sanitized() FoodItem {
	switch f.Category {
	case CategoryDish, CategoryIngredient:
	default:
		f.Category = CategoryUnknown
	}
	f.Kcal = SanitizeMacroValue(f.Kcal)
	f.Protein = SanitizeMacroValue(f.Protein)
	f.Fat = SanitizeMacroValue(f.Fat)
	f.Carbs = SanitizeMacroValue(f.Carbs)
	return f
}

// NewBlankFoodItem returns the placeholder item used when a draft would
// otherwise become empty.
func NewBlankFoodItem() FoodItem {
	return FoodItem{
		ID:       uuid.NewString(),
		Category: CategoryUnknown,
	}
}

func CloneFoodItems(items []FoodItem) []FoodItem {
	out := make([]FoodItem, len(items))
	copy(out, items)
	return out
}
