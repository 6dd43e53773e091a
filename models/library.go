package models

import "time"

type LibraryEntryType string

const (
	EntryTypeSingle LibraryEntryType = "single"
	EntryTypeMenu   LibraryEntryType = "menu"
)

// FoodLibraryEntry is a reusable named template of one or more food items,
// independent of any specific meal.
type FoodLibraryEntry struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Amount    string     `json:"amount"`
	Calories  float64    `json:"calories"`
	Protein   float64    `json:"protein"`
	Fat       float64    `json:"fat"`
	Carbs     float64    `json:"carbs"`
	Items     []FoodItem `json:"items"`
	CreatedAt time.Time  `json:"createdAt"`
}

// EntryType is derived from the item count rather than stored, so the two can
// never diverge.
func (e FoodLibraryEntry) EntryType() LibraryEntryType {
	if len(e.Items) > 1 {
		return EntryTypeMenu
	}
	return EntryTypeSingle
}

func (e FoodLibraryEntry) Clone() FoodLibraryEntry {
	e.Items = CloneFoodItems(e.Items)
	return e
}
