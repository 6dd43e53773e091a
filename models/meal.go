package models

import "time"

// Meal is the single persisted record of "what was eaten". It is created by
// confirming a draft, mutated in place by edit, and physically deleted.
type Meal struct {
	ID           string      `json:"id"`
	RecordedAt   time.Time   `json:"recordedAt"`
	MenuName     string      `json:"menuName"`
	OriginalText string      `json:"originalText"`
	Items        []FoodItem  `json:"items"`
	Totals       Macro       `json:"totals"`
	Source       DraftSource `json:"source"`
	Notes        string      `json:"notes,omitempty"`
	PhotoURL     string      `json:"photoUrl,omitempty"`
}

// Clone copies items and totals; the remaining fields are value types.
func (m Meal) Clone() Meal {
	m.Items = CloneFoodItems(m.Items)
	return m
}
