package models

import "math"

// Macro is the four-field nutrient tuple shared by items, meals and goals.
// It is always derived by summing food items, never maintained by hand.
type Macro struct {
	Kcal    float64 `json:"kcal"`
	Protein float64 `json:"protein"`
	Fat     float64 `json:"fat"`
	Carbs   float64 `json:"carbs"`
}

// SanitizeMacroValue normalizes a raw nutrient number: NaN/Inf count as 0,
// negatives are clamped to 0, and the result keeps one decimal place.
func SanitizeMacroValue(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}
	if x < 0 {
		return 0
	}
	return math.Round(x*10) / 10
}

func (m Macro) Sanitized() Macro {
	return Macro{
		Kcal:    SanitizeMacroValue(m.Kcal),
		Protein: SanitizeMacroValue(m.Protein),
		Fat:     SanitizeMacroValue(m.Fat),
		Carbs:   SanitizeMacroValue(m.Carbs),
	}
}

func (m Macro) Add(o Macro) Macro {
	return Macro{
		Kcal:    m.Kcal + o.Kcal,
		Protein: m.Protein + o.Protein,
		Fat:     m.Fat + o.Fat,
		Carbs:   m.Carbs + o.Carbs,
	}
}

// CalculateMacroFromItems sums the sanitized macro values of every item.
// The sums are re-rounded to one decimal to keep float drift out of totals.
func CalculateMacroFromItems(items []FoodItem) Macro {
	var total Macro
	for _, it := range items {
		total.Kcal += SanitizeMacroValue(it.Kcal)
		total.Protein += SanitizeMacroValue(it.Protein)
		total.Fat += SanitizeMacroValue(it.Fat)
		total.Carbs += SanitizeMacroValue(it.Carbs)
	}
	return total.Sanitized()
}
