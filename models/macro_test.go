package models

import (
	"math"
	"testing"
)

func TestSanitizeMacroValue(t *testing.T) {
	cases := []struct {
		name string
		in   float64
		want float64
	}{
		{"positive rounds to one decimal", 12.345, 12.3},
		{"rounds half up", 0.25, 0.3},
		{"negative clamps to zero", -5, 0},
		{"zero stays zero", 0, 0},
		{"NaN becomes zero", math.NaN(), 0},
		{"positive infinity becomes zero", math.Inf(1), 0},
		{"negative infinity becomes zero", math.Inf(-1), 0},
	}

	for _, tc := range cases {
		if got := SanitizeMacroValue(tc.in); got != tc.want {
			t.Errorf("%s: SanitizeMacroValue(%v) = %v, want %v", tc.name, tc.in, got, tc.want)
		}
	}
}

func TestCalculateMacroFromItems(t *testing.T) {
	items := []FoodItem{
		{Kcal: 300, Protein: 20, Fat: 10, Carbs: 30},
		{Kcal: 150.55, Protein: 5.04, Fat: -3, Carbs: math.NaN()},
	}

	got := CalculateMacroFromItems(items)
	want := Macro{Kcal: 450.6, Protein: 25, Fat: 10, Carbs: 30}
	if got != want {
		t.Fatalf("CalculateMacroFromItems = %+v, want %+v", got, want)
	}

	// Pure: calling twice must not change the result or the inputs.
	again := CalculateMacroFromItems(items)
	if again != got {
		t.Errorf("second call differs: %+v vs %+v", again, got)
	}
	if items[1].Fat != -3 {
		t.Errorf("input item mutated: %+v", items[1])
	}
}

func TestCalculateMacroFromItemsEmpty(t *testing.T) {
	if got := CalculateMacroFromItems(nil); got != (Macro{}) {
		t.Fatalf("empty list should sum to zero, got %+v", got)
	}
}
