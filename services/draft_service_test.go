package services

import (
	"math"
	"strings"
	"testing"

	"github.com/awashimakentaro/diet/models"
)

func TestCreateManualStartsWithOneBlankItem(t *testing.T) {
	s := NewDraftService()
	d := s.CreateManual(1)

	if len(d.Items) != 1 {
		t.Fatalf("manual draft has %d items, want 1", len(d.Items))
	}
	if d.Source != models.SourceManual {
		t.Errorf("source = %s, want manual", d.Source)
	}
	if d.Totals != (models.Macro{}) {
		t.Errorf("blank draft totals = %+v, want zero", d.Totals)
	}
}

func TestUpdateItemRecomputesTotals(t *testing.T) {
	s := NewDraftService()
	d := s.Register(1, models.AnalyzeDraft{
		Items: []models.FoodItem{
			{ID: "a", Name: "ごはん", Kcal: 250, Protein: 4, Fat: 0.5, Carbs: 55},
			{ID: "b", Name: "みそ汁", Kcal: 40, Protein: 3, Fat: 1, Carbs: 5},
		},
		Source: models.SourceText,
	})

	got, err := s.UpdateItem(1, d.DraftID, 1, models.FoodItem{Name: "豚汁", Kcal: 120, Protein: 8, Fat: 6, Carbs: 9})
	if err != nil {
		t.Fatalf("UpdateItem failed: %v", err)
	}

	if got.Items[1].Name != "豚汁" {
		t.Errorf("item not replaced: %+v", got.Items[1])
	}
	if got.Items[0].Name != "ごはん" {
		t.Errorf("untouched item changed: %+v", got.Items[0])
	}
	want := models.Macro{Kcal: 370, Protein: 12, Fat: 6.5, Carbs: 64}
	if got.Totals != want {
		t.Errorf("totals = %+v, want %+v", got.Totals, want)
	}
}

func TestUpdateItemOutOfRange(t *testing.T) {
	s := NewDraftService()
	d := s.CreateManual(1)

	if _, err := s.UpdateItem(1, d.DraftID, 5, models.FoodItem{}); err == nil {
		t.Fatal("expected error for out-of-range index")
	}
}

func TestAppendItemsMergesAndRecomputes(t *testing.T) {
	s := NewDraftService()
	a := models.FoodItem{ID: "a", Name: "カレー", Kcal: 600, Protein: 15, Fat: 20, Carbs: 80}
	d := s.Register(1, models.AnalyzeDraft{Items: []models.FoodItem{a}, Source: models.SourceText})

	b := models.FoodItem{Name: "サラダ", Kcal: 50, Protein: 2, Fat: 1, Carbs: 8}
	c := models.FoodItem{Name: "ヨーグルト", Kcal: 60, Protein: 4, Fat: 2, Carbs: 6}

	got, err := s.AppendItems(1, d.DraftID, []models.FoodItem{b, c}, []string{"分量は推定です"})
	if err != nil {
		t.Fatalf("AppendItems failed: %v", err)
	}

	if len(got.Items) != 3 {
		t.Fatalf("merged draft has %d items, want 3", len(got.Items))
	}
	if got.Items[0].ID != "a" || got.Items[1].Name != "サラダ" || got.Items[2].Name != "ヨーグルト" {
		t.Errorf("merge order wrong: %+v", got.Items)
	}
	want := models.Macro{Kcal: 710, Protein: 21, Fat: 23, Carbs: 94}
	if got.Totals != want {
		t.Errorf("totals = %+v, want %+v", got.Totals, want)
	}
	if len(got.Warnings) != 1 {
		t.Errorf("warnings = %v, want the appended one", got.Warnings)
	}
}

func TestAppendItemsSkipsEmptyWarnings(t *testing.T) {
	s := NewDraftService()
	d := s.Register(1, models.AnalyzeDraft{
		Items:    []models.FoodItem{{ID: "a", Kcal: 100}},
		Warnings: []string{"既存"},
		Source:   models.SourceText,
	})

	got, err := s.AppendItems(1, d.DraftID, []models.FoodItem{{Kcal: 50}}, nil)
	if err != nil {
		t.Fatalf("AppendItems failed: %v", err)
	}
	if len(got.Warnings) != 1 || got.Warnings[0] != "既存" {
		t.Errorf("warnings = %v, want only the existing one", got.Warnings)
	}
}

func TestRemoveItemNeverEmptiesDraft(t *testing.T) {
	s := NewDraftService()
	d := s.Register(1, models.AnalyzeDraft{
		Items:  []models.FoodItem{{ID: "only", Name: "りんご", Kcal: 80}},
		Source: models.SourceManual,
	})

	got, err := s.RemoveItem(1, d.DraftID, 0)
	if err != nil {
		t.Fatalf("RemoveItem failed: %v", err)
	}

	if len(got.Items) != 1 {
		t.Fatalf("draft has %d items after removing the last one, want 1 placeholder", len(got.Items))
	}
	if got.Items[0].Name != "" || got.Items[0].Kcal != 0 {
		t.Errorf("placeholder is not blank: %+v", got.Items[0])
	}
	if got.Totals != (models.Macro{}) {
		t.Errorf("totals = %+v, want zero", got.Totals)
	}
}

func TestRemoveItemKeepsOthers(t *testing.T) {
	s := NewDraftService()
	d := s.Register(1, models.AnalyzeDraft{
		Items: []models.FoodItem{
			{ID: "a", Kcal: 100},
			{ID: "b", Kcal: 200},
		},
		Source: models.SourceText,
	})

	got, err := s.RemoveItem(1, d.DraftID, 0)
	if err != nil {
		t.Fatalf("RemoveItem failed: %v", err)
	}
	if len(got.Items) != 1 || got.Items[0].ID != "b" {
		t.Fatalf("wrong item removed: %+v", got.Items)
	}
	if got.Totals.Kcal != 200 {
		t.Errorf("totals.Kcal = %v, want 200", got.Totals.Kcal)
	}
}

func TestCreateFromLibrarySynthesizesPlaceholderForEmptyEntry(t *testing.T) {
	s := NewDraftService()
	entry := models.FoodLibraryEntry{
		ID:       "e1",
		Name:     "プロテイン",
		Amount:   "1杯",
		Calories: 120,
		Protein:  24,
	}

	d := s.CreateFromLibrary(1, entry)
	if len(d.Items) != 1 {
		t.Fatalf("draft has %d items, want 1 synthesized", len(d.Items))
	}
	if d.Items[0].Name != "プロテイン" || d.Items[0].Kcal != 120 || d.Items[0].Protein != 24 {
		t.Errorf("synthesized item = %+v", d.Items[0])
	}
	if d.Source != models.SourceLibrary || d.MenuName != "プロテイン" {
		t.Errorf("draft meta = source %s menuName %q", d.Source, d.MenuName)
	}
}

func TestNormalizeManualDraft(t *testing.T) {
	d := models.AnalyzeDraft{
		MenuName: "   ",
		Items: []models.FoodItem{
			{Name: "  おにぎり  ", Amount: "", Kcal: 180},
			{Name: "", Amount: "  ", Kcal: math.Inf(1), Protein: -2},
		},
		Source: models.SourceManual,
	}

	got := NormalizeManualDraft(d)

	if got.Items[0].Name != "おにぎり" || got.Items[0].Amount != "1人前" {
		t.Errorf("item 0 = %+v", got.Items[0])
	}
	if got.Items[1].Name != "食品2" {
		t.Errorf("blank name fallback = %q, want 食品2", got.Items[1].Name)
	}
	if got.Items[1].Kcal != 0 || got.Items[1].Protein != 0 {
		t.Errorf("non-finite/negative macros not zeroed: %+v", got.Items[1])
	}
	if got.MenuName != "おにぎり" {
		t.Errorf("menu name fallback = %q, want first item's name", got.MenuName)
	}
	if !strings.HasPrefix(got.Items[1].Amount, "1人前") {
		t.Errorf("blank amount default = %q", got.Items[1].Amount)
	}
}

func TestDiscardRemovesDraft(t *testing.T) {
	s := NewDraftService()
	d := s.CreateManual(1)
	s.Discard(1, d.DraftID)

	if _, err := s.Get(1, d.DraftID); err == nil {
		t.Fatal("draft still retrievable after discard")
	}
	s.Discard(1, "missing") // no-op
}

func TestDraftsAreIsolatedPerUser(t *testing.T) {
	s := NewDraftService()
	d := s.CreateManual(1)

	if _, err := s.Get(2, d.DraftID); err == nil {
		t.Fatal("user 2 can read user 1's draft")
	}
}
