package models

import "strings"

// Pure row-to-domain conversions. Missing numbers default to 0 via
// sanitization, missing arrays to empty; no other validation happens here.

func MealFromRow(r MealRow) Meal {
	items := make([]FoodItem, 0, len(r.Items))
	for _, it := range r.Items {
		items = append(items, it.Sanitized())
	}
	return Meal{
		ID:           r.ID,
		RecordedAt:   r.RecordedAt,
		MenuName:     r.MenuName,
		OriginalText: r.OriginalText,
		Items:        items,
		Totals: Macro{
			Kcal:    SanitizeMacroValue(r.Kcal),
			Protein: SanitizeMacroValue(r.Protein),
			Fat:     SanitizeMacroValue(r.Fat),
			Carbs:   SanitizeMacroValue(r.Carbs),
		},
		Source:   DraftSource(r.Source),
		Notes:    r.Notes,
		PhotoURL: r.PhotoURL,
	}
}

func LibraryEntryFromRow(r FoodRow) FoodLibraryEntry {
	items := make([]FoodItem, 0, len(r.Items))
	for _, it := range r.Items {
		items = append(items, it.Sanitized())
	}
	return FoodLibraryEntry{
		ID:        r.ID,
		Name:      r.Name,
		Amount:    r.Amount,
		Calories:  SanitizeMacroValue(r.Calories),
		Protein:   SanitizeMacroValue(r.Protein),
		Fat:       SanitizeMacroValue(r.Fat),
		Carbs:     SanitizeMacroValue(r.Carbs),
		Items:     items,
		CreatedAt: r.CreatedAt,
	}
}

func GoalFromRow(r GoalRow) Goal {
	return Goal{
		ID:                    r.ID,
		Kcal:                  SanitizeMacroValue(r.Kcal),
		Protein:               SanitizeMacroValue(r.Protein),
		Fat:                   SanitizeMacroValue(r.Fat),
		Carbs:                 SanitizeMacroValue(r.Carbs),
		Source:                GoalSource(r.Source),
		CalculatedFromProfile: r.CalculatedFromProfile,
		UpdatedAt:             r.UpdatedAt,
	}
}

func ProfileFromRow(r GoalRow) *Profile {
	if r.BirthDate == nil && r.HeightCm == 0 && r.WeightKg == 0 {
		return nil
	}
	p := Profile{
		Sex:           r.Sex,
		HeightCm:      r.HeightCm,
		WeightKg:      r.WeightKg,
		ActivityLevel: r.ActivityLevel,
		Objective:     Objective(r.Objective),
	}
	if r.BirthDate != nil {
		p.BirthDate = *r.BirthDate
	}
	return &p
}

func NotificationFromRow(r NotificationPreferenceRow) NotificationSetting {
	var times []NotificationTime
	for _, t := range strings.Split(r.Times, ",") {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		times = append(times, NotificationTime(t))
	}
	return NotificationSetting{
		Enabled:         r.Enabled,
		LastScheduledAt: r.LastScheduledAt,
		Timezone:        r.Timezone,
		PushToken:       r.PushToken,
		Times:           times,
	}
}

func JoinNotificationTimes(times []NotificationTime) string {
	parts := make([]string, 0, len(times))
	for _, t := range times {
		parts = append(parts, string(t))
	}
	return strings.Join(parts, ",")
}
