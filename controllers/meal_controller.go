package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/awashimakentaro/diet/models"
	"github.com/awashimakentaro/diet/services"
	"github.com/awashimakentaro/diet/store"
	"github.com/awashimakentaro/diet/utils"
)

type MealController struct {
	Meals  *services.MealService
	Drafts *services.DraftService
	Stores *store.Manager
}

func NewMealController(meals *services.MealService, drafts *services.DraftService, stores *store.Manager) *MealController {
	return &MealController{Meals: meals, Drafts: drafts, Stores: stores}
}

func requestLocation(c *gin.Context) *time.Location {
	return utils.LoadLocation(c.Query("tz"))
}

type saveMealInput struct {
	DraftID      string            `json:"draft_id" binding:"required"`
	MenuName     *string           `json:"menu_name"`
	OriginalText *string           `json:"original_text"`
	Items        []models.FoodItem `json:"items"`
}

// Save confirms a draft into a persisted meal. Manual drafts are normalized
// first (name/amount fallbacks); the draft is discarded once saved.
func (m *MealController) Save(c *gin.Context) {
	uid := c.GetUint("userID")

	var input saveMealInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	draft, err := m.Drafts.Get(uid, input.DraftID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if draft.Source == models.SourceManual {
		draft = services.NormalizeManualDraft(draft)
	}

	var overrides *services.SaveMealOverrides
	if input.MenuName != nil || input.OriginalText != nil || input.Items != nil {
		overrides = &services.SaveMealOverrides{
			MenuName:     input.MenuName,
			OriginalText: input.OriginalText,
			Items:        input.Items,
		}
	}

	meal, err := m.Meals.SaveMeal(uid, draft, overrides, requestLocation(c))
	if err != nil {
		if errors.Is(err, services.ErrEmptyMeal) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	m.Drafts.Discard(uid, input.DraftID)
	c.JSON(http.StatusCreated, meal)
}

// ListByDate serves from the in-memory store; Sync refreshes it from the
// backend first when the client asks for fresh data.
func (m *MealController) ListByDate(c *gin.Context) {
	uid := c.GetUint("userID")
	dateKey := c.Query("date")
	if dateKey == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing 'date' query param"})
		return
	}
	c.JSON(http.StatusOK, m.Meals.ListMealsByDate(uid, dateKey, requestLocation(c)))
}

func (m *MealController) Sync(c *gin.Context) {
	uid := c.GetUint("userID")
	dateKey := c.Query("date")
	if dateKey == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing 'date' query param"})
		return
	}

	loc := requestLocation(c)
	if err := m.Meals.SyncMealsByDate(uid, dateKey, loc); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, m.Meals.ListMealsByDate(uid, dateKey, loc))
}

type updateMealInput struct {
	MenuName *string           `json:"menu_name"`
	Notes    *string           `json:"notes"`
	Items    []models.FoodItem `json:"items"`
}

func (m *MealController) Update(c *gin.Context) {
	uid := c.GetUint("userID")

	var input updateMealInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	meal, err := m.Meals.UpdateMeal(uid, c.Param("id"), services.MealUpdate{
		MenuName: input.MenuName,
		Notes:    input.Notes,
		Items:    input.Items,
	}, requestLocation(c))
	if err != nil {
		if errors.Is(err, services.ErrEmptyMeal) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, meal)
}

func (m *MealController) Delete(c *gin.Context) {
	uid := c.GetUint("userID")
	if err := m.Meals.DeleteMeal(uid, c.Param("id"), requestLocation(c)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

func (m *MealController) DeleteByDate(c *gin.Context) {
	uid := c.GetUint("userID")
	dateKey := c.Query("date")
	if dateKey == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing 'date' query param"})
		return
	}
	if err := m.Meals.DeleteMealsByDate(uid, dateKey, requestLocation(c)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

// Duplicate enqueues a copy of a persisted meal into the draft inbox, the
// one-shot hand-off used by "record this again" from the history screen.
func (m *MealController) Duplicate(c *gin.Context) {
	uid := c.GetUint("userID")
	mealID := c.Param("id")

	state := m.Stores.For(uid).Get()
	for _, meal := range state.Meals {
		if meal.ID != mealID {
			continue
		}
		draft := models.AnalyzeDraft{
			DraftID:      uuid.NewString(),
			MenuName:     meal.MenuName,
			OriginalText: meal.OriginalText,
			Items:        models.CloneFoodItems(meal.Items),
			Totals:       models.CalculateMacroFromItems(meal.Items),
			Source:       meal.Source,
			Warnings:     []string{},
		}
		m.Stores.For(uid).EnqueueDraft(draft)
		c.JSON(http.StatusAccepted, draft)
		return
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "食事の記録が見つかりません"})
}
