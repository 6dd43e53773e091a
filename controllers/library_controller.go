package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/awashimakentaro/diet/models"
	"github.com/awashimakentaro/diet/services"
	"github.com/awashimakentaro/diet/store"
)

type LibraryController struct {
	Library *services.LibraryService
	Stores  *store.Manager
}

func NewLibraryController(library *services.LibraryService, stores *store.Manager) *LibraryController {
	return &LibraryController{Library: library, Stores: stores}
}

func (l *LibraryController) List(c *gin.Context) {
	uid := c.GetUint("userID")

	entries, err := l.Library.List(uid)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	// Entry type is derived, so expose it explicitly for list rendering.
	type entryWithType struct {
		models.FoodLibraryEntry
		Type models.LibraryEntryType `json:"type"`
	}
	out := make([]entryWithType, 0, len(entries))
	for _, e := range entries {
		out = append(out, entryWithType{FoodLibraryEntry: e, Type: e.EntryType()})
	}
	c.JSON(http.StatusOK, out)
}

func (l *LibraryController) Create(c *gin.Context) {
	uid := c.GetUint("userID")

	var entry models.FoodLibraryEntry
	if err := c.ShouldBindJSON(&entry); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := l.Library.Create(uid, entry)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, created)
}

// CreateFromMeal saves a persisted meal as a reusable template.
func (l *LibraryController) CreateFromMeal(c *gin.Context) {
	uid := c.GetUint("userID")
	mealID := c.Param("id")

	state := l.Stores.For(uid).Get()
	for _, meal := range state.Meals {
		if meal.ID != mealID {
			continue
		}
		created, err := l.Library.CreateFromMeal(uid, meal)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, created)
		return
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "食事の記録が見つかりません"})
}

func (l *LibraryController) Delete(c *gin.Context) {
	uid := c.GetUint("userID")
	if err := l.Library.Delete(uid, c.Param("id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}
