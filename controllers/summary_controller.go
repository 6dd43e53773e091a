package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/awashimakentaro/diet/services"
	"github.com/awashimakentaro/diet/store"
	"github.com/awashimakentaro/diet/utils"
)

type SummaryController struct {
	Summary *services.SummaryService
	Goals   *services.GoalService
	Meals   *services.MealService
	Stores  *store.Manager
}

func NewSummaryController(summary *services.SummaryService, goals *services.GoalService, meals *services.MealService, stores *store.Manager) *SummaryController {
	return &SummaryController{Summary: summary, Goals: goals, Meals: meals, Stores: stores}
}

// GetDaily recomputes the day's summary. The goal and the date's meals are
// loaded into the in-memory state first so a fresh session sees real data.
func (s *SummaryController) GetDaily(c *gin.Context) {
	uid := c.GetUint("userID")
	dateKey := c.Query("date")
	if dateKey == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing 'date' query param"})
		return
	}
	loc := utils.LoadLocation(c.Query("tz"))

	if _, _, err := s.Goals.GetGoal(uid); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if err := s.Meals.SyncMealsByDate(uid, dateKey, loc); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, s.Summary.GetDailySummary(s.Stores.For(uid), dateKey, loc))
}
