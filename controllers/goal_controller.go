package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/awashimakentaro/diet/models"
	"github.com/awashimakentaro/diet/services"
)

type GoalController struct {
	Goals *services.GoalService
}

func NewGoalController(goals *services.GoalService) *GoalController {
	return &GoalController{Goals: goals}
}

func (g *GoalController) Get(c *gin.Context) {
	uid := c.GetUint("userID")

	goal, profile, err := g.Goals.GetGoal(uid)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"goal": goal, "profile": profile})
}

type upsertGoalInput struct {
	Kcal    float64 `json:"kcal"`
	Protein float64 `json:"protein"`
	Fat     float64 `json:"fat"`
	Carbs   float64 `json:"carbs"`
}

func (g *GoalController) Upsert(c *gin.Context) {
	uid := c.GetUint("userID")

	var input upsertGoalInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	goal, err := g.Goals.UpsertManualGoal(uid, models.Macro{
		Kcal:    input.Kcal,
		Protein: input.Protein,
		Fat:     input.Fat,
		Carbs:   input.Carbs,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, goal)
}

type calculateGoalInput struct {
	Sex           string  `json:"sex" binding:"required"`
	BirthDate     string  `json:"birth_date" binding:"required"` // YYYY-MM-DD
	HeightCm      float64 `json:"height_cm" binding:"required"`
	WeightKg      float64 `json:"weight_kg" binding:"required"`
	ActivityLevel string  `json:"activity_level" binding:"required"`
	Objective     string  `json:"objective" binding:"required"`
}

func (g *GoalController) Calculate(c *gin.Context) {
	uid := c.GetUint("userID")

	var input calculateGoalInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	birth, err := time.Parse("2006-01-02", input.BirthDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "生年月日の形式が正しくありません (YYYY-MM-DD)"})
		return
	}

	goal, err := g.Goals.CalculateFromProfile(uid, models.Profile{
		Sex:           input.Sex,
		BirthDate:     birth,
		HeightCm:      input.HeightCm,
		WeightKg:      input.WeightKg,
		ActivityLevel: input.ActivityLevel,
		Objective:     models.Objective(input.Objective),
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, goal)
}
