package controllers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/awashimakentaro/diet/services"
	"github.com/awashimakentaro/diet/utils"
)

type AnalyzeController struct {
	Analyzer *services.AnalyzeService
	Drafts   *services.DraftService
}

func NewAnalyzeController(analyze *services.AnalyzeService, drafts *services.DraftService) *AnalyzeController {
	return &AnalyzeController{Analyzer: analyze, Drafts: drafts}
}

// Analyze sends text or a photo to the AI endpoint and registers the parsed
// draft for editing. Image input is also uploaded to S3 so the photo stays
// attached to the eventual meal.
func (a *AnalyzeController) Analyze(c *gin.Context) {
	uid := c.GetUint("userID")

	var req services.AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	draft, err := a.Analyzer.Analyze(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, services.ErrAnalysisUnavailable) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	if req.Type == services.AnalyzeImage {
		url, err := utils.UploadMealPhoto(req.Base64, uid)
		if err != nil {
			// The draft is still usable without the stored photo.
			log.Printf("meal photo upload failed: %v", err)
		} else {
			draft.PhotoURL = url
		}
	}

	registered := a.Drafts.Register(uid, *draft)
	c.JSON(http.StatusOK, registered)
}
