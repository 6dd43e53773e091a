package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/awashimakentaro/diet/models"
	"github.com/awashimakentaro/diet/services"
	"github.com/awashimakentaro/diet/store"
)

type DraftController struct {
	Drafts  *services.DraftService
	Analyze *services.AnalyzeService
	Library *services.LibraryService
	Stores  *store.Manager
}

func NewDraftController(drafts *services.DraftService, analyze *services.AnalyzeService, library *services.LibraryService, stores *store.Manager) *DraftController {
	return &DraftController{Drafts: drafts, Analyze: analyze, Library: library, Stores: stores}
}

func (d *DraftController) List(c *gin.Context) {
	uid := c.GetUint("userID")
	c.JSON(http.StatusOK, d.Drafts.List(uid))
}

func (d *DraftController) Get(c *gin.Context) {
	uid := c.GetUint("userID")
	draft, err := d.Drafts.Get(uid, c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, draft)
}

// CreateManual starts a blank draft for hand entry.
func (d *DraftController) CreateManual(c *gin.Context) {
	uid := c.GetUint("userID")
	c.JSON(http.StatusCreated, d.Drafts.CreateManual(uid))
}

type createFromLibraryInput struct {
	EntryID string `json:"entry_id" binding:"required"`
}

func (d *DraftController) CreateFromLibrary(c *gin.Context) {
	uid := c.GetUint("userID")

	var input createFromLibraryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry, err := d.Library.Get(uid, input.EntryID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "食品が見つかりません"})
		return
	}
	c.JSON(http.StatusCreated, d.Drafts.CreateFromLibrary(uid, *entry))
}

type updateItemInput struct {
	Index int             `json:"index"`
	Item  models.FoodItem `json:"item" binding:"required"`
}

func (d *DraftController) UpdateItem(c *gin.Context) {
	uid := c.GetUint("userID")

	var input updateItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	draft, err := d.Drafts.UpdateItem(uid, c.Param("id"), input.Index, input.Item)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, services.ErrDraftNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, draft)
}

type updateMenuNameInput struct {
	MenuName string `json:"menu_name"`
}

func (d *DraftController) UpdateMenuName(c *gin.Context) {
	uid := c.GetUint("userID")

	var input updateMenuNameInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	draft, err := d.Drafts.UpdateMenuName(uid, c.Param("id"), input.MenuName)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, draft)
}

type removeItemInput struct {
	Index int `json:"index"`
}

func (d *DraftController) RemoveItem(c *gin.Context) {
	uid := c.GetUint("userID")

	var input removeItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	draft, err := d.Drafts.RemoveItem(uid, c.Param("id"), input.Index)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, services.ErrDraftNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, draft)
}

// AppendByAnalysis is the AI-assisted "add more food" inside an open draft:
// the extra text goes through the analyze gateway and the returned items and
// warnings are merged into the draft.
func (d *DraftController) AppendByAnalysis(c *gin.Context) {
	uid := c.GetUint("userID")

	var req services.AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	addition, err := d.Analyze.Analyze(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, services.ErrAnalysisUnavailable) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	draft, err := d.Drafts.AppendItems(uid, c.Param("id"), addition.Items, addition.Warnings)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, draft)
}

func (d *DraftController) Discard(c *gin.Context) {
	uid := c.GetUint("userID")
	d.Drafts.Discard(uid, c.Param("id"))
	c.Status(http.StatusNoContent)
}

// ConsumeInbox drains the one-shot hand-off queue and registers every drained
// draft for editing. Drain is atomic, so a draft is delivered at most once.
func (d *DraftController) ConsumeInbox(c *gin.Context) {
	uid := c.GetUint("userID")

	drained := d.Stores.For(uid).ConsumeDraftInbox()
	registered := make([]models.AnalyzeDraft, 0, len(drained))
	for _, draft := range drained {
		registered = append(registered, d.Drafts.Register(uid, draft))
	}
	c.JSON(http.StatusOK, registered)
}
