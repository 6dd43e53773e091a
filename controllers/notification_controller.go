package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/awashimakentaro/diet/models"
	"github.com/awashimakentaro/diet/services"
)

type NotificationController struct {
	Notifications *services.NotificationService
}

func NewNotificationController(notifications *services.NotificationService) *NotificationController {
	return &NotificationController{Notifications: notifications}
}

func (n *NotificationController) Get(c *gin.Context) {
	uid := c.GetUint("userID")

	setting, err := n.Notifications.Get(uid)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, setting)
}

type updateNotificationInput struct {
	Enabled   bool                      `json:"enabled"`
	Timezone  string                    `json:"timezone"`
	PushToken string                    `json:"push_token"`
	Times     []models.NotificationTime `json:"times"`
}

func (n *NotificationController) Update(c *gin.Context) {
	uid := c.GetUint("userID")

	var input updateNotificationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	saved, err := n.Notifications.Update(uid, models.NotificationSetting{
		Enabled:   input.Enabled,
		Timezone:  input.Timezone,
		PushToken: input.PushToken,
		Times:     input.Times,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, saved)
}

type sendReminderInput struct {
	Slot models.NotificationTime `json:"slot" binding:"required"`
}

// SendReminder triggers one slot's reminder immediately (used by the
// scheduler worker and for testing from the settings screen).
func (n *NotificationController) SendReminder(c *gin.Context) {
	uid := c.GetUint("userID")

	var input sendReminderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := n.Notifications.SendReminder(uid, input.Slot); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}
