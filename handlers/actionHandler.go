package handlers

import (
	"net/http"

	"github.com/The-Birdheads/life-os/db"
	"github.com/The-Birdheads/life-os/middleware"
	"github.com/The-Birdheads/life-os/models"
	"github.com/The-Birdheads/life-os/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type actionInput struct {
	Kind      string `json:"kind" validate:"required"`
	Category  string `json:"category" validate:"omitempty,oneof=hobby recovery growth lifework other"`
	WantScore *int   `json:"want_score" validate:"omitempty,min=0,max=5"`
}

func CreateAction(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var input actionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid data"})
		return
	}
	if err := middleware.ValidateStruct(input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	action := models.Action{
		UserID:   user.ID,
		Kind:     input.Kind,
		Category: input.Category,
		IsActive: true,
	}
	if action.Category == "" {
		action.Category = models.CategoryOther
	}
	if input.WantScore != nil {
		action.WantScore = *input.WantScore
	} else {
		action.WantScore = 3
	}

	if err := db.DB.Create(&action).Error; err != nil {
		utils.ErrorCount.WithLabelValues("create_action", "db").Inc()
		utils.Logger.Error("action_create_failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create action"})
		return
	}

	middleware.InvalidateUserCache(user.ID)
	c.JSON(http.StatusCreated, gin.H{"action": action})
}

func GetActions(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var actions []models.Action
	if err := db.DB.Where("user_id = ?", user.ID).
		Order("created_at ASC").
		Find(&actions).Error; err != nil {
		utils.ErrorCount.WithLabelValues("get_actions", "db").Inc()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load actions"})
		return
	}

	c.JSON(http.StatusOK, actions)
}

func UpdateAction(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	id := c.Param("id")

	var action models.Action
	if err := db.DB.Where("user_id = ? AND id = ?", user.ID, id).First(&action).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Action not found"})
		return
	}

	var input struct {
		Kind      *string `json:"kind"`
		Category  *string `json:"category"`
		WantScore *int    `json:"want_score"`
		IsActive  *bool   `json:"is_active"`
		IsHidden  *bool   `json:"is_hidden"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	if input.Kind != nil && *input.Kind != "" {
		action.Kind = *input.Kind
		action.Title = *input.Kind
	}
	if input.Category != nil {
		action.Category = *input.Category
	}
	if input.WantScore != nil {
		ws := *input.WantScore
		if ws < 0 {
			ws = 0
		}
		if ws > 5 {
			ws = 5
		}
		action.WantScore = ws
	}
	if input.IsActive != nil {
		action.IsActive = *input.IsActive
	}
	if input.IsHidden != nil {
		action.IsHidden = *input.IsHidden
	}

	if err := db.DB.Save(&action).Error; err != nil {
		utils.ErrorCount.WithLabelValues("update_action", "db").Inc()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update action"})
		return
	}

	middleware.InvalidateUserCache(user.ID)
	c.JSON(http.StatusOK, gin.H{"action": action})
}

func DeleteAction(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	id := c.Param("id")

	var action models.Action
	if err := db.DB.Where("user_id = ? AND id = ?", user.ID, id).First(&action).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Action not found"})
		return
	}

	if err := db.DB.Delete(&action).Error; err != nil {
		utils.ErrorCount.WithLabelValues("delete_action", "db").Inc()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete action"})
		return
	}

	middleware.InvalidateUserCache(user.ID)
	c.JSON(http.StatusOK, gin.H{"message": "Action deleted"})
}
