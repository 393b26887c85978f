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

type taskInput struct {
	Title    string  `json:"title" validate:"required"`
	TaskType string  `json:"task_type" validate:"required,oneof=habit oneoff"`
	Priority int     `json:"priority" validate:"omitempty,min=1,max=5"`
	Volume   int     `json:"volume" validate:"omitempty,min=1,max=10"`
	DueDate  *string `json:"due_date"`
}

func CreateTask(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var input taskInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid data"})
		return
	}
	if err := middleware.ValidateStruct(input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if input.DueDate != nil {
		if _, err := utils.ParseDay(*input.DueDate); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "due_date must be YYYY-MM-DD"})
			return
		}
	}

	task := models.Task{
		UserID:   user.ID,
		Title:    input.Title,
		TaskType: input.TaskType,
		Priority: clamp(input.Priority, 1, 5, 3),
		Volume:   clamp(input.Volume, 1, 10, 5),
		IsActive: true,
	}
	// Habits never carry a due date.
	if input.TaskType == models.TaskTypeOneoff {
		task.DueDate = input.DueDate
	}

	if err := db.DB.Create(&task).Error; err != nil {
		utils.ErrorCount.WithLabelValues("create_task", "db").Inc()
		utils.Logger.Error("task_create_failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create task"})
		return
	}

	middleware.InvalidateUserCache(user.ID)
	c.JSON(http.StatusCreated, gin.H{"task": task})
}

func GetTasks(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var tasks []models.Task
	query := db.DB.Where("user_id = ?", user.ID).
		Order("due_date ASC NULLS LAST").
		Order("created_at ASC")
	if t := c.Query("type"); t != "" {
		query = query.Where("task_type = ?", t)
	}

	if err := query.Find(&tasks).Error; err != nil {
		utils.ErrorCount.WithLabelValues("get_tasks", "db").Inc()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load tasks"})
		return
	}

	c.JSON(http.StatusOK, tasks)
}

func UpdateTask(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	id := c.Param("id")

	var task models.Task
	if err := db.DB.Where("user_id = ? AND id = ?", user.ID, id).First(&task).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		return
	}

	var input struct {
		Title    *string `json:"title"`
		Priority *int    `json:"priority"`
		Volume   *int    `json:"volume"`
		DueDate  *string `json:"due_date"`
		IsActive *bool   `json:"is_active"`
		IsHidden *bool   `json:"is_hidden"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	if input.Title != nil {
		task.Title = *input.Title
	}
	if input.Priority != nil {
		task.Priority = clamp(*input.Priority, 1, 5, 3)
	}
	if input.Volume != nil {
		task.Volume = clamp(*input.Volume, 1, 10, 5)
	}
	if input.DueDate != nil && task.TaskType == models.TaskTypeOneoff {
		if *input.DueDate == "" {
			task.DueDate = nil
		} else {
			if _, err := utils.ParseDay(*input.DueDate); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "due_date must be YYYY-MM-DD"})
				return
			}
			task.DueDate = input.DueDate
		}
	}
	if input.IsActive != nil {
		task.IsActive = *input.IsActive
	}
	if input.IsHidden != nil {
		task.IsHidden = *input.IsHidden
	}

	if err := db.DB.Save(&task).Error; err != nil {
		utils.ErrorCount.WithLabelValues("update_task", "db").Inc()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update task"})
		return
	}

	middleware.InvalidateUserCache(user.ID)
	c.JSON(http.StatusOK, gin.H{"task": task})
}

// DeleteTask removes the row for good. Historical entries referencing it
// stay behind as orphans; the engines already treat dangling references
// as zero contributions.
func DeleteTask(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	id := c.Param("id")

	var task models.Task
	if err := db.DB.Where("user_id = ? AND id = ?", user.ID, id).First(&task).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		return
	}

	if err := db.DB.Delete(&task).Error; err != nil {
		utils.ErrorCount.WithLabelValues("delete_task", "db").Inc()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete task"})
		return
	}

	middleware.InvalidateUserCache(user.ID)
	utils.Logger.Info("task_deleted", zap.String("task_id", task.ID))
	c.JSON(http.StatusOK, gin.H{"message": "Task deleted"})
}

// clamp bounds v to [lo,hi], substituting def when v is unset (zero).
func clamp(v, lo, hi, def int) int {
	if v == 0 {
		return def
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
