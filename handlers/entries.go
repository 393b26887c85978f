package handlers

import (
	"net/http"
	"strings"

	"github.com/The-Birdheads/life-os/db"
	"github.com/The-Birdheads/life-os/middleware"
	"github.com/The-Birdheads/life-os/models"
	"github.com/The-Birdheads/life-os/services"
	"github.com/The-Birdheads/life-os/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm/clause"
)

// daySnapshot loads everything the engines need for one day: the day's
// done set, the all-time done set, and the day's action entries. The sets
// are derived from rows on every call (never cached in memory) so a
// delete elsewhere can't leave a stale set behind.
type daySnapshot struct {
	DoneTaskIDs       map[string]bool      `json:"-"`
	DoneTaskIDsAnyDay map[string]bool      `json:"-"`
	ActionEntries     []models.ActionEntry `json:"action_entries"`
}

func loadDaySnapshot(userID, day string) (daySnapshot, error) {
	var snap daySnapshot

	var todayEntries []models.TaskEntry
	if err := db.DB.Where("user_id = ? AND day = ?", userID, day).
		Find(&todayEntries).Error; err != nil {
		return snap, err
	}
	snap.DoneTaskIDs = services.DoneTaskIDSet(todayEntries)

	var doneEntries []models.TaskEntry
	if err := db.DB.Where("user_id = ? AND status = ?", userID, models.StatusDone).
		Find(&doneEntries).Error; err != nil {
		return snap, err
	}
	snap.DoneTaskIDsAnyDay = services.DoneTaskIDSet(doneEntries)

	if err := db.DB.Where("user_id = ? AND day = ?", userID, day).
		Order("created_at ASC").
		Find(&snap.ActionEntries).Error; err != nil {
		return snap, err
	}

	return snap, nil
}

func setKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	return keys
}

// GetEntries returns the raw per-day completion state.
func GetEntries(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	day, err := utils.ParseDay(c.DefaultQuery("day", utils.Today()))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "day must be YYYY-MM-DD"})
		return
	}

	snap, err := loadDaySnapshot(user.ID, day)
	if err != nil {
		utils.ErrorCount.WithLabelValues("get_entries", "db").Inc()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load entries"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"day":                   day,
		"done_task_ids":         setKeys(snap.DoneTaskIDs),
		"done_task_ids_any_day": setKeys(snap.DoneTaskIDsAnyDay),
		"action_entries":        snap.ActionEntries,
	})
}

// ToggleTaskEntry checks or unchecks a task for a day. Checked state is
// an upsert on the (user, day, task) key; unchecked deletes the row.
func ToggleTaskEntry(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var input struct {
		Day    string `json:"day" binding:"required"`
		TaskID string `json:"task_id" binding:"required"`
		Done   bool   `json:"done"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid data"})
		return
	}
	day, err := utils.ParseDay(input.Day)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "day must be YYYY-MM-DD"})
		return
	}

	var task models.Task
	if err := db.DB.Where("user_id = ? AND id = ?", user.ID, input.TaskID).First(&task).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		return
	}

	if input.Done {
		entry := models.TaskEntry{
			UserID: user.ID,
			Day:    day,
			TaskID: task.ID,
			Status: models.StatusDone,
		}
		if err := db.DB.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "day"}, {Name: "task_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{"status": models.StatusDone}),
		}).Create(&entry).Error; err != nil {
			utils.ErrorCount.WithLabelValues("toggle_task_entry", "db").Inc()
			utils.Logger.Error("task_entry_upsert_failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save entry"})
			return
		}
		utils.TaskToggleCount.WithLabelValues("done").Inc()
	} else {
		if err := db.DB.Where("user_id = ? AND day = ? AND task_id = ?", user.ID, day, task.ID).
			Delete(&models.TaskEntry{}).Error; err != nil {
			utils.ErrorCount.WithLabelValues("toggle_task_entry", "db").Inc()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete entry"})
			return
		}
		utils.TaskToggleCount.WithLabelValues("undone").Inc()
	}

	middleware.InvalidateUserCache(user.ID)
	c.JSON(http.StatusOK, gin.H{"day": day, "task_id": task.ID, "done": input.Done})
}

// CreateActionEntry logs one occurrence of an action for a day.
func CreateActionEntry(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var input struct {
		Day          string  `json:"day" binding:"required"`
		ActionID     string  `json:"action_id" binding:"required"`
		Note         *string `json:"note"`
		Volume       *int    `json:"volume"`
		Satisfaction *int    `json:"satisfaction"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid data"})
		return
	}
	day, err := utils.ParseDay(input.Day)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "day must be YYYY-MM-DD"})
		return
	}

	var action models.Action
	if err := db.DB.Where("user_id = ? AND id = ?", user.ID, input.ActionID).First(&action).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Action not found"})
		return
	}

	entry := models.ActionEntry{
		UserID:       user.ID,
		Day:          day,
		ActionID:     action.ID,
		Note:         trimNote(input.Note),
		Volume:       clampPtr(input.Volume, 1, 10),
		Satisfaction: clampPtr(input.Satisfaction, 1, 5),
	}

	if err := db.DB.Create(&entry).Error; err != nil {
		utils.ErrorCount.WithLabelValues("create_action_entry", "db").Inc()
		utils.Logger.Error("action_entry_create_failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save entry"})
		return
	}
	utils.ActionLogCount.Inc()

	middleware.InvalidateUserCache(user.ID)
	c.JSON(http.StatusCreated, gin.H{"entry": entry})
}

func UpdateActionEntry(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	id := c.Param("id")

	var entry models.ActionEntry
	if err := db.DB.Where("user_id = ? AND id = ?", user.ID, id).First(&entry).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Entry not found"})
		return
	}

	var input struct {
		ActionID     *string `json:"action_id"`
		Note         *string `json:"note"`
		Volume       *int    `json:"volume"`
		Satisfaction *int    `json:"satisfaction"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	if input.ActionID != nil {
		var action models.Action
		if err := db.DB.Where("user_id = ? AND id = ?", user.ID, *input.ActionID).First(&action).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown action"})
			return
		}
		entry.ActionID = action.ID
	}
	if input.Note != nil {
		entry.Note = trimNote(input.Note)
	}
	if input.Volume != nil {
		entry.Volume = clampPtr(input.Volume, 1, 10)
	}
	if input.Satisfaction != nil {
		entry.Satisfaction = clampPtr(input.Satisfaction, 1, 5)
	}

	if err := db.DB.Save(&entry).Error; err != nil {
		utils.ErrorCount.WithLabelValues("update_action_entry", "db").Inc()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update entry"})
		return
	}

	middleware.InvalidateUserCache(user.ID)
	c.JSON(http.StatusOK, gin.H{"entry": entry})
}

func DeleteActionEntry(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	id := c.Param("id")

	var entry models.ActionEntry
	if err := db.DB.Where("user_id = ? AND id = ?", user.ID, id).First(&entry).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Entry not found"})
		return
	}

	if err := db.DB.Delete(&entry).Error; err != nil {
		utils.ErrorCount.WithLabelValues("delete_action_entry", "db").Inc()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete entry"})
		return
	}

	middleware.InvalidateUserCache(user.ID)
	c.JSON(http.StatusOK, gin.H{"message": "Entry deleted"})
}

// trimNote normalizes a free-text note; whitespace-only notes become null.
func trimNote(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func clampPtr(v *int, lo, hi int) *int {
	if v == nil {
		return nil
	}
	n := *v
	if n < lo {
		n = lo
	}
	if n > hi {
		n = hi
	}
	return &n
}
