package handlers

import (
	"net/http"

	"github.com/The-Birdheads/life-os/db"
	"github.com/The-Birdheads/life-os/middleware"
	"github.com/The-Birdheads/life-os/models"
	"github.com/The-Birdheads/life-os/services"
	"github.com/The-Birdheads/life-os/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm/clause"
)

// dayStats summarizes what actually got done on a day, shown next to the
// review form.
type dayStats struct {
	HabitsDone    int `json:"habits_done"`
	HabitsVolume  int `json:"habits_volume"`
	TasksDone     int `json:"tasks_done"`
	TasksVolume   int `json:"tasks_volume"`
	ActionsDone   int `json:"actions_done"`
	ActionsVolume int `json:"actions_volume"`
}

func buildDayStats(tasks []models.Task, snap daySnapshot) dayStats {
	var s dayStats
	for _, t := range tasks {
		if !snap.DoneTaskIDs[t.ID] {
			continue
		}
		switch t.TaskType {
		case models.TaskTypeHabit:
			s.HabitsDone++
			s.HabitsVolume += t.Volume
		case models.TaskTypeOneoff:
			s.TasksDone++
			s.TasksVolume += t.Volume
		}
	}
	for _, e := range snap.ActionEntries {
		s.ActionsDone++
		if e.Volume != nil {
			s.ActionsVolume += *e.Volume
		}
	}
	return s
}

// GetReview returns the daily log for a day plus the day's completion
// stats.
func GetReview(c *gin.Context) {
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

	var tasks []models.Task
	if err := db.DB.Where("user_id = ?", user.ID).Find(&tasks).Error; err != nil {
		utils.ErrorCount.WithLabelValues("get_review", "db").Inc()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load tasks"})
		return
	}

	snap, err := loadDaySnapshot(user.ID, day)
	if err != nil {
		utils.ErrorCount.WithLabelValues("get_review", "db").Inc()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load entries"})
		return
	}

	// Missing log is not an error; the day just has no review yet.
	var log models.DailyLog
	found := db.DB.Where("user_id = ? AND day = ?", user.ID, day).First(&log).Error == nil

	resp := gin.H{
		"day":   day,
		"stats": buildDayStats(tasks, snap),
	}
	if found {
		resp["note"] = log.Note
		resp["fulfillment"] = log.Fulfillment
	} else {
		resp["note"] = nil
		resp["fulfillment"] = nil
	}

	c.JSON(http.StatusOK, resp)
}

// SaveReview upserts the daily log on the (user, day) key. Fulfillment
// outside 1..100 is stored as null rather than rejected, matching the
// never-crash posture of the engines.
func SaveReview(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var input struct {
		Day         string   `json:"day" binding:"required"`
		Note        *string  `json:"note"`
		Fulfillment *float64 `json:"fulfillment"`
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

	var fulfillment *int
	if input.Fulfillment != nil {
		fulfillment = services.ValidateFulfillment(*input.Fulfillment)
	}

	log := models.DailyLog{
		UserID:      user.ID,
		Day:         day,
		Note:        trimNote(input.Note),
		Fulfillment: fulfillment,
	}

	if err := db.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "day"}},
		DoUpdates: clause.AssignmentColumns([]string{"note", "fulfillment"}),
	}).Create(&log).Error; err != nil {
		utils.ErrorCount.WithLabelValues("save_review", "db").Inc()
		utils.Logger.Error("daily_log_upsert_failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save review"})
		return
	}

	middleware.InvalidateUserCache(user.ID)
	utils.Logger.Info("review_saved", zap.String("user_id", user.ID), zap.String("day", day))
	c.JSON(http.StatusOK, gin.H{
		"day":         day,
		"note":        log.Note,
		"fulfillment": log.Fulfillment,
	})
}
