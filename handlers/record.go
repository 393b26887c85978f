package handlers

import (
	"net/http"

	"github.com/The-Birdheads/life-os/db"
	"github.com/The-Birdheads/life-os/middleware"
	"github.com/The-Birdheads/life-os/models"
	"github.com/The-Birdheads/life-os/services"
	"github.com/The-Birdheads/life-os/utils"
	"github.com/gin-gonic/gin"
)

func loadCatalog(userID string) ([]models.Task, []models.Action, error) {
	var tasks []models.Task
	if err := db.DB.Where("user_id = ?", userID).
		Order("due_date ASC NULLS LAST").
		Order("created_at ASC").
		Find(&tasks).Error; err != nil {
		return nil, nil, err
	}

	var actions []models.Action
	if err := db.DB.Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&actions).Error; err != nil {
		return nil, nil, err
	}

	return tasks, actions, nil
}

// GetRecord composes the "today" view for one day: visible habits and
// one-offs in record order, the actions available to log, the raw
// completion state, and the live weighted-blend breakdown.
func GetRecord(c *gin.Context) {
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

	tasks, actions, err := loadCatalog(user.ID)
	if err != nil {
		utils.ErrorCount.WithLabelValues("get_record", "db").Inc()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load catalog"})
		return
	}

	snap, err := loadDaySnapshot(user.ID, day)
	if err != nil {
		utils.ErrorCount.WithLabelValues("get_record", "db").Inc()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load entries"})
		return
	}

	habits := services.VisibleHabits(tasks, snap.DoneTaskIDs, snap.DoneTaskIDsAnyDay)
	oneoffs := services.VisibleOneoffs(tasks, snap.DoneTaskIDs, snap.DoneTaskIDsAnyDay)

	c.JSON(http.StatusOK, gin.H{
		"day":            day,
		"habits":         services.SortRecordTasks(habits, snap.DoneTaskIDs),
		"oneoffs":        services.SortRecordTasks(oneoffs, snap.DoneTaskIDs),
		"actions":        services.ActiveActions(actions),
		"done_task_ids":  setKeys(snap.DoneTaskIDs),
		"action_entries": snap.ActionEntries,
		"score":          services.ComputeFulfillment(tasks, actions, snap.DoneTaskIDs, snap.ActionEntries),
	})
}

// GetRegisterView serves the management lists, partitioned into shown and
// hidden sub-tabs. Kept rule-for-rule consistent with the record view so
// an item can't look actionable in one and be missing from the other.
func GetRegisterView(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	tab := c.DefaultQuery("tab", services.TabShown)
	if tab != services.TabShown && tab != services.TabHidden {
		c.JSON(http.StatusBadRequest, gin.H{"error": "tab must be shown or hidden"})
		return
	}

	tasks, actions, err := loadCatalog(user.ID)
	if err != nil {
		utils.ErrorCount.WithLabelValues("get_register_view", "db").Inc()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load catalog"})
		return
	}

	var doneEntries []models.TaskEntry
	if err := db.DB.Where("user_id = ? AND status = ?", user.ID, models.StatusDone).
		Find(&doneEntries).Error; err != nil {
		utils.ErrorCount.WithLabelValues("get_register_view", "db").Inc()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load entries"})
		return
	}
	doneAnyDay := services.DoneTaskIDSet(doneEntries)

	c.JSON(http.StatusOK, gin.H{
		"tab":     tab,
		"habits":  services.RegisterTasks(tasks, models.TaskTypeHabit, tab, doneAnyDay),
		"oneoffs": services.RegisterTasks(tasks, models.TaskTypeOneoff, tab, doneAnyDay),
		"actions": services.RegisterActions(actions, tab),
	})
}

// GetScoreBreakdown exposes the weighted-blend formula for analytics and
// backfill. Read-only; nothing here is persisted.
func GetScoreBreakdown(c *gin.Context) {
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

	tasks, actions, err := loadCatalog(user.ID)
	if err != nil {
		utils.ErrorCount.WithLabelValues("get_score_breakdown", "db").Inc()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load catalog"})
		return
	}

	snap, err := loadDaySnapshot(user.ID, day)
	if err != nil {
		utils.ErrorCount.WithLabelValues("get_score_breakdown", "db").Inc()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load entries"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"day":   day,
		"score": services.ComputeFulfillment(tasks, actions, snap.DoneTaskIDs, snap.ActionEntries),
	})
}
