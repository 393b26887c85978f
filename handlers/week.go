package handlers

import (
	"net/http"

	"github.com/The-Birdheads/life-os/middleware"
	"github.com/The-Birdheads/life-os/services"
	"github.com/The-Birdheads/life-os/utils"
	"github.com/gin-gonic/gin"
)

// GetWeek returns the seven-day overview ending at ?day (default today).
func GetWeek(c *gin.Context) {
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

	overview, err := services.CalculateWeekOverview(user.ID, day, utils.Logger)
	if err != nil {
		utils.ErrorCount.WithLabelValues("get_week", "db").Inc()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load week"})
		return
	}

	c.JSON(http.StatusOK, overview)
}
