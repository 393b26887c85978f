package routes

import (
	"net/http"

	"github.com/The-Birdheads/life-os/db"
	"github.com/The-Birdheads/life-os/models"
	"github.com/The-Birdheads/life-os/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type credentials struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
}

func Register(c *gin.Context) {
	var input credentials
	if err := c.BindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid data"})
		return
	}

	var existing models.User
	if err := db.DB.Where("username = ?", input.Username).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Username already exists"})
		return
	}

	hash, err := utils.HashPassword(input.Password)
	if err != nil {
		utils.Logger.Error("password_hash_failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	user := models.User{
		Username:     input.Username,
		PasswordHash: hash,
		Role:         models.RoleUser,
	}
	if err := db.DB.Create(&user).Error; err != nil {
		utils.Logger.Error("user_create_failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	token, _ := utils.GenerateToken(user.ID, user.Username, user.Role)

	utils.Logger.Info("user_registered", zap.String("user_id", user.ID))

	c.JSON(http.StatusCreated, gin.H{
		"token": token,
		"user": gin.H{
			"id":       user.ID,
			"username": user.Username,
			"role":     user.Role,
		},
	})
}

func Login(c *gin.Context) {
	var input credentials
	if err := c.BindJSON(&input); err != nil {
		utils.Logger.Warn("invalid_login_request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid data"})
		return
	}

	var user models.User
	if err := db.DB.Where("username = ?", input.Username).First(&user).Error; err != nil {
		utils.Logger.Warn("login_user_not_found", zap.String("username", input.Username))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	if !utils.CheckPasswordHash(input.Password, user.PasswordHash) {
		utils.Logger.Warn("login_incorrect_password", zap.String("username", input.Username))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	token, _ := utils.GenerateToken(user.ID, user.Username, user.Role)

	utils.Logger.Info("user_logged_in", zap.String("user_id", user.ID))

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user": gin.H{
			"id":       user.ID,
			"username": user.Username,
			"role":     user.Role,
		},
	})
}

func Profile(c *gin.Context) {
	user, exists := c.Get("user")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	c.JSON(http.StatusOK, user)
}
