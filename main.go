package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/The-Birdheads/life-os/cache"
	"github.com/The-Birdheads/life-os/db"
	"github.com/The-Birdheads/life-os/handlers"
	"github.com/The-Birdheads/life-os/middleware"
	"github.com/The-Birdheads/life-os/models"
	"github.com/The-Birdheads/life-os/routes"
	"github.com/The-Birdheads/life-os/utils"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	utils.InitLogger()
	defer utils.Logger.Sync()
	utils.InitMetrics()

	utils.Logger.Info("starting_application")

	db.Connect()
	if err := db.DB.AutoMigrate(
		&models.User{},
		&models.Task{},
		&models.Action{},
		&models.TaskEntry{},
		&models.ActionEntry{},
		&models.DailyLog{},
	); err != nil {
		utils.Logger.Fatal("migration_failed", zap.Error(err))
	}

	// Redis is optional; without it reads just skip the cache.
	if err := cache.InitRedis(utils.Logger); err != nil {
		utils.Logger.Warn("redis_unavailable_continuing_without_cache", zap.Error(err))
	}
	defer cache.Close()

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(middleware.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.SecurityHeaders())
	if key := os.Getenv("CSRF_AUTH_KEY"); key != "" {
		r.Use(middleware.CSRFProtection([]byte(key)))
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{getEnv("CORS_ORIGIN", "http://localhost:3000")},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "X-Cache"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now(),
		})
	})

	authLimit := middleware.RateLimitMiddleware(20, time.Minute)
	r.POST("/api/register", authLimit, routes.Register)
	r.POST("/api/login", authLimit, routes.Login)

	api := r.Group("/api")
	api.Use(middleware.AuthMiddleware())
	{
		api.GET("/profile", routes.Profile)

		api.GET("/tasks", handlers.GetTasks)
		api.POST("/tasks", handlers.CreateTask)
		api.PUT("/tasks/:id", handlers.UpdateTask)
		api.DELETE("/tasks/:id", handlers.DeleteTask)

		api.GET("/actions", handlers.GetActions)
		api.POST("/actions", handlers.CreateAction)
		api.PUT("/actions/:id", handlers.UpdateAction)
		api.DELETE("/actions/:id", handlers.DeleteAction)

		api.GET("/entries", handlers.GetEntries)
		api.PUT("/entries/task", handlers.ToggleTaskEntry)
		api.POST("/entries/action", handlers.CreateActionEntry)
		api.PUT("/entries/action/:id", handlers.UpdateActionEntry)
		api.DELETE("/entries/action/:id", handlers.DeleteActionEntry)

		cached := middleware.CacheMiddleware(2 * time.Minute)
		api.GET("/record", cached, handlers.GetRecord)
		api.GET("/register-view", handlers.GetRegisterView)
		api.GET("/review", cached, handlers.GetReview)
		api.PUT("/review", handlers.SaveReview)
		api.GET("/week", cached, handlers.GetWeek)
		api.GET("/analytics/score", handlers.GetScoreBreakdown)
	}

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	startServer(r)
}

func startServer(router *gin.Engine) {
	port := getEnv("PORT", "8080")

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	utils.Logger.Info("starting_http_server", zap.String("port", port))

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			utils.Logger.Fatal("http_server_failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	utils.Logger.Info("shutting_down_server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		utils.Logger.Fatal("server_forced_shutdown", zap.Error(err))
	}

	utils.Logger.Info("server_stopped")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
