package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/The-Birdheads/life-os/db"
	"github.com/The-Birdheads/life-os/models"
	"github.com/The-Birdheads/life-os/utils"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupRoutes(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	utils.Logger = zap.NewNop()

	gdb, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, gdb.AutoMigrate(&models.User{}))
	db.DB = gdb
	t.Cleanup(func() {
		sqlDB, _ := gdb.DB()
		sqlDB.Close()
	})

	r := gin.New()
	r.POST("/api/register", Register)
	r.POST("/api/login", Login)
	return r
}

func postJSON(t *testing.T, r *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(body))
	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRegisterAndLogin(t *testing.T) {
	r := setupRoutes(t)

	w := postJSON(t, r, "/api/register", gin.H{"username": "alex", "password": "hunter2hunter2"})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "token")

	// Stored hash is not the plaintext.
	var user models.User
	require.NoError(t, db.DB.Where("username = ?", "alex").First(&user).Error)
	assert.NotEqual(t, "hunter2hunter2", user.PasswordHash)

	w = postJSON(t, r, "/api/login", gin.H{"username": "alex", "password": "hunter2hunter2"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "token")
}

func TestRegister_DuplicateUsername(t *testing.T) {
	r := setupRoutes(t)

	w := postJSON(t, r, "/api/register", gin.H{"username": "alex", "password": "hunter2hunter2"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = postJSON(t, r, "/api/register", gin.H{"username": "alex", "password": "hunter2hunter2"})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestLogin_WrongPassword(t *testing.T) {
	r := setupRoutes(t)

	w := postJSON(t, r, "/api/register", gin.H{"username": "alex", "password": "hunter2hunter2"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = postJSON(t, r, "/api/login", gin.H{"username": "alex", "password": "wrong-password"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = postJSON(t, r, "/api/login", gin.H{"username": "nobody", "password": "hunter2hunter2"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRegister_ShortPassword(t *testing.T) {
	r := setupRoutes(t)

	w := postJSON(t, r, "/api/register", gin.H{"username": "alex", "password": "short"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
