package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"cyberquest-backend/middleware"
	"cyberquest-backend/models"
	"cyberquest-backend/services"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestApp wires the real middleware and progress routes over an in-memory
// database, the same shape main builds.
func newTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Level{},
		&models.Activity{},
		&models.UserProgress{},
		&models.ActivityProgress{},
		&models.Achievement{},
		&models.UserAchievement{},
	))
	require.NoError(t, services.SeedDefaultAchievements(db))

	achievements := services.NewAchievementService(db)
	users := services.NewUserService(db, achievements, nil)
	progress := services.NewProgressService(db, achievements, nil)

	app := fiber.New()
	api := app.Group("/api", middleware.UserContextMiddleware(users))
	SetupProgressRoutes(api, progress)
	return app, db
}

func seedCatalog(t *testing.T, db *gorm.DB) *models.Activity {
	t.Helper()
	level := models.Level{
		ID:              uuid.NewString(),
		Order:           1,
		Slug:            "basics",
		Title:           "Basics",
		MinPointsToPass: 150,
	}
	require.NoError(t, db.Create(&level).Error)
	activity := models.Activity{
		ID:      uuid.NewString(),
		LevelID: level.ID,
		Type:    models.ActivityTypeQuiz,
		Title:   "Quiz",
		Points:  100,
		Order:   1,
	}
	require.NoError(t, db.Create(&activity).Error)
	return &activity
}

func postProgress(t *testing.T, app *fiber.App, activityID, body string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest("POST", "/api/activities/"+activityID+"/progress", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "clerk_handler_test")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var parsed map[string]any
	require.NoError(t, json.Unmarshal(raw, &parsed))
	return resp.StatusCode, parsed
}

func TestPostActivityProgress(t *testing.T) {
	app, db := newTestApp(t)
	activity := seedCatalog(t, db)

	status, body := postProgress(t, app, activity.ID, `{"isCompleted": true, "score": 80}`)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, true, body["success"])
	assert.EqualValues(t, 80, body["pointsEarned"])
	assert.EqualValues(t, 1, body["attempts"])
	assert.EqualValues(t, 80, body["totalPoints"])

	status, body = postProgress(t, app, activity.ID, `{"isCompleted": true, "score": 90}`)
	assert.Equal(t, fiber.StatusOK, status)
	assert.EqualValues(t, 90, body["pointsEarned"])
	assert.EqualValues(t, 2, body["attempts"])
	assert.EqualValues(t, 90, body["totalPoints"])
}

func TestPostActivityProgress_Validation(t *testing.T) {
	app, db := newTestApp(t)
	activity := seedCatalog(t, db)

	status, body := postProgress(t, app, activity.ID, `{"score": 80}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Contains(t, body["error"], "isCompleted")

	status, _ = postProgress(t, app, activity.ID, `{"isCompleted": true, "score": 140}`)
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _ = postProgress(t, app, activity.ID, `{"isCompleted": true, "pointsEarned": -2}`)
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _ = postProgress(t, app, "missing", `{"isCompleted": true, "score": 80}`)
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestPostActivityProgress_RequiresGatewayIdentity(t *testing.T) {
	app, db := newTestApp(t)
	activity := seedCatalog(t, db)

	req := httptest.NewRequest("POST", "/api/activities/"+activity.ID+"/progress", strings.NewReader(`{"isCompleted": true}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestCheckProgress(t *testing.T) {
	app, _ := newTestApp(t)

	req := httptest.NewRequest("GET", "/api/check-progress", nil)
	req.Header.Set("X-User-ID", "clerk_handler_test")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var body struct {
		Success bool     `json:"success"`
		Fixes   []string `json:"fixes"`
	}
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.True(t, body.Success)
	assert.NotNil(t, body.Fixes)
}
