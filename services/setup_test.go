package services

import (
	"fmt"
	"testing"

	"cyberquest-backend/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a fresh in-memory database per test, named after the test so
// parallel tests never share state.
func newTestDB(t *testing.T) *gorm.DB {
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
		&models.Certificate{},
		&models.IndustryInsight{},
		&models.CareerDocument{},
		&models.InterviewSession{},
	))
	require.NoError(t, SeedDefaultAchievements(db))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, externalID string) *models.User {
	t.Helper()
	user := models.User{
		ID:             uuid.NewString(),
		ExternalUserID: externalID,
		Email:          externalID + "@example.com",
		Username:       externalID,
		CurrentLevel:   1,
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func seedLevel(t *testing.T, db *gorm.DB, order, minPointsToPass int) *models.Level {
	t.Helper()
	level := models.Level{
		ID:              uuid.NewString(),
		Order:           order,
		Slug:            fmt.Sprintf("level-%d", order),
		Title:           fmt.Sprintf("Level %d", order),
		MinPointsToPass: minPointsToPass,
	}
	require.NoError(t, db.Create(&level).Error)
	return &level
}

func seedActivity(t *testing.T, db *gorm.DB, levelID string, aType models.ActivityType, points, order int) *models.Activity {
	t.Helper()
	activity := models.Activity{
		ID:      uuid.NewString(),
		LevelID: levelID,
		Type:    aType,
		Title:   fmt.Sprintf("Activity %d", order),
		Points:  points,
		Order:   order,
	}
	require.NoError(t, db.Create(&activity).Error)
	return &activity
}

func seedLevelBadge(t *testing.T, db *gorm.DB, level *models.Level) *models.Achievement {
	t.Helper()
	badge := models.Achievement{
		ID:          uuid.NewString(),
		Code:        fmt.Sprintf("LEVEL_%d_COMPLETION", level.Order),
		Type:        models.AchievementLevelCompletion,
		LevelID:     &level.ID,
		Title:       fmt.Sprintf("%s Graduate", level.Title),
		PointsValue: 50,
	}
	require.NoError(t, db.Create(&badge).Error)
	return &badge
}

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }
