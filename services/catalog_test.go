package services

import (
	"encoding/json"
	"testing"

	"cyberquest-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quizContent(t *testing.T) []byte {
	t.Helper()
	raw, err := json.Marshal(models.QuizContent{
		Questions: []models.QuizQuestion{{
			Question:      "Which protocol encrypts web traffic?",
			Options:       []string{"HTTP", "HTTPS", "FTP", "Telnet"},
			CorrectAnswer: 1,
		}},
	})
	require.NoError(t, err)
	return raw
}

func TestCreateLevel_SlugAndBadge(t *testing.T) {
	db := newTestDB(t)
	svc := NewCatalogService(db)

	level, err := svc.CreateLevel(LevelInput{
		Order:           1,
		Title:           "Network Security Basics",
		MinPointsToPass: 150,
	})
	require.NoError(t, err)
	assert.Equal(t, "network-security-basics", level.Slug)
	assert.True(t, level.RequiredToAdvance)

	var badge models.Achievement
	require.NoError(t, db.First(&badge, "code = ?", "LEVEL_1_COMPLETION").Error)
	assert.Equal(t, models.AchievementLevelCompletion, badge.Type)
	require.NotNil(t, badge.LevelID)
	assert.Equal(t, level.ID, *badge.LevelID)
}

func TestCreateLevel_RejectsBadInput(t *testing.T) {
	db := newTestDB(t)
	svc := NewCatalogService(db)

	_, err := svc.CreateLevel(LevelInput{Order: 0, Title: "No Order"})
	assert.Error(t, err)
	_, err = svc.CreateLevel(LevelInput{Order: 1, Title: ""})
	assert.Error(t, err)
}

func TestCreateActivity_ValidatesContent(t *testing.T) {
	db := newTestDB(t)
	svc := NewCatalogService(db)
	level := seedLevel(t, db, 1, 150)

	activity, err := svc.CreateActivity(ActivityInput{
		LevelID: level.ID,
		Type:    models.ActivityTypeQuiz,
		Title:   "Protocol Quiz",
		Points:  100,
		Order:   1,
		Content: quizContent(t),
	})
	require.NoError(t, err)
	assert.Equal(t, level.ID, activity.LevelID)

	// Quiz content on a quiz activity with an empty question list is rejected.
	_, err = svc.CreateActivity(ActivityInput{
		LevelID: level.ID,
		Type:    models.ActivityTypeQuiz,
		Title:   "Broken Quiz",
		Points:  100,
		Order:   2,
		Content: []byte(`{"questions": []}`),
	})
	assert.Error(t, err)

	_, err = svc.CreateActivity(ActivityInput{
		LevelID: "missing",
		Type:    models.ActivityTypeQuiz,
		Title:   "Orphan",
		Points:  100,
		Content: quizContent(t),
	})
	assert.ErrorIs(t, err, ErrLevelNotFound)
}

func TestUpdateLevel_PartialAndSlug(t *testing.T) {
	db := newTestDB(t)
	svc := NewCatalogService(db)
	level := seedLevel(t, db, 1, 150)

	updated, err := svc.UpdateLevel(level.ID, LevelInput{Title: "Advanced Threat Hunting"})
	require.NoError(t, err)
	assert.Equal(t, "advanced-threat-hunting", updated.Slug)
	assert.Equal(t, 150, updated.MinPointsToPass, "untouched fields keep their values")

	updated, err = svc.UpdateLevel(level.ID, LevelInput{MinPointsToPass: 200})
	require.NoError(t, err)
	assert.Equal(t, 200, updated.MinPointsToPass)
	assert.Equal(t, "Advanced Threat Hunting", updated.Title)

	_, err = svc.UpdateLevel("missing", LevelInput{Title: "x"})
	assert.ErrorIs(t, err, ErrLevelNotFound)
}

func TestUpdateActivity_ValidatesNewContent(t *testing.T) {
	db := newTestDB(t)
	svc := NewCatalogService(db)
	level := seedLevel(t, db, 1, 150)
	activity := seedActivity(t, db, level.ID, models.ActivityTypeQuiz, 100, 1)

	updated, err := svc.UpdateActivity(activity.ID, ActivityInput{Points: 120, Content: quizContent(t)})
	require.NoError(t, err)
	assert.Equal(t, 120, updated.Points)

	_, err = svc.UpdateActivity(activity.ID, ActivityInput{Content: []byte(`{"questions": []}`)})
	assert.Error(t, err, "replacement content is validated against the existing type")

	_, err = svc.UpdateActivity("missing", ActivityInput{Title: "x"})
	assert.ErrorIs(t, err, ErrActivityNotFound)
}

func TestListLevels_OrderedWithActivities(t *testing.T) {
	db := newTestDB(t)
	svc := NewCatalogService(db)
	second := seedLevel(t, db, 2, 100)
	first := seedLevel(t, db, 1, 150)
	seedActivity(t, db, first.ID, models.ActivityTypeReading, 50, 2)
	seedActivity(t, db, first.ID, models.ActivityTypeQuiz, 100, 1)

	levels, err := svc.ListLevels()
	require.NoError(t, err)
	require.Len(t, levels, 2)
	assert.Equal(t, first.ID, levels[0].ID)
	assert.Equal(t, second.ID, levels[1].ID)
	require.Len(t, levels[0].Activities, 2)
	assert.Equal(t, 1, levels[0].Activities[0].Order)

	_, err = svc.GetLevel("missing")
	assert.ErrorIs(t, err, ErrLevelNotFound)
}
