package services

import (
	"context"
	"encoding/json"
	"testing"

	"cyberquest-backend/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyInsightDefaults(t *testing.T) {
	var p InsightPayload
	applyInsightDefaults(&p)

	assert.Equal(t, "medium", p.DemandLevel)
	assert.Equal(t, "neutral", p.MarketOutlook)
	assert.NotNil(t, p.SalaryRanges)
	assert.NotNil(t, p.TopSkills)
	assert.NotNil(t, p.KeyTrends)
	assert.NotNil(t, p.RecommendedSkills)

	// Values the model did supply are untouched.
	filled := InsightPayload{DemandLevel: "high", TopSkills: []string{"SIEM"}}
	applyInsightDefaults(&filled)
	assert.Equal(t, "high", filled.DemandLevel)
	assert.Equal(t, []string{"SIEM"}, filled.TopSkills)
}

func TestInsightDefaults_SerializeWithoutNulls(t *testing.T) {
	var p InsightPayload
	applyInsightDefaults(&p)

	raw, err := json.Marshal(p)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "null")
}

func seedDocument(t *testing.T, svc *CareerService, userID string, kind models.CareerDocumentKind) *models.CareerDocument {
	t.Helper()
	doc := models.CareerDocument{
		ID:      uuid.NewString(),
		UserID:  userID,
		Kind:    kind,
		Input:   []byte(`{}`),
		Content: []byte(`{"content": "# Resume"}`),
	}
	require.NoError(t, svc.DB.Create(&doc).Error)
	return &doc
}

func TestListDocuments_FiltersByKind(t *testing.T) {
	db := newTestDB(t)
	svc := NewCareerService(db, nil)
	user := seedUser(t, db, "user_career_1")
	seedDocument(t, svc, user.ID, models.CareerDocumentResume)
	seedDocument(t, svc, user.ID, models.CareerDocumentResume)
	seedDocument(t, svc, user.ID, models.CareerDocumentCoverLetter)

	resumes, err := svc.ListDocuments(user.ID, models.CareerDocumentResume)
	require.NoError(t, err)
	assert.Len(t, resumes, 2)

	letters, err := svc.ListDocuments(user.ID, models.CareerDocumentCoverLetter)
	require.NoError(t, err)
	assert.Len(t, letters, 1)

	none, err := svc.ListDocuments("someone-else", models.CareerDocumentResume)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestGenerateResume_RequiresJobTitle(t *testing.T) {
	db := newTestDB(t)
	svc := NewCareerService(db, nil)
	user := seedUser(t, db, "user_career_2")

	_, err := svc.GenerateResume(context.Background(), user, ResumeInput{})
	assert.Error(t, err)
}

func TestGenerateCoverLetter_RequiresCompanyAndRole(t *testing.T) {
	db := newTestDB(t)
	svc := NewCareerService(db, nil)
	user := seedUser(t, db, "user_career_3")

	_, err := svc.GenerateCoverLetter(context.Background(), user, CoverLetterInput{Company: "Acme"})
	assert.Error(t, err)
}
