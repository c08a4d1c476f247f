package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"cyberquest-backend/ai"
	"cyberquest-backend/models"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// How long a generated industry insight stays fresh.
const insightTTL = 7 * 24 * time.Hour

var ErrDocumentNotFound = errors.New("career document not found")

// CareerService drives the AI career tools: cached industry insights plus
// generated resumes and cover letters. Every generation is one prompt/response
// round trip; malformed model output is surfaced to the caller unretried.
type CareerService struct {
	DB *gorm.DB
	AI *ai.Client
}

func NewCareerService(db *gorm.DB, aiClient *ai.Client) *CareerService {
	return &CareerService{DB: db, AI: aiClient}
}

// InsightPayload is the structured market snapshot the model is asked for.
type InsightPayload struct {
	SalaryRanges      []SalaryRange `json:"salaryRanges"`
	GrowthRate        float64       `json:"growthRate"`
	DemandLevel       string        `json:"demandLevel"` // high | medium | low
	TopSkills         []string      `json:"topSkills"`
	MarketOutlook     string        `json:"marketOutlook"` // positive | neutral | negative
	KeyTrends         []string      `json:"keyTrends"`
	RecommendedSkills []string      `json:"recommendedSkills"`
}

type SalaryRange struct {
	Role   string  `json:"role"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Median float64 `json:"median"`
	Region string  `json:"region"`
}

// applyInsightDefaults backfills fields the model omitted so consumers never
// see nulls.
func applyInsightDefaults(p *InsightPayload) {
	if p.DemandLevel == "" {
		p.DemandLevel = "medium"
	}
	if p.MarketOutlook == "" {
		p.MarketOutlook = "neutral"
	}
	if p.SalaryRanges == nil {
		p.SalaryRanges = []SalaryRange{}
	}
	if p.TopSkills == nil {
		p.TopSkills = []string{}
	}
	if p.KeyTrends == nil {
		p.KeyTrends = []string{}
	}
	if p.RecommendedSkills == nil {
		p.RecommendedSkills = []string{}
	}
}

// GetIndustryInsight serves the cached snapshot for an industry, regenerating
// it when missing or stale.
func (s *CareerService) GetIndustryInsight(ctx context.Context, industry string) (*models.IndustryInsight, error) {
	industry = strings.ToLower(strings.TrimSpace(industry))
	if industry == "" {
		return nil, fmt.Errorf("industry is required")
	}

	var insight models.IndustryInsight
	err := s.DB.Where("industry = ?", industry).First(&insight).Error
	if err == nil && time.Now().Before(insight.NextUpdateAt) {
		return &insight, nil
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	prompt := fmt.Sprintf(`Analyze the current state of the %q industry and respond with ONLY a JSON object in this exact shape:
{
  "salaryRanges": [{"role": "string", "min": 0, "max": 0, "median": 0, "region": "string"}],
  "growthRate": 0.0,
  "demandLevel": "high|medium|low",
  "topSkills": ["skill"],
  "marketOutlook": "positive|neutral|negative",
  "keyTrends": ["trend"],
  "recommendedSkills": ["skill"]
}
Include at least 5 roles in salaryRanges, at least 5 skills and trends. growthRate is a percentage. No markdown, no extra text.`, industry)

	var payload InsightPayload
	if err := s.AI.GenerateJSON(ctx, prompt, &payload); err != nil {
		return nil, err
	}
	applyInsightDefaults(&payload)

	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	if insight.ID == "" {
		insight = models.IndustryInsight{
			ID:       uuid.NewString(),
			Industry: industry,
		}
	}
	insight.Payload = datatypes.JSON(raw)
	insight.GeneratedAt = now
	insight.NextUpdateAt = now.Add(insightTTL)
	if err := s.DB.Save(&insight).Error; err != nil {
		return nil, err
	}
	return &insight, nil
}

// RefreshStaleInsights regenerates every cached insight past its refresh
// deadline. Run by the maintenance scheduler.
func (s *CareerService) RefreshStaleInsights(ctx context.Context) error {
	var stale []models.IndustryInsight
	if err := s.DB.Where("next_update_at <= ?", time.Now()).Find(&stale).Error; err != nil {
		return err
	}
	for _, insight := range stale {
		if _, err := s.GetIndustryInsight(ctx, insight.Industry); err != nil {
			return fmt.Errorf("refresh of %q failed: %w", insight.Industry, err)
		}
	}
	return nil
}

// ResumeInput is the caller-supplied material the model rewrites.
type ResumeInput struct {
	JobTitle   string   `json:"jobTitle"`
	Summary    string   `json:"summary"`
	Skills     []string `json:"skills"`
	Experience []string `json:"experience"`
	Education  []string `json:"education"`
}

// GenerateResume produces a polished resume in markdown and persists it.
func (s *CareerService) GenerateResume(ctx context.Context, user *models.User, input ResumeInput) (*models.CareerDocument, error) {
	if input.JobTitle == "" {
		return nil, fmt.Errorf("jobTitle is required")
	}
	prompt := fmt.Sprintf(`Write a professional resume in markdown for %s %s targeting a %q role.
Candidate summary: %s
Skills: %s
Experience: %s
Education: %s
Respond with ONLY a JSON object: {"content": "<markdown resume>"}. Improve wording, quantify impact where possible, keep it truthful to the supplied material.`,
		user.FirstName, user.LastName, input.JobTitle, input.Summary,
		strings.Join(input.Skills, ", "),
		strings.Join(input.Experience, "; "),
		strings.Join(input.Education, "; "))

	return s.generateDocument(ctx, user.ID, models.CareerDocumentResume, input, prompt)
}

// CoverLetterInput describes the position a cover letter targets.
type CoverLetterInput struct {
	Company        string `json:"company"`
	Role           string `json:"role"`
	JobDescription string `json:"jobDescription"`
}

// GenerateCoverLetter produces a tailored cover letter and persists it.
func (s *CareerService) GenerateCoverLetter(ctx context.Context, user *models.User, input CoverLetterInput) (*models.CareerDocument, error) {
	if input.Company == "" || input.Role == "" {
		return nil, fmt.Errorf("company and role are required")
	}
	prompt := fmt.Sprintf(`Write a compelling cover letter in markdown for %s %s applying to the %q role at %q.
Job description: %s
Respond with ONLY a JSON object: {"content": "<markdown cover letter>"}. Three to four paragraphs, specific to the role, no placeholders.`,
		user.FirstName, user.LastName, input.Role, input.Company, input.JobDescription)

	return s.generateDocument(ctx, user.ID, models.CareerDocumentCoverLetter, input, prompt)
}

func (s *CareerService) generateDocument(ctx context.Context, userID string, kind models.CareerDocumentKind, input any, prompt string) (*models.CareerDocument, error) {
	var out struct {
		Content string `json:"content"`
	}
	if err := s.AI.GenerateJSON(ctx, prompt, &out); err != nil {
		return nil, err
	}
	if out.Content == "" {
		return nil, fmt.Errorf("ai returned an empty document")
	}

	inputRaw, err := json.Marshal(input)
	if err != nil {
		return nil, err
	}
	contentRaw, err := json.Marshal(out)
	if err != nil {
		return nil, err
	}
	doc := models.CareerDocument{
		ID:      uuid.NewString(),
		UserID:  userID,
		Kind:    kind,
		Input:   inputRaw,
		Content: contentRaw,
	}
	if err := s.DB.Create(&doc).Error; err != nil {
		return nil, err
	}
	return &doc, nil
}

// ListDocuments returns the user's generated documents of one kind, newest
// first.
func (s *CareerService) ListDocuments(userID string, kind models.CareerDocumentKind) ([]models.CareerDocument, error) {
	var docs []models.CareerDocument
	err := s.DB.Where("user_id = ? AND kind = ?", userID, kind).
		Order("created_at DESC").
		Find(&docs).Error
	return docs, err
}
