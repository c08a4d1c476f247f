package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"strings"
	"time"

	"cyberquest-backend/ai"
	"cyberquest-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrSessionNotFound  = errors.New("interview session not found")
	ErrSessionCompleted = errors.New("interview session already completed")
)

// InterviewService runs DB-backed mock interviews: question generation on
// start, local grading plus an AI improvement tip on submit. Sessions live in
// the database, so they survive restarts and scale past one process.
type InterviewService struct {
	DB *gorm.DB
	AI *ai.Client
}

func NewInterviewService(db *gorm.DB, aiClient *ai.Client) *InterviewService {
	return &InterviewService{DB: db, AI: aiClient}
}

// Start generates a question set for the role/difficulty and persists the
// session.
func (s *InterviewService) Start(ctx context.Context, userID, role, difficulty string, numQuestions int) (*models.InterviewSession, error) {
	role = strings.TrimSpace(role)
	if role == "" {
		return nil, fmt.Errorf("role is required")
	}
	switch difficulty {
	case "easy", "medium", "hard":
	case "":
		difficulty = "medium"
	default:
		return nil, fmt.Errorf("difficulty must be easy, medium, or hard")
	}
	if numQuestions < 1 || numQuestions > 20 {
		numQuestions = 10
	}

	prompt := fmt.Sprintf(`Generate %d %s-difficulty multiple choice interview questions for a %q position in cybersecurity.
Respond with ONLY a JSON object in this exact shape:
{
  "questions": [
    {
      "question": "string",
      "options": ["a", "b", "c", "d"],
      "correctAnswer": "the exact text of the correct option",
      "explanation": "why it is correct"
    }
  ]
}
Exactly 4 options per question. No markdown, no extra text.`, numQuestions, difficulty, role)

	var out struct {
		Questions []models.InterviewQuestion `json:"questions"`
	}
	if err := s.AI.GenerateJSON(ctx, prompt, &out); err != nil {
		return nil, err
	}
	if len(out.Questions) == 0 {
		return nil, fmt.Errorf("ai returned no questions")
	}

	questionsRaw, err := json.Marshal(out.Questions)
	if err != nil {
		return nil, err
	}
	session := models.InterviewSession{
		ID:         uuid.NewString(),
		UserID:     userID,
		Role:       role,
		Difficulty: difficulty,
		Status:     models.InterviewStatusActive,
		Questions:  questionsRaw,
	}
	if err := s.DB.Create(&session).Error; err != nil {
		return nil, err
	}
	log.Printf("🎤 Interview session %s started for user %s (%s, %s)", session.ID, userID, role, difficulty)
	return &session, nil
}

// InterviewFeedback is persisted on the session after submission.
type InterviewFeedback struct {
	Score          float64  `json:"score"` // percentage
	Correct        int      `json:"correct"`
	Total          int      `json:"total"`
	WrongQuestions []string `json:"wrongQuestions,omitempty"`
	ImprovementTip string   `json:"improvementTip,omitempty"`
}

// Submit grades the answers against the stored question set, asks the model
// for one improvement tip when anything was missed, and completes the session.
func (s *InterviewService) Submit(ctx context.Context, userID, sessionID string, answers []string) (*models.InterviewSession, error) {
	var session models.InterviewSession
	if err := s.DB.Where("id = ? AND user_id = ?", sessionID, userID).First(&session).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	if session.Status == models.InterviewStatusCompleted {
		return nil, ErrSessionCompleted
	}

	var questions []models.InterviewQuestion
	if err := json.Unmarshal(session.Questions, &questions); err != nil {
		return nil, fmt.Errorf("stored question set is unreadable: %w", err)
	}

	feedback := gradeAnswers(questions, answers)

	if len(feedback.WrongQuestions) > 0 && s.AI != nil {
		prompt := fmt.Sprintf(`A candidate for a %q role answered these interview questions incorrectly: %s.
Respond with ONLY a JSON object: {"improvementTip": "one short, encouraging, specific study tip"}. Under 50 words, do not mention the mistakes explicitly.`,
			session.Role, strings.Join(feedback.WrongQuestions, " | "))
		var tip struct {
			ImprovementTip string `json:"improvementTip"`
		}
		if err := s.AI.GenerateJSON(ctx, prompt, &tip); err != nil {
			// The grade stands on its own; a missing tip is not worth failing the submission.
			log.Printf("⚠️ improvement tip generation failed for session %s: %v", sessionID, err)
		} else {
			feedback.ImprovementTip = tip.ImprovementTip
		}
	}

	answersRaw, err := json.Marshal(answers)
	if err != nil {
		return nil, err
	}
	feedbackRaw, err := json.Marshal(feedback)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	session.Answers = answersRaw
	session.Feedback = feedbackRaw
	session.Score = feedback.Score
	session.Status = models.InterviewStatusCompleted
	session.CompletedAt = &now
	if err := s.DB.Save(&session).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

// gradeAnswers compares answers to the stored key position by position.
// Missing answers count as wrong.
func gradeAnswers(questions []models.InterviewQuestion, answers []string) InterviewFeedback {
	feedback := InterviewFeedback{Total: len(questions)}
	for i, q := range questions {
		if i < len(answers) && answers[i] == q.CorrectAnswer {
			feedback.Correct++
		} else {
			feedback.WrongQuestions = append(feedback.WrongQuestions, q.Question)
		}
	}
	if feedback.Total > 0 {
		feedback.Score = math.Round(float64(feedback.Correct)/float64(feedback.Total)*10000) / 100
	}
	return feedback
}

// Get returns one of the user's sessions.
func (s *InterviewService) Get(userID, sessionID string) (*models.InterviewSession, error) {
	var session models.InterviewSession
	if err := s.DB.Where("id = ? AND user_id = ?", sessionID, userID).First(&session).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return &session, nil
}

// History returns the user's sessions, newest first.
func (s *InterviewService) History(userID string) ([]models.InterviewSession, error) {
	var sessions []models.InterviewSession
	err := s.DB.Where("user_id = ?", userID).Order("created_at DESC").Find(&sessions).Error
	return sessions, err
}
