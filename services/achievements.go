package services

import (
	"errors"
	"fmt"
	"log"

	"cyberquest-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrAchievementNotFound = errors.New("achievement not found")

type AchievementService struct {
	DB *gorm.DB
}

func NewAchievementService(db *gorm.DB) *AchievementService {
	return &AchievementService{DB: db}
}

// SeedDefaultAchievements upserts the global badge catalog. Safe to run on
// every start.
func SeedDefaultAchievements(db *gorm.DB) error {
	for _, a := range models.DefaultAchievements {
		a.ID = uuid.NewString()
		if err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "code"}},
			DoNothing: true,
		}).Create(&a).Error; err != nil {
			return fmt.Errorf("failed to seed achievement %s: %w", a.Code, err)
		}
	}
	return nil
}

// AwardByTypeTx looks up the badge matching the trigger and idempotently
// inserts the UserAchievement row inside the caller's transaction. Returns
// whether a new award was created. A trigger with no badge defined is a no-op,
// not an error. PointsValue is never added to User.TotalPoints.
func (s *AchievementService) AwardByTypeTx(tx *gorm.DB, userID string, aType models.AchievementType, levelID *string) (bool, error) {
	q := tx.Where("type = ?", aType)
	if levelID != nil {
		q = q.Where("level_id = ?", *levelID)
	}
	var achievement models.Achievement
	if err := q.First(&achievement).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return s.awardTx(tx, userID, achievement.ID)
}

// Award idempotently grants a specific achievement to a user.
func (s *AchievementService) Award(userID, achievementID string) (bool, error) {
	var achievement models.Achievement
	if err := s.DB.First(&achievement, "id = ?", achievementID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrAchievementNotFound
		}
		return false, err
	}
	return s.awardTx(s.DB, userID, achievementID)
}

func (s *AchievementService) awardTx(tx *gorm.DB, userID, achievementID string) (bool, error) {
	var count int64
	if err := tx.Model(&models.UserAchievement{}).
		Where("user_id = ? AND achievement_id = ?", userID, achievementID).
		Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}
	ua := models.UserAchievement{
		ID:            uuid.NewString(),
		UserID:        userID,
		AchievementID: achievementID,
	}
	// The unique index backstops the count check under concurrent awards.
	res := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "achievement_id"}},
		DoNothing: true,
	}).Create(&ua)
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected > 0 {
		log.Printf("🎖️ Achievement awarded: %s → user %s", achievementID, userID)
	}
	return res.RowsAffected > 0, nil
}

// AchievementInput is the admin payload for defining a custom badge.
type AchievementInput struct {
	Code        string                 `json:"code"`
	Type        models.AchievementType `json:"type"`
	LevelID     *string                `json:"levelId"`
	Title       string                 `json:"title"`
	Description string                 `json:"description"`
	PointsValue int                    `json:"pointsValue"`
}

// Create inserts a badge definition. Codes are unique; a duplicate code fails
// on the index.
func (s *AchievementService) Create(input AchievementInput) (*models.Achievement, error) {
	if input.Code == "" || input.Title == "" {
		return nil, fmt.Errorf("code and title are required")
	}
	switch input.Type {
	case models.AchievementFirstSteps, models.AchievementLevelCompletion, models.AchievementPerfectQuiz:
	default:
		return nil, fmt.Errorf("unknown achievement type %q", input.Type)
	}
	if input.Type == models.AchievementLevelCompletion && input.LevelID == nil {
		return nil, fmt.Errorf("level completion badges need a levelId")
	}
	achievement := models.Achievement{
		ID:          uuid.NewString(),
		Code:        input.Code,
		Type:        input.Type,
		LevelID:     input.LevelID,
		Title:       input.Title,
		Description: input.Description,
		PointsValue: input.PointsValue,
	}
	if err := s.DB.Create(&achievement).Error; err != nil {
		return nil, err
	}
	return &achievement, nil
}

// ListCatalog returns every badge definition.
func (s *AchievementService) ListCatalog() ([]models.Achievement, error) {
	var achievements []models.Achievement
	err := s.DB.Order("created_at ASC").Find(&achievements).Error
	return achievements, err
}

// ListForUser returns the user's awarded badges with their definitions.
func (s *AchievementService) ListForUser(userID string) ([]models.UserAchievement, error) {
	var awards []models.UserAchievement
	err := s.DB.Preload("Achievement").
		Where("user_id = ?", userID).
		Order("awarded_at DESC").
		Find(&awards).Error
	return awards, err
}
