package services

import (
	"errors"
	"fmt"

	"cyberquest-backend/models"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var ErrLevelNotFound = errors.New("level not found")

// CatalogService serves the read-mostly curriculum: levels and their
// activities. Writes are admin-only and validate activity content against the
// per-type schema before anything hits the database.
type CatalogService struct {
	DB *gorm.DB
}

func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{DB: db}
}

// ListLevels returns the full curriculum ordered by level, activities included.
func (s *CatalogService) ListLevels() ([]models.Level, error) {
	var levels []models.Level
	err := s.DB.Preload("Activities", func(db *gorm.DB) *gorm.DB {
		return db.Order(`activities."order" ASC`)
	}).Order(`levels."order" ASC`).Find(&levels).Error
	return levels, err
}

// GetLevel returns one level with its activities.
func (s *CatalogService) GetLevel(id string) (*models.Level, error) {
	var level models.Level
	err := s.DB.Preload("Activities", func(db *gorm.DB) *gorm.DB {
		return db.Order(`activities."order" ASC`)
	}).First(&level, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLevelNotFound
		}
		return nil, err
	}
	return &level, nil
}

// GetActivity returns one activity.
func (s *CatalogService) GetActivity(id string) (*models.Activity, error) {
	var activity models.Activity
	if err := s.DB.First(&activity, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrActivityNotFound
		}
		return nil, err
	}
	return &activity, nil
}

// LevelInput is the admin payload for creating or updating a level.
type LevelInput struct {
	Order             int    `json:"order"`
	Title             string `json:"title"`
	Description       string `json:"description"`
	MinPointsToPass   int    `json:"minPointsToPass"`
	RequiredToAdvance *bool  `json:"requiredToAdvance"`
}

// CreateLevel inserts a level plus its LEVEL_COMPLETION badge in one
// transaction. The slug is derived from the title.
func (s *CatalogService) CreateLevel(input LevelInput) (*models.Level, error) {
	if input.Title == "" || input.Order < 1 || input.MinPointsToPass < 0 {
		return nil, fmt.Errorf("title, a positive order, and a non-negative minPointsToPass are required")
	}
	level := models.Level{
		ID:              uuid.NewString(),
		Order:           input.Order,
		Slug:            slug.Make(input.Title),
		Title:           input.Title,
		Description:     input.Description,
		MinPointsToPass: input.MinPointsToPass,
	}
	level.RequiredToAdvance = input.RequiredToAdvance == nil || *input.RequiredToAdvance

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&level).Error; err != nil {
			return err
		}
		badge := models.Achievement{
			ID:          uuid.NewString(),
			Code:        fmt.Sprintf("LEVEL_%d_COMPLETION", level.Order),
			Type:        models.AchievementLevelCompletion,
			LevelID:     &level.ID,
			Title:       fmt.Sprintf("%s Graduate", level.Title),
			Description: fmt.Sprintf("Completed the %q level", level.Title),
			PointsValue: 50,
		}
		return tx.Create(&badge).Error
	})
	if err != nil {
		return nil, err
	}
	return &level, nil
}

// UpdateLevel applies a partial update; zero-valued fields are left alone.
// Changing the title re-derives the slug.
func (s *CatalogService) UpdateLevel(id string, input LevelInput) (*models.Level, error) {
	var level models.Level
	if err := s.DB.First(&level, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLevelNotFound
		}
		return nil, err
	}
	if input.Title != "" {
		level.Title = input.Title
		level.Slug = slug.Make(input.Title)
	}
	if input.Description != "" {
		level.Description = input.Description
	}
	if input.Order > 0 {
		level.Order = input.Order
	}
	if input.MinPointsToPass > 0 {
		level.MinPointsToPass = input.MinPointsToPass
	}
	if input.RequiredToAdvance != nil {
		level.RequiredToAdvance = *input.RequiredToAdvance
	}
	if err := s.DB.Save(&level).Error; err != nil {
		return nil, err
	}
	return &level, nil
}

// ActivityInput is the admin payload for creating an activity.
type ActivityInput struct {
	LevelID    string              `json:"levelId"`
	Type       models.ActivityType `json:"type"`
	Title      string              `json:"title"`
	Points     int                 `json:"points"`
	Order      int                 `json:"order"`
	IsRequired *bool               `json:"isRequired"`
	Content    datatypes.JSON      `json:"content"`
}

// CreateActivity validates the content payload against the type's schema and
// inserts the activity.
func (s *CatalogService) CreateActivity(input ActivityInput) (*models.Activity, error) {
	if input.Title == "" || input.LevelID == "" || input.Points < 0 {
		return nil, fmt.Errorf("levelId, title, and non-negative points are required")
	}
	if err := models.ValidateActivityContent(input.Type, input.Content); err != nil {
		return nil, err
	}
	var level models.Level
	if err := s.DB.First(&level, "id = ?", input.LevelID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLevelNotFound
		}
		return nil, err
	}
	activity := models.Activity{
		ID:      uuid.NewString(),
		LevelID: input.LevelID,
		Type:    input.Type,
		Title:   input.Title,
		Points:  input.Points,
		Order:   input.Order,
		Content: input.Content,
	}
	activity.IsRequired = input.IsRequired == nil || *input.IsRequired
	if err := s.DB.Create(&activity).Error; err != nil {
		return nil, err
	}
	return &activity, nil
}

// UpdateActivity applies a partial update. New content is validated against
// the activity's existing type.
func (s *CatalogService) UpdateActivity(id string, input ActivityInput) (*models.Activity, error) {
	var activity models.Activity
	if err := s.DB.First(&activity, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrActivityNotFound
		}
		return nil, err
	}
	if input.Title != "" {
		activity.Title = input.Title
	}
	if input.Points > 0 {
		activity.Points = input.Points
	}
	if input.Order > 0 {
		activity.Order = input.Order
	}
	if input.IsRequired != nil {
		activity.IsRequired = *input.IsRequired
	}
	if len(input.Content) > 0 {
		if err := models.ValidateActivityContent(activity.Type, input.Content); err != nil {
			return nil, err
		}
		activity.Content = input.Content
	}
	if err := s.DB.Save(&activity).Error; err != nil {
		return nil, err
	}
	return &activity, nil
}

// SetAchievementIcon stores the uploaded icon URL on the badge definition.
func (s *CatalogService) SetAchievementIcon(achievementID, iconURL string) error {
	res := s.DB.Model(&models.Achievement{}).
		Where("id = ?", achievementID).
		Update("icon_url", iconURL)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrAchievementNotFound
	}
	return nil
}

// SetLevelImage stores the uploaded artwork URL on the level.
func (s *CatalogService) SetLevelImage(levelID, imageURL string) error {
	res := s.DB.Model(&models.Level{}).
		Where("id = ?", levelID).
		Update("image_url", imageURL)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrLevelNotFound
	}
	return nil
}
