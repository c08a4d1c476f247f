package services

import (
	"context"
	"errors"
	"log"

	"cyberquest-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrUserNotFound = errors.New("user not found")

// UserService is the identity adapter: it maps an external authenticated
// principal (Clerk user id) to the internal User record.
type UserService struct {
	DB           *gorm.DB
	Achievements *AchievementService
	Leaderboard  *LeaderboardService
}

func NewUserService(db *gorm.DB, achievements *AchievementService, leaderboard *LeaderboardService) *UserService {
	return &UserService{DB: db, Achievements: achievements, Leaderboard: leaderboard}
}

// UserProfile carries the mutable profile fields synced from the identity
// provider (headers or webhook payload).
type UserProfile struct {
	Email     string
	Username  string
	FirstName string
	LastName  string
	ImageURL  string
}

// EnsureUser returns the internal user for an external principal, creating it
// on first sight. Creation is an atomic upsert keyed on external_user_id, so
// concurrent first calls (duplicate tabs, webhook racing the first request)
// cannot produce duplicate rows. First sight also seeds the level-1 progress
// row and awards the signup badge.
func (s *UserService) EnsureUser(externalID string, profile UserProfile) (*models.User, error) {
	var user models.User
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		candidate := models.User{
			ID:             uuid.NewString(),
			ExternalUserID: externalID,
			Email:          profile.Email,
			Username:       profile.Username,
			FirstName:      profile.FirstName,
			LastName:       profile.LastName,
			ImageURL:       profile.ImageURL,
			CurrentLevel:   1,
		}
		res := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "external_user_id"}},
			DoNothing: true,
		}).Create(&candidate)
		if res.Error != nil {
			return res.Error
		}
		if err := tx.Where("external_user_id = ?", externalID).First(&user).Error; err != nil {
			return err
		}
		if res.RowsAffected == 0 {
			return nil // already existed
		}

		// First sight: seed progress for the first level, if the catalog has one.
		var firstLevel models.Level
		if err := tx.Where(`"order" = ?`, 1).First(&firstLevel).Error; err == nil {
			seed := models.UserProgress{
				ID:      uuid.NewString(),
				UserID:  user.ID,
				LevelID: firstLevel.ID,
			}
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "user_id"}, {Name: "level_id"}},
				DoNothing: true,
			}).Create(&seed).Error; err != nil {
				return err
			}
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		_, err := s.Achievements.AwardByTypeTx(tx, user.ID, models.AchievementFirstSteps, nil)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByExternalID returns the internal user without creating it.
func (s *UserService) GetByExternalID(externalID string) (*models.User, error) {
	var user models.User
	if err := s.DB.Where("external_user_id = ?", externalID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// UpdateProfile syncs the mutable profile fields from the identity provider.
// Creates the user first if it has never been seen.
func (s *UserService) UpdateProfile(externalID string, profile UserProfile) (*models.User, error) {
	user, err := s.EnsureUser(externalID, profile)
	if err != nil {
		return nil, err
	}
	updates := map[string]any{
		"email":      profile.Email,
		"username":   profile.Username,
		"first_name": profile.FirstName,
		"last_name":  profile.LastName,
		"image_url":  profile.ImageURL,
	}
	if err := s.DB.Model(user).Updates(updates).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteByExternalID removes the user and every dependent record, then drops
// the user from the leaderboard so stale members do not skew ranks until the
// next rebuild. Called when the identity provider reports the external
// identity deleted.
func (s *UserService) DeleteByExternalID(externalID string) error {
	var user models.User
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("external_user_id = ?", externalID).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil // nothing to do; webhook retries stay idempotent
			}
			return err
		}
		for _, m := range []any{
			&models.ActivityProgress{},
			&models.UserProgress{},
			&models.UserAchievement{},
			&models.Certificate{},
			&models.CareerDocument{},
			&models.InterviewSession{},
		} {
			if err := tx.Unscoped().Where("user_id = ?", user.ID).Delete(m).Error; err != nil {
				return err
			}
		}
		return tx.Unscoped().Delete(&user).Error
	})
	if err != nil {
		return err
	}
	if user.ID != "" && s.Leaderboard != nil {
		if err := s.Leaderboard.RemoveUser(context.Background(), user.ID); err != nil {
			log.Printf("⚠️ leaderboard removal failed for deleted user %s: %v", user.ID, err)
		}
	}
	return nil
}

// ProgressOverview is the aggregate view behind GET /api/users/progress.
type ProgressOverview struct {
	User         models.User              `json:"user"`
	Levels       []models.UserProgress    `json:"levels"`
	Achievements []models.UserAchievement `json:"achievements"`
	Certificates []models.Certificate     `json:"certificates"`
}

// GetProgressOverview returns the user plus all level progress, achievements,
// and certificates in one shot.
func (s *UserService) GetProgressOverview(userID string) (*ProgressOverview, error) {
	var overview ProgressOverview
	if err := s.DB.First(&overview.User, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if err := s.DB.Preload("Level").
		Joins("JOIN levels ON levels.id = user_progresses.level_id").
		Where("user_progresses.user_id = ?", userID).
		Order(`levels."order" ASC`).
		Find(&overview.Levels).Error; err != nil {
		return nil, err
	}
	var err error
	if overview.Achievements, err = NewAchievementService(s.DB).ListForUser(userID); err != nil {
		return nil, err
	}
	if err := s.DB.Where("user_id = ?", userID).
		Order("issued_at DESC").
		Find(&overview.Certificates).Error; err != nil {
		return nil, err
	}
	return &overview, nil
}
