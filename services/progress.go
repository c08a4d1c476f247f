package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"time"

	"cyberquest-backend/models"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrActivityNotFound = errors.New("activity not found")

// ProgressService owns the per-user completion ledger. Every mutation runs in
// a single transaction and level/user aggregates are recomputed from the
// activity rows inside that transaction, so the ledger cannot drift from its
// source of truth under normal operation.
type ProgressService struct {
	DB           *gorm.DB
	Achievements *AchievementService
	Leaderboard  *LeaderboardService
}

func NewProgressService(db *gorm.DB, achievements *AchievementService, leaderboard *LeaderboardService) *ProgressService {
	return &ProgressService{DB: db, Achievements: achievements, Leaderboard: leaderboard}
}

// CompletionRequest is the body of POST /api/activities/:id/progress.
// PointsEarned, when present, wins over Score.
type CompletionRequest struct {
	IsCompleted  bool
	Score        *float64 // 0..100
	PointsEarned *int
	Answers      datatypes.JSON
}

// CompletionResult reports the stored state after a submission.
type CompletionResult struct {
	PointsEarned   int    `json:"pointsEarned"`
	Attempts       int    `json:"attempts"`
	IsCompleted    bool   `json:"isCompleted"`
	LevelID        string `json:"levelId"`
	LevelCompleted bool   `json:"levelCompleted"`
	TotalPoints    int    `json:"totalPoints"`
}

// forUpdate row-locks on dialects that support it. SQLite (used in tests)
// serializes writers on its own and rejects FOR UPDATE.
func forUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "postgres" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}

// resolvePoints: explicit points win, else score is a percentage of the
// activity's max, else zero. Clamped to [0, activity.Points].
func resolvePoints(activity *models.Activity, req CompletionRequest) int {
	points := 0
	switch {
	case req.PointsEarned != nil:
		points = *req.PointsEarned
	case req.Score != nil:
		points = int(math.Round(*req.Score / 100 * float64(activity.Points)))
	}
	if points < 0 {
		points = 0
	}
	if points > activity.Points {
		points = activity.Points
	}
	return points
}

// RecordActivityCompletion applies one submission atomically:
//   - the activity row keeps the best-ever score (improvement-only overwrite),
//     attempts increment on every call
//   - User.TotalPoints grows by exactly the improvement delta, never more
//   - level aggregates are recomputed from the completed activity rows
//   - level completion advances CurrentLevel by one when it matches, and
//     triggers the badge awards
func (s *ProgressService) RecordActivityCompletion(ctx context.Context, userID, activityID string, req CompletionRequest) (*CompletionResult, error) {
	var result CompletionResult
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var activity models.Activity
		if err := tx.First(&activity, "id = ?", activityID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrActivityNotFound
			}
			return err
		}
		var level models.Level
		if err := tx.First(&level, "id = ?", activity.LevelID).Error; err != nil {
			return err
		}
		var user models.User
		if err := forUpdate(tx).First(&user, "id = ?", userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}

		points := resolvePoints(&activity, req)
		now := time.Now()

		// Level progress row, created with zero values if missing.
		levelProgress, err := s.ensureLevelProgressTx(tx, userID, activity.LevelID)
		if err != nil {
			return err
		}
		wasLevelCompleted := levelProgress.IsCompleted

		// Activity progress row: improvement-only overwrite, attempts always +1.
		var progress models.ActivityProgress
		previousPoints := 0
		improved := false
		err = forUpdate(tx).Where("user_id = ? AND activity_id = ?", userID, activityID).First(&progress).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			progress = models.ActivityProgress{
				ID:           uuid.NewString(),
				UserID:       userID,
				ActivityID:   activityID,
				PointsEarned: points,
				Attempts:     1,
				IsCompleted:  req.IsCompleted,
				Answers:      req.Answers,
			}
			if req.IsCompleted {
				progress.CompletedAt = &now
			}
			if err := tx.Create(&progress).Error; err != nil {
				return err
			}
			improved = true
		case err != nil:
			return err
		default:
			previousPoints = progress.PointsEarned
			progress.Attempts++
			if !progress.IsCompleted || points > progress.PointsEarned {
				progress.IsCompleted = req.IsCompleted
				progress.PointsEarned = points
				if req.IsCompleted {
					progress.CompletedAt = &now
				}
				improved = true
			}
			if len(req.Answers) > 0 {
				progress.Answers = req.Answers
			}
			if err := tx.Save(&progress).Error; err != nil {
				return err
			}
		}

		if req.IsCompleted {
			// Total points accumulate best-ever scores only.
			if improved {
				if delta := points - previousPoints; delta > 0 {
					user.TotalPoints += delta
					if err := tx.Save(&user).Error; err != nil {
						return err
					}
				}
			}

			if err := s.recomputeLevelTx(tx, levelProgress, &level, now); err != nil {
				return err
			}

			if levelProgress.IsCompleted && !wasLevelCompleted {
				result.LevelCompleted = true
				// Advancing the level never grants points by itself.
				if user.CurrentLevel == level.Order {
					user.CurrentLevel = level.Order + 1
					if err := tx.Save(&user).Error; err != nil {
						return err
					}
					log.Printf("🎉 Level up: user %s → level %d", userID, user.CurrentLevel)
				}
				if _, err := s.Achievements.AwardByTypeTx(tx, userID, models.AchievementLevelCompletion, &level.ID); err != nil {
					return err
				}
			}
			if activity.Type == models.ActivityTypeQuiz && points == activity.Points {
				if _, err := s.Achievements.AwardByTypeTx(tx, userID, models.AchievementPerfectQuiz, nil); err != nil {
					return err
				}
			}
		}

		result.PointsEarned = progress.PointsEarned
		result.Attempts = progress.Attempts
		result.IsCompleted = progress.IsCompleted
		result.LevelID = activity.LevelID
		result.TotalPoints = user.TotalPoints
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.Leaderboard != nil {
		if err := s.Leaderboard.UpdateScore(ctx, userID, result.TotalPoints); err != nil {
			log.Printf("⚠️ leaderboard update failed for user %s: %v", userID, err)
		}
	}
	return &result, nil
}

// ensureLevelProgressTx fetches the (user, level) row, creating it with zero
// values under the unique index if missing.
func (s *ProgressService) ensureLevelProgressTx(tx *gorm.DB, userID, levelID string) (*models.UserProgress, error) {
	var progress models.UserProgress
	err := forUpdate(tx).Where("user_id = ? AND level_id = ?", userID, levelID).First(&progress).Error
	if err == nil {
		return &progress, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	progress = models.UserProgress{
		ID:      uuid.NewString(),
		UserID:  userID,
		LevelID: levelID,
	}
	if err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "level_id"}},
		DoNothing: true,
	}).Create(&progress).Error; err != nil {
		return nil, err
	}
	// Re-read in case a concurrent request won the insert.
	if err := forUpdate(tx).Where("user_id = ? AND level_id = ?", userID, levelID).First(&progress).Error; err != nil {
		return nil, err
	}
	return &progress, nil
}

// recomputeLevelTx derives the level aggregates from the completed activity
// rows and applies the completion invariant.
func (s *ProgressService) recomputeLevelTx(tx *gorm.DB, progress *models.UserProgress, level *models.Level, now time.Time) error {
	var agg struct {
		Sum   int
		Count int
	}
	if err := tx.Model(&models.ActivityProgress{}).
		Select("COALESCE(SUM(activity_progresses.points_earned), 0) AS sum, COUNT(*) AS count").
		Joins("JOIN activities ON activities.id = activity_progresses.activity_id AND activities.deleted_at IS NULL").
		Where("activity_progresses.user_id = ? AND activities.level_id = ? AND activity_progresses.is_completed = ?",
			progress.UserID, level.ID, true).
		Scan(&agg).Error; err != nil {
		return err
	}
	progress.PointsEarned = agg.Sum
	progress.ActivitiesCompleted = agg.Count
	progress.IsCompleted = agg.Sum >= level.MinPointsToPass
	if progress.IsCompleted && progress.CompletedAt == nil {
		progress.CompletedAt = &now
	}
	if !progress.IsCompleted {
		progress.CompletedAt = nil
	}
	return tx.Save(progress).Error
}

// RepairProgress is the on-demand reconciliation sweep behind
// GET /api/check-progress (and the nightly maintenance job). With the ledger
// fully derived it should find nothing; it remains as a safety net for rows
// written before this scheme or touched out of band.
//
// Completed activity rows holding zero points are repaired first: readings get
// the activity's full value, everything else 70% of it. Then every (user,
// level) aggregate and every user total is recomputed from scratch.
func (s *ProgressService) RepairProgress(ctx context.Context) ([]string, error) {
	var fixes []string
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 1. Zero-point completed activity rows.
		var zeroRows []models.ActivityProgress
		if err := tx.Preload("Activity").
			Where("is_completed = ? AND points_earned = 0", true).
			Find(&zeroRows).Error; err != nil {
			return err
		}
		for i := range zeroRows {
			row := &zeroRows[i]
			restored := row.Activity.Points
			if row.Activity.Type != models.ActivityTypeReading {
				restored = int(math.Round(0.7 * float64(row.Activity.Points)))
			}
			if err := tx.Model(&models.ActivityProgress{}).
				Where("id = ?", row.ID).
				Update("points_earned", restored).Error; err != nil {
				return err
			}
			fixes = append(fixes, fmt.Sprintf(
				"restored %d points on completed activity %s for user %s",
				restored, row.ActivityID, row.UserID))
		}

		// 2. Recompute every (user, level) pair that has either a progress row
		// or completed activity rows.
		type pair struct {
			UserID  string
			LevelID string
		}
		var pairs []pair
		if err := tx.Model(&models.ActivityProgress{}).
			Select("DISTINCT activity_progresses.user_id AS user_id, activities.level_id AS level_id").
			Joins("JOIN activities ON activities.id = activity_progresses.activity_id AND activities.deleted_at IS NULL").
			Scan(&pairs).Error; err != nil {
			return err
		}
		var existing []models.UserProgress
		if err := tx.Find(&existing).Error; err != nil {
			return err
		}
		seen := make(map[pair]bool, len(pairs))
		for _, p := range pairs {
			seen[p] = true
		}
		for _, up := range existing {
			p := pair{UserID: up.UserID, LevelID: up.LevelID}
			if !seen[p] {
				seen[p] = true
				pairs = append(pairs, p)
			}
		}

		levels := make(map[string]*models.Level)
		now := time.Now()
		for _, p := range pairs {
			level, ok := levels[p.LevelID]
			if !ok {
				var l models.Level
				if err := tx.First(&l, "id = ?", p.LevelID).Error; err != nil {
					return err
				}
				level = &l
				levels[p.LevelID] = level
			}
			progress, err := s.ensureLevelProgressTx(tx, p.UserID, p.LevelID)
			if err != nil {
				return err
			}
			before := *progress
			if err := s.recomputeLevelTx(tx, progress, level, now); err != nil {
				return err
			}
			if before.PointsEarned != progress.PointsEarned ||
				before.ActivitiesCompleted != progress.ActivitiesCompleted ||
				before.IsCompleted != progress.IsCompleted {
				fixes = append(fixes, fmt.Sprintf(
					"recomputed level %s for user %s: points %d→%d, completed %d→%d",
					p.LevelID, p.UserID,
					before.PointsEarned, progress.PointsEarned,
					before.ActivitiesCompleted, progress.ActivitiesCompleted))
			}
		}

		// 3. Overwrite each user's total with the cross-level sum.
		var users []models.User
		if err := tx.Find(&users).Error; err != nil {
			return err
		}
		for i := range users {
			u := &users[i]
			var total struct{ Sum int }
			if err := tx.Model(&models.UserProgress{}).
				Select("COALESCE(SUM(points_earned), 0) AS sum").
				Where("user_id = ?", u.ID).
				Scan(&total).Error; err != nil {
				return err
			}
			if total.Sum != u.TotalPoints {
				fixes = append(fixes, fmt.Sprintf(
					"corrected total points for user %s: %d→%d", u.ID, u.TotalPoints, total.Sum))
				if err := tx.Model(&models.User{}).
					Where("id = ?", u.ID).
					Update("total_points", total.Sum).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(fixes) > 0 {
		log.Printf("🔧 Progress repair applied %d fixes", len(fixes))
		if s.Leaderboard != nil {
			if err := s.Leaderboard.Rebuild(ctx); err != nil {
				log.Printf("⚠️ leaderboard rebuild after repair failed: %v", err)
			}
		}
	}
	return fixes, nil
}
