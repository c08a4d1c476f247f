package models

import "time"

// AchievementType classifies the trigger that awards a badge.
type AchievementType string

const (
	AchievementFirstSteps      AchievementType = "FIRST_STEPS"      // awarded on signup
	AchievementLevelCompletion AchievementType = "LEVEL_COMPLETION" // tied to a specific level
	AchievementPerfectQuiz     AchievementType = "PERFECT_QUIZ"     // any quiz at full points
)

// Achievement: static badge catalog. LevelID is set only for LEVEL_COMPLETION
// badges. PointsValue is decorative; it is never added to User.TotalPoints.
type Achievement struct {
	ID          string          `gorm:"primaryKey;type:uuid" json:"id"`
	Code        string          `gorm:"uniqueIndex;not null" json:"code"` // e.g., "FIRST_STEPS", "LEVEL_3_COMPLETION"
	Type        AchievementType `gorm:"type:varchar(32);index;not null" json:"type"`
	LevelID     *string         `gorm:"type:uuid;index" json:"levelId,omitempty"`
	Title       string          `gorm:"not null" json:"title"`
	Description string          `gorm:"type:text" json:"description"`
	IconURL     string          `gorm:"type:text" json:"iconUrl,omitempty"`
	PointsValue int             `gorm:"default:0" json:"pointsValue"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"createdAt"`
}

// UserAchievement: awarded instance, unique per (user, achievement).
type UserAchievement struct {
	ID            string    `gorm:"primaryKey;type:uuid" json:"id"`
	UserID        string    `gorm:"uniqueIndex:idx_user_achievement;not null" json:"userId"`
	AchievementID string    `gorm:"uniqueIndex:idx_user_achievement;not null" json:"achievementId"`
	AwardedAt     time.Time `gorm:"autoCreateTime" json:"awardedAt"`

	Achievement Achievement `gorm:"foreignKey:AchievementID" json:"achievement,omitempty"`
}

// DefaultAchievements are the global badges seeded at startup. Per-level
// LEVEL_COMPLETION badges are created alongside their level.
var DefaultAchievements = []Achievement{
	{
		Code:        "FIRST_STEPS",
		Type:        AchievementFirstSteps,
		Title:       "First Steps",
		Description: "Joined the platform and started your cybersecurity journey",
		PointsValue: 10,
	},
	{
		Code:        "PERFECT_QUIZ",
		Type:        AchievementPerfectQuiz,
		Title:       "Perfect Score",
		Description: "Answered every question of a quiz correctly",
		PointsValue: 25,
	},
}
