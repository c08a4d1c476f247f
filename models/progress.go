package models

import (
	"time"

	"gorm.io/datatypes"
)

// UserProgress is the per-(user, level) ledger row. PointsEarned and
// ActivitiesCompleted are always derived from the completed ActivityProgress
// rows of the level, never incremented in place.
// Invariant: IsCompleted ⇔ PointsEarned >= Level.MinPointsToPass.
type UserProgress struct {
	ID      string `gorm:"primaryKey;type:uuid" json:"id"`
	UserID  string `gorm:"uniqueIndex:idx_user_level;not null" json:"userId"`
	LevelID string `gorm:"uniqueIndex:idx_user_level;not null" json:"levelId"`

	PointsEarned        int  `gorm:"default:0" json:"pointsEarned"`
	ActivitiesCompleted int  `gorm:"default:0" json:"activitiesCompleted"`
	IsCompleted         bool `gorm:"default:false" json:"isCompleted"`

	CompletedAt *time.Time `json:"completedAt,omitempty"`

	Level Level `gorm:"foreignKey:LevelID" json:"level,omitempty"`

	Timestamps
}

// ActivityProgress is the per-(user, activity) ledger row. PointsEarned holds
// the best score the user has achieved; Attempts counts every submission.
type ActivityProgress struct {
	ID         string `gorm:"primaryKey;type:uuid" json:"id"`
	UserID     string `gorm:"uniqueIndex:idx_user_activity;not null" json:"userId"`
	ActivityID string `gorm:"uniqueIndex:idx_user_activity;not null" json:"activityId"`

	PointsEarned int  `gorm:"default:0" json:"pointsEarned"` // <= Activity.Points
	Attempts     int  `gorm:"default:0" json:"attempts"`
	IsCompleted  bool `gorm:"default:false" json:"isCompleted"`

	Answers     datatypes.JSON `json:"answers,omitempty"`
	CompletedAt *time.Time     `json:"completedAt,omitempty"`

	Activity Activity `gorm:"foreignKey:ActivityID" json:"activity,omitempty"`

	Timestamps
}
