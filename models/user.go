package models

import (
	"time"

	"gorm.io/gorm"
)

// User is the internal record for an externally-authenticated principal.
// Created on first authenticated sight (middleware or Clerk webhook) and
// removed when the external identity is deleted.
type User struct {
	ID             string `gorm:"primaryKey;type:uuid" json:"id"`
	ExternalUserID string `gorm:"uniqueIndex;not null" json:"externalUserId"` // Clerk user id

	Email     string `gorm:"index" json:"email"`
	Username  string `json:"username"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	ImageURL  string `gorm:"type:text" json:"imageUrl,omitempty"`

	// Gamification state. TotalPoints accumulates best-ever per-activity
	// scores; it never decreases on repeat attempts.
	CurrentLevel int `gorm:"default:1" json:"currentLevel"`
	TotalPoints  int `gorm:"default:0" json:"totalPoints"`

	Timestamps
}

// Timestamps adds GORM auto-times
type Timestamps struct {
	CreatedAt time.Time      `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updatedAt" gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}
