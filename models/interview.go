package models

import (
	"time"

	"gorm.io/datatypes"
)

// InterviewStatus tracks the lifecycle of a mock-interview session.
type InterviewStatus string

const (
	InterviewStatusActive    InterviewStatus = "active"
	InterviewStatusCompleted InterviewStatus = "completed"
)

// InterviewSession is a DB-backed mock-interview session: generated questions,
// the user's answers, and AI feedback. Surviving process restarts is the point;
// nothing about a session lives in process memory.
type InterviewSession struct {
	ID     string `gorm:"primaryKey;type:uuid" json:"id"`
	UserID string `gorm:"index;not null" json:"userId"`

	Role       string          `gorm:"not null" json:"role"`
	Difficulty string          `gorm:"type:varchar(16)" json:"difficulty"`
	Status     InterviewStatus `gorm:"type:varchar(16);default:'active'" json:"status"`

	Questions datatypes.JSON `json:"questions"`
	Answers   datatypes.JSON `json:"answers,omitempty"`
	Feedback  datatypes.JSON `json:"feedback,omitempty"`

	Score       float64    `json:"score"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`

	Timestamps
}

// InterviewQuestion is the schema of each element in Questions.
type InterviewQuestion struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correctAnswer"`
	Explanation   string   `json:"explanation,omitempty"`
}
