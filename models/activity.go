package models

import (
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"
)

// ActivityType enumerates the kinds of gradable work inside a level.
type ActivityType string

const (
	ActivityTypeQuiz          ActivityType = "quiz"
	ActivityTypeCodeChallenge ActivityType = "code_challenge"
	ActivityTypeLab           ActivityType = "lab"
	ActivityTypeSimulation    ActivityType = "simulation"
	ActivityTypeReading       ActivityType = "reading"
)

// Activity is a single gradable unit of work within a level. Content is a
// per-type payload validated at write time (see ValidateActivityContent).
type Activity struct {
	ID      string       `gorm:"primaryKey;type:uuid" json:"id"`
	LevelID string       `gorm:"index;not null" json:"levelId"`
	Type    ActivityType `gorm:"type:varchar(32);not null" json:"type"`
	Title   string       `gorm:"not null" json:"title"`

	Points     int  `gorm:"not null" json:"points"` // max achievable
	Order      int  `gorm:"not null" json:"order"`  // position within the level
	IsRequired bool `gorm:"default:true" json:"isRequired"`

	Content datatypes.JSON `json:"content,omitempty"`

	Timestamps
}

// Per-type content schemas. The blob stored in Activity.Content must conform
// to the variant matching Activity.Type.

type QuizContent struct {
	Questions []QuizQuestion `json:"questions"`
}

type QuizQuestion struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"` // index into Options
	Explanation   string   `json:"explanation,omitempty"`
}

type CodeChallengeContent struct {
	Prompt      string   `json:"prompt"`
	StarterCode string   `json:"starterCode,omitempty"`
	Hints       []string `json:"hints,omitempty"`
}

type LabContent struct {
	Instructions string   `json:"instructions"`
	Tasks        []string `json:"tasks"`
}

type SimulationContent struct {
	Scenario string   `json:"scenario"`
	Steps    []string `json:"steps"`
}

type ReadingContent struct {
	Body string `json:"body"`
}

// ValidateActivityContent checks that the content blob conforms to the schema
// for the given activity type. Invalid payloads are rejected at write time so
// renderers can trust what they read.
func ValidateActivityContent(t ActivityType, raw []byte) error {
	if len(raw) == 0 {
		return fmt.Errorf("content is required for activity type %q", t)
	}
	switch t {
	case ActivityTypeQuiz:
		var c QuizContent
		if err := json.Unmarshal(raw, &c); err != nil {
			return fmt.Errorf("invalid quiz content: %w", err)
		}
		if len(c.Questions) == 0 {
			return fmt.Errorf("quiz content must contain at least one question")
		}
		for i, q := range c.Questions {
			if q.Question == "" || len(q.Options) < 2 {
				return fmt.Errorf("quiz question %d must have text and at least two options", i+1)
			}
			if q.CorrectAnswer < 0 || q.CorrectAnswer >= len(q.Options) {
				return fmt.Errorf("quiz question %d has an out-of-range correctAnswer", i+1)
			}
		}
	case ActivityTypeCodeChallenge:
		var c CodeChallengeContent
		if err := json.Unmarshal(raw, &c); err != nil {
			return fmt.Errorf("invalid code challenge content: %w", err)
		}
		if c.Prompt == "" {
			return fmt.Errorf("code challenge content must contain a prompt")
		}
	case ActivityTypeLab:
		var c LabContent
		if err := json.Unmarshal(raw, &c); err != nil {
			return fmt.Errorf("invalid lab content: %w", err)
		}
		if c.Instructions == "" || len(c.Tasks) == 0 {
			return fmt.Errorf("lab content must contain instructions and tasks")
		}
	case ActivityTypeSimulation:
		var c SimulationContent
		if err := json.Unmarshal(raw, &c); err != nil {
			return fmt.Errorf("invalid simulation content: %w", err)
		}
		if c.Scenario == "" || len(c.Steps) == 0 {
			return fmt.Errorf("simulation content must contain a scenario and steps")
		}
	case ActivityTypeReading:
		var c ReadingContent
		if err := json.Unmarshal(raw, &c); err != nil {
			return fmt.Errorf("invalid reading content: %w", err)
		}
		if c.Body == "" {
			return fmt.Errorf("reading content must contain a body")
		}
	default:
		return fmt.Errorf("unknown activity type %q", t)
	}
	return nil
}
