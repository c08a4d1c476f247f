package models

import (
	"time"

	"gorm.io/datatypes"
)

// IndustryInsight caches AI-generated market data per industry. Regenerated
// when NextUpdateAt has passed; served from the cache otherwise.
type IndustryInsight struct {
	ID       string `gorm:"primaryKey;type:uuid" json:"id"`
	Industry string `gorm:"uniqueIndex;not null" json:"industry"`

	Payload datatypes.JSON `json:"payload"`

	GeneratedAt  time.Time `json:"generatedAt"`
	NextUpdateAt time.Time `json:"nextUpdateAt"`

	Timestamps
}

// CareerDocumentKind distinguishes the AI-generated document types.
type CareerDocumentKind string

const (
	CareerDocumentResume      CareerDocumentKind = "resume"
	CareerDocumentCoverLetter CareerDocumentKind = "cover_letter"
)

// CareerDocument is a persisted AI-generated resume or cover letter, stored
// with the input that produced it.
type CareerDocument struct {
	ID     string             `gorm:"primaryKey;type:uuid" json:"id"`
	UserID string             `gorm:"index;not null" json:"userId"`
	Kind   CareerDocumentKind `gorm:"type:varchar(16);index;not null" json:"kind"`

	Input   datatypes.JSON `json:"input,omitempty"`
	Content datatypes.JSON `json:"content"`

	Timestamps
}
