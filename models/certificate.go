package models

import (
	"time"

	"gorm.io/datatypes"
)

// Certificate is a verifiable credential issued once a user's total points
// cross the issuance threshold. Unique per (user, title); repeat generation
// requests return the existing row.
type Certificate struct {
	ID     string `gorm:"primaryKey;type:uuid" json:"id"`
	UserID string `gorm:"uniqueIndex:idx_user_cert_title;not null" json:"userId"`
	Title  string `gorm:"uniqueIndex:idx_user_cert_title;not null" json:"title"`

	Description      string         `gorm:"type:text" json:"description"`
	VerificationCode string         `gorm:"uniqueIndex;not null" json:"verificationCode"`
	Skills           datatypes.JSON `json:"skills,omitempty"`

	IssuedAt  time.Time `gorm:"autoCreateTime" json:"issuedAt"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"-"`
}
