package models

// Level is an ordered curriculum unit. Static catalog data managed by admins.
type Level struct {
	ID          string `gorm:"primaryKey;type:uuid" json:"id"`
	Order       int    `gorm:"uniqueIndex;not null" json:"order"`
	Slug        string `gorm:"uniqueIndex;not null" json:"slug"`
	Title       string `gorm:"not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`

	// Minimum points a user must earn across the level's activities before
	// the level counts as completed.
	MinPointsToPass   int  `gorm:"not null" json:"minPointsToPass"`
	RequiredToAdvance bool `gorm:"default:true" json:"requiredToAdvance"`

	ImageURL string `gorm:"type:text" json:"imageUrl,omitempty"`

	Activities []Activity `gorm:"foreignKey:LevelID" json:"activities,omitempty"`

	Timestamps
}
