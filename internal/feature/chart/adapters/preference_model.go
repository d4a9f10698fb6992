package adapters

import "time"

// PreferenceModel is the GORM model for the preferences table.
type PreferenceModel struct {
	ID        uint      `gorm:"primaryKey"`
	Key       string    `gorm:"uniqueIndex;size:64;not null"`
	Value     string    `gorm:"size:255;not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM.
func (PreferenceModel) TableName() string {
	return "preferences"
}
