package wellness

import (
	"time"

	"github.com/google/uuid"
)

type MoodEntry struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;index;not null" json:"userId"`
	Mood      string    `gorm:"type:text;not null" json:"mood"`
	Timestamp time.Time `gorm:"index;not null" json:"timestamp"`
}

// BreathingSession duration is in seconds.
type BreathingSession struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID           uuid.UUID `gorm:"type:uuid;index;not null" json:"userId"`
	Duration         int       `gorm:"not null" json:"duration"`
	CompletedBreaths int       `gorm:"not null" json:"completedBreaths"`
	Timestamp        time.Time `gorm:"index;not null" json:"timestamp"`
}

type BreathingStats struct {
	TotalSessions int64   `json:"totalSessions"`
	TotalMinutes  float64 `json:"totalMinutes"`
	TotalBreaths  int64   `json:"totalBreaths"`
}
