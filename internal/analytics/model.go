package analytics

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ContentProgress is the mean progress per content type, 0..100.
type ContentProgress struct {
	Article  int `json:"article"`
	Video    int `json:"video"`
	Exercise int `json:"exercise"`
	Audio    int `json:"audio"`
}

// UserStats is a cached snapshot, rebuilt from the activity log on every
// recompute.
type UserStats struct {
	ID                uuid.UUID                              `gorm:"type:uuid;primaryKey" json:"id"`
	UserID            uuid.UUID                              `gorm:"type:uuid;uniqueIndex;not null" json:"userId"`
	WeeklyProgress    int                                    `gorm:"not null;default:0" json:"weeklyProgress"`
	Streak            int                                    `gorm:"not null;default:0" json:"streak"`
	LastActiveStreak  int                                    `gorm:"not null;default:0" json:"lastActiveStreak"`
	StreakActiveToday bool                                   `gorm:"not null;default:false" json:"isStreakActiveToday"`
	GoalsCompleted    int                                    `gorm:"not null;default:0" json:"goalsCompleted"`
	TotalGoals        int                                    `gorm:"not null;default:0" json:"totalGoals"`
	WellnessScore     int                                    `gorm:"not null;default:75" json:"wellnessScore"`
	WeeklyBreakdown   datatypes.JSONType[map[string]DayStat] `gorm:"type:jsonb;not null" json:"weeklyBreakdown"`
	ContentProgress   datatypes.JSONType[ContentProgress]    `gorm:"type:jsonb;not null" json:"contentProgress"`
	LastCalculated    time.Time                              `gorm:"not null" json:"lastCalculated"`
	CreatedAt         time.Time                              `json:"createdAt"`
	UpdatedAt         time.Time                              `json:"updatedAt"`
}

func (UserStats) TableName() string { return "user_stats" }
