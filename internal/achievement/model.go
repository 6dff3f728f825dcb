package achievement

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Category string

const (
	CategoryStreak    Category = "STREAK"
	CategoryCount     Category = "COUNT"
	CategoryMilestone Category = "MILESTONE"
	CategorySpecial   Category = "SPECIAL"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryStreak, CategoryCount, CategoryMilestone, CategorySpecial:
		return true
	}
	return false
}

type Timeframe string

const (
	TimeframeAll   Timeframe = ""
	TimeframeDay   Timeframe = "DAY"
	TimeframeWeek  Timeframe = "WEEK"
	TimeframeMonth Timeframe = "MONTH"
)

const SpecialFirstAction = "FIRST_ACTION"

// Criteria is the stored form of an achievement condition. Which fields
// matter depends on the category; Rule decodes it into a typed rule.
type Criteria struct {
	Action             string    `json:"action,omitempty"`
	RequiredCount      int       `json:"requiredCount,omitempty"`
	RequiredTotal      int       `json:"requiredTotal,omitempty"`
	RequiredStreakDays int       `json:"requiredStreakDays,omitempty"`
	Timeframe          Timeframe `json:"timeframe,omitempty"`
	SpecialType        string    `json:"specialType,omitempty"`
	Distinct           bool      `json:"distinct,omitempty"`
}

type Achievement struct {
	ID             uuid.UUID                    `gorm:"type:uuid;primaryKey" json:"id"`
	Title          string                       `gorm:"type:text;not null" json:"title"`
	Description    string                       `gorm:"type:text;not null;default:''" json:"description"`
	Icon           string                       `gorm:"type:text;not null;default:''" json:"icon"`
	Criteria       datatypes.JSONType[Criteria] `gorm:"type:jsonb;not null" json:"criteria"`
	PointsValue    int                          `gorm:"not null;default:0" json:"pointsValue"`
	Category       Category                     `gorm:"type:text;index;not null" json:"category"`
	IsRepeatable   bool                         `gorm:"not null;default:false" json:"isRepeatable"`
	CooldownPeriod int                          `gorm:"not null;default:0" json:"cooldownPeriod"`
	CreatedAt      time.Time                    `json:"createdAt"`
	UpdatedAt      time.Time                    `json:"updatedAt"`
}

// Progress is the per-user progress towards an achievement.
type Progress struct {
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

// UserAchievement is unique per (user, achievement). DateUnlocked is set on
// the first unlock and never moved.
type UserAchievement struct {
	ID              uuid.UUID                    `gorm:"type:uuid;primaryKey" json:"id"`
	UserID          uuid.UUID                    `gorm:"type:uuid;not null;uniqueIndex:uq_user_achievement" json:"userId"`
	AchievementID   uuid.UUID                    `gorm:"type:uuid;not null;uniqueIndex:uq_user_achievement" json:"achievementId"`
	Achievement     *Achievement                 `gorm:"foreignKey:AchievementID" json:"achievement,omitempty"`
	DateUnlocked    *time.Time                   `json:"dateUnlocked,omitempty"`
	CompletionCount int                          `gorm:"not null;default:0" json:"completionCount"`
	LastCompleted   *time.Time                   `json:"lastCompleted,omitempty"`
	Progress        datatypes.JSONType[Progress] `gorm:"type:jsonb;not null" json:"progress"`
	CreatedAt       time.Time                    `json:"createdAt"`
	UpdatedAt       time.Time                    `json:"updatedAt"`
}

func (u *UserAchievement) Unlocked() bool { return u != nil && u.DateUnlocked != nil }
