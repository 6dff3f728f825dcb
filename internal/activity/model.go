package activity

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Type string

const (
	TypeReflection Type = "reflection"
	TypeContent    Type = "content"
	TypeExercise   Type = "exercise"
	TypeLogin      Type = "login"
	TypeAssessment Type = "assessment"
)

func (t Type) Valid() bool {
	switch t {
	case TypeReflection, TypeContent, TypeExercise, TypeLogin, TypeAssessment:
		return true
	}
	return false
}

// Log is append-only. Action carries the achievement action name
// (e.g. CREATE_REFLECTION); Subject is an optional discriminator used by
// distinct counts, such as the recorded mood.
type Log struct {
	ID           uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	UserID       uuid.UUID         `gorm:"type:uuid;index;not null" json:"userId"`
	ActivityType Type              `gorm:"type:text;not null" json:"activityType"`
	Action       string            `gorm:"type:text;not null;default:''" json:"action"`
	Subject      string            `gorm:"type:text;not null;default:''" json:"subject,omitempty"`
	Timestamp    time.Time         `gorm:"index;not null" json:"timestamp"`
	Details      datatypes.JSONMap `gorm:"type:jsonb" json:"details,omitempty"`
	Duration     *int              `json:"duration,omitempty"`
}

func (Log) TableName() string { return "activity_logs" }

// TypeForAction maps an achievement action onto the activity type it is
// logged under.
func TypeForAction(action string) Type {
	a := strings.ToUpper(action)
	switch {
	case strings.Contains(a, "REFLECTION"):
		return TypeReflection
	case strings.Contains(a, "CONTENT"):
		return TypeContent
	case strings.Contains(a, "EXERCISE"), strings.Contains(a, "MEDITATION"), strings.Contains(a, "BREATHING"):
		return TypeExercise
	case strings.Contains(a, "MOOD"), strings.Contains(a, "ASSESSMENT"):
		return TypeAssessment
	default:
		return TypeLogin
	}
}
