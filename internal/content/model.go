package content

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type Type string

const (
	TypeArticle  Type = "article"
	TypeVideo    Type = "video"
	TypeExercise Type = "exercise"
	TypeAudio    Type = "audio"
)

func (t Type) Valid() bool {
	switch t {
	case TypeArticle, TypeVideo, TypeExercise, TypeAudio:
		return true
	}
	return false
}

type Difficulty string

const (
	Beginner     Difficulty = "Beginner"
	Intermediate Difficulty = "Intermediate"
	Advanced     Difficulty = "Advanced"
)

func (d Difficulty) Valid() bool {
	switch d {
	case Beginner, Intermediate, Advanced:
		return true
	}
	return false
}

type Content struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string    `gorm:"type:text;not null" json:"title"`
	Description string    `gorm:"type:text;not null;default:''" json:"description"`
	Type        Type      `gorm:"type:text;index;not null" json:"type"`
	Category     pq.StringArray `gorm:"type:text[];not null;default:'{}'" json:"category"`
	Tags         pq.StringArray `gorm:"type:text[];not null;default:'{}'" json:"tags"`
	Difficulty   Difficulty `gorm:"type:text;not null;default:'Beginner'" json:"difficulty"`
	Duration     int        `gorm:"not null;default:0" json:"duration"`
	ThumbnailURL string     `gorm:"type:text;not null;default:''" json:"thumbnailUrl"`
	ContentURL   string     `gorm:"type:text;not null;default:''" json:"contentUrl"`
	ContentBody  string     `gorm:"type:text;not null;default:''" json:"contentBody"`
	IsPublished  bool       `gorm:"index;not null" json:"isPublished"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// UserContent is unique per (user, content).
type UserContent struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID       uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:uq_user_content" json:"userId"`
	ContentID    uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:uq_user_content" json:"contentId"`
	Content      *Content   `gorm:"foreignKey:ContentID" json:"content,omitempty"`
	Progress     int        `gorm:"not null;default:0" json:"progress"`
	IsBookmarked bool       `gorm:"not null;default:false" json:"isBookmarked"`
	LastAccessed time.Time  `gorm:"index;not null" json:"lastAccessed"`
	CompletedAt  *time.Time `json:"completedAt,omitempty"`
	Notes        string     `gorm:"type:text;not null;default:''" json:"notes"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}
