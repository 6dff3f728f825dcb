package assistant

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Sender string

const (
	SenderUser      Sender = "user"
	SenderAssistant Sender = "assistant"
)

type Conversation struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;index;not null" json:"userId"`
	IsActive  bool      `gorm:"not null" json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Message struct {
	ID             uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	ConversationID uuid.UUID      `gorm:"type:uuid;index;not null" json:"conversationId"`
	Content        string         `gorm:"type:text;not null" json:"content"`
	Sender         Sender         `gorm:"type:text;not null" json:"sender"`
	Timestamp      time.Time      `gorm:"not null" json:"timestamp"`
	Metadata       datatypes.JSON `gorm:"type:jsonb" json:"metadata,omitempty"`
}

type SuggestedQuestion struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Category     string    `gorm:"type:text;not null" json:"category"`
	Text         string    `gorm:"type:text;not null" json:"text"`
	DisplayOrder int       `gorm:"not null;default:0" json:"displayOrder"`
	IsActive     bool      `gorm:"not null" json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type Reply struct {
	Response  string    `json:"response"`
	Timestamp time.Time `json:"timestamp"`
}
