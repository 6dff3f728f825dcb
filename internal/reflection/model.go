package reflection

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Reflection is a journal entry. Several per day are allowed.
type Reflection struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;index;not null" json:"user"`
	Text   string    `gorm:"type:text;not null" json:"text"`
	Mood   string    `gorm:"type:text;index;not null" json:"mood"`
	Date   time.Time `gorm:"index;not null" json:"date"`
	Tags      pq.StringArray `gorm:"type:text[];not null;default:'{}'" json:"tags"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
