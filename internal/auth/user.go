package auth

import (
	"time"

	"github.com/google/uuid"
)

type Theme string

const (
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
	ThemeSystem Theme = "system"
)

func (t Theme) Valid() bool {
	return t == ThemeLight || t == ThemeDark || t == ThemeSystem
}

type FontSize string

const (
	FontSmall  FontSize = "small"
	FontMedium FontSize = "medium"
	FontLarge  FontSize = "large"
)

func (f FontSize) Valid() bool {
	return f == FontSmall || f == FontMedium || f == FontLarge
}

type Preferences struct {
	Theme         Theme    `gorm:"type:text;not null;default:'system'" json:"theme"`
	FontSize      FontSize `gorm:"type:text;not null;default:'medium'" json:"fontSize"`
	Notifications bool     `gorm:"not null" json:"notifications"`
	EmailDigest   bool     `gorm:"not null" json:"emailDigest"`
}

func DefaultPreferences() Preferences {
	return Preferences{Theme: ThemeSystem, FontSize: FontMedium, Notifications: true, EmailDigest: true}
}

type User struct {
	ID             uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	Email          string      `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash   string      `gorm:"not null" json:"-"`
	FirstName      string      `gorm:"type:text;not null" json:"firstName"`
	LastName       string      `gorm:"type:text;not null" json:"lastName"`
	ProfilePicture string      `gorm:"type:text;not null;default:''" json:"profilePicture,omitempty"`
	Preferences    Preferences `gorm:"embedded;embeddedPrefix:pref_" json:"preferences"`
	CreatedAt      time.Time   `gorm:"not null;default:now()" json:"createdAt"`
	UpdatedAt      time.Time   `gorm:"not null;default:now()" json:"updatedAt"`
}
