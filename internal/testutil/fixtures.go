package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"augmend/internal/achievement"
	"augmend/internal/activity"
	"augmend/internal/auth"
	"augmend/internal/content"
	"augmend/internal/reflection"
)

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, email string) *auth.User {
	tb.Helper()
	u := &auth.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: "pw",
		FirstName:    "A",
		LastName:     "B",
		Preferences:  auth.DefaultPreferences(),
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedAchievement(tb testing.TB, ctx context.Context, tx *gorm.DB, cat achievement.Category, c achievement.Criteria) *achievement.Achievement {
	tb.Helper()
	a := &achievement.Achievement{
		ID:          uuid.New(),
		Title:       "achievement " + string(cat),
		Description: "desc",
		Icon:        "star",
		Criteria:    datatypes.NewJSONType(c),
		PointsValue: 10,
		Category:    cat,
	}
	if err := tx.WithContext(ctx).Create(a).Error; err != nil {
		tb.Fatalf("seed achievement: %v", err)
	}
	return a
}

func SeedActivity(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, action, subject string, at time.Time) *activity.Log {
	tb.Helper()
	l := activity.NewLog(userID, activity.TypeForAction(action), action, subject, nil, nil, at)
	if err := tx.WithContext(ctx).Create(l).Error; err != nil {
		tb.Fatalf("seed activity: %v", err)
	}
	return l
}

func SeedReflection(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, mood string, date time.Time) *reflection.Reflection {
	tb.Helper()
	r := &reflection.Reflection{
		ID:     uuid.New(),
		UserID: userID,
		Text:   "today was " + mood,
		Mood:   mood,
		Date:   date,
		Tags:   pq.StringArray{},
	}
	if err := tx.WithContext(ctx).Create(r).Error; err != nil {
		tb.Fatalf("seed reflection: %v", err)
	}
	return r
}

func SeedContent(tb testing.TB, ctx context.Context, tx *gorm.DB, typ content.Type, categories ...string) *content.Content {
	tb.Helper()
	c := &content.Content{
		ID:          uuid.New(),
		Title:       "content " + string(typ),
		Type:        typ,
		Category:    pq.StringArray(categories),
		Tags:        pq.StringArray{},
		Difficulty:  content.Beginner,
		Duration:    5,
		IsPublished: true,
	}
	if err := tx.WithContext(ctx).Create(c).Error; err != nil {
		tb.Fatalf("seed content: %v", err)
	}
	return c
}
