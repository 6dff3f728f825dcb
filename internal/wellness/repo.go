package wellness

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"augmend/internal/pkg/logger"
)

type Repo interface {
	CreateMood(ctx context.Context, tx *gorm.DB, m *MoodEntry) error
	CreateBreathing(ctx context.Context, tx *gorm.DB, b *BreathingSession) error
	RecentMoods(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]MoodEntry, error)
	BreathingStats(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (BreathingStats, error)
}

type repo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRepo(db *gorm.DB, baseLog *logger.Logger) Repo {
	return &repo{db: db, log: baseLog.With("repo", "WellnessRepo")}
}

func (r *repo) conn(ctx context.Context, tx *gorm.DB) *gorm.DB {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx)
}

func (r *repo) CreateMood(ctx context.Context, tx *gorm.DB, m *MoodEntry) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if err := r.conn(ctx, tx).Create(m).Error; err != nil {
		return fmt.Errorf("create mood entry: %w", err)
	}
	return nil
}

func (r *repo) CreateBreathing(ctx context.Context, tx *gorm.DB, b *BreathingSession) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	if err := r.conn(ctx, tx).Create(b).Error; err != nil {
		return fmt.Errorf("create breathing session: %w", err)
	}
	return nil
}

func (r *repo) RecentMoods(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]MoodEntry, error) {
	var out []MoodEntry
	err := r.conn(ctx, tx).
		Where("user_id = ?", userID).
		Order("timestamp desc").
		Limit(limit).
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("recent moods: %w", err)
	}
	return out, nil
}

func (r *repo) BreathingStats(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (BreathingStats, error) {
	var row struct {
		Sessions int64
		Seconds  int64
		Breaths  int64
	}
	err := r.conn(ctx, tx).Model(&BreathingSession{}).
		Select("count(*) as sessions, coalesce(sum(duration), 0) as seconds, coalesce(sum(completed_breaths), 0) as breaths").
		Where("user_id = ?", userID).
		Scan(&row).Error
	if err != nil {
		return BreathingStats{}, fmt.Errorf("breathing stats: %w", err)
	}
	return BreathingStats{
		TotalSessions: row.Sessions,
		TotalMinutes:  float64(row.Seconds) / 60,
		TotalBreaths:  row.Breaths,
	}, nil
}
