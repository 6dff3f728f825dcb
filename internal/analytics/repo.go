package analytics

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"augmend/internal/pkg/logger"
)

type Repo interface {
	Get(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*UserStats, error)
	Upsert(ctx context.Context, tx *gorm.DB, s *UserStats) error
}

type repo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRepo(db *gorm.DB, baseLog *logger.Logger) Repo {
	return &repo{db: db, log: baseLog.With("repo", "UserStatsRepo")}
}

func (r *repo) conn(ctx context.Context, tx *gorm.DB) *gorm.DB {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx)
}

// Get returns nil, nil when no snapshot has been computed yet.
func (r *repo) Get(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*UserStats, error) {
	var s UserStats
	if err := r.conn(ctx, tx).Where("user_id = ?", userID).First(&s).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user stats: %w", err)
	}
	return &s, nil
}

func (r *repo) Upsert(ctx context.Context, tx *gorm.DB, s *UserStats) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	err := r.conn(ctx, tx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"weekly_progress", "streak", "last_active_streak", "streak_active_today",
			"goals_completed", "total_goals", "wellness_score",
			"weekly_breakdown", "content_progress", "last_calculated", "updated_at",
		}),
	}).Create(s).Error
	if err != nil {
		return fmt.Errorf("upsert user stats: %w", err)
	}
	return nil
}
