package activity

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"augmend/internal/pkg/logger"
)

const defaultListLimit = 10

type Filter struct {
	Start *time.Time
	End   *time.Time
	Type  Type
	Limit int
}

type Repo interface {
	Create(ctx context.Context, tx *gorm.DB, l *Log) error
	List(ctx context.Context, tx *gorm.DB, userID uuid.UUID, f Filter) ([]Log, error)
	Since(ctx context.Context, tx *gorm.DB, userID uuid.UUID, start time.Time) ([]Log, error)
	CountActions(ctx context.Context, tx *gorm.DB, userID uuid.UUID, action string, since *time.Time, distinct bool) (int64, error)
}

type repo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRepo(db *gorm.DB, baseLog *logger.Logger) Repo {
	return &repo{db: db, log: baseLog.With("repo", "ActivityRepo")}
}

// NewLog builds an entry; details may be nil.
func NewLog(userID uuid.UUID, typ Type, action, subject string, details map[string]any, duration *int, at time.Time) *Log {
	return &Log{
		ID:           uuid.New(),
		UserID:       userID,
		ActivityType: typ,
		Action:       action,
		Subject:      subject,
		Timestamp:    at,
		Details:      datatypes.JSONMap(details),
		Duration:     duration,
	}
}

func (r *repo) conn(ctx context.Context, tx *gorm.DB) *gorm.DB {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx)
}

func (r *repo) Create(ctx context.Context, tx *gorm.DB, l *Log) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	if l.Timestamp.IsZero() {
		l.Timestamp = time.Now().UTC()
	}
	if !l.ActivityType.Valid() {
		l.ActivityType = TypeForAction(l.Action)
	}
	if err := r.conn(ctx, tx).Create(l).Error; err != nil {
		return fmt.Errorf("create activity log: %w", err)
	}
	return nil
}

func (r *repo) List(ctx context.Context, tx *gorm.DB, userID uuid.UUID, f Filter) ([]Log, error) {
	q := r.conn(ctx, tx).Where("user_id = ?", userID)
	if f.Start != nil {
		q = q.Where("timestamp >= ?", *f.Start)
	}
	if f.End != nil {
		q = q.Where("timestamp <= ?", *f.End)
	}
	if f.Type != "" {
		q = q.Where("activity_type = ?", f.Type)
	}
	limit := f.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}

	var out []Log
	if err := q.Order("timestamp desc").Limit(limit).Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list activity logs: %w", err)
	}
	return out, nil
}

func (r *repo) Since(ctx context.Context, tx *gorm.DB, userID uuid.UUID, start time.Time) ([]Log, error) {
	var out []Log
	err := r.conn(ctx, tx).
		Where("user_id = ? AND timestamp >= ?", userID, start).
		Order("timestamp asc").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("activity logs since %s: %w", start.Format(time.RFC3339), err)
	}
	return out, nil
}

// CountActions counts logged actions, or distinct subjects when distinct is
// set. A nil since counts all time.
func (r *repo) CountActions(ctx context.Context, tx *gorm.DB, userID uuid.UUID, action string, since *time.Time, distinct bool) (int64, error) {
	q := r.conn(ctx, tx).Model(&Log{}).Where("user_id = ? AND action = ?", userID, action)
	if since != nil {
		q = q.Where("timestamp >= ?", *since)
	}
	if distinct {
		q = q.Distinct("subject")
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count %s actions: %w", action, err)
	}
	return n, nil
}
