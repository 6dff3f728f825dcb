package reflection

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"augmend/internal/pkg/apperr"
	"augmend/internal/pkg/logger"
)

var ErrNotFound = fmt.Errorf("reflection %w", apperr.ErrNotFound)

const (
	defaultLimit = 100
	maxLimit     = 500
)

type Filter struct {
	Start  *time.Time
	End    *time.Time
	Mood   string
	Search string
	Limit  int
	Page   int
}

type Repo interface {
	Create(ctx context.Context, tx *gorm.DB, r *Reflection) error
	Get(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*Reflection, error)
	Save(ctx context.Context, tx *gorm.DB, r *Reflection) error
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
	List(ctx context.Context, tx *gorm.DB, userID uuid.UUID, f Filter) ([]Reflection, error)
	Count(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error)
	// Dates returns every reflection date of the user, oldest first.
	Dates(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]time.Time, error)
	// Moods returns moods oldest first, optionally from since on.
	Moods(ctx context.Context, tx *gorm.DB, userID uuid.UUID, since *time.Time) ([]string, error)
}

type repo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRepo(db *gorm.DB, baseLog *logger.Logger) Repo {
	return &repo{db: db, log: baseLog.With("repo", "ReflectionRepo")}
}

func (r *repo) conn(ctx context.Context, tx *gorm.DB) *gorm.DB {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx)
}

func (r *repo) Create(ctx context.Context, tx *gorm.DB, ref *Reflection) error {
	if ref.ID == uuid.Nil {
		ref.ID = uuid.New()
	}
	if err := r.conn(ctx, tx).Create(ref).Error; err != nil {
		return fmt.Errorf("create reflection: %w", err)
	}
	return nil
}

func (r *repo) Get(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*Reflection, error) {
	var ref Reflection
	if err := r.conn(ctx, tx).Where("id = ?", id).First(&ref).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get reflection: %w", err)
	}
	return &ref, nil
}

func (r *repo) Save(ctx context.Context, tx *gorm.DB, ref *Reflection) error {
	if err := r.conn(ctx, tx).Save(ref).Error; err != nil {
		return fmt.Errorf("save reflection: %w", err)
	}
	return nil
}

func (r *repo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	res := r.conn(ctx, tx).Where("id = ?", id).Delete(&Reflection{})
	if res.Error != nil {
		return fmt.Errorf("delete reflection: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repo) List(ctx context.Context, tx *gorm.DB, userID uuid.UUID, f Filter) ([]Reflection, error) {
	q := r.conn(ctx, tx).Where("user_id = ?", userID)
	if f.Start != nil {
		q = q.Where("date >= ?", *f.Start)
	}
	if f.End != nil {
		q = q.Where("date <= ?", *f.End)
	}
	if f.Mood != "" {
		q = q.Where("mood = ?", f.Mood)
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		q = q.Where("LOWER(text) LIKE ?", "%"+strings.ToLower(s)+"%")
	}

	limit := f.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	page := f.Page
	if page <= 0 {
		page = 1
	}

	var out []Reflection
	if err := q.Order("date desc").Offset((page - 1) * limit).Limit(limit).Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list reflections: %w", err)
	}
	return out, nil
}

func (r *repo) Count(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error) {
	var n int64
	if err := r.conn(ctx, tx).Model(&Reflection{}).Where("user_id = ?", userID).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count reflections: %w", err)
	}
	return n, nil
}

func (r *repo) Dates(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]time.Time, error) {
	var out []time.Time
	err := r.conn(ctx, tx).Model(&Reflection{}).
		Where("user_id = ?", userID).
		Order("date asc").
		Pluck("date", &out).Error
	if err != nil {
		return nil, fmt.Errorf("reflection dates: %w", err)
	}
	return out, nil
}

func (r *repo) Moods(ctx context.Context, tx *gorm.DB, userID uuid.UUID, since *time.Time) ([]string, error) {
	q := r.conn(ctx, tx).Model(&Reflection{}).Where("user_id = ?", userID)
	if since != nil {
		q = q.Where("date >= ?", *since)
	}
	var out []string
	if err := q.Order("date asc").Pluck("mood", &out).Error; err != nil {
		return nil, fmt.Errorf("reflection moods: %w", err)
	}
	return out, nil
}
