package achievement

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"augmend/internal/pkg/apperr"
	"augmend/internal/pkg/logger"
)

var ErrNotFound = fmt.Errorf("achievement %w", apperr.ErrNotFound)

type CatalogRepo interface {
	List(ctx context.Context, tx *gorm.DB) ([]Achievement, error)
	ListByCategory(ctx context.Context, tx *gorm.DB, cat Category) ([]Achievement, error)
	Get(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*Achievement, error)
	Count(ctx context.Context, tx *gorm.DB) (int64, error)
	Create(ctx context.Context, tx *gorm.DB, a *Achievement) error
	Save(ctx context.Context, tx *gorm.DB, a *Achievement) error
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type LedgerRepo interface {
	// Get returns nil, nil when the user has no record for the achievement.
	Get(ctx context.Context, tx *gorm.DB, userID, achievementID uuid.UUID) (*UserAchievement, error)
	ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]UserAchievement, error)
	Completed(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]UserAchievement, error)
	Pending(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]UserAchievement, error)
	CountCompleted(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error)
	// Unlock creates the record if needed, keeps the first unlock date and
	// bumps the completion counter.
	Unlock(ctx context.Context, tx *gorm.DB, userID, achievementID uuid.UUID, at time.Time) (*UserAchievement, error)
	// UpsertProgress creates the record if needed and replaces its progress.
	UpsertProgress(ctx context.Context, tx *gorm.DB, userID, achievementID uuid.UUID, p Progress) error
	// SetProgress replaces progress on an existing record only.
	SetProgress(ctx context.Context, tx *gorm.DB, userID, achievementID uuid.UUID, p Progress, at time.Time) (*UserAchievement, error)
}

type catalogRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCatalogRepo(db *gorm.DB, baseLog *logger.Logger) CatalogRepo {
	return &catalogRepo{db: db, log: baseLog.With("repo", "AchievementRepo")}
}

func (r *catalogRepo) conn(ctx context.Context, tx *gorm.DB) *gorm.DB {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx)
}

func (r *catalogRepo) List(ctx context.Context, tx *gorm.DB) ([]Achievement, error) {
	var out []Achievement
	if err := r.conn(ctx, tx).Order("category asc, points_value asc").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list achievements: %w", err)
	}
	return out, nil
}

func (r *catalogRepo) ListByCategory(ctx context.Context, tx *gorm.DB, cat Category) ([]Achievement, error) {
	var out []Achievement
	if err := r.conn(ctx, tx).Where("category = ?", cat).Order("points_value asc").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list %s achievements: %w", cat, err)
	}
	return out, nil
}

func (r *catalogRepo) Get(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*Achievement, error) {
	var a Achievement
	if err := r.conn(ctx, tx).Where("id = ?", id).First(&a).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get achievement: %w", err)
	}
	return &a, nil
}

func (r *catalogRepo) Count(ctx context.Context, tx *gorm.DB) (int64, error) {
	var n int64
	if err := r.conn(ctx, tx).Model(&Achievement{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count achievements: %w", err)
	}
	return n, nil
}

func (r *catalogRepo) Create(ctx context.Context, tx *gorm.DB, a *Achievement) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if err := r.conn(ctx, tx).Create(a).Error; err != nil {
		return fmt.Errorf("create achievement: %w", err)
	}
	return nil
}

func (r *catalogRepo) Save(ctx context.Context, tx *gorm.DB, a *Achievement) error {
	if err := r.conn(ctx, tx).Save(a).Error; err != nil {
		return fmt.Errorf("save achievement: %w", err)
	}
	return nil
}

func (r *catalogRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	res := r.conn(ctx, tx).Where("id = ?", id).Delete(&Achievement{})
	if res.Error != nil {
		return fmt.Errorf("delete achievement: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

type ledgerRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLedgerRepo(db *gorm.DB, baseLog *logger.Logger) LedgerRepo {
	return &ledgerRepo{db: db, log: baseLog.With("repo", "UserAchievementRepo")}
}

func (r *ledgerRepo) conn(ctx context.Context, tx *gorm.DB) *gorm.DB {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx)
}

func (r *ledgerRepo) Get(ctx context.Context, tx *gorm.DB, userID, achievementID uuid.UUID) (*UserAchievement, error) {
	var ua UserAchievement
	err := r.conn(ctx, tx).
		Preload("Achievement").
		Where("user_id = ? AND achievement_id = ?", userID, achievementID).
		First(&ua).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user achievement: %w", err)
	}
	return &ua, nil
}

func (r *ledgerRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]UserAchievement, error) {
	var out []UserAchievement
	err := r.conn(ctx, tx).
		Preload("Achievement").
		Where("user_id = ?", userID).
		Order("date_unlocked desc nulls last").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("list user achievements: %w", err)
	}
	return out, nil
}

func (r *ledgerRepo) Completed(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]UserAchievement, error) {
	var out []UserAchievement
	err := r.conn(ctx, tx).
		Preload("Achievement").
		Where("user_id = ? AND date_unlocked IS NOT NULL", userID).
		Order("date_unlocked desc").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("list completed achievements: %w", err)
	}
	return out, nil
}

func (r *ledgerRepo) Pending(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]UserAchievement, error) {
	var out []UserAchievement
	err := r.conn(ctx, tx).
		Preload("Achievement").
		Where("user_id = ? AND date_unlocked IS NULL", userID).
		Order("(progress->>'percent')::float desc nulls last").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("list pending achievements: %w", err)
	}
	return out, nil
}

func (r *ledgerRepo) CountCompleted(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error) {
	var n int64
	err := r.conn(ctx, tx).Model(&UserAchievement{}).
		Where("user_id = ? AND date_unlocked IS NOT NULL", userID).
		Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("count completed achievements: %w", err)
	}
	return n, nil
}

func (r *ledgerRepo) Unlock(ctx context.Context, tx *gorm.DB, userID, achievementID uuid.UUID, at time.Time) (*UserAchievement, error) {
	ua := UserAchievement{
		ID:              uuid.New(),
		UserID:          userID,
		AchievementID:   achievementID,
		DateUnlocked:    &at,
		CompletionCount: 1,
		LastCompleted:   &at,
		Progress:        datatypes.NewJSONType(Progress{}),
	}
	err := r.conn(ctx, tx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "achievement_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"date_unlocked":    gorm.Expr("COALESCE(user_achievements.date_unlocked, ?)", at),
			"completion_count": gorm.Expr("user_achievements.completion_count + 1"),
			"last_completed":   at,
			"updated_at":       at,
		}),
	}).Create(&ua).Error
	if err != nil {
		return nil, fmt.Errorf("unlock achievement: %w", err)
	}
	return r.Get(ctx, tx, userID, achievementID)
}

func (r *ledgerRepo) UpsertProgress(ctx context.Context, tx *gorm.DB, userID, achievementID uuid.UUID, p Progress) error {
	ua := UserAchievement{
		ID:            uuid.New(),
		UserID:        userID,
		AchievementID: achievementID,
		Progress:      datatypes.NewJSONType(p),
	}
	err := r.conn(ctx, tx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "achievement_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"progress", "updated_at"}),
	}).Create(&ua).Error
	if err != nil {
		return fmt.Errorf("upsert achievement progress: %w", err)
	}
	return nil
}

func (r *ledgerRepo) SetProgress(ctx context.Context, tx *gorm.DB, userID, achievementID uuid.UUID, p Progress, at time.Time) (*UserAchievement, error) {
	res := r.conn(ctx, tx).Model(&UserAchievement{}).
		Where("user_id = ? AND achievement_id = ?", userID, achievementID).
		Updates(map[string]any{
			"progress":   datatypes.NewJSONType(p),
			"updated_at": at,
		})
	if res.Error != nil {
		return nil, fmt.Errorf("set achievement progress: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return r.Get(ctx, tx, userID, achievementID)
}
