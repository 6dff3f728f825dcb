package content

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"augmend/internal/pkg/apperr"
	"augmend/internal/pkg/logger"
)

var ErrNotFound = fmt.Errorf("content %w", apperr.ErrNotFound)

type Filter struct {
	Type       Type
	Category   string
	Difficulty Difficulty
	Search     string
}

type Repo interface {
	List(ctx context.Context, tx *gorm.DB, f Filter) ([]Content, error)
	Get(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*Content, error)
	Create(ctx context.Context, tx *gorm.DB, c *Content) error
	Save(ctx context.Context, tx *gorm.DB, c *Content) error
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
	Categories(ctx context.Context, tx *gorm.DB) ([]string, error)
	Types(ctx context.Context, tx *gorm.DB) ([]string, error)
	Latest(ctx context.Context, tx *gorm.DB, limit int) ([]Content, error)
	Recommend(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]Content, error)

	UserContent(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]UserContent, error)
	Bookmarks(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]UserContent, error)
	Recent(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]UserContent, error)
	InProgress(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]UserContent, error)
	UpsertProgress(ctx context.Context, tx *gorm.DB, userID, contentID uuid.UUID, progress int, at time.Time) (*UserContent, error)
	ToggleBookmark(ctx context.Context, tx *gorm.DB, userID, contentID uuid.UUID, at time.Time) (*UserContent, error)
	AverageProgressByType(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (map[string]float64, error)
}

type repo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRepo(db *gorm.DB, baseLog *logger.Logger) Repo {
	return &repo{db: db, log: baseLog.With("repo", "ContentRepo")}
}

func (r *repo) conn(ctx context.Context, tx *gorm.DB) *gorm.DB {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx)
}

func (r *repo) List(ctx context.Context, tx *gorm.DB, f Filter) ([]Content, error) {
	q := r.conn(ctx, tx).Where("is_published = ?", true)
	if f.Type != "" {
		q = q.Where("type = ?", f.Type)
	}
	if f.Category != "" {
		q = q.Where("? = ANY(category)", f.Category)
	}
	if f.Difficulty != "" {
		q = q.Where("difficulty = ?", f.Difficulty)
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where("(LOWER(title) LIKE ? OR LOWER(description) LIKE ? OR ? = ANY(tags))", like, like, strings.ToLower(s))
	}

	var out []Content
	if err := q.Order("created_at desc").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list content: %w", err)
	}
	return out, nil
}

func (r *repo) Get(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*Content, error) {
	var c Content
	if err := r.conn(ctx, tx).Where("id = ?", id).First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get content: %w", err)
	}
	return &c, nil
}

func (r *repo) Create(ctx context.Context, tx *gorm.DB, c *Content) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if err := r.conn(ctx, tx).Create(c).Error; err != nil {
		return fmt.Errorf("create content: %w", err)
	}
	return nil
}

func (r *repo) Save(ctx context.Context, tx *gorm.DB, c *Content) error {
	if err := r.conn(ctx, tx).Save(c).Error; err != nil {
		return fmt.Errorf("save content: %w", err)
	}
	return nil
}

func (r *repo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	return r.conn(ctx, tx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("content_id = ?", id).Delete(&UserContent{}).Error; err != nil {
			return fmt.Errorf("delete user content: %w", err)
		}
		res := tx.Where("id = ?", id).Delete(&Content{})
		if res.Error != nil {
			return fmt.Errorf("delete content: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (r *repo) Categories(ctx context.Context, tx *gorm.DB) ([]string, error) {
	var out []string
	err := r.conn(ctx, tx).
		Raw(`select distinct unnest(category) as c from contents where is_published order by c`).
		Scan(&out).Error
	if err != nil {
		return nil, fmt.Errorf("content categories: %w", err)
	}
	return out, nil
}

func (r *repo) Types(ctx context.Context, tx *gorm.DB) ([]string, error) {
	var out []string
	err := r.conn(ctx, tx).Model(&Content{}).
		Where("is_published = ?", true).
		Distinct("type").
		Order("type").
		Pluck("type", &out).Error
	if err != nil {
		return nil, fmt.Errorf("content types: %w", err)
	}
	return out, nil
}

func (r *repo) Latest(ctx context.Context, tx *gorm.DB, limit int) ([]Content, error) {
	var out []Content
	err := r.conn(ctx, tx).
		Where("is_published = ?", true).
		Order("created_at desc").
		Limit(limit).
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("latest content: %w", err)
	}
	return out, nil
}

// Recommend returns published content the user has not touched that shares
// a category or type with content they have.
func (r *repo) Recommend(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]Content, error) {
	db := r.conn(ctx, tx)

	var history []Content
	err := db.Model(&Content{}).
		Joins("join user_contents uc on uc.content_id = contents.id").
		Where("uc.user_id = ?", userID).
		Find(&history).Error
	if err != nil {
		return nil, fmt.Errorf("content history: %w", err)
	}
	if len(history) == 0 {
		return []Content{}, nil
	}

	seen := make([]uuid.UUID, 0, len(history))
	cats := map[string]struct{}{}
	types := map[Type]struct{}{}
	for _, c := range history {
		seen = append(seen, c.ID)
		for _, cat := range c.Category {
			cats[cat] = struct{}{}
		}
		types[c.Type] = struct{}{}
	}
	catList := make([]string, 0, len(cats))
	for c := range cats {
		catList = append(catList, c)
	}
	typeList := make([]string, 0, len(types))
	for t := range types {
		typeList = append(typeList, string(t))
	}

	var out []Content
	err = db.
		Where("is_published = ?", true).
		Where("id NOT IN ?", seen).
		Where("(category && ? OR type IN ?)", pq.StringArray(catList), typeList).
		Order("created_at desc").
		Limit(limit).
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("recommend content: %w", err)
	}
	return out, nil
}

func (r *repo) userContent(ctx context.Context, tx *gorm.DB, userID uuid.UUID) *gorm.DB {
	return r.conn(ctx, tx).
		Preload("Content").
		Where("user_id = ?", userID).
		Order("last_accessed desc")
}

func (r *repo) UserContent(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]UserContent, error) {
	var out []UserContent
	if err := r.userContent(ctx, tx, userID).Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list user content: %w", err)
	}
	return out, nil
}

func (r *repo) Bookmarks(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]UserContent, error) {
	var out []UserContent
	if err := r.userContent(ctx, tx, userID).Where("is_bookmarked = ?", true).Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list bookmarks: %w", err)
	}
	return out, nil
}

func (r *repo) Recent(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]UserContent, error) {
	var out []UserContent
	if err := r.userContent(ctx, tx, userID).Limit(limit).Find(&out).Error; err != nil {
		return nil, fmt.Errorf("recent content: %w", err)
	}
	return out, nil
}

func (r *repo) InProgress(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]UserContent, error) {
	var out []UserContent
	err := r.userContent(ctx, tx, userID).
		Where("progress > 0 AND progress < 100").
		Limit(limit).
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("in-progress content: %w", err)
	}
	return out, nil
}

func (r *repo) get(ctx context.Context, tx *gorm.DB, userID, contentID uuid.UUID) (*UserContent, error) {
	var uc UserContent
	err := r.conn(ctx, tx).
		Preload("Content").
		Where("user_id = ? AND content_id = ?", userID, contentID).
		First(&uc).Error
	if err != nil {
		return nil, fmt.Errorf("get user content: %w", err)
	}
	return &uc, nil
}

func (r *repo) UpsertProgress(ctx context.Context, tx *gorm.DB, userID, contentID uuid.UUID, progress int, at time.Time) (*UserContent, error) {
	uc := UserContent{
		ID:           uuid.New(),
		UserID:       userID,
		ContentID:    contentID,
		Progress:     progress,
		LastAccessed: at,
	}
	if progress == 100 {
		uc.CompletedAt = &at
	}
	updates := map[string]any{
		"progress":      progress,
		"last_accessed": at,
		"updated_at":    at,
	}
	if progress == 100 {
		updates["completed_at"] = at
	}
	err := r.conn(ctx, tx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "content_id"}},
		DoUpdates: clause.Assignments(updates),
	}).Create(&uc).Error
	if err != nil {
		return nil, fmt.Errorf("upsert content progress: %w", err)
	}
	return r.get(ctx, tx, userID, contentID)
}

func (r *repo) ToggleBookmark(ctx context.Context, tx *gorm.DB, userID, contentID uuid.UUID, at time.Time) (*UserContent, error) {
	uc := UserContent{
		ID:           uuid.New(),
		UserID:       userID,
		ContentID:    contentID,
		IsBookmarked: true,
		LastAccessed: at,
	}
	err := r.conn(ctx, tx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "content_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"is_bookmarked": gorm.Expr("NOT user_contents.is_bookmarked"),
			"last_accessed": at,
			"updated_at":    at,
		}),
	}).Create(&uc).Error
	if err != nil {
		return nil, fmt.Errorf("toggle bookmark: %w", err)
	}
	return r.get(ctx, tx, userID, contentID)
}

func (r *repo) AverageProgressByType(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (map[string]float64, error) {
	var rows []struct {
		Type string
		Avg  float64
	}
	err := r.conn(ctx, tx).
		Raw(`
select c.type as type, avg(uc.progress)::float8 as avg
from user_contents uc
join contents c on c.id = uc.content_id
where uc.user_id = ?
group by c.type`, userID).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("average content progress: %w", err)
	}
	out := make(map[string]float64, len(rows))
	for _, row := range rows {
		out[row.Type] = row.Avg
	}
	return out, nil
}
