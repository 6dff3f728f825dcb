package content

import (
	"context"
	"fmt"
	"strings"

	"github.com/facebookgo/clock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"augmend/internal/activity"
	"augmend/internal/pkg/apperr"
	"augmend/internal/pkg/logger"
)

const (
	ActionView     = "VIEW_CONTENT"
	ActionComplete = "COMPLETE_CONTENT"

	recentLimit    = 5
	recommendLimit = 10
)

type ActivityWriter interface {
	Create(ctx context.Context, tx *gorm.DB, l *activity.Log) error
}

type Service struct {
	repo       Repo
	activities ActivityWriter
	clock      clock.Clock
	log        *logger.Logger
}

func NewService(repo Repo, activities ActivityWriter, clk clock.Clock, baseLog *logger.Logger) *Service {
	return &Service{
		repo:       repo,
		activities: activities,
		clock:      clk,
		log:        baseLog.With("service", "ContentService"),
	}
}

type Input struct {
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	Type         Type       `json:"type"`
	Category     []string   `json:"category"`
	Tags         []string   `json:"tags"`
	Difficulty   Difficulty `json:"difficulty"`
	Duration     int        `json:"duration"`
	ThumbnailURL string     `json:"thumbnailUrl"`
	ContentURL   string     `json:"contentUrl"`
	ContentBody  string     `json:"contentBody"`
	IsPublished  *bool      `json:"isPublished"`
}

func (in *Input) normalize() error {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return fmt.Errorf("%w: title required", apperr.ErrInvalidInput)
	}
	if !in.Type.Valid() {
		return fmt.Errorf("%w: unknown content type %q", apperr.ErrInvalidInput, in.Type)
	}
	if in.Difficulty == "" {
		in.Difficulty = Beginner
	}
	if !in.Difficulty.Valid() {
		return fmt.Errorf("%w: unknown difficulty %q", apperr.ErrInvalidInput, in.Difficulty)
	}
	if in.Duration < 0 {
		return fmt.Errorf("%w: duration must not be negative", apperr.ErrInvalidInput)
	}
	return nil
}

func (in Input) apply(c *Content) {
	c.Title = in.Title
	c.Description = in.Description
	c.Type = in.Type
	c.Category = pq.StringArray(nonNil(in.Category))
	c.Tags = pq.StringArray(nonNil(in.Tags))
	c.Difficulty = in.Difficulty
	c.Duration = in.Duration
	c.ThumbnailURL = in.ThumbnailURL
	c.ContentURL = in.ContentURL
	c.ContentBody = in.ContentBody
	if in.IsPublished != nil {
		c.IsPublished = *in.IsPublished
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func (s *Service) List(ctx context.Context, f Filter) ([]Content, error) {
	if f.Type != "" && !f.Type.Valid() {
		return nil, fmt.Errorf("%w: unknown content type %q", apperr.ErrInvalidInput, f.Type)
	}
	return s.repo.List(ctx, nil, f)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Content, error) {
	return s.repo.Get(ctx, nil, id)
}

func (s *Service) Create(ctx context.Context, in Input) (*Content, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}
	c := &Content{ID: uuid.New(), IsPublished: true}
	in.apply(c)
	if err := s.repo.Create(ctx, nil, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, in Input) (*Content, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}
	c, err := s.repo.Get(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	in.apply(c)
	if err := s.repo.Save(ctx, nil, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, nil, id)
}

func (s *Service) Categories(ctx context.Context) ([]string, error) {
	return s.repo.Categories(ctx, nil)
}

func (s *Service) Types(ctx context.Context) ([]string, error) {
	return s.repo.Types(ctx, nil)
}

func (s *Service) UserContent(ctx context.Context, userID uuid.UUID) ([]UserContent, error) {
	return s.repo.UserContent(ctx, nil, userID)
}

// UpdateProgress records progress (0..100) and logs a content activity.
// Reaching 100 stamps CompletedAt.
func (s *Service) UpdateProgress(ctx context.Context, userID, contentID uuid.UUID, progress int) (*UserContent, error) {
	if progress < 0 || progress > 100 {
		return nil, fmt.Errorf("%w: progress must be between 0 and 100", apperr.ErrInvalidInput)
	}
	if _, err := s.repo.Get(ctx, nil, contentID); err != nil {
		return nil, err
	}

	now := s.clock.Now().UTC()
	uc, err := s.repo.UpsertProgress(ctx, nil, userID, contentID, progress, now)
	if err != nil {
		return nil, err
	}

	action := ActionView
	if progress == 100 {
		action = ActionComplete
	}
	entry := activity.NewLog(userID, activity.TypeContent, action, contentID.String(),
		map[string]any{"contentId": contentID, "progress": progress}, nil, now)
	if err := s.activities.Create(ctx, nil, entry); err != nil {
		// progress is already stored; the log entry only feeds stats
		s.log.Warn("log content activity", "user_id", userID, "content_id", contentID, "error", err)
	}
	return uc, nil
}

func (s *Service) ToggleBookmark(ctx context.Context, userID, contentID uuid.UUID) (*UserContent, error) {
	if _, err := s.repo.Get(ctx, nil, contentID); err != nil {
		return nil, err
	}
	return s.repo.ToggleBookmark(ctx, nil, userID, contentID, s.clock.Now().UTC())
}

func (s *Service) Bookmarks(ctx context.Context, userID uuid.UUID) ([]UserContent, error) {
	return s.repo.Bookmarks(ctx, nil, userID)
}

func (s *Service) Recent(ctx context.Context, userID uuid.UUID) ([]UserContent, error) {
	return s.repo.Recent(ctx, nil, userID, recentLimit)
}

func (s *Service) Recommendations(ctx context.Context, userID uuid.UUID) ([]Content, error) {
	return s.repo.Recommend(ctx, nil, userID, recommendLimit)
}

// Focus returns up to n in-progress items, falling back to the newest
// published content when the user has nothing under way.
func (s *Service) Focus(ctx context.Context, userID uuid.UUID, n int) ([]Content, error) {
	ucs, err := s.repo.InProgress(ctx, nil, userID, n)
	if err != nil {
		return nil, err
	}
	out := make([]Content, 0, n)
	for _, uc := range ucs {
		if uc.Content != nil {
			out = append(out, *uc.Content)
		}
	}
	if len(out) > 0 {
		return out, nil
	}
	return s.repo.Latest(ctx, nil, n)
}
