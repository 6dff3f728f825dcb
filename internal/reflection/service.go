package reflection

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/facebookgo/clock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"augmend/internal/achievement"
	"augmend/internal/activity"
	"augmend/internal/analytics"
	"augmend/internal/jobs"
	"augmend/internal/pkg/apperr"
	"augmend/internal/pkg/logger"
	"augmend/internal/streak"
)

const ActionCreate = "CREATE_REFLECTION"

var ErrForbidden = fmt.Errorf("reflection belongs to another user: %w", apperr.ErrForbidden)

type ActivityWriter interface {
	Create(ctx context.Context, tx *gorm.DB, l *activity.Log) error
}

type JobEnqueuer interface {
	Enqueue(ctx context.Context, tx *gorm.DB, userID uuid.UUID, typ string, payload any, runAt time.Time) error
}

type Service struct {
	db         *gorm.DB
	repo       Repo
	activities ActivityWriter
	jobs       JobEnqueuer
	clock      clock.Clock
	log        *logger.Logger
}

func NewService(db *gorm.DB, repo Repo, activities ActivityWriter, jobs JobEnqueuer, clk clock.Clock, baseLog *logger.Logger) *Service {
	return &Service{
		db:         db,
		repo:       repo,
		activities: activities,
		jobs:       jobs,
		clock:      clk,
		log:        baseLog.With("service", "ReflectionService"),
	}
}

type Input struct {
	Text string     `json:"text"`
	Mood string     `json:"mood"`
	Date *time.Time `json:"date"`
	Tags []string   `json:"tags"`
}

type Patch struct {
	Text *string    `json:"text"`
	Mood *string    `json:"mood"`
	Date *time.Time `json:"date"`
	Tags *[]string  `json:"tags"`
}

// Create stores the reflection, its activity log entry and the
// achievement evaluation job in one transaction.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, in Input) (*Reflection, error) {
	text := strings.TrimSpace(in.Text)
	mood := strings.TrimSpace(in.Mood)
	if text == "" || mood == "" {
		return nil, fmt.Errorf("%w: text and mood are required", apperr.ErrInvalidInput)
	}

	now := s.clock.Now().UTC()
	date := now
	if in.Date != nil && !in.Date.IsZero() {
		date = in.Date.UTC()
	}

	ref := &Reflection{
		ID:     uuid.New(),
		UserID: userID,
		Text:   text,
		Mood:   mood,
		Date:   date,
		Tags:   pq.StringArray(Tags(in.Tags, text)),
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.Create(ctx, tx, ref); err != nil {
			return err
		}

		entry := activity.NewLog(userID, activity.TypeReflection, ActionCreate, mood,
			map[string]any{"reflectionId": ref.ID}, nil, now)
		if err := s.activities.Create(ctx, tx, entry); err != nil {
			return err
		}

		// evaluated by the worker once committed
		return s.jobs.Enqueue(ctx, tx, userID, jobs.TypeAchievementEvaluate, jobs.AchievementPayload{
			UserID: userID,
			Action: ActionCreate,
		}, now)
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("reflection created", "user_id", userID, "reflection_id", ref.ID, "tags", len(ref.Tags))
	return ref, nil
}

func (s *Service) owned(ctx context.Context, userID, id uuid.UUID) (*Reflection, error) {
	ref, err := s.repo.Get(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	if ref.UserID != userID {
		return nil, ErrForbidden
	}
	return ref, nil
}

func (s *Service) Get(ctx context.Context, userID, id uuid.UUID) (*Reflection, error) {
	return s.owned(ctx, userID, id)
}

func (s *Service) Update(ctx context.Context, userID, id uuid.UUID, p Patch) (*Reflection, error) {
	ref, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if p.Text != nil {
		t := strings.TrimSpace(*p.Text)
		if t == "" {
			return nil, fmt.Errorf("%w: text must not be empty", apperr.ErrInvalidInput)
		}
		ref.Text = t
	}
	if p.Mood != nil {
		m := strings.TrimSpace(*p.Mood)
		if m == "" {
			return nil, fmt.Errorf("%w: mood must not be empty", apperr.ErrInvalidInput)
		}
		ref.Mood = m
	}
	if p.Date != nil && !p.Date.IsZero() {
		ref.Date = p.Date.UTC()
	}
	switch {
	case p.Tags != nil:
		ref.Tags = pq.StringArray(Tags(*p.Tags, ref.Text))
	case p.Text != nil:
		ref.Tags = pq.StringArray(Tags(ref.Tags, ref.Text))
	}

	if err := s.repo.Save(ctx, nil, ref); err != nil {
		return nil, err
	}
	return ref, nil
}

func (s *Service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if _, err := s.owned(ctx, userID, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, nil, id)
}

func (s *Service) List(ctx context.Context, userID uuid.UUID, f Filter) ([]Reflection, error) {
	return s.repo.List(ctx, nil, userID, f)
}

func (s *Service) Streaks(ctx context.Context, userID uuid.UUID) (streak.Result, error) {
	dates, err := s.repo.Dates(ctx, nil, userID)
	if err != nil {
		return streak.Result{}, err
	}
	return streak.Calculate(dates, s.clock.Now().UTC()), nil
}

// MoodStats accepts "", "week", "month" or "year".
func (s *Service) MoodStats(ctx context.Context, userID uuid.UUID, period string) ([]analytics.MoodCount, error) {
	now := s.clock.Now().UTC()
	var since *time.Time
	switch strings.ToLower(period) {
	case "":
	case "week":
		t := now.AddDate(0, 0, -7)
		since = &t
	case "month":
		t := now.AddDate(0, -1, 0)
		since = &t
	case "year":
		t := now.AddDate(-1, 0, 0)
		since = &t
	default:
		return nil, fmt.Errorf("%w: unknown period %q", apperr.ErrInvalidInput, period)
	}

	moods, err := s.repo.Moods(ctx, nil, userID, since)
	if err != nil {
		return nil, err
	}
	return analytics.MoodStats(moods), nil
}

// AchievementMetadata reports the reflection total and the current
// reflection streak.
func (s *Service) AchievementMetadata(ctx context.Context, userID uuid.UUID, _ string) (achievement.Metadata, error) {
	n, err := s.repo.Count(ctx, nil, userID)
	if err != nil {
		return achievement.Metadata{}, err
	}
	st, err := s.Streaks(ctx, userID)
	if err != nil {
		return achievement.Metadata{}, err
	}
	return achievement.Metadata{TotalCount: int(n), StreakDays: st.Current}, nil
}
