package wellness

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/facebookgo/clock"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"augmend/internal/activity"
	"augmend/internal/jobs"
	"augmend/internal/pkg/apperr"
	"augmend/internal/pkg/logger"
)

const (
	ActionRecordMood        = "RECORD_MOOD"
	ActionCompleteBreathing = "COMPLETE_BREATHING"

	recentMoodLimit = 5
)

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
		log:        baseLog.With("service", "WellnessService"),
	}
}

// record runs the write, its activity entry and the evaluation job in one
// transaction.
func (s *Service) record(ctx context.Context, userID uuid.UUID, write func(tx *gorm.DB) error, entry *activity.Log) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := write(tx); err != nil {
			return err
		}
		if err := s.activities.Create(ctx, tx, entry); err != nil {
			return err
		}
		return s.jobs.Enqueue(ctx, tx, userID, jobs.TypeAchievementEvaluate, jobs.AchievementPayload{
			UserID: userID,
			Action: entry.Action,
		}, entry.Timestamp)
	})
}

func (s *Service) RecordMood(ctx context.Context, userID uuid.UUID, mood string) (*MoodEntry, error) {
	mood = strings.TrimSpace(mood)
	if mood == "" {
		return nil, fmt.Errorf("%w: mood required", apperr.ErrInvalidInput)
	}
	now := s.clock.Now().UTC()
	m := &MoodEntry{ID: uuid.New(), UserID: userID, Mood: mood, Timestamp: now}
	entry := activity.NewLog(userID, activity.TypeAssessment, ActionRecordMood, mood, map[string]any{"mood": mood}, nil, now)

	if err := s.record(ctx, userID, func(tx *gorm.DB) error { return s.repo.CreateMood(ctx, tx, m) }, entry); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *Service) RecordBreathingSession(ctx context.Context, userID uuid.UUID, duration, breaths int) (*BreathingSession, error) {
	if duration <= 0 || breaths < 0 {
		return nil, fmt.Errorf("%w: duration must be positive and breaths not negative", apperr.ErrInvalidInput)
	}
	now := s.clock.Now().UTC()
	b := &BreathingSession{ID: uuid.New(), UserID: userID, Duration: duration, CompletedBreaths: breaths, Timestamp: now}
	d := duration
	entry := activity.NewLog(userID, activity.TypeExercise, ActionCompleteBreathing, "",
		map[string]any{"completedBreaths": breaths}, &d, now)

	if err := s.record(ctx, userID, func(tx *gorm.DB) error { return s.repo.CreateBreathing(ctx, tx, b) }, entry); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *Service) RecentMoods(ctx context.Context, userID uuid.UUID) ([]MoodEntry, error) {
	return s.repo.RecentMoods(ctx, nil, userID, recentMoodLimit)
}

func (s *Service) BreathingStats(ctx context.Context, userID uuid.UUID) (BreathingStats, error) {
	return s.repo.BreathingStats(ctx, nil, userID)
}
