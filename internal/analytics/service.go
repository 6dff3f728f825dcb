package analytics

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/facebookgo/clock"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"augmend/internal/activity"
	"augmend/internal/pkg/apperr"
	"augmend/internal/pkg/logger"
	"augmend/internal/streak"
	"augmend/internal/timeutil"
)

const (
	breakdownDays  = 7
	streakScanDays = 30
	seriesWeeks    = 4
)

type ActivitySource interface {
	Since(ctx context.Context, tx *gorm.DB, userID uuid.UUID, start time.Time) ([]activity.Log, error)
}

type CompletedCounter interface {
	CountCompleted(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error)
}

type CatalogCounter interface {
	Count(ctx context.Context, tx *gorm.DB) (int64, error)
}

type ContentProgressSource interface {
	AverageProgressByType(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (map[string]float64, error)
}

type Deps struct {
	Stats     Repo
	Logs      ActivitySource
	Completed CompletedCounter
	Catalog   CatalogCounter
	Content   ContentProgressSource
	Clock     clock.Clock
	Log       *logger.Logger
	// DemoMode draws idle-day scores at random.
	DemoMode bool
}

type Service struct {
	stats     Repo
	logs      ActivitySource
	completed CompletedCounter
	catalog   CatalogCounter
	content   ContentProgressSource
	clock     clock.Clock
	log       *logger.Logger

	Scorer Scorer
}

func NewService(d Deps) *Service {
	return &Service{
		stats:     d.Stats,
		logs:      d.Logs,
		completed: d.Completed,
		catalog:   d.Catalog,
		content:   d.Content,
		clock:     d.Clock,
		log:       d.Log.With("service", "AnalyticsService"),
		Scorer:    Scorer{Demo: d.DemoMode},
	}
}

func (s *Service) now() time.Time { return s.clock.Now().UTC() }

// window loads the logs of the n days ending today and buckets them.
func (s *Service) window(ctx context.Context, userID uuid.UUID, n int) ([]activity.Log, []Day, error) {
	now := s.now()
	start := timeutil.StartOfDay(now).AddDate(0, 0, -(n - 1))
	logs, err := s.logs.Since(ctx, nil, userID, start)
	if err != nil {
		return nil, nil, err
	}
	return logs, DailyBreakdown(logs, n, now, s.Scorer), nil
}

// Recompute rebuilds the user's snapshot from scratch and stores it.
func (s *Service) Recompute(ctx context.Context, userID uuid.UUID) (*UserStats, error) {
	now := s.now()
	logs, month, err := s.window(ctx, userID, streakScanDays)
	if err != nil {
		return nil, err
	}
	week := month[len(month)-breakdownDays:]

	dates := make([]time.Time, 0, len(logs))
	for _, l := range logs {
		dates = append(dates, l.Timestamp)
	}
	st := streak.Calculate(dates, now)

	completed, err := s.completed.CountCompleted(ctx, nil, userID)
	if err != nil {
		return nil, err
	}
	total, err := s.catalog.Count(ctx, nil)
	if err != nil {
		return nil, err
	}
	avg, err := s.content.AverageProgressByType(ctx, nil, userID)
	if err != nil {
		return nil, err
	}

	stats := &UserStats{
		UserID:            userID,
		WeeklyProgress:    ActivePercent(week),
		Streak:            st.Current,
		LastActiveStreak:  st.LastActiveStreak,
		StreakActiveToday: st.IsStreakActiveToday,
		GoalsCompleted:    int(completed),
		TotalGoals:        int(total),
		WellnessScore:     MeanScore(week),
		WeeklyBreakdown:   datatypes.NewJSONType(ByDate(week)),
		ContentProgress: datatypes.NewJSONType(ContentProgress{
			Article:  roundPct(avg["article"]),
			Video:    roundPct(avg["video"]),
			Exercise: roundPct(avg["exercise"]),
			Audio:    roundPct(avg["audio"]),
		}),
		LastCalculated: now,
	}
	if err := s.stats.Upsert(ctx, nil, stats); err != nil {
		return nil, err
	}
	s.log.Debug("user stats recomputed", "user_id", userID, "streak", stats.Streak, "weekly_progress", stats.WeeklyProgress)
	return stats, nil
}

type Timeframe string

const (
	Daily  Timeframe = "daily"
	Weekly Timeframe = "weekly"
)

// WellnessSeries returns 7 weekday points for daily and 4 "Week N" points
// for weekly, oldest first.
func (s *Service) WellnessSeries(ctx context.Context, userID uuid.UUID, tf Timeframe) ([]SeriesPoint, error) {
	switch tf {
	case Daily:
		_, days, err := s.window(ctx, userID, breakdownDays)
		if err != nil {
			return nil, err
		}
		return DailySeries(days), nil
	case Weekly:
		_, days, err := s.window(ctx, userID, seriesWeeks*7)
		if err != nil {
			return nil, err
		}
		return WeeklySeries(days), nil
	default:
		return nil, fmt.Errorf("%w: timeframe must be daily or weekly", apperr.ErrInvalidInput)
	}
}

type ProgressPoint struct {
	Week     string `json:"week"`
	Progress int    `json:"progress"`
}

// TreatmentProgress is the share of active days in each of the last four
// weeks, oldest first.
func (s *Service) TreatmentProgress(ctx context.Context, userID uuid.UUID) ([]ProgressPoint, error) {
	_, days, err := s.window(ctx, userID, seriesWeeks*7)
	if err != nil {
		return nil, err
	}
	weeks := Weeks(days)
	out := make([]ProgressPoint, 0, len(weeks))
	for i, w := range weeks {
		out = append(out, ProgressPoint{Week: fmt.Sprintf("Week %d", i+1), Progress: ActivePercent(w)})
	}
	return out, nil
}

func roundPct(v float64) int {
	return int(math.Round(v))
}
