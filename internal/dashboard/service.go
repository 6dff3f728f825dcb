package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/facebookgo/clock"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"augmend/internal/activity"
	"augmend/internal/analytics"
	"augmend/internal/content"
	"augmend/internal/pkg/logger"
)

const (
	focusLimit   = 2
	sessionLimit = 5

	ActionDashboardView = "dashboard_view"
)

type Analytics interface {
	Recompute(ctx context.Context, userID uuid.UUID) (*analytics.UserStats, error)
	WellnessSeries(ctx context.Context, userID uuid.UUID, tf analytics.Timeframe) ([]analytics.SeriesPoint, error)
	TreatmentProgress(ctx context.Context, userID uuid.UUID) ([]analytics.ProgressPoint, error)
}

type StatsReader interface {
	Get(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*analytics.UserStats, error)
}

type FocusSource interface {
	Focus(ctx context.Context, userID uuid.UUID, n int) ([]content.Content, error)
}

type ActivityStore interface {
	Create(ctx context.Context, tx *gorm.DB, l *activity.Log) error
	List(ctx context.Context, tx *gorm.DB, userID uuid.UUID, f activity.Filter) ([]activity.Log, error)
}

type FocusItem struct {
	ID       uuid.UUID    `json:"id"`
	Title    string       `json:"title"`
	Type     content.Type `json:"type"`
	Duration string       `json:"duration"`
}

type Score struct {
	CurrentScore int                     `json:"currentScore"`
	Data         []analytics.SeriesPoint `json:"data"`
}

type Session struct {
	ID           uuid.UUID         `json:"id"`
	ActivityType activity.Type     `json:"activityType"`
	Timestamp    time.Time         `json:"timestamp"`
	Duration     int               `json:"duration"`
	Details      datatypes.JSONMap `json:"details"`
}

type Data struct {
	WeeklyProgress    int                       `json:"weeklyProgress"`
	Streak            int                       `json:"streak"`
	GoalsCompleted    int                       `json:"goalsCompleted"`
	TotalGoals        int                       `json:"totalGoals"`
	TodaysFocus       []FocusItem               `json:"todaysFocus"`
	WellnessScore     Score                     `json:"wellnessScore"`
	TreatmentProgress []analytics.ProgressPoint `json:"treatmentProgress"`
	RecentSessions    []Session                 `json:"recentSessions"`
}

type Service struct {
	analytics  Analytics
	stats      StatsReader
	focus      FocusSource
	activities ActivityStore
	clock      clock.Clock
	log        *logger.Logger
}

func NewService(a Analytics, stats StatsReader, focus FocusSource, activities ActivityStore, clk clock.Clock, baseLog *logger.Logger) *Service {
	return &Service{
		analytics:  a,
		stats:      stats,
		focus:      focus,
		activities: activities,
		clock:      clk,
		log:        baseLog.With("service", "DashboardService"),
	}
}

// Data recomputes the user's stats and assembles every dashboard panel.
// The view itself is recorded as a login activity.
func (s *Service) Data(ctx context.Context, userID uuid.UUID) (*Data, error) {
	stats, err := s.analytics.Recompute(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("recompute stats: %w", err)
	}
	focus, err := s.TodaysFocus(ctx, userID)
	if err != nil {
		return nil, err
	}
	series, err := s.analytics.WellnessSeries(ctx, userID, analytics.Daily)
	if err != nil {
		return nil, err
	}
	progress, err := s.analytics.TreatmentProgress(ctx, userID)
	if err != nil {
		return nil, err
	}
	sessions, err := s.RecentSessions(ctx, userID)
	if err != nil {
		return nil, err
	}

	view := activity.NewLog(userID, activity.TypeLogin, ActionDashboardView, "",
		map[string]any{"action": ActionDashboardView}, nil, s.clock.Now().UTC())
	if err := s.activities.Create(ctx, nil, view); err != nil {
		s.log.Warn("failed to log dashboard view", "userID", userID, "err", err)
	}

	return &Data{
		WeeklyProgress:    stats.WeeklyProgress,
		Streak:            stats.Streak,
		GoalsCompleted:    stats.GoalsCompleted,
		TotalGoals:        stats.TotalGoals,
		TodaysFocus:       focus,
		WellnessScore:     Score{CurrentScore: stats.WellnessScore, Data: series},
		TreatmentProgress: progress,
		RecentSessions:    sessions,
	}, nil
}

func (s *Service) TodaysFocus(ctx context.Context, userID uuid.UUID) ([]FocusItem, error) {
	items, err := s.focus.Focus(ctx, userID, focusLimit)
	if err != nil {
		return nil, err
	}
	out := make([]FocusItem, 0, len(items))
	for _, c := range items {
		out = append(out, FocusItem{
			ID:       c.ID,
			Title:    c.Title,
			Type:     c.Type,
			Duration: fmt.Sprintf("%d min", c.Duration),
		})
	}
	return out, nil
}

// WellnessScore reads the stored snapshot; users without one get the
// baseline score.
func (s *Service) WellnessScore(ctx context.Context, userID uuid.UUID, tf analytics.Timeframe) (*Score, error) {
	series, err := s.analytics.WellnessSeries(ctx, userID, tf)
	if err != nil {
		return nil, err
	}
	stats, err := s.stats.Get(ctx, nil, userID)
	if err != nil {
		return nil, err
	}
	current := analytics.BaselineScore
	if stats != nil && stats.WellnessScore > 0 {
		current = stats.WellnessScore
	}
	return &Score{CurrentScore: current, Data: series}, nil
}

func (s *Service) TreatmentProgress(ctx context.Context, userID uuid.UUID) ([]analytics.ProgressPoint, error) {
	return s.analytics.TreatmentProgress(ctx, userID)
}

func (s *Service) RecentSessions(ctx context.Context, userID uuid.UUID) ([]Session, error) {
	logs, err := s.activities.List(ctx, nil, userID, activity.Filter{Limit: sessionLimit})
	if err != nil {
		return nil, err
	}
	out := make([]Session, 0, len(logs))
	for _, l := range logs {
		d := 0
		if l.Duration != nil {
			d = *l.Duration
		}
		out = append(out, Session{
			ID:           l.ID,
			ActivityType: l.ActivityType,
			Timestamp:    l.Timestamp,
			Duration:     d,
			Details:      l.Details,
		})
	}
	return out, nil
}
