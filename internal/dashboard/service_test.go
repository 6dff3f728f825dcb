package dashboard

import (
	"context"
	"errors"
	"testing"

	"github.com/facebookgo/clock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"augmend/internal/activity"
	"augmend/internal/analytics"
	"augmend/internal/content"
	"augmend/internal/pkg/logger"
)

type fakeAnalytics struct {
	stats *analytics.UserStats
	tf    analytics.Timeframe
}

func (f *fakeAnalytics) Recompute(context.Context, uuid.UUID) (*analytics.UserStats, error) {
	return f.stats, nil
}

func (f *fakeAnalytics) WellnessSeries(_ context.Context, _ uuid.UUID, tf analytics.Timeframe) ([]analytics.SeriesPoint, error) {
	f.tf = tf
	return []analytics.SeriesPoint{{Label: "Mon", Score: 80}}, nil
}

func (f *fakeAnalytics) TreatmentProgress(context.Context, uuid.UUID) ([]analytics.ProgressPoint, error) {
	return []analytics.ProgressPoint{{Week: "Week 1", Progress: 50}}, nil
}

type fakeStats struct{ stats *analytics.UserStats }

func (f fakeStats) Get(context.Context, *gorm.DB, uuid.UUID) (*analytics.UserStats, error) {
	return f.stats, nil
}

type fakeFocus struct{ items []content.Content }

func (f fakeFocus) Focus(_ context.Context, _ uuid.UUID, n int) ([]content.Content, error) {
	if len(f.items) > n {
		return f.items[:n], nil
	}
	return f.items, nil
}

type fakeActivities struct {
	created   []*activity.Log
	logs      []activity.Log
	limit     int
	createErr error
}

func (f *fakeActivities) Create(_ context.Context, _ *gorm.DB, l *activity.Log) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, l)
	return nil
}

func (f *fakeActivities) List(_ context.Context, _ *gorm.DB, _ uuid.UUID, flt activity.Filter) ([]activity.Log, error) {
	f.limit = flt.Limit
	return f.logs, nil
}

func TestData(t *testing.T) {
	dur := 300
	acts := &fakeActivities{logs: []activity.Log{
		{ID: uuid.New(), ActivityType: activity.TypeExercise, Duration: &dur},
		{ID: uuid.New(), ActivityType: activity.TypeReflection},
	}}
	an := &fakeAnalytics{stats: &analytics.UserStats{WeeklyProgress: 43, Streak: 3, GoalsCompleted: 1, TotalGoals: 6, WellnessScore: 77}}
	focus := fakeFocus{items: []content.Content{
		{ID: uuid.New(), Title: "Breathe", Type: content.TypeExercise, Duration: 10},
		{ID: uuid.New(), Title: "Sleep", Type: content.TypeArticle, Duration: 5},
		{ID: uuid.New(), Title: "Extra", Type: content.TypeVideo, Duration: 7},
	}}
	svc := NewService(an, fakeStats{}, focus, acts, clock.NewMock(), logger.Nop())

	d, err := svc.Data(context.Background(), uuid.New())
	require.NoError(t, err)

	assert.Equal(t, 43, d.WeeklyProgress)
	assert.Equal(t, 3, d.Streak)
	assert.Equal(t, 6, d.TotalGoals)
	assert.Equal(t, 77, d.WellnessScore.CurrentScore)
	assert.Equal(t, analytics.Daily, an.tf)
	require.Len(t, d.TodaysFocus, 2)
	assert.Equal(t, "10 min", d.TodaysFocus[0].Duration)
	require.Len(t, d.RecentSessions, 2)
	assert.Equal(t, 300, d.RecentSessions[0].Duration)
	assert.Equal(t, 0, d.RecentSessions[1].Duration)
	assert.Equal(t, 5, acts.limit)

	require.Len(t, acts.created, 1)
	assert.Equal(t, activity.TypeLogin, acts.created[0].ActivityType)
	assert.Equal(t, ActionDashboardView, acts.created[0].Action)
}

func TestData_ViewLogFailureIsNotFatal(t *testing.T) {
	acts := &fakeActivities{createErr: errors.New("insert failed")}
	an := &fakeAnalytics{stats: &analytics.UserStats{WellnessScore: 75}}
	svc := NewService(an, fakeStats{}, fakeFocus{}, acts, clock.NewMock(), logger.Nop())

	_, err := svc.Data(context.Background(), uuid.New())
	assert.NoError(t, err)
}

func TestWellnessScore_BaselineWithoutSnapshot(t *testing.T) {
	an := &fakeAnalytics{}
	svc := NewService(an, fakeStats{}, fakeFocus{}, &fakeActivities{}, clock.NewMock(), logger.Nop())

	score, err := svc.WellnessScore(context.Background(), uuid.New(), analytics.Weekly)
	require.NoError(t, err)
	assert.Equal(t, analytics.BaselineScore, score.CurrentScore)
	assert.Equal(t, analytics.Weekly, an.tf)

	svc = NewService(an, fakeStats{stats: &analytics.UserStats{WellnessScore: 88}}, fakeFocus{}, &fakeActivities{}, clock.NewMock(), logger.Nop())
	score, err = svc.WellnessScore(context.Background(), uuid.New(), analytics.Daily)
	require.NoError(t, err)
	assert.Equal(t, 88, score.CurrentScore)
}
