package analytics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/facebookgo/clock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"augmend/internal/activity"
	"augmend/internal/pkg/apperr"
	"augmend/internal/pkg/logger"
)

type fakeStats struct{ saved *UserStats }

func (f *fakeStats) Get(context.Context, *gorm.DB, uuid.UUID) (*UserStats, error) { return f.saved, nil }
func (f *fakeStats) Upsert(_ context.Context, _ *gorm.DB, s *UserStats) error {
	f.saved = s
	return nil
}

type fakeLogs struct {
	logs  []activity.Log
	since time.Time
	err   error
}

func (f *fakeLogs) Since(_ context.Context, _ *gorm.DB, _ uuid.UUID, start time.Time) ([]activity.Log, error) {
	f.since = start
	if f.err != nil {
		return nil, f.err
	}
	var out []activity.Log
	for _, l := range f.logs {
		if !l.Timestamp.Before(start) {
			out = append(out, l)
		}
	}
	return out, nil
}

type fakeCounts struct{ completed, total int64 }

func (f fakeCounts) CountCompleted(context.Context, *gorm.DB, uuid.UUID) (int64, error) {
	return f.completed, nil
}
func (f fakeCounts) Count(context.Context, *gorm.DB) (int64, error) { return f.total, nil }

type fakeContent map[string]float64

func (f fakeContent) AverageProgressByType(context.Context, *gorm.DB, uuid.UUID) (map[string]float64, error) {
	return f, nil
}

func newTestService(logs *fakeLogs) (*Service, *fakeStats, *clock.Mock) {
	mock := clock.NewMock()
	// 1970-03-01 12:00 UTC
	mock.Add((59*24 + 12) * time.Hour)
	stats := &fakeStats{}
	counts := fakeCounts{completed: 2, total: 6}
	svc := NewService(Deps{
		Stats:     stats,
		Logs:      logs,
		Completed: counts,
		Catalog:   counts,
		Content:   fakeContent{"article": 50, "video": 33.4},
		Clock:     mock,
		Log:       logger.Nop(),
	})
	return svc, stats, mock
}

func TestRecompute(t *testing.T) {
	logs := &fakeLogs{}
	svc, stats, mock := newTestService(logs)
	now := mock.Now().UTC()
	for _, back := range []int{0, 1, 2, 10, 11} {
		logs.logs = append(logs.logs, activity.Log{Timestamp: now.AddDate(0, 0, -back)})
	}

	got, err := svc.Recompute(context.Background(), uuid.New())
	require.NoError(t, err)
	require.Same(t, got, stats.saved)

	assert.Equal(t, time.Date(1970, 1, 31, 0, 0, 0, 0, time.UTC), logs.since)
	assert.Equal(t, 3, got.Streak)
	assert.Equal(t, 3, got.LastActiveStreak)
	assert.True(t, got.StreakActiveToday)
	assert.Equal(t, 43, got.WeeklyProgress)
	assert.Equal(t, 77, got.WellnessScore)
	assert.Equal(t, 2, got.GoalsCompleted)
	assert.Equal(t, 6, got.TotalGoals)
	assert.Equal(t, ContentProgress{Article: 50, Video: 33}, got.ContentProgress.Data())
	assert.Len(t, got.WeeklyBreakdown.Data(), 7)
	assert.Equal(t, now, got.LastCalculated)
}

func TestRecompute_StaleStreak(t *testing.T) {
	logs := &fakeLogs{}
	svc, _, mock := newTestService(logs)
	now := mock.Now().UTC()
	for _, back := range []int{5, 6, 7} {
		logs.logs = append(logs.logs, activity.Log{Timestamp: now.AddDate(0, 0, -back)})
	}

	got, err := svc.Recompute(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Zero(t, got.Streak)
	assert.Equal(t, 3, got.LastActiveStreak)
	assert.False(t, got.StreakActiveToday)
}

func TestRecompute_PropagatesStorageError(t *testing.T) {
	boom := errors.New("db down")
	svc, stats, _ := newTestService(&fakeLogs{err: boom})

	_, err := svc.Recompute(context.Background(), uuid.New())
	require.ErrorIs(t, err, boom)
	assert.Nil(t, stats.saved)
}

func TestWellnessSeries(t *testing.T) {
	svc, _, _ := newTestService(&fakeLogs{})
	ctx := context.Background()

	daily, err := svc.WellnessSeries(ctx, uuid.New(), Daily)
	require.NoError(t, err)
	assert.Len(t, daily, 7)
	assert.Equal(t, "Sun", daily[6].Label)

	weekly, err := svc.WellnessSeries(ctx, uuid.New(), Weekly)
	require.NoError(t, err)
	assert.Len(t, weekly, 4)
	for _, p := range weekly {
		assert.Equal(t, BaselineScore, p.Score)
	}

	_, err = svc.WellnessSeries(ctx, uuid.New(), "monthly")
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
}

func TestTreatmentProgress(t *testing.T) {
	logs := &fakeLogs{}
	svc, _, mock := newTestService(logs)
	now := mock.Now().UTC()
	for i := 0; i < 7; i++ {
		logs.logs = append(logs.logs, activity.Log{Timestamp: now.AddDate(0, 0, -i)})
	}

	got, err := svc.TreatmentProgress(context.Background(), uuid.New())
	require.NoError(t, err)
	require.Len(t, got, 4)
	assert.Equal(t, ProgressPoint{Week: "Week 1", Progress: 0}, got[0])
	assert.Equal(t, ProgressPoint{Week: "Week 4", Progress: 100}, got[3])
}
