package wellness

import (
	"context"
	"testing"

	"github.com/facebookgo/clock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"augmend/internal/pkg/apperr"
	"augmend/internal/pkg/logger"
)

type stubRepo struct {
	Repo
	limit int
	stats BreathingStats
}

func (r *stubRepo) RecentMoods(_ context.Context, _ *gorm.DB, _ uuid.UUID, limit int) ([]MoodEntry, error) {
	r.limit = limit
	return []MoodEntry{{Mood: "calm"}}, nil
}

func (r *stubRepo) BreathingStats(context.Context, *gorm.DB, uuid.UUID) (BreathingStats, error) {
	return r.stats, nil
}

func TestService_RejectsInvalidInput(t *testing.T) {
	svc := NewService(nil, &stubRepo{}, nil, nil, clock.NewMock(), logger.Nop())
	ctx := context.Background()

	_, err := svc.RecordMood(ctx, uuid.New(), "   ")
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)

	_, err = svc.RecordBreathingSession(ctx, uuid.New(), 0, 10)
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)

	_, err = svc.RecordBreathingSession(ctx, uuid.New(), 60, -1)
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
}

func TestService_Reads(t *testing.T) {
	repo := &stubRepo{stats: BreathingStats{TotalSessions: 2, TotalMinutes: 1.5, TotalBreaths: 24}}
	svc := NewService(nil, repo, nil, nil, clock.NewMock(), logger.Nop())

	moods, err := svc.RecentMoods(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Len(t, moods, 1)
	assert.Equal(t, 5, repo.limit)

	stats, err := svc.BreathingStats(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Equal(t, repo.stats, stats)
}
