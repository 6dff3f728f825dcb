package achievement

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/facebookgo/clock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"augmend/internal/pkg/logger"
)

type fakeCatalog struct {
	items []Achievement
}

func (f *fakeCatalog) List(context.Context, *gorm.DB) ([]Achievement, error) {
	return append([]Achievement(nil), f.items...), nil
}

type fakeLedger struct {
	records map[uuid.UUID]*UserAchievement
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{records: map[uuid.UUID]*UserAchievement{}}
}

func (f *fakeLedger) Get(_ context.Context, _ *gorm.DB, _, achID uuid.UUID) (*UserAchievement, error) {
	ua, ok := f.records[achID]
	if !ok {
		return nil, nil
	}
	cp := *ua
	return &cp, nil
}

func (f *fakeLedger) Unlock(_ context.Context, _ *gorm.DB, userID, achID uuid.UUID, at time.Time) (*UserAchievement, error) {
	ua, ok := f.records[achID]
	if !ok {
		ua = &UserAchievement{ID: uuid.New(), UserID: userID, AchievementID: achID}
		f.records[achID] = ua
	}
	if ua.DateUnlocked == nil {
		t := at
		ua.DateUnlocked = &t
	}
	ua.CompletionCount++
	last := at
	ua.LastCompleted = &last
	cp := *ua
	return &cp, nil
}

func (f *fakeLedger) UpsertProgress(_ context.Context, _ *gorm.DB, userID, achID uuid.UUID, p Progress) error {
	ua, ok := f.records[achID]
	if !ok {
		ua = &UserAchievement{ID: uuid.New(), UserID: userID, AchievementID: achID}
		f.records[achID] = ua
	}
	ua.Progress = datatypes.NewJSONType(p)
	return nil
}

type fakeCounter struct {
	counts map[string]int64
	err    error
	calls  []*time.Time
}

func (f *fakeCounter) CountActions(_ context.Context, _ *gorm.DB, _ uuid.UUID, action string, since *time.Time, _ bool) (int64, error) {
	f.calls = append(f.calls, since)
	if f.err != nil {
		return 0, f.err
	}
	return f.counts[action], nil
}

func newAchievement(title string, cat Category, c Criteria) Achievement {
	return Achievement{
		ID:       uuid.New(),
		Title:    title,
		Category: cat,
		Criteria: datatypes.NewJSONType(c),
	}
}

type evalFixture struct {
	clock   *clock.Mock
	catalog *fakeCatalog
	ledger  *fakeLedger
	counter *fakeCounter
	eval    *Evaluator
	userID  uuid.UUID
}

func newEvalFixture(items ...Achievement) *evalFixture {
	f := &evalFixture{
		clock:   clock.NewMock(),
		catalog: &fakeCatalog{items: items},
		ledger:  newFakeLedger(),
		counter: &fakeCounter{counts: map[string]int64{}},
		userID:  uuid.New(),
	}
	f.clock.Add(400 * 24 * time.Hour)
	f.eval = NewEvaluator(f.catalog, f.ledger, f.counter, f.clock, logger.Nop())
	return f
}

func TestEvaluate_CountWeekUnlocksOnce(t *testing.T) {
	ach := newAchievement("Weekly", CategoryCount, Criteria{Action: "COMPLETE_EXERCISE", RequiredCount: 5, Timeframe: TimeframeWeek})
	f := newEvalFixture(ach)
	f.counter.counts["COMPLETE_EXERCISE"] = 5
	ctx := context.Background()

	res, err := f.eval.Evaluate(ctx, f.userID, "COMPLETE_EXERCISE", Metadata{})
	require.NoError(t, err)
	require.Len(t, res.Unlocked, 1)
	assert.Equal(t, ach.ID, res.Unlocked[0].AchievementID)
	assert.Equal(t, []uuid.UUID{ach.ID}, res.Evaluated)

	progress := f.ledger.records[ach.ID].Progress.Data()
	assert.Equal(t, 5, progress.Count)
	assert.Equal(t, 100.0, progress.Percent)

	require.Len(t, f.counter.calls, 1)
	require.NotNil(t, f.counter.calls[0])
	assert.Equal(t, f.clock.Now().UTC().AddDate(0, 0, -7), *f.counter.calls[0])

	res, err = f.eval.Evaluate(ctx, f.userID, "COMPLETE_EXERCISE", Metadata{})
	require.NoError(t, err)
	assert.Empty(t, res.Unlocked)
	assert.Empty(t, res.Evaluated)
	assert.Equal(t, 1, f.ledger.records[ach.ID].CompletionCount)
}

func TestEvaluate_CountWithoutActionCountsIncoming(t *testing.T) {
	ach := newAchievement("Busy", CategoryCount, Criteria{RequiredCount: 3})
	f := newEvalFixture(ach)
	f.counter.counts["COMPLETE_EXERCISE"] = 3
	f.counter.counts["RECORD_MOOD"] = 1
	ctx := context.Background()

	res, err := f.eval.Evaluate(ctx, f.userID, "RECORD_MOOD", Metadata{})
	require.NoError(t, err)
	assert.Empty(t, res.Unlocked)
	assert.Equal(t, []uuid.UUID{ach.ID}, res.Evaluated)
	progress := f.ledger.records[ach.ID].Progress.Data()
	assert.Equal(t, 1, progress.Count)
	assert.InDelta(t, 33.33, progress.Percent, 0.01)

	res, err = f.eval.Evaluate(ctx, f.userID, "COMPLETE_EXERCISE", Metadata{})
	require.NoError(t, err)
	require.Len(t, res.Unlocked, 1)
	assert.Equal(t, ach.ID, res.Unlocked[0].AchievementID)
}

func TestEvaluate_CountBelowThresholdTracksProgress(t *testing.T) {
	ach := newAchievement("Mindful", CategoryCount, Criteria{Action: "COMPLETE_MEDITATION", RequiredCount: 10, Timeframe: TimeframeMonth})
	f := newEvalFixture(ach)
	f.counter.counts["COMPLETE_MEDITATION"] = 4

	res, err := f.eval.Evaluate(context.Background(), f.userID, "COMPLETE_MEDITATION", Metadata{})
	require.NoError(t, err)
	assert.Empty(t, res.Unlocked)
	assert.Equal(t, []uuid.UUID{ach.ID}, res.Evaluated)

	rec := f.ledger.records[ach.ID]
	assert.False(t, rec.Unlocked())
	assert.Equal(t, Progress{Count: 4, Percent: 40}, rec.Progress.Data())
}

func TestEvaluate_RepeatableCooldown(t *testing.T) {
	ach := newAchievement("Weekly", CategoryCount, Criteria{Action: "COMPLETE_EXERCISE", RequiredCount: 5, Timeframe: TimeframeWeek})
	ach.IsRepeatable = true
	ach.CooldownPeriod = 7
	f := newEvalFixture(ach)
	f.counter.counts["COMPLETE_EXERCISE"] = 5
	ctx := context.Background()

	res, err := f.eval.Evaluate(ctx, f.userID, "COMPLETE_EXERCISE", Metadata{})
	require.NoError(t, err)
	require.Len(t, res.Unlocked, 1)
	firstUnlock := *res.Unlocked[0].DateUnlocked

	f.clock.Add(3 * 24 * time.Hour)
	res, err = f.eval.Evaluate(ctx, f.userID, "COMPLETE_EXERCISE", Metadata{})
	require.NoError(t, err)
	assert.Empty(t, res.Unlocked)
	assert.Empty(t, res.Evaluated)

	f.clock.Add(5 * 24 * time.Hour)
	res, err = f.eval.Evaluate(ctx, f.userID, "COMPLETE_EXERCISE", Metadata{})
	require.NoError(t, err)
	require.Len(t, res.Unlocked, 1)
	assert.Equal(t, 2, res.Unlocked[0].CompletionCount)
	assert.Equal(t, firstUnlock, *res.Unlocked[0].DateUnlocked)
	assert.Equal(t, f.clock.Now().UTC(), *res.Unlocked[0].LastCompleted)
}

func TestEvaluate_RepeatableWithoutCooldown(t *testing.T) {
	ach := newAchievement("Daily", CategoryStreak, Criteria{RequiredStreakDays: 3})
	ach.IsRepeatable = true
	f := newEvalFixture(ach)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		res, err := f.eval.Evaluate(ctx, f.userID, "CREATE_REFLECTION", Metadata{StreakDays: 3})
		require.NoError(t, err)
		require.Len(t, res.Unlocked, 1)
		assert.Equal(t, i, res.Unlocked[0].CompletionCount)
	}
}

func TestEvaluate_Streak(t *testing.T) {
	ach := newAchievement("Champion", CategoryStreak, Criteria{RequiredStreakDays: 30})
	f := newEvalFixture(ach)
	ctx := context.Background()

	res, err := f.eval.Evaluate(ctx, f.userID, "CREATE_REFLECTION", Metadata{StreakDays: 29})
	require.NoError(t, err)
	assert.Empty(t, res.Unlocked)
	assert.Equal(t, []uuid.UUID{ach.ID}, res.Evaluated)

	res, err = f.eval.Evaluate(ctx, f.userID, "CREATE_REFLECTION", Metadata{StreakDays: 30})
	require.NoError(t, err)
	assert.Len(t, res.Unlocked, 1)
}

func TestEvaluate_Milestone(t *testing.T) {
	ach := newAchievement("Guru", CategoryMilestone, Criteria{Action: "CREATE_REFLECTION", RequiredTotal: 20})
	f := newEvalFixture(ach)
	ctx := context.Background()

	res, err := f.eval.Evaluate(ctx, f.userID, "CREATE_REFLECTION", Metadata{TotalCount: 10})
	require.NoError(t, err)
	assert.Empty(t, res.Unlocked)
	assert.Equal(t, Progress{Count: 10, Percent: 50}, f.ledger.records[ach.ID].Progress.Data())

	res, err = f.eval.Evaluate(ctx, f.userID, "CREATE_REFLECTION", Metadata{TotalCount: 20})
	require.NoError(t, err)
	assert.Len(t, res.Unlocked, 1)
}

func TestEvaluate_ActionMismatchIsSkipped(t *testing.T) {
	ach := newAchievement("Guru", CategoryMilestone, Criteria{Action: "CREATE_REFLECTION", RequiredTotal: 1})
	f := newEvalFixture(ach)

	res, err := f.eval.Evaluate(context.Background(), f.userID, "RECORD_MOOD", Metadata{TotalCount: 50})
	require.NoError(t, err)
	assert.Empty(t, res.Unlocked)
	assert.Empty(t, res.Evaluated)
	assert.Empty(t, f.ledger.records)
}

func TestEvaluate_FirstActionLenientAndStrict(t *testing.T) {
	ach := newAchievement("First Step", CategorySpecial, Criteria{Action: "COMPLETE_EXERCISE", SpecialType: SpecialFirstAction})

	t.Run("lenient matches on action alone", func(t *testing.T) {
		f := newEvalFixture(ach)
		f.counter.counts["COMPLETE_EXERCISE"] = 12
		res, err := f.eval.Evaluate(context.Background(), f.userID, "COMPLETE_EXERCISE", Metadata{})
		require.NoError(t, err)
		assert.Len(t, res.Unlocked, 1)
		assert.Empty(t, f.counter.calls)
	})

	t.Run("strict rejects repeated action", func(t *testing.T) {
		f := newEvalFixture(ach)
		f.eval.StrictFirstAction = true
		f.counter.counts["COMPLETE_EXERCISE"] = 12
		res, err := f.eval.Evaluate(context.Background(), f.userID, "COMPLETE_EXERCISE", Metadata{})
		require.NoError(t, err)
		assert.Empty(t, res.Unlocked)
		assert.Equal(t, []uuid.UUID{ach.ID}, res.Evaluated)
		require.Len(t, f.counter.calls, 1)
		assert.Nil(t, f.counter.calls[0])
	})

	t.Run("strict accepts the first action", func(t *testing.T) {
		f := newEvalFixture(ach)
		f.eval.StrictFirstAction = true
		f.counter.counts["COMPLETE_EXERCISE"] = 1
		res, err := f.eval.Evaluate(context.Background(), f.userID, "COMPLETE_EXERCISE", Metadata{})
		require.NoError(t, err)
		assert.Len(t, res.Unlocked, 1)
	})
}

func TestEvaluate_StorageErrorKeepsEarlierUnlocks(t *testing.T) {
	first := newAchievement("First Step", CategorySpecial, Criteria{Action: "COMPLETE_EXERCISE", SpecialType: SpecialFirstAction})
	count := newAchievement("Weekly", CategoryCount, Criteria{Action: "COMPLETE_EXERCISE", RequiredCount: 5, Timeframe: TimeframeWeek})
	guru := newAchievement("Any", CategoryStreak, Criteria{RequiredStreakDays: 1})
	f := newEvalFixture(first, count, guru)
	boom := errors.New("connection reset")
	f.counter.err = boom

	res, err := f.eval.Evaluate(context.Background(), f.userID, "COMPLETE_EXERCISE", Metadata{StreakDays: 5})
	require.ErrorIs(t, err, boom)
	require.Len(t, res.Unlocked, 1)
	assert.Equal(t, first.ID, res.Unlocked[0].AchievementID)
	assert.NotContains(t, f.ledger.records, guru.ID)
}

func TestEvaluate_BadCriteriaSkipped(t *testing.T) {
	bad := newAchievement("Broken", CategoryCount, Criteria{Action: "COMPLETE_EXERCISE", RequiredCount: 2, Timeframe: "YEAR"})
	good := newAchievement("Any", CategoryStreak, Criteria{RequiredStreakDays: 1})
	f := newEvalFixture(bad, good)

	res, err := f.eval.Evaluate(context.Background(), f.userID, "COMPLETE_EXERCISE", Metadata{StreakDays: 1})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{good.ID}, res.Evaluated)
	assert.Len(t, res.Unlocked, 1)
}

func TestWindowStart(t *testing.T) {
	now := time.Date(2024, 5, 15, 13, 0, 0, 0, time.UTC)

	assert.Nil(t, windowStart(TimeframeAll, now))
	assert.Equal(t, time.Date(2024, 5, 15, 0, 0, 0, 0, time.UTC), *windowStart(TimeframeDay, now))
	assert.Equal(t, time.Date(2024, 5, 8, 13, 0, 0, 0, time.UTC), *windowStart(TimeframeWeek, now))
	assert.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), *windowStart(TimeframeMonth, now))
}
