package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/facebookgo/clock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"augmend/internal/achievement"
	"augmend/internal/pkg/logger"
)

type retryCall struct {
	attempts int
	runAt    time.Time
	errMsg   string
}

type fakeQueue struct {
	pending []*Job
	done    []uuid.UUID
	failed  map[uuid.UUID]string
	retries map[uuid.UUID]retryCall
}

func newFakeQueue(jobs ...*Job) *fakeQueue {
	return &fakeQueue{pending: jobs, failed: map[uuid.UUID]string{}, retries: map[uuid.UUID]retryCall{}}
}

func (q *fakeQueue) Claim(context.Context, string) (*Job, error) {
	if len(q.pending) == 0 {
		return nil, nil
	}
	j := q.pending[0]
	q.pending = q.pending[1:]
	return j, nil
}

func (q *fakeQueue) MarkDone(_ context.Context, id uuid.UUID) error {
	q.done = append(q.done, id)
	return nil
}

func (q *fakeQueue) MarkFailed(_ context.Context, id uuid.UUID, msg string) error {
	q.failed[id] = msg
	return nil
}

func (q *fakeQueue) RetryLater(_ context.Context, id uuid.UUID, attempts int, runAt time.Time, msg string) error {
	q.retries[id] = retryCall{attempts: attempts, runAt: runAt, errMsg: msg}
	return nil
}

func newJob(typ string, payload any) *Job {
	b, _ := json.Marshal(payload)
	return &Job{ID: uuid.New(), UserID: uuid.New(), Type: typ, Payload: datatypes.JSON(b), MaxAttempts: 3}
}

func TestWorker_Dispatch(t *testing.T) {
	ok := newJob("OK", map[string]any{})
	unknown := newJob("NOPE", map[string]any{})
	flaky := newJob("FLAKY", map[string]any{})
	broken := newJob("BROKEN", map[string]any{})
	q := newFakeQueue(ok, unknown, flaky, broken)

	mock := clock.NewMock()
	w := NewWorker("w-1", q, mock, time.Second, logger.Nop())
	w.Register("OK", func(context.Context, *Job) error { return nil })
	w.Register("FLAKY", func(context.Context, *Job) error { return errors.New("db read error") })
	w.Register("BROKEN", func(context.Context, *Job) error { return ErrPermanent })

	ctx := context.Background()
	for w.tick(ctx) {
	}

	assert.Equal(t, []uuid.UUID{ok.ID}, q.done)
	assert.Equal(t, "unknown job type", q.failed[unknown.ID])
	assert.Contains(t, q.failed, broken.ID)
	assert.Equal(t, retryCall{attempts: 1, runAt: mock.Now().Add(2 * time.Second), errMsg: "db read error"}, q.retries[flaky.ID])
}

func TestWorker_RetryExhausted(t *testing.T) {
	j := newJob("FLAKY", map[string]any{})
	j.Attempts = 2
	q := newFakeQueue(j)
	w := NewWorker("w-1", q, clock.NewMock(), time.Second, logger.Nop())
	w.Register("FLAKY", func(context.Context, *Job) error { return errors.New("still down") })

	require.True(t, w.tick(context.Background()))
	assert.Equal(t, "still down", q.failed[j.ID])
	assert.Empty(t, q.retries)
}

func TestWorker_RunStopsOnCancel(t *testing.T) {
	j := newJob("OK", map[string]any{})
	q := newFakeQueue(j)
	mock := clock.NewMock()
	w := NewWorker("w-1", q, mock, time.Second, logger.Nop())
	handled := make(chan struct{}, 1)
	w.Register("OK", func(context.Context, *Job) error {
		handled <- struct{}{}
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(stopped)
	}()

	require.Eventually(t, func() bool {
		mock.Add(time.Second)
		select {
		case <-handled:
			return true
		default:
			return false
		}
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop")
	}
}

func TestBackoff(t *testing.T) {
	assert.Equal(t, 2*time.Second, Backoff(1))
	assert.Equal(t, 8*time.Second, Backoff(3))
	assert.Equal(t, 600*time.Second, Backoff(12))
}

type fakeEvaluator struct {
	userID uuid.UUID
	action string
	md     achievement.Metadata
	err    error
}

func (f *fakeEvaluator) Evaluate(_ context.Context, userID uuid.UUID, action string, md achievement.Metadata) (achievement.Result, error) {
	f.userID, f.action, f.md = userID, action, md
	return achievement.Result{}, f.err
}

type fakeMeta struct{ md achievement.Metadata }

func (f fakeMeta) AchievementMetadata(context.Context, uuid.UUID, string) (achievement.Metadata, error) {
	return f.md, nil
}

func TestAchievementEvaluateHandler(t *testing.T) {
	eval := &fakeEvaluator{}
	h := AchievementEvaluateHandler(eval, fakeMeta{md: achievement.Metadata{TotalCount: 4, StreakDays: 2}}, logger.Nop())

	userID := uuid.New()
	job := newJob(TypeAchievementEvaluate, AchievementPayload{UserID: userID, Action: "CREATE_REFLECTION"})
	require.NoError(t, h(context.Background(), job))
	assert.Equal(t, userID, eval.userID)
	assert.Equal(t, "CREATE_REFLECTION", eval.action)
	assert.Equal(t, achievement.Metadata{TotalCount: 4, StreakDays: 2}, eval.md)

	bad := &Job{ID: uuid.New(), Type: TypeAchievementEvaluate, Payload: datatypes.JSON(`{"user_id":"x"}`)}
	assert.ErrorIs(t, h(context.Background(), bad), ErrPermanent)

	eval.err = errors.New("timeout")
	err := h(context.Background(), job)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrPermanent)
}

type fakeActionCounter struct {
	counts map[string]int64
	seen   []string
}

func (f *fakeActionCounter) CountActions(_ context.Context, _ *gorm.DB, _ uuid.UUID, action string, since *time.Time, distinct bool) (int64, error) {
	f.seen = append(f.seen, action)
	if since != nil || distinct {
		return 0, errors.New("want an all-time plain count")
	}
	return f.counts[action], nil
}

func TestActionMetadata_CountsTheJobAction(t *testing.T) {
	counter := &fakeActionCounter{counts: map[string]int64{"RECORD_MOOD": 7, "CREATE_REFLECTION": 50}}
	meta := ActionMetadata{
		Counter:  counter,
		ByAction: map[string]MetadataProvider{"CREATE_REFLECTION": fakeMeta{md: achievement.Metadata{TotalCount: 50, StreakDays: 3}}},
	}
	ctx := context.Background()
	userID := uuid.New()

	md, err := meta.AchievementMetadata(ctx, userID, "RECORD_MOOD")
	require.NoError(t, err)
	assert.Equal(t, achievement.Metadata{TotalCount: 7}, md)

	md, err = meta.AchievementMetadata(ctx, userID, "CREATE_REFLECTION")
	require.NoError(t, err)
	assert.Equal(t, achievement.Metadata{TotalCount: 50, StreakDays: 3}, md)
	assert.Equal(t, []string{"RECORD_MOOD"}, counter.seen)

	eval := &fakeEvaluator{}
	h := AchievementEvaluateHandler(eval, meta, logger.Nop())
	require.NoError(t, h(ctx, newJob(TypeAchievementEvaluate, AchievementPayload{UserID: userID, Action: "COMPLETE_BREATHING"})))
	assert.Equal(t, "COMPLETE_BREATHING", eval.action)
	assert.Equal(t, achievement.Metadata{}, eval.md)
}
