package achievement

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"augmend/internal/activity"
	"augmend/internal/pkg/logger"
)

type catalogStub struct {
	CatalogRepo
	f *fakeCatalog
}

func (c catalogStub) List(ctx context.Context, tx *gorm.DB) ([]Achievement, error) {
	return c.f.List(ctx, tx)
}

func (c catalogStub) Create(_ context.Context, _ *gorm.DB, a *Achievement) error {
	c.f.items = append(c.f.items, *a)
	return nil
}

type ledgerStub struct {
	LedgerRepo
	f *fakeLedger
}

func (l ledgerStub) Get(ctx context.Context, tx *gorm.DB, userID, achID uuid.UUID) (*UserAchievement, error) {
	return l.f.Get(ctx, tx, userID, achID)
}

func (l ledgerStub) Unlock(ctx context.Context, tx *gorm.DB, userID, achID uuid.UUID, at time.Time) (*UserAchievement, error) {
	return l.f.Unlock(ctx, tx, userID, achID, at)
}

func (l ledgerStub) UpsertProgress(ctx context.Context, tx *gorm.DB, userID, achID uuid.UUID, p Progress) error {
	return l.f.UpsertProgress(ctx, tx, userID, achID, p)
}

type activitySink struct {
	logs []*activity.Log
}

func (s *activitySink) Create(_ context.Context, _ *gorm.DB, l *activity.Log) error {
	s.logs = append(s.logs, l)
	return nil
}

func newServiceFixture() (*Service, *evalFixture, *activitySink) {
	f := newEvalFixture()
	sink := &activitySink{}
	svc := NewService(catalogStub{f: f.catalog}, ledgerStub{f: f.ledger}, sink, f.eval, f.clock, logger.Nop())
	return svc, f, sink
}

func TestProcessActivity_ActionMatchesStoredCriteriaExactly(t *testing.T) {
	svc, f, sink := newServiceFixture()
	ctx := context.Background()

	a, err := svc.Create(ctx, Input{
		Title:    "First Workout",
		Category: CategorySpecial,
		Criteria: Criteria{Action: " complete_exercise ", SpecialType: SpecialFirstAction},
	})
	require.NoError(t, err)
	assert.Equal(t, "complete_exercise", a.Criteria.Data().Action)

	res, err := svc.ProcessActivity(ctx, f.userID, "COMPLETE_EXERCISE", Metadata{})
	require.NoError(t, err)
	assert.Empty(t, res.Evaluated)

	res, err = svc.ProcessActivity(ctx, f.userID, "complete_exercise", Metadata{})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{a.ID}, res.Evaluated)
	require.Len(t, res.Unlocked, 1)
	assert.Equal(t, 1, res.TotalUnlocked)

	require.Len(t, sink.logs, 2)
	assert.Equal(t, "complete_exercise", sink.logs[1].Action)
}

func TestProcessActivity_EmptyAction(t *testing.T) {
	svc, f, sink := newServiceFixture()

	_, err := svc.ProcessActivity(context.Background(), f.userID, "  ", Metadata{})
	require.Error(t, err)
	assert.Empty(t, sink.logs)
}
