package activity_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"augmend/internal/activity"
	"augmend/internal/testutil"
)

func TestRepo_CountActions(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	repo := activity.NewRepo(tx, testutil.Logger(t))

	u := testutil.SeedUser(t, ctx, tx, "count@example.com")
	base := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	for i, mood := range []string{"happy", "sad", "happy", "calm"} {
		testutil.SeedActivity(t, ctx, tx, u.ID, "RECORD_MOOD", mood, base.Add(time.Duration(i)*24*time.Hour))
	}
	testutil.SeedActivity(t, ctx, tx, u.ID, "CREATE_REFLECTION", "happy", base)

	all, err := repo.CountActions(ctx, tx, u.ID, "RECORD_MOOD", nil, false)
	require.NoError(t, err)
	assert.EqualValues(t, 4, all)

	distinct, err := repo.CountActions(ctx, tx, u.ID, "RECORD_MOOD", nil, true)
	require.NoError(t, err)
	assert.EqualValues(t, 3, distinct)

	since := base.Add(48 * time.Hour)
	recent, err := repo.CountActions(ctx, tx, u.ID, "RECORD_MOOD", &since, false)
	require.NoError(t, err)
	assert.EqualValues(t, 2, recent)
}

func TestRepo_ListAndSince(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	repo := activity.NewRepo(tx, testutil.Logger(t))

	u := testutil.SeedUser(t, ctx, tx, "list@example.com")
	base := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 12; i++ {
		testutil.SeedActivity(t, ctx, tx, u.ID, "VIEW_CONTENT", "", base.Add(time.Duration(i)*time.Hour))
	}
	d := 60
	require.NoError(t, repo.Create(ctx, tx, &activity.Log{UserID: u.ID, Action: "COMPLETE_BREATHING", Duration: &d, Timestamp: base.Add(-time.Hour)}))

	logs, err := repo.List(ctx, tx, u.ID, activity.Filter{})
	require.NoError(t, err)
	require.Len(t, logs, 10)
	assert.True(t, logs[0].Timestamp.After(logs[1].Timestamp))

	ex, err := repo.List(ctx, tx, u.ID, activity.Filter{Type: activity.TypeExercise})
	require.NoError(t, err)
	require.Len(t, ex, 1)
	assert.Equal(t, 60, *ex[0].Duration)

	since, err := repo.Since(ctx, tx, u.ID, base.Add(10*time.Hour))
	require.NoError(t, err)
	require.Len(t, since, 2)
	assert.True(t, since[0].Timestamp.Before(since[1].Timestamp))
}

func TestRepo_CreateDetails(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	repo := activity.NewRepo(tx, testutil.Logger(t))

	u := testutil.SeedUser(t, ctx, tx, "details@example.com")
	at := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	l := activity.NewLog(u.ID, activity.TypeAssessment, "RECORD_MOOD", "happy", map[string]any{"mood": "happy", "streakDays": 3}, nil, at)
	require.NoError(t, repo.Create(ctx, tx, l))

	logs, err := repo.List(ctx, tx, u.ID, activity.Filter{})
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "happy", logs[0].Details["mood"])
	assert.EqualValues(t, 3, logs[0].Details["streakDays"])

	bad := activity.NewLog(u.ID, activity.TypeLogin, "LOGIN", "", map[string]any{"ch": make(chan int)}, nil, at)
	assert.Error(t, repo.Create(ctx, tx, bad))
}
