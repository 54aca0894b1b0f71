package store_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"smartschedule/src-server/model"
	"smartschedule/src-server/schedule"
	"smartschedule/src-server/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func newTestDB(t *testing.T) *bun.DB {
	t.Helper()

	db, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	// the snapshot-failure test drops the table from a second statement;
	// :memory: gives each connection its own database
	db.SetMaxOpenConns(1)

	bundb := bun.NewDB(db, sqlitedialect.New())
	require.NoError(t, model.CreateSchema(bundb))
	return bundb
}

func TestStoreCreateListRoundTrip(t *testing.T) {
	bundb := newTestDB(t)
	loc := time.FixedZone("UTC+2", 2*3600)
	s := store.New(bundb, loc, "user-1")
	ctx := context.Background()

	events, err := s.Create(ctx, schedule.EventDraft{
		Title:       "Standup",
		Date:        "2024-03-01",
		Time:        "09:00",
		Description: "daily sync",
		Category:    "work",
	})
	require.NoError(t, err)
	require.Len(t, events, 1)

	got := events[0]
	assert.NotEmpty(t, got.ID)
	assert.Equal(t, "Standup", got.Title)
	assert.Equal(t, "2024-03-01", got.Date)
	assert.Equal(t, "09:00", got.Time)
	assert.Equal(t, "daily sync", got.Description)
	assert.Equal(t, "work", got.Category)
	// recurrence defaults to none when the form leaves it out
	assert.Equal(t, "none", got.Recurrence)
}

func TestStoreListIsScopedToOwner(t *testing.T) {
	bundb := newTestDB(t)
	ctx := context.Background()

	mine := store.New(bundb, time.UTC, "user-1")
	theirs := store.New(bundb, time.UTC, "user-2")

	_, err := mine.Create(ctx, schedule.EventDraft{Title: "Mine", Date: "2024-03-01", Time: "09:00"})
	require.NoError(t, err)

	events, err := theirs.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestStoreCreateRejectedWhenNotSignedIn(t *testing.T) {
	bundb := newTestDB(t)
	ctx := context.Background()

	s := store.New(bundb, time.UTC, "")
	_, err := s.Create(ctx, schedule.EventDraft{Title: "Gym", Date: "2024-03-01", Time: "08:00"})
	require.ErrorIs(t, err, schedule.ErrNotSignedIn)

	// rejected before any store call: the table stays empty
	count, err := bundb.NewSelect().Model((*model.Event)(nil)).Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestStoreUpdateTouchesOnlyTargetRow(t *testing.T) {
	bundb := newTestDB(t)
	ctx := context.Background()
	s := store.New(bundb, time.UTC, "user-1")

	_, err := s.Create(ctx, schedule.EventDraft{Title: "Gym", Date: "2024-03-01", Time: "08:00", Category: "health"})
	require.NoError(t, err)
	events, err := s.Create(ctx, schedule.EventDraft{Title: "Standup", Date: "2024-03-01", Time: "09:00", Category: "work"})
	require.NoError(t, err)
	require.Len(t, events, 2)
	untouched := events[0]

	changed := events[1]
	changed.Title = "Standup (remote)"
	changed.Description = "moved to the call"
	changed.Time = "09:15"

	events, err = s.Update(ctx, changed)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, untouched, events[0])
	assert.Equal(t, "Standup (remote)", events[1].Title)
	assert.Equal(t, "09:15", events[1].Time)
	assert.Equal(t, changed.ID, events[1].ID)
}

func TestStoreUpdateCannotTouchForeignRows(t *testing.T) {
	bundb := newTestDB(t)
	ctx := context.Background()

	mine := store.New(bundb, time.UTC, "user-1")
	events, err := mine.Create(ctx, schedule.EventDraft{Title: "Mine", Date: "2024-03-01", Time: "09:00"})
	require.NoError(t, err)

	theirs := store.New(bundb, time.UTC, "user-2")
	stolen := events[0]
	stolen.Title = "Hijacked"
	_, err = theirs.Update(ctx, stolen)
	require.NoError(t, err)

	events, err = mine.List(ctx)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "Mine", events[0].Title)
}

func TestStoreDelete(t *testing.T) {
	bundb := newTestDB(t)
	ctx := context.Background()
	s := store.New(bundb, time.UTC, "user-1")

	events, err := s.Create(ctx, schedule.EventDraft{Title: "Gym", Date: "2024-03-01", Time: "08:00"})
	require.NoError(t, err)

	events, err = s.Delete(ctx, events[0].ID)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestStoreFailedListKeepsLastSnapshot(t *testing.T) {
	bundb := newTestDB(t)
	ctx := context.Background()
	s := store.New(bundb, time.UTC, "user-1")

	events, err := s.Create(ctx, schedule.EventDraft{Title: "Gym", Date: "2024-03-01", Time: "08:00"})
	require.NoError(t, err)
	require.Len(t, events, 1)

	_, err = bundb.ExecContext(ctx, "DROP TABLE events")
	require.NoError(t, err)

	_, err = s.List(ctx)
	require.Error(t, err)

	// stale but consistent: the last good read is still what callers see
	snapshot := s.Events()
	require.Len(t, snapshot, 1)
	assert.Equal(t, "Gym", snapshot[0].Title)
}

func TestStoreListOrdersByStartDate(t *testing.T) {
	bundb := newTestDB(t)
	ctx := context.Background()
	s := store.New(bundb, time.UTC, "user-1")

	_, err := s.Create(ctx, schedule.EventDraft{Title: "Later", Date: "2024-03-02", Time: "10:00"})
	require.NoError(t, err)
	events, err := s.Create(ctx, schedule.EventDraft{Title: "Earlier", Date: "2024-03-01", Time: "09:00"})
	require.NoError(t, err)

	require.Len(t, events, 2)
	assert.Equal(t, "Earlier", events[0].Title)
	assert.Equal(t, "Later", events[1].Title)
}
