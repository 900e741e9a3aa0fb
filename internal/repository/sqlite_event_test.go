package repository

import (
	"context"
	"testing"

	"github.com/alexanderramin/dayroute/internal/domain"
	"github.com/alexanderramin/dayroute/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventRepo_UpsertAndGetByID(t *testing.T) {
	repo := NewSQLiteEventRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	e := testutil.NewTestEvent("Jazz Night",
		testutil.WithTime("19:30"),
		testutil.WithDuration(90),
		testutil.WithPrice(15),
		testutil.WithPopularity(88),
	)
	require.NoError(t, repo.Upsert(ctx, e))

	fetched, err := repo.GetByID(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, *e, *fetched)
	assert.Nil(t, fetched.Capacity)
	require.NotNil(t, fetched.Price)
	assert.Equal(t, 15, *fetched.Price)
}

func TestEventRepo_UpsertUpdatesExisting(t *testing.T) {
	repo := NewSQLiteEventRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	e := testutil.NewTestEvent("Draft")
	require.NoError(t, repo.Upsert(ctx, e))

	e.Title = "Final"
	e.Popularity = 10
	require.NoError(t, repo.Upsert(ctx, e))

	fetched, err := repo.GetByID(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, "Final", fetched.Title)
	assert.Equal(t, 10, fetched.Popularity)

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestEventRepo_GetByID_NotFound(t *testing.T) {
	repo := NewSQLiteEventRepo(testutil.NewTestDB(t))

	_, err := repo.GetByID(context.Background(), "nonexistent")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestEventRepo_ListFilters(t *testing.T) {
	repo := NewSQLiteEventRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	late := testutil.NewTestEvent("Late Set", testutil.WithTime("21:00"))
	early := testutil.NewTestEvent("Morning Set", testutil.WithTime("10:00"))
	food := testutil.NewTestEvent("Street Food", testutil.WithCategory(domain.CategoryFood))
	sunday := testutil.NewTestEvent("Sunday Set", testutil.WithDate("2025-07-13"))
	for _, e := range []*domain.Event{late, early, food, sunday} {
		require.NoError(t, repo.Upsert(ctx, e))
	}

	all, err := repo.List(ctx, EventFilter{})
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, early.ID, all[0].ID, "ordered by date then start")
	assert.Equal(t, sunday.ID, all[3].ID)

	music, err := repo.List(ctx, EventFilter{Category: domain.CategoryMusic, Date: "2025-07-12"})
	require.NoError(t, err)
	require.Len(t, music, 2)
	assert.Equal(t, early.ID, music[0].ID)
	assert.Equal(t, late.ID, music[1].ID)
}

func TestEventRepo_Delete(t *testing.T) {
	repo := NewSQLiteEventRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	e := testutil.NewTestEvent("Gone")
	require.NoError(t, repo.Upsert(ctx, e))
	require.NoError(t, repo.Delete(ctx, e.ID))

	_, err := repo.GetByID(ctx, e.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, e.ID), ErrNotFound)
}
