package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orlogbook/orlog-api/internal/docstore"
)

func TestCollectionCRUD(t *testing.T) {
	ctx := context.Background()
	col := NewStore().Collection("things")

	id, err := col.Add(ctx, docstore.Document{"name": "first", "rank": "1"})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	snap, err := col.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "first", snap.Data["name"])

	require.NoError(t, col.Update(ctx, id, docstore.Document{"name": "renamed"}))
	snap, err = col.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "renamed", snap.Data["name"])
	assert.Equal(t, "1", snap.Data["rank"])

	err = col.Update(ctx, "missing", docstore.Document{"name": "x"})
	assert.ErrorIs(t, err, docstore.ErrNotFound)

	require.NoError(t, col.Delete(ctx, id))
	_, err = col.Get(ctx, id)
	assert.ErrorIs(t, err, docstore.ErrNotFound)

	// deleting again is not an error
	assert.NoError(t, col.Delete(ctx, id))
}

func TestCollectionFind(t *testing.T) {
	ctx := context.Background()
	col := NewStore().Collection("ops")

	docs := []docstore.Document{
		{"room": "OR-1", "status": "scheduled", "date": "2024-06-15T00:00:00Z"},
		{"room": "OR-1", "status": "completed", "date": "2024-06-16T00:00:00Z"},
		{"room": "OR-2", "status": "scheduled", "date": "2024-06-17T00:00:00Z"},
		{"room": "OR-1", "status": "cancelled", "date": "2024-06-18T00:00:00Z"},
	}
	for _, doc := range docs {
		_, err := col.Add(ctx, doc)
		require.NoError(t, err)
	}

	snaps, err := col.Find(ctx, docstore.NewQuery().
		Where("room", docstore.OpEqual, "OR-1").
		OrderBy("date", false))
	require.NoError(t, err)
	require.Len(t, snaps, 3)
	assert.Equal(t, "2024-06-15T00:00:00Z", snaps[0].Data["date"])
	assert.Equal(t, "2024-06-18T00:00:00Z", snaps[2].Data["date"])

	snaps, err = col.Find(ctx, docstore.NewQuery().
		Where("status", docstore.OpIn, []string{"scheduled", "completed"}).
		Where("date", docstore.OpGreaterOrEqual, "2024-06-16T00:00:00Z").
		OrderBy("date", true))
	require.NoError(t, err)
	require.Len(t, snaps, 2)
	assert.Equal(t, "2024-06-17T00:00:00Z", snaps[0].Data["date"])

	snaps, err = col.Find(ctx, docstore.NewQuery().
		OrderBy("date", false).
		WithOffset(1).
		WithLimit(2))
	require.NoError(t, err)
	require.Len(t, snaps, 2)
	assert.Equal(t, "2024-06-16T00:00:00Z", snaps[0].Data["date"])

	snaps, err = col.Find(ctx, docstore.NewQuery().WithOffset(10))
	require.NoError(t, err)
	assert.Empty(t, snaps)
}

func TestCollectionCount(t *testing.T) {
	ctx := context.Background()
	col := NewStore().Collection("ops")

	for _, status := range []string{"scheduled", "scheduled", "completed"} {
		_, err := col.Add(ctx, docstore.Document{"status": status})
		require.NoError(t, err)
	}

	n, err := col.Count(ctx, []docstore.Predicate{
		{Field: "status", Op: docstore.OpEqual, Value: "scheduled"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = col.Count(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestFindLessThanExcludesBound(t *testing.T) {
	ctx := context.Background()
	col := NewStore().Collection("ops")

	for _, date := range []string{
		"2024-06-15T23:59:59Z",
		"2024-06-16T00:00:00Z",
	} {
		_, err := col.Add(ctx, docstore.Document{"date": date})
		require.NoError(t, err)
	}

	snaps, err := col.Find(ctx, docstore.NewQuery().
		Where("date", docstore.OpLessThan, "2024-06-16T00:00:00Z"))
	require.NoError(t, err)
	require.Len(t, snaps, 1)
	assert.Equal(t, "2024-06-15T23:59:59Z", snaps[0].Data["date"])
}

func TestConcurrentReadsOnFreshCollection(t *testing.T) {
	ctx := context.Background()
	col := NewStore().Collection("untouched")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := col.Get(ctx, "missing")
			assert.ErrorIs(t, err, docstore.ErrNotFound)

			snaps, err := col.Find(ctx, docstore.NewQuery())
			assert.NoError(t, err)
			assert.Empty(t, snaps)

			n, err := col.Count(ctx, nil)
			assert.NoError(t, err)
			assert.Zero(t, n)
		}()
	}
	wg.Wait()
}

func TestSnapshotsAreIsolated(t *testing.T) {
	ctx := context.Background()
	col := NewStore().Collection("things")

	id, err := col.Add(ctx, docstore.Document{"name": "original"})
	require.NoError(t, err)

	snap, err := col.Get(ctx, id)
	require.NoError(t, err)
	snap.Data["name"] = "mutated"

	again, err := col.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "original", again.Data["name"])
}

func TestUpdateCopiesSliceValues(t *testing.T) {
	ctx := context.Background()
	col := NewStore().Collection("ops")

	id, err := col.Add(ctx, docstore.Document{"assistants": []string{"dr-a"}})
	require.NoError(t, err)

	assistants := []string{"dr-b", "dr-c"}
	require.NoError(t, col.Update(ctx, id, docstore.Document{"assistants": assistants}))

	assistants[0] = "mutated"

	snap, err := col.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, []string{"dr-b", "dr-c"}, snap.Data["assistants"])
}
