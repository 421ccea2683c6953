package client

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListStoreLoad(t *testing.T) {
	store := NewListStore(func(ctx context.Context) ([]string, error) {
		return []string{"a", "b"}, nil
	})

	require.NoError(t, store.Load(context.Background()))

	state := store.Snapshot()
	assert.Equal(t, []string{"a", "b"}, state.Items)
	assert.False(t, state.Loading)
	assert.Empty(t, state.Error)
}

func TestListStoreKeepsServerMessage(t *testing.T) {
	store := NewListStore(func(ctx context.Context) ([]string, error) {
		return nil, &APIError{Status: http.StatusForbidden, Message: "Admin access required"}
	})

	err := store.Load(context.Background())
	require.Error(t, err)

	state := store.Snapshot()
	assert.Equal(t, "Admin access required", state.Error)
	assert.False(t, state.Loading)
}

func TestListStoreSnapshotIsACopy(t *testing.T) {
	store := NewListStore(func(ctx context.Context) ([]int, error) {
		return []int{1, 2, 3}, nil
	})
	require.NoError(t, store.Load(context.Background()))

	state := store.Snapshot()
	state.Items[0] = 99

	assert.Equal(t, 1, store.Snapshot().Items[0])
}

// A slow fetch that resolves after a newer one must not overwrite it.
func TestListStoreLatestFetchWins(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	calls := 0

	store := NewListStore(func(ctx context.Context) ([]string, error) {
		calls++
		if calls == 1 {
			close(started)
			<-release
			return []string{"stale"}, nil
		}
		return []string{"fresh"}, nil
	})

	done := make(chan error)
	go func() { done <- store.Load(context.Background()) }()
	<-started

	require.NoError(t, store.Load(context.Background()))
	assert.Equal(t, []string{"fresh"}, store.Snapshot().Items)

	close(release)
	require.NoError(t, <-done)

	state := store.Snapshot()
	assert.Equal(t, []string{"fresh"}, state.Items)
	assert.False(t, state.Loading)
}

func TestListStoreCancelledFetchIsDiscarded(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	store := NewListStore(func(ctx context.Context) ([]string, error) {
		cancel()
		return []string{"late"}, nil
	})

	require.NoError(t, store.Load(ctx))

	state := store.Snapshot()
	assert.Nil(t, state.Items)
	assert.False(t, state.Loading)
	assert.Empty(t, state.Error)
}

func TestSingleStore(t *testing.T) {
	fail := true
	store := NewSingleStore(func(ctx context.Context) (*int, error) {
		if fail {
			return nil, errors.New("boom")
		}
		n := 7
		return &n, nil
	})

	require.Error(t, store.Load(context.Background()))
	assert.Equal(t, "boom", store.Snapshot().Error)

	fail = false
	require.NoError(t, store.Load(context.Background()))

	state := store.Snapshot()
	require.NotNil(t, state.Data)
	assert.Equal(t, 7, *state.Data)
	assert.Empty(t, state.Error)
}

func TestMutateRefetchesOnlyOnSuccess(t *testing.T) {
	refetched := 0
	refetch := func(ctx context.Context) error {
		refetched++
		return nil
	}

	err := mutate(context.Background(), func(ctx context.Context) error { return errors.New("rejected") }, refetch)
	require.Error(t, err)
	assert.Equal(t, 0, refetched)

	err = mutate(context.Background(), func(ctx context.Context) error { return nil }, refetch, refetch)
	require.NoError(t, err)
	assert.Equal(t, 2, refetched)
}
