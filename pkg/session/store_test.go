package session

import (
	"bytes"
	"context"
	"testing"
	"time"

	"aerobook/pkg/cache"
	"aerobook/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name   string   `json:"name"`
	Count  int      `json:"count"`
	Labels []string `json:"labels"`
}

func newTestStore(t *testing.T) (*Store, cache.Cache) {
	t.Helper()
	mem := cache.NewMemoryCache()
	log := logger.NewWithWriter("development", &bytes.Buffer{})
	return newStore(mem, log, "test-sid", time.Minute), mem
}

func TestStore_RoundTrip(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	in := sample{Name: "LHR-DXB", Count: 3, Labels: []string{"a", "b"}}
	require.NoError(t, store.Put(ctx, "params", in))

	var out sample
	require.True(t, store.Get(ctx, "params", &out))
	assert.Equal(t, in, out)
}

func TestStore_AbsentKeyIsNotAnError(t *testing.T) {
	store, _ := newTestStore(t)

	var out sample
	assert.False(t, store.Get(context.Background(), "missing", &out))
	assert.Zero(t, out)
}

func TestStore_MalformedValueReadsAsAbsentAndIsDiscarded(t *testing.T) {
	store, mem := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, mem.Set(ctx, "sess:test-sid:params", "{not json", time.Minute))

	var out sample
	assert.False(t, store.Get(ctx, "params", &out))

	// The corrupt value must not survive the failed read.
	_, err := mem.Get(ctx, "sess:test-sid:params")
	assert.ErrorIs(t, err, cache.ErrNotFound)
}

func TestStore_RemoveThenGet(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "k", sample{Name: "x"}))
	store.Remove(ctx, "k")

	var out sample
	assert.False(t, store.Get(ctx, "k", &out))
}

func TestStore_KeysAreScopedBySession(t *testing.T) {
	mem := cache.NewMemoryCache()
	log := logger.NewWithWriter("development", &bytes.Buffer{})
	a := newStore(mem, log, "sid-a", time.Minute)
	b := newStore(mem, log, "sid-b", time.Minute)
	ctx := context.Background()

	require.NoError(t, a.Put(ctx, "k", sample{Name: "only-a"}))

	var out sample
	assert.False(t, b.Get(ctx, "k", &out))
	assert.True(t, a.Get(ctx, "k", &out))
}
