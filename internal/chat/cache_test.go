package chat

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewCache(rdb), mr
}

func testMessage(id int64, sender, content string) FormattedMessage {
	return FormattedMessage{
		MsgID:     id,
		Sender:    sender,
		Content:   content,
		Timestamp: "2025-03-14T09:26:53Z",
		Type:      "text",
	}
}

func TestCacheMissThenHit(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	_, hit, err := cache.Get(ctx, "alice", "bob")
	require.NoError(t, err)
	assert.False(t, hit)

	msgs := []FormattedMessage{testMessage(1, "alice", "hi")}
	require.NoError(t, cache.Set(ctx, "alice", "bob", msgs))

	got, hit, err := cache.Get(ctx, "alice", "bob")
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, msgs, got)

	// Directions are distinct keys
	_, hit, err = cache.Get(ctx, "bob", "alice")
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestCacheSetAppliesTTL(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "alice", "bob", []FormattedMessage{}))
	assert.Equal(t, CacheTTL, mr.TTL("messages:alice:bob"))
}

func TestCacheExpiryForcesMiss(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "alice", "bob", []FormattedMessage{testMessage(1, "alice", "hi")}))
	mr.FastForward(CacheTTL + 1)

	_, hit, err := cache.Get(ctx, "alice", "bob")
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestCacheAppendBothCreatesAbsentEntries(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	msg := testMessage(1, "alice", "hi")
	require.NoError(t, cache.AppendBoth(ctx, "alice", "bob", msg))

	got, hit, err := cache.Get(ctx, "alice", "bob")
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, []FormattedMessage{msg}, got)

	got, hit, err = cache.Get(ctx, "bob", "alice")
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, []FormattedMessage{msg}, got)
}

func TestCacheAppendBothExtendsExistingEntries(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	first := testMessage(1, "alice", "one")
	second := testMessage(2, "bob", "two")
	require.NoError(t, cache.AppendBoth(ctx, "alice", "bob", first))
	require.NoError(t, cache.AppendBoth(ctx, "bob", "alice", second))

	got, _, err := cache.Get(ctx, "alice", "bob")
	require.NoError(t, err)
	assert.Equal(t, []FormattedMessage{first, second}, got)
}

func TestCacheEditBothSkipsAbsentSide(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "alice", "bob", []FormattedMessage{testMessage(1, "alice", "hi")}))

	require.NoError(t, cache.EditBoth(ctx, "alice", "bob", 1, "hello"))

	got, hit, err := cache.Get(ctx, "alice", "bob")
	require.NoError(t, err)
	require.True(t, hit)
	assert.Equal(t, "hello", got[0].Content)
	assert.True(t, got[0].Edited)

	// Absent side stays absent; it repopulates from the store on its
	// own next miss instead of being seeded with a partial view.
	assert.False(t, mr.Exists("messages:bob:alice"))
}

func TestCacheDeleteBothMasksContent(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "alice", "bob", []FormattedMessage{testMessage(1, "alice", "secret")}))
	require.NoError(t, cache.Set(ctx, "bob", "alice", []FormattedMessage{testMessage(1, "alice", "secret")}))

	require.NoError(t, cache.DeleteBoth(ctx, "alice", "bob", 1))

	for _, side := range [][2]string{{"alice", "bob"}, {"bob", "alice"}} {
		got, hit, err := cache.Get(ctx, side[0], side[1])
		require.NoError(t, err)
		require.True(t, hit)
		assert.Equal(t, DeletedPlaceholder, got[0].Content)
		assert.True(t, got[0].Deleted)
	}
}

func TestCacheRemoveBothDropsMessage(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	msgs := []FormattedMessage{testMessage(1, "alice", "one"), testMessage(2, "alice", "two")}
	require.NoError(t, cache.Set(ctx, "alice", "bob", msgs))

	require.NoError(t, cache.RemoveBoth(ctx, "alice", "bob", 1))

	got, _, err := cache.Get(ctx, "alice", "bob")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int64(2), got[0].MsgID)
}

func TestCacheReactBothOverwrites(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "alice", "bob", []FormattedMessage{testMessage(1, "alice", "hi")}))

	require.NoError(t, cache.ReactBoth(ctx, "alice", "bob", 1, "👍"))
	require.NoError(t, cache.ReactBoth(ctx, "alice", "bob", 1, "❤️"))

	got, _, err := cache.Get(ctx, "alice", "bob")
	require.NoError(t, err)
	require.NotNil(t, got[0].Reaction)
	assert.Equal(t, "❤️", *got[0].Reaction)
}

func TestCacheDropRemovesBothDirections(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "alice", "bob", []FormattedMessage{}))
	require.NoError(t, cache.Set(ctx, "bob", "alice", []FormattedMessage{}))

	require.NoError(t, cache.Drop(ctx, "alice", "bob"))
	assert.False(t, mr.Exists("messages:alice:bob"))
	assert.False(t, mr.Exists("messages:bob:alice"))
}
