package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// CacheTTL bounds how long a conversation entry may serve reads without
// a store re-fetch. Expiry is the cache store's own timer; there is no
// eviction loop.
const CacheTTL = 3600 * time.Second

// Cache is a read-through cache of materialized conversation history.
// Keys are directional: (A,B) and (B,A) are distinct entries holding the
// same message set from each side's perspective, and both are updated on
// every mutation. Entries have no locking; concurrent writers to one key
// are last-write-wins and the TTL self-heals staleness.
type Cache struct {
	rdb *redis.Client
}

func NewCache(rdb *redis.Client) *Cache {
	return &Cache{rdb: rdb}
}

func cacheKey(user, peer string) string {
	return fmt.Sprintf("messages:%s:%s", user, peer)
}

// Get returns the cached conversation for (user, peer). The second
// return value reports a hit.
func (c *Cache) Get(ctx context.Context, user, peer string) ([]FormattedMessage, bool, error) {
	raw, err := c.rdb.Get(ctx, cacheKey(user, peer)).Result()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var msgs []FormattedMessage
	if err := json.Unmarshal([]byte(raw), &msgs); err != nil {
		return nil, false, err
	}
	return msgs, true, nil
}

// Set overwrites the (user, peer) entry with a fresh TTL.
func (c *Cache) Set(ctx context.Context, user, peer string, msgs []FormattedMessage) error {
	raw, err := json.Marshal(msgs)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, cacheKey(user, peer), raw, CacheTTL).Err()
}

// Drop removes both directions of the pair. Used after a partial
// failure so the next read repopulates from the store.
func (c *Cache) Drop(ctx context.Context, user, peer string) error {
	return c.rdb.Del(ctx, cacheKey(user, peer), cacheKey(peer, user)).Err()
}

// apply rewrites one direction's entry. Inserting mutations create an
// absent entry from the new message alone; updating mutations leave an
// absent side absent so its next miss repopulates from the store.
func (c *Cache) apply(ctx context.Context, key string, insert *FormattedMessage, update func([]FormattedMessage) []FormattedMessage) error {
	raw, err := c.rdb.Get(ctx, key).Result()
	if err == redis.Nil {
		if insert == nil {
			return nil
		}
		out, err := json.Marshal([]FormattedMessage{*insert})
		if err != nil {
			return err
		}
		return c.rdb.Set(ctx, key, out, CacheTTL).Err()
	}
	if err != nil {
		return err
	}

	var msgs []FormattedMessage
	if err := json.Unmarshal([]byte(raw), &msgs); err != nil {
		return err
	}
	if insert != nil {
		msgs = append(msgs, *insert)
	} else {
		msgs = update(msgs)
	}
	out, err := json.Marshal(msgs)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, key, out, CacheTTL).Err()
}

// applyBoth runs the same rewrite on the sender's and receiver's keys in
// a defined order. The two writes are independent; a crash between them
// leaves the sides transiently divergent until the next miss.
func (c *Cache) applyBoth(ctx context.Context, user, peer string, insert *FormattedMessage, update func([]FormattedMessage) []FormattedMessage) error {
	for _, key := range []string{cacheKey(user, peer), cacheKey(peer, user)} {
		if err := c.apply(ctx, key, insert, update); err != nil {
			return err
		}
	}
	return nil
}

// AppendBoth appends a newly inserted message to both directions,
// creating a fresh single-message entry where one is absent.
func (c *Cache) AppendBoth(ctx context.Context, user, peer string, msg FormattedMessage) error {
	return c.applyBoth(ctx, user, peer, &msg, nil)
}

// EditBoth rewrites the message's content and edited flag in both
// directions where an entry exists.
func (c *Cache) EditBoth(ctx context.Context, user, peer string, msgID int64, content string) error {
	return c.applyBoth(ctx, user, peer, nil, func(msgs []FormattedMessage) []FormattedMessage {
		for i := range msgs {
			if msgs[i].MsgID == msgID {
				msgs[i].Content = content
				msgs[i].Edited = true
			}
		}
		return msgs
	})
}

// DeleteBoth masks a soft-deleted message in both directions where an
// entry exists.
func (c *Cache) DeleteBoth(ctx context.Context, user, peer string, msgID int64) error {
	return c.applyBoth(ctx, user, peer, nil, func(msgs []FormattedMessage) []FormattedMessage {
		for i := range msgs {
			if msgs[i].MsgID == msgID {
				msgs[i].Content = DeletedPlaceholder
				msgs[i].Deleted = true
			}
		}
		return msgs
	})
}

// RemoveBoth drops a hard-deleted message from both directions where an
// entry exists.
func (c *Cache) RemoveBoth(ctx context.Context, user, peer string, msgID int64) error {
	return c.applyBoth(ctx, user, peer, nil, func(msgs []FormattedMessage) []FormattedMessage {
		kept := msgs[:0]
		for _, m := range msgs {
			if m.MsgID != msgID {
				kept = append(kept, m)
			}
		}
		return kept
	})
}

// ReactBoth overwrites the message's reaction slot in both directions
// where an entry exists.
func (c *Cache) ReactBoth(ctx context.Context, user, peer string, msgID int64, reaction string) error {
	return c.applyBoth(ctx, user, peer, nil, func(msgs []FormattedMessage) []FormattedMessage {
		for i := range msgs {
			if msgs[i].MsgID == msgID {
				r := reaction
				msgs[i].Reaction = &r
			}
		}
		return msgs
	})
}
