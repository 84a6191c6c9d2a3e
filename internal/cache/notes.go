// Package cache puts a Redis read-through cache in front of a note store.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ahsanfayaz52/notesservice/internal/models"
	"github.com/ahsanfayaz52/notesservice/internal/notes"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// NoteCache caches each owner's note list. Any write through the cache drops
// the owner's entry, so readers never see a list older than their last write.
// Redis failures fall back to the wrapped store.
//
// When dropping an entry fails the owner is marked stale, and their lists are
// read from the store until a fresh list has been written back to Redis.
type NoteCache struct {
	next   notes.Store
	client *redis.Client
	ttl    time.Duration
	logger zerolog.Logger

	mu    sync.Mutex
	stale map[string]uint64 // owner -> failed invalidation count
}

var _ notes.Store = (*NoteCache)(nil)

func NewNoteCache(next notes.Store, client *redis.Client, ttl time.Duration, logger zerolog.Logger) *NoteCache {
	return &NoteCache{
		next:   next,
		client: client,
		ttl:    ttl,
		logger: logger,
		stale:  make(map[string]uint64),
	}
}

// ListKey returns the Redis key holding ownerID's note list.
func ListKey(ownerID string) string {
	return fmt.Sprintf("notes:owner:%s", ownerID)
}

func (c *NoteCache) ListByOwner(ctx context.Context, ownerID string) ([]models.Note, error) {
	key := ListKey(ownerID)

	gen, stale := c.staleGen(ownerID)
	if !stale {
		data, err := c.client.Get(ctx, key).Bytes()
		switch {
		case err == nil:
			var cached []models.Note
			if err := json.Unmarshal(data, &cached); err == nil {
				return cached, nil
			}
			c.logger.Warn().Str("key", key).Msg("discarding undecodable cache entry")
		case !errors.Is(err, redis.Nil):
			c.logger.Warn().Err(err).Str("key", key).Msg("cache read failed")
		}
	}

	list, err := c.next.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(list)
	if err != nil {
		return list, nil
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("cache write failed")
		return list, nil
	}
	if stale {
		c.clearStale(ownerID, gen)
	}
	return list, nil
}

func (c *NoteCache) Insert(ctx context.Context, n models.Note) (models.Note, error) {
	note, err := c.next.Insert(ctx, n)
	if err != nil {
		return note, err
	}
	c.invalidate(ctx, note.UserID)
	return note, nil
}

func (c *NoteCache) FindByID(ctx context.Context, id string) (models.Note, error) {
	return c.next.FindByID(ctx, id)
}

func (c *NoteCache) Update(ctx context.Context, id string, patch models.NotePatch) (models.Note, error) {
	note, err := c.next.Update(ctx, id, patch)
	if err != nil {
		return note, err
	}
	c.invalidate(ctx, note.UserID)
	return note, nil
}

func (c *NoteCache) Delete(ctx context.Context, id string) (models.Note, error) {
	note, err := c.next.Delete(ctx, id)
	if err != nil {
		return note, err
	}
	c.invalidate(ctx, note.UserID)
	return note, nil
}

func (c *NoteCache) invalidate(ctx context.Context, ownerID string) {
	if err := c.client.Del(ctx, ListKey(ownerID)).Err(); err != nil {
		c.logger.Warn().Err(err).Str("owner", ownerID).Msg("cache invalidation failed")
		c.mu.Lock()
		c.stale[ownerID]++
		c.mu.Unlock()
	}
}

func (c *NoteCache) staleGen(ownerID string) (uint64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	gen, ok := c.stale[ownerID]
	return gen, ok
}

// clearStale unmarks ownerID unless another invalidation failed after gen
// was read, in which case the list just written may already be outdated.
func (c *NoteCache) clearStale(ownerID string, gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stale[ownerID] == gen {
		delete(c.stale, ownerID)
	}
}

// NewClient connects to Redis and verifies the connection.
func NewClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return client, nil
}
