package items

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/imrishuroy/go-wardrobe-api/internal/logger"
)

// Cache is the part of *redis.Client that CachedStore uses.
type Cache interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// CachedStore puts a read-through Redis cache in front of another Repository.
// Only FindOne is cached. Update and Remove evict the entry after the write
// succeeds. Cache failures are logged and otherwise ignored.
//
// A miss does not fill the cache if this store evicted anything while the
// miss was reading from next. Writes made through another process are only
// seen once their own eviction lands, or after the TTL.
type CachedStore struct {
	next  Repository
	cache Cache
	ttl   time.Duration
	log   *logger.Logger

	evictions atomic.Uint64
}

// NewCachedStore wraps next.
func NewCachedStore(next Repository, cache Cache, ttl time.Duration, log *logger.Logger) *CachedStore {
	if log == nil {
		log = logger.Default()
	}
	return &CachedStore{
		next:  next,
		cache: cache,
		ttl:   ttl,
		log:   log.With("ItemCache"),
	}
}

func cacheKey(id string) string { return "item:" + id }

func (s *CachedStore) Create(ctx context.Context, f Fields) (*Item, error) {
	return s.next.Create(ctx, f)
}

func (s *CachedStore) FindAll(ctx context.Context, q Query) (Page, error) {
	return s.next.FindAll(ctx, q)
}

func (s *CachedStore) FindOne(ctx context.Context, id string) (*Item, error) {
	key := cacheKey(id)
	val, err := s.cache.Get(ctx, key).Result()
	switch {
	case err == nil:
		var it Item
		if jerr := json.Unmarshal([]byte(val), &it); jerr == nil {
			return &it, nil
		}
		s.log.Warn("dropping unreadable cache entry", "item_id", id)
	case !errors.Is(err, redis.Nil):
		s.log.Warn("cache read failed", "item_id", id, "error", err)
	}

	gen := s.evictions.Load()
	it, err := s.next.FindOne(ctx, id)
	if err != nil || it == nil {
		return it, err
	}
	if s.evictions.Load() != gen {
		return it, nil
	}

	if body, err := json.Marshal(it); err == nil {
		if err := s.cache.Set(ctx, key, body, s.ttl).Err(); err != nil {
			s.log.Warn("cache write failed", "item_id", id, "error", err)
		} else if s.evictions.Load() != gen {
			// an eviction raced the fill; drop what was just written
			s.evict(ctx, id)
		}
	}
	return it, nil
}

func (s *CachedStore) Update(ctx context.Context, id string, p Patch) (*Item, error) {
	it, err := s.next.Update(ctx, id, p)
	if err != nil {
		return nil, err
	}
	s.evict(ctx, id)
	return it, nil
}

func (s *CachedStore) Remove(ctx context.Context, id string) error {
	if err := s.next.Remove(ctx, id); err != nil {
		return err
	}
	s.evict(ctx, id)
	return nil
}

func (s *CachedStore) evict(ctx context.Context, id string) {
	s.evictions.Add(1)
	if err := s.cache.Del(ctx, cacheKey(id)).Err(); err != nil {
		s.log.Warn("cache eviction failed", "item_id", id, "error", err)
	}
}
