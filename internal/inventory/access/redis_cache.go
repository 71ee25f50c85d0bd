package access

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tair/field-inventory/pkg/logger"
)

const invalidateAttempts = 3

// setScope writes the entry only when its version is not older than the
// fence left by the latest invalidation.
var setScope = redis.NewScript(`
local fence = tonumber(redis.call('GET', KEYS[2]) or '0')
if tonumber(ARGV[1]) < fence then
	return 0
end
if tonumber(ARGV[3]) > 0 then
	redis.call('SET', KEYS[1], ARGV[2], 'PX', ARGV[3])
else
	redis.call('SET', KEYS[1], ARGV[2])
end
return 1
`)

// invalidateScope raises the fence to the committed version and drops the entry
var invalidateScope = redis.NewScript(`
local fence = tonumber(redis.call('GET', KEYS[2]) or '0')
if tonumber(ARGV[1]) > fence then
	redis.call('SET', KEYS[2], ARGV[1])
end
redis.call('DEL', KEYS[1])
return 1
`)

// RedisScopeCache caches member scopes in Redis. Each user has an entry and a
// version fence; both share a hash tag so the scripts run on one slot.
type RedisScopeCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisScopeCache creates a new Redis backed scope cache
func NewRedisScopeCache(client *redis.Client, ttl time.Duration) *RedisScopeCache {
	return &RedisScopeCache{client: client, ttl: ttl}
}

var _ ScopeCache = (*RedisScopeCache)(nil)

func scopeKey(userID uint) string {
	return fmt.Sprintf("scope:{user:%d}", userID)
}

func fenceKey(userID uint) string {
	return fmt.Sprintf("scope:{user:%d}:version", userID)
}

// Get returns cached location ids; a miss, a stale entry or a Redis error
// reports false.
func (c *RedisScopeCache) Get(ctx context.Context, userID uint) ([]uint, bool) {
	values, err := c.client.MGet(ctx, scopeKey(userID), fenceKey(userID)).Result()
	if err != nil {
		logger.Warn(ctx).Err(err).Uint("user_id", userID).Msg("Scope cache read failed")
		return nil, false
	}
	raw, ok := values[0].(string)
	if !ok {
		return nil, false
	}

	var scope CachedScope
	if err := json.Unmarshal([]byte(raw), &scope); err != nil {
		logger.Warn(ctx).Err(err).Uint("user_id", userID).Msg("Scope cache entry is corrupt")
		return nil, false
	}
	if fence, ok := values[1].(string); ok {
		v, err := strconv.ParseUint(fence, 10, 64)
		if err != nil || scope.Version < v {
			return nil, false
		}
	}
	return scope.LocationIDs, true
}

// Set stores the scope for the configured TTL unless it is older than the fence
func (c *RedisScopeCache) Set(ctx context.Context, userID uint, scope CachedScope) {
	if scope.LocationIDs == nil {
		scope.LocationIDs = []uint{}
	}
	raw, err := json.Marshal(scope)
	if err != nil {
		return
	}
	stored, err := setScope.Run(ctx, c.client,
		[]string{scopeKey(userID), fenceKey(userID)},
		scope.Version, raw, c.ttl.Milliseconds(),
	).Int()
	if err != nil {
		logger.Warn(ctx).Err(err).Uint("user_id", userID).Msg("Scope cache write failed")
		return
	}
	if stored == 0 {
		logger.Debug(ctx).
			Uint("user_id", userID).
			Uint64("version", scope.Version).
			Msg("Discarded outdated scope")
	}
}

// Invalidate raises the user's fence to version and deletes the entry,
// retrying a few times before giving up. An entry left behind after the
// retries lives until its TTL expires.
func (c *RedisScopeCache) Invalidate(ctx context.Context, userID uint, version uint64) {
	keys := []string{scopeKey(userID), fenceKey(userID)}

	var err error
	for attempt := 1; ; attempt++ {
		if err = invalidateScope.Run(ctx, c.client, keys, version).Err(); err == nil {
			return
		}
		if attempt == invalidateAttempts || ctx.Err() != nil {
			break
		}
		time.Sleep(time.Duration(attempt) * 50 * time.Millisecond)
	}
	logger.Error(ctx).
		Err(err).
		Uint("user_id", userID).
		Uint64("version", version).
		Dur("ttl", c.ttl).
		Msg("Scope cache invalidation failed, stale scope may be served until it expires")
}
