package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const inflightKeyPrefix = "coursehook:inflight:"

// releaseScript deletes the lock only while it still holds our token, so an
// expired lock taken over by another instance is never released by us.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisInflightGuard shares in-flight marks between instances through Redis.
// Each mark expires after ttl so a crashed instance cannot block a course forever.
type RedisInflightGuard struct {
	client *redis.Client
	ttl    time.Duration

	mu     sync.Mutex
	tokens map[string]string
}

// TryAcquire sets the course lock with SET NX and remembers its token.
func (g *RedisInflightGuard) TryAcquire(ctx context.Context, courseID string) (bool, error) {
	token := uuid.NewString()

	ok, err := g.client.SetNX(ctx, inflightKey(courseID), token, g.ttl).Result()
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}

	g.mu.Lock()
	g.tokens[courseID] = token
	g.mu.Unlock()
	return true, nil
}

// Release deletes the course lock if this guard still owns it.
func (g *RedisInflightGuard) Release(ctx context.Context, courseID string) error {
	g.mu.Lock()
	token, ok := g.tokens[courseID]
	delete(g.tokens, courseID)
	g.mu.Unlock()

	if !ok {
		return nil
	}
	return releaseScript.Run(ctx, g.client, []string{inflightKey(courseID)}, token).Err()
}

func inflightKey(courseID string) string {
	return inflightKeyPrefix + courseID
}

// NewRedisInflightGuard creates a guard whose locks expire after ttl.
func NewRedisInflightGuard(client *redis.Client, ttl time.Duration) *RedisInflightGuard {
	return &RedisInflightGuard{
		client: client,
		ttl:    ttl,
		tokens: make(map[string]string),
	}
}
