// Package cache provides a Redis read-through cache in front of an endpoint registry.
package cache

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	endpointUseCase "github.com/allisson/coursehook/internal/endpoint/usecase"
)

const (
	keyPrefix = "coursehook:endpoint:"

	// absentMarker is cached for courses without an endpoint. Endpoint URLs are
	// absolute, so the marker never collides with a real value.
	absentMarker = "-"
)

// CachedRegistry caches EndpointFor lookups in Redis, including misses.
// Redis failures degrade to uncached lookups against the wrapped registry.
type CachedRegistry struct {
	next   endpointUseCase.EndpointRegistry
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// EndpointFor returns the cached lookup for courseID or resolves and caches it.
// Lookup errors from the wrapped registry are returned and never cached.
func (c *CachedRegistry) EndpointFor(ctx context.Context, courseID string) (string, bool, error) {
	value, err := c.client.Get(ctx, cacheKey(courseID)).Result()
	switch {
	case err == nil:
		if value == absentMarker {
			return "", false, nil
		}
		return value, true, nil
	case !errors.Is(err, redis.Nil):
		c.logger.Warn("endpoint cache read failed",
			slog.String("course_id", courseID),
			slog.Any("error", err),
		)
	}

	url, found, err := c.next.EndpointFor(ctx, courseID)
	if err != nil {
		return "", false, err
	}

	value = absentMarker
	if found {
		value = url
	}
	if err := c.client.Set(ctx, cacheKey(courseID), value, c.ttl).Err(); err != nil {
		c.logger.Warn("endpoint cache write failed",
			slog.String("course_id", courseID),
			slog.Any("error", err),
		)
	}

	return url, found, nil
}

// Invalidate drops the cached lookup of a course.
func (c *CachedRegistry) Invalidate(ctx context.Context, courseID string) error {
	return c.client.Del(ctx, cacheKey(courseID)).Err()
}

func cacheKey(courseID string) string {
	return keyPrefix + courseID
}

// NewCachedRegistry wraps next with a Redis cache whose entries expire after ttl.
func NewCachedRegistry(
	next endpointUseCase.EndpointRegistry,
	client *redis.Client,
	ttl time.Duration,
	logger *slog.Logger,
) *CachedRegistry {
	if ttl < 0 {
		ttl = 0
	}
	return &CachedRegistry{
		next:   next,
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}
