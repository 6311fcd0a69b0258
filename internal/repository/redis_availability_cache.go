package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	pkgredis "github.com/slotstage/backend/pkg/redis"
	"github.com/slotstage/backend/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const availabilityKeyPrefix = "event:slots:available:"

// RedisAvailabilityCache implements AvailabilityCache using Redis
type RedisAvailabilityCache struct {
	client *pkgredis.Client
}

// NewRedisAvailabilityCache creates a new RedisAvailabilityCache
func NewRedisAvailabilityCache(client *pkgredis.Client) *RedisAvailabilityCache {
	return &RedisAvailabilityCache{client: client}
}

func availabilityKey(eventID string) string {
	return availabilityKeyPrefix + eventID
}

// GetAvailableSlotIDs returns the cached set and whether it was present
func (c *RedisAvailabilityCache) GetAvailableSlotIDs(ctx context.Context, eventID string) ([]string, bool, error) {
	ctx, span := telemetry.StartSpan(ctx, "cache.redis.availability.get")
	defer span.End()

	span.SetAttributes(attribute.String("event_id", eventID))

	raw, err := c.client.Get(ctx, availabilityKey(eventID))
	if err != nil {
		if pkgredis.IsNil(err) {
			span.SetAttributes(attribute.Bool("cache_hit", false))
			span.SetStatus(codes.Ok, "")
			return nil, false, nil
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, false, fmt.Errorf("failed to read availability cache: %w", err)
	}

	var slotIDs []string
	if err := json.Unmarshal([]byte(raw), &slotIDs); err != nil {
		// Corrupt entry, treat as a miss and drop it
		_ = c.client.Del(ctx, availabilityKey(eventID))
		span.SetAttributes(attribute.Bool("cache_hit", false))
		span.SetStatus(codes.Ok, "")
		return nil, false, nil
	}

	span.SetAttributes(
		attribute.Bool("cache_hit", true),
		attribute.Int("count", len(slotIDs)),
	)
	span.SetStatus(codes.Ok, "")
	return slotIDs, true, nil
}

// SetAvailableSlotIDs stores the set with a TTL
func (c *RedisAvailabilityCache) SetAvailableSlotIDs(ctx context.Context, eventID string, slotIDs []string, ttl time.Duration) error {
	ctx, span := telemetry.StartSpan(ctx, "cache.redis.availability.set")
	defer span.End()

	span.SetAttributes(
		attribute.String("event_id", eventID),
		attribute.Int("count", len(slotIDs)),
	)

	data, err := json.Marshal(slotIDs)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to marshal availability set: %w", err)
	}

	if err := c.client.Set(ctx, availabilityKey(eventID), data, ttl); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to write availability cache: %w", err)
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

// Invalidate drops the cached set for an event
func (c *RedisAvailabilityCache) Invalidate(ctx context.Context, eventID string) error {
	ctx, span := telemetry.StartSpan(ctx, "cache.redis.availability.invalidate")
	defer span.End()

	span.SetAttributes(attribute.String("event_id", eventID))

	if err := c.client.Del(ctx, availabilityKey(eventID)); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to invalidate availability cache: %w", err)
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

// Ensure RedisAvailabilityCache implements AvailabilityCache
var _ AvailabilityCache = (*RedisAvailabilityCache)(nil)
