package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/islandhop/booking-backend/internal/models"
)

const availabilityKeyPrefix = "availability:"

// AvailabilityCache is a short-TTL advisory cache for slot availability
// snapshots. It only serves the browse path; commits always go to the
// database, so a stale entry can never oversell a slot. A nil client
// disables caching entirely.
type AvailabilityCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewAvailabilityCache creates an AvailabilityCache. Pass a nil client to
// run without Redis; every call then falls through to the loader.
func NewAvailabilityCache(client *redis.Client, ttl time.Duration) *AvailabilityCache {
	return &AvailabilityCache{client: client, ttl: ttl}
}

func (c *AvailabilityCache) key(packageID uuid.UUID, date time.Time) string {
	return availabilityKeyPrefix + packageID.String() + ":" + date.Format("2006-01-02")
}

// Get returns the cached snapshot for a package/date, or (nil, false) on a
// miss. Redis errors are treated as misses so the read path stays up when
// Redis is down.
func (c *AvailabilityCache) Get(ctx context.Context, packageID uuid.UUID, date time.Time) ([]models.SlotAvailability, bool) {
	if c.client == nil {
		return nil, false
	}

	data, err := c.client.Get(ctx, c.key(packageID, date)).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		logrus.WithError(err).Warn("Availability cache read failed, falling through")
		return nil, false
	}

	var snapshot []models.SlotAvailability
	if err := json.Unmarshal(data, &snapshot); err != nil {
		logrus.WithError(err).Warn("Availability cache entry corrupt, falling through")
		return nil, false
	}
	return snapshot, true
}

// Set stores a snapshot under the configured TTL. Failures are logged and
// swallowed; caching is best effort.
func (c *AvailabilityCache) Set(ctx context.Context, packageID uuid.UUID, date time.Time, snapshot []models.SlotAvailability) {
	if c.client == nil {
		return
	}

	raw, err := json.Marshal(snapshot)
	if err != nil {
		logrus.WithError(err).Warn("Failed to marshal availability snapshot")
		return
	}
	if err := c.client.Set(ctx, c.key(packageID, date), raw, c.ttl).Err(); err != nil {
		logrus.WithError(err).Warn("Availability cache write failed")
	}
}

// Invalidate drops the snapshot for a package/date after booked_count
// changed. Best effort; a missed invalidation self-heals when the TTL runs
// out.
func (c *AvailabilityCache) Invalidate(ctx context.Context, packageID uuid.UUID, date time.Time) {
	if c.client == nil {
		return
	}
	if err := c.client.Del(ctx, c.key(packageID, date)).Err(); err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"package_id": packageID,
			"date":       date.Format("2006-01-02"),
		}).Warn("Availability cache invalidation failed")
	}
}

// Ping verifies the Redis connection at startup.
func (c *AvailabilityCache) Ping(ctx context.Context) error {
	if c.client == nil {
		return nil
	}
	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}
