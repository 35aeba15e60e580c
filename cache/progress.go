// Package cache keeps the last computed course progress in redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"lms/progression"
)

var _ progression.ProgressCache = (*ProgressCache)(nil)

type ProgressCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewProgressCache(client *redis.Client, ttl time.Duration) *ProgressCache {
	return &ProgressCache{client: client, ttl: ttl}
}

func progressKey(userID, courseID uint) string {
	return fmt.Sprintf("progress:%d:%d", userID, courseID)
}

// Get returns nil without error on a miss.
func (c *ProgressCache) Get(ctx context.Context, userID, courseID uint) (*progression.Progress, error) {
	raw, err := c.client.Get(ctx, progressKey(userID, courseID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var p progression.Progress
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("decode cached progress: %w", err)
	}
	return &p, nil
}

func (c *ProgressCache) Set(ctx context.Context, userID uint, p progression.Progress) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, progressKey(userID, p.CourseID), raw, c.ttl).Err()
}

func (c *ProgressCache) Delete(ctx context.Context, userID, courseID uint) error {
	return c.client.Del(ctx, progressKey(userID, courseID)).Err()
}
