package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/aftersales-service/internal/domain"
)

const statsCacheKey = "dashboard:stats"

// StatsCacheRepository caches computed dashboard stats between requests.
type StatsCacheRepository interface {
	Get(ctx context.Context) (*domain.DashboardStats, error)
	Set(ctx context.Context, stats domain.DashboardStats, ttl time.Duration) error
	Invalidate(ctx context.Context) error
}

type statsCacheRepository struct {
	client *redis.Client
}

// NewStatsCacheRepository builds the redis-backed cache.
func NewStatsCacheRepository(client *redis.Client) StatsCacheRepository {
	return &statsCacheRepository{client: client}
}

// Get returns the cached stats, or nil on a cache miss.
func (r *statsCacheRepository) Get(ctx context.Context) (*domain.DashboardStats, error) {
	if r.client == nil {
		return nil, nil
	}
	raw, err := r.client.Get(ctx, statsCacheKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	var stats domain.DashboardStats
	if err := json.Unmarshal(raw, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (r *statsCacheRepository) Set(ctx context.Context, stats domain.DashboardStats, ttl time.Duration) error {
	if r.client == nil || ttl <= 0 {
		return nil
	}
	raw, err := json.Marshal(stats)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, statsCacheKey, raw, ttl).Err()
}

func (r *statsCacheRepository) Invalidate(ctx context.Context) error {
	if r.client == nil {
		return nil
	}
	return r.client.Del(ctx, statsCacheKey).Err()
}
