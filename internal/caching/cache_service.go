package caching

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"gridstock/internal/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type CacheService interface {
	// Section caching
	GetSection(ctx context.Context, sectionID uuid.UUID) (*models.Section, error)
	SetSection(ctx context.Context, section *models.Section, ttl time.Duration) error
	DeleteSection(ctx context.Context, sectionID uuid.UUID) error

	// Layout summary caching
	GetLayoutSummary(ctx context.Context, layoutID uuid.UUID) (*models.LayoutSummary, error)
	SetLayoutSummary(ctx context.Context, summary *models.LayoutSummary, ttl time.Duration) error
	DeleteLayoutSummary(ctx context.Context, layoutID uuid.UUID) error

	// Cache invalidation
	InvalidateLayoutCache(ctx context.Context, layoutID uuid.UUID) error

	// Rate limiting
	IsRateLimited(ctx context.Context, key string, limit int, window time.Duration) (bool, error)

	// Ping verifies connectivity for health checks
	Ping(ctx context.Context) error
}

type redisCacheService struct {
	client *redis.Client
}

func NewRedisCacheService(addr, password string, db int) CacheService {
	// Accept redis://host:port as well as bare host:port
	parsedAddr := addr
	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		if hostPort := strings.TrimPrefix(strings.TrimPrefix(addr, "redis://"), "rediss://"); hostPort != addr {
			parsedAddr = hostPort
		}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     parsedAddr,
		Password: password,
		DB:       db,
	})

	if pingErr := client.Ping(context.Background()).Err(); pingErr != nil {
		log.Printf("WARN: Redis ping failed on initialization: %v (address: %s)", pingErr, parsedAddr)
	}

	return &redisCacheService{client: client}
}

func sectionKey(sectionID uuid.UUID) string {
	return fmt.Sprintf("gridstock:section:%s", sectionID.String())
}

func summaryKey(layoutID uuid.UUID) string {
	return fmt.Sprintf("gridstock:summary:%s", layoutID.String())
}

func (r *redisCacheService) GetSection(ctx context.Context, sectionID uuid.UUID) (*models.Section, error) {
	data, err := r.client.Get(ctx, sectionKey(sectionID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // cache miss
		}
		return nil, err
	}

	var section models.Section
	if err := json.Unmarshal(data, &section); err != nil {
		return nil, err
	}
	return &section, nil
}

func (r *redisCacheService) SetSection(ctx context.Context, section *models.Section, ttl time.Duration) error {
	data, err := json.Marshal(section)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, sectionKey(section.ID), data, ttl).Err()
}

func (r *redisCacheService) DeleteSection(ctx context.Context, sectionID uuid.UUID) error {
	return r.client.Del(ctx, sectionKey(sectionID)).Err()
}

func (r *redisCacheService) GetLayoutSummary(ctx context.Context, layoutID uuid.UUID) (*models.LayoutSummary, error) {
	data, err := r.client.Get(ctx, summaryKey(layoutID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // cache miss
		}
		return nil, err
	}

	var summary models.LayoutSummary
	if err := json.Unmarshal(data, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

func (r *redisCacheService) SetLayoutSummary(ctx context.Context, summary *models.LayoutSummary, ttl time.Duration) error {
	data, err := json.Marshal(summary)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, summaryKey(summary.LayoutID), data, ttl).Err()
}

func (r *redisCacheService) DeleteLayoutSummary(ctx context.Context, layoutID uuid.UUID) error {
	return r.client.Del(ctx, summaryKey(layoutID)).Err()
}

func (r *redisCacheService) InvalidateLayoutCache(ctx context.Context, layoutID uuid.UUID) error {
	pattern := fmt.Sprintf("gridstock:*:%s*", layoutID.String())
	keys, err := r.client.Keys(ctx, pattern).Result()
	if err != nil {
		return err
	}

	if len(keys) > 0 {
		return r.client.Del(ctx, keys...).Err()
	}
	return nil
}

func (r *redisCacheService) IsRateLimited(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	cacheKey := fmt.Sprintf("gridstock:ratelimit:%s", key)
	count, err := r.client.Incr(ctx, cacheKey).Result()
	if err != nil {
		return true, err
	}

	// Set expiry on first request
	if count == 1 {
		r.client.Expire(ctx, cacheKey, window)
	}

	return count > int64(limit), nil
}

func (r *redisCacheService) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
