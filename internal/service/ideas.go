package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/pageza/cooking-assistant/backend/internal/models"
)

const ideaBatchTTL = 24 * time.Hour

var ErrIdeaNotFound = errors.New("recipe idea not found")

// IdeaCache keeps the latest idea batches so one can be expanded later by
// reference instead of resending the idea.
type IdeaCache interface {
	SaveBatch(ctx context.Context, email string, ideas []models.RecipeIdea) (string, error)
	GetIdea(ctx context.Context, email, batchID string, index int) (*models.RecipeIdea, error)
}

// RedisIdeaCache stores batches in Redis for a day
type RedisIdeaCache struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewRedisIdeaCache(client *redis.Client) *RedisIdeaCache {
	return &RedisIdeaCache{redis: client, ttl: ideaBatchTTL}
}

func ideaBatchKey(email, batchID string) string {
	return fmt.Sprintf("recipe:ideas:%s:%s", email, batchID)
}

// SaveBatch stores the batch and returns its ID
func (c *RedisIdeaCache) SaveBatch(ctx context.Context, email string, ideas []models.RecipeIdea) (string, error) {
	data, err := json.Marshal(ideas)
	if err != nil {
		return "", fmt.Errorf("failed to marshal ideas: %w", err)
	}

	batchID := uuid.New().String()
	if err := c.redis.Set(ctx, ideaBatchKey(email, batchID), data, c.ttl).Err(); err != nil {
		return "", fmt.Errorf("failed to save ideas to Redis: %w", err)
	}
	return batchID, nil
}

// GetIdea returns one idea of a stored batch. Batches are scoped to the
// user that requested them.
func (c *RedisIdeaCache) GetIdea(ctx context.Context, email, batchID string, index int) (*models.RecipeIdea, error) {
	data, err := c.redis.Get(ctx, ideaBatchKey(email, batchID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrIdeaNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get ideas from Redis: %w", err)
	}

	var ideas []models.RecipeIdea
	if err := json.Unmarshal(data, &ideas); err != nil {
		return nil, fmt.Errorf("failed to unmarshal ideas: %w", err)
	}
	if index < 0 || index >= len(ideas) {
		return nil, ErrIdeaNotFound
	}
	return &ideas[index], nil
}

// NoopIdeaCache is used when Redis is not configured. Nothing is stored,
// so ideas must be expanded inline.
type NoopIdeaCache struct{}

func (NoopIdeaCache) SaveBatch(ctx context.Context, email string, ideas []models.RecipeIdea) (string, error) {
	return "", nil
}

func (NoopIdeaCache) GetIdea(ctx context.Context, email, batchID string, index int) (*models.RecipeIdea, error) {
	return nil, ErrIdeaNotFound
}
