// internal/store/redis.go
package store

import (
	"context"
	"encoding/json"
	"fmt"

	"grant-portal/internal/models"

	"github.com/redis/go-redis/v9"
)

const (
	defaultRedisListKey = "grant:applications"
	defaultRedisIDsKey  = "grant:application:ids"
)

// RedisStore keeps applications as JSON in a Redis list, newest at the left,
// with a companion set enforcing id uniqueness.
type RedisStore struct {
	client  redis.Cmdable
	listKey string
	idsKey  string
}

func NewRedisStore(client redis.Cmdable) *RedisStore {
	return &RedisStore{
		client:  client,
		listKey: defaultRedisListKey,
		idsKey:  defaultRedisIDsKey,
	}
}

func (s *RedisStore) Append(ctx context.Context, app models.Application) (string, error) {
	payload, err := json.Marshal(app)
	if err != nil {
		return "", fmt.Errorf("marshal application: %w", err)
	}

	added, err := s.client.SAdd(ctx, s.idsKey, app.ID).Result()
	if err != nil {
		return "", fmt.Errorf("reserve application id: %w", err)
	}
	if added == 0 {
		return "", ErrDuplicateID
	}

	if err := s.client.LPush(ctx, s.listKey, payload).Err(); err != nil {
		// Release the id so a retry with the same reference can succeed.
		_ = s.client.SRem(ctx, s.idsKey, app.ID).Err()
		return "", fmt.Errorf("push application: %w", err)
	}
	return app.ID, nil
}

func (s *RedisStore) List(ctx context.Context) ([]models.Application, error) {
	raw, err := s.client.LRange(ctx, s.listKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("read applications: %w", err)
	}

	apps := make([]models.Application, 0, len(raw))
	for _, item := range raw {
		var app models.Application
		if err := json.Unmarshal([]byte(item), &app); err != nil {
			return nil, fmt.Errorf("decode application: %w", err)
		}
		apps = append(apps, app)
	}
	return apps, nil
}

func (s *RedisStore) Stats(ctx context.Context) (models.Stats, error) {
	apps, err := s.List(ctx)
	if err != nil {
		return models.Stats{}, err
	}
	return models.ComputeStats(apps), nil
}

func (s *RedisStore) Name() string { return "redis" }
