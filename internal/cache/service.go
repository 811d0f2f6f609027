package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	pkgerrors "github.com/kapu/mindsync-go/pkg/errors"
)

// Service is a thin Redis wrapper used as the resolver's match cache. The
// pipeline works with a nil Service; every method is nil-safe.
type Service struct {
	client *redis.Client
	logger *zap.Logger
}

type Config struct {
	Host     string
	Port     int
	Password string
	DB       int
}

func NewService(cfg Config, logger *zap.Logger) (*Service, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.DB,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, pkgerrors.NewCacheError("failed to connect to Redis", "ping", "", err)
	}

	logger.Info("Redis connected",
		zap.String("addr", fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)),
		zap.Int("db", cfg.DB),
	)

	return &Service{
		client: client,
		logger: logger,
	}, nil
}

func (c *Service) Get(ctx context.Context, key string, dest any) (bool, error) {
	if c == nil {
		return false, nil
	}

	value, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, pkgerrors.NewCacheError("failed to get key", "get", key, err)
	}

	if err := json.Unmarshal([]byte(value), dest); err != nil {
		return false, pkgerrors.NewCacheError("failed to decode cached value", "get", key, err)
	}
	return true, nil
}

func (c *Service) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	if c == nil {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return pkgerrors.NewCacheError("failed to encode value", "set", key, err)
	}

	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return pkgerrors.NewCacheError("failed to set key", "set", key, err)
	}
	return nil
}

func (c *Service) Delete(ctx context.Context, key string) error {
	if c == nil {
		return nil
	}
	if err := c.client.Del(ctx, key).Err(); err != nil {
		return pkgerrors.NewCacheError("failed to delete key", "delete", key, err)
	}
	return nil
}

func (c *Service) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}
