package cache

import (
	"context"
	"encoding/json"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/jhoicas/caja-pro/internal/application/dto"
)

// RedisLowStockCache implementación de LowStockCache sobre Redis.
type RedisLowStockCache struct {
	client *redis.Client
}

// NewRedisLowStockCache construye el cliente.
func NewRedisLowStockCache(addr, password string, db int) *RedisLowStockCache {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &RedisLowStockCache{client: client}
}

// Ping verifica la conexión.
func (c *RedisLowStockCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close cierra el cliente.
func (c *RedisLowStockCache) Close() error {
	return c.client.Close()
}

// Get lee la lista cacheada; el segundo retorno indica hit.
func (c *RedisLowStockCache) Get(ctx context.Context, key string) ([]dto.LowStockItemDTO, bool, error) {
	val, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var items []dto.LowStockItemDTO
	if err := json.Unmarshal([]byte(val), &items); err != nil {
		return nil, false, err
	}
	return items, true, nil
}

// Set serializa y guarda la lista con TTL.
func (c *RedisLowStockCache) Set(ctx context.Context, key string, value []dto.LowStockItemDTO, ttl time.Duration) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, payload, ttl).Err()
}
