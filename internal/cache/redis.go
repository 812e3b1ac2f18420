// Package cache holds the live catalog in Redis between upstream fetches.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/edvin/retailpos/internal/model"
)

const catalogKey = "pos:catalog:inventory"

type RedisCatalog struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCatalog(client *redis.Client, ttl time.Duration) *RedisCatalog {
	return &RedisCatalog{client: client, ttl: ttl}
}

// Connect dials Redis and verifies the connection.
func Connect(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", addr, err)
	}
	return client, nil
}

// Get returns the cached catalog. The bool is false on a miss.
func (c *RedisCatalog) Get(ctx context.Context) ([]model.InventoryItem, bool, error) {
	data, err := c.client.Get(ctx, catalogKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("get cached catalog: %w", err)
	}

	var items []model.InventoryItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, false, fmt.Errorf("decode cached catalog: %w", err)
	}
	return items, true, nil
}

func (c *RedisCatalog) Set(ctx context.Context, items []model.InventoryItem) error {
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode catalog: %w", err)
	}
	if err := c.client.Set(ctx, catalogKey, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache catalog: %w", err)
	}
	return nil
}

func (c *RedisCatalog) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, catalogKey).Err(); err != nil {
		return fmt.Errorf("invalidate catalog: %w", err)
	}
	return nil
}
