// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package redis implements storage.TrendRepository on Redis, for deployments
// where several marketscout processes share one trend cache.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/poiesic/marketscout/core"
	"github.com/poiesic/marketscout/storage"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "marketscout:trend:"

// TrendRepository stores trend entries as mus-encoded Redis strings.
// SET replaces the whole value, so writes are atomic per key.
type TrendRepository struct {
	client *redis.Client
}

var _ storage.TrendRepository = (*TrendRepository)(nil)

// NewTrendRepository connects to the Redis server at url
// (redis://[:password@]host:port/db) and verifies it is reachable.
func NewTrendRepository(ctx context.Context, url string) (*TrendRepository, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	client := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis unreachable: %w", err)
	}
	return &TrendRepository{client: client}, nil
}

// GetTrend retrieves the entry stored under key.
func (r *TrendRepository) GetTrend(ctx context.Context, key string) (*core.TrendEntry, error) {
	b, err := r.client.Get(ctx, redisKey(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	return storage.UnmarshalTrendEntry(b)
}

// PutTrend stores entry without expiry.
func (r *TrendRepository) PutTrend(ctx context.Context, entry *core.TrendEntry) error {
	if entry.Key == "" {
		return storage.ErrEmptyKey
	}
	if entry.FetchedAt.IsZero() {
		entry.FetchedAt = time.Now().UTC()
	}
	return r.client.Set(ctx, redisKey(entry.Key), storage.MarshalTrendEntry(entry), 0).Err()
}

// Close closes the Redis client.
func (r *TrendRepository) Close() error {
	return r.client.Close()
}

func redisKey(key string) string {
	return keyPrefix + key
}
