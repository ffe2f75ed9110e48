package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	ccache "github.com/karlseguin/ccache/v2"
	"github.com/rs/zerolog/log"
)

const defaultTimeout = 500 * time.Millisecond

// ErrNotFound is returned for missing or expired items
var ErrNotFound = errors.New("cache item is not found")

// Options definition
type Options struct {
	MaxSize int64
	// Redis enables the redis backend when set
	Redis *redis.Options
}

// Cache is backed by redis when configured, by an in-process lru otherwise
type Cache struct {
	client    *redis.Client
	lruClient *ccache.Cache
}

// New creates a cache
func New(opts Options) *Cache {
	c := &Cache{}
	if opts.Redis != nil {
		log.Debug().Str("addr", opts.Redis.Addr).Msg("Initializing Redis cache")
		c.client = redis.NewClient(opts.Redis)
		log.Debug().Msg("Redis cache initialized")
	}
	maxSize := opts.MaxSize
	if maxSize <= 0 {
		maxSize = 5000
	}
	c.lruClient = ccache.New(ccache.Configure().MaxSize(maxSize).ItemsToPrune(uint32(maxSize/10 + 1)))
	return c
}

// Close stops the lru and closes the redis connection
func (c *Cache) Close() error {
	c.lruClient.Stop()
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// SetItem sets item value to cache by key
func (c *Cache) SetItem(ctx context.Context, key string, in string, ttl time.Duration) error {
	if c.client == nil {
		c.lruClient.Set(key, in, ttl)
		return nil
	}

	ctx, cancelFn := context.WithTimeout(ctx, defaultTimeout)
	defer cancelFn()

	err := c.client.Set(ctx, key, in, ttl).Err()
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("Failed to set cache item")
		return err
	}
	log.Debug().Str("key", key).Msg("Set cache item")
	return nil
}

func (c *Cache) getLruItem(key string) (interface{}, error) {
	item := c.lruClient.Get(key)
	if item == nil || item.Expired() {
		log.Debug().Str("key", key).Msg("Cache item is not found")
		return nil, ErrNotFound
	}
	return item.Value(), nil
}

// GetItem gets item string from cache by key
func (c *Cache) GetItem(ctx context.Context, key string) (string, error) {
	if c.client == nil {
		value, err := c.getLruItem(key)
		if err != nil {
			return "", err
		}
		if itemValue, ok := value.(string); ok {
			log.Debug().Str("key", key).Msg("Get cache item")
			return itemValue, nil
		}
		return "", fmt.Errorf("cache item %s is not a string", key)
	}

	ctx, cancelFn := context.WithTimeout(ctx, defaultTimeout)
	defer cancelFn()

	item, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		log.Debug().Str("key", key).Msg("Cache item is not found")
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	log.Debug().Str("key", key).Msg("Get cache item")
	return item, nil
}

// GetInt64Item gets item value from cache by key, missing items count as zero
func (c *Cache) GetInt64Item(ctx context.Context, key string) (int64, error) {
	if c.client == nil {
		value, err := c.getLruItem(key)
		if err == ErrNotFound {
			return 0, nil
		}
		if err != nil {
			return 0, err
		}
		if itemValue, ok := value.(int64); ok {
			return itemValue, nil
		}
		return 0, fmt.Errorf("cache item %s is not an int64", key)
	}

	ctx, cancelFn := context.WithTimeout(ctx, defaultTimeout)
	defer cancelFn()

	item, err := c.client.Get(ctx, key).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	return item, err
}

// DeleteItem delete item from cache by key
func (c *Cache) DeleteItem(ctx context.Context, key string) error {
	if c.client == nil {
		c.lruClient.Delete(key)
		return nil
	}

	ctx, cancelFn := context.WithTimeout(ctx, defaultTimeout)
	defer cancelFn()

	_, err := c.client.Del(ctx, key).Result()
	if err != nil {
		log.Debug().Err(err).Str("key", key).Msg("Failed to del cache item")
		return err
	}

	log.Debug().Str("key", key).Msg("Delete cache item")
	return nil
}

// IncrementItemBy increment item by val and refresh its ttl
func (c *Cache) IncrementItemBy(ctx context.Context, key string, val int64, ttl time.Duration) error {
	if c.client == nil {
		current, err := c.GetInt64Item(ctx, key)
		if err != nil {
			return err
		}
		c.lruClient.Set(key, current+val, ttl)
		return nil
	}

	ctx, cancelFn := context.WithTimeout(ctx, defaultTimeout)
	defer cancelFn()

	_, err := c.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.IncrBy(ctx, key, val)
		pipe.Expire(ctx, key, ttl)
		return nil
	})

	return err
}

// SetJSON stores in as json
func (c *Cache) SetJSON(ctx context.Context, key string, in interface{}, ttl time.Duration) error {
	data, err := json.Marshal(in)
	if err != nil {
		return err
	}
	return c.SetItem(ctx, key, string(data), ttl)
}

// GetJSON decodes the json item stored under key into out
func (c *Cache) GetJSON(ctx context.Context, key string, out interface{}) error {
	item, err := c.GetItem(ctx, key)
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(item), out)
}
