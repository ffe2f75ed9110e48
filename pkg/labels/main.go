package labels

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	v1 "github.com/iLert/ilert-feed-sync/pkg/apis/alertgroup/v1"
	"github.com/iLert/ilert-feed-sync/pkg/cache"
)

const (
	keysCacheKey   = "labels:keys"
	valuesCacheKey = "labels:values:%s:%s"
)

// Backend label lookup endpoints of the rest api
type Backend interface {
	ListLabelKeys(ctx context.Context) ([]v1.LabelKey, error)
	GetLabelValues(ctx context.Context, keyID string, search string) (*v1.LabelOption, error)
}

// Lookup caches label lookups for ttl
type Lookup struct {
	backend Backend
	cache   *cache.Cache
	ttl     time.Duration
}

// NewLookup definition
func NewLookup(backend Backend, c *cache.Cache, ttl time.Duration) *Lookup {
	return &Lookup{backend: backend, cache: c, ttl: ttl}
}

// Keys lists the label keys
func (l *Lookup) Keys(ctx context.Context) ([]v1.LabelKey, error) {
	keys := make([]v1.LabelKey, 0)
	if err := l.cache.GetJSON(ctx, keysCacheKey, &keys); err == nil {
		return keys, nil
	}

	keys, err := l.backend.ListLabelKeys(ctx)
	if err != nil {
		return nil, err
	}
	l.store(ctx, keysCacheKey, keys)
	return keys, nil
}

// Values gets the values of a label key matching search
func (l *Lookup) Values(ctx context.Context, keyID string, search string) (*v1.LabelOption, error) {
	cacheKey := fmt.Sprintf(valuesCacheKey, keyID, search)
	option := &v1.LabelOption{}
	if err := l.cache.GetJSON(ctx, cacheKey, option); err == nil {
		return option, nil
	}

	option, err := l.backend.GetLabelValues(ctx, keyID, search)
	if err != nil {
		return nil, err
	}
	l.store(ctx, cacheKey, option)
	return option, nil
}

func (l *Lookup) store(ctx context.Context, key string, in interface{}) {
	if l.ttl <= 0 {
		return
	}
	if err := l.cache.SetJSON(ctx, key, in, l.ttl); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Failed to cache label lookup")
	}
}
