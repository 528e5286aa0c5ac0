package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/mutugading/marketplace-backend/internal/domain/provider"
)

const (
	summaryKey = "provider:summary:%s"

	defaultSummaryTTL = 10 * time.Minute
)

// SummaryCache is a read-through cache of provider summaries in front of a
// provider.SummaryReader. It also drops entries when a provider changes.
type SummaryCache struct {
	client *Client
	next   provider.SummaryReader
	ttl    time.Duration
}

// NewSummaryCache creates a new summary cache.
func NewSummaryCache(client *Client, next provider.SummaryReader, ttl time.Duration) *SummaryCache {
	if ttl <= 0 {
		ttl = defaultSummaryTTL
	}
	return &SummaryCache{client: client, next: next, ttl: ttl}
}

var _ provider.SummaryReader = (*SummaryCache)(nil)

type summaryCacheData struct {
	ProviderID  string `json:"provider_id"`
	DisplayName string `json:"display_name"`
	ServiceName string `json:"service_name"`
}

// ListSummaries serves cached summaries and loads the misses from the
// underlying reader. Cache failures fall back to the reader.
func (c *SummaryCache) ListSummaries(ctx context.Context, ids []uuid.UUID) ([]*provider.Summary, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = fmt.Sprintf(summaryKey, id.String())
	}

	values, found, err := c.client.MGet(ctx, keys...)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to read provider summaries from cache")
		return c.next.ListSummaries(ctx, ids)
	}

	byID := make(map[uuid.UUID]*provider.Summary, len(ids))
	var misses []uuid.UUID
	for i, id := range ids {
		if !found[i] {
			misses = append(misses, id)
			continue
		}
		var cached summaryCacheData
		if err := json.Unmarshal([]byte(values[i]), &cached); err != nil {
			misses = append(misses, id)
			continue
		}
		byID[id] = &provider.Summary{ProviderID: id, DisplayName: cached.DisplayName, ServiceName: cached.ServiceName}
	}

	if len(misses) > 0 {
		loaded, err := c.next.ListSummaries(ctx, misses)
		if err != nil {
			return nil, err
		}
		for _, s := range loaded {
			byID[s.ProviderID] = s
			c.store(ctx, s)
		}
	}

	out := make([]*provider.Summary, 0, len(byID))
	for _, id := range ids {
		if s, ok := byID[id]; ok {
			out = append(out, s)
		}
	}
	return out, nil
}

// Invalidate drops the cached summary of a provider.
func (c *SummaryCache) Invalidate(ctx context.Context, providerID uuid.UUID) error {
	return c.client.Delete(ctx, fmt.Sprintf(summaryKey, providerID.String()))
}

func (c *SummaryCache) store(ctx context.Context, s *provider.Summary) {
	data, err := json.Marshal(summaryCacheData{
		ProviderID:  s.ProviderID.String(),
		DisplayName: s.DisplayName,
		ServiceName: s.ServiceName,
	})
	if err != nil {
		return
	}
	key := fmt.Sprintf(summaryKey, s.ProviderID.String())
	if err := c.client.Set(ctx, key, string(data), c.ttl); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Failed to cache provider summary")
	}
}
