package kaat

import (
	"context"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/move-sure/ss-transport-sub002/models"
)

// rateBatchSize bounds the number of city ids per IN filter; the hosted
// backend rejects oversized key lists.
const rateBatchSize = 50

// RateSource is the read-only store view the catalog consumes.
type RateSource interface {
	GetRatesForCity(cityID int64) ([]*models.ResolvedRate, error)
	GetRatesForCities(cityIDs []int64) ([]*models.ResolvedRate, error)
}

// RateCache holds rate lookups for the duration of one manifest-review
// session. Invalidated on rate change notifications.
type RateCache interface {
	Get(cityID int64) ([]*models.ResolvedRate, bool)
	Set(cityID int64, rates []*models.ResolvedRate)
	Invalidate(cityID int64)
	Clear()
}

// MemoryRateCache is the default single-session cache.
type MemoryRateCache struct {
	mu sync.RWMutex
	m  map[int64][]*models.ResolvedRate
}

func NewMemoryRateCache() *MemoryRateCache {
	return &MemoryRateCache{m: make(map[int64][]*models.ResolvedRate)}
}

func (c *MemoryRateCache) Get(cityID int64) ([]*models.ResolvedRate, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	rates, ok := c.m[cityID]
	return rates, ok
}

func (c *MemoryRateCache) Set(cityID int64, rates []*models.ResolvedRate) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[cityID] = rates
}

func (c *MemoryRateCache) Invalidate(cityID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.m, cityID)
}

func (c *MemoryRateCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m = make(map[int64][]*models.ResolvedRate)
}

// Catalog is the read-only view over active rate offers keyed by destination
// city. An empty result is a valid answer: no negotiated rate for that city.
type Catalog struct {
	src   RateSource
	cache RateCache
}

func NewCatalog(src RateSource, cache RateCache) *Catalog {
	if cache == nil {
		cache = NewMemoryRateCache()
	}
	return &Catalog{src: src, cache: cache}
}

// RatesFor returns every active offer for the city, carrier-enriched.
func (c *Catalog) RatesFor(cityID int64) ([]*models.ResolvedRate, error) {
	if rates, ok := c.cache.Get(cityID); ok {
		return rates, nil
	}
	rates, err := c.src.GetRatesForCity(cityID)
	if err != nil {
		return nil, err
	}
	c.cache.Set(cityID, rates)
	return rates, nil
}

// Prefetch warms the cache for many cities at once. The lookups are chunked
// to respect backend IN-filter limits and issued concurrently; this fan-out
// is latency-only, no write depends on it.
func (c *Catalog) Prefetch(ctx context.Context, cityIDs []int64) error {
	seen := make(map[int64]struct{}, len(cityIDs))
	var missing []int64
	for _, id := range cityIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if _, ok := c.cache.Get(id); !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) == 0 {
		return nil
	}

	var mu sync.Mutex
	byCity := make(map[int64][]*models.ResolvedRate, len(missing))

	g, _ := errgroup.WithContext(ctx)
	for start := 0; start < len(missing); start += rateBatchSize {
		end := start + rateBatchSize
		if end > len(missing) {
			end = len(missing)
		}
		chunk := missing[start:end]
		g.Go(func() error {
			rates, err := c.src.GetRatesForCities(chunk)
			if err != nil {
				return err
			}
			mu.Lock()
			defer mu.Unlock()
			for _, r := range rates {
				byCity[r.ToCityID] = append(byCity[r.ToCityID], r)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for _, id := range missing {
		c.cache.Set(id, byCity[id])
	}
	return nil
}

// ResolveFor picks the offer used for a consignment during bulk aggregation:
// an offer whose carrier matches the consignment's carrier identity if one
// exists, otherwise the first active offer for the destination. nil is a
// resolution miss.
func (c *Catalog) ResolveFor(cons *models.Consignment) *models.ResolvedRate {
	if cons.ToCityID == nil {
		return nil
	}
	rates, err := c.RatesFor(*cons.ToCityID)
	if err != nil || len(rates) == 0 {
		return nil
	}
	if cons.TransportName != nil {
		want := strings.TrimSpace(*cons.TransportName)
		for _, r := range rates {
			if want != "" && strings.EqualFold(strings.TrimSpace(r.TransportName), want) {
				return r
			}
		}
	}
	return rates[0]
}

// OnRateChange drops the cached lookups for a city after a rate offer
// insert/update/delete notification.
func (c *Catalog) OnRateChange(cityID int64) {
	c.cache.Invalidate(cityID)
}
