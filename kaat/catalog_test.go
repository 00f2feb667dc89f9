package kaat

import (
	"context"
	"sync"
	"testing"

	"github.com/move-sure/ss-transport-sub002/models"
)

type fakeRateSource struct {
	mu          sync.Mutex
	byCity      map[int64][]*models.ResolvedRate
	singleCalls int
	batchCalls  int
	batchSizes  []int
}

func (f *fakeRateSource) GetRatesForCity(cityID int64) ([]*models.ResolvedRate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.singleCalls++
	return f.byCity[cityID], nil
}

func (f *fakeRateSource) GetRatesForCities(cityIDs []int64) ([]*models.ResolvedRate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.batchCalls++
	f.batchSizes = append(f.batchSizes, len(cityIDs))
	var out []*models.ResolvedRate
	for _, id := range cityIDs {
		out = append(out, f.byCity[id]...)
	}
	return out, nil
}

func offerFor(cityID int64, carrier string) *models.ResolvedRate {
	return &models.ResolvedRate{
		RateOffer: models.RateOffer{
			ToCityID:  cityID,
			RateType:  models.RatePerKg,
			RatePerKg: dec("5"),
		},
		TransportName: carrier,
	}
}

func TestCatalogCachesPerCity(t *testing.T) {
	src := &fakeRateSource{byCity: map[int64][]*models.ResolvedRate{
		1: {offerFor(1, "Sharma Kanpur")},
	}}
	cat := NewCatalog(src, NewMemoryRateCache())

	for i := 0; i < 3; i++ {
		rates, err := cat.RatesFor(1)
		if err != nil {
			t.Fatalf("RatesFor: %v", err)
		}
		if len(rates) != 1 {
			t.Fatalf("rates = %d, want 1", len(rates))
		}
	}
	if src.singleCalls != 1 {
		t.Fatalf("source hit %d times, want 1", src.singleCalls)
	}
}

func TestCatalogEmptyAnswerIsCached(t *testing.T) {
	src := &fakeRateSource{byCity: map[int64][]*models.ResolvedRate{}}
	cat := NewCatalog(src, NewMemoryRateCache())

	if err := cat.Prefetch(context.Background(), []int64{42}); err != nil {
		t.Fatalf("Prefetch: %v", err)
	}
	rates, err := cat.RatesFor(42)
	if err != nil {
		t.Fatalf("RatesFor: %v", err)
	}
	if len(rates) != 0 {
		t.Fatalf("rates = %d, want 0", len(rates))
	}
	if src.singleCalls != 0 {
		t.Fatalf("single lookups = %d, want 0 after prefetch of empty city", src.singleCalls)
	}
}

func TestCatalogInvalidation(t *testing.T) {
	src := &fakeRateSource{byCity: map[int64][]*models.ResolvedRate{
		1: {offerFor(1, "Sharma Kanpur")},
	}}
	cat := NewCatalog(src, NewMemoryRateCache())

	if _, err := cat.RatesFor(1); err != nil {
		t.Fatal(err)
	}
	cat.OnRateChange(1)
	if _, err := cat.RatesFor(1); err != nil {
		t.Fatal(err)
	}
	if src.singleCalls != 2 {
		t.Fatalf("source hit %d times, want 2 after invalidation", src.singleCalls)
	}
}

func TestPrefetchChunksAndDeduplicates(t *testing.T) {
	src := &fakeRateSource{byCity: map[int64][]*models.ResolvedRate{}}
	cat := NewCatalog(src, NewMemoryRateCache())

	ids := make([]int64, 0, 130)
	for i := int64(0); i < 120; i++ {
		ids = append(ids, i)
	}
	// duplicates must not inflate the chunk count
	ids = append(ids, 0, 1, 2, 3, 4, 5, 6, 7, 8, 9)

	if err := cat.Prefetch(context.Background(), ids); err != nil {
		t.Fatalf("Prefetch: %v", err)
	}
	if src.batchCalls != 3 {
		t.Fatalf("batch calls = %d, want 3 for 120 unique cities", src.batchCalls)
	}
	for _, size := range src.batchSizes {
		if size > rateBatchSize {
			t.Fatalf("chunk of %d exceeds limit %d", size, rateBatchSize)
		}
	}

	// everything is warm now
	if err := cat.Prefetch(context.Background(), ids); err != nil {
		t.Fatal(err)
	}
	if src.batchCalls != 3 {
		t.Fatalf("warm prefetch issued %d extra batch calls", src.batchCalls-3)
	}
}

func TestResolveFor(t *testing.T) {
	src := &fakeRateSource{byCity: map[int64][]*models.ResolvedRate{
		1: {offerFor(1, "Verma Transport"), offerFor(1, "Sharma Kanpur")},
	}}
	cat := NewCatalog(src, NewMemoryRateCache())

	t.Run("carrier name match preferred", func(t *testing.T) {
		cons := &models.Consignment{ToCityID: i64p(1), TransportName: strp(" sharma kanpur ")}
		got := cat.ResolveFor(cons)
		if got == nil || got.TransportName != "Sharma Kanpur" {
			t.Fatalf("resolved %+v, want the Sharma Kanpur offer", got)
		}
	})

	t.Run("falls back to first offer", func(t *testing.T) {
		cons := &models.Consignment{ToCityID: i64p(1), TransportName: strp("Unknown Carrier")}
		got := cat.ResolveFor(cons)
		if got == nil || got.TransportName != "Verma Transport" {
			t.Fatalf("resolved %+v, want the first offer", got)
		}
	})

	t.Run("missing city is a miss", func(t *testing.T) {
		if got := cat.ResolveFor(&models.Consignment{}); got != nil {
			t.Fatalf("resolved %+v, want nil", got)
		}
	})

	t.Run("city without offers is a miss", func(t *testing.T) {
		if got := cat.ResolveFor(&models.Consignment{ToCityID: i64p(99)}); got != nil {
			t.Fatalf("resolved %+v, want nil", got)
		}
	})
}
