package statsapi

import (
	"context"

	"github.com/courtvision/courtvision/internal/nba"
)

// CachedSource decorates a Source with the Redis cache.
type CachedSource struct {
	next  Source
	cache *Cache
}

// NewCachedSource wraps next. A nil cache passes calls straight through.
func NewCachedSource(next Source, cache *Cache) *CachedSource {
	return &CachedSource{next: next, cache: cache}
}

// B2BRankings implements Source.
func (s *CachedSource) B2BRankings(ctx context.Context, rng nba.DateRange) ([]nba.B2BRanking, error) {
	return cachedList(ctx, s.cache, B2BRankingsEndpoint, rng, s.next.B2BRankings)
}

// TeamRankings implements Source.
func (s *CachedSource) TeamRankings(ctx context.Context, rng nba.DateRange) ([]nba.TeamRanking, error) {
	return cachedList(ctx, s.cache, TeamRankingsEndpoint, rng, s.next.TeamRankings)
}

// RestRankings implements Source.
func (s *CachedSource) RestRankings(ctx context.Context, rng nba.DateRange) ([]nba.RestRanking, error) {
	return cachedList(ctx, s.cache, RestRankingsEndpoint, rng, s.next.RestRankings)
}

// PlayerStints implements Source.
func (s *CachedSource) PlayerStints(ctx context.Context, rng nba.DateRange) ([]nba.PlayerStint, error) {
	return cachedList(ctx, s.cache, PlayerStintsEndpoint, rng, s.next.PlayerStints)
}

// Cache exposes the underlying cache for invalidation.
func (s *CachedSource) Cache() *Cache {
	return s.cache
}

func cachedList[T any](ctx context.Context, cache *Cache, ep Endpoint, rng nba.DateRange, load func(context.Context, nba.DateRange) ([]T, error)) ([]T, error) {
	if !cache.enabled() {
		return load(ctx, rng)
	}
	start, end := rng.Format(ep.Layout)
	key, err := cache.BuildKey(ctx, "statsapi", ep.Name, start, end)
	if err != nil {
		return load(ctx, rng)
	}
	records := []T{}
	err = cache.FetchJSON(ctx, key, &records, func(ctx context.Context) (any, error) {
		return load(ctx, rng)
	})
	if err != nil {
		return nil, wrapError(ep.Name, err)
	}
	return records, nil
}

var _ Source = (*CachedSource)(nil)
