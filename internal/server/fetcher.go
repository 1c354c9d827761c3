package server

import (
	"context"

	"notioncal/internal/cache"
	"notioncal/internal/feed"
	"notioncal/internal/notion"
)

type fetchResult struct {
	database notion.Database
	records  []notion.Record
}

// cachedFetcher reuses one fetch cycle's metadata and records across feed
// generations within the cache TTL. Metadata and records are fetched
// together so a feed never mixes pages from different cycles.
type cachedFetcher struct {
	next  feed.Fetcher
	cache *cache.Cache[fetchResult]
}

// NewCachedFetcher wraps next with a TTL cache keyed by database ID.
func NewCachedFetcher(next feed.Fetcher, policy cache.Policy) feed.Fetcher {
	return &cachedFetcher{
		next:  next,
		cache: cache.New[fetchResult](policy),
	}
}

func (f *cachedFetcher) Database(ctx context.Context, databaseID string) (notion.Database, error) {
	result, err := f.fetch(ctx, databaseID)
	return result.database, err
}

func (f *cachedFetcher) QueryAll(ctx context.Context, databaseID string) ([]notion.Record, error) {
	result, err := f.fetch(ctx, databaseID)
	return result.records, err
}

func (f *cachedFetcher) fetch(ctx context.Context, databaseID string) (fetchResult, error) {
	result, hit, err := f.cache.GetOrFill(databaseID, func() (fetchResult, error) {
		database, err := f.next.Database(ctx, databaseID)
		if err != nil {
			return fetchResult{}, err
		}
		records, err := f.next.QueryAll(ctx, databaseID)
		if err != nil {
			return fetchResult{}, err
		}
		return fetchResult{database: database, records: records}, nil
	})
	if err != nil {
		return fetchResult{}, err
	}
	observeCacheLookup("fetch", hit)
	return result, nil
}
