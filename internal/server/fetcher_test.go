package server

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notioncal/internal/cache"
	"notioncal/internal/notion"
)

type stubFetcher struct {
	databaseCalls atomic.Int32
	queryCalls    atomic.Int32
	err           error
}

func (f *stubFetcher) Database(_ context.Context, _ string) (notion.Database, error) {
	f.databaseCalls.Add(1)
	if f.err != nil {
		return notion.Database{}, f.err
	}
	return notion.Database{Title: []notion.RichText{{PlainText: "Events"}}}, nil
}

func (f *stubFetcher) QueryAll(_ context.Context, _ string) ([]notion.Record, error) {
	f.queryCalls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return []notion.Record{{ID: "page-1"}}, nil
}

func TestCachedFetcher(t *testing.T) {
	t.Run("one upstream fetch serves both halves", func(t *testing.T) {
		stub := &stubFetcher{}
		fetcher := NewCachedFetcher(stub, cache.Policy{TTL: time.Minute, Capacity: 8})

		database, err := fetcher.Database(context.Background(), "db-1")
		require.NoError(t, err)
		assert.Equal(t, "Events", database.TitleText())

		records, err := fetcher.QueryAll(context.Background(), "db-1")
		require.NoError(t, err)
		assert.Len(t, records, 1)

		assert.Equal(t, int32(1), stub.databaseCalls.Load())
		assert.Equal(t, int32(1), stub.queryCalls.Load())
	})

	t.Run("errors pass through uncached", func(t *testing.T) {
		stub := &stubFetcher{err: errors.New("boom")}
		fetcher := NewCachedFetcher(stub, cache.Policy{TTL: time.Minute, Capacity: 8})

		_, err := fetcher.Database(context.Background(), "db-1")
		assert.Error(t, err)
		_, err = fetcher.QueryAll(context.Background(), "db-1")
		assert.Error(t, err)
		assert.Equal(t, int32(2), stub.databaseCalls.Load())
	})
}
