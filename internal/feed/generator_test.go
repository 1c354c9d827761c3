package feed

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notioncal/internal/notion"
)

type fakeFetcher struct {
	database    notion.Database
	records     []notion.Record
	databaseErr error
	queryErr    error
}

func (f fakeFetcher) Database(_ context.Context, _ string) (notion.Database, error) {
	return f.database, f.databaseErr
}

func (f fakeFetcher) QueryAll(_ context.Context, _ string) ([]notion.Record, error) {
	return f.records, f.queryErr
}

func TestGeneratorFeed(t *testing.T) {
	record := testRecord(map[string]notion.Property{
		"Name": titleProperty("Team Sync"),
		"Date": dateProperty("2024-03-05", ""),
	})

	t.Run("renders a calendar for the database", func(t *testing.T) {
		generator := &Generator{
			Fetcher: fakeFetcher{
				database: testDatabase("Events", ""),
				records:  []notion.Record{record},
			},
			Zone: testZone,
		}

		out, err := generator.Feed(context.Background(), "db-1")
		require.NoError(t, err)
		assert.Contains(t, out, "BEGIN:VCALENDAR")
		assert.Contains(t, out, "NAME:Events")
		assert.Contains(t, out, "UID:"+record.ID)
	})

	t.Run("metadata errors abort", func(t *testing.T) {
		generator := &Generator{
			Fetcher: fakeFetcher{databaseErr: errors.New("boom")},
			Zone:    testZone,
		}
		_, err := generator.Feed(context.Background(), "db-1")
		assert.Error(t, err)
	})

	t.Run("query errors abort", func(t *testing.T) {
		generator := &Generator{
			Fetcher: fakeFetcher{queryErr: errors.New("boom")},
			Zone:    testZone,
		}
		_, err := generator.Feed(context.Background(), "db-1")
		assert.Error(t, err)
	})

	t.Run("translation errors abort with no partial feed", func(t *testing.T) {
		broken := testRecord(map[string]notion.Property{
			"Name": titleProperty("Broken"),
			"Date": dateProperty("not a date either", ""),
		})
		generator := &Generator{
			Fetcher: fakeFetcher{
				database: testDatabase("Events", ""),
				records:  []notion.Record{record, broken},
			},
			Zone: testZone,
		}
		_, err := generator.Feed(context.Background(), "db-1")
		assert.ErrorIs(t, err, ErrParseDate)
	})
}
