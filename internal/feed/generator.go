package feed

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"notioncal/internal/notion"
)

// Fetcher is the slice of the Notion client the generator needs.
type Fetcher interface {
	Database(ctx context.Context, databaseID string) (notion.Database, error)
	QueryAll(ctx context.Context, databaseID string) ([]notion.Record, error)
}

// Generator produces a rendered feed for one database per call. It keeps
// no state between calls, so repeated generation for the same input is
// safe; callers layer caching on top.
type Generator struct {
	Fetcher Fetcher
	Zone    *time.Location
}

func (g *Generator) Feed(ctx context.Context, databaseID string) (string, error) {
	database, err := g.Fetcher.Database(ctx, databaseID)
	if err != nil {
		return "", err
	}

	records, err := g.Fetcher.QueryAll(ctx, databaseID)
	if err != nil {
		return "", err
	}

	calendar, err := Assemble(database, records, g.Zone)
	if err != nil {
		return "", err
	}

	log.Infof("processed %d of %d records for %s", calendar.Len(), len(records), databaseID)

	return calendar.Serialize(), nil
}
