// Package server is the HTTP gateway: it authenticates subscribers and
// serves cached calendar feeds. Fatal feed errors become server errors;
// there is no empty-calendar fallback.
package server

import (
	"context"
	"io"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"notioncal/internal/cache"
)

// FeedSource renders the feed for one database.
type FeedSource interface {
	Feed(ctx context.Context, databaseID string) (string, error)
}

type Config struct {
	// Tokens maps valid bearer tokens to identities.
	Tokens map[string]string
	// FeedCache bounds reuse of rendered feed text.
	FeedCache cache.Policy
}

type Server struct {
	source    FeedSource
	tokens    map[string]string
	feedCache *cache.Cache[string]
}

func New(source FeedSource, config Config) *Server {
	return &Server{
		source:    source,
		tokens:    config.Tokens,
		feedCache: cache.New[string](config.FeedCache),
	}
}

func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(logRequests)

	r.HandleFunc("/calendar/bearer/{database_id}", s.requireBearer(s.handleCalendar)).Methods(http.MethodGet)
	r.HandleFunc("/calendar/qs/{database_id}", s.requireQueryToken(s.handleCalendar)).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	r.HandleFunc("/healthz", handleHealth).Methods(http.MethodGet)

	return r
}

func (s *Server) handleCalendar(w http.ResponseWriter, req *http.Request) {
	databaseID := mux.Vars(req)["database_id"]

	feedText, hit, err := s.feedCache.GetOrFill(databaseID, func() (string, error) {
		timer := prometheus.NewTimer(feedDuration)
		defer timer.ObserveDuration()
		return s.source.Feed(req.Context(), databaseID)
	})
	if err != nil {
		log.Errorf("feed generation failed for %s: %v", databaseID, err)
		http.Error(w, "feed generation failed", http.StatusInternalServerError)
		return
	}
	observeCacheLookup("feed", hit)

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	io.WriteString(w, feedText)
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, "ok")
}
