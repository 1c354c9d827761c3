package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "notioncal_http_requests_total",
		Help: "HTTP requests served, by route and status code",
	}, []string{"route", "status"})

	feedDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name: "notioncal_feed_generation_seconds",
		Help: "Time spent generating one calendar feed, cache misses only",
	})

	cacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "notioncal_cache_lookups_total",
		Help: "Cache lookups, by cache and outcome",
	}, []string{"cache", "outcome"})
)

func observeCacheLookup(cache string, hit bool) {
	outcome := "miss"
	if hit {
		outcome = "hit"
	}
	cacheLookups.WithLabelValues(cache, outcome).Inc()
}
