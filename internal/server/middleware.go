package server

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// logRequests records every request with its outcome and feeds the request
// counter.
func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		next.ServeHTTP(recorder, req)

		route := req.URL.Path
		if current := mux.CurrentRoute(req); current != nil {
			if template, err := current.GetPathTemplate(); err == nil {
				route = template
			}
		}
		requestsTotal.WithLabelValues(route, strconv.Itoa(recorder.status)).Inc()
		log.Infof("%s %s %d %s", req.Method, req.URL.Path, recorder.status, time.Since(start))
	})
}

// requireBearer admits requests carrying "Authorization: Bearer <token>"
// where the token is a configured one. Runs before the feed is generated.
func (s *Server) requireBearer(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		auth := req.Header.Get("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			unauthorized(w)
			return
		}
		identity, ok := s.verifyToken(strings.TrimPrefix(auth, "Bearer "))
		if !ok {
			unauthorized(w)
			return
		}
		log.Debugf("authenticated %s via bearer header", identity)
		next(w, req)
	}
}

// requireQueryToken admits requests carrying a valid ?token= parameter,
// for calendar clients that cannot set headers.
func (s *Server) requireQueryToken(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		identity, ok := s.verifyToken(req.URL.Query().Get("token"))
		if !ok {
			unauthorized(w)
			return
		}
		log.Debugf("authenticated %s via query token", identity)
		next(w, req)
	}
}

func (s *Server) verifyToken(token string) (string, bool) {
	if token == "" {
		return "", false
	}
	identity, ok := s.tokens[token]
	if !ok || identity == "" {
		return "", false
	}
	return identity, true
}

func unauthorized(w http.ResponseWriter) {
	http.Error(w, "unauthorized", http.StatusUnauthorized)
}
