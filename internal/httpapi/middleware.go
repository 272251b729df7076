package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/codeops/registry/pkg/log"
	"github.com/codeops/registry/pkg/metrics"
)

// statusRecorder captures the status code a handler actually wrote so
// the access log reflects it (chi's own middleware.WrapResponseWriter
// does this too, but we keep the dependency surface small here).
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// AccessLog logs one line per request: method, path, status, duration
// and the chi request id, and records the same dimensions to the API
// request metrics.
func AccessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)
		duration := time.Since(start)

		route := routePattern(r)
		metrics.APIRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(rec.status)).Inc()
		metrics.APIRequestDuration.WithLabelValues(r.Method, route).Observe(duration.Seconds())

		// Team-scoped routes (e.g. /teams/{teamID}/...) log against the
		// team instead of the bare request, tying this line to the rest of
		// that team's activity. teamID also gates a second, explicit
		// request_id field in that case, since WithTeamID's base logger
		// doesn't carry one the way WithRequestID's does — keep these two
		// checks in lockstep if another scope is ever added here.
		reqID := middleware.GetReqID(r.Context())
		teamID := chi.URLParam(r, "teamID")

		entry := log.WithRequestID(reqID)
		if teamID != "" {
			entry = log.WithTeamID(teamID)
		}

		event := entry.Info()
		if teamID != "" {
			event = event.Str("request_id", reqID)
		}

		event.
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("duration", duration).
			Msg("http request")
	})
}

// routePattern returns the matched chi route template (e.g.
// "/services/{serviceID}") rather than the raw path, keeping the
// request-duration metric's label cardinality bounded.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return r.URL.Path
}
