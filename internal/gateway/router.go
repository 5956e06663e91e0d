package gateway

import (
	"net/http"
	"time"

	"github.com/Karthik-Raja-S/Movie-Recommendation-Platform/internal/analytics"
	"github.com/Karthik-Raja-S/Movie-Recommendation-Platform/pkg/health"
	"github.com/Karthik-Raja-S/Movie-Recommendation-Platform/pkg/metrics"
	"github.com/Karthik-Raja-S/Movie-Recommendation-Platform/pkg/middleware"
)

// NewRouter wires the API routes and the middleware chain. statsHandler and
// checker may be nil when the corresponding subsystem is disabled.
func NewRouter(
	h *Handler,
	statsHandler *analytics.Handler,
	checker *health.Checker,
	m *metrics.Metrics,
	requestTimeout time.Duration,
) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/recommend", h.Recommend)
	mux.HandleFunc("GET /api/suggest", h.Suggest)
	mux.HandleFunc("GET /api/enrich", h.Enrich)
	mux.HandleFunc("GET /api/cache/stats", h.CacheStats)
	mux.HandleFunc("POST /api/cache/invalidate", h.CacheInvalidate)

	if statsHandler != nil {
		mux.HandleFunc("GET /api/analytics/stats", statsHandler.Stats)
	}
	if checker != nil {
		mux.HandleFunc("GET /healthz", checker.LiveHandler())
		mux.HandleFunc("GET /readyz", checker.ReadyHandler())
	}

	var handler http.Handler = mux
	handler = middleware.Timeout(requestTimeout)(handler)
	if m != nil {
		handler = middleware.Metrics(m)(handler)
	}
	handler = middleware.RequestID(handler)

	return handler
}
