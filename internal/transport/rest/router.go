package rest

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Health     *HealthHandler
	Submission *SubmissionHandler
	Moderation *ModerationHandler
	Duplicates *DuplicatesHandler
	Assist     *AssistHandler
	Catalog    *CatalogHandler
	Stats      *StatsHandler

	// MetricsRegistry, when non-nil, mounts /metrics.
	MetricsRegistry *prometheus.Registry
}

// NewRouter builds the route table. Middleware is applied by the caller
// around the returned mux.
func NewRouter(h Handlers) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", h.Health.Live)
	mux.HandleFunc("GET /readyz", h.Health.Ready)
	mux.HandleFunc("GET /health", h.Health.Health)

	mux.HandleFunc("POST /v1/entries", h.Submission.SubmitNew)
	mux.HandleFunc("POST /v1/entries/{id}/variants", h.Submission.SubmitVariant)

	mux.HandleFunc("GET /v1/entries/{id}", h.Catalog.GetEntry)
	mux.HandleFunc("POST /v1/entries/{id}/like", h.Catalog.Like)
	mux.HandleFunc("GET /v1/taxonomy/roots", h.Catalog.TaxonomyRoots)
	mux.HandleFunc("GET /v1/taxonomy/nodes/{id}/children", h.Catalog.TaxonomyChildren)

	mux.HandleFunc("GET /v1/duplicates", h.Duplicates.Check)

	mux.HandleFunc("POST /v1/assist/suggestion", h.Assist.Suggest)
	mux.HandleFunc("POST /v1/assist/spellcheck", h.Assist.SpellCheck)

	mux.HandleFunc("GET /v1/moderation/queue", h.Moderation.Queue)
	mux.HandleFunc("POST /v1/moderation/entries/{id}/decision", h.Moderation.Decide)

	mux.HandleFunc("POST /v1/users/{id}/stats/sync", h.Stats.Sync)

	if h.MetricsRegistry != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(h.MetricsRegistry, promhttp.HandlerOpts{}))
	}

	return mux
}
