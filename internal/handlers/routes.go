package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/rs/zerolog"

	"yt-summarizer/internal/metrics"
	"yt-summarizer/internal/middleware"
)

type RouterOptions struct {
	Verifier   middleware.IdentityVerifier
	Logger     zerolog.Logger
	Metrics    *metrics.Metrics
	Gatherer   prometheus.Gatherer
	CORSOrigin string
}

// Router wires every endpoint. Everything under /api requires a verified
// ID token; /, /healthz and /metrics are public.
func (h *Handlers) Router(opts RouterOptions) http.Handler {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(h.NotFound)
	r.Use(middleware.RequestLogger(opts.Logger), middleware.Metrics(opts.Metrics), middleware.Recover)

	r.HandleFunc("/", h.Index).Methods(http.MethodGet)
	r.HandleFunc("/healthz", h.Health).Methods(http.MethodGet)
	if opts.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	}

	api := r.PathPrefix("/api").Subrouter()
	api.Use(middleware.Auth(opts.Verifier))

	api.HandleFunc("/search", h.Search).Methods(http.MethodPost)
	api.HandleFunc("/summarize", h.Summarize).Methods(http.MethodPost)
	api.HandleFunc("/auth/verify", h.VerifyAuth).Methods(http.MethodPost)

	for _, path := range []string{"/subscriptions", "/subscriptions/"} {
		api.HandleFunc(path, h.GetSubscriptions).Methods(http.MethodGet)
		api.HandleFunc(path, h.PostSubscription).Methods(http.MethodPost)
	}
	api.HandleFunc("/subscriptions/{channel_id}", h.DeleteSubscription).Methods(http.MethodDelete)

	origins := []string{"*"}
	if opts.CORSOrigin != "" {
		origins = []string{opts.CORSOrigin}
	}
	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         86400,
	}).Handler(r)
}
