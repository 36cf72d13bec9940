// Package rest is the HTTP surface: chat, favorites, health, stats and
// metrics. Everything interesting happens in the core; this layer
// decodes, rate-limits, and maps errors to status codes.
package rest

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/EfrainCalderon/efrain-fm/internal/core/domain"
)

// ConversationService is what the handler needs from the core.
type ConversationService interface {
	HandleMessage(ctx context.Context, sessionID, message string) (domain.Reply, error)
	HandleFavorite(ctx context.Context, sessionID, input string) (domain.Reply, error)
	Stats() domain.CatalogStats
}

var (
	metricMessages = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "efrainfm_chat_messages_total",
		Help: "Chat messages handled, by outcome.",
	}, []string{"outcome"})
	metricTracksServed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "efrainfm_tracks_served_total",
		Help: "Tracks returned to visitors.",
	})
	metricInterrupts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "efrainfm_interrupts_total",
		Help: "Interrupts attached to replies, by type.",
	}, []string{"type"})
)

// RateLimit configures the per-IP limiter on the chat endpoints.
type RateLimit struct {
	Requests int
	Window   time.Duration
}

// Handler is the HTTP adapter.
type Handler struct {
	svc    ConversationService
	router chi.Router
	log    zerolog.Logger
}

// NewHandler wires routes and middleware.
func NewHandler(svc ConversationService, limit RateLimit, log zerolog.Logger) *Handler {
	h := &Handler{
		svc: svc,
		log: log.With().Str("component", "rest").Logger(),
	}

	r := chi.NewRouter()
	r.Use(h.recoverer)

	r.Get("/health", h.HealthCheck)
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		if limit.Requests > 0 {
			r.Use(httprate.LimitByIP(limit.Requests, limit.Window))
		}
		r.Post("/api/chat", h.Chat)
		r.Post("/api/favorite", h.Favorite)
		r.Get("/api/stats", h.Stats)
	})

	h.router = r
	return h
}

// ServeHTTP satisfies http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

// HealthCheck verifies the API is up.
func (h *Handler) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Stats exposes catalog counts.
func (h *Handler) Stats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Stats())
}

// recoverer turns any panic in the pipeline into a generic failure
// with a non-200 status; the session is left as it was before the
// mutation point.
func (h *Handler) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				h.log.Error().Interface("panic", rec).Str("path", r.URL.Path).Msg("request panicked")
				metricMessages.WithLabelValues("panic").Inc()
				writeError(w, http.StatusInternalServerError, "something went sideways — try again")
			}
		}()
		next.ServeHTTP(w, r)
	})
}
