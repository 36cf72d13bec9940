// Command api runs the efrain-fm chat server: a conversational
// song-recommendation engine over a fixed personal catalog.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/EfrainCalderon/efrain-fm/internal/adapters/catalog"
	"github.com/EfrainCalderon/efrain-fm/internal/adapters/memstore"
	"github.com/EfrainCalderon/efrain-fm/internal/adapters/ollama"
	"github.com/EfrainCalderon/efrain-fm/internal/adapters/openai"
	"github.com/EfrainCalderon/efrain-fm/internal/adapters/rest"
	"github.com/EfrainCalderon/efrain-fm/internal/adapters/sqlite"
	"github.com/EfrainCalderon/efrain-fm/internal/config"
	"github.com/EfrainCalderon/efrain-fm/internal/core/artist"
	"github.com/EfrainCalderon/efrain-fm/internal/core/domain"
	"github.com/EfrainCalderon/efrain-fm/internal/core/interrupt"
	"github.com/EfrainCalderon/efrain-fm/internal/core/ports"
	"github.com/EfrainCalderon/efrain-fm/internal/core/scoring"
	"github.com/EfrainCalderon/efrain-fm/internal/core/services"
	"github.com/EfrainCalderon/efrain-fm/internal/worker"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "FATAL:", err)
		os.Exit(1)
	}

	log := newLogger(cfg.Logging)

	cat, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.Catalog.Path).Msg("catalog load failed")
	}
	log.Info().Int("tracks", cat.Len()).Msg("catalog loaded")

	if cfg.Analyzer.Enabled {
		enrichCatalog(cat, cfg.Analyzer, log)
	}

	favorites, err := sqlite.NewFavoriteLog(cfg.Favorites.Path)
	if err != nil {
		log.Fatal().Err(err).Msg("favorites store init failed")
	}
	defer favorites.Close()

	mind := newUnderstanding(cfg.Understanding, log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sessions := memstore.New(cfg.Sessions.TTL, log)
	sessions.StartJanitor(ctx, cfg.Sessions.SweepInterval)

	svc := services.New(
		cat,
		scoring.New(cfg.Tuning, nil),
		artist.New(cat.Artists()),
		interrupt.New(cfg.Cadence, cat),
		sessions,
		mind,
		favorites,
		nil,
		log,
	)

	handler := rest.NewHandler(svc, rest.RateLimit{
		Requests: cfg.RateLimit.Requests,
		Window:   cfg.RateLimit.Window,
	}, log)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 15 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("efrain-fm is listening")
		err := srv.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			log.Fatal().Err(err).Msg("server failed")
		}
	case <-ctx.Done():
		log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown error")
		}
	}
}

func newLogger(cfg config.LoggingConfig) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	var w = os.Stderr
	logger := zerolog.New(w)
	if strings.EqualFold(cfg.Format, "console") {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: w})
	}
	return logger.Level(level).With().Timestamp().Logger()
}

func newUnderstanding(cfg config.UnderstandingConfig, log zerolog.Logger) ports.Understanding {
	switch cfg.Provider {
	case "openai":
		opts := []openai.Option{openai.WithTimeout(cfg.Timeout)}
		if cfg.Model != "" {
			opts = append(opts, openai.WithModel(cfg.Model))
		}
		return openai.NewClient(cfg.OpenAIKey, log, opts...)
	case "ollama":
		return ollama.NewClient(cfg.OllamaHost, cfg.Model, cfg.Timeout)
	default:
		log.Warn().Msg("no understanding provider configured; descriptive search uses literal keywords only")
		return ports.NoUnderstanding{}
	}
}

// enrichCatalog runs the preview-energy pass to completion before the
// server starts, so the catalog never changes while serving.
func enrichCatalog(cat *domain.Catalog, cfg config.AnalyzerConfig, log zerolog.Logger) {
	byTitle := make(map[string]domain.Track, cat.Len())
	for _, t := range cat.Tracks() {
		byTitle[domain.TitleKey(t.Title)] = t
	}
	pool := worker.NewPool(func(title string, energy float64) {
		if t, ok := byTitle[domain.TitleKey(title)]; ok {
			id, weight := worker.EnergyTrait(energy)
			t.Traits[id] = weight
		}
	}, cfg.QueueSize, log)
	pool.Start(cfg.Workers)
	for _, t := range cat.Tracks() {
		for _, ref := range t.Refs {
			if strings.HasSuffix(strings.ToLower(ref.URL), ".mp3") {
				pool.Submit(worker.Job{Title: t.Title, URL: ref.URL})
				break
			}
		}
	}
	pool.Stop()
	log.Info().Msg("catalog energy enrichment complete")
}
