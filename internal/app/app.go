package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"CaseLawSearch/internal/acts"
	"CaseLawSearch/internal/config"
	"CaseLawSearch/internal/extractor"
	"CaseLawSearch/internal/httpapi"
	"CaseLawSearch/internal/infrastructure/export"
	"CaseLawSearch/internal/infrastructure/fetcher"
	"CaseLawSearch/internal/infrastructure/metrics"
	"CaseLawSearch/internal/infrastructure/parser"
	"CaseLawSearch/internal/infrastructure/scheduler"
	"CaseLawSearch/internal/logging"
	"CaseLawSearch/internal/normalize"
	"CaseLawSearch/internal/ports"
	"CaseLawSearch/internal/session"
	"CaseLawSearch/internal/usecase"
)

const (
	shutdownTimeout  = 10 * time.Second
	minSweepInterval = time.Minute
)

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg       config.Config
	logger    *slog.Logger
	registry  *acts.Registry
	pipeline  *usecase.Pipeline
	actSearch *usecase.ActSearch
	exporters *export.Registry
	metrics   *metrics.Metrics
	sessions  *session.Store
	handler   http.Handler
}

// New builds every adapter from cfg. A nil logger is built from cfg.Logging.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	registry, err := acts.Load(cfg.Acts.RegistryPath)
	if err != nil {
		return nil, fmt.Errorf("load act registry: %w", err)
	}
	baseLogger.Info("act registry loaded", "version", registry.Version(), "acts", len(registry.Acts()))

	httpFetcher := fetcher.New(nil, fetcher.Options{
		Timeout:           cfg.Upstream.Timeout,
		UserAgents:        cfg.Upstream.UserAgents,
		RequestsPerSecond: cfg.Upstream.RequestsPerSecond,
		Retries:           cfg.Upstream.Retries,
		Logger:            baseLogger.With("component", "fetcher"),
	})

	extractors, err := buildExtractors(cfg.Upstream, baseLogger)
	if err != nil {
		return nil, err
	}
	if _, err := extractors.Resolve(cfg.Upstream.Kind); err != nil {
		return nil, fmt.Errorf("upstream kind: %w", err)
	}

	m := metrics.New()
	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Fetcher:           httpFetcher,
		Extractors:        extractors,
		Kind:              cfg.Upstream.Kind,
		Normalizer:        normalize.New(registry),
		Metrics:           m,
		FallbackSearchURL: cfg.Upstream.SearchURL,
		Logger:            baseLogger.With("component", "pipeline"),
	})

	var index ports.ActIndex
	if cfg.Acts.IndexURL != "" {
		index = parser.NewActsIndex(httpFetcher, cfg.Acts.IndexURL, baseLogger.With("component", "acts.index"))
	}
	actSearch := usecase.NewActSearch(registry, index, httpFetcher, pipeline.FallbackURL, baseLogger.With("component", "acts"))

	exporters := export.Default()
	sessions := session.NewStore(cfg.HTTP.SessionTTL, cfg.HTTP.MaxSessions)

	handler := httpapi.NewRouter(httpapi.Deps{
		Pipeline:  pipeline,
		Acts:      actSearch,
		Registry:  registry,
		Exporters: exporters,
		Sessions:  sessions,
		Metrics:   m,
		Logger:    baseLogger.With("component", "http"),
	})

	return &Application{
		cfg:       cfg,
		logger:    baseLogger,
		registry:  registry,
		pipeline:  pipeline,
		actSearch: actSearch,
		exporters: exporters,
		metrics:   m,
		sessions:  sessions,
		handler:   handler,
	}, nil
}

func buildExtractors(cfg config.UpstreamConfig, logger *slog.Logger) (*extractor.Registry, error) {
	registry := extractor.NewRegistry()

	html, err := parser.NewKanoonHTML(parser.HTMLOptions{
		BaseURL:   cfg.BaseURL,
		SearchURL: cfg.SearchURL,
		DocPrefix: cfg.DocPrefix,
		MaxHits:   cfg.MaxHits,
		Logger:    logger.With("component", "extractor.html"),
	})
	if err != nil {
		return nil, fmt.Errorf("html extractor: %w", err)
	}
	registry.Register(html)

	if cfg.APIToken != "" {
		registry.Register(parser.NewKanoonAPI(parser.APIOptions{
			APIURL:  cfg.APIURL,
			BaseURL: cfg.BaseURL,
			Token:   cfg.APIToken,
			MaxHits: cfg.MaxHits,
		}))
	} else if cfg.Kind == extractor.KindAPI {
		logger.Warn("api upstream selected without a token", "kinds", registry.Kinds())
	}

	return registry, nil
}

// Pipeline exposes the search use case for non-HTTP drivers.
func (a *Application) Pipeline() *usecase.Pipeline { return a.pipeline }

// ActSearch exposes the act lookup use case.
func (a *Application) ActSearch() *usecase.ActSearch { return a.actSearch }

// Exporters exposes the export registry.
func (a *Application) Exporters() *export.Registry { return a.exporters }

// Handler is the HTTP API.
func (a *Application) Handler() http.Handler { return a.handler }

// Run serves the HTTP API until ctx is cancelled, sweeping idle sessions meanwhile.
func (a *Application) Run(ctx context.Context) error {
	if interval := sweepInterval(a.sessions.TTL()); interval > 0 {
		janitor := scheduler.NewCronScheduler(scheduler.Every(interval))
		err := janitor.Start(func(time.Time) {
			if n := a.sessions.Sweep(); n > 0 {
				a.logger.Debug("idle sessions evicted", "count", n)
			}
		})
		if err != nil {
			return fmt.Errorf("session sweeper: %w", err)
		}
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			_ = janitor.Stop(stopCtx)
		}()
	}

	srv := &http.Server{
		Addr:              a.cfg.HTTP.Addr,
		Handler:           a.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("http server listening", "addr", srv.Addr, "upstream", a.cfg.Upstream.Kind)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	a.logger.Info("http server shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func sweepInterval(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return 0
	}
	return max(ttl/4, minSweepInterval)
}
