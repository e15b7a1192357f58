package app

import (
	"context"
	"fmt"
	"time"

	"github.com/kbukum/focusgroup/config"
	"github.com/kbukum/focusgroup/export"
	"github.com/kbukum/focusgroup/ingest"
	"github.com/kbukum/focusgroup/llm"
	"github.com/kbukum/focusgroup/logger"
	"github.com/kbukum/focusgroup/observability"
	"github.com/kbukum/focusgroup/profile"
	"github.com/kbukum/focusgroup/transcript"
	"github.com/kbukum/focusgroup/version"
)

// App holds everything a request needs. It is built once at startup and
// is read-only afterwards, so Run may be called concurrently.
type App struct {
	Name    string
	Version string
	Cfg     *config.Config
	Logger  *logger.Logger
	Metrics *observability.Metrics

	Profiles  *profile.Store
	Adapters  *llm.Set
	Generator *transcript.Generator
	Ingestor  *ingest.Ingestor
	Exporter  *export.Exporter

	onStop []Hook
}

// New applies config defaults, validates, and wires every component.
// Telemetry exporters are started only when enabled in config; call
// Shutdown to flush them.
func New(ctx context.Context, cfg *config.Config, opts ...Option) (*App, error) {
	start := time.Now()
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	o := resolveOptions(opts)

	a := &App{
		Name:    cfg.Name,
		Version: cfg.Version,
		Cfg:     cfg,
		Logger:  o.logger,
	}
	if a.Version == "" {
		a.Version = version.Short()
	}
	if a.Logger == nil {
		a.Logger = logger.New(&cfg.Logging, cfg.Name)
	}
	// Telemetry setup logs through the package-level logger.
	logger.SetGlobalLogger(a.Logger)
	log := a.Logger.WithComponent("app")

	if err := a.initTelemetry(ctx); err != nil {
		_ = a.Shutdown(ctx)
		return nil, err
	}

	profiles, err := profile.Load(profile.WithFile(cfg.Profiles.File), profile.WithLogger(a.Logger))
	if err != nil {
		_ = a.Shutdown(ctx)
		return nil, fmt.Errorf("loading profiles: %w", err)
	}
	a.Profiles = profiles

	adapterOpts := []llm.AdapterOption{llm.WithLogger(a.Logger)}
	if cfg.Observability.Tracing {
		adapterOpts = append(adapterOpts, llm.WithTracing(a.Name))
	}
	if a.Metrics != nil {
		adapterOpts = append(adapterOpts, llm.WithMetrics(a.Metrics))
	}
	adapters, err := buildAdapters(ctx, cfg, adapterOpts...)
	if err != nil {
		_ = a.Shutdown(ctx)
		return nil, fmt.Errorf("building provider adapters: %w", err)
	}
	a.Adapters = llm.NewSet(adapters...)

	genOpts := []transcript.Option{transcript.WithLogger(a.Logger)}
	if a.Metrics != nil {
		genOpts = append(genOpts, transcript.WithMetrics(a.Metrics))
	}
	if o.clock != nil {
		genOpts = append(genOpts, transcript.WithClock(o.clock))
	}
	a.Generator = transcript.NewGenerator(profiles, a.Adapters, cfg.Generation, genOpts...)
	a.Ingestor = ingest.New(cfg.Ingest.MaxBytes, ingest.WithMaxExtractedBytes(cfg.Ingest.MaxExtractedBytes), ingest.WithLogger(a.Logger))

	exportOpts := []export.Option{export.WithFont(cfg.Export.Font, cfg.Export.FontSize), export.WithLogger(a.Logger)}
	if o.header {
		exportOpts = append(exportOpts, export.WithHeader())
	}
	a.Exporter = export.New(exportOpts...)

	log.Info("application ready", logger.Fields(
		"version", a.Version,
		"environment", cfg.Environment,
		"languages", len(profiles.Languages()),
		"configured_providers", a.Adapters.Configured(),
		logger.FieldDuration, time.Since(start).Milliseconds(),
	))
	return a, nil
}

func (a *App) initTelemetry(ctx context.Context) error {
	oc := a.Cfg.Observability
	if oc.Tracing {
		tp, err := observability.InitTracer(ctx, observability.TracerConfig{
			ServiceName:    a.Name,
			ServiceVersion: a.Version,
			Environment:    a.Cfg.Environment,
			Endpoint:       oc.Endpoint,
			Insecure:       oc.Insecure,
			SampleRate:     oc.SampleRate,
		})
		if err != nil {
			return fmt.Errorf("initializing tracer: %w", err)
		}
		a.OnStop(tp.Shutdown)
	}
	if oc.Metrics {
		mc := observability.DefaultMeterConfig(a.Name)
		mc.ServiceVersion, mc.Environment = a.Version, a.Cfg.Environment
		mc.Endpoint, mc.Insecure = oc.Endpoint, oc.Insecure
		mp, err := observability.InitMeter(ctx, mc)
		if err != nil {
			return fmt.Errorf("initializing meter: %w", err)
		}
		a.OnStop(mp.Shutdown)

		metrics, err := observability.NewMetrics(observability.Meter(a.Name))
		if err != nil {
			return err
		}
		a.Metrics = metrics
	}
	return nil
}

// Shutdown runs the stop hooks, flushing telemetry.
func (a *App) Shutdown(ctx context.Context) error {
	hooks := a.onStop
	a.onStop = nil
	return runHooks(ctx, hooks)
}
