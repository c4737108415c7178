package main

import (
	"flag"
	"fmt"
	"os"

	"IndexTracker/internal/collector"
	"IndexTracker/internal/config"
	"IndexTracker/internal/logger"
	"IndexTracker/internal/notifier"
	"IndexTracker/internal/pipeline"
	"IndexTracker/internal/recorder"

	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"
)

var configPath = flag.String("config", "", "Path to the YAML config file (default $CONFIG_PATH or "+config.DefaultPath+")")

// app holds everything built from the configuration.
type app struct {
	cfg       *config.Config
	log       zerolog.Logger
	recorder  recorder.Recorder
	collector *collector.Collector
}

func loadConfig() (*config.Config, error) {
	p := *configPath
	if p == "" {
		p = os.Getenv("CONFIG_PATH")
	}
	if p == "" {
		p = config.DefaultPath
	}
	cfg, err := config.Load(p)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

func newApp(cfg *config.Config) (*app, error) {
	log, err := logger.New(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	if err != nil {
		return nil, err
	}

	var rec recorder.Recorder = recorder.NewNoopRecorder()
	if cfg.Metrics.TextfilePath != "" {
		pr, err := recorder.NewPrometheusRecorder(cfg.Metrics.TextfilePath)
		if err != nil {
			log.Warn().Err(err).Msg("init prometheus recorder failed, using noop")
		} else {
			rec = pr
		}
	}

	var store *cache.Cache
	if cfg.HTTP.CacheTTL > 0 {
		store = collector.NewResponseCache()
	}
	fetchers := collector.NewFetchers(cfg, store, log)
	return &app{
		cfg:       cfg,
		log:       log,
		recorder:  rec,
		collector: collector.NewCollector(log, rec, fetchers...),
	}, nil
}

func (a *app) pipeline() *pipeline.Pipeline {
	p := &pipeline.Pipeline{
		Collector: a.collector,
		Recorder:  a.recorder,
		JSONPath:  a.cfg.Output.JSONPath,
		XLSXPath:  a.cfg.Output.XLSXPath,
		Console:   os.Stdout,
		Log:       a.log,
	}
	if a.cfg.Telegram.Enabled() {
		p.Notifier = notifier.NewTelegramNotifier(a.cfg.Telegram.BotToken, a.cfg.Telegram.ChatID, a.cfg.HTTP.Proxy, a.log)
	}
	return p
}

func (a *app) close() {
	if err := a.recorder.Close(); err != nil {
		a.log.Warn().Err(err).Msg("close recorder")
	}
}

// setup loads the configuration and builds the app, reporting failures on stderr.
func setup() (*app, bool) {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return nil, false
	}
	a, err := newApp(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return nil, false
	}
	return a, true
}
