package collector

import (
	"time"

	"IndexTracker/internal/config"
	"IndexTracker/internal/model"

	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// NewFetchers builds the IPEA, IBGE and FIPE fetchers from configuration.
// All of them share one response cache, used only when a cache TTL is configured.
func NewFetchers(cfg *config.Config, store *cache.Cache, log zerolog.Logger) []Fetcher {
	client := func(src config.HTTP, timeout time.Duration) ClientOptions {
		return ClientOptions{Timeout: timeout, Proxy: src.Proxy, Cache: store, CacheTTL: src.CacheTTL}
	}
	ipea := cfg.Sources.IPEA
	ibge := cfg.Sources.IBGE
	fipe := cfg.Sources.FIPE

	return []Fetcher{
		&IPEAFetcher{
			Client:     NewHTTPClient(client(cfg.HTTP, ipea.Timeout)),
			BaseURL:    ipea.BaseURL,
			DateField:  ipea.DateField,
			ValueField: ipea.ValueField,
			UserAgent:  cfg.HTTP.UserAgent,
			Start:      model.CalendarStart,
			Log:        log.With().Str("source", "ipea").Logger(),
		},
		&IBGEFetcher{
			Client:      NewHTTPClient(client(cfg.HTTP, ibge.Timeout)),
			BaseURL:     ibge.BaseURL,
			StartPeriod: ibge.StartPeriod,
			UserAgent:   cfg.HTTP.UserAgent,
			Log:         log.With().Str("source", "ibge").Logger(),
		},
		&FIPEFetcher{
			Client:     NewHTTPClient(client(cfg.HTTP, fipe.Timeout)),
			BaseURL:    fipe.BaseURL,
			StartYear:  fipe.StartYear,
			UserAgent:  cfg.HTTP.UserAgent,
			YearField:  fipe.YearField,
			MonthField: fipe.MonthField,
			ValueField: fipe.ValueField,
			Limiter:    rate.NewLimiter(rate.Limit(fipe.RequestsPerSecond), 1),
			Log:        log.With().Str("source", "fipe").Logger(),
		},
	}
}
