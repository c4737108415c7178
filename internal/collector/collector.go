package collector

import (
	"context"
	"fmt"
	"time"

	"IndexTracker/internal/model"
	"IndexTracker/internal/recorder"

	"github.com/rs/zerolog"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Source model.Source
	Series map[string]model.RawSeries
	Errs   map[string]error
}

func (m *MockFetcher) Name() string { return string(m.Source) }

func (m *MockFetcher) Fetch(_ context.Context, ind model.Indicator) (model.RawSeries, error) {
	if err, ok := m.Errs[ind.Name]; ok {
		return model.RawSeries{}, err
	}
	s, ok := m.Series[ind.Name]
	if !ok {
		return model.RawSeries{}, ErrNoData
	}
	return s, nil
}

// Result is a successfully fetched indicator.
type Result struct {
	Indicator model.Indicator
	Series    model.RawSeries
}

// Collector fetches every indicator from the fetcher of its source.
type Collector struct {
	Fetchers   map[model.Source]Fetcher
	Indicators []model.Indicator
	Recorder   recorder.Recorder
	Log        zerolog.Logger
}

// NewCollector creates a Collector for the fixed indicator set.
func NewCollector(log zerolog.Logger, rec recorder.Recorder, fetchers ...Fetcher) *Collector {
	m := make(map[model.Source]Fetcher, len(fetchers))
	for _, f := range fetchers {
		m[model.Source(f.Name())] = f
	}
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	return &Collector{Fetchers: m, Indicators: model.Indicators, Recorder: rec, Log: log}
}

// FetchOne fetches a single indicator.
func (c *Collector) FetchOne(ctx context.Context, ind model.Indicator) (model.RawSeries, error) {
	f, ok := c.Fetchers[ind.Source]
	if !ok {
		return model.RawSeries{}, fmt.Errorf("no fetcher for source %q", ind.Source)
	}
	s, err := f.Fetch(ctx, ind)
	if err == nil && s.IsEmpty() {
		err = ErrNoData
	}
	return s, err
}

// Collect fetches the indicators one after the other. A failing indicator is logged
// and reported as missing; it never stops the others.
func (c *Collector) Collect(ctx context.Context) (fetched []Result, missing []model.Indicator) {
	for _, ind := range c.Indicators {
		if ctx.Err() != nil {
			missing = append(missing, ind)
			continue
		}
		start := time.Now()
		s, err := c.FetchOne(ctx, ind)
		evt := &recorder.FetchEvent{Indicator: ind.Name, Source: string(ind.Source), Duration: time.Since(start), Err: err}

		if err != nil {
			c.Log.Error().Err(err).Str("indicator", ind.Name).Str("source", string(ind.Source)).Msg("fetch failed, indicator skipped")
			missing = append(missing, ind)
		} else {
			last, _ := s.Last()
			evt.Points = s.Len()
			evt.LastValue = last.Value
			c.Log.Info().
				Str("indicator", ind.Name).
				Int("points", s.Len()).
				Str("last_month", last.Month.Label()).
				Float64("last_value", last.Value).
				Msg("fetched")
			fetched = append(fetched, Result{Indicator: ind, Series: s})
		}

		if rerr := c.Recorder.RecordFetch(evt); rerr != nil {
			c.Log.Warn().Err(rerr).Msg("record fetch")
		}
	}
	return fetched, missing
}
