package pipeline

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"IndexTracker/internal/calculator"
	"IndexTracker/internal/collector"
	"IndexTracker/internal/exporter"
	"IndexTracker/internal/model"
	"IndexTracker/internal/notifier"
	"IndexTracker/internal/recorder"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Notifier delivers the outcome of a run. Telegram is the only implementation.
type Notifier interface {
	Notify(ctx context.Context, r *notifier.Report) error
	NotifyFailure(ctx context.Context, err error, at time.Time) error
}

// Result is the outcome of one successful run.
type Result struct {
	RunID      string
	Calendar   model.Calendar
	Table      exporter.Table
	Missing    []string
	OutputPath string
}

// Pipeline recomputes every accumulated series and exports them.
type Pipeline struct {
	Collector *collector.Collector
	Recorder  recorder.Recorder
	Notifier  Notifier
	JSONPath  string
	XLSXPath  string
	Console   io.Writer
	Now       func() time.Time
	Log       zerolog.Logger
}

// Run performs one full recomputation. Indicators whose fetch or accumulation
// fails are left out of the table; only an export failure is returned.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	now := start
	if p.Now != nil {
		now = p.Now()
	}
	runID := uuid.NewString()
	log := p.Log.With().Str("run_id", runID).Logger()
	rec := p.Recorder
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}

	cal := model.NewCalendar(now)
	log.Info().
		Str("first", cal.First().Label()).
		Str("last", cal.Last().Label()).
		Int("months", cal.Len()).
		Msg("calendar built")

	fetched, failed := p.Collector.Collect(ctx)
	missing := make([]string, 0, len(failed))
	for _, ind := range failed {
		missing = append(missing, ind.Name)
	}

	accumulated := make([]model.AccumulatedSeries, 0, len(fetched))
	for _, r := range fetched {
		acc, err := calculator.Accumulate(cal, r.Indicator, r.Series)
		if err != nil {
			log.Error().Err(err).Str("indicator", r.Indicator.Name).Msg("accumulate failed, indicator skipped")
			missing = append(missing, r.Indicator.Name)
			continue
		}
		accumulated = append(accumulated, acc)
	}

	table := exporter.BuildTable(cal, accumulated...)
	evt := &recorder.RunEvent{
		RunID:   runID,
		Rows:    len(table.Rows),
		Columns: len(table.Indicators()),
		Missing: missing,
		At:      now,
	}

	path, size, err := p.export(table)
	if err != nil {
		log.Error().Err(err).Msg("export failed")
		evt.Err = err
		evt.Duration = time.Since(start)
		p.record(rec, evt, log)
		if p.Notifier != nil {
			if nerr := p.Notifier.NotifyFailure(ctx, err, now); nerr != nil {
				log.Error().Err(nerr).Msg("send notification")
			}
		}
		return nil, err
	}
	log.Info().Str("path", path).Str("size", humanize.Bytes(uint64(size))).Int("rows", len(table.Rows)).Msg("json written")

	report := &notifier.Report{Table: table, Missing: missing, OutputPath: path, Bytes: size, At: now}
	if p.Console != nil {
		fmt.Fprint(p.Console, notifier.FormatConsoleReport(report))
		fmt.Fprintf(p.Console, "\nSuccess: %d records written to %s\n", len(table.Rows), path)
	}
	if p.Notifier != nil {
		if err := p.Notifier.Notify(ctx, report); err != nil {
			log.Error().Err(err).Msg("send notification")
		}
	}

	evt.Duration = time.Since(start)
	p.record(rec, evt, log)
	log.Info().Dur("took", evt.Duration).Strs("missing", missing).Msg("run finished")

	return &Result{RunID: runID, Calendar: cal, Table: table, Missing: missing, OutputPath: path}, nil
}

func (p *Pipeline) export(table exporter.Table) (string, int, error) {
	path, err := filepath.Abs(p.JSONPath)
	if err != nil {
		return "", 0, fmt.Errorf("resolve output path: %w", err)
	}
	size, err := exporter.Export(table, path, p.XLSXPath)
	if err != nil {
		return "", 0, err
	}
	if p.XLSXPath != "" {
		p.Log.Info().Str("path", p.XLSXPath).Msg("xlsx written")
	}
	return path, size, nil
}

func (p *Pipeline) record(rec recorder.Recorder, evt *recorder.RunEvent, log zerolog.Logger) {
	if err := rec.RecordRun(evt); err != nil {
		log.Warn().Err(err).Msg("record run")
	}
}
