package collector

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"IndexTracker/internal/model"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// FIPEFetcher reads the IPC-FIPE number index, one request per year.
type FIPEFetcher struct {
	Client     *http.Client
	BaseURL    string
	StartYear  int
	UserAgent  string
	YearField  string
	MonthField string
	ValueField string
	Limiter    *rate.Limiter // nil means unthrottled
	Now        func() time.Time
	Log        zerolog.Logger
}

func (f *FIPEFetcher) Name() string { return string(model.SourceFIPE) }

func (f *FIPEFetcher) now() time.Time {
	if f.Now != nil {
		return f.Now()
	}
	return time.Now()
}

// Fetch downloads every year from StartYear to the current year. A failing year is
// logged and skipped; the fetch fails only when no year returned rows.
func (f *FIPEFetcher) Fetch(ctx context.Context, ind model.Indicator) (model.RawSeries, error) {
	var (
		rows []map[string]any
		errs error
	)
	for year := f.StartYear; year <= f.now().Year(); year++ {
		if f.Limiter != nil {
			if err := f.Limiter.Wait(ctx); err != nil {
				return model.RawSeries{}, fmt.Errorf("fipe: %w", err)
			}
		}
		yearRows, err := f.fetchYear(ctx, year)
		if err != nil {
			f.Log.Warn().Err(err).Int("year", year).Msg("fipe year failed")
			errs = errors.Join(errs, fmt.Errorf("year %d: %w", year, err))
			continue
		}
		rows = append(rows, yearRows...)
	}

	if len(rows) == 0 {
		return model.RawSeries{}, fmt.Errorf("fipe %s: %w", ind.Name, errors.Join(ErrNoData, errs))
	}
	s, err := parseFIPE(rows, f.YearField, f.MonthField, f.ValueField)
	if err != nil {
		return model.RawSeries{}, fmt.Errorf("fipe %s: %w", ind.Name, err)
	}
	return s, nil
}

func (f *FIPEFetcher) fetchYear(ctx context.Context, year int) ([]map[string]any, error) {
	q := url.Values{
		"anos":       {fmt.Sprint(year)},
		"meses":      {"1,2,3,4,5,6,7,8,9,10,11,12"},
		"categorias": {"2,3,4,5,6,7,8,9"},
		"tipo":       {"3"},
	}
	u := f.BaseURL + "?" + q.Encode()
	f.Log.Debug().Int("year", year).Str("url", u).Msg("fipe request")

	headers := map[string]string{"X-Requested-With": "XMLHttpRequest"}
	if f.UserAgent != "" {
		headers["User-Agent"] = f.UserAgent
	}
	var rows []map[string]any
	if err := getJSON(ctx, f.Client, u, headers, &rows); err != nil {
		if errors.Is(err, ErrNoData) {
			return nil, nil
		}
		return nil, err
	}
	return rows, nil
}

// parseFIPE maps the configured year, month and value fields of each row to a point.
func parseFIPE(rows []map[string]any, yearField, monthField, valueField string) (model.RawSeries, error) {
	points := make([]model.Point, 0, len(rows))
	withFields := 0
	for _, row := range rows {
		rawYear, okY := row[yearField]
		rawMonth, okM := row[monthField]
		rawValue, okV := row[valueField]
		if !okY || !okM || !okV {
			continue
		}
		withFields++

		year, err := parseNumber(rawYear)
		if err != nil {
			continue
		}
		mon, err := parseNumber(rawMonth)
		if err != nil || mon < 1 || mon > 12 {
			continue
		}
		v, err := parseNumber(rawValue)
		if err != nil {
			continue
		}
		points = append(points, model.Point{Month: model.NewMonth(int(year), time.Month(int(mon))), Value: v})
	}

	if withFields == 0 {
		return model.RawSeries{}, fmt.Errorf("%w: fields %q, %q, %q not found", ErrUnexpectedSchema, yearField, monthField, valueField)
	}
	s := model.NewRawSeries(points)
	if s.IsEmpty() {
		return s, ErrNoData
	}
	return s, nil
}
