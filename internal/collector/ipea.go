package collector

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"IndexTracker/internal/model"

	"github.com/rs/zerolog"
)

// IPEAFetcher reads monthly rates from the IPEADATA OData API.
type IPEAFetcher struct {
	Client     *http.Client
	BaseURL    string
	DateField  string
	ValueField string
	UserAgent  string
	Start      model.Month // earlier months are dropped
	Log        zerolog.Logger
}

func (f *IPEAFetcher) Name() string { return string(model.SourceIPEA) }

type odataValues struct {
	Value []map[string]any `json:"value"`
}

// Fetch downloads the series identified by the indicator code.
func (f *IPEAFetcher) Fetch(ctx context.Context, ind model.Indicator) (model.RawSeries, error) {
	if ind.Code == "" {
		return model.RawSeries{}, fmt.Errorf("ipea: indicator %s has no series code", ind.Name)
	}
	u := fmt.Sprintf("%s/ValoresSerie(SERCODIGO='%s')", strings.TrimRight(f.BaseURL, "/"), ind.Code)
	f.Log.Debug().Str("indicator", ind.Name).Str("url", u).Msg("ipea request")

	var doc odataValues
	headers := map[string]string{"Accept": "application/json"}
	if f.UserAgent != "" {
		headers["User-Agent"] = f.UserAgent
	}
	if err := getJSON(ctx, f.Client, u, headers, &doc); err != nil {
		return model.RawSeries{}, fmt.Errorf("ipea %s: %w", ind.Code, err)
	}
	s, err := parseIPEA(doc.Value, f.DateField, f.ValueField, f.Start)
	if err != nil {
		return model.RawSeries{}, fmt.Errorf("ipea %s: %w", ind.Code, err)
	}
	return s, nil
}

type dated struct {
	t time.Time
	v float64
}

// parseIPEA keeps the first non-null value of each month from start on.
func parseIPEA(rows []map[string]any, dateField, valueField string, start model.Month) (model.RawSeries, error) {
	if len(rows) == 0 {
		return model.RawSeries{}, ErrNoData
	}

	var obs []dated
	for _, row := range rows {
		raw, ok := row[dateField].(string)
		if !ok {
			return model.RawSeries{}, fmt.Errorf("%w: field %q missing", ErrUnexpectedSchema, dateField)
		}
		if _, ok := row[valueField]; !ok {
			return model.RawSeries{}, fmt.Errorf("%w: field %q missing", ErrUnexpectedSchema, valueField)
		}
		t, err := parseIPEADate(raw)
		if err != nil {
			return model.RawSeries{}, err
		}
		if model.MonthOf(t).Before(start) {
			continue
		}
		v, err := parseNumber(row[valueField])
		if err != nil {
			continue
		}
		obs = append(obs, dated{t: t, v: v})
	}

	sort.SliceStable(obs, func(i, j int) bool { return obs[i].t.Before(obs[j].t) })
	points := make([]model.Point, 0, len(obs))
	for _, o := range obs {
		points = append(points, model.Point{Month: model.MonthOf(o.t), Value: o.v})
	}

	s := model.NewRawSeries(points)
	if s.IsEmpty() {
		return s, ErrNoData
	}
	return s, nil
}

// parseIPEADate accepts "2007-01-01T00:00:00-02:00" as well as a bare "2007-01-01".
func parseIPEADate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if len(s) >= 10 {
		if t, err := time.Parse(time.DateOnly, s[:10]); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: invalid date %q", ErrUnexpectedSchema, s)
}
