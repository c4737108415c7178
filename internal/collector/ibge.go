package collector

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"IndexTracker/internal/model"

	"github.com/PaesslerAG/jsonpath"
	"github.com/rs/zerolog"
)

// seriePath locates the period -> value object in a SIDRA aggregates response.
const seriePath = "$[0].resultados[0].series[0].serie"

// IBGEFetcher reads number-index series from the IBGE SIDRA aggregates API.
type IBGEFetcher struct {
	Client      *http.Client
	BaseURL     string
	StartPeriod string // YYYYMM
	UserAgent   string
	Now         func() time.Time
	Log         zerolog.Logger
}

func (f *IBGEFetcher) Name() string { return string(model.SourceIBGE) }

func (f *IBGEFetcher) now() time.Time {
	if f.Now != nil {
		return f.Now()
	}
	return time.Now()
}

// Fetch downloads the aggregate table/variable of the indicator from StartPeriod to the current month.
func (f *IBGEFetcher) Fetch(ctx context.Context, ind model.Indicator) (model.RawSeries, error) {
	if ind.Table == 0 || ind.Variable == 0 {
		return model.RawSeries{}, fmt.Errorf("ibge: indicator %s has no table/variable", ind.Name)
	}
	q := url.Values{"localidades": {"N1[all]"}}
	u := fmt.Sprintf("%s/%d/periodos/%s-%s/variaveis/%d?%s",
		strings.TrimRight(f.BaseURL, "/"), ind.Table, f.StartPeriod, f.now().Format("200601"), ind.Variable, q.Encode())
	f.Log.Debug().Str("indicator", ind.Name).Str("url", u).Msg("ibge request")

	headers := map[string]string{"Accept": "application/json"}
	if f.UserAgent != "" {
		headers["User-Agent"] = f.UserAgent
	}
	var doc any
	if err := getJSON(ctx, f.Client, u, headers, &doc); err != nil {
		return model.RawSeries{}, fmt.Errorf("ibge %s: %w", ind.Name, err)
	}
	s, err := parseSIDRA(doc)
	if err != nil {
		return model.RawSeries{}, fmt.Errorf("ibge %s: %w", ind.Name, err)
	}
	return s, nil
}

// parseSIDRA extracts the "YYYYMM" -> "value" map. Placeholders such as "..." or "-" are skipped.
func parseSIDRA(doc any) (model.RawSeries, error) {
	if arr, ok := doc.([]any); ok && len(arr) == 0 {
		return model.RawSeries{}, ErrNoData
	}
	v, err := jsonpath.Get(seriePath, doc)
	if err != nil {
		return model.RawSeries{}, fmt.Errorf("%w: %v", ErrUnexpectedSchema, err)
	}
	serie, ok := v.(map[string]any)
	if !ok {
		return model.RawSeries{}, fmt.Errorf("%w: %s is %T", ErrUnexpectedSchema, seriePath, v)
	}

	points := make([]model.Point, 0, len(serie))
	for period, raw := range serie {
		t, err := time.Parse("200601", period)
		if err != nil {
			return model.RawSeries{}, fmt.Errorf("%w: invalid period %q", ErrUnexpectedSchema, period)
		}
		val, err := parseNumber(raw)
		if err != nil {
			continue
		}
		points = append(points, model.Point{Month: model.MonthOf(t), Value: val})
	}

	s := model.NewRawSeries(points)
	if s.IsEmpty() {
		return s, ErrNoData
	}
	return s, nil
}
