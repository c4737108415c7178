package collector

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"IndexTracker/internal/model"

	"github.com/rs/zerolog"
)

func TestFIPEFetch_SkipsFailingYears(t *testing.T) {
	var years []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Requested-With") != "XMLHttpRequest" {
			t.Errorf("missing X-Requested-With header")
		}
		year := r.URL.Query().Get("anos")
		years = append(years, year)
		switch year {
		case "2006":
			w.Write([]byte(`[{"Ano":2006,"Mes":12,"Geral":"310,52"}]`))
		case "2007":
			http.Error(w, "boom", http.StatusInternalServerError)
		case "2008":
			w.Write([]byte(`[{"Ano":"2008","Mes":"1","Geral":330.1},{"Ano":2008,"Mes":2,"Geral":331.4}]`))
		}
	}))
	defer srv.Close()

	fetcher := &FIPEFetcher{
		Client:     srv.Client(),
		BaseURL:    srv.URL,
		StartYear:  2006,
		YearField:  "Ano",
		MonthField: "Mes",
		ValueField: "Geral",
		Now:        func() time.Time { return time.Date(2008, time.May, 1, 0, 0, 0, 0, time.UTC) },
		Log:        zerolog.Nop(),
	}
	ind, _ := model.LookupIndicator("IPC_FIPE")
	s, err := fetcher.Fetch(context.Background(), ind)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(years) != 3 {
		t.Errorf("expected one request per year, got %v", years)
	}
	if s.Len() != 3 {
		t.Fatalf("expected 3 points, got %d", s.Len())
	}
	if v, _ := s.Lookup(model.NewMonth(2006, time.December)); v != 310.52 {
		t.Errorf("Dec/2006 = %v, want 310.52", v)
	}
	last, _ := s.Last()
	if last.Month != model.NewMonth(2008, time.February) || last.Value != 331.4 {
		t.Errorf("last = %+v", last)
	}
}

func TestFIPEFetch_AllYearsFail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	fetcher := &FIPEFetcher{
		Client: srv.Client(), BaseURL: srv.URL, StartYear: 2006,
		YearField: "Ano", MonthField: "Mes", ValueField: "Geral",
		Now: func() time.Time { return time.Date(2007, time.May, 1, 0, 0, 0, 0, time.UTC) },
		Log: zerolog.Nop(),
	}
	ind, _ := model.LookupIndicator("IPC_FIPE")
	if _, err := fetcher.Fetch(context.Background(), ind); !errors.Is(err, ErrNoData) {
		t.Errorf("expected ErrNoData, got %v", err)
	}
}

func TestParseFIPE_MissingFields(t *testing.T) {
	rows := []map[string]any{{"Ano": 2007.0, "Mes": 1.0, "Alimentacao": 1.0}}
	if _, err := parseFIPE(rows, "Ano", "Mes", "Geral"); !errors.Is(err, ErrUnexpectedSchema) {
		t.Errorf("expected ErrUnexpectedSchema, got %v", err)
	}
}

func TestParseNumber(t *testing.T) {
	cases := []struct {
		in   any
		want float64
		ok   bool
	}{
		{1.5, 1.5, true},
		{"2614.61", 2614.61, true},
		{"310,52", 310.52, true},
		{"1.234,56", 1234.56, true},
		{"...", 0, false},
		{"-", 0, false},
		{nil, 0, false},
		{true, 0, false},
	}
	for _, tc := range cases {
		got, err := parseNumber(tc.in)
		if (err == nil) != tc.ok {
			t.Errorf("parseNumber(%v) err = %v", tc.in, err)
			continue
		}
		if tc.ok && got != tc.want {
			t.Errorf("parseNumber(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
