package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"IndexTracker/internal/exporter"
	"IndexTracker/internal/model"

	"github.com/rs/zerolog"
)

func sampleReport(t *testing.T) *Report {
	t.Helper()
	cal := model.NewCalendarRange(model.NewMonth(2007, time.January), model.NewMonth(2007, time.May))
	sel, err := model.NewAccumulatedSeries("SELIC", cal, []float64{4, 3, 2, 1, 0})
	if err != nil {
		t.Fatal(err)
	}
	return &Report{
		Table:      exporter.BuildTable(cal, sel),
		Missing:    []string{"IPC_FIPE"},
		OutputPath: "/tmp/indices.json",
		Bytes:      2048,
		At:         time.Date(2007, time.May, 2, 6, 0, 0, 0, time.UTC),
	}
}

func TestFormatConsoleReport(t *testing.T) {
	out := FormatConsoleReport(sampleReport(t))
	for _, want := range []string{"/tmp/indices.json", "2.0 kB", "Records: 5", "Missing: IPC_FIPE", "01/2007", "03/2007", "05/2007", "4.0000"} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "02/2007") {
		t.Errorf("February is neither the first nor one of the last three months:\n%s", out)
	}
}

func TestFormatRunSummary(t *testing.T) {
	out := FormatRunSummary(sampleReport(t))
	if !strings.Contains(out, "Registros: 5") || !strings.Contains(out, "IPC_FIPE") {
		t.Errorf("unexpected summary:\n%s", out)
	}
	if !strings.Contains(out, "04/2007") {
		t.Errorf("summary must show the month before the current one:\n%s", out)
	}
}

func TestFormatFailure_EscapesHTML(t *testing.T) {
	out := FormatFailure(errors.New("open <dir>: denied"), time.Now())
	if !strings.Contains(out, "&lt;dir&gt;") {
		t.Errorf("error text must be escaped: %s", out)
	}
}

func TestTelegramNotify(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/botTOKEN/sendMessage" {
			t.Errorf("path = %q", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&got)
		w.Write([]byte(`{"ok":true,"result":{}}`))
	}))
	defer srv.Close()

	n := NewTelegramNotifier("TOKEN", "42", "", zerolog.Nop())
	n.BaseURL = srv.URL
	if err := n.Notify(context.Background(), sampleReport(t)); err != nil {
		t.Fatalf("Notify: %v", err)
	}
	if got["chat_id"] != "42" || got["parse_mode"] != "HTML" || !strings.Contains(got["text"], "Registros: 5") {
		t.Errorf("payload = %v", got)
	}
}

func TestTelegramNotify_RetriesUntilDelivered(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"ok":false,"description":"Too Many Requests"}`))
			return
		}
		w.Write([]byte(`{"ok":true,"result":{}}`))
	}))
	defer srv.Close()

	n := NewTelegramNotifier("TOKEN", "42", "", zerolog.Nop())
	n.BaseURL = srv.URL
	n.RetryDelay = time.Millisecond
	if err := n.Notify(context.Background(), sampleReport(t)); err != nil {
		t.Fatalf("Notify: %v", err)
	}
	if calls.Load() != 3 {
		t.Errorf("calls = %d, want 3", calls.Load())
	}
}

func TestTelegramNotifyFailure_GivesUp(t *testing.T) {
	var calls atomic.Int32
	texts := make(chan string, 3)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		texts <- body["text"]
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	n := NewTelegramNotifier("TOKEN", "42", "", zerolog.Nop())
	n.BaseURL = srv.URL
	n.Retries = 2
	n.RetryDelay = time.Millisecond
	err := n.NotifyFailure(context.Background(), errors.New("disk full"), time.Now())
	if err == nil || !strings.Contains(err.Error(), "502") {
		t.Errorf("expected a 502 error, got %v", err)
	}
	if calls.Load() != 3 {
		t.Errorf("calls = %d, want 3", calls.Load())
	}
	if text := <-texts; !strings.Contains(text, "disk full") {
		t.Errorf("failure text = %q", text)
	}
}

func TestTelegramReply_APIError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"ok":false,"error_code":401,"description":"Unauthorized"}`))
	}))
	defer srv.Close()

	n := NewTelegramNotifier("TOKEN", "42", "", zerolog.Nop())
	n.BaseURL = srv.URL
	err := n.Reply(context.Background(), "hello")
	if err == nil || !strings.Contains(err.Error(), "401") || !strings.Contains(err.Error(), "Unauthorized") {
		t.Errorf("expected a 401 error, got %v", err)
	}
	if calls.Load() != 1 {
		t.Errorf("replies must not be retried, calls = %d", calls.Load())
	}
}

func TestStartPolling(t *testing.T) {
	replies := make(chan string, 4)
	var polls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/getUpdates"):
			if polls.Add(1) == 1 {
				w.Write([]byte(`{"ok":true,"result":[
					{"update_id":7,"message":{"text":"/status","chat":{"id":42}}},
					{"update_id":8,"message":{"text":"/run","chat":{"id":99}}}]}`))
				return
			}
			var body map[string]any
			json.NewDecoder(r.Body).Decode(&body)
			if got := body["offset"]; got != float64(9) {
				t.Errorf("offset = %v, want 9", got)
			}
			w.Write([]byte(`{"ok":true,"result":[]}`))
		case strings.HasSuffix(r.URL.Path, "/sendMessage"):
			var body map[string]string
			json.NewDecoder(r.Body).Decode(&body)
			replies <- body["text"]
			w.Write([]byte(`{"ok":true}`))
		}
	}))
	defer srv.Close()

	n := NewTelegramNotifier("TOKEN", "42", "", zerolog.Nop())
	n.BaseURL = srv.URL

	ctx, cancel := context.WithCancel(context.Background())
	var handled []string
	done := make(chan struct{})
	go func() {
		n.StartPolling(ctx, func(_ context.Context, cmd string) string {
			handled = append(handled, cmd)
			return "ok " + cmd
		})
		close(done)
	}()

	select {
	case got := <-replies:
		if got != "ok /status" {
			t.Errorf("reply = %q", got)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no reply sent")
	}
	cancel()
	<-done

	if len(handled) != 1 {
		t.Errorf("handled = %v, commands from other chats must be ignored", handled)
	}
}

func TestFormatTable(t *testing.T) {
	r := sampleReport(t)
	out := FormatTable(r.Table.Columns, r.Table.Head(2))
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	// top border, header, separator, two rows, bottom border
	if len(lines) != 6 {
		t.Fatalf("got %d lines:\n%s", len(lines), out)
	}
	if !strings.Contains(lines[1], "Referencia") || !strings.Contains(lines[1], "SELIC") {
		t.Errorf("header keeps column names as exported: %q", lines[1])
	}
	if !strings.Contains(lines[3], "01/2007") || !strings.Contains(lines[3], "4.0000") {
		t.Errorf("first row = %q", lines[3])
	}
	width := len([]rune(lines[0]))
	for _, l := range lines {
		if len([]rune(l)) != width {
			t.Errorf("misaligned line %q", l)
		}
	}
}
