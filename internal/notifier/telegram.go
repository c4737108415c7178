package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
)

// TelegramNotifier reports run outcomes to one Telegram chat through the Bot API.
type TelegramNotifier struct {
	BotToken   string
	ChatID     string
	BaseURL    string
	Client     *http.Client
	Retries    int           // extra attempts for run reports
	RetryDelay time.Duration // doubled after every failed attempt
	Log        zerolog.Logger
}

// NewTelegramNotifier creates a notifier with optional proxy support.
func NewTelegramNotifier(botToken, chatID, proxyURL string, log zerolog.Logger) *TelegramNotifier {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &TelegramNotifier{
		BotToken:   botToken,
		ChatID:     chatID,
		BaseURL:    "https://api.telegram.org",
		Client:     &http.Client{Timeout: 30 * time.Second, Transport: transport},
		Retries:    3,
		RetryDelay: time.Second,
		Log:        log,
	}
}

// Notify sends the summary of a successful run.
func (t *TelegramNotifier) Notify(ctx context.Context, r *Report) error {
	return t.deliver(ctx, "run summary", FormatRunSummary(r))
}

// NotifyFailure reports a run whose export failed.
func (t *TelegramNotifier) NotifyFailure(ctx context.Context, err error, at time.Time) error {
	return t.deliver(ctx, "run failure", FormatFailure(err, at))
}

// Reply answers a chat command once, without retrying.
func (t *TelegramNotifier) Reply(ctx context.Context, text string) error {
	return t.sendMessage(ctx, text)
}

// deliver sends a run report, retrying with exponential backoff.
func (t *TelegramNotifier) deliver(ctx context.Context, kind, text string) error {
	delay := t.RetryDelay
	var err error
	for attempt := 0; ; attempt++ {
		if err = t.sendMessage(ctx, text); err == nil {
			t.Log.Debug().Str("report", kind).Int("attempt", attempt+1).Msg("telegram report sent")
			return nil
		}
		if attempt >= t.Retries {
			break
		}
		t.Log.Warn().Err(err).Str("report", kind).Int("attempt", attempt+1).Dur("backoff", delay).Msg("telegram send failed")
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}
	return fmt.Errorf("%s not delivered after %d attempts: %w", kind, t.Retries+1, err)
}

func (t *TelegramNotifier) sendMessage(ctx context.Context, text string) error {
	payload := map[string]string{
		"chat_id":    t.ChatID,
		"text":       text,
		"parse_mode": "HTML",
	}
	return t.call(ctx, t.Client, "sendMessage", payload, nil)
}

// apiResponse is the envelope of every Bot API answer.
type apiResponse struct {
	OK          bool            `json:"ok"`
	Description string          `json:"description"`
	Result      json.RawMessage `json:"result"`
}

// call posts payload as JSON to a Bot API method and decodes its result into out, when set.
func (t *TelegramNotifier) call(ctx context.Context, client *http.Client, method string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("telegram %s: marshal payload: %w", method, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, fmt.Sprintf("%s/bot%s/%s", t.BaseURL, t.BotToken, method), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("telegram %s: build request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("telegram %s: %w", method, err)
	}
	defer resp.Body.Close()

	var env apiResponse
	decodeErr := json.NewDecoder(resp.Body).Decode(&env)
	if resp.StatusCode != http.StatusOK || !env.OK {
		return fmt.Errorf("telegram %s: status %d: %s", method, resp.StatusCode, env.Description)
	}
	if decodeErr != nil {
		return fmt.Errorf("telegram %s: decode response: %w", method, decodeErr)
	}
	if out != nil {
		if err := json.Unmarshal(env.Result, out); err != nil {
			return fmt.Errorf("telegram %s: decode result: %w", method, err)
		}
	}
	return nil
}
