package collector

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httputil"
	"net/url"
	"time"

	"github.com/patrickmn/go-cache"
)

// ClientOptions configures the HTTP client shared by the fetchers of one source.
type ClientOptions struct {
	Timeout  time.Duration
	Proxy    string
	Cache    *cache.Cache // nil disables response caching
	CacheTTL time.Duration
}

// NewHTTPClient creates an http.Client with timeout, optional proxy and optional response cache.
func NewHTTPClient(opts ClientOptions) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if opts.Proxy != "" {
		if u, err := url.Parse(opts.Proxy); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	var rt http.RoundTripper = transport
	if opts.Cache != nil && opts.CacheTTL > 0 {
		rt = &responseCache{base: transport, store: opts.Cache, ttl: opts.CacheTTL}
	}
	return &http.Client{
		Timeout:   opts.Timeout,
		Transport: rt,
	}
}

// NewResponseCache returns an in-memory store for NewHTTPClient.
func NewResponseCache() *cache.Cache {
	return cache.New(cache.NoExpiration, 10*time.Minute)
}

// responseCache keeps successful GET responses in memory, keyed by URL.
type responseCache struct {
	base  http.RoundTripper
	store *cache.Cache
	ttl   time.Duration
}

func (c *responseCache) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Method != http.MethodGet {
		return c.base.RoundTrip(req)
	}
	key := req.Method + " " + req.URL.String()
	if v, ok := c.store.Get(key); ok {
		if resp, err := http.ReadResponse(bufio.NewReader(bytes.NewReader(v.([]byte))), req); err == nil {
			return resp, nil
		}
	}

	resp, err := c.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 300 {
		return resp, nil
	}
	if dump, err := httputil.DumpResponse(resp, true); err == nil {
		c.store.Set(key, dump, c.ttl)
	}
	return resp, nil
}

// getJSON performs a GET request and decodes the JSON body into out.
func getJSON(ctx context.Context, client *http.Client, addr string, headers map[string]string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("get %s: %w", req.URL.Host, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("get %s%s: status %d", req.URL.Host, req.URL.Path, resp.StatusCode)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return ErrNoData
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s%s: %w", req.URL.Host, req.URL.Path, err)
	}
	return nil
}
