// Package source retrieves raw spin records from upstream feeds.
//
// It is the only part of spinlens that performs I/O. The records it returns
// are opaque decoded JSON values handed to the normalizer unchanged and in
// upstream order, which callers treat as oldest first.
package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/okian/spinlens/internal/domain/locator"
	"github.com/okian/spinlens/pkg/metrics"
)

const (
	defaultTimeout = 25 * time.Second
	defaultMaxBody = 32 << 20
)

// Request describes where to fetch records from.
type Request struct {
	URL          string            `json:"url" koanf:"url"`
	Headers      map[string]string `json:"headers" koanf:"headers"`
	Params       map[string]string `json:"params" koanf:"params"`
	RootListPath string            `json:"root_list_path" koanf:"root_list_path"`
}

// Fetcher retrieves a list of raw records.
type Fetcher interface {
	Fetch(ctx context.Context, req Request) ([]any, error)
}

// HTTPFetcher fetches records with an HTTP GET and decodes the JSON body.
type HTTPFetcher struct {
	client  *http.Client
	timeout time.Duration
	maxBody int64
}

// NewHTTPFetcher creates a fetcher with a 25s timeout unless overridden.
func NewHTTPFetcher(opts ...Option) *HTTPFetcher {
	f := &HTTPFetcher{
		client:  &http.Client{},
		timeout: defaultTimeout,
		maxBody: defaultMaxBody,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch performs the request and extracts the record list.
func (f *HTTPFetcher) Fetch(ctx context.Context, req Request) ([]any, error) {
	start := time.Now()
	records, err := f.fetch(ctx, req)
	metrics.RecordFetchLatency(float64(time.Since(start).Milliseconds()))
	if err != nil {
		metrics.RecordFetchError()
		return nil, err
	}
	return records, nil
}

func (f *HTTPFetcher) fetch(ctx context.Context, req Request) ([]any, error) {
	target, err := buildURL(req)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	httpReq.Header.Set("Accept", "application/json")
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}

	resp, err := f.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("%w: %s", ErrUpstreamStatus, resp.Status)
	}

	dec := json.NewDecoder(io.LimitReader(resp.Body, f.maxBody))
	dec.UseNumber()
	var body any
	if err := dec.Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return ExtractRecords(body, req.RootListPath), nil
}

func buildURL(req Request) (string, error) {
	raw := strings.TrimSpace(req.URL)
	if raw == "" {
		return "", fmt.Errorf("%w: missing url", ErrInvalidRequest)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("%w: unsupported scheme %q", ErrInvalidRequest, u.Scheme)
	}
	if len(req.Params) > 0 {
		q := u.Query()
		for k, v := range req.Params {
			q.Set(k, v)
		}
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

// ExtractRecords pulls the record list out of a decoded body.
// With a root path the list is resolved through the locator, defaulting to
// empty. A value that is not a list becomes a one-element list when it
// carries data and an empty list otherwise.
func ExtractRecords(body any, rootListPath string) []any {
	items := body
	if rootListPath != "" {
		items = locator.Resolve(body, rootListPath, []any{})
	}
	if list, ok := items.([]any); ok {
		return list
	}
	if truthy(items) {
		return []any{items}
	}
	return []any{}
}

func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return x != ""
	case json.Number:
		f, err := x.Float64()
		return err != nil || f != 0
	case float64:
		return x != 0
	case map[string]any:
		return len(x) > 0
	default:
		return true
	}
}

// StaticFetcher serves a fixed record list. It backs the CLI file input and tests.
type StaticFetcher struct {
	Records []any
	Err     error
}

// Fetch returns the configured records or error.
func (s StaticFetcher) Fetch(ctx context.Context, _ Request) ([]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Records, nil
}
