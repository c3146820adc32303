package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"market-pulse/internal/domain"

	"github.com/cenkalti/backoff/v5"
)

// ErrorKind classifies a fetch failure for the pipeline's logging and
// serve-stale decision. Every kind is recoverable.
type ErrorKind string

const (
	KindTimeout    ErrorKind = "timeout"
	KindTransport  ErrorKind = "transport"
	KindHTTPStatus ErrorKind = "http_status"
	KindParse      ErrorKind = "parse"
	KindValidation ErrorKind = "validation"
)

// FetchError carries the source key and underlying cause of a failed
// fetch after the retry budget is exhausted.
type FetchError struct {
	Source domain.SourceKey
	Kind   ErrorKind
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	if e.Kind == KindHTTPStatus {
		return fmt.Sprintf("fetch %s: %s %d: %v", e.Source, e.Kind, e.Status, e.Err)
	}
	return fmt.Sprintf("fetch %s: %s: %v", e.Source, e.Kind, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Client issues JSON GETs with a per-attempt timeout and a bounded
// capped-exponential retry. It never touches the cache; fetching and
// cache updates are kept separate so this stays pure and testable.
type Client struct {
	http       *http.Client
	timeout    time.Duration
	maxRetries int
	newBackOff func() backoff.BackOff
}

func NewClient(timeout time.Duration, maxRetries int) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &Client{
		http:       &http.Client{},
		timeout:    timeout,
		maxRetries: maxRetries,
		newBackOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = time.Second
			b.MaxInterval = 10 * time.Second
			return b
		},
	}
}

// GetJSON fetches url and unmarshals the body into out. maxRetries=N
// means at most N+1 attempts. The retry loop aborts early when ctx is
// cancelled; a timed-out attempt's in-flight request is cancelled and
// its late result discarded by the transport.
func (c *Client) GetJSON(ctx context.Context, source domain.SourceKey, url string, out any) error {
	body, err := backoff.Retry(ctx, func() ([]byte, error) {
		return c.attempt(ctx, source, url)
	},
		backoff.WithBackOff(c.newBackOff()),
		backoff.WithMaxTries(uint(c.maxRetries+1)),
	)
	if err != nil {
		var fe *FetchError
		if errors.As(err, &fe) {
			return fe
		}
		return &FetchError{Source: source, Kind: KindTransport, Err: err}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return &FetchError{Source: source, Kind: KindParse, Err: err}
	}
	return nil
}

func (c *Client) attempt(ctx context.Context, source domain.SourceKey, url string) ([]byte, error) {
	actx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(actx, http.MethodGet, url, nil)
	if err != nil {
		return nil, backoff.Permanent(&FetchError{Source: source, Kind: KindTransport, Err: err})
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		if actx.Err() == context.DeadlineExceeded {
			return nil, &FetchError{Source: source, Kind: KindTimeout, Err: err}
		}
		return nil, &FetchError{Source: source, Kind: KindTransport, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &FetchError{
			Source: source,
			Kind:   KindHTTPStatus,
			Status: resp.StatusCode,
			Err:    fmt.Errorf("upstream said: %s", strings.TrimSpace(string(snippet))),
		}
	}

	return io.ReadAll(resp.Body)
}
