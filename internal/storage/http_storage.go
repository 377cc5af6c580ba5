package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultMaxPlanSize caps downloaded plan images
const DefaultMaxPlanSize = 20 << 20

var (
	// ErrPlanNotFound is returned when the remote store has no such plan
	ErrPlanNotFound = errors.New("plan not found")

	// ErrPlanTooLarge is returned when a plan exceeds the size cap
	ErrPlanTooLarge = errors.New("plan image too large")
)

// PlanFetcher downloads encoded plan images
type PlanFetcher interface {
	FetchPlan(ctx context.Context, planURL string) ([]byte, error)
}

// HTTPPlanFetcher implements PlanFetcher over plain HTTP(S) with retries
// on transient failures
type HTTPPlanFetcher struct {
	client   *http.Client
	maxSize  int64
	attempts int
	backoff  time.Duration
}

// HTTPOption customizes an HTTPPlanFetcher
type HTTPOption func(*HTTPPlanFetcher)

// WithMaxSize sets the largest accepted payload in bytes
func WithMaxSize(n int64) HTTPOption {
	return func(h *HTTPPlanFetcher) {
		if n > 0 {
			h.maxSize = n
		}
	}
}

// WithRetry sets the number of attempts and the base backoff between them
func WithRetry(attempts int, backoff time.Duration) HTTPOption {
	return func(h *HTTPPlanFetcher) {
		if attempts > 0 {
			h.attempts = attempts
		}
		h.backoff = backoff
	}
}

// NewHTTPPlanFetcher creates an HTTP plan fetcher
func NewHTTPPlanFetcher(timeout time.Duration, opts ...HTTPOption) *HTTPPlanFetcher {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	// Connection pooling sized for single image downloads
	transport := &http.Transport{
		MaxIdleConns:           10,
		MaxIdleConnsPerHost:    2,
		IdleConnTimeout:        30 * time.Second,
		TLSHandshakeTimeout:    10 * time.Second,
		ResponseHeaderTimeout:  10 * time.Second,
		ExpectContinueTimeout:  1 * time.Second,
		MaxResponseHeaderBytes: 4096,
	}

	h := &HTTPPlanFetcher{
		client: &http.Client{
			Transport: transport,
			Timeout:   timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("too many redirects (limit: 3)")
				}
				return nil
			},
		},
		maxSize:  DefaultMaxPlanSize,
		attempts: 3,
		backoff:  time.Second,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// FetchPlan downloads planURL. 5xx answers and transport errors are
// retried with linear backoff; 4xx answers are final.
func (h *HTTPPlanFetcher) FetchPlan(ctx context.Context, planURL string) ([]byte, error) {
	var lastErr error

	for attempt := 0; attempt < h.attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(attempt) * h.backoff):
			}
		}

		data, retry, err := h.fetchOnce(ctx, planURL)
		if err == nil {
			return data, nil
		}
		lastErr = err
		if !retry || ctx.Err() != nil {
			break
		}
	}

	return nil, fmt.Errorf("failed to fetch plan after %d attempts: %w", h.attempts, lastErr)
}

func (h *HTTPPlanFetcher) fetchOnce(ctx context.Context, planURL string) ([]byte, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, planURL, nil)
	if err != nil {
		return nil, false, fmt.Errorf("invalid URL: %w", err)
	}
	req.Header.Set("Accept", "image/jpeg, image/png, image/webp, image/gif, */*")
	req.Header.Set("User-Agent", "Go-Vastu-Inspector/1.0")

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, true, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, false, fmt.Errorf("client error: status code %d: %w", resp.StatusCode, ErrPlanNotFound)
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return nil, false, fmt.Errorf("client error: status code %d", resp.StatusCode)
	case resp.StatusCode >= 500:
		return nil, true, fmt.Errorf("server error: status code %d", resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return nil, false, fmt.Errorf("unexpected status code %d", resp.StatusCode)
	}

	data, err := readLimited(resp.Body, h.maxSize)
	if err != nil {
		return nil, false, err
	}
	return data, false, nil
}

// readLimited reads at most limit bytes and fails when r holds more
func readLimited(r io.Reader, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read plan body: %w", err)
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrPlanTooLarge, limit)
	}
	return data, nil
}
