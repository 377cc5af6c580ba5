package storage

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

var planBytes = []byte("\x89PNG\r\n\x1a\nplan")

func TestHTTPPlanFetcher_RetryLogic(t *testing.T) {
	tests := []struct {
		name          string
		responses     []int // Status codes to return in sequence
		expectAttempt int32 // Expected number of requests
		expectError   bool
		errorContains string
	}{
		{
			name:          "Success on first attempt",
			responses:     []int{200},
			expectAttempt: 1,
		},
		{
			name:          "Success on second attempt after 5xx",
			responses:     []int{500, 200},
			expectAttempt: 2,
		},
		{
			name:          "4xx client error - no retry",
			responses:     []int{403},
			expectAttempt: 1,
			expectError:   true,
			errorContains: "client error: status code 403",
		},
		{
			name:          "4xx after 5xx - should retry until 4xx then stop",
			responses:     []int{500, 400},
			expectAttempt: 2,
			expectError:   true,
			errorContains: "client error: status code 400",
		},
		{
			name:          "All 5xx errors - retry all attempts",
			responses:     []int{500, 502, 503},
			expectAttempt: 3,
			expectError:   true,
			errorContains: "server error: status code 503",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var requestCount int32

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				n := atomic.AddInt32(&requestCount, 1)
				if int(n) > len(tt.responses) {
					w.WriteHeader(500)
					return
				}
				statusCode := tt.responses[n-1]
				if statusCode == 200 {
					w.Header().Set("Content-Type", "image/png")
					_, _ = w.Write(planBytes)
					return
				}
				w.WriteHeader(statusCode)
				_, _ = w.Write([]byte(fmt.Sprintf("Error %d", statusCode)))
			}))
			defer server.Close()

			fetcher := NewHTTPPlanFetcher(5*time.Second, WithRetry(3, 10*time.Millisecond))
			data, err := fetcher.FetchPlan(context.Background(), server.URL)

			if got := atomic.LoadInt32(&requestCount); got != tt.expectAttempt {
				t.Errorf("Expected %d requests, got %d", tt.expectAttempt, got)
			}

			if tt.expectError {
				if err == nil {
					t.Fatalf("Expected error, but got none")
				}
				if !strings.Contains(err.Error(), tt.errorContains) {
					t.Errorf("Expected error to contain '%s', got: %s", tt.errorContains, err.Error())
				}
				return
			}
			if err != nil {
				t.Fatalf("Expected no error, got: %s", err.Error())
			}
			if string(data) != string(planBytes) {
				t.Errorf("Expected plan bytes to round-trip, got %q", data)
			}
		})
	}
}

func TestHTTPPlanFetcher_NotFound(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	fetcher := NewHTTPPlanFetcher(time.Second, WithRetry(3, time.Millisecond))
	_, err := fetcher.FetchPlan(context.Background(), server.URL)

	if !errors.Is(err, ErrPlanNotFound) {
		t.Errorf("Expected ErrPlanNotFound, got %v", err)
	}
}

func TestHTTPPlanFetcher_NetworkError_Retry(t *testing.T) {
	var requestCount int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&requestCount, 1) < 3 {
			// Simulate network error by closing connection
			if hj, ok := w.(http.Hijacker); ok {
				conn, _, _ := hj.Hijack()
				conn.Close()
			}
			return
		}
		_, _ = w.Write(planBytes)
	}))
	defer server.Close()

	fetcher := NewHTTPPlanFetcher(5*time.Second, WithRetry(3, 20*time.Millisecond))

	start := time.Now()
	_, err := fetcher.FetchPlan(context.Background(), server.URL)
	duration := time.Since(start)

	if err != nil {
		t.Errorf("Expected success after retries, got error: %s", err.Error())
	}
	if got := atomic.LoadInt32(&requestCount); got != 3 {
		t.Errorf("Expected 3 requests, got %d", got)
	}
	// Linear backoff: 20ms + 40ms
	if duration < 60*time.Millisecond {
		t.Errorf("Expected at least 60ms due to backoff, took %v", duration)
	}
}

func TestHTTPPlanFetcher_TooLarge(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(make([]byte, 64))
	}))
	defer server.Close()

	fetcher := NewHTTPPlanFetcher(time.Second, WithMaxSize(32))
	_, err := fetcher.FetchPlan(context.Background(), server.URL)

	if !errors.Is(err, ErrPlanTooLarge) {
		t.Errorf("Expected ErrPlanTooLarge, got %v", err)
	}
}

func TestHTTPPlanFetcher_CanceledContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fetcher := NewHTTPPlanFetcher(time.Second, WithRetry(3, time.Second))
	start := time.Now()
	_, err := fetcher.FetchPlan(ctx, server.URL)

	if err == nil {
		t.Fatal("Expected error for canceled context")
	}
	if time.Since(start) > 500*time.Millisecond {
		t.Error("Expected canceled fetch to return without waiting for backoff")
	}
}

func TestIsAzureBlobURL(t *testing.T) {
	tests := map[string]bool{
		"https://acct.blob.core.windows.net/plans/house.png": true,
		"https://ACCT.BLOB.CORE.WINDOWS.NET/plans/house.png": true,
		"https://example.com/house.png":                      false,
		"":                                                   false,
	}
	for u, want := range tests {
		if got := IsAzureBlobURL(u); got != want {
			t.Errorf("IsAzureBlobURL(%q) = %v, want %v", u, got, want)
		}
	}
}
