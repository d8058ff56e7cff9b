package pumpfeed

// Package pumpfeed contains the client for the upcoming-tokens feed.
// This file is the transport layer - it knows nothing about the watch
// lifecycle, it just sends requests and returns bodies.

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"launch-radar/internal/infra/log"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// DefaultBaseURL is the production feed endpoint.
const DefaultBaseURL = "https://hot-data.politicalpump.com"

// Client holds everything needed to talk to the feed: base URL,
// HTTP client, rate limiter and circuit breaker.
type Client struct {
	baseURL         string
	httpClient      *http.Client
	rateLimiter     *rate.Limiter
	circuitBreaker  *gobreaker.CircuitBreaker
	maxResponseSize int64
}

// NewClient returns a feed client ready to use.
// An empty baseURL selects the production feed; requestTimeout <= 0
// falls back to 15 seconds.
func NewClient(baseURL string, requestTimeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if requestTimeout <= 0 {
		requestTimeout = 15 * time.Second
	}

	// The release monitors poll every couple of seconds each; cap the
	// aggregate request rate so a burst of launches cannot hammer the feed.
	rateLimiter := rate.NewLimiter(rate.Limit(10), 20)

	circuitBreaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "PumpFeed",
		MaxRequests: 3,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 5
		},
	})

	return &Client{
		baseURL:         baseURL,
		rateLimiter:     rateLimiter,
		circuitBreaker:  circuitBreaker,
		maxResponseSize: 10 * 1024 * 1024,
		httpClient: &http.Client{
			Timeout: requestTimeout,
			Transport: &http.Transport{
				DisableKeepAlives: false,
				MaxIdleConns:      10,
				IdleConnTimeout:   90 * time.Second,
			},
		},
	}
}

// MakeRequest performs an HTTP request against the feed with rate limiting
// and circuit breaking, and returns the raw response body.
func (c *Client) MakeRequest(ctx context.Context, method, endpoint string) ([]byte, error) {
	requestID := log.GenerateRequestID()
	startTime := time.Now()

	if ctx.Err() != nil {
		return nil, fmt.Errorf("context cancelled: %w", ctx.Err())
	}

	if c.rateLimiter != nil {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter wait failed: %w", err)
		}
	}

	var respBody []byte
	var err error

	if c.circuitBreaker != nil {
		_, err = c.circuitBreaker.Execute(func() (interface{}, error) {
			body, err := c.makeRequestWithContext(ctx, requestID, method, endpoint, startTime)
			if err != nil {
				return nil, err
			}
			respBody = body
			return body, nil
		})
		if err != nil {
			log.LogError("Circuit breaker rejected request",
				zap.String("request_id", requestID),
				zap.String("endpoint", endpoint),
				zap.Error(err))
			return nil, err
		}
	} else {
		respBody, err = c.makeRequestWithContext(ctx, requestID, method, endpoint, startTime)
		if err != nil {
			return nil, err
		}
	}

	return respBody, nil
}

func (c *Client) makeRequestWithContext(ctx context.Context, requestID, method, endpoint string, startTime time.Time) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	setBrowserHeaders(req)

	log.LogRequest(requestID, method, endpoint, zap.String("url", req.URL.String()))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		duration := time.Since(startTime).Milliseconds()
		log.LogResponse(requestID, 0, duration, zap.String("endpoint", endpoint), zap.Error(err))
		return nil, fmt.Errorf("failed to perform request: %w", err)
	}
	defer resp.Body.Close()

	limitedReader := io.LimitReader(resp.Body, c.maxResponseSize)
	respBody, err := io.ReadAll(limitedReader)
	if err != nil {
		duration := time.Since(startTime).Milliseconds()
		log.LogResponse(requestID, resp.StatusCode, duration, zap.String("endpoint", endpoint), zap.Error(err))
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	duration := time.Since(startTime).Milliseconds()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.LogResponse(requestID, resp.StatusCode, duration,
			zap.String("endpoint", endpoint),
			zap.String("error", "feed error response received"))
		return nil, fmt.Errorf("feed error (%d): %s", resp.StatusCode, string(respBody))
	}

	log.LogResponse(requestID, resp.StatusCode, duration, zap.String("endpoint", endpoint))

	return respBody, nil
}

// setBrowserHeaders keeps the feed's CDN happy; it blocks obvious bot agents.
func setBrowserHeaders(req *http.Request) {
	req.Header.Set("User-Agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/136.0.0.0 Safari/537.36")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Connection", "keep-alive")
}
