// Package upstream is the HTTP plumbing shared by the provider clients.
// Every call waits on a client-side rate limiter and runs inside a circuit
// breaker; only network errors and 5xx responses count as breaker failures.
package upstream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/deppfellow/gearguardian/internal/observability"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"
)

// ErrUnavailable is returned while the breaker rejects calls.
var ErrUnavailable = errors.New("provider temporarily unavailable")

// StatusError is a non-2xx response.
type StatusError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: unexpected status %d: %s", e.Provider, e.StatusCode, e.Body)
}

// IsUnauthorized reports whether err is a 401 from the provider.
func IsUnauthorized(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == http.StatusUnauthorized
}

// Options configures a Client.
type Options struct {
	Provider string
	BaseURL  string
	// RatePerSecond is the sustained request rate; bursts of up to 5 are allowed.
	RatePerSecond float64
	Timeout       time.Duration
	HTTPClient    *http.Client
	Logger        *zerolog.Logger
}

type Client struct {
	provider string
	baseURL  string
	http     *http.Client
	limiter  *rate.Limiter
	breaker  *gobreaker.CircuitBreaker[[]byte]
	logger   zerolog.Logger
}

func New(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout == 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = opts.Logger.With().Str("provider", opts.Provider).Logger()
	}

	c := &Client{
		provider: opts.Provider,
		baseURL:  strings.TrimRight(opts.BaseURL, "/"),
		http:     httpClient,
		limiter:  rate.NewLimiter(rate.Limit(opts.RatePerSecond), 5),
		logger:   logger,
	}

	observability.SetBreakerState(opts.Provider, 0)
	c.breaker = gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        opts.Provider,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsSuccessful: func(err error) bool {
			var se *StatusError
			if errors.As(err, &se) {
				return se.StatusCode < http.StatusInternalServerError
			}
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			c.logger.Warn().Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state change")
			observability.SetBreakerState(name, stateValue(to))
		},
	})

	return c
}

func stateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}

// Request describes one call relative to the base URL.
type Request struct {
	Method      string
	Path        string
	Query       url.Values
	BearerToken string
}

// Do sends the request and returns the body of a 2xx response.
func (c *Client) Do(ctx context.Context, r Request) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%s: rate limiter: %w", c.provider, err)
	}

	body, err := c.breaker.Execute(func() ([]byte, error) {
		return c.send(ctx, r)
	})
	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		observability.RecordUpstreamRequest(c.provider, "rejected")
		return nil, fmt.Errorf("%s: %w", c.provider, ErrUnavailable)
	case err != nil:
		observability.RecordUpstreamRequest(c.provider, "failure")
		return nil, err
	}

	observability.RecordUpstreamRequest(c.provider, "success")
	return body, nil
}

// GetJSON issues a GET and decodes the JSON response into out.
func (c *Client) GetJSON(ctx context.Context, path string, query url.Values, bearer string, out any) error {
	body, err := c.Do(ctx, Request{
		Method:      http.MethodGet,
		Path:        path,
		Query:       query,
		BearerToken: bearer,
	})
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%s: decode %s: %w", c.provider, path, err)
	}
	return nil
}

func (c *Client) send(ctx context.Context, r Request) ([]byte, error) {
	method := r.Method
	if method == "" {
		method = http.MethodGet
	}

	target := c.baseURL + r.Path
	if len(r.Query) > 0 {
		target += "?" + r.Query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("%s: create request: %w", c.provider, err)
	}
	req.Header.Set("Accept", "application/json")
	if r.BearerToken != "" {
		req.Header.Set("Authorization", "Bearer "+r.BearerToken)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: request failed: %w", c.provider, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 32<<20))
	if err != nil {
		return nil, fmt.Errorf("%s: read body: %w", c.provider, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet := string(body)
		if len(snippet) > 256 {
			snippet = snippet[:256]
		}
		return nil, &StatusError{Provider: c.provider, StatusCode: resp.StatusCode, Body: snippet}
	}

	return body, nil
}
