// Package fxrates provides a client for the Bank of Canada Valet
// foreign-exchange observations API.
package fxrates

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"

	"github.com/rbhatti-ai/exportguard-ai/internal/resilience"
)

// Client defines the rate lookup operations used by the currency normalizer.
type Client interface {
	// Latest returns the most recent published rate for converting one unit
	// of the from currency into the to currency.
	Latest(ctx context.Context, from, to string) (*Rate, error)
}

// Rate is a single published exchange rate observation.
type Rate struct {
	Value  float64 `json:"value"`
	Date   string  `json:"date"`
	Series string  `json:"series"`
	Source string  `json:"source"`
}

// Option configures the fxrates client.
type Option func(*httpClient)

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithRateLimit caps outbound requests per second.
func WithRateLimit(rps float64) Option {
	return func(c *httpClient) {
		if rps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
		}
	}
}

type httpClient struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient creates a Bank of Canada Valet API client.
func NewClient(opts ...Option) Client {
	c := &httpClient{
		baseURL: "https://www.bankofcanada.ca/valet",
		http: &http.Client{
			Timeout: 10 * time.Second,
		},
		limiter: rate.NewLimiter(rate.Limit(5), 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var currencyCodeRe = regexp.MustCompile(`^[A-Za-z]{3}$`)

// valetResponse is the JSON response from the Valet observations endpoint.
// Observation values are published as strings keyed by series name.
type valetResponse struct {
	Observations []map[string]json.RawMessage `json:"observations"`
}

type valetValue struct {
	V string `json:"v"`
}

func (c *httpClient) Latest(ctx context.Context, from, to string) (*Rate, error) {
	if !currencyCodeRe.MatchString(from) || !currencyCodeRe.MatchString(to) {
		return nil, eris.Errorf("fxrates: invalid currency pair %q/%q", from, to)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "fxrates: rate limit")
	}

	series := fmt.Sprintf("FX%s%s", from, to)
	reqURL := fmt.Sprintf("%s/observations/%s/json?recent=1", c.baseURL, series)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "fxrates: create request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "fxrates: request failed")
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "fxrates: read response body")
	}

	if resp.StatusCode != http.StatusOK {
		err := eris.Errorf("fxrates: unexpected status %d for %s: %s", resp.StatusCode, series, string(body))
		if resilience.IsTransientHTTPStatus(resp.StatusCode) {
			return nil, resilience.NewTransientError(err, resp.StatusCode)
		}
		return nil, err
	}

	var parsed valetResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, eris.Wrap(err, "fxrates: unmarshal response")
	}

	if len(parsed.Observations) == 0 {
		return nil, eris.Errorf("fxrates: no observations for %s", series)
	}

	obs := parsed.Observations[0]

	var date string
	if raw, ok := obs["d"]; ok {
		_ = json.Unmarshal(raw, &date)
	}

	raw, ok := obs[series]
	if !ok {
		return nil, eris.Errorf("fxrates: observation missing series %s", series)
	}
	var vv valetValue
	if err := json.Unmarshal(raw, &vv); err != nil {
		return nil, eris.Wrapf(err, "fxrates: unmarshal %s value", series)
	}

	value, err := strconv.ParseFloat(vv.V, 64)
	if err != nil {
		return nil, eris.Wrapf(err, "fxrates: non-numeric rate %q for %s", vv.V, series)
	}
	if value <= 0 {
		return nil, eris.Errorf("fxrates: non-positive rate %v for %s", value, series)
	}

	return &Rate{
		Value:  value,
		Date:   date,
		Series: series,
		Source: "Bank of Canada (Valet)",
	}, nil
}
