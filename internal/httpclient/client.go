// Package httpclient builds the shared, pooled HTTP client used by the
// playlist fetcher and any HTTP-based probing backend.
package httpclient

import (
	"context"
	"net/http"
	"time"

	"golang.org/x/net/http2"
	"golang.org/x/time/rate"
)

// userAgent mimics a common media player so upstream playlist servers
// that gate on it behave the same way they would for a real client.
const userAgent = "VLC/3.0.18 LibVLC/3.0.18"

// Client wraps a shared *http.Client with one rate limiter; C2 and any
// HTTP-backed probing backend share one Client per process so the
// connection pool and throttling apply process-wide. The limiter is
// shared by all hosts; requests are not throttled per host.
type Client struct {
	http    *http.Client
	limiter *rate.Limiter
}

// New builds a Client with a bounded idle-connection pool, HTTP/2
// enabled, and a single rate limit of ratePerSec requests/second across
// all hosts (burst equal to ratePerSec, minimum 1).
func New(timeout time.Duration, ratePerSec float64) *Client {
	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 20,
		IdleConnTimeout:     90 * time.Second,
	}
	_ = http2.ConfigureTransport(transport)

	burst := int(ratePerSec)
	if burst < 1 {
		burst = 1
	}

	return &Client{
		http:    &http.Client{Transport: transport, Timeout: timeout},
		limiter: rate.NewLimiter(rate.Limit(ratePerSec), burst),
	}
}

// Get issues a GET request with the shared user agent, blocking until the
// rate limiter admits it or ctx is done. Per §4.2, no retries are added:
// a non-200, timeout, or transport error is the caller's to translate
// into an empty stream list.
func (c *Client) Get(ctx context.Context, url string) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	return c.http.Do(req)
}
