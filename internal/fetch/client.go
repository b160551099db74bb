package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Page is the raw response for one fetched URL.
type Page struct {
	URL        string
	StatusCode int
	Body       []byte
}

// OK reports whether the page came back with 200.
func (p *Page) OK() bool {
	return p.StatusCode == http.StatusOK
}

// Client fetches wiki pages over plain unauthenticated HTTP.
type Client struct {
	userAgent  string
	httpClient *http.Client

	Stats *Stats
}

func NewClient(userAgent string, timeout time.Duration) *Client {
	return &Client{
		userAgent: userAgent,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		Stats: NewStats(time.Hour),
	}
}

// maxBodyBytes bounds a single page read.
const maxBodyBytes = 32 << 20

// Get issues a GET for url. Non-200 responses are not errors; callers decide
// what a status means for them.
func (c *Client) Get(ctx context.Context, url string) (*Page, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if c.userAgent != "" {
		httpReq.Header.Set("User-Agent", c.userAgent)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.Stats.Record(Observation{Latency: time.Since(start)})
		return nil, fmt.Errorf("get %s: %w", url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	c.Stats.Record(Observation{Latency: time.Since(start), Status: resp.StatusCode, Bytes: len(body)})
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", url, err)
	}

	return &Page{URL: url, StatusCode: resp.StatusCode, Body: body}, nil
}

// Close releases idle connections.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}
