// Package restapi is a pretend client library for a remote quote service.
//
// Like a real REST client lib it owns an http client, caches responses, and
// throws its own error values, giving consuming code a second foreign error
// set to funnel (alongside the database package).
package restapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/onelson/omn/internal/expiring"
	"resty.dev/v3"
)

// Path on the upstream that serves quotes.
const QuotePath string = "/quote"

// cache key for the one resource this lib fetches
const quoteKey string = "quote"

//#region errors

var (
	// The upstream told us to back off (HTTP 429).
	ErrRateLimited = errors.New("rate limited by quote service")
	// The upstream could not be reached or answered with an unexpected status.
	ErrUnreachable = errors.New("quote service unreachable")
	// The upstream answered 200 but the payload was unusable.
	ErrBadPayload = errors.New("quote service returned a malformed payload")
)

//#endregion errors

// Quote is the resource served by the upstream.
type Quote struct {
	Author string `json:"author" example:"Chesterton Goldpanner" doc:"who said it"`
	Text   string `json:"text" example:"a dazzling remark" doc:"what they said"`
}

// Client fetches quotes from an upstream quote service.
// Construct via NewClient; Close when finished.
type Client struct {
	rest    *resty.Client
	baseURL string

	cache *expiring.Table[string, Quote]
	ttl   time.Duration // <= 0 disables caching
}

// ClientOption is a function to set various options on the client.
// Uses defaults if an option is not set.
type ClientOption func(*Client)

// WithCacheTTL sets how long a fetched quote is served from cache.
// A TTL <= 0 disables the cache.
func WithCacheTTL(ttl time.Duration) ClientOption {
	return func(c *Client) {
		c.ttl = ttl
	}
}

// NewClient returns a client pointed at the quote service rooted at baseURL.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		rest:    resty.New(),
		baseURL: baseURL,
		cache:   expiring.New[string, Quote](),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Quote fetches a quote from the upstream, answering from cache when a fresh one is on hand.
func (c *Client) Quote(ctx context.Context) (Quote, error) {
	if c.ttl > 0 {
		if q, found := c.cache.Load(quoteKey); found {
			return q, nil
		}
	}

	var q Quote
	res, err := c.rest.R().
		SetContext(ctx).
		SetResult(&q).
		Get(c.baseURL + QuotePath)
	if err != nil {
		return Quote{}, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}

	switch res.StatusCode() {
	case http.StatusOK:
		if q.Text == "" {
			return Quote{}, ErrBadPayload
		}
		if c.ttl > 0 {
			c.cache.Store(quoteKey, q, c.ttl)
		}
		return q, nil
	case http.StatusTooManyRequests:
		return Quote{}, ErrRateLimited
	default:
		return Quote{}, fmt.Errorf("%w: unexpected status %d", ErrUnreachable, res.StatusCode())
	}
}

// Close releases the client's resources.
func (c *Client) Close() {
	c.rest.Close()
}
