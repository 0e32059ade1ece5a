// Package roblox is a thin client for the Roblox Open Cloud and public
// web APIs: standard and ordered datastores, the messaging service, user
// lookup, and avatar thumbnails. All calls take a context and surface
// non-2xx responses as *HTTPError.
package roblox

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	lru "github.com/hashicorp/golang-lru/v2"
)

const (
	defaultCloudBase  = "https://apis.roblox.com"
	defaultUsersBase  = "https://users.roblox.com"
	defaultThumbsBase = "https://thumbnails.roblox.com"

	// usernameCacheSize bounds the id-to-username cache. Entries are
	// evicted least-recently-used; usernames change rarely enough that
	// staleness is acceptable.
	usernameCacheSize = 1024

	// maxErrorBody caps how much of an error response is kept in the
	// returned error.
	maxErrorBody = 1000
)

// HTTPError is a non-2xx response from a Roblox API.
type HTTPError struct {
	Status int
	Body   string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("roblox: unexpected status %d: %s", e.Status, e.Body)
}

// Client talks to the Roblox APIs for one universe.
type Client struct {
	apiKey     string
	universeID string
	httpc      *http.Client
	logger     *log.Logger

	// Base URLs are overridable for tests.
	cloudBase  string
	usersBase  string
	thumbsBase string

	names *lru.Cache[int64, string]
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient swaps the underlying HTTP client.
func WithHTTPClient(httpc *http.Client) Option {
	return func(c *Client) { c.httpc = httpc }
}

// WithBaseURLs points the client at alternate API hosts. Empty strings
// keep the defaults. Used by tests to target an httptest server.
func WithBaseURLs(cloud, users, thumbs string) Option {
	return func(c *Client) {
		if cloud != "" {
			c.cloudBase = cloud
		}
		if users != "" {
			c.usersBase = users
		}
		if thumbs != "" {
			c.thumbsBase = thumbs
		}
	}
}

// WithLogger sets the client logger.
func WithLogger(logger *log.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// NewClient creates a client for the given universe. The API key must
// carry datastore, ordered-datastore, and messaging permissions for the
// universe.
func NewClient(apiKey, universeID string, opts ...Option) *Client {
	c := &Client{
		apiKey:     apiKey,
		universeID: universeID,
		httpc:      &http.Client{Timeout: 15 * time.Second},
		logger:     log.Default(),
		cloudBase:  defaultCloudBase,
		usersBase:  defaultUsersBase,
		thumbsBase: defaultThumbsBase,
	}
	// Cache construction only fails on a non-positive size.
	c.names, _ = lru.New[int64, string](usernameCacheSize)
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// UniverseID returns the universe the client is bound to.
func (c *Client) UniverseID() string {
	return c.universeID
}

// checkStatus drains the body into an *HTTPError when the response is
// not a success.
func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return &HTTPError{Status: resp.StatusCode, Body: string(body)}
}
