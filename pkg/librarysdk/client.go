package librarysdk

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"
)

// Client talks to the library service. Every authenticated call goes through
// the same wrapper, which attaches the stored access token and recovers once
// from a 401 by refreshing it.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client

	// Store holds the session values. The client only writes to it when a
	// refresh succeeds or fails; everything else is the Session's job.
	Store TokenStore

	Logger  *slog.Logger
	Metrics *Metrics

	refreshGroup singleflight.Group
}

// NewClient creates a client for the API rooted at baseURL
// (e.g. "http://localhost:8000/api/").
func NewClient(baseURL string, store TokenStore) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		Store: store,
	}
}

// Session returns the session manager bound to this client's store.
func (c *Client) Session() *Session {
	return &Session{client: c}
}

func (c *Client) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.Default()
	}
	return c.Logger
}
