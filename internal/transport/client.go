package transport

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/agentstation/rostersync/pkg/constants"
	"github.com/agentstation/rostersync/pkg/errors"
)

// DefaultHTTPTimeout is the default timeout for HTTP requests.
var DefaultHTTPTimeout = constants.DefaultHTTPTimeout

// Client provides HTTP client functionality with authentication.
type Client struct {
	http *http.Client
	auth Authenticator
}

// New creates a new transport client with the specified authenticator.
func New(auth Authenticator) *Client {
	if auth == nil {
		auth = &NoAuth{}
	}
	return &Client{
		http: &http.Client{Timeout: DefaultHTTPTimeout},
		auth: auth,
	}
}

// NewWithHTTPClient creates a transport client around an existing http.Client.
func NewWithHTTPClient(hc *http.Client, auth Authenticator) *Client {
	c := New(auth)
	if hc != nil {
		c.http = hc
	}
	return c
}

// WithAuth returns a client sharing c's http.Client with a different authenticator.
func (c *Client) WithAuth(auth Authenticator) *Client {
	return NewWithHTTPClient(c.http, auth)
}

// Do performs an HTTP request with authentication applied and context support.
func (c *Client) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	c.auth.Apply(req)

	// Set common headers
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "application/json")
	}

	return c.http.Do(req.WithContext(ctx))
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.WrapResource("create", "request", "GET "+url, err)
	}
	return c.Do(ctx, req)
}

// PostForm performs a POST with a form-encoded body.
func (c *Client) PostForm(ctx context.Context, url string, form url.Values) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, errors.WrapResource("create", "request", "POST "+url, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.Do(ctx, req)
}
