// Package brightspace talks to the Brightspace OAuth2 service and the Data
// Hub export API: it trades a refresh token for an access token, lists the
// available dataset exports and downloads their archives.
package brightspace

import (
	"net/http"
	"strings"

	"github.com/agentstation/rostersync/internal/transport"
	"github.com/agentstation/rostersync/pkg/constants"
	"github.com/agentstation/rostersync/pkg/errors"
)

// Service names the remote in errors.
const Service = "brightspace"

// Config holds the Brightspace instance and OAuth2 client credentials.
type Config struct {
	BaseURL      string // e.g. https://school.brightspace.com
	AuthService  string // defaults to constants.DefaultAuthService
	ClientID     string
	ClientSecret string
	RefreshToken string
}

// Validate checks that every setting needed to talk to Brightspace is present.
func (c Config) Validate() error {
	missing := func(key string) error {
		return errors.NewConfigError("brightspace", key+" is not set", nil)
	}
	switch {
	case c.BaseURL == "":
		return missing("bspace_url")
	case c.ClientID == "":
		return missing("client_id")
	case c.ClientSecret == "":
		return missing("client_secret")
	case c.RefreshToken == "":
		return missing("refresh_token")
	}
	return nil
}

// Client is a Brightspace API client.
type Client struct {
	cfg      Config
	http     *http.Client
	download *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient uses hc for every request, API calls and downloads alike.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
		c.download = hc
	}
}

// NewClient creates a client for cfg.
func NewClient(cfg Config, opts ...Option) *Client {
	if cfg.AuthService == "" {
		cfg.AuthService = constants.DefaultAuthService
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	cfg.AuthService = strings.TrimRight(cfg.AuthService, "/")

	c := &Client{
		cfg:      cfg,
		http:     &http.Client{Timeout: constants.DefaultHTTPTimeout},
		download: &http.Client{Timeout: constants.DownloadTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Config returns the client's configuration.
func (c *Client) Config() Config {
	return c.cfg
}

// api returns a transport authorized for the session.
func (c *Client) api(session *Session) *transport.Client {
	return transport.NewWithHTTPClient(c.http, &transport.BearerAuth{Token: session.AccessToken})
}
