package brightspace

import (
	"context"
	"net/url"
	"time"

	"github.com/agentstation/utc"

	"github.com/agentstation/rostersync/internal/transport"
	"github.com/agentstation/rostersync/pkg/constants"
	"github.com/agentstation/rostersync/pkg/errors"
	"github.com/agentstation/rostersync/pkg/logging"
)

// tokenResponse is the OAuth2 token endpoint payload.
type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	Scope        string `json:"scope"`
}

// Session carries the credentials of one authorized run. Every API call
// takes the session explicitly.
type Session struct {
	AccessToken string
	// RefreshToken replaces the configured one; Brightspace refresh tokens
	// are single use, so it must be persisted before the next run.
	RefreshToken string
	ExpiresAt    utc.Time
}

// Expired reports whether the access token has expired.
func (s *Session) Expired() bool {
	return !s.ExpiresAt.Time.IsZero() && time.Now().After(s.ExpiresAt.Time)
}

// RefreshToken trades the configured refresh token for an access token.
func (c *Client) RefreshToken(ctx context.Context) (*Session, error) {
	if err := c.cfg.Validate(); err != nil {
		return nil, err
	}

	endpoint := c.cfg.AuthService + "/core/connect/token"
	form := url.Values{
		"grant_type":    {"refresh_token"},
		"refresh_token": {c.cfg.RefreshToken},
		"scope":         {constants.DataExportScope},
	}

	tc := transport.NewWithHTTPClient(c.http, &transport.BasicAuth{
		Username: c.cfg.ClientID,
		Password: c.cfg.ClientSecret,
	})
	resp, err := tc.PostForm(ctx, endpoint, form)
	if err != nil {
		return nil, &errors.APIError{Service: Service, Endpoint: endpoint, Message: "token request failed", Err: err}
	}

	var tok tokenResponse
	if err := transport.DecodeResponse(resp, Service, &tok); err != nil {
		return nil, &errors.AuthenticationError{
			Service: Service,
			Method:  "refresh_token",
			Message: "could not refresh access token",
			Err:     err,
		}
	}
	if tok.AccessToken == "" {
		return nil, &errors.AuthenticationError{
			Service: Service,
			Method:  "refresh_token",
			Message: "token response has no access token",
		}
	}

	session := &Session{AccessToken: tok.AccessToken, RefreshToken: tok.RefreshToken}
	if tok.ExpiresIn > 0 {
		session.ExpiresAt = utc.New(time.Now().Add(time.Duration(tok.ExpiresIn) * time.Second))
	}

	logging.FromContext(ctx).Debug().
		Int("expires_in", tok.ExpiresIn).
		Bool("rotated", tok.RefreshToken != "" && tok.RefreshToken != c.cfg.RefreshToken).
		Msg("Refreshed Brightspace access token")

	return session, nil
}
