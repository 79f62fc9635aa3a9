package transport

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/rostersync/pkg/errors"
)

func TestClientGetDecodes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		_, _ = w.Write([]byte(`{"name":"ok"}`))
	}))
	defer srv.Close()

	c := New(&BearerAuth{Token: "tok"})
	resp, err := c.Get(context.Background(), srv.URL)
	require.NoError(t, err)

	var body struct {
		Name string `json:"name"`
	}
	require.NoError(t, DecodeResponse(resp, "brightspace", &body))
	assert.Equal(t, "ok", body.Name)
}

func TestClientPostForm(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "refresh_token", r.PostForm.Get("grant_type"))
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	resp, err := New(nil).PostForm(context.Background(), srv.URL, url.Values{"grant_type": {"refresh_token"}})
	require.NoError(t, err)
	require.NoError(t, DecodeResponse(resp, "auth", &struct{}{}))
}

func TestDecodeResponseErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		check  func(t *testing.T, err error)
	}{
		{
			name:   "unauthorized",
			status: http.StatusUnauthorized,
			body:   "invalid_token",
			check: func(t *testing.T, err error) {
				assert.True(t, errors.IsUnauthorized(err))
				assert.Contains(t, err.Error(), "invalid_token")
			},
		},
		{
			name:   "server error",
			status: http.StatusBadGateway,
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, errors.ErrUnavailable)
			},
		},
		{
			name:   "bad json",
			status: http.StatusOK,
			body:   "{",
			check: func(t *testing.T, err error) {
				var pe *errors.ParseError
				assert.ErrorAs(t, err, &pe)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			resp, err := New(nil).Get(context.Background(), srv.URL)
			require.NoError(t, err)

			var target map[string]any
			err = DecodeResponse(resp, "brightspace", &target)
			require.Error(t, err)
			tt.check(t, err)

			var apiErr *errors.APIError
			if errors.As(err, &apiErr) {
				assert.Equal(t, "brightspace", apiErr.Service)
				assert.Equal(t, srv.URL, apiErr.Endpoint)
			}
		})
	}
}
