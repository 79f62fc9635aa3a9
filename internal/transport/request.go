package transport

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/agentstation/rostersync/pkg/errors"
	"github.com/agentstation/rostersync/pkg/logging"
)

// maxErrorBody caps how much of a failed response is kept in an APIError.
const maxErrorBody = 4 << 10

// CheckResponse returns an APIError for any non-200 response, consuming and
// closing its body. Successful responses are returned untouched.
func CheckResponse(resp *http.Response, service string) error {
	if resp.StatusCode == http.StatusOK {
		return nil
	}
	defer closeBody(resp)

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	endpoint := ""
	if resp.Request != nil && resp.Request.URL != nil {
		endpoint = resp.Request.URL.Redacted()
	}
	return &errors.APIError{
		Service:    service,
		StatusCode: resp.StatusCode,
		Message:    string(body),
		Endpoint:   endpoint,
	}
}

// DecodeResponse decodes a JSON response into the target structure.
func DecodeResponse(resp *http.Response, service string, target any) error {
	if err := CheckResponse(resp, service); err != nil {
		return err
	}
	defer closeBody(resp)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.WrapIO("read", "response body", err)
	}

	if err := json.Unmarshal(body, target); err != nil {
		return errors.WrapParse("json", "response", err)
	}

	return nil
}

func closeBody(resp *http.Response) {
	if err := resp.Body.Close(); err != nil {
		logging.Warn().Err(err).Msg("Failed to close response body")
	}
}
