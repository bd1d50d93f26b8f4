package transport

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/mkngrm/unipisync/pkg/errors"
)

// DecodeJSON decodes a JSON response body into the target structure.
// A non-2xx status is reported as an APIError carrying the body text.
// The response body is always drained and closed so connections can be
// reused.
func DecodeJSON(resp *http.Response, endpoint string, target any) error {
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.WrapIO("read", "response body", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &errors.APIError{
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode,
			Message:    string(body),
		}
	}

	if target == nil {
		return nil
	}

	if err := json.Unmarshal(body, target); err != nil {
		return errors.WrapParse("json", endpoint, err)
	}

	return nil
}

// Discard drains and closes a response body, returning an APIError for
// non-2xx statuses. Used for calls whose payload is irrelevant, such as the
// record upsert PUT.
func Discard(resp *http.Response, endpoint string) error {
	return DecodeJSON(resp, endpoint, nil)
}
