// Package netx contains small HTTP helpers used by the OAuth provider
// clients: issuing a request with headers and decoding a JSON response.
package netx

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// DoJSON issues a request with the given method, headers, and body, and
// decodes a JSON response into out (skipped when out is nil). Non-2xx
// responses are returned as errors with the status and a body excerpt.
func DoJSON(ctx context.Context, client *http.Client, method, rawURL string, headers map[string]string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return err
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("request failed: %s; body: %s", resp.Status, string(b))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// GetJSON issues a GET request and decodes the JSON response into out.
func GetJSON(ctx context.Context, client *http.Client, rawURL string, headers map[string]string, out any) error {
	return DoJSON(ctx, client, http.MethodGet, rawURL, headers, nil, out)
}

// PostForm issues a POST with url-encoded form values, ignoring the
// response body. Used for token revocation endpoints.
func PostForm(ctx context.Context, client *http.Client, rawURL string, form url.Values, headers map[string]string) error {
	h := map[string]string{"Content-Type": "application/x-www-form-urlencoded"}
	for k, v := range headers {
		h[k] = v
	}
	return DoJSON(ctx, client, http.MethodPost, rawURL, h, strings.NewReader(form.Encode()), nil)
}
