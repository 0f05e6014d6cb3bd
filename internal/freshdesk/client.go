package freshdesk

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
)

// Client talks to the Freshdesk v2 REST API. The zero value is not usable:
// Domain and APIKey must be set. BaseURL and HTTPClient default lazily, the
// same way the upstream geocoder client does.
type Client struct {
	Domain     string
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
	Logger     zerolog.Logger
}

// APIError is a non-2xx response from Freshdesk. It is logged once at the
// client and then propagated unchanged; nothing in this codebase retries.
type APIError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("freshdesk: %s %s returned %d: %s", e.Method, e.URL, e.StatusCode, e.Body)
}

// AuthHeaders builds the headers Freshdesk requires: HTTP Basic with the API
// key as username and the literal "X" as password.
func AuthHeaders(apiKey string) map[string]string {
	encoded := base64.StdEncoding.EncodeToString([]byte(apiKey + ":X"))
	return map[string]string{
		"Content-Type":  "application/json",
		"Authorization": "Basic " + encoded,
	}
}

// TicketURL is the human-facing portal link for a ticket.
func (c *Client) TicketURL(id int64) string {
	return fmt.Sprintf("https://%s/helpdesk/tickets/%d", c.Domain, id)
}

func (c *Client) apiBase() string {
	if c.BaseURL != "" {
		return c.BaseURL
	}
	return "https://" + c.Domain + "/api/v2"
}

// do issues one API call and decodes the response into out (when non-nil).
// Request and response details are logged at debug level; the Authorization
// header is never written to the log.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any, out any) error {
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	}

	endpoint := c.apiBase() + "/" + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var payload []byte
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		payload = b
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return err
	}
	for k, v := range AuthHeaders(c.APIKey) {
		req.Header.Set(k, v)
	}

	evt := c.Logger.Debug().Str("method", method).Str("url", endpoint)
	if payload != nil {
		evt = evt.RawJSON("request_body", payload)
	}
	evt.Msg("freshdesk request")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	c.Logger.Debug().
		Int("status", resp.StatusCode).
		Str("content_type", resp.Header.Get("Content-Type")).
		Str("request_id", resp.Header.Get("X-Request-Id")).
		Int("body_bytes", len(respBody)).
		Msg("freshdesk response")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{
			Method:     method,
			URL:        endpoint,
			StatusCode: resp.StatusCode,
			Body:       string(respBody),
		}
		c.Logger.Error().
			Str("method", method).
			Str("url", endpoint).
			Int("status", resp.StatusCode).
			Str("response_body", apiErr.Body).
			Msg("freshdesk api error")
		return apiErr
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("freshdesk: decode %s %s: %w", method, path, err)
		}
	}
	return nil
}
