// Package qito talks to the external QITO provisioning API, which issues a
// username/password credential pair for dynamic plans.
package qito

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

type createRequest struct {
	ExpireDate  string `json:"expire_date"`
	DeviceLimit int    `json:"device_limit"`
}

// Credentials is the issuer's response. Username and Password are opaque;
// Raw keeps the full response body for later re-display.
type Credentials struct {
	Username string          `json:"username"`
	Password string          `json:"password"`
	Raw      json.RawMessage `json:"-"`
}

// CreateUser provisions a credential valid for durationDays across
// deviceLimit devices. Any non-2xx response or transport error is a uniform
// failure; the API's error body is not interpreted, and there is no retry.
func (c *Client) CreateUser(ctx context.Context, deviceLimit, durationDays int) (*Credentials, error) {
	expiry := time.Now().AddDate(0, 0, durationDays)
	body, err := json.Marshal(createRequest{
		ExpireDate:  expiry.Format("2006-01-02T15:04"),
		DeviceLimit: deviceLimit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "*/*")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("issuer request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read issuer response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("issuer returned status %d", resp.StatusCode)
	}

	var creds Credentials
	if err := json.Unmarshal(raw, &creds); err != nil {
		return nil, fmt.Errorf("failed to decode issuer response: %w", err)
	}
	creds.Raw = raw
	return &creds, nil
}
