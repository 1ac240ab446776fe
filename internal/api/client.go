package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client posts notification requests to the seat alert backend.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient returns a Client for the backend at baseURL.  A nil httpClient
// uses a client with a 15 second timeout.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}
}

// Submit sends req once.  The decoded body is returned for any status code;
// an error means the backend could not be reached or did not answer JSON.
func (c *Client) Submit(ctx context.Context, req NotificationRequest) (NotificationResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return NotificationResponse{}, fmt.Errorf("marshal request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/notifications", bytes.NewReader(body))
	if err != nil {
		return NotificationResponse{}, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return NotificationResponse{}, fmt.Errorf("post notification: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return NotificationResponse{}, fmt.Errorf("read response: %w", err)
	}
	var out NotificationResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return NotificationResponse{}, fmt.Errorf("decode response (status %d): %w", resp.StatusCode, err)
	}
	return out, nil
}
