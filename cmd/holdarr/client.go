package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client wraps HTTP calls to the holdarr server.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new holdarr API client.
func NewClient(serverURL string) *Client {
	return &Client{
		baseURL: serverURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *Client) get(path string, result any) error {
	resp, err := c.httpClient.Get(c.baseURL + path)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("server error %d: %s", resp.StatusCode, string(body))
	}

	return json.NewDecoder(resp.Body).Decode(result)
}

// API response types (mirror server types)

type MonitorItemResponse struct {
	Key       string `json:"key"`
	Title     string `json:"title"`
	State     string `json:"state"`
	Display   string `json:"display"`
	Progress  int    `json:"progress"`
	Tier      string `json:"tier"`
	StartedAt string `json:"started_at"`
	Attempts  int    `json:"attempts"`
}

type MonitorListResponse struct {
	Items []MonitorItemResponse `json:"items"`
	Total int                   `json:"total"`
}

type EventResponse struct {
	ID         int64           `json:"id"`
	Type       string          `json:"type"`
	EntityType string          `json:"entity_type"`
	EntityID   int64           `json:"entity_id"`
	Payload    json.RawMessage `json:"payload"`
	OccurredAt string          `json:"occurred_at"`
}

type ListEventsResponse struct {
	Items []EventResponse `json:"items"`
	Total int             `json:"total"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

// API methods

func (c *Client) Monitor() (*MonitorListResponse, error) {
	var resp MonitorListResponse
	if err := c.get("/api/v1/monitor", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Events(limit int) (*ListEventsResponse, error) {
	var resp ListEventsResponse
	if err := c.get(fmt.Sprintf("/api/v1/events/recent?limit=%d", limit), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Health() (*HealthResponse, error) {
	var resp HealthResponse
	if err := c.get("/healthz", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
