// Package arr provides HTTP clients for Radarr and Sonarr v3 APIs: queue
// inspection for the status poller, lookups, and search initiation.
package arr

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
)

// client is the shared transport under RadarrClient and SonarrClient.
// Transient failures (connection errors, 5xx) are retried with backoff.
type client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	log        *slog.Logger
}

func newClient(baseURL, apiKey, component string, log *slog.Logger) *client {
	if log == nil {
		log = slog.Default()
	}
	return &client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		log:     log.With("component", component),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// errStatus marks a retryable server-side failure.
type errStatus struct{ code int }

func (e errStatus) Error() string { return fmt.Sprintf("unexpected status: %d", e.code) }

func (c *client) get(ctx context.Context, path string, query url.Values, result any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, result)
}

func (c *client) post(ctx context.Context, path string, body, result any) error {
	return c.do(ctx, http.MethodPost, path, nil, body, result)
}

func (c *client) put(ctx context.Context, path string, body, result any) error {
	return c.do(ctx, http.MethodPut, path, nil, body, result)
}

func (c *client) do(ctx context.Context, method, path string, query url.Values, body, result any) error {
	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode body: %w", err)
		}
	}

	start := time.Now()
	err := retry.Do(
		func() error { return c.doOnce(ctx, method, reqURL, payload, result) },
		retry.Context(ctx),
		retry.Attempts(3),
		retry.Delay(500*time.Millisecond),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			var se errStatus
			return errors.Is(err, ErrUnavailable) || errors.As(err, &se)
		}),
	)
	if err != nil {
		return err
	}

	c.log.Debug("api request complete",
		"method", method, "path", path, "duration_ms", time.Since(start).Milliseconds())
	return nil
}

func (c *client) doOnce(ctx context.Context, method, reqURL string, payload []byte, result any) error {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, reqURL, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("X-Api-Key", c.apiKey)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Debug("api request failed", "method", method, "error", err)
		return ErrUnavailable
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return ErrUnauthorized
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode >= 500:
		return errStatus{code: resp.StatusCode}
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	if result == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// queueRecord is the slice of an arr queue item both backends share.
type queueRecord struct {
	MovieID   int64   `json:"movieId"`
	EpisodeID int64   `json:"episodeId"`
	Status    string  `json:"status"`
	Size      float64 `json:"size"`
	SizeLeft  float64 `json:"sizeleft"`
}

type queueResponse struct {
	Records []queueRecord `json:"records"`
}

func (c *client) fetchQueue(ctx context.Context) ([]queueRecord, error) {
	query := url.Values{
		"page":     {"1"},
		"pageSize": {"1000"},
	}
	var resp queueResponse
	if err := c.get(ctx, "/api/v3/queue", query, &resp); err != nil {
		return nil, fmt.Errorf("fetch queue: %w", err)
	}
	return resp.Records, nil
}
