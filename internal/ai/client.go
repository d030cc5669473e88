package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"
)

var (
	// ErrNoCredential means no API key is configured; AI endpoints stay up
	// but report themselves unavailable.
	ErrNoCredential = errors.New("ai: no API key configured")

	// ErrBusy means another AI request is still in flight. One request at a
	// time keeps the dashboard from racing its own model calls.
	ErrBusy = errors.New("ai: request already in flight")

	// ErrUpstream wraps transport and non-2xx failures from the model API.
	ErrUpstream = errors.New("ai: upstream error")

	// ErrParseFailure means the model answered but no usable JSON proposal
	// could be extracted from the reply.
	ErrParseFailure = errors.New("ai: unparseable model output")
)

const DefaultModel = "gemini-2.5-flash"

// Client calls a generateContent-style text completion endpoint. At most one
// request runs at a time; concurrent callers get ErrBusy instead of queueing.
type Client struct {
	endpoint string
	model    string
	apiKey   string
	httpc    *http.Client

	inFlight atomic.Bool
}

func NewClient(endpoint, model, apiKey string, timeout time.Duration) *Client {
	if model == "" {
		model = DefaultModel
	}
	return &Client{
		endpoint: endpoint,
		model:    model,
		apiKey:   apiKey,
		httpc:    &http.Client{Timeout: timeout},
	}
}

// Available reports whether the client has a credential to work with.
func (c *Client) Available() bool {
	return c.apiKey != ""
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Generate sends a single prompt and returns the model's text reply.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	if !c.Available() {
		return "", ErrNoCredential
	}
	if !c.inFlight.CompareAndSwap(false, true) {
		return "", ErrBusy
	}
	defer c.inFlight.Store(false)

	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.endpoint, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("%w: read response: %v", ErrUpstream, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		slog.ErrorContext(ctx, "Model API returned error status",
			"status", resp.StatusCode,
			"model", c.model)
		return "", fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
	}

	var parsed generateResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", ErrUpstream, err)
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("%w: empty candidate list", ErrUpstream)
	}

	return parsed.Candidates[0].Content.Parts[0].Text, nil
}
