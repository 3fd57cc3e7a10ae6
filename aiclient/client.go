// Package aiclient is the preset-generation service boundary (spec §6.3):
// it posts a free-text prompt to a user-configured HTTP endpoint and
// expects the JSON preset schema of §6.2 back. No ecosystem HTTP client
// library appears anywhere in the retrieved example pack for this kind of
// boundary, so this package is the one place in the repo built directly
// on net/http (see DESIGN.md for the justification this required).
package aiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/phoenix-chimera/audiocore/preset"
)

// DefaultTimeout is the "typically 30s" external-service timeout spec §5
// calls for ("Control-thread operations contacting external AI services
// must carry a timeout"). Used when the caller's context carries no
// deadline of its own.
const DefaultTimeout = 30 * time.Second

// Client posts prompts to the AI preset-generation service and parses its
// JSON response into a preset.Preset. It holds no chain reference and
// mutates no chain state itself — per spec §6.3/§7, a failure here must
// leave the chain untouched, which is naturally satisfied by never giving
// this package a chain to touch; the caller decides whether and how to
// apply the returned preset.
type Client struct {
	Endpoint   string
	HTTPClient *http.Client
}

// New constructs a Client targeting endpoint, using a private http.Client
// with no overall deadline of its own (the per-request deadline is
// applied via context in Generate, not via http.Client.Timeout, so a
// caller-supplied context deadline shorter than DefaultTimeout is
// honoured instead of silently overridden).
func New(endpoint string) *Client {
	return &Client{Endpoint: endpoint, HTTPClient: &http.Client{}}
}

type promptRequest struct {
	Prompt string `json:"prompt"`
}

// Generate posts {"prompt": prompt} to the configured endpoint and parses
// the response as a preset (spec §6.3). If ctx carries no deadline,
// DefaultTimeout is applied. Any failure — network, HTTP status,
// malformed JSON, or schema violation — is returned as an error and
// produces no side effect; the caller is expected to surface it as a UI
// error and leave the current preset running (spec §7).
func (c *Client) Generate(ctx context.Context, prompt string) (*preset.Preset, error) {
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultTimeout)
		defer cancel()
	}

	body, err := json.Marshal(promptRequest{Prompt: prompt})
	if err != nil {
		return nil, fmt.Errorf("aiclient: encoding prompt: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("aiclient: building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("aiclient: request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("aiclient: reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("aiclient: service returned status %d: %s", resp.StatusCode, truncate(data, 256))
	}

	p, err := preset.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("aiclient: %w", err)
	}
	return p, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
