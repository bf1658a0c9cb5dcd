// Package client is the consumer-side wrapper around the generation
// API: one POST per invocation, no retries, no deduplication of
// concurrent submissions. Errors it returns are display-ready.
package client

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"modpocket/internal/domain"
)

// ConnectivityErrMsg is shown for any transport-level failure. The raw
// transport error is unhelpful to end users, so it is never surfaced.
const ConnectivityErrMsg = "cannot reach the wallpaper service: check your connection and try again"

// Result is a successful generation: the decoded PNG and the module
// codes the server echoed back.
type Result struct {
	Image   []byte
	Modules []string
}

// Client talks to one modpocket server.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a client for the service at baseURL. The timeout covers
// the whole generation round trip.
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 3 * time.Minute,
		},
	}
}

// Generate submits one generation request. Transport failures map to
// the fixed connectivity message; a server-supplied error is returned
// verbatim. An in-flight request cannot be aborted other than through
// ctx cancellation.
func (c *Client) Generate(ctx context.Context, req domain.GenerateReq) (*Result, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, errors.New(ConnectivityErrMsg)
	}
	defer resp.Body.Close()

	var res domain.GenerateRes
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("wallpaper service returned status %d", resp.StatusCode)
		}
		return nil, errors.New("wallpaper service returned an unreadable response")
	}

	if resp.StatusCode != http.StatusOK || !res.Success {
		if res.Error != "" {
			return nil, errors.New(res.Error)
		}
		return nil, fmt.Errorf("wallpaper service returned status %d", resp.StatusCode)
	}

	img, err := base64.StdEncoding.DecodeString(res.ImageBase64)
	if err != nil {
		return nil, errors.New("wallpaper service returned a malformed image")
	}
	return &Result{Image: img, Modules: res.Modules}, nil
}
