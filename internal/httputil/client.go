// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/pdiddy/da-research/pkg/types"
)

// Browser-like Accept headers sent by the retrieval stages.
const (
	AcceptHTML = "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"
	AcceptPDF  = "application/pdf,*/*;q=0.8"
)

// NewClient returns an HTTP client whose overall timeout comes from cfg.
// A zero timeout falls back to types.DefaultTimeout.
func NewClient(cfg types.HTTPConfig) *http.Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = types.DefaultTimeout
	}
	return &http.Client{Timeout: timeout}
}

// Get issues a GET request bounded by timeout on top of ctx. The returned
// cancel func must be called once the body has been consumed; it releases
// the per-call deadline together with the connection.
func Get(ctx context.Context, client *http.Client, rawURL, userAgent, accept string, timeout time.Duration) (*http.Response, context.CancelFunc, error) {
	if timeout <= 0 {
		timeout = types.DefaultTimeout
	}
	callCtx, cancel := context.WithTimeout(ctx, timeout)

	req, err := http.NewRequestWithContext(callCtx, http.MethodGet, rawURL, nil)
	if err != nil {
		cancel()
		return nil, nil, fmt.Errorf("building request: %w", err)
	}
	if userAgent == "" {
		userAgent = types.DefaultUserAgent
	}
	req.Header.Set("User-Agent", userAgent)
	if accept != "" {
		req.Header.Set("Accept", accept)
	}

	resp, err := DoWithRetry(callCtx, client, req, 0)
	if err != nil {
		cancel()
		return nil, nil, err
	}
	return resp, cancel, nil
}
