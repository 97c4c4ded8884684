// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"fmt"
	"net/http"

	"google.golang.org/genai"

	"github.com/pdiddy/da-research/internal/logging"
	"github.com/pdiddy/da-research/pkg/types"
)

// NewBackend builds the web search backend named by cfg.Backend. The
// gemini backend needs genaiClient; "none" returns nil.
func NewBackend(cfg types.SearchConfig, client *http.Client, genaiClient *genai.Client, model string, log logging.Logger) (Backend, error) {
	switch cfg.Backend {
	case "", "duckduckgo":
		return NewDuckDuckGo(client, cfg, log), nil
	case "gemini":
		g, err := NewGrounded(genaiClient, model, log)
		if err != nil {
			return nil, err
		}
		return g, nil
	case "none":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown search backend %q", cfg.Backend)
	}
}
