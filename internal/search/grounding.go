// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/pdiddy/da-research/internal/logging"
	"github.com/pdiddy/da-research/pkg/types"
)

// Grounded runs web search through Gemini's Google Search grounding and
// returns the grounding sources as results.
type Grounded struct {
	models *genai.Models
	model  string
	log    logging.Logger
}

// NewGrounded creates the grounding backend over an existing GenAI client.
func NewGrounded(client *genai.Client, model string, log logging.Logger) (*Grounded, error) {
	if client == nil {
		return nil, fmt.Errorf("grounded search requires a GenAI client")
	}
	if model == "" {
		model = types.DefaultReasonerModel
	}
	return &Grounded{models: client.Models, model: model, log: logging.OrNop(log)}, nil
}

// Name returns the backend identifier.
func (g *Grounded) Name() string { return "gemini" }

// Search asks the model to answer query with Google Search enabled.
func (g *Grounded) Search(ctx context.Context, query string, limit int) ([]types.WebResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, types.NewFailure(types.FailureMissingInput, op, "query is required")
	}
	if limit <= 0 {
		limit = types.DefaultMaxResults
	}
	cfg := &genai.GenerateContentConfig{
		Tools: []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}},
	}
	resp, err := g.models.GenerateContent(ctx, g.model, genai.Text(query), cfg)
	if err != nil {
		return nil, types.WrapFailure(types.FailureBackend, op, fmt.Errorf("grounded search: %w", err))
	}
	results := groundingResults(resp, limit)
	g.log.Debug("web search complete", logging.String("backend", g.Name()), logging.Int("results", len(results)))
	return results, nil
}

// groundingResults collects the web chunks of the first grounded
// candidate. A chunk's snippet is the first response segment it supports.
func groundingResults(resp *genai.GenerateContentResponse, limit int) []types.WebResult {
	if resp == nil {
		return nil
	}
	for _, c := range resp.Candidates {
		md := c.GroundingMetadata
		if md == nil || len(md.GroundingChunks) == 0 {
			continue
		}
		snippets := make(map[int]string)
		for _, s := range md.GroundingSupports {
			if s == nil || s.Segment == nil {
				continue
			}
			for _, idx := range s.GroundingChunkIndices {
				if _, ok := snippets[int(idx)]; !ok {
					snippets[int(idx)] = strings.TrimSpace(s.Segment.Text)
				}
			}
		}

		var results []types.WebResult
		for i, chunk := range md.GroundingChunks {
			if chunk == nil || chunk.Web == nil || chunk.Web.URI == "" {
				continue
			}
			results = append(results, types.WebResult{
				Title:   chunk.Web.Title,
				URL:     chunk.Web.URI,
				Snippet: snippets[i],
			})
			if len(results) == limit {
				break
			}
		}
		return results
	}
	return nil
}
