// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package reasoner

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pdiddy/da-research/internal/webfetch"
	"github.com/pdiddy/da-research/pkg/types"
)

// classifyMaxChars caps the text sent for one classification call.
const classifyMaxChars = 12000

// FindingClassifier asks the reasoner to categorize text into findings.
type FindingClassifier struct {
	r          Reasoner
	maxRetries int
}

// NewFindingClassifier creates a classifier backed by r.
func NewFindingClassifier(r Reasoner) *FindingClassifier {
	return &FindingClassifier{r: r, maxRetries: 2}
}

type classifyResponse struct {
	Findings []classifyItem `json:"findings"`
}

type classifyItem struct {
	Category  string `json:"category"`
	Sentiment string `json:"sentiment"`
	Text      string `json:"text"`
}

// Classify implements classify.Classifier.
func (c *FindingClassifier) Classify(ctx context.Context, text string, source types.SourceRef) ([]types.Finding, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	text, _ = webfetch.Truncate(text, classifyMaxChars)

	prompt, err := renderPrompt(classifyPromptTmpl, struct {
		Title, URL, Text string
	}{source.Title, source.URL, text})
	if err != nil {
		return nil, fmt.Errorf("rendering prompt: %w", err)
	}

	resp, err := callWithRetry(ctx, c.r, Request{
		Conversation: []Message{{Role: RoleUser, Text: prompt}},
		JSON:         true,
	}, c.maxRetries)
	if err != nil {
		return nil, types.WrapFailure(types.FailureBackend, "classify", err)
	}

	items, err := parseFindings(resp.Text)
	if err != nil {
		return nil, types.WrapFailure(types.FailureFormat, "classify", err)
	}
	return convertFindings(items, source), nil
}

// parseFindings decodes the JSON answer, tolerating a fenced code block.
func parseFindings(raw string) ([]classifyItem, error) {
	raw = stripFence(raw)
	var out classifyResponse
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, fmt.Errorf("parsing AI response JSON: %w", err)
	}
	return out.Findings, nil
}

func stripFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "```"))
}

// convertFindings keeps items with a known category, a known sentiment,
// and non-empty text.
func convertFindings(items []classifyItem, source types.SourceRef) []types.Finding {
	var out []types.Finding
	for _, it := range items {
		cat, ok := types.ParseCategory(it.Category)
		if !ok {
			continue
		}
		sent, ok := types.ParseSentiment(it.Sentiment)
		if !ok {
			continue
		}
		text := strings.TrimSpace(it.Text)
		if text == "" {
			continue
		}
		out = append(out, types.Finding{Category: cat, Sentiment: sent, Text: text, Source: source})
	}
	return out
}
