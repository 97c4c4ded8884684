// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package classify turns free text into categorized, sentiment-tagged
// findings. Keywords is the deterministic classifier; Fallback chains a
// primary classifier (usually the reasoner) in front of it.
package classify

import (
	"context"
	"regexp"
	"strings"

	"github.com/pdiddy/da-research/internal/logging"
	"github.com/pdiddy/da-research/pkg/types"
)

// Classifier extracts findings from text retrieved from source.
type Classifier interface {
	Classify(ctx context.Context, text string, source types.SourceRef) ([]types.Finding, error)
}

// maxFindingChars caps the text of a single keyword finding.
const maxFindingChars = 400

// minSentenceScore is the category score a sentence needs to become a finding.
const minSentenceScore = 1.5

type weighted struct {
	re     *regexp.Regexp
	weight float64
}

func compile(words map[string]float64) []weighted {
	out := make([]weighted, 0, len(words))
	for w, weight := range words {
		out = append(out, weighted{
			re:     regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(w) + `\b`),
			weight: weight,
		})
	}
	return out
}

func score(text string, dict []weighted) float64 {
	var s float64
	for _, w := range dict {
		if n := len(w.re.FindAllStringIndex(text, -1)); n > 0 {
			s += float64(n) * w.weight
		}
	}
	return s
}

// Keywords is a rule-based classifier using weighted keyword dictionaries.
type Keywords struct {
	categories map[types.Category][]weighted
	positive   []weighted
	negative   []weighted
}

// NewKeywords builds the keyword classifier.
func NewKeywords() *Keywords {
	k := &Keywords{
		categories: make(map[types.Category][]weighted, len(categoryKeywords)),
		positive:   compile(positiveKeywords),
		negative:   compile(negativeKeywords),
	}
	for c, words := range categoryKeywords {
		k.categories[c] = compile(words)
	}
	return k
}

// CategoryScore returns the weighted keyword score of text for c.
func (k *Keywords) CategoryScore(text string, c types.Category) float64 {
	return score(text, k.categories[c])
}

// SentimentScore returns positive minus negative keyword weight.
func (k *Keywords) SentimentScore(text string) float64 {
	return score(text, k.positive) - score(text, k.negative)
}

// Sentiment classifies text as positive above 1, negative below -1,
// and neutral otherwise.
func (k *Keywords) Sentiment(text string) types.Sentiment {
	s := k.SentimentScore(text)
	switch {
	case s > 1:
		return types.SentimentPositive
	case s < -1:
		return types.SentimentNegative
	default:
		return types.SentimentNeutral
	}
}

// Classify emits at most one finding per category: the sentence that
// scores highest for it. Findings follow category order.
func (k *Keywords) Classify(_ context.Context, text string, source types.SourceRef) ([]types.Finding, error) {
	sentences := Sentences(text)
	var findings []types.Finding
	for _, c := range types.Categories {
		best, bestScore := "", 0.0
		for _, s := range sentences {
			if sc := k.CategoryScore(s, c); sc > bestScore {
				best, bestScore = s, sc
			}
		}
		if bestScore < minSentenceScore {
			continue
		}
		findings = append(findings, types.Finding{
			Category:  c,
			Sentiment: k.Sentiment(best),
			Text:      clip(best, maxFindingChars),
			Source:    source,
		})
	}
	return findings, nil
}

var sentenceEnd = regexp.MustCompile(`[.!?]+(\s+|$)|\n+`)

// Sentences splits text into trimmed, non-empty sentences.
func Sentences(text string) []string {
	var out []string
	last := 0
	for _, loc := range sentenceEnd.FindAllStringIndex(text, -1) {
		if s := strings.TrimSpace(text[last:loc[1]]); s != "" {
			out = append(out, s)
		}
		last = loc[1]
	}
	if s := strings.TrimSpace(text[last:]); s != "" {
		out = append(out, s)
	}
	return out
}

func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return strings.TrimSpace(string(r[:n])) + "..."
}

// Fallback runs Primary and falls back to Secondary when Primary is nil,
// fails, or finds nothing.
type Fallback struct {
	Primary   Classifier
	Secondary Classifier
	Log       logging.Logger
}

func (f Fallback) Classify(ctx context.Context, text string, source types.SourceRef) ([]types.Finding, error) {
	if f.Primary != nil {
		findings, err := f.Primary.Classify(ctx, text, source)
		if err == nil && len(findings) > 0 {
			return findings, nil
		}
		if err != nil {
			logging.OrNop(f.Log).Warn("primary classifier failed, using fallback",
				logging.String("url", source.URL), logging.Err(err))
		}
	}
	if f.Secondary == nil {
		return nil, nil
	}
	return f.Secondary.Classify(ctx, text, source)
}
