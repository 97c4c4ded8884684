// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the da-research pipeline:
// queries, findings, source references, extraction results, and configuration.
package types

import (
	"fmt"
	"strings"
)

// SourceKind identifies where a finding came from.
type SourceKind string

const (
	SourceWebPage         SourceKind = "web_page"
	SourceCouncilDocument SourceKind = "council_document"
)

// Category is one of the fixed research categories a finding is filed under.
type Category string

const (
	CategoryEnvironmental  Category = "environmental"
	CategoryZoning         Category = "zoning"
	CategoryCommunity      Category = "community"
	CategoryInfrastructure Category = "infrastructure"
	CategoryHistorical     Category = "historical"
)

// Categories lists every category in presentation order.
var Categories = []Category{
	CategoryEnvironmental,
	CategoryZoning,
	CategoryCommunity,
	CategoryInfrastructure,
	CategoryHistorical,
}

// Label returns the human-readable category name.
func (c Category) Label() string {
	switch c {
	case CategoryEnvironmental:
		return "Environmental"
	case CategoryZoning:
		return "Zoning & Planning"
	case CategoryCommunity:
		return "Community Feedback"
	case CategoryInfrastructure:
		return "Infrastructure & Services"
	case CategoryHistorical:
		return "Historical Significance"
	default:
		return string(c)
	}
}

// ParseCategory maps a category name or label (case-insensitive) to a Category.
func ParseCategory(s string) (Category, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "environmental", "environment":
		return CategoryEnvironmental, true
	case "zoning", "zoning & planning", "zoning and planning", "planning":
		return CategoryZoning, true
	case "community", "community feedback":
		return CategoryCommunity, true
	case "infrastructure", "infrastructure & services", "infrastructure and services":
		return CategoryInfrastructure, true
	case "historical", "historical significance", "heritage":
		return CategoryHistorical, true
	default:
		return "", false
	}
}

// Sentiment tags a finding as a positive, neutral, or negative factor.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

// ParseSentiment maps a sentiment name (case-insensitive) to a Sentiment.
// "very positive" and "very negative" collapse to their base value.
func ParseSentiment(s string) (Sentiment, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "positive", "very positive":
		return SentimentPositive, true
	case "neutral":
		return SentimentNeutral, true
	case "negative", "very negative":
		return SentimentNegative, true
	default:
		return "", false
	}
}

// Turn is one prior message of a conversation.
type Turn struct {
	Role string `json:"role" yaml:"role"`
	Text string `json:"text" yaml:"text"`
}

// Query is the immutable input to a single research run.
type Query struct {
	Text             string `json:"text" yaml:"text"`
	CouncilReference string `json:"council_reference,omitempty" yaml:"council_reference,omitempty"`
	Jurisdiction     string `json:"jurisdiction,omitempty" yaml:"jurisdiction,omitempty"`

	// History carries prior conversation turns for synthesis.
	History []Turn `json:"history,omitempty" yaml:"history,omitempty"`
}

// HasReference reports whether the query names a council reference.
func (q Query) HasReference() bool {
	return strings.TrimSpace(q.CouncilReference) != ""
}

// HasText reports whether the query carries free text.
func (q Query) HasText() bool {
	return strings.TrimSpace(q.Text) != ""
}

// SourceRef identifies the provenance of a finding.
type SourceRef struct {
	Kind  SourceKind `json:"kind" yaml:"kind"`
	URL   string     `json:"url" yaml:"url"`
	Title string     `json:"title,omitempty" yaml:"title,omitempty"`
}

// Finding is a single categorized, sentiment-tagged, sourced fact.
type Finding struct {
	Category  Category  `json:"category" yaml:"category"`
	Sentiment Sentiment `json:"sentiment" yaml:"sentiment"`
	Text      string    `json:"text" yaml:"text"`
	Source    SourceRef `json:"source" yaml:"source"`
}

// ExtractionResult is the outcome of extracting text from one PDF resource.
// ExtractedPages never exceeds PageCount.
type ExtractionResult struct {
	Source         SourceRef `json:"source" yaml:"source"`
	Text           string    `json:"text" yaml:"text"`
	PageCount      int       `json:"page_count" yaml:"page_count"`
	ExtractedPages int       `json:"extracted_pages" yaml:"extracted_pages"`
	Error          string    `json:"error,omitempty" yaml:"error,omitempty"`
}

// Succeeded reports whether the document produced text without an error.
func (r ExtractionResult) Succeeded() bool {
	return r.Error == "" && r.Text != ""
}

// ResearchResult is the final output of a research run. Findings follow
// module invocation order, then emission order within a module.
type ResearchResult struct {
	Findings        []Finding `json:"findings" yaml:"findings"`
	Synthesis       string    `json:"synthesis" yaml:"synthesis"`
	PartialFailures []string  `json:"partial_failures" yaml:"partial_failures"`
}

// Sources returns the distinct sources cited by the findings, in order.
func (r ResearchResult) Sources() []SourceRef {
	seen := make(map[string]bool)
	var out []SourceRef
	for _, f := range r.Findings {
		if seen[f.Source.URL] {
			continue
		}
		seen[f.Source.URL] = true
		out = append(out, f.Source)
	}
	return out
}

// WebResult is one hit from a general web search or a document store.
type WebResult struct {
	Title   string `json:"title" yaml:"title"`
	URL     string `json:"url" yaml:"url"`
	Snippet string `json:"snippet,omitempty" yaml:"snippet,omitempty"`
}

// DocSearchResponse is the answer of a search-with-summarization backend.
type DocSearchResponse struct {
	Summary   string      `json:"summary" yaml:"summary"`
	Documents []WebResult `json:"documents" yaml:"documents"`
}

// ModuleResult is what one research module contributes to a run.
// PartialFailures are non-fatal errors; Notes are informational messages
// such as an empty council lookup or a hedged document-store summary.
type ModuleResult struct {
	Findings        []Finding `json:"findings" yaml:"findings"`
	PartialFailures []string  `json:"partial_failures,omitempty" yaml:"partial_failures,omitempty"`
	Notes           []string  `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// Fail records a partial failure.
func (m *ModuleResult) Fail(format string, args ...any) {
	m.PartialFailures = append(m.PartialFailures, fmt.Sprintf(format, args...))
}

// Note records an informational message.
func (m *ModuleResult) Note(format string, args ...any) {
	m.Notes = append(m.Notes, fmt.Sprintf(format, args...))
}
