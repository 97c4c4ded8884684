// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package search is the general research module. It queries a web search
// backend and a document store, follows up on relevant web results, and
// turns what it reads into findings.
package search

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/da-research/internal/classify"
	"github.com/pdiddy/da-research/internal/logging"
	"github.com/pdiddy/da-research/internal/tools"
	"github.com/pdiddy/da-research/pkg/types"
)

const op = "search"

// NoDirectAnswer replaces a document-store summary that is empty or hedged.
const NoDirectAnswer = "Could not find a direct answer in the documents. Please try rephrasing your query."

// FallbackSearchURL is the base of the search link attached to
// "no information found" findings.
var FallbackSearchURL = "https://duckduckgo.com/"

var hedgePattern = regexp.MustCompile(`(?i)\bunable to\b`)

// Backend is a named web search backend.
type Backend interface {
	tools.WebSearcher
	Name() string
}

// Module runs the general search path of a research run.
type Module struct {
	web        tools.WebSearcher
	docs       tools.DocSearcher
	fetcher    tools.PageFetcher
	classifier classify.Classifier
	cfg        types.SearchConfig
	log        logging.Logger
}

// New creates a search module. web and docs may be nil; a nil classifier
// falls back to keyword classification.
func New(web tools.WebSearcher, docs tools.DocSearcher, fetcher tools.PageFetcher, classifier classify.Classifier, cfg types.SearchConfig, log logging.Logger) *Module {
	if classifier == nil {
		classifier = classify.NewKeywords()
	}
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = types.DefaultMaxResults
	}
	if cfg.MaxFollowUps <= 0 {
		cfg.MaxFollowUps = types.DefaultMaxFollowUps
	}
	return &Module{
		web:        web,
		docs:       docs,
		fetcher:    fetcher,
		classifier: classifier,
		cfg:        cfg,
		log:        logging.OrNop(log),
	}
}

// Name returns the module identifier.
func (m *Module) Name() string { return "search" }

// Research searches for q.Text. Backend and fetch failures are recorded on
// the result and never abort the remaining work. Only an empty query is
// returned as an error.
func (m *Module) Research(ctx context.Context, q types.Query) (types.ModuleResult, error) {
	var out types.ModuleResult
	if !q.HasText() {
		return out, types.NewFailure(types.FailureMissingInput, op, "query text is required")
	}

	if m.docs != nil {
		m.searchDocs(ctx, q.Text, &out)
	}
	if m.web != nil {
		m.searchWeb(ctx, q.Text, &out)
	}
	if m.docs == nil && m.web == nil {
		out.Note("No search backend is configured.")
	}

	m.log.Info("search module complete",
		logging.Int("findings", len(out.Findings)),
		logging.Int("partial_failures", len(out.PartialFailures)))
	return out, nil
}

func (m *Module) searchDocs(ctx context.Context, query string, out *types.ModuleResult) {
	resp, err := m.docs.SearchDocs(ctx, query)
	if err != nil {
		m.log.Warn("document store search failed", logging.String("op", op), logging.Err(err))
		out.Fail("document search: %v", err)
		return
	}

	summary := strings.TrimSpace(resp.Summary)
	if Hedged(summary) {
		out.Note("%s", NoDirectAnswer)
		return
	}
	if len(resp.Documents) == 0 {
		out.Note("%s", summary)
		return
	}

	top := resp.Documents[0]
	findings, err := m.classifier.Classify(ctx, summary, types.SourceRef{Kind: types.SourceWebPage, URL: top.URL, Title: top.Title})
	if err != nil {
		out.Fail("classify document summary: %v", err)
		return
	}
	out.Findings = append(out.Findings, findings...)
}

func (m *Module) searchWeb(ctx context.Context, query string, out *types.ModuleResult) {
	results, err := m.web.Search(ctx, query, m.cfg.MaxResults)
	if err != nil {
		m.log.Warn("web search failed", logging.String("op", op), logging.Err(err))
		out.Fail("web search: %v", err)
		return
	}

	relevant := Relevant(results, query)
	if len(relevant) > m.cfg.MaxFollowUps {
		relevant = relevant[:m.cfg.MaxFollowUps]
	}
	if len(relevant) == 0 {
		return
	}

	type followUp struct {
		findings []types.Finding
		failure  string
	}
	done := make([]followUp, len(relevant))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.cfg.MaxFollowUps)
	for i, r := range relevant {
		g.Go(func() error {
			findings, failure := m.followUp(gctx, r)
			done[i] = followUp{findings: findings, failure: failure}
			return nil
		})
	}
	g.Wait()

	for _, f := range done {
		if f.failure != "" {
			out.Fail("%s", f.failure)
		}
		out.Findings = append(out.Findings, f.findings...)
	}
}

// followUp fetches r and classifies the page. When the fetch fails the
// search snippet is classified instead.
func (m *Module) followUp(ctx context.Context, r types.WebResult) ([]types.Finding, string) {
	source := types.SourceRef{Kind: types.SourceWebPage, URL: r.URL, Title: r.Title}
	text := r.Snippet
	var failure string

	if m.fetcher != nil {
		page, err := m.fetcher.Fetch(ctx, r.URL)
		if err != nil {
			m.log.Warn("follow-up fetch failed", logging.String("url", r.URL), logging.Err(err))
			failure = fmt.Sprintf("fetch %s: %v", r.URL, err)
		} else {
			text = page.Text
			if source.Title == "" {
				source.Title = page.Title
			}
		}
	}
	if strings.TrimSpace(text) == "" {
		return nil, failure
	}

	findings, err := m.classifier.Classify(ctx, text, source)
	if err != nil {
		if failure == "" {
			failure = fmt.Sprintf("classify %s: %v", r.URL, err)
		}
		return nil, failure
	}
	return findings, failure
}

// Relevant keeps the results whose title or snippet mentions at least one
// query term, preserving order.
func Relevant(results []types.WebResult, query string) []types.WebResult {
	terms := classify.Terms(query)
	var out []types.WebResult
	for _, r := range results {
		if r.URL == "" {
			continue
		}
		if len(terms) == 0 || classify.MatchesAny(r.Title+" "+r.Snippet, terms) {
			out = append(out, r)
		}
	}
	return out
}

// Hedged reports whether a document-store summary should be replaced by
// NoDirectAnswer.
func Hedged(summary string) bool {
	return strings.TrimSpace(summary) == "" || hedgePattern.MatchString(summary)
}

// FallbackURL returns a search link for query.
func FallbackURL(query string) string {
	q := strings.TrimSpace(query)
	if q == "" {
		return FallbackSearchURL
	}
	return FallbackSearchURL + "?" + url.Values{"q": {q}}.Encode()
}
