// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package tools

import (
	"context"

	"github.com/pdiddy/da-research/internal/council"
	"github.com/pdiddy/da-research/internal/pdftext"
	"github.com/pdiddy/da-research/internal/webfetch"
	"github.com/pdiddy/da-research/pkg/types"
)

// Capability names.
const (
	NameWebFetch      = "browse_web"
	NameCouncilLocate = "scrape_council_website"
	NamePDFExtract    = "extract_pdf_text"
	NameWebSearch     = "web_search"
	NameDocSearch     = "search_documents"
)

// PageFetcher is satisfied by *webfetch.Fetcher.
type PageFetcher interface {
	Fetch(ctx context.Context, url string) (*webfetch.Page, error)
}

// DocumentLocator is satisfied by *council.Locator.
type DocumentLocator interface {
	Locate(ctx context.Context, reference, jurisdiction string) (*council.Result, error)
}

// TextExtractor is satisfied by *pdftext.Extractor.
type TextExtractor interface {
	ExtractURLs(ctx context.Context, urls []string, maxPages int) pdftext.Batch
}

// WebSearcher runs a general web search.
type WebSearcher interface {
	Search(ctx context.Context, query string, limit int) ([]types.WebResult, error)
}

// DocSearcher runs a search-with-summarization query.
type DocSearcher interface {
	SearchDocs(ctx context.Context, query string) (*types.DocSearchResponse, error)
}

// WebFetch exposes a PageFetcher.
type WebFetch struct{ Fetcher PageFetcher }

func (WebFetch) Name() string { return NameWebFetch }
func (WebFetch) Description() string {
	return "Browse a web page and return its cleaned text content, status code, and content type."
}
func (WebFetch) Schema() Schema {
	return Schema{
		Required:   []string{"url"},
		Properties: map[string]Property{"url": {Type: "string", Description: "The URL to browse"}},
	}
}

func (t WebFetch) Invoke(ctx context.Context, args map[string]any) (any, error) {
	u, err := StringArg(args, "url")
	if err != nil {
		return nil, err
	}
	return t.Fetcher.Fetch(ctx, u)
}

// CouncilLocate exposes a DocumentLocator.
type CouncilLocate struct{ Locator DocumentLocator }

func (CouncilLocate) Name() string { return NameCouncilLocate }
func (CouncilLocate) Description() string {
	return "Find document links for a development application on a council website. Currently only Ryde Council is supported."
}
func (CouncilLocate) Schema() Schema {
	return Schema{
		Required: []string{"council_reference"},
		Properties: map[string]Property{
			"council_reference": {Type: "string", Description: "The council's reference number for the development application"},
			"lga":               {Type: "string", Description: "The Local Government Area, e.g. RYDE"},
		},
	}
}

func (t CouncilLocate) Invoke(ctx context.Context, args map[string]any) (any, error) {
	ref, err := StringArg(args, "council_reference")
	if err != nil {
		return nil, err
	}
	lga, err := StringArg(args, "lga")
	if err != nil {
		return nil, err
	}
	return t.Locator.Locate(ctx, ref, lga)
}

// PDFExtract exposes a TextExtractor.
type PDFExtract struct{ Extractor TextExtractor }

func (PDFExtract) Name() string { return NamePDFExtract }
func (PDFExtract) Description() string {
	return "Download PDF documents and extract their text. Accepts one URL or a list of URLs."
}
func (PDFExtract) Schema() Schema {
	return Schema{
		Required: []string{"pdf_url"},
		Properties: map[string]Property{
			"pdf_url":   {Type: "array", Description: "URLs of PDF documents", Items: &PropertyItems{Type: "string"}},
			"max_pages": {Type: "integer", Description: "Maximum pages per PDF, 0 for all; omit for the configured limit"},
		},
	}
}

func (t PDFExtract) Invoke(ctx context.Context, args map[string]any) (any, error) {
	urls, err := StringsArg(args, "pdf_url")
	if err != nil {
		return nil, err
	}
	maxPages := pdftext.ConfiguredPages
	if _, ok := args["max_pages"]; ok {
		if maxPages, err = IntArg(args, "max_pages"); err != nil {
			return nil, err
		}
	}
	b := t.Extractor.ExtractURLs(ctx, urls, maxPages)
	return map[string]any{"success": b.Success(), "documents": b.Results}, nil
}

// WebSearch exposes a WebSearcher.
type WebSearch struct {
	Searcher WebSearcher
	Limit    int
}

func (WebSearch) Name() string { return NameWebSearch }
func (WebSearch) Description() string {
	return "Search the web for public information about a property or development application."
}
func (WebSearch) Schema() Schema {
	return Schema{
		Required:   []string{"query"},
		Properties: map[string]Property{"query": {Type: "string", Description: "Search terms"}},
	}
}

func (t WebSearch) Invoke(ctx context.Context, args map[string]any) (any, error) {
	q, err := StringArg(args, "query")
	if err != nil {
		return nil, err
	}
	limit := t.Limit
	if limit <= 0 {
		limit = types.DefaultMaxResults
	}
	return t.Searcher.Search(ctx, q, limit)
}

// DocSearch exposes a DocSearcher.
type DocSearch struct{ Searcher DocSearcher }

func (DocSearch) Name() string { return NameDocSearch }
func (DocSearch) Description() string {
	return "Search the indexed planning document store and return a summarized answer with the matching documents."
}
func (DocSearch) Schema() Schema {
	return Schema{
		Required:   []string{"query"},
		Properties: map[string]Property{"query": {Type: "string", Description: "Question to answer from the documents"}},
	}
}

func (t DocSearch) Invoke(ctx context.Context, args map[string]any) (any, error) {
	q, err := StringArg(args, "query")
	if err != nil {
		return nil, err
	}
	return t.Searcher.SearchDocs(ctx, q)
}
