// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/pdiddy/da-research/internal/httputil"
	"github.com/pdiddy/da-research/internal/logging"
	"github.com/pdiddy/da-research/pkg/types"
)

// DuckDuckGoURL is the HTML results endpoint. Declared as a var so tests
// can substitute an httptest server.
var DuckDuckGoURL = "https://html.duckduckgo.com/html/"

// DuckDuckGo scrapes the DuckDuckGo HTML results page.
type DuckDuckGo struct {
	client *http.Client
	cfg    types.SearchConfig
	log    logging.Logger
}

// NewDuckDuckGo creates the DuckDuckGo backend. A nil client gets one built from cfg.
func NewDuckDuckGo(client *http.Client, cfg types.SearchConfig, log logging.Logger) *DuckDuckGo {
	if client == nil {
		client = httputil.NewClient(cfg.HTTPConfig)
	}
	return &DuckDuckGo{client: client, cfg: cfg, log: logging.OrNop(log)}
}

// Name returns the backend identifier.
func (d *DuckDuckGo) Name() string { return "duckduckgo" }

// Search returns up to limit organic results for query. Ads are skipped.
func (d *DuckDuckGo) Search(ctx context.Context, query string, limit int) ([]types.WebResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, types.NewFailure(types.FailureMissingInput, op, "query is required")
	}
	if limit <= 0 {
		limit = types.DefaultMaxResults
	}

	reqURL := DuckDuckGoURL + "?" + url.Values{"q": {query}}.Encode()
	resp, cancel, err := httputil.Get(ctx, d.client, reqURL, d.cfg.UserAgent, httputil.AcceptHTML, d.cfg.Timeout)
	if err != nil {
		return nil, types.WrapFailure(types.FailureNetwork, op, fmt.Errorf("DuckDuckGo request: %w", err))
	}
	defer cancel()
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		return nil, types.NewFailure(types.FailureBackend, op, "DuckDuckGo returned HTTP %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, types.WrapFailure(types.FailureFormat, op, fmt.Errorf("parsing DuckDuckGo results: %w", err))
	}
	results := parseDuckDuckGo(doc, limit)
	d.log.Debug("web search complete", logging.String("backend", d.Name()), logging.Int("results", len(results)))
	return results, nil
}

func parseDuckDuckGo(doc *goquery.Document, limit int) []types.WebResult {
	var results []types.WebResult
	doc.Find("div.result").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if s.HasClass("result--ad") {
			return true
		}
		a := s.Find("a.result__a").First()
		href, ok := a.Attr("href")
		if !ok {
			return true
		}
		link := unwrapRedirect(href)
		if link == "" {
			return true
		}
		results = append(results, types.WebResult{
			Title:   strings.TrimSpace(a.Text()),
			URL:     link,
			Snippet: strings.TrimSpace(s.Find(".result__snippet").First().Text()),
		})
		return len(results) < limit
	})
	return results
}

// unwrapRedirect returns the target of a DuckDuckGo "/l/?uddg=" redirect
// link, or href itself when it is already absolute. Anything that is not
// an http(s) URL yields "".
func unwrapRedirect(href string) string {
	if strings.HasPrefix(href, "//") {
		href = "https:" + href
	}
	u, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if target := u.Query().Get("uddg"); target != "" {
		if u, err = url.Parse(target); err != nil {
			return ""
		}
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ""
	}
	return u.String()
}
