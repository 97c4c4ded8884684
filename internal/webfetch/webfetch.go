// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package webfetch retrieves web pages and reduces them to bounded plain text.
package webfetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"github.com/pdiddy/da-research/internal/httputil"
	"github.com/pdiddy/da-research/internal/logging"
	"github.com/pdiddy/da-research/pkg/types"
)

const op = "fetch"

// maxBodyBytes bounds how much HTML is read before cleaning.
const maxBodyBytes = 5 << 20

// Page is the cleaned content of a fetched URL.
type Page struct {
	URL         string `json:"url" yaml:"url"`
	Title       string `json:"title,omitempty" yaml:"title,omitempty"`
	Text        string `json:"text" yaml:"text"`
	StatusCode  int    `json:"status_code" yaml:"status_code"`
	ContentType string `json:"content_type" yaml:"content_type"`
	Truncated   bool   `json:"truncated,omitempty" yaml:"truncated,omitempty"`
}

// Fetcher retrieves URLs and returns their visible text.
type Fetcher struct {
	client *http.Client
	cfg    types.FetchConfig
	log    logging.Logger
}

// New creates a Fetcher. A nil client gets one built from cfg.
func New(client *http.Client, cfg types.FetchConfig, log logging.Logger) *Fetcher {
	if client == nil {
		client = httputil.NewClient(cfg.HTTPConfig)
	}
	if cfg.MaxChars <= 0 {
		cfg.MaxChars = types.DefaultMaxChars
	}
	return &Fetcher{client: client, cfg: cfg, log: logging.OrNop(log)}
}

// Fetch downloads rawURL and returns its cleaned text. Failures come back
// as *types.Failure; a non-2xx status is a network failure whose message
// carries the status code.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*Page, error) {
	if strings.TrimSpace(rawURL) == "" {
		return nil, types.NewFailure(types.FailureMissingInput, op, "url is required")
	}

	resp, cancel, err := httputil.Get(ctx, f.client, rawURL, f.cfg.UserAgent, httputil.AcceptHTML, f.cfg.Timeout)
	if err != nil {
		f.log.Warn("fetch failed", logging.String("url", rawURL), logging.Err(err))
		return nil, types.WrapFailure(types.FailureNetwork, op, err)
	}
	defer cancel()
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		f.log.Warn("fetch non-2xx", logging.String("url", rawURL), logging.Int("status", resp.StatusCode))
		return nil, types.NewFailure(types.FailureNetwork, op, "%d %s from %s", resp.StatusCode, http.StatusText(resp.StatusCode), rawURL)
	}

	page := &Page{
		URL:         rawURL,
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
	}

	body := io.LimitReader(resp.Body, maxBodyBytes)
	if isHTML(page.ContentType) {
		doc, err := goquery.NewDocumentFromReader(body)
		if err != nil {
			return nil, types.WrapFailure(types.FailureFormat, op, fmt.Errorf("parsing html: %w", err))
		}
		page.Title = strings.TrimSpace(doc.Find("title").First().Text())
		page.Text = CleanDocument(doc)
	} else {
		raw, err := io.ReadAll(body)
		if err != nil {
			return nil, types.WrapFailure(types.FailureNetwork, op, fmt.Errorf("reading body: %w", err))
		}
		page.Text = CollapseWhitespace(string(raw))
	}

	page.Text, page.Truncated = Truncate(page.Text, f.cfg.MaxChars)
	f.log.Debug("fetched page", logging.String("url", rawURL), logging.Int("chars", len(page.Text)))
	return page, nil
}

func isHTML(contentType string) bool {
	ct := strings.ToLower(contentType)
	return ct == "" || strings.Contains(ct, "html") || strings.Contains(ct, "xml")
}

// CleanDocument drops script, style, and noscript elements and returns
// the remaining visible text with whitespace collapsed.
func CleanDocument(doc *goquery.Document) string {
	doc.Find("script, style, noscript, template").Remove()
	return CollapseWhitespace(doc.Text())
}

// CollapseWhitespace trims every line, breaks lines on runs of two spaces,
// drops blank chunks, and joins the rest with newlines.
func CollapseWhitespace(text string) string {
	var chunks []string
	for _, line := range strings.Split(text, "\n") {
		for _, phrase := range strings.Split(strings.TrimSpace(line), "  ") {
			if p := strings.TrimSpace(phrase); p != "" {
				chunks = append(chunks, p)
			}
		}
	}
	return strings.Join(chunks, "\n")
}

// Truncate caps text at maxChars runes.
func Truncate(text string, maxChars int) (string, bool) {
	if maxChars <= 0 || utf8.RuneCountInString(text) <= maxChars {
		return text, false
	}
	runes := []rune(text)
	return string(runes[:maxChars]), true
}
