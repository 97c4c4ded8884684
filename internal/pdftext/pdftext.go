// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pdftext downloads PDF documents and extracts page-bounded plain
// text. Every document in a batch succeeds or fails on its own; a page
// that cannot be read contributes no text but does not fail its document.
package pdftext

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/ledongthuc/pdf"
	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/da-research/internal/httputil"
	"github.com/pdiddy/da-research/internal/logging"
	"github.com/pdiddy/da-research/pkg/types"
)

const op = "extract"

// pageSeparator joins the text of consecutive pages.
const pageSeparator = "\n\n"

// downloadConcurrency bounds parallel downloads within one batch.
const downloadConcurrency = 3

// Target names one PDF resource to extract.
type Target struct {
	URL   string
	Title string
}

// Batch holds the outcome of extracting a set of documents. Results are
// in request order, one per target.
type Batch struct {
	Results []types.ExtractionResult `json:"documents" yaml:"documents"`
}

// Succeeded returns the number of documents that produced text.
func (b Batch) Succeeded() int {
	n := 0
	for _, r := range b.Results {
		if r.Succeeded() {
			n++
		}
	}
	return n
}

// Failed returns the number of documents that recorded an error.
func (b Batch) Failed() int {
	n := 0
	for _, r := range b.Results {
		if r.Error != "" {
			n++
		}
	}
	return n
}

// Success reports whether at least one document produced text without
// an error. A partially failed batch still succeeds.
func (b Batch) Success() bool {
	return b.Succeeded() > 0
}

// Extractor downloads and reads PDFs.
type Extractor struct {
	client *http.Client
	cfg    types.PDFConfig
	log    logging.Logger
}

// New creates an Extractor. A nil client gets one built from cfg.
func New(client *http.Client, cfg types.PDFConfig, log logging.Logger) *Extractor {
	if client == nil {
		client = httputil.NewClient(cfg.HTTPConfig)
	}
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = types.DefaultMaxPDFBytes
	}
	return &Extractor{client: client, cfg: cfg, log: logging.OrNop(log)}
}

// ConfiguredPages asks Extract to apply the configured page limit.
const ConfiguredPages = -1

// ExtractURLs extracts text from each URL. maxPages of 0 reads every page;
// ConfiguredPages applies the configured limit.
func (e *Extractor) ExtractURLs(ctx context.Context, urls []string, maxPages int) Batch {
	targets := make([]Target, len(urls))
	for i, u := range urls {
		targets[i] = Target{URL: u}
	}
	return e.Extract(ctx, targets, maxPages)
}

// Extract extracts text from each target. Downloads run concurrently but
// results keep the order of targets.
func (e *Extractor) Extract(ctx context.Context, targets []Target, maxPages int) Batch {
	if maxPages < 0 {
		maxPages = e.cfg.MaxPages
	}
	results := make([]types.ExtractionResult, len(targets))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(downloadConcurrency)
	for i, t := range targets {
		g.Go(func() error {
			results[i] = e.extractOne(gctx, t, maxPages)
			return nil
		})
	}
	g.Wait()

	b := Batch{Results: results}
	e.log.Info("pdf batch complete",
		logging.Int("documents", len(targets)),
		logging.Int("succeeded", b.Succeeded()),
		logging.Int("failed", b.Failed()))
	return b
}

func (e *Extractor) extractOne(ctx context.Context, t Target, maxPages int) types.ExtractionResult {
	res := types.ExtractionResult{
		Source: types.SourceRef{Kind: types.SourceCouncilDocument, URL: t.URL, Title: t.Title},
	}

	data, err := e.download(ctx, t.URL)
	if err != nil {
		e.log.Warn("pdf download failed", logging.String("url", t.URL), logging.Err(err))
		res.Error = err.Error()
		return res
	}

	pageCount, pages, err := readPages(data, maxPages)
	if err != nil {
		e.log.Warn("pdf unreadable", logging.String("url", t.URL), logging.Err(err))
		res.Error = err.Error()
		return res
	}
	res.PageCount = pageCount
	res.ExtractedPages = len(pages)

	var texts []string
	for _, p := range pages {
		if strings.TrimSpace(p) != "" {
			texts = append(texts, p)
		}
	}
	res.Text = strings.Join(texts, pageSeparator)
	return res
}

// download fetches rawURL fully into memory. The body is bounded by
// MaxBytes and closed before return, so a cancelled run leaves nothing
// behind.
func (e *Extractor) download(ctx context.Context, rawURL string) ([]byte, error) {
	resp, cancel, err := httputil.Get(ctx, e.client, rawURL, e.cfg.UserAgent, httputil.AcceptPDF, e.cfg.Timeout)
	if err != nil {
		return nil, types.WrapFailure(types.FailureNetwork, op, fmt.Errorf("failed to download PDF: %w", err))
	}
	defer cancel()
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		return nil, types.NewFailure(types.FailureNetwork, op, "Failed to download PDF. Status code: %d", resp.StatusCode)
	}

	contentType := resp.Header.Get("Content-Type")
	if !LooksLikePDF(rawURL, contentType) {
		return nil, types.NewFailure(types.FailureFormat, op, "The URL does not point to a PDF document. Content-Type: %s", contentType)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, e.cfg.MaxBytes+1))
	if err != nil {
		return nil, types.WrapFailure(types.FailureNetwork, op, fmt.Errorf("failed to download PDF: %w", err))
	}
	if int64(len(data)) > e.cfg.MaxBytes {
		return nil, types.NewFailure(types.FailureFormat, op, "PDF exceeds %d bytes", e.cfg.MaxBytes)
	}
	return data, nil
}

// LooksLikePDF reports whether the content type or URL path indicates a PDF.
func LooksLikePDF(rawURL, contentType string) bool {
	if strings.Contains(strings.ToLower(contentType), "application/pdf") {
		return true
	}
	path := rawURL
	if u, err := url.Parse(rawURL); err == nil {
		path = u.Path
	}
	return strings.HasSuffix(strings.ToLower(path), ".pdf")
}

// readPages opens data as a PDF and returns its page count plus the text
// of each page that extracted cleanly, up to maxPages (0 means all).
func readPages(data []byte, maxPages int) (pageCount int, pages []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = types.NewFailure(types.FailureFormat, op, "Failed to read PDF: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return 0, nil, &types.Failure{Kind: types.FailureFormat, Op: op, Message: "Failed to read PDF: " + err.Error(), Err: err}
	}

	pageCount = reader.NumPage()
	limit := pageCount
	if maxPages > 0 && maxPages < pageCount {
		limit = maxPages
	}
	for i := 1; i <= limit; i++ {
		text, ok := pageText(reader, i)
		if ok {
			pages = append(pages, text)
		}
	}
	return pageCount, pages, nil
}

// pageText extracts one page, swallowing any failure.
func pageText(reader *pdf.Reader, num int) (text string, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			text, ok = "", false
		}
	}()
	p := reader.Page(num)
	if p.V.IsNull() {
		return "", false
	}
	text, err := p.GetPlainText(nil)
	if err != nil {
		return "", false
	}
	return text, true
}
