// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package docanalysis analyzes the official filings of a development
// application: it locates the documents on the council portal, extracts
// their text, and classifies each document into findings.
package docanalysis

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/da-research/internal/classify"
	"github.com/pdiddy/da-research/internal/council"
	"github.com/pdiddy/da-research/internal/logging"
	"github.com/pdiddy/da-research/internal/pdftext"
	"github.com/pdiddy/da-research/pkg/types"
)

const op = "docanalysis"

// classifyConcurrency bounds parallel classification calls.
const classifyConcurrency = 3

// Locator is satisfied by *council.Locator.
type Locator interface {
	Locate(ctx context.Context, reference, jurisdiction string) (*council.Result, error)
}

// Extractor is satisfied by *pdftext.Extractor.
type Extractor interface {
	Extract(ctx context.Context, targets []pdftext.Target, maxPages int) pdftext.Batch
}

// Config tunes the module.
type Config struct {
	// MaxDocuments caps how many located documents are extracted.
	MaxDocuments int
	// MaxPages caps pages per document; 0 reads every page.
	MaxPages int
}

// Module chains locate, extract, and classify.
type Module struct {
	locator    Locator
	extractor  Extractor
	classifier classify.Classifier
	cfg        Config
	log        logging.Logger
}

// New creates the module. A nil classifier falls back to keyword classification.
func New(locator Locator, extractor Extractor, classifier classify.Classifier, cfg Config, log logging.Logger) *Module {
	if classifier == nil {
		classifier = classify.NewKeywords()
	}
	if cfg.MaxDocuments <= 0 {
		cfg.MaxDocuments = types.DefaultMaxDocuments
	}
	return &Module{
		locator:    locator,
		extractor:  extractor,
		classifier: classifier,
		cfg:        cfg,
		log:        logging.OrNop(log),
	}
}

// Name returns the module identifier.
func (m *Module) Name() string { return "documents" }

// Research analyzes the filings for q.CouncilReference. A failed or empty
// lookup yields no findings and one partial failure; the extractor is not
// called. Per-document failures are recorded and never stop the others.
func (m *Module) Research(ctx context.Context, q types.Query) (types.ModuleResult, error) {
	var out types.ModuleResult
	if !q.HasReference() {
		return out, types.NewFailure(types.FailureMissingInput, op, "council reference is required")
	}
	log := m.log.With(logging.String("reference", q.CouncilReference))

	located, err := m.locator.Locate(ctx, q.CouncilReference, q.Jurisdiction)
	if err != nil {
		log.Warn("council lookup failed", logging.String("op", op), logging.Err(err))
		out.Fail("council lookup: %v", err)
		return out, nil
	}
	if located.Empty() {
		info := located.Info
		if info == "" {
			info = fmt.Sprintf("No documents found for council reference %s.", q.CouncilReference)
		}
		out.Fail("%s", info)
		return out, nil
	}

	docs := located.Documents
	if len(docs) > m.cfg.MaxDocuments {
		out.Note("Analyzed %d of %d documents found for %s.", m.cfg.MaxDocuments, len(docs), q.CouncilReference)
		docs = docs[:m.cfg.MaxDocuments]
	}
	targets := make([]pdftext.Target, len(docs))
	for i, d := range docs {
		targets[i] = pdftext.Target{URL: d.URL, Title: d.Title}
	}

	batch := m.extractor.Extract(ctx, targets, m.cfg.MaxPages)
	findings := make([][]types.Finding, len(batch.Results))
	failures := make([]string, len(batch.Results))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(classifyConcurrency)
	for i, r := range batch.Results {
		switch {
		case r.Error != "":
			failures[i] = fmt.Sprintf("%s: %s", describe(r.Source), r.Error)
			continue
		case r.Text == "":
			out.Note("%s has no extractable text.", describe(r.Source))
			continue
		}
		g.Go(func() error {
			f, err := m.classifier.Classify(gctx, r.Text, r.Source)
			if err != nil {
				failures[i] = fmt.Sprintf("classify %s: %v", describe(r.Source), err)
				return nil
			}
			findings[i] = f
			return nil
		})
	}
	g.Wait()

	for i := range batch.Results {
		if failures[i] != "" {
			out.Fail("%s", failures[i])
		}
		out.Findings = append(out.Findings, findings[i]...)
	}

	log.Info("document analysis complete",
		logging.Int("documents", len(targets)),
		logging.Int("extracted", batch.Succeeded()),
		logging.Int("findings", len(out.Findings)))
	return out, nil
}

func describe(s types.SourceRef) string {
	if s.Title != "" {
		return fmt.Sprintf("%q (%s)", s.Title, s.URL)
	}
	return s.URL
}
