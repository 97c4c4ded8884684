// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/pdiddy/da-research/internal/classify"
	"github.com/pdiddy/da-research/internal/coordinator"
	"github.com/pdiddy/da-research/internal/council"
	"github.com/pdiddy/da-research/internal/docanalysis"
	"github.com/pdiddy/da-research/internal/docstore"
	"github.com/pdiddy/da-research/internal/logging"
	"github.com/pdiddy/da-research/internal/pdftext"
	"github.com/pdiddy/da-research/internal/reasoner"
	"github.com/pdiddy/da-research/internal/search"
	"github.com/pdiddy/da-research/internal/tools"
	"github.com/pdiddy/da-research/internal/webfetch"
	"github.com/pdiddy/da-research/pkg/types"
)

// pipeline holds the components wired from one configuration.
type pipeline struct {
	cfg         types.PipelineConfig
	fetcher     *webfetch.Fetcher
	locator     *council.Locator
	extractor   *pdftext.Extractor
	reasoner    reasoner.Reasoner
	registry    *tools.Registry
	coordinator *coordinator.Coordinator
	close       func() error
}

// newPipeline builds every stage from cfg. Without a reasoner API key the
// pipeline runs on keyword classification and the deterministic summary.
func newPipeline(ctx context.Context, cfg types.PipelineConfig, log logging.Logger) (*pipeline, error) {
	p := &pipeline{
		cfg:       cfg,
		fetcher:   webfetch.New(nil, cfg.Fetch, log),
		locator:   council.New(nil, cfg.Council, log),
		extractor: pdftext.New(nil, cfg.PDF, log),
		close:     func() error { return nil },
	}

	r, err := reasoner.New(ctx, cfg.Reasoner)
	if err != nil {
		return nil, fmt.Errorf("creating reasoner: %w", err)
	}
	p.reasoner = r
	if r == nil {
		log.Info("no reasoner API key configured, using keyword classification")
	}

	var genaiClient *genai.Client
	if g, ok := r.(*reasoner.Gemini); ok {
		genaiClient = g.Client()
	}
	searchCfg := cfg.Search
	if searchCfg.Backend == "gemini" && genaiClient == nil {
		log.Warn("gemini search backend needs a Gemini API key, falling back to duckduckgo")
		searchCfg.Backend = "duckduckgo"
	}
	web, err := search.NewBackend(searchCfg, nil, genaiClient, cfg.Reasoner.Model, log)
	if err != nil {
		return nil, err
	}

	docs, closeDocs, err := docstore.New(ctx, cfg.DocStore, log)
	if err != nil {
		return nil, fmt.Errorf("creating document store: %w", err)
	}
	p.close = closeDocs

	p.registry = tools.NewRegistry(log)
	p.registry.MustRegister(tools.WebFetch{Fetcher: p.fetcher})
	p.registry.MustRegister(tools.CouncilLocate{Locator: p.locator})
	p.registry.MustRegister(tools.PDFExtract{Extractor: p.extractor})

	var webSearcher tools.WebSearcher
	if web != nil {
		webSearcher = web
		p.registry.MustRegister(tools.WebSearch{Searcher: web, Limit: cfg.Search.MaxResults})
	}
	var docSearcher tools.DocSearcher
	if docs != nil {
		docSearcher = docs
		p.registry.MustRegister(tools.DocSearch{Searcher: docs})
	}

	classifier := classify.Fallback{Secondary: classify.NewKeywords(), Log: log}
	var synth coordinator.Synthesizer
	if r != nil {
		classifier.Primary = reasoner.NewFindingClassifier(r)
		synth = reasoner.NewSynthesizer(p.agent(reasoner.CoordinatorInstruction, "coordinator", log))
	}

	docsModule := docanalysis.New(p.locator, p.extractor, classifier, docanalysis.Config{
		MaxDocuments: cfg.Council.MaxDocuments,
		MaxPages:     cfg.PDF.MaxPages,
	}, log)
	searchModule := search.New(webSearcher, docSearcher, p.fetcher, classifier, cfg.Search, log)
	p.coordinator = coordinator.New(docsModule, searchModule, synth, cfg.Run, log)
	return p, nil
}

// agent builds a tool-using agent over the pipeline's registry.
func (p *pipeline) agent(instruction, name string, log logging.Logger) *reasoner.Agent {
	return reasoner.NewAgent(p.reasoner, reasoner.AgentConfig{
		Name:        name,
		Model:       p.cfg.Reasoner.Model,
		Instruction: instruction,
		MaxSteps:    p.cfg.Reasoner.MaxSteps,
	}, p.registry).WithLogger(log)
}

// setup loads the configuration and builds the pipeline for a subcommand.
func setup(ctx context.Context) (*pipeline, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return newPipeline(ctx, cfg, logger)
}
