// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package coordinator routes a research query to the document-analysis
// and search modules, runs them concurrently, and merges their findings
// into one cited result.
package coordinator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/da-research/internal/logging"
	"github.com/pdiddy/da-research/internal/search"
	"github.com/pdiddy/da-research/pkg/types"
)

const op = "coordinator"

// Module is one research path. Research returns an error only for a
// missing input; everything else is reported on the ModuleResult.
type Module interface {
	Name() string
	Research(ctx context.Context, q types.Query) (types.ModuleResult, error)
}

// Synthesizer writes the narrative for a run.
type Synthesizer interface {
	Synthesize(ctx context.Context, q types.Query, findings []types.Finding, notes []string) (string, error)
}

// State is a stage of a run.
type State string

const (
	StateStart  State = "start"
	StateRouted State = "routed"
	StateMerged State = "merged"
	StateDone   State = "done"
)

// Route is the set of modules selected for a query.
type Route struct {
	Documents bool `json:"documents"`
	Search    bool `json:"search"`
}

// Plan selects modules for q. A council reference selects document
// analysis; query text, or the absence of a reference, selects search.
// A query with neither text nor reference is a missing-input failure.
func Plan(q types.Query) (Route, error) {
	if !q.HasText() && !q.HasReference() {
		return Route{}, types.NewFailure(types.FailureMissingInput, op, "a query or a council reference is required")
	}
	return Route{
		Documents: q.HasReference(),
		Search:    q.HasText() || !q.HasReference(),
	}, nil
}

// Coordinator runs research queries. It holds no per-run state and is
// safe for concurrent use.
type Coordinator struct {
	docs    Module
	search  Module
	synth   Synthesizer
	timeout time.Duration
	log     logging.Logger
}

// New creates a Coordinator. Either module may be nil, in which case a
// query routed to it records a partial failure. A nil synth uses the
// deterministic summary.
func New(docs, search Module, synth Synthesizer, cfg types.RunConfig, log logging.Logger) *Coordinator {
	if cfg.Timeout <= 0 {
		cfg.Timeout = types.DefaultRunTimeout
	}
	return &Coordinator{
		docs:    docs,
		search:  search,
		synth:   synth,
		timeout: cfg.Timeout,
		log:     logging.OrNop(log),
	}
}

// Run executes one research run. Only a missing input is returned as an
// error; module, network, and synthesis failures end up in
// PartialFailures. Outstanding network calls are aborted when ctx is
// cancelled or the run timeout elapses.
func (c *Coordinator) Run(ctx context.Context, q types.Query) (types.ResearchResult, error) {
	log := c.log.With(logging.String("reference", q.CouncilReference))
	log.Debug("research run", logging.String("state", string(StateStart)))

	route, err := Plan(q)
	if err != nil {
		return types.ResearchResult{}, err
	}
	log.Info("query routed",
		logging.String("state", string(StateRouted)),
		logging.Bool("documents", route.Documents),
		logging.Bool("search", route.Search))

	runCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	// Slot 0 is document analysis and slot 1 is search; merge order follows.
	selected := [2]Module{}
	var failures []string
	if route.Documents {
		if c.docs == nil {
			failures = append(failures, "document analysis is not configured")
		} else {
			selected[0] = c.docs
		}
	}
	if route.Search {
		if c.search == nil {
			failures = append(failures, "search is not configured")
		} else {
			selected[1] = c.search
		}
	}

	var outcomes [2]types.ModuleResult
	g, gctx := errgroup.WithContext(runCtx)
	for i, m := range selected {
		if m == nil {
			continue
		}
		g.Go(func() error {
			outcomes[i] = c.invoke(gctx, m, q)
			return nil
		})
	}
	g.Wait()

	var notes []string
	var all []types.Finding
	for _, o := range outcomes {
		all = append(all, o.Findings...)
		failures = append(failures, o.PartialFailures...)
		notes = append(notes, o.Notes...)
	}
	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		failures = append(failures, fmt.Sprintf("research run timed out after %s", c.timeout))
	}

	findings := Merge(all)
	log.Info("findings merged",
		logging.String("state", string(StateMerged)),
		logging.Int("findings", len(findings)),
		logging.Int("partial_failures", len(failures)))

	synthesis := c.synthesize(runCtx, q, findings, notes, &failures)
	if len(findings) == 0 {
		findings = NoInformation(q)
	}

	log.Debug("research run", logging.String("state", string(StateDone)))
	if failures == nil {
		failures = []string{}
	}
	return types.ResearchResult{
		Findings:        findings,
		Synthesis:       synthesis,
		PartialFailures: failures,
	}, nil
}

// invoke runs m and folds a returned error into the result.
func (c *Coordinator) invoke(ctx context.Context, m Module, q types.Query) types.ModuleResult {
	start := time.Now()
	out, err := m.Research(ctx, q)
	if err != nil {
		c.log.Warn("module failed", logging.String("module", m.Name()), logging.Err(err))
		out.Fail("%s: %v", m.Name(), err)
	}
	c.log.Debug("module complete",
		logging.String("module", m.Name()),
		logging.Duration("elapsed", time.Since(start)),
		logging.Int("findings", len(out.Findings)))
	return out
}

func (c *Coordinator) synthesize(ctx context.Context, q types.Query, findings []types.Finding, notes []string, failures *[]string) string {
	if c.synth != nil && ctx.Err() == nil {
		text, err := c.synth.Synthesize(ctx, q, findings, notes)
		if err == nil {
			return text
		}
		c.log.Warn("synthesis failed, using summary", logging.Err(err))
		*failures = append(*failures, fmt.Sprintf("synthesis: %v", err))
	}
	return Summarize(q, findings, notes)
}

type findingKey struct {
	category types.Category
	url      string
}

// Merge drops findings without a source URL and keeps the first finding
// for each (category, source URL) pair, preserving order.
func Merge(findings []types.Finding) []types.Finding {
	seen := make(map[findingKey]bool)
	out := make([]types.Finding, 0, len(findings))
	for _, f := range findings {
		if f.Source.URL == "" {
			continue
		}
		k := findingKey{category: f.Category, url: f.Source.URL}
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, f)
	}
	return out
}

// NoInformation returns one neutral finding per category pointing at a
// search link for the query.
func NoInformation(q types.Query) []types.Finding {
	subject := q.Text
	if !q.HasText() {
		subject = q.CouncilReference
	}
	source := types.SourceRef{Kind: types.SourceWebPage, URL: search.FallbackURL(subject), Title: "Web search"}
	out := make([]types.Finding, 0, len(types.Categories))
	for _, c := range types.Categories {
		out = append(out, types.Finding{
			Category:  c,
			Sentiment: types.SentimentNeutral,
			Text:      fmt.Sprintf("No information found about %s.", c.Label()),
			Source:    source,
		})
	}
	return out
}
