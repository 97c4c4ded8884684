// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package council discovers development-application documents on council
// records portals. Each supported jurisdiction is a Portal in a small
// registry; unsupported jurisdictions fail without touching the network.
package council

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

const op = "locate"

// Document is one discovered document link.
type Document struct {
	Title string `json:"title" yaml:"title"`
	URL   string `json:"url" yaml:"url"`
}

// Result is the outcome of a successful lookup. Zero documents is not an
// error: Info then carries a human-readable explanation.
type Result struct {
	Portal    string     `json:"portal" yaml:"portal"`
	Reference string     `json:"reference" yaml:"reference"`
	LookupURL string     `json:"lookup_url" yaml:"lookup_url"`
	Documents []Document `json:"documents" yaml:"documents"`
	Info      string     `json:"info,omitempty" yaml:"info,omitempty"`
}

// Empty reports whether no documents were discovered.
func (r *Result) Empty() bool {
	return r == nil || len(r.Documents) == 0
}

// Portal is a jurisdiction-specific records system.
type Portal interface {
	// Name is the council's display name.
	Name() string

	// Matches reports whether jurisdiction selects this portal.
	Matches(jurisdiction string) bool

	// LookupURL builds the deterministic search URL for reference.
	LookupURL(reference string) string

	// Documents extracts document links from a lookup response.
	Documents(doc *goquery.Document) []Document
}

// Locator resolves references to document links via the portal registry.
type Locator struct {
	client  *http.Client
	cfg     types.CouncilConfig
	portals []Portal
	log     logging.Logger
}

// New creates a Locator with the built-in portals. A nil client gets one
// built from cfg.
func New(client *http.Client, cfg types.CouncilConfig, log logging.Logger) *Locator {
	if client == nil {
		client = httputil.NewClient(cfg.HTTPConfig)
	}
	return &Locator{
		client:  client,
		cfg:     cfg,
		portals: []Portal{NewRyde(cfg.RydeBaseURL)},
		log:     logging.OrNop(log),
	}
}

// Portals lists the registered portals.
func (l *Locator) Portals() []Portal {
	return l.portals
}

// Supports reports whether some portal handles jurisdiction.
func (l *Locator) Supports(jurisdiction string) bool {
	return l.portalFor(jurisdiction) != nil
}

func (l *Locator) portalFor(jurisdiction string) Portal {
	for _, p := range l.portals {
		if p.Matches(jurisdiction) {
			return p
		}
	}
	return nil
}

// Locate finds documents for reference on jurisdiction's portal. An empty
// jurisdiction falls back to the configured default.
func (l *Locator) Locate(ctx context.Context, reference, jurisdiction string) (*Result, error) {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return nil, types.NewFailure(types.FailureMissingInput, op, "council reference is required")
	}
	if strings.TrimSpace(jurisdiction) == "" {
		jurisdiction = l.cfg.DefaultJurisdiction
	}

	portal := l.portalFor(jurisdiction)
	if portal == nil {
		return nil, types.NewFailure(types.FailureUnsupportedJurisdiction, op,
			"LGA '%s' is not supported. Currently supported: %s", strings.ToUpper(strings.TrimSpace(jurisdiction)), l.supportedNames())
	}

	lookup := portal.LookupURL(reference)
	log := l.log.With(logging.String("portal", portal.Name()), logging.String("reference", reference))
	log.Debug("looking up council documents", logging.String("url", lookup))

	resp, cancel, err := httputil.Get(ctx, l.client, lookup, l.cfg.UserAgent, httputil.AcceptHTML, l.cfg.Timeout)
	if err != nil {
		log.Warn("council portal unreachable", logging.Err(err))
		return nil, types.WrapFailure(types.FailureNetwork, op, fmt.Errorf("failed to connect to council website: %w", err))
	}
	defer cancel()
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		return nil, types.NewFailure(types.FailureNetwork, op, "Failed to access council website. Status code: %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, types.WrapFailure(types.FailureFormat, op, fmt.Errorf("parsing portal response: %w", err))
	}

	result := &Result{
		Portal:    portal.Name(),
		Reference: reference,
		LookupURL: lookup,
		Documents: portal.Documents(doc),
	}
	if result.Empty() {
		result.Info = fmt.Sprintf("No documents found for council reference %s at %s.", reference, portal.Name())
	}
	log.Info("council lookup complete", logging.Int("documents", len(result.Documents)))
	return result, nil
}

func (l *Locator) supportedNames() string {
	names := make([]string, 0, len(l.portals))
	for _, p := range l.portals {
		names = append(names, p.Name())
	}
	return strings.Join(names, ", ")
}

// resolveLink makes href absolute against base. Unparsable hrefs are
// returned unchanged.
func resolveLink(base *url.URL, href string) string {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil || base == nil {
		return href
	}
	return base.ResolveReference(ref).String()
}
