// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/pdiddy/da-research/internal/webfetch"
	"github.com/pdiddy/da-research/pkg/types"
)

// --- fakes ---

type fakeWeb struct {
	results []types.WebResult
	err     error
}

func (f *fakeWeb) Search(_ context.Context, _ string, limit int) ([]types.WebResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	if len(f.results) > limit {
		return f.results[:limit], nil
	}
	return f.results, nil
}

type fakeDocs struct {
	resp *types.DocSearchResponse
	err  error
}

func (f *fakeDocs) SearchDocs(context.Context, string) (*types.DocSearchResponse, error) {
	return f.resp, f.err
}

type fakeFetcher struct {
	mu    sync.Mutex
	pages map[string]string
	calls []string
}

func (f *fakeFetcher) Fetch(_ context.Context, url string) (*webfetch.Page, error) {
	f.mu.Lock()
	f.calls = append(f.calls, url)
	f.mu.Unlock()
	text, ok := f.pages[url]
	if !ok {
		return nil, types.NewFailure(types.FailureNetwork, "fetch", "404 Not Found from %s", url)
	}
	return &webfetch.Page{URL: url, Text: text, StatusCode: 200}, nil
}

func testCfg() types.SearchConfig {
	return types.SearchConfig{
		HTTPConfig:   types.HTTPConfig{Timeout: 5 * time.Second, UserAgent: "test/0.1"},
		MaxResults:   5,
		MaxFollowUps: 3,
	}
}

// --- Module ---

func TestResearch_FollowsRelevantResults(t *testing.T) {
	web := &fakeWeb{results: []types.WebResult{
		{Title: "Main St flood map", URL: "https://a.example/flood", Snippet: "flooding overlay"},
		{Title: "Recipes", URL: "https://b.example/cake", Snippet: "chocolate"},
		{Title: "Main St traffic", URL: "https://c.example/missing", Snippet: "Residents objected to the traffic congestion on Main St."},
	}}
	fetcher := &fakeFetcher{pages: map[string]string{
		"https://a.example/flood": "The site is subject to flooding and a bushfire hazard overlay.",
	}}
	m := New(web, nil, fetcher, nil, testCfg(), nil)

	out, err := m.Research(context.Background(), types.Query{Text: "flooding risk at 10 Main St"})
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"https://a.example/flood", "https://c.example/missing"}, fetcher.calls)
	require.Len(t, out.PartialFailures, 1)
	assert.Contains(t, out.PartialFailures[0], "404")

	require.NotEmpty(t, out.Findings)
	assert.Equal(t, "https://a.example/flood", out.Findings[0].Source.URL)
	assert.Equal(t, types.CategoryEnvironmental, out.Findings[0].Category)
	for _, f := range out.Findings {
		assert.NotEmpty(t, f.Source.URL)
		assert.Equal(t, types.SourceWebPage, f.Source.Kind)
	}
	// The failed follow-up still contributes its snippet.
	var fromSnippet bool
	for _, f := range out.Findings {
		if f.Source.URL == "https://c.example/missing" {
			fromSnippet = true
		}
	}
	assert.True(t, fromSnippet)
}

func TestResearch_CapsFollowUps(t *testing.T) {
	var results []types.WebResult
	for _, u := range []string{"https://x/1", "https://x/2", "https://x/3", "https://x/4"} {
		results = append(results, types.WebResult{Title: "heritage listing", URL: u})
	}
	fetcher := &fakeFetcher{pages: map[string]string{}}
	cfg := testCfg()
	cfg.MaxFollowUps = 2
	m := New(&fakeWeb{results: results}, nil, fetcher, nil, cfg, nil)

	_, err := m.Research(context.Background(), types.Query{Text: "heritage"})
	require.NoError(t, err)
	assert.Len(t, fetcher.calls, 2)
}

func TestResearch_BackendFailureIsPartial(t *testing.T) {
	m := New(&fakeWeb{err: errors.New("boom")}, &fakeDocs{err: types.NewFailure(types.FailureBackend, "docstore", "403")}, nil, nil, testCfg(), nil)

	out, err := m.Research(context.Background(), types.Query{Text: "flooding"})
	require.NoError(t, err)
	assert.Empty(t, out.Findings)
	assert.Len(t, out.PartialFailures, 2)
}

func TestResearch_HedgedSummaryBecomesNote(t *testing.T) {
	docs := &fakeDocs{resp: &types.DocSearchResponse{
		Summary:   "I am unable to find information about that.",
		Documents: []types.WebResult{{Title: "Flood Study", URL: "gs://b/flood.pdf"}},
	}}
	m := New(nil, docs, nil, nil, testCfg(), nil)

	out, err := m.Research(context.Background(), types.Query{Text: "flooding"})
	require.NoError(t, err)
	assert.Empty(t, out.Findings)
	assert.Equal(t, []string{NoDirectAnswer}, out.Notes)
}

func TestResearch_SummaryAttributedToTopDocument(t *testing.T) {
	docs := &fakeDocs{resp: &types.DocSearchResponse{
		Summary:   "The property lies within a flood planning area and a bushfire zone.",
		Documents: []types.WebResult{{Title: "Flood Study", URL: "gs://b/flood.pdf"}, {URL: "gs://b/other.pdf"}},
	}}
	m := New(nil, docs, nil, nil, testCfg(), nil)

	out, err := m.Research(context.Background(), types.Query{Text: "flooding"})
	require.NoError(t, err)
	require.NotEmpty(t, out.Findings)
	assert.Equal(t, "gs://b/flood.pdf", out.Findings[0].Source.URL)
	assert.Equal(t, "Flood Study", out.Findings[0].Source.Title)
}

func TestResearch_RequiresText(t *testing.T) {
	m := New(&fakeWeb{}, nil, nil, nil, testCfg(), nil)
	_, err := m.Research(context.Background(), types.Query{CouncilReference: "LDA2021/0138"})
	assert.True(t, types.IsKind(err, types.FailureMissingInput))
}

func TestResearch_NoBackends(t *testing.T) {
	m := New(nil, nil, nil, nil, testCfg(), nil)
	out, err := m.Research(context.Background(), types.Query{Text: "flooding"})
	require.NoError(t, err)
	assert.Len(t, out.Notes, 1)
}

// --- helpers ---

func TestRelevant(t *testing.T) {
	results := []types.WebResult{
		{Title: "Flooding in Ryde", URL: "https://a"},
		{Title: "Cake", Snippet: "main course", URL: "https://b"},
		{Title: "Parking", URL: "https://c"},
		{Title: "Flooding", URL: ""},
	}
	got := Relevant(results, "flooding at Main St")
	require.Len(t, got, 2)
	assert.Equal(t, "https://a", got[0].URL)
	assert.Equal(t, "https://b", got[1].URL)
}

func TestHedged(t *testing.T) {
	assert.True(t, Hedged(""))
	assert.True(t, Hedged("  "))
	assert.True(t, Hedged("The system is Unable to answer."))
	assert.False(t, Hedged("The site is flood affected."))
}

func TestFallbackURL(t *testing.T) {
	assert.Equal(t, "https://duckduckgo.com/?q=flooding+at+Main+St", FallbackURL(" flooding at Main St "))
	assert.Equal(t, "https://duckduckgo.com/", FallbackURL(""))
}

// --- DuckDuckGo ---

const ddgPage = `<html><body>
<div class="result results_links result--ad">
  <a class="result__a" href="https://ads.example/x">Sponsored</a>
</div>
<div class="result results_links">
  <a class="result__a" href="//duckduckgo.com/l/?uddg=https%3A%2F%2Fwww.ryde.nsw.gov.au%2Fflood&amp;rut=abc">Ryde flood planning</a>
  <a class="result__snippet">Flood planning levels for Main Street.</a>
</div>
<div class="result results_links">
  <a class="result__a" href="https://example.org/heritage">Heritage register</a>
  <div class="result__snippet">Listed items.</div>
</div>
<div class="result results_links">
  <a class="result__a" href="javascript:void(0)">Broken</a>
</div>
</body></html>`

func TestDuckDuckGo_ParsesResults(t *testing.T) {
	var gotQuery, gotUA string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(ddgPage))
	}))
	defer ts.Close()

	old := DuckDuckGoURL
	DuckDuckGoURL = ts.URL + "/html/"
	defer func() { DuckDuckGoURL = old }()

	d := NewDuckDuckGo(ts.Client(), testCfg(), nil)
	results, err := d.Search(context.Background(), "flooding Main St", 5)
	require.NoError(t, err)

	assert.Equal(t, "flooding Main St", gotQuery)
	assert.Equal(t, "test/0.1", gotUA)
	require.Len(t, results, 2)
	assert.Equal(t, types.WebResult{
		Title:   "Ryde flood planning",
		URL:     "https://www.ryde.nsw.gov.au/flood",
		Snippet: "Flood planning levels for Main Street.",
	}, results[0])
	assert.Equal(t, "https://example.org/heritage", results[1].URL)

	results, err = d.Search(context.Background(), "flooding", 1)
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestDuckDuckGo_ErrorStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer ts.Close()

	old := DuckDuckGoURL
	DuckDuckGoURL = ts.URL
	defer func() { DuckDuckGoURL = old }()

	_, err := NewDuckDuckGo(ts.Client(), testCfg(), nil).Search(context.Background(), "q", 5)
	assert.True(t, types.IsKind(err, types.FailureBackend))
	assert.ErrorContains(t, err, "403")
}

func TestUnwrapRedirect(t *testing.T) {
	assert.Equal(t, "https://a.example/x?y=1", unwrapRedirect("/l/?uddg=https%3A%2F%2Fa.example%2Fx%3Fy%3D1"))
	assert.Equal(t, "https://b.example/", unwrapRedirect("https://b.example/"))
	assert.Equal(t, "", unwrapRedirect("mailto:x@y"))
	assert.Equal(t, "", unwrapRedirect("//duckduckgo.com/l/?uddg=javascript%3Aalert(1)"))
	assert.Equal(t, "", unwrapRedirect("//duckduckgo.com/l/?uddg=ftp%3A%2F%2Fx.example%2Ffile"))
	assert.Equal(t, "", unwrapRedirect("/l/?uddg=%2Frelative%2Fpath"))
}

// --- grounding ---

func TestGroundingResults(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{},
			{GroundingMetadata: &genai.GroundingMetadata{
				GroundingChunks: []*genai.GroundingChunk{
					{Web: &genai.GroundingChunkWeb{Title: "ryde.nsw.gov.au", URI: "https://vertexaisearch.example/1"}},
					{},
					{Web: &genai.GroundingChunkWeb{Title: "abc.net.au", URI: "https://vertexaisearch.example/2"}},
				},
				GroundingSupports: []*genai.GroundingSupport{
					{Segment: &genai.Segment{Text: "The area is flood prone."}, GroundingChunkIndices: []int32{0, 2}},
					{Segment: &genai.Segment{Text: "Later text."}, GroundingChunkIndices: []int32{2}},
				},
			}},
		},
	}

	got := groundingResults(resp, 5)
	require.Len(t, got, 2)
	assert.Equal(t, types.WebResult{Title: "ryde.nsw.gov.au", URL: "https://vertexaisearch.example/1", Snippet: "The area is flood prone."}, got[0])
	assert.Equal(t, "The area is flood prone.", got[1].Snippet)

	assert.Len(t, groundingResults(resp, 1), 1)
	assert.Nil(t, groundingResults(nil, 5))
}

func TestNewBackend(t *testing.T) {
	b, err := NewBackend(types.SearchConfig{Backend: "duckduckgo"}, nil, nil, "", nil)
	require.NoError(t, err)
	assert.Equal(t, "duckduckgo", b.Name())

	_, err = NewBackend(types.SearchConfig{Backend: "gemini"}, nil, nil, "", nil)
	assert.Error(t, err)

	b, err = NewBackend(types.SearchConfig{Backend: "none"}, nil, nil, "", nil)
	require.NoError(t, err)
	assert.Nil(t, b)

	_, err = NewBackend(types.SearchConfig{Backend: "bing"}, nil, nil, "", nil)
	assert.Error(t, err)
}
