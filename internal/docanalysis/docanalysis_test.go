// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package docanalysis

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/da-research/internal/council"
	"github.com/pdiddy/da-research/internal/pdftext"
	"github.com/pdiddy/da-research/internal/pdftext/pdftest"
	"github.com/pdiddy/da-research/pkg/types"
)

type fakeLocator struct {
	result *council.Result
	err    error
}

func (f *fakeLocator) Locate(context.Context, string, string) (*council.Result, error) {
	return f.result, f.err
}

type fakeExtractor struct {
	calls   int
	targets []pdftext.Target
	results map[string]types.ExtractionResult
}

func (f *fakeExtractor) Extract(_ context.Context, targets []pdftext.Target, _ int) pdftext.Batch {
	f.calls++
	f.targets = targets
	var b pdftext.Batch
	for _, t := range targets {
		r, ok := f.results[t.URL]
		if !ok {
			r = types.ExtractionResult{Error: "connection refused"}
		}
		r.Source = types.SourceRef{Kind: types.SourceCouncilDocument, URL: t.URL, Title: t.Title}
		b.Results = append(b.Results, r)
	}
	return b
}

type failingClassifier struct{}

func (failingClassifier) Classify(context.Context, string, types.SourceRef) ([]types.Finding, error) {
	return nil, errors.New("model unavailable")
}

var query = types.Query{CouncilReference: "LDA2021/0138", Jurisdiction: "RYDE"}

func TestResearch_ClassifiesEachDocument(t *testing.T) {
	loc := &fakeLocator{result: &council.Result{Documents: []council.Document{
		{Title: "SEE", URL: "https://p/see.pdf"},
		{Title: "Traffic", URL: "https://p/traffic.pdf"},
		{Title: "Plans", URL: "https://p/plans.pdf"},
	}}}
	ext := &fakeExtractor{results: map[string]types.ExtractionResult{
		"https://p/see.pdf":     {Text: "The site is subject to flooding and bushfire hazard.", PageCount: 1, ExtractedPages: 1},
		"https://p/traffic.pdf": {Text: "Traffic congestion and parking demand will increase.", PageCount: 1, ExtractedPages: 1},
	}}
	m := New(loc, ext, nil, Config{}, nil)

	out, err := m.Research(context.Background(), query)
	require.NoError(t, err)

	require.Len(t, out.Findings, 2)
	assert.Equal(t, types.CategoryEnvironmental, out.Findings[0].Category)
	assert.Equal(t, "https://p/see.pdf", out.Findings[0].Source.URL)
	assert.Equal(t, types.SourceCouncilDocument, out.Findings[0].Source.Kind)
	assert.Equal(t, types.CategoryInfrastructure, out.Findings[1].Category)
	assert.Equal(t, "Traffic", out.Findings[1].Source.Title)

	require.Len(t, out.PartialFailures, 1)
	assert.Contains(t, out.PartialFailures[0], "plans.pdf")
	assert.Contains(t, out.PartialFailures[0], "connection refused")
}

func TestResearch_LocateFailureSkipsExtraction(t *testing.T) {
	ext := &fakeExtractor{}
	m := New(&fakeLocator{err: types.NewFailure(types.FailureUnsupportedJurisdiction, "locate", "LGA 'PARRAMATTA' is not supported. Currently supported: Ryde Council")}, ext, nil, Config{}, nil)

	out, err := m.Research(context.Background(), types.Query{CouncilReference: "DA-123", Jurisdiction: "PARRAMATTA"})
	require.NoError(t, err)
	assert.Empty(t, out.Findings)
	require.Len(t, out.PartialFailures, 1)
	assert.Contains(t, out.PartialFailures[0], "PARRAMATTA")
	assert.Zero(t, ext.calls)
}

func TestResearch_EmptyLookupSkipsExtraction(t *testing.T) {
	ext := &fakeExtractor{}
	info := "No documents found for council reference DA-2024-0456 at Ryde Council."
	m := New(&fakeLocator{result: &council.Result{Info: info}}, ext, nil, Config{}, nil)

	out, err := m.Research(context.Background(), query)
	require.NoError(t, err)
	assert.Empty(t, out.Findings)
	assert.Equal(t, []string{info}, out.PartialFailures)
	assert.Zero(t, ext.calls)
}

func TestResearch_CapsDocuments(t *testing.T) {
	var docs []council.Document
	for _, u := range []string{"https://p/1.pdf", "https://p/2.pdf", "https://p/3.pdf"} {
		docs = append(docs, council.Document{URL: u})
	}
	ext := &fakeExtractor{results: map[string]types.ExtractionResult{}}
	m := New(&fakeLocator{result: &council.Result{Documents: docs}}, ext, nil, Config{MaxDocuments: 2}, nil)

	out, err := m.Research(context.Background(), query)
	require.NoError(t, err)
	assert.Len(t, ext.targets, 2)
	assert.Len(t, out.Notes, 1)
	assert.Len(t, out.PartialFailures, 2)
}

func TestResearch_ClassifierFailureIsPartial(t *testing.T) {
	loc := &fakeLocator{result: &council.Result{Documents: []council.Document{{URL: "https://p/see.pdf"}}}}
	ext := &fakeExtractor{results: map[string]types.ExtractionResult{
		"https://p/see.pdf": {Text: "flooding", PageCount: 1, ExtractedPages: 1},
	}}
	m := New(loc, ext, failingClassifier{}, Config{}, nil)

	out, err := m.Research(context.Background(), query)
	require.NoError(t, err)
	assert.Empty(t, out.Findings)
	require.Len(t, out.PartialFailures, 1)
	assert.Contains(t, out.PartialFailures[0], "model unavailable")
}

func TestResearch_NoTextIsNote(t *testing.T) {
	loc := &fakeLocator{result: &council.Result{Documents: []council.Document{{URL: "https://p/scan.pdf"}}}}
	ext := &fakeExtractor{results: map[string]types.ExtractionResult{
		"https://p/scan.pdf": {PageCount: 3, ExtractedPages: 3},
	}}
	out, err := New(loc, ext, nil, Config{}, nil).Research(context.Background(), query)
	require.NoError(t, err)
	assert.Empty(t, out.PartialFailures)
	assert.Len(t, out.Notes, 1)
}

func TestResearch_RequiresReference(t *testing.T) {
	_, err := New(&fakeLocator{}, &fakeExtractor{}, nil, Config{}, nil).Research(context.Background(), types.Query{Text: "flooding"})
	assert.True(t, types.IsKind(err, types.FailureMissingInput))
}

func TestResearch_PortalToPDF(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/KapishWebGrid/default.aspx", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<table class="rgMasterTable">
			<tr><td>Heritage Impact Statement</td><td><a href="/docs/heritage.pdf">view</a></td></tr>
		</table>`))
	})
	mux.HandleFunc("/docs/heritage.pdf", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		w.Write(pdftest.Build("The cottage is a listed heritage item of historical significance."))
	})
	ts := httptest.NewServer(mux)
	defer ts.Close()

	loc := council.New(ts.Client(), types.CouncilConfig{RydeBaseURL: ts.URL}, nil)
	ext := pdftext.New(ts.Client(), types.PDFConfig{}, nil)
	out, err := New(loc, ext, nil, Config{}, nil).Research(context.Background(), query)
	require.NoError(t, err)

	assert.Empty(t, out.PartialFailures)
	require.NotEmpty(t, out.Findings)
	assert.Equal(t, types.CategoryHistorical, out.Findings[0].Category)
	assert.Equal(t, ts.URL+"/docs/heritage.pdf", out.Findings[0].Source.URL)
	assert.Equal(t, "Heritage Impact Statement", out.Findings[0].Source.Title)
}
