// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/da-research/pkg/types"
)

type mockRunner struct {
	got    types.Query
	result types.ResearchResult
	err    error
}

func (m *mockRunner) Run(_ context.Context, q types.Query) (types.ResearchResult, error) {
	m.got = q
	return m.result, m.err
}

func setupTestRouter(t *testing.T, r Runner) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	return NewRouter(NewHandler(r, nil), nil)
}

func post(t *testing.T, router http.Handler, body any) (*httptest.ResponseRecorder, GenerateResponse) {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/agent/generate", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var resp GenerateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w, resp
}

func TestHealth(t *testing.T) {
	router := setupTestRouter(t, &mockRunner{})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/agent/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","message":"Agent API is running"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestGenerate_Success(t *testing.T) {
	src := types.SourceRef{Kind: types.SourceCouncilDocument, URL: "https://p/see.pdf", Title: "SEE"}
	runner := &mockRunner{result: types.ResearchResult{
		Findings: []types.Finding{
			{Category: types.CategoryEnvironmental, Sentiment: types.SentimentNegative, Text: "flood prone", Source: src},
			{Category: types.CategoryZoning, Sentiment: types.SentimentNeutral, Text: "R2 zone", Source: src},
		},
		Synthesis:       "summary",
		PartialFailures: []string{"traffic.pdf: 404"},
	}}
	router := setupTestRouter(t, runner)

	w, resp := post(t, router, map[string]any{
		"prompt":           "What about flooding?",
		"history":          []map[string]string{{"role": "user", "text": "hi"}},
		"councilReference": "LDA2021/0138",
		"jurisdiction":     "RYDE",
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, resp.Success)
	assert.Equal(t, "summary", resp.Text)
	assert.Equal(t, []types.SourceRef{src}, resp.Sources)
	assert.Len(t, resp.Findings, 2)
	assert.Equal(t, []string{"traffic.pdf: 404"}, resp.PartialFailures)
	assert.Equal(t, w.Header().Get("X-Request-ID"), resp.RequestID)

	assert.Equal(t, "LDA2021/0138", runner.got.CouncilReference)
	assert.Equal(t, "RYDE", runner.got.Jurisdiction)
	require.Len(t, runner.got.History, 1)
	assert.Equal(t, "hi", runner.got.History[0].Text)
}

func TestGenerate_KeepsIncomingRequestID(t *testing.T) {
	router := setupTestRouter(t, &mockRunner{})
	req := httptest.NewRequest(http.MethodPost, "/api/agent/generate", bytes.NewReader([]byte(`{"prompt":"x"}`)))
	req.Header.Set("X-Request-ID", "req-1")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, "req-1", w.Header().Get("X-Request-ID"))
}

func TestGenerate_MissingPrompt(t *testing.T) {
	runner := &mockRunner{}
	w, resp := post(t, setupTestRouter(t, runner), map[string]any{"prompt": ""})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, resp.Success)
	assert.Equal(t, "Prompt is required", resp.Text)
	assert.Equal(t, types.Query{}, runner.got)
}

func TestGenerate_InvalidBody(t *testing.T) {
	router := setupTestRouter(t, &mockRunner{})
	req := httptest.NewRequest(http.MethodPost, "/api/agent/generate", bytes.NewReader([]byte(`{"prompt":`)))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGenerate_RunError(t *testing.T) {
	w, resp := post(t, setupTestRouter(t, &mockRunner{err: errors.New("boom")}), map[string]any{"prompt": "flooding"})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Text, "boom")
}

func TestGenerate_EmptySourcesIsArray(t *testing.T) {
	router := setupTestRouter(t, &mockRunner{result: types.ResearchResult{Synthesis: "nothing"}})
	req := httptest.NewRequest(http.MethodPost, "/api/agent/generate", bytes.NewReader([]byte(`{"prompt":"x"}`)))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Contains(t, w.Body.String(), `"sources":[]`)
}

func TestQueryFromRequest(t *testing.T) {
	tests := []struct {
		name      string
		req       GenerateRequest
		reference string
		lga       string
	}{
		{"from prompt", GenerateRequest{Prompt: "Council reference: LDA2021/0138. LGA: Ryde. Any objections?"}, "LDA2021/0138", "Ryde"},
		{"DA number", GenerateRequest{Prompt: "DA number DA-2024-0456 jurisdiction: RYDE"}, "DA-2024-0456", "RYDE"},
		{"body wins", GenerateRequest{Prompt: "council reference: X1", CouncilReference: "LDA2020/0001", Jurisdiction: "RYDE"}, "LDA2020/0001", "RYDE"},
		{"none", GenerateRequest{Prompt: "flooding risk at 10 Main St"}, "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := QueryFromRequest(tt.req)
			assert.Equal(t, tt.reference, q.CouncilReference)
			assert.Equal(t, tt.lga, q.Jurisdiction)
		})
	}
}
