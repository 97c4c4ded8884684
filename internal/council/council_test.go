// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package council

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/da-research/pkg/types"
)

const gridPage = `<html><body>
<table class="rgMasterTable">
  <tr><th>Title</th><th>Date</th><th>Link</th></tr>
  <tr><td> Statement of Environmental Effects </td><td>2024-02-01</td><td><a href="/KapishWebGrid/docs/see.pdf">view</a></td></tr>
  <tr><td>Traffic Report</td><td>2024-02-03</td><td><a href="https://files.example.com/traffic.pdf">view</a></td></tr>
  <tr><td>No link here</td><td>2024-02-04</td></tr>
  <tr><td>single cell</td></tr>
</table>
</body></html>`

const linksPage = `<html><body>
<a href="/about">About</a>
<a href="/files/plans.PDF">Architectural Plans</a>
<a href="/GetDocument?id=42"></a>
<a href="mailto:council@example.com">Email</a>
</body></html>`

const emptyPage = `<html><body><p>Your search returned no results.</p></body></html>`

type portalServer struct {
	*httptest.Server
	calls   atomic.Int32
	lastURL atomic.Value
}

func newPortal(t *testing.T, status int, body string) *portalServer {
	t.Helper()
	ps := &portalServer{}
	ps.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ps.calls.Add(1)
		ps.lastURL.Store(r.URL.String())
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(ps.Close)
	return ps
}

func newLocator(ps *portalServer) *Locator {
	return New(ps.Client(), types.CouncilConfig{RydeBaseURL: ps.URL}, nil)
}

func TestLocate_ParsesResultsTable(t *testing.T) {
	ps := newPortal(t, http.StatusOK, gridPage)
	l := newLocator(ps)

	res, err := l.Locate(context.Background(), "LDA2021/0138", "ryde")
	require.NoError(t, err)

	require.Len(t, res.Documents, 2)
	assert.Equal(t, "Statement of Environmental Effects", res.Documents[0].Title)
	assert.Equal(t, ps.URL+"/KapishWebGrid/docs/see.pdf", res.Documents[0].URL)
	assert.Equal(t, "https://files.example.com/traffic.pdf", res.Documents[1].URL)
	assert.Empty(t, res.Info)
	assert.Equal(t, "Ryde Council", res.Portal)

	assert.Equal(t, "/KapishWebGrid/default.aspx?s=DATracker&containerex=LDA2021%2F00138%2F0010", ps.lastURL.Load())
}

func TestLocate_FallsBackToLinkScan(t *testing.T) {
	ps := newPortal(t, http.StatusOK, linksPage)
	l := newLocator(ps)

	res, err := l.Locate(context.Background(), "LDA2022/12", "RYDE CITY")
	require.NoError(t, err)

	require.Len(t, res.Documents, 2)
	assert.Equal(t, Document{Title: "Architectural Plans", URL: ps.URL + "/files/plans.PDF"}, res.Documents[0])
	assert.Equal(t, Document{Title: "Document", URL: ps.URL + "/GetDocument?id=42"}, res.Documents[1])
}

func TestLocate_NoDocumentsIsInformational(t *testing.T) {
	ps := newPortal(t, http.StatusOK, emptyPage)
	l := newLocator(ps)

	res, err := l.Locate(context.Background(), "DA-2024-0456", "RYDE")
	require.NoError(t, err)
	assert.True(t, res.Empty())
	assert.Equal(t, "No documents found for council reference DA-2024-0456 at Ryde Council.", res.Info)
}

func TestLocate_UnsupportedJurisdictionMakesNoRequest(t *testing.T) {
	ps := newPortal(t, http.StatusOK, gridPage)
	l := newLocator(ps)

	res, err := l.Locate(context.Background(), "DA-123", "PARRAMATTA")
	require.Error(t, err)
	assert.Nil(t, res)
	assert.True(t, types.IsKind(err, types.FailureUnsupportedJurisdiction))
	assert.Contains(t, err.Error(), "PARRAMATTA")
	assert.Equal(t, int32(0), ps.calls.Load())
}

func TestLocate_DefaultJurisdiction(t *testing.T) {
	ps := newPortal(t, http.StatusOK, gridPage)
	l := New(ps.Client(), types.CouncilConfig{RydeBaseURL: ps.URL, DefaultJurisdiction: "RYDE"}, nil)

	res, err := l.Locate(context.Background(), "LDA2021/0138", "")
	require.NoError(t, err)
	assert.Len(t, res.Documents, 2)
}

func TestLocate_NonOKStatus(t *testing.T) {
	ps := newPortal(t, http.StatusInternalServerError, "boom")
	l := newLocator(ps)

	_, err := l.Locate(context.Background(), "LDA2021/0138", "RYDE")
	require.Error(t, err)
	assert.True(t, types.IsKind(err, types.FailureNetwork))
	assert.Contains(t, err.Error(), "Status code: 500")
}

func TestLocate_MissingReference(t *testing.T) {
	l := New(nil, types.CouncilConfig{}, nil)
	_, err := l.Locate(context.Background(), "  ", "RYDE")
	assert.True(t, types.IsKind(err, types.FailureMissingInput))
}

func TestNormalizeRydeReference(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"LDA2021/0138", "LDA2021/00138/0010"},
		{"LDA2021/12345", "LDA2021/12345/0010"},
		{"LDA2021/00138/0010", "LDA2021/00138/0010"},
		{"DA-999", "DA-999/0010"},
		{" LDA2020/7 ", "LDA2020/00007/0010"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeRydeReference(tt.in))
		})
	}
}

func TestRydeMatches(t *testing.T) {
	r := NewRyde("")
	assert.True(t, r.Matches("ryde"))
	assert.True(t, r.Matches(" Ryde City "))
	assert.False(t, r.Matches("North Ryde"))
	assert.False(t, r.Matches(""))
	assert.False(t, r.Matches("PARRAMATTA"))
}
