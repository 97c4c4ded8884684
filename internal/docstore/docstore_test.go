// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package docstore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/da-research/pkg/types"
)

func openCorpus(t *testing.T) *Local {
	t.Helper()
	l, err := OpenLocal(context.Background(), types.DocStoreConfig{
		CorpusPath: filepath.Join("testdata", "corpus.yaml"),
		PageSize:   3,
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { l.Close() })
	return l
}

func TestLocal_RanksByTerms(t *testing.T) {
	l := openCorpus(t)

	resp, err := l.SearchDocs(context.Background(), "flooding at Main Street")
	require.NoError(t, err)
	require.NotEmpty(t, resp.Documents)
	assert.Equal(t, "https://docs.example.gov.au/ryde-flood-study.pdf", resp.Documents[0].URL)
	assert.Contains(t, resp.Documents[0].Snippet, "Main Street")
	assert.NotEmpty(t, resp.Summary)

	for _, d := range resp.Documents {
		assert.NotEqual(t, "https://docs.example.gov.au/parking.pdf", d.URL)
	}
}

func TestLocal_TitleOutweighsContent(t *testing.T) {
	l := openCorpus(t)
	resp, err := l.SearchDocs(context.Background(), "heritage")
	require.NoError(t, err)
	require.Len(t, resp.Documents, 1)
	assert.Equal(t, "Ryde Heritage Inventory", resp.Documents[0].Title)
}

func TestLocal_NoMatches(t *testing.T) {
	l := openCorpus(t)
	resp, err := l.SearchDocs(context.Background(), "zeppelin")
	require.NoError(t, err)
	assert.Empty(t, resp.Documents)
	assert.Empty(t, resp.Summary)

	resp, err = l.SearchDocs(context.Background(), "at a")
	require.NoError(t, err)
	assert.Empty(t, resp.Documents)
}

func TestLocal_PageSize(t *testing.T) {
	corpus := Corpus{}
	for i := 0; i < 5; i++ {
		corpus.Documents = append(corpus.Documents, CorpusDocument{Title: "doc", URL: "https://x/" + string(rune('a'+i)), Content: "traffic study."})
	}
	l, err := NewLocal(context.Background(), corpus, 2, nil)
	require.NoError(t, err)
	defer l.Close()

	resp, err := l.SearchDocs(context.Background(), "traffic")
	require.NoError(t, err)
	assert.Len(t, resp.Documents, 2)
	assert.Equal(t, "https://x/a", resp.Documents[0].URL)
}

func TestLocal_RejectsMissingURL(t *testing.T) {
	_, err := NewLocal(context.Background(), Corpus{Documents: []CorpusDocument{{Title: "x"}}}, 3, nil)
	assert.ErrorContains(t, err, "has no url")
}

func TestNew_SelectsBackend(t *testing.T) {
	s, closeFn, err := New(context.Background(), types.DocStoreConfig{Backend: "none"}, nil)
	require.NoError(t, err)
	assert.Nil(t, s)
	assert.NoError(t, closeFn())

	_, _, err = New(context.Background(), types.DocStoreConfig{Backend: "vertex"}, nil)
	assert.Error(t, err)

	_, _, err = New(context.Background(), types.DocStoreConfig{Backend: "elastic"}, nil)
	assert.Error(t, err)

	s, closeFn, err = New(context.Background(), types.DocStoreConfig{Backend: "local", CorpusPath: filepath.Join("testdata", "corpus.yaml")}, nil)
	require.NoError(t, err)
	assert.NotNil(t, s)
	assert.NoError(t, closeFn())
}
