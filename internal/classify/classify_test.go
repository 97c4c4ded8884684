// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package classify

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/da-research/pkg/types"
)

var src = types.SourceRef{Kind: types.SourceWebPage, URL: "https://example.com/da"}

const report = `The site is subject to flooding and bushfire hazard overlays.
Council approved the rezoning and the land use complies with the development control plan.
Residents lodged 40 objections and a petition opposing the proposal.
The heritage listed cottage dates from the 19th century.
Parking and traffic congestion will increase on Main Road.`

func TestKeywords_OneFindingPerCategory(t *testing.T) {
	k := NewKeywords()
	findings, err := k.Classify(context.Background(), report, src)
	require.NoError(t, err)
	require.Len(t, findings, len(types.Categories))

	for i, f := range findings {
		assert.Equal(t, types.Categories[i], f.Category, "category order")
		assert.Equal(t, src, f.Source)
		assert.NotEmpty(t, f.Text)
	}
	assert.Contains(t, findings[0].Text, "flooding")
	assert.Equal(t, types.SentimentNegative, findings[0].Sentiment)
	assert.Contains(t, findings[1].Text, "rezoning")
	assert.Equal(t, types.SentimentPositive, findings[1].Sentiment)
	assert.Contains(t, findings[2].Text, "objections")
	assert.Equal(t, types.SentimentNegative, findings[2].Sentiment)
	assert.Contains(t, findings[3].Text, "Parking")
	assert.Contains(t, findings[4].Text, "heritage")
}

func TestKeywords_NoMatches(t *testing.T) {
	findings, err := NewKeywords().Classify(context.Background(), "Lorem ipsum dolor sit amet.", src)
	require.NoError(t, err)
	assert.Empty(t, findings)
}

func TestKeywords_WordBoundaries(t *testing.T) {
	k := NewKeywords()
	assert.Zero(t, k.CategoryScore("roadster enthusiasts", types.CategoryInfrastructure))
	assert.Equal(t, 1.0, k.CategoryScore("the Road", types.CategoryInfrastructure))
	assert.Equal(t, 1.5, k.CategoryScore("green space", types.CategoryEnvironmental))
}

func TestSentimentThresholds(t *testing.T) {
	k := NewKeywords()
	assert.Equal(t, types.SentimentPositive, k.Sentiment("The application was approved."))
	assert.Equal(t, types.SentimentNegative, k.Sentiment("The application was refused."))
	assert.Equal(t, types.SentimentNeutral, k.Sentiment("It is good."))
	assert.Equal(t, types.SentimentNeutral, k.Sentiment("approved but refused"))
}

func TestSentences(t *testing.T) {
	got := Sentences("First one. Second one!  Third\nFourth? ")
	assert.Equal(t, []string{"First one.", "Second one!", "Third", "Fourth?"}, got)
	assert.Empty(t, Sentences("   "))
	assert.Equal(t, []string{"v1.2 released"}, Sentences("v1.2 released"))
}

type stubClassifier struct {
	findings []types.Finding
	err      error
	calls    int
}

func (s *stubClassifier) Classify(context.Context, string, types.SourceRef) ([]types.Finding, error) {
	s.calls++
	return s.findings, s.err
}

func TestFallback(t *testing.T) {
	primaryFinding := types.Finding{Category: types.CategoryZoning, Sentiment: types.SentimentNeutral, Text: "p", Source: src}
	secondaryFinding := types.Finding{Category: types.CategoryCommunity, Sentiment: types.SentimentNeutral, Text: "s", Source: src}

	t.Run("primary wins", func(t *testing.T) {
		p := &stubClassifier{findings: []types.Finding{primaryFinding}}
		s := &stubClassifier{findings: []types.Finding{secondaryFinding}}
		got, err := Fallback{Primary: p, Secondary: s}.Classify(context.Background(), "x", src)
		require.NoError(t, err)
		assert.Equal(t, []types.Finding{primaryFinding}, got)
		assert.Zero(t, s.calls)
	})

	t.Run("primary error", func(t *testing.T) {
		p := &stubClassifier{err: errors.New("quota")}
		s := &stubClassifier{findings: []types.Finding{secondaryFinding}}
		got, err := Fallback{Primary: p, Secondary: s}.Classify(context.Background(), "x", src)
		require.NoError(t, err)
		assert.Equal(t, []types.Finding{secondaryFinding}, got)
	})

	t.Run("no primary", func(t *testing.T) {
		s := &stubClassifier{findings: []types.Finding{secondaryFinding}}
		got, err := Fallback{Secondary: s}.Classify(context.Background(), "x", src)
		require.NoError(t, err)
		assert.Len(t, got, 1)
	})
}

func TestTerms(t *testing.T) {
	assert.Equal(t, []string{"flooding", "risk", "main"}, Terms("Flooding risk at 10 Main St, main"))
	assert.Equal(t, []string{"heritage"}, Terms("what is the heritage"))
	assert.Empty(t, Terms("at a St"))
}

func TestMatchesAny(t *testing.T) {
	terms := Terms("flooding at Main St")
	assert.True(t, MatchesAny("Main Road upgrade", terms))
	assert.False(t, MatchesAny("Parking strategy", terms))
	assert.False(t, MatchesAny("anything", nil))
}
