package lexica

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mrGreenCorpus is the concrete end-to-end scenario corpus: a three-room
// mystery blurb covering stemming, wildcards, fuzzy matching, and presence
// operators across two fields.
func mrGreenCorpus() []Document {
	return []Document{
		{
			"id":    "a",
			"title": "Mr. Green kills Colonel Mustard",
			"body":  "Mr. Green killed Colonel Mustard in the study with the candlestick. Mr. Green is not a very nice fellow.",
		},
		{
			"id":    "b",
			"title": "Plumb waters plant",
			"body":  "Professor Plumb has a green plant in his study",
		},
		{
			"id":    "c",
			"title": "Scarlett helps Professor",
			"body":  "Miss Scarlett watered Professor Plumbs green plant while he was away from his office last week.",
		},
	}
}

func buildMrGreenIndex(t *testing.T) *Index {
	t.Helper()
	idx, err := Build("id", []FieldSpec{{Name: "title"}, {Name: "body"}}, mrGreenCorpus())
	require.NoError(t, err)
	return idx
}

func resultRefs(results []Result) []string {
	refs := make([]string, len(results))
	for i, r := range results {
		refs[i] = r.Ref
	}
	return refs
}

func TestSearchScarlettExactMatch(t *testing.T) {
	idx := buildMrGreenIndex(t)
	results, err := idx.Search("scarlett")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "c", results[0].Ref)
	_, hasTerm := results[0].MatchData.Metadata["scarlett"]
	assert.True(t, hasTerm)
}

func TestSearchPlantOrdersByScore(t *testing.T) {
	idx := buildMrGreenIndex(t)
	results, err := idx.Search("plant")
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, []string{"b", "c"}, resultRefs(results))
}

func TestSearchStudyStemmedWithPipeline(t *testing.T) {
	idx := buildMrGreenIndex(t)
	results, err := idx.Search("study")
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, []string{"b", "a"}, resultRefs(results))
}

func TestQueryStudyPipelineOffFindsNothing(t *testing.T) {
	idx := buildMrGreenIndex(t)
	q := idx.CreateQuery()
	q.Term([]string{"study"}, WithUsePipeline(false))
	results, err := idx.Query(q)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearchFellowCandlestickMatchesBothTermsInBody(t *testing.T) {
	idx := buildMrGreenIndex(t)
	results, err := idx.Search("fellow candlestick")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "a", results[0].Ref)

	for _, term := range []string{"fellow", "candlestick"} {
		fields, ok := results[0].MatchData.Metadata[term]
		require.True(t, ok, "expected a match for %q", term)
		_, inBody := fields["body"]
		assert.True(t, inBody)
	}
}

func TestSearchWildcardPrefix(t *testing.T) {
	idx := buildMrGreenIndex(t)
	results, err := idx.Search("pl*")
	require.NoError(t, err)

	refs := map[string]bool{}
	for _, r := range results {
		refs[r.Ref] = true
	}
	assert.Equal(t, map[string]bool{"b": true, "c": true}, refs)
}

func TestSearchFuzzyTerm(t *testing.T) {
	idx := buildMrGreenIndex(t)
	results, err := idx.Search("plont~1")
	require.NoError(t, err)

	refs := map[string]bool{}
	for _, r := range results {
		refs[r.Ref] = true
	}
	assert.Equal(t, map[string]bool{"b": true, "c": true}, refs)
}

func TestSearchProhibitedExcludesMatchingDoc(t *testing.T) {
	idx := buildMrGreenIndex(t)
	results, err := idx.Search("-candlestick green")
	require.NoError(t, err)

	refs := map[string]bool{}
	for _, r := range results {
		refs[r.Ref] = true
	}
	assert.Equal(t, map[string]bool{"b": true, "c": true}, refs)
}

func TestSearchRequiredFieldScopedTerm(t *testing.T) {
	idx := buildMrGreenIndex(t)
	results, err := idx.Search("+title:plant +green")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "b", results[0].Ref)
}

func TestSearchProhibitedFieldScopedTermOnlyPositiveContributesMatchData(t *testing.T) {
	idx := buildMrGreenIndex(t)
	results, err := idx.Search("-title:plant plumb")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "c", results[0].Ref)

	_, hasPlumb := results[0].MatchData.Metadata["plumb"]
	assert.True(t, hasPlumb)
	for term := range results[0].MatchData.Metadata {
		assert.NotContains(t, term, "plant")
	}
}

func TestSearchSerializeLoadRoundTrip(t *testing.T) {
	idx := buildMrGreenIndex(t)
	before, err := idx.Search("scarlett")
	require.NoError(t, err)

	blob, err := idx.Serialize()
	require.NoError(t, err)

	loaded, err := Load(blob)
	require.NoError(t, err)

	after, err := loaded.Search("scarlett")
	require.NoError(t, err)

	require.Len(t, after, len(before))
	for i := range before {
		assert.Equal(t, before[i].Ref, after[i].Ref)
		assert.InDelta(t, before[i].Score, after[i].Score, 1e-2)
	}
}

func TestEmptyQueryReturnsEmptyResultList(t *testing.T) {
	idx := buildMrGreenIndex(t)
	q := idx.CreateQuery()
	results, err := idx.Query(q)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestNegatedQueryScoresZeroAndExcludesAllMatchingProhibited(t *testing.T) {
	idx := buildMrGreenIndex(t)
	results, err := idx.Search("-scarlett")
	require.NoError(t, err)

	refs := map[string]float64{}
	for _, r := range results {
		refs[r.Ref] = r.Score
	}
	assert.Contains(t, refs, "a")
	assert.Contains(t, refs, "b")
	assert.NotContains(t, refs, "c")
	for _, score := range refs {
		assert.Equal(t, float64(0), score)
	}
}
