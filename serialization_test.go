package lexica

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerializeInvertedIndexSortedAscendingByTerm(t *testing.T) {
	idx, err := Build("id", []FieldSpec{{Name: "body"}}, []Document{
		{"id": "a", "body": "zebra apple mango"},
	})
	require.NoError(t, err)

	blob, err := idx.Serialize()
	require.NoError(t, err)

	var raw struct {
		InvertedIndex []json.RawMessage `json:"invertedIndex"`
	}
	require.NoError(t, json.Unmarshal(blob, &raw))

	var terms []string
	for _, entry := range raw.InvertedIndex {
		var pair [2]json.RawMessage
		require.NoError(t, json.Unmarshal(entry, &pair))
		var term string
		require.NoError(t, json.Unmarshal(pair[0], &term))
		terms = append(terms, term)
	}

	sorted := append([]string(nil), terms...)
	assert.IsIncreasing(t, sorted)
}

func TestPostingJSONRoundTripsIndexKey(t *testing.T) {
	p := newPosting(3, []string{"title"})
	p.Fields["title"]["a"] = map[string][]any{"position": {float64(0)}}

	data, err := json.Marshal(p)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"_index":3`)

	var decoded Posting
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, 3, decoded.TermOrdinal)
	assert.Equal(t, []any{float64(0)}, decoded.Fields["title"]["a"]["position"])
}

func TestLoadRejectsMalformedJSON(t *testing.T) {
	_, err := Load([]byte("not json"))
	assert.Error(t, err)
}

func TestLoadWarnsOnVersionMismatchButSucceeds(t *testing.T) {
	idx, err := Build("id", []FieldSpec{{Name: "body"}}, []Document{
		{"id": "a", "body": "fox"},
	})
	require.NoError(t, err)

	blob, err := idx.Serialize()
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(blob, &raw))
	raw["version"] = "0.0.1-old"
	tampered, err := json.Marshal(raw)
	require.NoError(t, err)

	loaded, err := Load(tampered)
	require.NoError(t, err)
	assert.Equal(t, "0.0.1-old", loaded.version)

	results, err := loaded.Search("fox")
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestLoadUnregisteredPipelineLabelErrors(t *testing.T) {
	idx, err := Build("id", []FieldSpec{{Name: "body"}}, []Document{
		{"id": "a", "body": "fox"},
	})
	require.NoError(t, err)

	blob, err := idx.Serialize()
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(blob, &raw))
	raw["pipeline"] = []string{"nonexistent-pipeline-label"}
	tampered, err := json.Marshal(raw)
	require.NoError(t, err)

	_, err = Load(tampered)
	assert.Error(t, err)
}
