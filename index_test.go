package lexica

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFieldRefStringAndParseRoundTrip(t *testing.T) {
	ref := FieldRef{DocRef: "doc-42", FieldName: "title"}
	parsed, err := ParseFieldRef(ref.String())
	assert.NoError(t, err)
	assert.Equal(t, ref, parsed)
}

func TestParseFieldRefSplitsOnFirstSlashOnly(t *testing.T) {
	parsed, err := ParseFieldRef("title/a/b")
	assert.NoError(t, err)
	assert.Equal(t, "title", parsed.FieldName)
	assert.Equal(t, "a/b", parsed.DocRef)
}

func TestParseFieldRefMalformedErrors(t *testing.T) {
	_, err := ParseFieldRef("no-slash-here")
	assert.Error(t, err)
}

func TestNewPostingInitializesEveryField(t *testing.T) {
	p := newPosting(7, []string{"title", "body"})
	assert.Equal(t, 7, p.TermOrdinal)
	assert.Contains(t, p.Fields, "title")
	assert.Contains(t, p.Fields, "body")
	assert.Empty(t, p.Fields["title"])
}

func TestPostingDocumentsWithTermCountsAcrossFields(t *testing.T) {
	p := newPosting(0, []string{"title", "body"})
	p.Fields["title"]["a"] = map[string][]any{}
	p.Fields["title"]["b"] = map[string][]any{}
	p.Fields["body"]["a"] = map[string][]any{}
	assert.Equal(t, 3, p.documentsWithTerm())
}

func TestIndexFieldsPreserveInsertionOrder(t *testing.T) {
	idx, err := Build("id", []FieldSpec{{Name: "body"}, {Name: "title"}}, []Document{
		{"id": "a", "title": "fox", "body": "quick fox"},
	})
	assert.NoError(t, err)
	assert.Equal(t, []string{"body", "title"}, idx.fields)
}

func TestBuildRejectsFieldNameWithSlash(t *testing.T) {
	_, err := Build("id", []FieldSpec{{Name: "bad/name"}}, nil)
	assert.Error(t, err)
}

func TestTermVocabularyMatchesInvertedIndexKeys(t *testing.T) {
	idx, err := Build("id", []FieldSpec{{Name: "body"}}, []Document{
		{"id": "a", "body": "quick brown fox"},
		{"id": "b", "body": "lazy dog"},
	})
	assert.NoError(t, err)

	for term := range idx.invertedIndex {
		got := idx.tokenSet.Intersect(FromString(term)).ToList()
		assert.Equal(t, []string{term}, got, "every indexed term must be accepted by the index's token set")
	}
}
