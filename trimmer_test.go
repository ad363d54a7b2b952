package lexica

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrimmerStripsLeadingAndTrailingPunctuation(t *testing.T) {
	tok := NewToken("(fox!)", Metadata{})
	out := TrimmerEnglish.Fn(tok, 0, nil)
	assert.Len(t, out, 1)
	assert.Equal(t, "fox", out[0].String)
}

func TestTrimmerKeepsInnerPunctuation(t *testing.T) {
	tok := NewToken("don't", Metadata{})
	out := TrimmerEnglish.Fn(tok, 0, nil)
	assert.Equal(t, "don't", out[0].String)
}

func TestTrimmerHandlesMultibyteRunes(t *testing.T) {
	tok := NewToken("«café»", Metadata{})
	out := TrimmerEnglish.Fn(tok, 0, nil)
	assert.Equal(t, "café", out[0].String)
}

func TestTrimmerStripsBoundaryApostrophe(t *testing.T) {
	tok := NewToken("'tis", Metadata{})
	out := TrimmerEnglish.Fn(tok, 0, nil)
	assert.Equal(t, "tis", out[0].String)
}

func TestTrimmerKeepsBoundaryUnderscore(t *testing.T) {
	tok := NewToken("_foo_", Metadata{})
	out := TrimmerEnglish.Fn(tok, 0, nil)
	assert.Equal(t, "_foo_", out[0].String)
}
