package lexica

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenizeNilReturnsEmpty(t *testing.T) {
	assert.Empty(t, Tokenize(nil))
}

func TestTokenizeBoolFalse(t *testing.T) {
	toks := Tokenize(false)
	assert.Len(t, toks, 1)
	assert.Equal(t, "false", toks[0].String)
}

func TestTokenizeNumericRendersDecimal(t *testing.T) {
	toks := Tokenize(42)
	assert.Len(t, toks, 1)
	assert.Equal(t, "42", toks[0].String)
}

func TestTokenizeScalarSplitsOnSeparators(t *testing.T) {
	toks := Tokenize("Quick brown-fox")
	var words []string
	for _, tok := range toks {
		words = append(words, tok.String)
	}
	assert.Equal(t, []string{"quick", "brown", "fox"}, words)
}

func TestTokenizeReconstructsSeparatorCollapsedForm(t *testing.T) {
	toks := Tokenize("Quick  brown-fox")
	var words []string
	for _, tok := range toks {
		words = append(words, tok.String)
	}
	assert.Equal(t, "quick brown fox", strings.Join(words, " "))
}

func TestTokenizeListPreservesLength(t *testing.T) {
	in := []string{"Quick", "Brown Fox", "lazy-dog"}
	toks := Tokenize(in)
	assert.Len(t, toks, len(in))
	assert.Equal(t, "brown fox", toks[1].String)
}

func TestTokenizeMetadataOverlayCallerWins(t *testing.T) {
	toks := Tokenize("fox", WithMetadata(map[string]any{"index": "custom"}))
	assert.Equal(t, "custom", toks[0].Metadata.Extras["index"])
}

func TestTokenizeCustomSeparator(t *testing.T) {
	toks := Tokenize("a,b,c", WithSeparator(func(r rune) bool { return r == ',' }))
	assert.Len(t, toks, 3)
}

func TestTokenizePositionIsCodepointOffsetASCII(t *testing.T) {
	toks := Tokenize("quick brown")
	assert.Equal(t, [2]int{0, 5}, toks[0].Metadata.Position)
	assert.Equal(t, [2]int{6, 5}, toks[1].Metadata.Position)
	assert.Equal(t, 0, toks[0].Metadata.Index)
	assert.Equal(t, 1, toks[1].Metadata.Index)
}

func TestTokenizePositionIsCodepointOffsetMultibyte(t *testing.T) {
	// "café" is 4 codepoints but 5 bytes (é encodes as 2 UTF-8 bytes), so a
	// byte-offset Position would put "bar" at offset 6 instead of 5.
	toks := Tokenize("café bar")
	assert.Equal(t, "café", toks[0].String)
	assert.Equal(t, [2]int{0, 4}, toks[0].Metadata.Position)
	assert.Equal(t, "bar", toks[1].String)
	assert.Equal(t, [2]int{5, 3}, toks[1].Metadata.Position)
}
