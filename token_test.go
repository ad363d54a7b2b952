package lexica

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewTokenDefaultsExtras(t *testing.T) {
	tok := NewToken("fox", Metadata{})
	assert.NotNil(t, tok.Metadata.Extras)
	assert.Equal(t, "fox", tok.String)
}

func TestTokenUpdate(t *testing.T) {
	tok := NewToken("Fox", Metadata{})
	tok.Update(func(s string, m Metadata) string { return s + "!" })
	assert.Equal(t, "Fox!", tok.String)
}

func TestTokenCloneDoesNotMutateSource(t *testing.T) {
	src := NewToken("fox", Metadata{Index: 3, Extras: map[string]any{"position": 1}})
	clone := src.Clone(func(s string, m Metadata) string { return s + "es" })

	assert.Equal(t, "foxes", clone.String)
	assert.Equal(t, "fox", src.String, "Clone must not mutate the receiver")

	clone.Metadata.Extras["position"] = 99
	assert.Equal(t, 1, src.Metadata.Extras["position"], "Clone's Extras must be independent of the source's")
}

func TestTokenCloneNilFnCopiesString(t *testing.T) {
	src := NewToken("fox", Metadata{})
	clone := src.Clone(nil)
	assert.Equal(t, src.String, clone.String)
}

func TestMetadataCloneIndependentExtras(t *testing.T) {
	m := Metadata{Extras: map[string]any{"k": 1}}
	c := m.Clone()
	c.Extras["k"] = 2
	assert.Equal(t, 1, m.Extras["k"])
}
