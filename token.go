package lexica

import "maps"

// Metadata carries everything attached to a Token. Position and Index are
// set by the Tokenizer; Extras holds whatever caller-supplied or
// pipeline-supplied keys are in play (e.g. whitelisted metadata destined
// for the inverted index).
type Metadata struct {
	Position [2]int // [start_codepoint, length_in_codepoints]; zero value means "unset"
	Index    int    // running token ordinal assigned by the tokenizer
	Extras   map[string]any
}

// Clone returns an independent Metadata with a shallow copy of Extras.
func (m Metadata) Clone() Metadata {
	return Metadata{
		Position: m.Position,
		Index:    m.Index,
		Extras:   maps.Clone(m.Extras),
	}
}

// TokenUpdater transforms a token's string, optionally reading its
// metadata. It must not retain the metadata map beyond the call.
type TokenUpdater func(s string, m Metadata) string

// Token is a mutable string carrier with an attached metadata bag. It
// exists only during build/search; nothing in this package retains a
// Token once the pipeline or tokenizer is done with it.
type Token struct {
	String   string
	Metadata Metadata
}

// NewToken wraps a string with metadata, defaulting Metadata.Extras to an
// empty map so callers can write into it without a nil check.
func NewToken(s string, m Metadata) *Token {
	if m.Extras == nil {
		m.Extras = map[string]any{}
	}
	return &Token{String: s, Metadata: m}
}

// Update replaces the token's string in place by applying fn to the
// current string and metadata, and returns the receiver.
func (t *Token) Update(fn TokenUpdater) *Token {
	t.String = fn(t.String, t.Metadata)
	return t
}

// Clone returns a new Token carrying a shallow copy of this token's
// metadata. If fn is non-nil, the new token's string is fn applied to
// THIS token's (pre-clone) string and metadata — the source token is
// never mutated by Clone.
func (t *Token) Clone(fn TokenUpdater) *Token {
	newString := t.String
	if fn != nil {
		newString = fn(t.String, t.Metadata)
	}
	return &Token{String: newString, Metadata: t.Metadata.Clone()}
}
