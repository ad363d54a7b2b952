// ═══════════════════════════════════════════════════════════════════════════════
// TOKENIZER
// ═══════════════════════════════════════════════════════════════════════════════
// Splits a raw input value into a sequence of Tokens, attaching position and
// ordinal metadata to each so downstream pipeline functions and the inverted
// index can recover where a term came from.
//
// On a scalar value: coerce to a lowercased string, then scan characters,
// emitting one Token per maximal run between separator characters. On a
// sequence value: one lowercased Token per element, with no character
// scanning (each element is already a unit).
// ═══════════════════════════════════════════════════════════════════════════════

package lexica

import (
	"fmt"
	"strconv"
	"strings"
)

// defaultSeparators matches whitespace, hyphen, and non-breaking space, the
// default separator class for scalar tokenization.
func defaultSeparators(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '\f', '\v', '-', ' ':
		return true
	}
	return false
}

// SeparatorFunc decides whether a rune separates tokens during scalar
// tokenization.
type SeparatorFunc func(rune) bool

// TokenizeOption configures a single Tokenize call.
type TokenizeOption func(*tokenizeConfig)

type tokenizeConfig struct {
	separator SeparatorFunc
	metadata  map[string]any
}

// WithSeparator overrides the default separator predicate.
func WithSeparator(fn SeparatorFunc) TokenizeOption {
	return func(c *tokenizeConfig) { c.separator = fn }
}

// WithMetadata overlays the given metadata onto every emitted token. Caller
// metadata wins over tokenizer-assigned keys on collision, except that
// Position/Index are tokenizer-owned fields on Metadata and are not
// overridable through this map (callers that need to override them should
// build Tokens by hand).
func WithMetadata(m map[string]any) TokenizeOption {
	return func(c *tokenizeConfig) { c.metadata = m }
}

// Tokenize renders v into a sequence of Tokens.
//
// v may be nil (yields no tokens), a []any / []string (one lowercased Token
// per element, each with its own fresh Extras map holding the caller's
// metadata keys; the values themselves are not copied), or any other value
// (coerced via fmt.Sprint, then scanned for maximal runs between separator
// characters).
func Tokenize(v any, opts ...TokenizeOption) []*Token {
	cfg := tokenizeConfig{separator: defaultSeparators}
	for _, opt := range opts {
		opt(&cfg)
	}

	if v == nil {
		return nil
	}

	switch seq := v.(type) {
	case []string:
		out := make([]*Token, 0, len(seq))
		for _, s := range seq {
			out = append(out, tokenFromSequenceElement(strings.ToLower(s), cfg))
		}
		return out
	case []any:
		out := make([]*Token, 0, len(seq))
		for _, el := range seq {
			out = append(out, tokenFromSequenceElement(strings.ToLower(coerceToString(el)), cfg))
		}
		return out
	}

	return tokenizeScalar(coerceToString(v), cfg)
}

func tokenFromSequenceElement(s string, cfg tokenizeConfig) *Token {
	md := Metadata{Extras: map[string]any{}}
	overlayMetadata(&md, cfg.metadata)
	return NewToken(s, md)
}

func tokenizeScalar(s string, cfg tokenizeConfig) []*Token {
	s = strings.ToLower(s)
	var tokens []*Token

	// Position is recorded in codepoints (runes), not bytes, so it lines up
	// 1:1 with the source string regardless of encoding width. byteStart
	// tracks where to slice s; cpStart/cpIdx track the codepoint offsets
	// that go into Metadata.Position.
	byteStart := -1
	cpStart := 0
	index := 0

	flush := func(byteEnd, cpEnd int) {
		if byteStart < 0 {
			return
		}
		text := s[byteStart:byteEnd]
		md := Metadata{
			Position: [2]int{cpStart, cpEnd - cpStart},
			Index:    index,
			Extras:   map[string]any{},
		}
		overlayMetadata(&md, cfg.metadata)
		tokens = append(tokens, NewToken(text, md))
		index++
		byteStart = -1
	}

	byteIdx := 0
	cpIdx := 0
	for _, r := range s {
		if cfg.separator(r) {
			flush(byteIdx, cpIdx)
		} else if byteStart < 0 {
			byteStart = byteIdx
			cpStart = cpIdx
		}
		byteIdx += utf8Len(r)
		cpIdx++
	}
	flush(byteIdx, cpIdx)

	return tokens
}

// overlayMetadata copies caller-supplied keys into md.Extras, overwriting
// anything already there (caller wins on collision).
func overlayMetadata(md *Metadata, caller map[string]any) {
	if len(caller) == 0 {
		return
	}
	if md.Extras == nil {
		md.Extras = map[string]any{}
	}
	for k, v := range caller {
		md.Extras[k] = v
	}
}

// coerceToString renders a scalar value as text: booleans and numbers get
// their natural textual form, everything else goes through fmt.Sprint.
func coerceToString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

func utf8Len(r rune) int {
	switch {
	case r < 0x80:
		return 1
	case r < 0x800:
		return 2
	case r < 0x10000:
		return 3
	default:
		return 4
	}
}
