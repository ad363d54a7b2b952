package lexica

import snowballeng "github.com/kljensen/snowball/english"

// StemmerEnglish is a pipeline function that reduces a token to its
// Snowball (Porter2) stem, registered under label "stemmer-en". It is the
// default stemmer DefaultBuilder wires into both the build-side and
// search-side pipelines.
var StemmerEnglish = RegisterFunction("stemmer-en", func(token *Token, _ int, _ []*Token) []*Token {
	return []*Token{token.Clone(func(s string, _ Metadata) string {
		return snowballeng.Stem(s, false)
	})}
})
