package lexica

import "unicode"

// isWordRune is the character class trimmer keeps: letters, digits, and
// underscore, matching Unicode \w. Apostrophe is NOT a word rune, so a
// leading/trailing apostrophe ("'tis") trims same as any other boundary
// punctuation; only an apostrophe strictly between two word runes survives
// because the trim only ever eats from the outside in.
func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

// TrimmerEnglish strips leading and trailing non-word characters from a
// token while leaving any inner punctuation run alone, registered under
// label "trimmer-en".
var TrimmerEnglish = RegisterFunction("trimmer-en", func(token *Token, _ int, _ []*Token) []*Token {
	runes := []rune(token.String)
	start := 0
	for start < len(runes) && !isWordRune(runes[start]) {
		start++
	}
	end := len(runes)
	for end > start && !isWordRune(runes[end-1]) {
		end--
	}
	trimmed := string(runes[start:end])
	if trimmed == "" {
		return nil
	}
	return []*Token{token.Clone(func(string, Metadata) string { return trimmed })}
})
