// ═══════════════════════════════════════════════════════════════════════════════
// QUERY PARSER
// ═══════════════════════════════════════════════════════════════════════════════
// Consumes the lexeme stream QueryLexer produces, building up a Query one
// Clause at a time. Modeled as a chain of parser-state functions rather
// than a recursive-descent grammar, since the lexeme stream's shape
// (which modifiers can follow a TERM) is inherently a small state machine.
// ═══════════════════════════════════════════════════════════════════════════════

package lexica

import (
	"strconv"
	"strings"
)

// QueryParser builds a Query from a query string.
type QueryParser struct {
	lexemes       []Lexeme
	lexemeIdx     int
	query         *Query
	currentClause Clause
}

// NewQueryParser returns a parser that will fill query on Parse.
func NewQueryParser(query *Query) *QueryParser {
	return &QueryParser{query: query, currentClause: newClauseDefaults()}
}

type parserState func(*QueryParser) (parserState, error)

// Parse lexes s and parses it into p.query, returning a ParseError on any
// syntax problem.
func (p *QueryParser) Parse(s string) (*Query, error) {
	lexer := NewQueryLexer(s)
	lexer.Run()
	p.lexemes = lexer.Lexemes()

	state := parseClause
	var err error
	for state != nil {
		state, err = state(p)
		if err != nil {
			return nil, err
		}
	}
	return p.query, nil
}

func (p *QueryParser) peek() (Lexeme, bool) {
	if p.lexemeIdx >= len(p.lexemes) {
		return Lexeme{}, false
	}
	return p.lexemes[p.lexemeIdx], true
}

func (p *QueryParser) consume() (Lexeme, bool) {
	lexeme, ok := p.peek()
	p.lexemeIdx++
	return lexeme, ok
}

func (p *QueryParser) nextClause() {
	p.query.Clause(p.currentClause)
	p.currentClause = newClauseDefaults()
}

func parseClause(p *QueryParser) (parserState, error) {
	lexeme, ok := p.peek()
	if !ok {
		return nil, nil
	}
	switch lexeme.Type {
	case LexemeField:
		return parseField, nil
	case LexemeTerm:
		return parseTerm, nil
	case LexemePresence:
		return parsePresence, nil
	default:
		return nil, newParseError(ErrMalformedQuery, lexeme.Start, "expected a field or a term")
	}
}

func parseField(p *QueryParser) (parserState, error) {
	lexeme, _ := p.consume()

	found := false
	for _, f := range p.query.AllFields {
		if f == lexeme.String {
			found = true
			break
		}
	}
	if !found {
		return nil, newParseError(ErrUnknownQueryField, lexeme.Start, lexeme.String)
	}
	p.currentClause.Fields = []string{lexeme.String}

	next, ok := p.peek()
	if !ok {
		return nil, newParseError(ErrMissingTerm, lexeme.End, "")
	}
	if next.Type != LexemeTerm {
		return nil, newParseError(ErrMissingTerm, next.Start, "")
	}
	return parseTerm, nil
}

func parseTerm(p *QueryParser) (parserState, error) {
	lexeme, _ := p.consume()
	p.currentClause.Term = strings.ToLower(lexeme.String)
	if containsRune(lexeme.String, '*') {
		p.currentClause.UsePipeline = false
	}
	return peekNextLexeme(p)
}

func parsePresence(p *QueryParser) (parserState, error) {
	lexeme, ok := p.consume()
	if !ok {
		return nil, nil
	}

	switch lexeme.String {
	case "-":
		p.currentClause.Presence = Prohibited
	case "+":
		p.currentClause.Presence = Required
	default:
		return nil, newParseError(ErrMalformedQuery, lexeme.Start, "expected '+' or '-'")
	}

	next, ok := p.peek()
	if !ok {
		return nil, newParseError(ErrMissingTerm, lexeme.End, "expected a field or a term")
	}
	switch next.Type {
	case LexemeField:
		return parseField, nil
	case LexemeTerm:
		return parseTerm, nil
	default:
		return nil, newParseError(ErrMissingTerm, next.Start, "expected a field or a term")
	}
}

func parseEditDistance(p *QueryParser) (parserState, error) {
	lexeme, _ := p.consume()
	n, err := strconv.Atoi(lexeme.String)
	if err != nil {
		return nil, newParseError(ErrNonNumericModifier, lexeme.Start, "edit distance must be numeric")
	}
	p.currentClause.EditDistance = n
	return peekNextLexeme(p)
}

func parseBoost(p *QueryParser) (parserState, error) {
	lexeme, _ := p.consume()
	n, err := strconv.Atoi(lexeme.String)
	if err != nil {
		return nil, newParseError(ErrNonNumericModifier, lexeme.Start, "boost must be numeric")
	}
	p.currentClause.Boost = float64(n)
	return peekNextLexeme(p)
}

func peekNextLexeme(p *QueryParser) (parserState, error) {
	next, ok := p.peek()
	if !ok {
		p.nextClause()
		return nil, nil
	}
	switch next.Type {
	case LexemeTerm:
		p.nextClause()
		return parseTerm, nil
	case LexemeField:
		p.nextClause()
		return parseField, nil
	case LexemeEditDistance:
		return parseEditDistance, nil
	case LexemeBoost:
		return parseBoost, nil
	case LexemePresence:
		p.nextClause()
		return parsePresence, nil
	default:
		return nil, newParseError(ErrMalformedQuery, next.Start, "unexpected lexeme")
	}
}

func containsRune(s string, r rune) bool {
	for _, c := range s {
		if c == r {
			return true
		}
	}
	return false
}
