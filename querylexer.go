// ═══════════════════════════════════════════════════════════════════════════════
// QUERY LEXER
// ═══════════════════════════════════════════════════════════════════════════════
// A character-by-character state machine that turns a query string into a
// flat list of typed lexemes, ready for QueryParser to consume. Modeled as
// a chain of lexer-state functions, each returning the next state function
// (or nil at end of input).
// ═══════════════════════════════════════════════════════════════════════════════

package lexica

// LexemeType classifies a Lexeme.
type LexemeType int

const (
	LexemeField LexemeType = iota
	LexemeTerm
	LexemeEditDistance
	LexemeBoost
	LexemePresence
)

// Lexeme is one token produced by the lexer.
type Lexeme struct {
	Type   LexemeType
	String string
	Start  int
	End    int
}

// querySeparator matches the same separator class the index tokenizer
// uses: whitespace, hyphen, non-breaking space.
func querySeparator(r rune) bool {
	return defaultSeparators(r)
}

type lexerState func(*QueryLexer) lexerState

// QueryLexer scans a query string into lexemes.
type QueryLexer struct {
	lexemes []Lexeme

	runes []rune
	pos   int
	start int

	escapePositions []int
}

// NewQueryLexer returns a lexer over s, not yet run.
func NewQueryLexer(s string) *QueryLexer {
	return &QueryLexer{runes: []rune(s)}
}

func (l *QueryLexer) width() int { return l.pos - l.start }

func (l *QueryLexer) next() (rune, bool) {
	if l.pos >= len(l.runes) {
		return 0, false
	}
	r := l.runes[l.pos]
	l.pos++
	return r, true
}

func (l *QueryLexer) backup() { l.pos-- }

func (l *QueryLexer) ignore() {
	if l.start == l.pos {
		l.pos++
	}
	l.start = l.pos
}

func (l *QueryLexer) escapeCharacter() {
	l.escapePositions = append(l.escapePositions, l.pos-1)
	l.pos++
}

func (l *QueryLexer) acceptDigitRun() {
	for {
		r, ok := l.next()
		if !ok {
			return
		}
		if r < '0' || r > '9' {
			l.backup()
			return
		}
	}
}

func (l *QueryLexer) sliceString() string {
	var out []rune
	sliceStart := l.start
	for _, escapePos := range l.escapePositions {
		out = append(out, l.runes[sliceStart:escapePos]...)
		sliceStart = escapePos + 1
	}
	out = append(out, l.runes[sliceStart:l.pos]...)
	l.escapePositions = nil
	return string(out)
}

func (l *QueryLexer) emit(t LexemeType) {
	l.lexemes = append(l.lexemes, Lexeme{
		Type:   t,
		String: l.sliceString(),
		Start:  l.start,
		End:    l.pos,
	})
	l.start = l.pos
}

// Run scans the full input, populating Lexemes.
func (l *QueryLexer) Run() {
	state := lexText
	for state != nil {
		state = state(l)
	}
}

// Lexemes returns the lexemes produced by Run.
func (l *QueryLexer) Lexemes() []Lexeme { return l.lexemes }

func lexField(l *QueryLexer) lexerState {
	l.backup()
	l.emit(LexemeField)
	l.ignore()
	return lexText
}

func lexTerm(l *QueryLexer) lexerState {
	if l.width() > 1 {
		l.backup()
		l.emit(LexemeTerm)
	}
	l.ignore()
	return lexText
}

func lexEditDistance(l *QueryLexer) lexerState {
	l.ignore()
	l.acceptDigitRun()
	l.emit(LexemeEditDistance)
	return lexText
}

func lexBoost(l *QueryLexer) lexerState {
	l.ignore()
	l.acceptDigitRun()
	l.emit(LexemeBoost)
	return lexText
}

func lexEOS(l *QueryLexer) lexerState {
	if l.width() > 0 {
		l.emit(LexemeTerm)
	}
	return nil
}

func lexText(l *QueryLexer) lexerState {
	for {
		r, ok := l.next()
		if !ok {
			return lexEOS
		}

		if r == '\\' {
			l.escapeCharacter()
			continue
		}

		if r == ':' {
			return lexField
		}

		if r == '~' {
			l.backup()
			if l.width() > 0 {
				l.emit(LexemeTerm)
			}
			return lexEditDistance
		}

		if r == '^' {
			l.backup()
			if l.width() > 0 {
				l.emit(LexemeTerm)
			}
			return lexBoost
		}

		// A standalone leading '+' or '-' (width==1, i.e. nothing else
		// accumulated yet in this run) signals presence; otherwise '-' is
		// just a separator.
		if r == '+' && l.width() == 1 {
			l.emit(LexemePresence)
			return lexText
		}
		if r == '-' && l.width() == 1 {
			l.emit(LexemePresence)
			return lexText
		}

		if querySeparator(r) {
			return lexTerm
		}
	}
}
