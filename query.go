// ═══════════════════════════════════════════════════════════════════════════════
// QUERY / CLAUSE
// ═══════════════════════════════════════════════════════════════════════════════
// Query is the programmatic representation of a search: an ordered list of
// Clauses, each naming a term plus the fields, boost, wildcard, fuzzy, and
// presence options to match it with.
// ═══════════════════════════════════════════════════════════════════════════════

package lexica

// Presence controls how a clause's match affects a document's inclusion
// in results.
type Presence int

const (
	// Optional clauses contribute to score but do not gate inclusion.
	Optional Presence = iota
	// Required clauses: a document must match somewhere in the clause's
	// fields or it is excluded.
	Required
	// Prohibited clauses: matching documents are excluded outright.
	Prohibited
)

// WildcardFlag selects automatic wildcard insertion at clause construction
// time; the two bits can be OR'd together.
type WildcardFlag int

const (
	WildcardNone     WildcardFlag = 0
	WildcardLeading  WildcardFlag = 1
	WildcardTrailing WildcardFlag = 2
)

const wildcardChar = "*"

// Clause is one atom of a Query.
type Clause struct {
	Term         string
	Fields       []string
	EditDistance int
	UsePipeline  bool
	Boost        float64
	Wildcard     WildcardFlag
	Presence     Presence
}

// newClauseDefaults returns a Clause with spec.md §4.6's defaults:
// fields = all (filled in by Query.Clause), boost = 1, use_pipeline =
// true, wildcard = NONE, presence = OPTIONAL.
func newClauseDefaults() Clause {
	return Clause{UsePipeline: true, Boost: 1, Wildcard: WildcardNone, Presence: Optional}
}

// Query holds the clauses to run against an Index, plus the set of fields
// valid for this query (used to validate FIELD lexemes during parsing and
// as the default field set for clauses that don't name one).
type Query struct {
	Clauses   []*Clause
	AllFields []string
}

// NewQuery returns an empty Query scoped to allFields.
func NewQuery(allFields []string) *Query {
	return &Query{AllFields: append([]string(nil), allFields...)}
}

// Clause appends clause to the query, filling in defaults (fields default
// to AllFields, a zero Boost becomes 1) and applying the wildcard mask by
// prepending/appending '*' to the term when requested and not already
// present. Other fields are kept as given: a zero UsePipeline stays false
// (Term starts each clause from UsePipeline true).
func (q *Query) Clause(clause Clause) *Query {
	if len(clause.Fields) == 0 {
		clause.Fields = append([]string(nil), q.AllFields...)
	}
	if clause.Boost == 0 {
		clause.Boost = 1
	}
	if clause.Wildcard&WildcardLeading != 0 && !hasPrefixStr(clause.Term, wildcardChar) {
		clause.Term = wildcardChar + clause.Term
	}
	if clause.Wildcard&WildcardTrailing != 0 && !hasSuffixStr(clause.Term, wildcardChar) {
		clause.Term = clause.Term + wildcardChar
	}
	c := clause
	q.Clauses = append(q.Clauses, &c)
	return q
}

func hasPrefixStr(s, prefix string) bool {
	return len(s) >= len(prefix) && s[:len(prefix)] == prefix
}

func hasSuffixStr(s, suffix string) bool {
	return len(s) >= len(suffix) && s[len(s)-len(suffix):] == suffix
}

// TermOption mutates a default Clause before it is applied via Term.
type TermOption func(*Clause)

// WithFields restricts a clause to the given fields.
func WithFields(fields ...string) TermOption { return func(c *Clause) { c.Fields = fields } }

// WithBoost sets a clause's boost.
func WithBoost(boost float64) TermOption { return func(c *Clause) { c.Boost = boost } }

// WithEditDistance sets a clause's fuzzy edit distance.
func WithEditDistance(n int) TermOption { return func(c *Clause) { c.EditDistance = n } }

// WithWildcard sets a clause's wildcard flag.
func WithWildcard(w WildcardFlag) TermOption { return func(c *Clause) { c.Wildcard = w } }

// WithPresence sets a clause's presence.
func WithPresence(p Presence) TermOption { return func(c *Clause) { c.Presence = p } }

// WithUsePipeline toggles whether the clause's term runs through the
// search pipeline before token-set expansion.
func WithUsePipeline(use bool) TermOption { return func(c *Clause) { c.UsePipeline = use } }

// Term adds one clause per term, applying opts to each.
func (q *Query) Term(terms []string, opts ...TermOption) *Query {
	for _, term := range terms {
		clause := newClauseDefaults()
		clause.Term = term
		for _, opt := range opts {
			opt(&clause)
		}
		q.Clause(clause)
	}
	return q
}

// IsNegated reports whether every clause in the query is PROHIBITED —
// such queries require special handling since there is no positive
// clause to drive candidate selection.
func (q *Query) IsNegated() bool {
	if len(q.Clauses) == 0 {
		return false
	}
	for _, c := range q.Clauses {
		if c.Presence != Prohibited {
			return false
		}
	}
	return true
}
