// ═══════════════════════════════════════════════════════════════════════════════
// TOKEN SET
// ═══════════════════════════════════════════════════════════════════════════════
// TokenSet is a minimal deterministic finite-state automaton over the
// alphabet of input characters plus the wildcard '*'. It represents both
// the full vocabulary of an index (built once, via FromList) and ad-hoc
// query patterns (wildcards via FromString, fuzzy matches via
// FromFuzzyString). Intersecting a query TokenSet against the index's
// vocabulary TokenSet is how wildcard and fuzzy terms are expanded into
// concrete vocabulary terms.
//
// Construction and intersection both use explicit work-list stacks instead
// of recursion, so arbitrarily large automata never blow the call stack.
// ═══════════════════════════════════════════════════════════════════════════════

package lexica

import (
	"sort"
	"strconv"
	"strings"
	"sync/atomic"
)

var tokenSetNextID uint64

// tokenSetNode is one DFA state: a final flag and a map of outgoing edges
// keyed by single-character labels (or "*" for the wildcard edge).
type tokenSetNode struct {
	id    uint64
	final bool
	edges map[string]*tokenSetNode

	signature    string // memoized minimization-equivalence signature
	hasSignature bool
}

func newTokenSetNode() *tokenSetNode {
	return &tokenSetNode{
		id:    atomic.AddUint64(&tokenSetNextID, 1),
		edges: map[string]*tokenSetNode{},
	}
}

// signatureString returns this node's equivalence signature: "1" or "0"
// depending on final, followed by each outgoing edge label concatenated
// with its target node's id, in sorted label order. Memoized once
// computed, since it is only ever read after a node's outgoing edges have
// stopped changing (the builder calls this exactly when popping
// unchecked nodes from the tail).
func (n *tokenSetNode) signatureString() string {
	if n.hasSignature {
		return n.signature
	}
	var b strings.Builder
	if n.final {
		b.WriteByte('1')
	} else {
		b.WriteByte('0')
	}
	labels := make([]string, 0, len(n.edges))
	for label := range n.edges {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	for _, label := range labels {
		b.WriteString(label)
		b.WriteString(strconv.FormatUint(n.edges[label].id, 10))
	}
	n.signature = b.String()
	n.hasSignature = true
	return n.signature
}

// TokenSet wraps a root node of the automaton.
type TokenSet struct {
	root *tokenSetNode
}

// FromString builds a linear-chain TokenSet accepting exactly s, except
// that any '*' in s introduces a self-loop accepting zero or more of any
// character at that position.
func FromString(s string) *TokenSet {
	root := newTokenSetNode()
	node := root
	runes := []rune(s)
	for i, r := range runes {
		final := i == len(runes)-1
		label := string(r)
		if label == "*" {
			node.edges[label] = node
			node.final = final
			continue
		}
		next := newTokenSetNode()
		next.final = final
		node.edges[label] = next
		node = next
	}
	return &TokenSet{root: root}
}

// FromClause builds the TokenSet a query clause expands through: a fuzzy
// automaton if clause.EditDistance > 0, else a plain (possibly wildcarded)
// linear chain.
func FromClause(term string, editDistance int) *TokenSet {
	if editDistance > 0 {
		return FromFuzzyString(term, editDistance)
	}
	return FromString(term)
}

type fuzzyFrame struct {
	node          *tokenSetNode
	editsRemaining int
	remaining     []rune
}

// FromFuzzyString builds an automaton accepting every string within
// Damerau-Levenshtein distance editDistance of s. Uses an explicit
// work-list of frames rather than recursion. editDistance values of 3 or
// more are accepted but discouraged — the automaton size grows quickly.
func FromFuzzyString(s string, editDistance int) *TokenSet {
	root := newTokenSetNode()
	stack := []fuzzyFrame{{node: root, editsRemaining: editDistance, remaining: []rune(s)}}

	for len(stack) > 0 {
		frame := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if len(frame.remaining) > 0 {
			char := string(frame.remaining[0])
			noEditNode, ok := frame.node.edges[char]
			if !ok {
				noEditNode = newTokenSetNode()
				frame.node.edges[char] = noEditNode
			}
			if len(frame.remaining) == 1 {
				noEditNode.final = true
			}
			stack = append(stack, fuzzyFrame{
				node:          noEditNode,
				editsRemaining: frame.editsRemaining,
				remaining:     frame.remaining[1:],
			})
		}

		if frame.editsRemaining == 0 {
			continue
		}

		// insertion
		insertionNode, ok := frame.node.edges["*"]
		if !ok {
			insertionNode = newTokenSetNode()
			frame.node.edges["*"] = insertionNode
		}
		if len(frame.remaining) == 0 {
			insertionNode.final = true
		}
		stack = append(stack, fuzzyFrame{
			node:          insertionNode,
			editsRemaining: frame.editsRemaining - 1,
			remaining:     frame.remaining,
		})

		// deletion (drop the first character, more than one left)
		if len(frame.remaining) > 1 {
			stack = append(stack, fuzzyFrame{
				node:          frame.node,
				editsRemaining: frame.editsRemaining - 1,
				remaining:     frame.remaining[1:],
			})
		}
		// deletion of the final remaining character
		if len(frame.remaining) == 1 {
			frame.node.final = true
		}

		// substitution
		if len(frame.remaining) >= 1 {
			substitutionNode, ok := frame.node.edges["*"]
			if !ok {
				substitutionNode = newTokenSetNode()
				frame.node.edges["*"] = substitutionNode
			}
			if len(frame.remaining) == 1 {
				substitutionNode.final = true
			}
			stack = append(stack, fuzzyFrame{
				node:          substitutionNode,
				editsRemaining: frame.editsRemaining - 1,
				remaining:     frame.remaining[1:],
			})
		}

		// transposition
		if frame.editsRemaining > 0 && len(frame.remaining) > 1 {
			charA, charB := frame.remaining[0], frame.remaining[1]
			labelB := string(charB)
			transposeNode, ok := frame.node.edges[labelB]
			if !ok {
				transposeNode = newTokenSetNode()
				frame.node.edges[labelB] = transposeNode
			}
			if len(frame.remaining) == 1 {
				transposeNode.final = true
			}
			rest := append([]rune{charA}, frame.remaining[2:]...)
			stack = append(stack, fuzzyFrame{
				node:          transposeNode,
				editsRemaining: frame.editsRemaining - 1,
				remaining:     rest,
			})
		}
	}

	return &TokenSet{root: root}
}

// ToList enumerates every accepted string via an explicit DFS work-list,
// in ascending lexical order. Terminates on any acyclic automaton (FromList,
// FromFuzzyString, FromString without '*', and Intersect results); a '*'
// in FromString creates a self-loop, on which ToList does not terminate.
func (ts *TokenSet) ToList() []string {
	type frame struct {
		prefix string
		node   *tokenSetNode
	}
	var words []string
	stack := []frame{{prefix: "", node: ts.root}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if f.node.final {
			words = append(words, f.prefix)
		}
		labels := make([]string, 0, len(f.node.edges))
		for label := range f.node.edges {
			labels = append(labels, label)
		}
		sort.Strings(labels)
		// Push in reverse so the smallest label is popped first.
		for i := len(labels) - 1; i >= 0; i-- {
			stack = append(stack, frame{prefix: f.prefix + labels[i], node: f.node.edges[labels[i]]})
		}
	}
	return words
}

type intersectFrame struct {
	node   *tokenSetNode
	qNode  *tokenSetNode
	output *tokenSetNode
}

// Intersect returns the intersection of ts and other: the set of strings
// accepted by both, with edges in the output labeled from ts's alphabet
// (so the result's accepted language is drawn from ts's characters even
// when other contributed a wildcard match).
func (ts *TokenSet) Intersect(other *TokenSet) *TokenSet {
	output := newTokenSetNode()
	stack := []intersectFrame{{node: ts.root, qNode: other.root, output: output}}

	for len(stack) > 0 {
		frame := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		for qEdge, qTarget := range frame.qNode.edges {
			for nEdge, nTarget := range frame.node.edges {
				if nEdge != qEdge && qEdge != "*" {
					continue
				}
				final := nTarget.final && qTarget.final

				next, exists := frame.output.edges[nEdge]
				if exists {
					next.final = next.final || final
				} else {
					next = newTokenSetNode()
					next.final = final
					frame.output.edges[nEdge] = next
				}
				stack = append(stack, intersectFrame{node: nTarget, qNode: qTarget, output: next})
			}
		}
	}

	return &TokenSet{root: output}
}

// unchecked records a (parent, char, child) triple not yet known to be
// shareable with an equivalent suffix.
type unchecked struct {
	parent *tokenSetNode
	char   string
	child  *tokenSetNode
}

// TokenSetBuilder incrementally constructs a minimized TokenSet from words
// inserted in strictly increasing lexical order.
type TokenSetBuilder struct {
	previousWord string
	root         *tokenSetNode
	uncheckedSt  []unchecked
	minimized    map[string]*tokenSetNode
}

// NewTokenSetBuilder returns an empty builder.
func NewTokenSetBuilder() *TokenSetBuilder {
	return &TokenSetBuilder{
		root:      newTokenSetNode(),
		minimized: map[string]*tokenSetNode{},
	}
}

// Insert adds word to the automaton under construction. Returns an
// InvariantError if word sorts before the previously inserted word.
func (b *TokenSetBuilder) Insert(word string) error {
	if word < b.previousWord {
		return newInvariantError(ErrOutOfOrderTokenSetAdd, word)
	}

	wordRunes := []rune(word)
	prevRunes := []rune(b.previousWord)
	commonPrefix := 0
	minLen := len(wordRunes)
	if len(prevRunes) < minLen {
		minLen = len(prevRunes)
	}
	for commonPrefix < minLen && wordRunes[commonPrefix] == prevRunes[commonPrefix] {
		commonPrefix++
	}

	b.minimize(commonPrefix)

	node := b.root
	if len(b.uncheckedSt) > 0 {
		node = b.uncheckedSt[len(b.uncheckedSt)-1].child
	}

	for i := commonPrefix; i < len(wordRunes); i++ {
		next := newTokenSetNode()
		char := string(wordRunes[i])
		node.edges[char] = next
		b.uncheckedSt = append(b.uncheckedSt, unchecked{parent: node, char: char, child: next})
		node = next
	}

	node.final = true
	b.previousWord = word
	return nil
}

// Finish completes construction, minimizing the remaining suffix path
// down to the root. Must be called exactly once, after the last Insert.
func (b *TokenSetBuilder) Finish() *TokenSet {
	b.minimize(0)
	return &TokenSet{root: b.root}
}

func (b *TokenSetBuilder) minimize(downTo int) {
	for i := len(b.uncheckedSt) - 1; i >= downTo; i-- {
		u := b.uncheckedSt[i]
		childKey := u.child.signatureString()

		if existing, ok := b.minimized[childKey]; ok {
			u.parent.edges[u.char] = existing
		} else {
			b.minimized[childKey] = u.child
		}
	}
	b.uncheckedSt = b.uncheckedSt[:downTo]
}

// FromList builds a minimized TokenSet from a slice of words that must
// already be in strictly increasing lexical order.
func FromList(words []string) (*TokenSet, error) {
	b := NewTokenSetBuilder()
	for _, w := range words {
		if err := b.Insert(w); err != nil {
			return nil, err
		}
	}
	return b.Finish(), nil
}
