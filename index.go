// ═══════════════════════════════════════════════════════════════════════════════
// INVERTED INDEX
// ═══════════════════════════════════════════════════════════════════════════════
// An inverted index maps each vocabulary term to, for every field it
// appears in, the set of documents containing it in that field and the
// whitelisted metadata recorded for each occurrence (e.g. positions).
//
// The term ordinal lives alongside each field's postings as a tagged
// Posting struct rather than a dynamic dictionary key.
// ═══════════════════════════════════════════════════════════════════════════════

package lexica

import "log/slog"

// Posting is the index entry for one term: a dense ordinal (this term's
// Vector key) plus, per field, per doc-ref, per metadata key, the
// recorded values.
type Posting struct {
	TermOrdinal int
	Fields      map[string]map[string]map[string][]any // field -> docRef -> metadataKey -> values
}

func newPosting(ordinal int, fieldNames []string) *Posting {
	fields := make(map[string]map[string]map[string][]any, len(fieldNames))
	for _, name := range fieldNames {
		fields[name] = map[string]map[string][]any{}
	}
	return &Posting{TermOrdinal: ordinal, Fields: fields}
}

// documentsWithTerm returns the number of distinct (field, doc_ref) pairs
// across all fields, used by idf().
func (p *Posting) documentsWithTerm() int {
	count := 0
	for _, docs := range p.Fields {
		count += len(docs)
	}
	return count
}

// Field describes one indexed field: its name, a relevance boost, and an
// optional extractor that pulls the field's text out of a raw document.
type Field struct {
	Name     string
	Boost    float64
	Extractor func(doc Document) any
}

// FieldSpec is the convenience input to Build/Builder.Field: either a bare
// field name (Boost defaults to 1) or fully specified.
type FieldSpec struct {
	Name      string
	Boost     float64
	Extractor func(doc Document) any
}

// Document is a record being indexed: a mapping from field name to raw
// value. Values may be strings, string slices, numbers, or nil.
type Document map[string]any

// Index is the immutable artifact produced by Builder.Build or Load. It
// is safe for concurrent read-only use (Search/Query) from multiple
// goroutines.
type Index struct {
	invertedIndex map[string]*Posting
	fieldVectors  map[string]*Vector // keyed by FieldRef.String()
	tokenSet      *TokenSet
	fields        []string
	pipeline      *Pipeline

	version   string
	logHandle *slog.Logger
}

const serializationVersion = "1.0.0"

// logger returns this index's logger, defaulting to slog.Default() for
// indexes whose logger was never set (Load does not set one; Build passes
// on the Builder's logger).
func (idx *Index) logger() *slog.Logger {
	if idx.logHandle == nil {
		return slog.Default()
	}
	return idx.logHandle
}
