// ═══════════════════════════════════════════════════════════════════════════════
// SERIALIZATION
// ═══════════════════════════════════════════════════════════════════════════════
// Index.Serialize/Load round-trip an Index through JSON: a record of
// { version, fields, fieldVectors, invertedIndex, pipeline }, with
// invertedIndex emitted as [term, posting] pairs sorted ascending by term
// (required so Load can feed the TokenSet builder incrementally) and
// fieldVectors as [field_ref, flat_pair_array] pairs with every element
// rounded to 3 decimals. Posting keeps its term ordinal alongside its
// field maps under an "_index" key by implementing custom JSON
// marshaling.
// ═══════════════════════════════════════════════════════════════════════════════

package lexica

import (
	"encoding/json"
	"sort"
)

// MarshalJSON encodes a Posting as a JSON object with "_index" holding the
// term ordinal alongside one key per field, matching the wire shape
// spec.md §6 names: { "_index": int, field_name: {...}, ... }.
func (p *Posting) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(p.Fields)+1)
	m["_index"] = p.TermOrdinal
	for fieldName, docs := range p.Fields {
		m[fieldName] = docs
	}
	return json.Marshal(m)
}

// UnmarshalJSON decodes a Posting from the "_index" + field-keys shape
// MarshalJSON produces.
func (p *Posting) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	if idxRaw, ok := raw["_index"]; ok {
		if err := json.Unmarshal(idxRaw, &p.TermOrdinal); err != nil {
			return err
		}
		delete(raw, "_index")
	}

	fields := make(map[string]map[string]map[string][]any, len(raw))
	for fieldName, fieldData := range raw {
		var docs map[string]map[string][]any
		if err := json.Unmarshal(fieldData, &docs); err != nil {
			return err
		}
		fields[fieldName] = docs
	}
	p.Fields = fields
	return nil
}

// invertedIndexEntry is one [term, posting] pair.
type invertedIndexEntry struct {
	Term    string
	Posting *Posting
}

func (e invertedIndexEntry) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{e.Term, e.Posting})
}

func (e *invertedIndexEntry) UnmarshalJSON(data []byte) error {
	var pair [2]json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if err := json.Unmarshal(pair[0], &e.Term); err != nil {
		return err
	}
	e.Posting = &Posting{}
	return json.Unmarshal(pair[1], e.Posting)
}

// fieldVectorEntry is one [field_ref_string, flat_pair_array] pair.
type fieldVectorEntry struct {
	FieldRef string
	Flat     []float64
}

func (e fieldVectorEntry) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{e.FieldRef, e.Flat})
}

func (e *fieldVectorEntry) UnmarshalJSON(data []byte) error {
	var pair [2]json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if err := json.Unmarshal(pair[0], &e.FieldRef); err != nil {
		return err
	}
	return json.Unmarshal(pair[1], &e.Flat)
}

// serializedIndex is the on-the-wire record Serialize produces and Load
// consumes.
type serializedIndex struct {
	Version       string               `json:"version"`
	Fields        []string             `json:"fields"`
	FieldVectors  []fieldVectorEntry   `json:"fieldVectors"`
	InvertedIndex []invertedIndexEntry `json:"invertedIndex"`
	Pipeline      []string             `json:"pipeline"`
}

// Serialize renders idx to its JSON wire form.
func (idx *Index) Serialize() ([]byte, error) {
	terms := make([]string, 0, len(idx.invertedIndex))
	for term := range idx.invertedIndex {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	invEntries := make([]invertedIndexEntry, len(terms))
	for i, term := range terms {
		invEntries[i] = invertedIndexEntry{Term: term, Posting: idx.invertedIndex[term]}
	}

	fieldRefStrs := make([]string, 0, len(idx.fieldVectors))
	for ref := range idx.fieldVectors {
		fieldRefStrs = append(fieldRefStrs, ref)
	}
	sort.Strings(fieldRefStrs)

	fvEntries := make([]fieldVectorEntry, len(fieldRefStrs))
	for i, ref := range fieldRefStrs {
		fvEntries[i] = fieldVectorEntry{FieldRef: ref, Flat: idx.fieldVectors[ref].Serialize()}
	}

	s := serializedIndex{
		Version:       idx.version,
		Fields:        append([]string(nil), idx.fields...),
		FieldVectors:  fvEntries,
		InvertedIndex: invEntries,
		Pipeline:      idx.pipeline.Serialize(),
	}
	return json.Marshal(s)
}

// Load reconstructs an Index from Serialize's JSON output. A version
// mismatch is logged as a warning, never an error: forward/backward
// compatibility is best-effort.
func Load(data []byte) (*Index, error) {
	var s serializedIndex
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}

	idx := &Index{
		invertedIndex: make(map[string]*Posting, len(s.InvertedIndex)),
		fieldVectors:  make(map[string]*Vector, len(s.FieldVectors)),
		fields:        append([]string(nil), s.Fields...),
		version:       s.Version,
	}

	if s.Version != serializationVersion {
		idx.logger().Warn("loaded index version differs from this build's target version",
			"loaded", s.Version, "target", serializationVersion)
	}

	builder := NewTokenSetBuilder()
	for _, entry := range s.InvertedIndex {
		idx.invertedIndex[entry.Term] = entry.Posting
		if err := builder.Insert(entry.Term); err != nil {
			return nil, err
		}
	}
	idx.tokenSet = builder.Finish()

	for _, entry := range s.FieldVectors {
		idx.fieldVectors[entry.FieldRef] = NewVector(entry.Flat)
	}

	pipeline, err := LoadPipeline(s.Pipeline)
	if err != nil {
		return nil, err
	}
	idx.pipeline = pipeline

	return idx, nil
}
