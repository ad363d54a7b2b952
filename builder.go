// ═══════════════════════════════════════════════════════════════════════════════
// BUILDER
// ═══════════════════════════════════════════════════════════════════════════════
// Builder orchestrates ingestion: runs the build-side pipeline over every
// field of every document, accumulates term frequencies and field
// lengths, computes IDF and BM25-weighted field vectors, builds the final
// TokenSet, and emits an immutable Index.
//
// A Builder is single-owner: its methods are not safe to call from
// multiple goroutines concurrently. The Index it produces is a separate,
// immutable artifact safe to share once Build returns.
// ═══════════════════════════════════════════════════════════════════════════════

package lexica

import (
	"log/slog"
	"sort"
)

// BuilderPlugin is a hook a Builder.Use call invokes with the builder and
// any extra arguments, letting a plugin register pipeline functions, add
// fields, or adjust scoring parameters before Build is called.
type BuilderPlugin func(b *Builder, args ...any)

type documentAttributes struct {
	boost float64
}

// Builder accumulates document state over repeated Add calls until Build
// is invoked.
type Builder struct {
	ref    string
	fields map[string]*Field
	order  []string // field insertion order, preserved in the built Index

	pipeline       *Pipeline
	searchPipeline *Pipeline

	invertedIndex         map[string]*Posting
	fieldTermFrequencies  map[string]map[string]int // fieldRefString -> term -> tf
	fieldLengths          map[string]int            // fieldRefString -> token count
	documents             map[string]documentAttributes
	documentCount         int
	termIndex             int
	metadataWhitelist     []string
	b                     float64
	k1                    float64
	idfCache              map[string]float64
	logger                *slog.Logger
}

// BuilderOption configures a new Builder.
type BuilderOption func(*Builder)

// WithBuilderLogger overrides the builder's logger (defaults to
// slog.Default()).
func WithBuilderLogger(logger *slog.Logger) BuilderOption {
	return func(b *Builder) { b.logger = logger }
}

// WithMetadataWhitelist sets which token metadata keys are recorded into
// the inverted index (e.g. "position").
func WithMetadataWhitelist(keys ...string) BuilderOption {
	return func(b *Builder) { b.metadataWhitelist = keys }
}

// WithBuildPipeline sets the pipeline run over documents at index-build
// time.
func WithBuildPipeline(p *Pipeline) BuilderOption {
	return func(b *Builder) { b.pipeline = p }
}

// WithSearchPipeline sets the pipeline the resulting Index will run over
// query terms.
func WithSearchPipeline(p *Pipeline) BuilderOption {
	return func(b *Builder) { b.searchPipeline = p }
}

// NewBuilder returns a Builder with the standard defaults: ref "id",
// b=0.75, k1=1.2, empty pipelines.
func NewBuilder(opts ...BuilderOption) *Builder {
	b := &Builder{
		ref:                  "id",
		fields:               map[string]*Field{},
		pipeline:             NewPipeline(),
		searchPipeline:       NewPipeline(),
		invertedIndex:        map[string]*Posting{},
		fieldTermFrequencies: map[string]map[string]int{},
		fieldLengths:         map[string]int{},
		documents:            map[string]documentAttributes{},
		idfCache:             map[string]float64{},
		b:                    0.75,
		k1:                   1.2,
		logger:               slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// DefaultBuilder returns a Builder pre-configured with the standard
// English text pipeline: trimmer, stopword filter, and stemmer on the
// build pipeline; stemmer alone on the search pipeline.
func DefaultBuilder(opts ...BuilderOption) *Builder {
	b := NewBuilder(opts...)
	b.pipeline.Add(TrimmerEnglish, StopWordFilterEnglish, StemmerEnglish)
	b.searchPipeline.Add(StemmerEnglish)
	return b
}

// Ref sets the document field used as the document reference. Must be set
// before any documents are added.
func (b *Builder) Ref(name string) { b.ref = name }

// Field registers a field to be indexed. Returns a ConfigurationError if
// name contains '/'.
func (b *Builder) Field(spec FieldSpec) error {
	if containsSlash(spec.Name) {
		return newConfigurationError(ErrFieldNameContainsSlash, spec.Name)
	}
	boost := spec.Boost
	if boost == 0 {
		boost = 1
	}
	if _, exists := b.fields[spec.Name]; !exists {
		b.order = append(b.order, spec.Name)
	}
	b.fields[spec.Name] = &Field{Name: spec.Name, Boost: boost, Extractor: spec.Extractor}
	return nil
}

func containsSlash(s string) bool {
	for _, r := range s {
		if r == '/' {
			return true
		}
	}
	return false
}

// B sets the length-normalization parameter, clamped to [0, 1].
func (b *Builder) B(x float64) {
	switch {
	case x < 0:
		b.b = 0
	case x > 1:
		b.b = 1
	default:
		b.b = x
	}
}

// K1 sets the term-frequency saturation parameter.
func (b *Builder) K1(x float64) { b.k1 = x }

// Use invokes plugin with this builder and args, letting it register
// pipeline functions, fields, or scoring parameters.
func (b *Builder) Use(plugin BuilderPlugin, args ...any) {
	plugin(b, args...)
}

// Add indexes one document. attributes may carry a per-document boost
// (zero means "use 1").
func (b *Builder) Add(doc Document, attributes ...documentAttributes) error {
	var attrs documentAttributes
	if len(attributes) > 0 {
		attrs = attributes[0]
	}
	if attrs.boost == 0 {
		attrs.boost = 1
	}

	docRef := coerceToString(doc[b.ref])
	b.documents[docRef] = attrs
	b.documentCount++

	for _, fieldName := range b.order {
		field := b.fields[fieldName]
		var raw any
		if field.Extractor != nil {
			raw = field.Extractor(doc)
		} else {
			raw = doc[fieldName]
		}

		tokens := Tokenize(raw)
		terms := b.pipeline.Run(tokens, fieldName)

		fieldRef := FieldRef{DocRef: docRef, FieldName: fieldName}
		fieldRefStr := fieldRef.String()

		fieldTerms := map[string]int{}
		b.fieldTermFrequencies[fieldRefStr] = fieldTerms
		if raw != nil {
			b.fieldLengths[fieldRefStr] = len(terms)
		}

		for _, term := range terms {
			termKey := term.String
			fieldTerms[termKey]++

			posting, ok := b.invertedIndex[termKey]
			if !ok {
				posting = newPosting(b.termIndex, b.order)
				b.termIndex++
				b.invertedIndex[termKey] = posting
			}

			if _, ok := posting.Fields[fieldName][docRef]; !ok {
				posting.Fields[fieldName][docRef] = map[string][]any{}
			}
			for _, key := range b.metadataWhitelist {
				value, ok := whitelistedMetadataValue(term.Metadata, key)
				if !ok {
					continue
				}
				posting.Fields[fieldName][docRef][key] = append(posting.Fields[fieldName][docRef][key], value)
			}
		}
	}

	return nil
}

// whitelistedMetadataValue resolves a metadata_whitelist key against a
// token's metadata. "position"/"index" read the tokenizer-owned Position/
// Index struct fields; any other key falls back to Extras, which is where
// caller- and pipeline-supplied metadata lives.
func whitelistedMetadataValue(md Metadata, key string) (any, bool) {
	switch key {
	case "position":
		return md.Position, true
	case "index":
		return md.Index, true
	default:
		value, ok := md.Extras[key]
		return value, ok
	}
}

// Build completes indexing and returns the immutable Index. Should be
// called exactly once, after all documents have been added.
func (b *Builder) Build() *Index {
	avgFieldLength := b.averageFieldLengths()
	fieldVectors := b.createFieldVectors(avgFieldLength)
	tokenSet := b.createTokenSet()

	fields := make([]string, len(b.order))
	copy(fields, b.order)

	return &Index{
		invertedIndex: b.invertedIndex,
		fieldVectors:  fieldVectors,
		tokenSet:      tokenSet,
		fields:        fields,
		pipeline:      b.searchPipeline,
		version:       serializationVersion,
		logHandle:     b.logger,
	}
}

// averageFieldLengths computes, per field, the average length over
// documents that actually contain that field (I7).
func (b *Builder) averageFieldLengths() map[string]float64 {
	accumulator := map[string]int{}
	documentsWithField := map[string]int{}

	for fieldRefStr, length := range b.fieldLengths {
		ref, err := ParseFieldRef(fieldRefStr)
		if err != nil {
			continue
		}
		documentsWithField[ref.FieldName]++
		accumulator[ref.FieldName] += length
	}

	avg := make(map[string]float64, len(b.fields))
	for fieldName := range b.fields {
		count := documentsWithField[fieldName]
		if count == 0 {
			avg[fieldName] = 0
			continue
		}
		avg[fieldName] = float64(accumulator[fieldName]) / float64(count)
	}
	return avg
}

func (b *Builder) createFieldVectors(avgFieldLength map[string]float64) map[string]*Vector {
	fieldVectors := make(map[string]*Vector, len(b.fieldTermFrequencies))

	// Deterministic iteration order for reproducible magnitude/float
	// accumulation across runs.
	fieldRefStrs := make([]string, 0, len(b.fieldTermFrequencies))
	for k := range b.fieldTermFrequencies {
		fieldRefStrs = append(fieldRefStrs, k)
	}
	sort.Strings(fieldRefStrs)

	for _, fieldRefStr := range fieldRefStrs {
		termFrequencies := b.fieldTermFrequencies[fieldRefStr]
		ref, err := ParseFieldRef(fieldRefStr)
		if err != nil {
			continue
		}
		fieldName := ref.FieldName
		fieldLength := float64(b.fieldLengths[fieldRefStr])
		fieldVector := NewVector(nil)
		fieldBoost := b.fields[fieldName].Boost
		docBoost := b.documents[ref.DocRef].boost
		if docBoost == 0 {
			docBoost = 1
		}

		terms := make([]string, 0, len(termFrequencies))
		for t := range termFrequencies {
			terms = append(terms, t)
		}
		sort.Strings(terms)

		for _, term := range terms {
			tf := termFrequencies[term]
			posting := b.invertedIndex[term]
			termOrdinal := posting.TermOrdinal

			idfValue, cached := b.idfCache[term]
			if !cached {
				idfValue = idf(b.documentCount, posting.documentsWithTerm())
				b.idfCache[term] = idfValue
			}

			score := bm25Weight(idfValue, tf, fieldLength, avgFieldLength[fieldName], b.k1, b.b, fieldBoost, docBoost)
			fieldVector.Insert(termOrdinal, roundTo3(score))
		}

		fieldVectors[fieldRefStr] = fieldVector
	}

	return fieldVectors
}

// Build is the package-level convenience wrapper: construct a default
// Builder, register ref and fields, add every document, and return the
// built Index. Equivalent to calling NewBuilder/DefaultBuilder, Ref,
// Field (once per spec), Add (once per document), then Build.
func Build(ref string, fields []FieldSpec, documents []Document, opts ...BuilderOption) (*Index, error) {
	b := DefaultBuilder(opts...)
	b.Ref(ref)
	for _, spec := range fields {
		if err := b.Field(spec); err != nil {
			return nil, err
		}
	}
	for _, doc := range documents {
		if err := b.Add(doc); err != nil {
			return nil, err
		}
	}
	return b.Build(), nil
}

func (b *Builder) createTokenSet() *TokenSet {
	terms := make([]string, 0, len(b.invertedIndex))
	for t := range b.invertedIndex {
		terms = append(terms, t)
	}
	sort.Strings(terms)
	ts, err := FromList(terms)
	if err != nil {
		// Terms are freshly sorted here, so out-of-order insertion can't
		// happen; a panic would indicate a bug in this function, not bad
		// caller input.
		panic(err)
	}
	return ts
}
