// ═══════════════════════════════════════════════════════════════════════════════
// SEARCH EXECUTION
// ═══════════════════════════════════════════════════════════════════════════════
// Index.Search parses a query string then executes it; Index.Query runs an
// already-built Query directly (preferred for programmatic use, since it
// skips parsing). Execution expands each clause's term through the
// search-side pipeline and the index's TokenSet, accumulates per-field
// query vectors, tracks REQUIRED/PROHIBITED doc-ref sets, and scores
// candidates by Vector.Similarity, returning results sorted by descending
// score.
// ═══════════════════════════════════════════════════════════════════════════════

package lexica

import (
	"sort"

	"github.com/RoaringBitmap/roaring"
)

// Result is one scored match returned by Search/Query.
type Result struct {
	Ref       string
	Score     float64
	MatchData *MatchData
}

// Search parses s into a Query scoped to this index's fields, then
// executes it.
func (idx *Index) Search(s string) ([]Result, error) {
	query := NewQuery(idx.fields)
	parser := NewQueryParser(query)
	q, err := parser.Parse(s)
	if err != nil {
		return nil, err
	}
	return idx.Query(q)
}

// CreateQuery returns an empty Query scoped to this index's fields (or to
// fields if non-empty).
func (idx *Index) CreateQuery(fields ...string) *Query {
	if len(fields) == 0 {
		fields = idx.fields
	}
	return NewQuery(fields)
}

// Query executes q against the index. A field that no REQUIRED clause
// names has no required-matches entry, so it places no restriction on the
// combined required set.
func (idx *Index) Query(q *Query) ([]Result, error) {
	if len(q.Clauses) == 0 {
		idx.logWarnEmptyQuery()
		return nil, nil
	}

	matchingFields := map[string]*MatchData{} // fieldRefString -> MatchData
	queryVectors := map[string]*Vector{}       // fieldName -> Vector
	termFieldCache := map[string]struct{}{}    // "term\x00field"

	interner := newDocInterner()
	requiredMatches := map[string]docSet{}   // fieldName -> docSet, default Universe
	prohibitedMatches := map[string]docSet{} // fieldName -> docSet, default empty

	for _, clause := range q.Clauses {
		idx.processClause(clause, interner, matchingFields, queryVectors, termFieldCache, requiredMatches, prohibitedMatches)
	}

	allRequired := universeSet()
	seenRequiredField := false
	for _, fieldName := range idx.fields {
		if ds, ok := requiredMatches[fieldName]; ok {
			if !seenRequiredField {
				allRequired = ds
				seenRequiredField = true
			} else {
				allRequired = allRequired.intersect(ds)
			}
		}
	}

	allProhibited := emptyDocSet()
	for _, ds := range prohibitedMatches {
		allProhibited = allProhibited.union(ds)
	}

	var candidateFieldRefs []string
	if q.IsNegated() {
		for fieldRefStr := range idx.fieldVectors {
			candidateFieldRefs = append(candidateFieldRefs, fieldRefStr)
			if _, ok := matchingFields[fieldRefStr]; !ok {
				matchingFields[fieldRefStr] = NewMatchData("", "", nil)
			}
		}
	} else {
		for fieldRefStr := range matchingFields {
			candidateFieldRefs = append(candidateFieldRefs, fieldRefStr)
		}
	}

	perDoc := map[string]*Result{}
	var order []string

	for _, fieldRefStr := range candidateFieldRefs {
		ref, err := ParseFieldRef(fieldRefStr)
		if err != nil {
			continue
		}
		ordinal := interner.intern(ref.DocRef)
		if !allRequired.contains(ordinal) || allProhibited.contains(ordinal) {
			continue
		}

		fieldVector, ok := idx.fieldVectors[fieldRefStr]
		if !ok {
			continue
		}
		queryVector, ok := queryVectors[ref.FieldName]
		var score float64
		if ok {
			score = queryVector.Similarity(fieldVector)
		}

		result, exists := perDoc[ref.DocRef]
		if !exists {
			result = &Result{Ref: ref.DocRef, MatchData: NewMatchData("", "", nil)}
			perDoc[ref.DocRef] = result
			order = append(order, ref.DocRef)
		}
		result.Score += score
		if md, ok := matchingFields[fieldRefStr]; ok {
			result.MatchData.Combine(md)
		}
	}

	results := make([]Result, 0, len(order))
	for _, ref := range order {
		results = append(results, *perDoc[ref])
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	return results, nil
}

func (idx *Index) processClause(
	clause *Clause,
	interner *docInterner,
	matchingFields map[string]*MatchData,
	queryVectors map[string]*Vector,
	termFieldCache map[string]struct{},
	requiredMatches map[string]docSet,
	prohibitedMatches map[string]docSet,
) {
	var expandedTerms []string
	if clause.UsePipeline {
		expandedTerms = idx.pipeline.RunString(clause.Term, map[string]any{"fields": clause.Fields})
	} else {
		expandedTerms = []string{clause.Term}
	}

	clauseLocalRequired := emptyDocSet()

	for _, term := range expandedTerms {
		clauseTokenSet := FromClause(term, clause.EditDistance)
		concreteTerms := idx.tokenSet.Intersect(clauseTokenSet).ToList()

		if clause.Presence == Required && len(concreteTerms) == 0 {
			// No concrete vocabulary term backs this expanded term at all.
			// Mark the field's required_matches as UNIVERSE (the identity
			// element) rather than empty: this expanded term simply
			// contributes nothing, and whether the clause as a whole
			// excludes every document is decided below by intersecting
			// the clause-local accumulator (which stays empty if no
			// expanded term ever matched) into required_matches.
			for _, fieldName := range clause.Fields {
				if _, ok := requiredMatches[fieldName]; !ok {
					requiredMatches[fieldName] = universeSet()
				}
			}
			continue
		}

		for _, concreteTerm := range concreteTerms {
			posting, ok := idx.invertedIndex[concreteTerm]
			if !ok {
				continue
			}
			ordinal := posting.TermOrdinal

			for _, fieldName := range clause.Fields {
				fieldPosting, ok := posting.Fields[fieldName]
				if !ok {
					continue
				}

				switch clause.Presence {
				case Required:
					if _, ok := requiredMatches[fieldName]; !ok {
						requiredMatches[fieldName] = universeSet()
					}
					bm := bitmapOfOrdinals(interner, fieldPosting)
					clauseLocalRequired = clauseLocalRequired.union(finiteDocSet(bm))
				case Prohibited:
					bm := bitmapOfOrdinals(interner, fieldPosting)
					existing, ok := prohibitedMatches[fieldName]
					if !ok {
						existing = emptyDocSet()
					}
					prohibitedMatches[fieldName] = existing.union(finiteDocSet(bm))
					continue
				default:
					if queryVectors[fieldName] == nil {
						queryVectors[fieldName] = NewVector(nil)
					}
					queryVectors[fieldName].Upsert(ordinal, clause.Boost, func(a, b float64) float64 { return a + b })
				}

				cacheKey := concreteTerm + "\x00" + fieldName
				if _, seen := termFieldCache[cacheKey]; !seen {
					for docRef, metadata := range fieldPosting {
						fieldRef := FieldRef{DocRef: docRef, FieldName: fieldName}.String()
						if existing, ok := matchingFields[fieldRef]; ok {
							existing.Add(concreteTerm, fieldName, metadata)
						} else {
							matchingFields[fieldRef] = NewMatchData(concreteTerm, fieldName, metadata)
						}
					}
					termFieldCache[cacheKey] = struct{}{}
				}
			}
		}
	}

	if clause.Presence == Required {
		for _, fieldName := range clause.Fields {
			existing, ok := requiredMatches[fieldName]
			if !ok {
				existing = universeSet()
			}
			requiredMatches[fieldName] = existing.intersect(clauseLocalRequired)
		}
	}
}

func bitmapOfOrdinals(interner *docInterner, fieldPosting map[string]map[string][]any) *roaring.Bitmap {
	bm := roaring.New()
	for docRef := range fieldPosting {
		bm.Add(interner.intern(docRef))
	}
	return bm
}

func (idx *Index) logWarnEmptyQuery() {
	idx.logger().Warn("query executed with zero clauses; returning empty result set")
}
