package lexica

// MatchData accumulates, for a single search result, which terms matched
// in which fields and what metadata (e.g. recorded positions) backed the
// match. One instance is produced per result document.
type MatchData struct {
	// Metadata[term][field][metadataKey] = accumulated values.
	Metadata map[string]map[string]map[string][]any
}

// NewMatchData constructs a MatchData, optionally seeded with a single
// term/field/metadata entry (pass "" for term to get an empty instance).
func NewMatchData(term, field string, metadata map[string][]any) *MatchData {
	md := &MatchData{Metadata: map[string]map[string]map[string][]any{}}
	if term != "" {
		fields := map[string]map[string][]any{}
		if field != "" {
			if metadata == nil {
				metadata = map[string][]any{}
			}
			fields[field] = cloneMetadataValues(metadata)
		}
		md.Metadata[term] = fields
	}
	return md
}

func cloneMetadataValues(m map[string][]any) map[string][]any {
	out := make(map[string][]any, len(m))
	for k, v := range m {
		cp := make([]any, len(v))
		copy(cp, v)
		out[k] = cp
	}
	return out
}

// Add records metadata for a term/field pair. If the pair already has
// metadata, values under shared keys are EXTENDED (concatenated), not
// replaced.
func (md *MatchData) Add(term, field string, metadata map[string][]any) {
	fields, ok := md.Metadata[term]
	if !ok {
		md.Metadata[term] = map[string]map[string][]any{field: cloneMetadataValues(metadata)}
		return
	}
	existing, ok := fields[field]
	if !ok {
		fields[field] = cloneMetadataValues(metadata)
		return
	}
	for key, values := range metadata {
		if existingValues, ok := existing[key]; ok {
			existing[key] = append(existingValues, values...)
		} else {
			existing[key] = append([]any{}, values...)
		}
	}
}

// Combine merges another MatchData's metadata into md, in place.
func (md *MatchData) Combine(other *MatchData) {
	for term, fields := range other.Metadata {
		for field, metadata := range fields {
			md.Add(term, field, metadata)
		}
	}
}
