package lexica

import "strings"

// FieldRef identifies a single (docRef, fieldName) pair: the vector and
// match-data key for one field of one document.
type FieldRef struct {
	DocRef    string
	FieldName string
}

// String returns the canonical "fieldName/docRef" form. Document refs
// containing "/" are permitted because parsing splits on the FIRST
// separator only.
func (r FieldRef) String() string {
	return r.FieldName + "/" + r.DocRef
}

// ParseFieldRef parses a canonical "fieldName/docRef" string back into a
// FieldRef. Returns an InvariantError if s contains no "/".
func ParseFieldRef(s string) (FieldRef, error) {
	parts := strings.SplitN(s, "/", 2)
	if len(parts) != 2 {
		return FieldRef{}, newInvariantError(ErrMalformedFieldRef, s)
	}
	return FieldRef{FieldName: parts[0], DocRef: parts[1]}, nil
}
