package lexica

import "github.com/RoaringBitmap/roaring"

// docSet is the tagged Either<Universe, Finite<*roaring.Bitmap>> variant
// spec.md §9 calls for: a set of interned document ordinals that is either
// "everything" (Universe, never materialized) or a concrete roaring
// bitmap. Used by query execution to track required/prohibited matches
// per field without ever allocating an "all docs" bitmap for Universe.
type docSet struct {
	isUniverse bool
	bitmap     *roaring.Bitmap // nil iff isUniverse
}

func universeSet() docSet { return docSet{isUniverse: true} }

func emptyDocSet() docSet { return docSet{bitmap: roaring.New()} }

func finiteDocSet(bm *roaring.Bitmap) docSet { return docSet{bitmap: bm} }

// union returns a ∪ b. Universe ∪ X = Universe.
func (a docSet) union(b docSet) docSet {
	if a.isUniverse || b.isUniverse {
		return universeSet()
	}
	return finiteDocSet(roaring.Or(a.bitmap, b.bitmap))
}

// intersect returns a ∩ b. Universe ∩ X = X.
func (a docSet) intersect(b docSet) docSet {
	if a.isUniverse {
		return b
	}
	if b.isUniverse {
		return a
	}
	return finiteDocSet(roaring.And(a.bitmap, b.bitmap))
}

// contains reports whether ordinal is a member. Universe contains
// everything.
func (a docSet) contains(ordinal uint32) bool {
	if a.isUniverse {
		return true
	}
	return a.bitmap.Contains(ordinal)
}

// docInterner assigns stable uint32 ordinals to doc_ref strings, so
// required/prohibited match tracking can use roaring bitmaps instead of
// string sets.
type docInterner struct {
	toOrdinal map[string]uint32
	toRef     []string
}

func newDocInterner() *docInterner {
	return &docInterner{toOrdinal: map[string]uint32{}}
}

func (di *docInterner) intern(ref string) uint32 {
	if ord, ok := di.toOrdinal[ref]; ok {
		return ord
	}
	ord := uint32(len(di.toRef))
	di.toRef = append(di.toRef, ref)
	di.toOrdinal[ref] = ord
	return ord
}

func (di *docInterner) ref(ordinal uint32) string {
	return di.toRef[ordinal]
}
