package lexica

import (
	"testing"

	"github.com/RoaringBitmap/roaring"
	"github.com/stretchr/testify/assert"
)

func TestDocSetUniverseIsIntersectIdentity(t *testing.T) {
	finite := finiteDocSet(roaring.BitmapOf(1, 2, 3))
	got := universeSet().intersect(finite)
	assert.True(t, got.contains(1))
	assert.True(t, got.contains(2))
	assert.True(t, got.contains(3))
	assert.False(t, got.contains(4))
}

func TestDocSetUniverseAbsorbsUnion(t *testing.T) {
	finite := finiteDocSet(roaring.BitmapOf(1))
	got := universeSet().union(finite)
	assert.True(t, got.isUniverse)
}

func TestDocSetUniverseContainsEverything(t *testing.T) {
	u := universeSet()
	assert.True(t, u.contains(0))
	assert.True(t, u.contains(999999))
}

func TestDocInternerStableRoundTrip(t *testing.T) {
	di := newDocInterner()
	a := di.intern("doc-a")
	b := di.intern("doc-b")
	assert.Equal(t, a, di.intern("doc-a"))
	assert.NotEqual(t, a, b)
	assert.Equal(t, "doc-a", di.ref(a))
	assert.Equal(t, "doc-b", di.ref(b))
}
