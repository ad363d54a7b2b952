package lexica

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIDFMatchesSpecFormula(t *testing.T) {
	n, df := 10, 3
	want := math.Log(1 + math.Abs((float64(n-df)+0.5)/(float64(df)+0.5)))
	assert.InDelta(t, want, idf(n, df), 1e-12)
}

func TestIDFDecreasesAsDocFrequencyRises(t *testing.T) {
	rare := idf(100, 1)
	common := idf(100, 50)
	assert.Greater(t, rare, common)
}

func TestBM25WeightZeroAverageFieldLengthTreatedAsOne(t *testing.T) {
	withZero := bm25Weight(1, 2, 5, 0, 1.2, 0.75, 1, 1)
	withOne := bm25Weight(1, 2, 5, 1, 1.2, 0.75, 1, 1)
	assert.Equal(t, withOne, withZero)
}

func TestBM25WeightScalesWithBoosts(t *testing.T) {
	base := bm25Weight(1, 2, 5, 5, 1.2, 0.75, 1, 1)
	boosted := bm25Weight(1, 2, 5, 5, 1.2, 0.75, 2, 1)
	assert.InDelta(t, base*2, boosted, 1e-9)
}
