package lexica

import "math"

// idf computes the log-scaled inverse document frequency for a term that
// occurs in df of n total documents: ln(1 + |((n - df + 0.5)/(df + 0.5))|).
func idf(n, df int) float64 {
	ratio := (float64(n-df) + 0.5) / (float64(df) + 0.5)
	return math.Log(1 + math.Abs(ratio))
}

// bm25Weight computes the BM25 term weight for one (term, field, doc)
// occurrence, per SPEC_FULL.md §6/spec.md §4.5 step 3.
func bm25Weight(idfValue float64, tf int, fieldLength, avgFieldLength, k1, b, fieldBoost, docBoost float64) float64 {
	if avgFieldLength == 0 {
		avgFieldLength = 1
	}
	tff := float64(tf)
	numerator := (k1 + 1) * tff
	denominator := k1*(1-b+b*(fieldLength/avgFieldLength)) + tff
	return idfValue * (numerator / denominator) * fieldBoost * docBoost
}
