package match

// Similarity computes the Jaccard index over the canonical token sets of a
// and b: shared tokens divided by all distinct tokens. It returns 0 when
// either side has no usable tokens, and 1 for identical non-empty names.
// Symmetric in its arguments.
func Similarity(a, b string) float64 {
	ta := Tokens(a)
	tb := Tokens(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}

	shared := 0
	for tok := range ta {
		if _, ok := tb[tok]; ok {
			shared++
		}
	}

	union := len(ta) + len(tb) - shared
	return float64(shared) / float64(union)
}
