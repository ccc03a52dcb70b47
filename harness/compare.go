package harness

import "sort"

// SplitResults separates successful records from failed ones, preserving
// input order in both halves.
func SplitResults(results []Result) (ok, failed []Result) {
	for _, r := range results {
		if r.Success {
			ok = append(ok, r)
		} else {
			failed = append(failed, r)
		}
	}
	return ok, failed
}

// Rank returns the successful results ordered by compression ratio
// descending, the primary comparison axis. The sort is stable: equal ratios
// keep their input order, which makes runs deterministic without promising
// any particular tie order.
func Rank(results []Result) []Result {
	ok, _ := SplitResults(results)
	ranked := append([]Result(nil), ok...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].CompressionRatio > ranked[j].CompressionRatio
	})
	return ranked
}

// Best returns the maximum-compression and maximum-accuracy entries among
// the successful results, independent of the table's sort order. Both are
// nil when nothing succeeded.
func Best(results []Result) (bestCompression, bestAccuracy *Result) {
	ok, _ := SplitResults(results)
	for i := range ok {
		r := &ok[i]
		if bestCompression == nil || r.CompressionRatio > bestCompression.CompressionRatio {
			bestCompression = r
		}
		if bestAccuracy == nil || r.RoundTripAccuracyPercent > bestAccuracy.RoundTripAccuracyPercent {
			bestAccuracy = r
		}
	}
	return bestCompression, bestAccuracy
}
