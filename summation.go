package helmholtz

import (
	"math"
	"sort"
)

// ============================================================
// Compensated summation
// ============================================================

// KahanSum adds xs in order, carrying the low-order bits lost at each
// step in a running compensation. An empty slice sums to zero.
func KahanSum(xs []float64) float64 {
	var k Kahan
	for _, x := range xs {
		k.Add(x)
	}
	return k.Sum()
}

// Kahan is a running compensated sum. The zero value is an empty sum.
type Kahan struct {
	sum, c float64
}

// Add folds x into the sum.
func (k *Kahan) Add(x float64) {
	y := x - k.c
	t := k.sum + y
	k.c = (t - k.sum) - y
	k.sum = t
}

func (k *Kahan) Sum() float64 { return k.sum }

// SortedKahanSum sums xs in order of decreasing magnitude without
// modifying the caller's slice.
func SortedKahanSum(xs []float64) float64 {
	sorted := append([]float64(nil), xs...)
	sort.Slice(sorted, func(i, j int) bool { return math.Abs(sorted[i]) > math.Abs(sorted[j]) })
	return KahanSum(sorted)
}
