package usage

import (
	"math"
	"slices"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// Bucket is one row of an aggregation result
type Bucket struct {
	Label string
	Total float64
}

type bucketSum struct {
	key   int
	total float64
}

// Rollup groups samples by granularity and sums each group. Only buckets with
// at least one sample are returned, ascending by bucket key. Totals are summed
// at full precision and rounded to 2 decimals on the way out.
func Rollup(samples []Sample, g Granularity, loc *time.Location) []Bucket {
	return lo.Map(rollup(samples, g, loc), func(b bucketSum, _ int) Bucket {
		return Bucket{Label: g.label(b.key), Total: Round2(b.total)}
	})
}

func rollup(samples []Sample, g Granularity, loc *time.Location) []bucketSum {
	if loc == nil {
		loc = time.UTC
	}

	totals := make(map[int]float64)
	for _, s := range samples {
		totals[g.key(s.Timestamp.In(loc))] += s.Amount
	}

	keys := lo.Keys(totals)
	slices.Sort(keys)

	return lo.Map(keys, func(k int, _ int) bucketSum {
		return bucketSum{key: k, total: totals[k]}
	})
}

// Round2 rounds v to 2 decimal places, half away from zero. ±Inf clamps to
// ±MaxFloat64 and NaN becomes 0.
func Round2(v float64) float64 {
	switch {
	case math.IsNaN(v):
		return 0
	case math.IsInf(v, 1):
		v = math.MaxFloat64
	case math.IsInf(v, -1):
		v = -math.MaxFloat64
	}
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
