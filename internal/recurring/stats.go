package recurring

import (
	"math"
	"time"

	"github.com/hearth-ledger/backend/internal/models"
	"github.com/hearth-ledger/backend/internal/types"
	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"
)

// Bucket maps an inclusive range of median gaps in days to a frequency.
type Bucket struct {
	Frequency models.Frequency
	Min, Max  float64
	Days      int // Expected interval
	MinCount  int // Observations required
}

// Buckets are ordered by interval. Gaps between the ranges match nothing.
var Buckets = []Bucket{
	{models.FrequencyWeekly, 5, 9, 7, 3},
	{models.FrequencyBiWeekly, 12, 18, 14, 3},
	{models.FrequencyMonthly, 25, 38, 30, 3},
	{models.FrequencyBiMonthly, 55, 70, 60, 3},
	{models.FrequencyQuarterly, 80, 105, 90, 3},
	{models.FrequencySemiAnnual, 160, 200, 182, 2},
	{models.FrequencyYearly, 340, 395, 365, 2},
}

// Classify returns the bucket containing the median gap.
func Classify(medianGap float64) (Bucket, bool) {
	for _, b := range Buckets {
		if medianGap >= b.Min && medianGap <= b.Max {
			return b, true
		}
	}
	return Bucket{}, false
}

// Confidence weights.
const (
	consistencyWeight = 0.5
	countWeight       = 0.25
	recencyWeight     = 0.25

	// MinConfidence is the floor below which patterns are discarded.
	MinConfidence = 0.70

	saturationCount = 6
)

// Score holds the sub-scores of a confidence, each in [0, 1].
type Score struct {
	Consistency float64
	Count       float64
	Recency     float64
}

// Confidence is the weighted sum of the sub-scores.
func (s Score) Confidence() float64 {
	return consistencyWeight*s.Consistency + countWeight*s.Count + recencyWeight*s.Recency
}

// Consistency is 1 - stddev/expected, floored at 0.
func Consistency(gaps []int, expectedDays int) float64 {
	return math.Max(0, 1-stddev(gaps)/float64(expectedDays))
}

// CountScore saturates at six observations.
func CountScore(observations int) float64 {
	return math.Min(float64(observations)/saturationCount, 1)
}

// Recency is 1 while the last observation is at most two intervals old and
// decays linearly to 0 at four intervals.
func Recency(last, now time.Time, expectedDays int) float64 {
	since := float64(types.DaysBetween(last, now))
	window := 2 * float64(expectedDays)

	if since <= window {
		return 1
	}
	return math.Max(0, 1-(since-window)/window)
}

// Gaps returns the day differences between consecutive sorted dates.
func Gaps(dates []time.Time) []int {
	if len(dates) < 2 {
		return nil
	}

	gaps := make([]int, 0, len(dates)-1)
	for i := 1; i < len(dates); i++ {
		gaps = append(gaps, types.DaysBetween(dates[i-1], dates[i]))
	}
	return gaps
}

// Median of integer gaps. It is the mean of the middle values for an even
// count.
func Median(values []int) float64 {
	if len(values) == 0 {
		return 0
	}

	sorted := slices.Clone(values)
	slices.Sort(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return float64(sorted[mid])
	}
	return float64(sorted[mid-1]+sorted[mid]) / 2
}

// MedianAmount is the median of the absolute amounts.
func MedianAmount(amounts []decimal.Decimal) decimal.Decimal {
	if len(amounts) == 0 {
		return decimal.Zero
	}

	sorted := make([]decimal.Decimal, 0, len(amounts))
	for _, a := range amounts {
		sorted = append(sorted, a.Abs())
	}
	slices.SortFunc(sorted, func(a, b decimal.Decimal) int {
		return a.Cmp(b)
	})

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return sorted[mid-1].Add(sorted[mid]).Div(decimal.NewFromInt(2))
}

// stddev is the population standard deviation.
func stddev(values []int) float64 {
	if len(values) == 0 {
		return 0
	}

	var sum float64
	for _, v := range values {
		sum += float64(v)
	}
	mean := sum / float64(len(values))

	var squares float64
	for _, v := range values {
		squares += (float64(v) - mean) * (float64(v) - mean)
	}
	return math.Sqrt(squares / float64(len(values)))
}
