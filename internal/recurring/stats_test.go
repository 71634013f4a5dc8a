package recurring_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/hearth-ledger/backend/internal/models"
	"github.com/hearth-ledger/backend/internal/recurring"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		gap       float64
		frequency models.Frequency
		ok        bool
	}{
		{7, models.FrequencyWeekly, true},
		{14, models.FrequencyBiWeekly, true},
		{30, models.FrequencyMonthly, true},
		{60, models.FrequencyBiMonthly, true},
		{90, models.FrequencyQuarterly, true},
		{182, models.FrequencySemiAnnual, true},
		{365, models.FrequencyYearly, true},
		{5, models.FrequencyWeekly, true},
		{38, models.FrequencyMonthly, true},
		{38.5, "", false},
		{45, "", false},
		{2, "", false},
		{400, "", false},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.gap), func(t *testing.T) {
			bucket, ok := recurring.Classify(tt.gap)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.frequency, bucket.Frequency)
		})
	}
}

func TestMinCount(t *testing.T) {
	for _, b := range recurring.Buckets {
		want := 3
		if b.Frequency == models.FrequencySemiAnnual || b.Frequency == models.FrequencyYearly {
			want = 2
		}
		assert.Equal(t, want, b.MinCount, string(b.Frequency))
	}
}

func TestConfidenceDecreasesWithDeviation(t *testing.T) {
	gaps := [][]int{
		{30, 30, 30, 30},
		{29, 31, 29, 31},
		{27, 33, 27, 33},
		{20, 40, 20, 40},
	}

	previous := 2.0
	for _, g := range gaps {
		score := recurring.Score{
			Consistency: recurring.Consistency(g, 30),
			Count:       recurring.CountScore(5),
			Recency:     1,
		}

		assert.Less(t, score.Confidence(), previous, "gaps %v", g)
		previous = score.Confidence()
	}
}

func TestConsistencyFloor(t *testing.T) {
	assert.Equal(t, float64(0), recurring.Consistency([]int{1, 100}, 7))
	assert.Equal(t, float64(1), recurring.Consistency([]int{7, 7, 7}, 7))
}

func TestCountScore(t *testing.T) {
	assert.InDelta(t, 0.5, recurring.CountScore(3), 1e-9)
	assert.Equal(t, float64(1), recurring.CountScore(6))
	assert.Equal(t, float64(1), recurring.CountScore(12))
}

func TestRecency(t *testing.T) {
	now := time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, float64(1), recurring.Recency(now.AddDate(0, 0, -60), now, 30))
	assert.InDelta(t, 0.5, recurring.Recency(now.AddDate(0, 0, -90), now, 30), 1e-9)
	assert.Equal(t, float64(0), recurring.Recency(now.AddDate(0, 0, -120), now, 30))
	assert.Equal(t, float64(0), recurring.Recency(now.AddDate(-1, 0, 0), now, 30))
}

func TestMedian(t *testing.T) {
	assert.Equal(t, float64(0), recurring.Median(nil))
	assert.Equal(t, float64(30), recurring.Median([]int{31, 29, 30}))
	assert.Equal(t, 30.5, recurring.Median([]int{29, 31, 30, 31}))
}

func TestMedianAmount(t *testing.T) {
	amounts := []decimal.Decimal{
		decimal.NewFromInt(-120),
		decimal.NewFromInt(100),
		decimal.NewFromInt(-100),
		decimal.NewFromInt(500),
	}

	assert.True(t, decimal.NewFromInt(110).Equal(recurring.MedianAmount(amounts)))
	assert.True(t, decimal.NewFromInt(100).Equal(recurring.MedianAmount(amounts[1:3])))
	assert.True(t, decimal.Zero.Equal(recurring.MedianAmount(nil)))
}

func TestGaps(t *testing.T) {
	dates := []time.Time{
		time.Date(2024, 1, 1, 23, 0, 0, 0, time.UTC),
		time.Date(2024, 2, 1, 1, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
	}

	assert.Equal(t, []int{31, 29}, recurring.Gaps(dates))
	assert.Nil(t, recurring.Gaps(dates[:1]))
}

func TestKey(t *testing.T) {
	assert.Equal(t, recurring.Key("Salary Inc."), recurring.Key("  SALARY inc. "))
	assert.NotEqual(t, recurring.Key("Salary Inc."), recurring.Key("Salary Ltd."))
}
