package dashboard

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountsOverSeededRequests(t *testing.T) {
	data, err := Seeded().Hospital(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, CountUrgency(data.Requests, UrgencyCritical))
	assert.Equal(t, 1, CountUrgency(data.Requests, UrgencyHigh))
	assert.Equal(t, 0, CountUrgency(data.Requests, UrgencyLow))
	assert.Equal(t, 1, CountStatus(data.Requests, StatusPending))
	assert.Equal(t, 1, CountStatus(data.Requests, StatusMatched))
	assert.Equal(t, 1, CountStatus(data.Requests, StatusCompleted))
	assert.Equal(t, 0, CountUrgency(nil, UrgencyCritical))
}

func TestInventoryPercent(t *testing.T) {
	cases := []struct {
		available, total int
		want             float64
		width            string
	}{
		{0, 2, 0, "0"},
		{2, 5, 40, "40"},
		{4, 8, 50, "50"},
		{1, 3, 100.0 / 3, "33.33"},
		{3, 0, 0, "0"},
		{5, -1, 0, "0"},
		{9, 3, 100, "100"},
		{-1, 3, 0, "0"},
	}
	for _, tc := range cases {
		got := InventoryPercent(tc.available, tc.total)
		assert.InDelta(t, tc.want, got, 1e-9, "%d/%d", tc.available, tc.total)
		assert.Equal(t, tc.width, FormatPercent(got), "%d/%d", tc.available, tc.total)
	}
}

func TestFormatPercentOddInputs(t *testing.T) {
	assert.Equal(t, "0", FormatPercent(math.NaN()))
	assert.Equal(t, "0", FormatPercent(math.Inf(1)))
	assert.Equal(t, "94.2", FormatPercent(94.2))
	assert.Equal(t, "66.67", FormatPercent(200.0/3))
}

func TestInventoryValidate(t *testing.T) {
	data, err := Seeded().Hospital(context.Background())
	require.NoError(t, err)
	for _, it := range data.Inventory {
		require.NoError(t, it.Validate(), it.Organ)
	}

	require.ErrorIs(t, InventoryItem{Organ: "Lung", Available: 3, Total: 2}.Validate(), ErrInvalidInventory)
	require.ErrorIs(t, InventoryItem{Organ: "Lung", Available: -1, Total: 2}.Validate(), ErrInvalidInventory)
}

func TestDistributionShare(t *testing.T) {
	data, err := Seeded().Admin(context.Background())
	require.NoError(t, err)

	shares := DistributionShare(data.Distribution)
	require.Len(t, shares, 5)
	sum := 0.0
	for _, v := range shares {
		sum += v
	}
	assert.InDelta(t, 100, sum, 1e-9)
	assert.InDelta(t, 3890.0/9923*100, shares["Kidney"], 1e-9)

	empty := DistributionShare([]OrganDistribution{{Name: "Heart"}})
	assert.Equal(t, 0.0, empty["Heart"])
}

func TestTrendPeak(t *testing.T) {
	data, err := Seeded().Admin(context.Background())
	require.NoError(t, err)

	peak, ok := TrendPeak(data.Trends)
	require.True(t, ok)
	assert.Equal(t, "Jun", peak.Month)

	_, ok = TrendPeak(nil)
	assert.False(t, ok)
}

func TestFormatCount(t *testing.T) {
	assert.Equal(t, "15,234", FormatCount(15234))
	assert.Equal(t, "342", FormatCount(342))
	assert.Equal(t, "0", FormatCount(0))
}
