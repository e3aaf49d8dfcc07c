package dashboard

import (
	"math"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// CountUrgency returns how many requests carry urgency u.
func CountUrgency(reqs []OrganRequest, u Urgency) int {
	n := 0
	for _, r := range reqs {
		if r.Urgency == u {
			n++
		}
	}
	return n
}

// CountStatus returns how many requests are in status s.
func CountStatus(reqs []OrganRequest, s RequestStatus) int {
	n := 0
	for _, r := range reqs {
		if r.Status == s {
			n++
		}
	}
	return n
}

// InventoryPercent is available/total as a percentage in [0, 100]. An empty
// total yields 0.
func InventoryPercent(available, total int) float64 {
	if total <= 0 || available <= 0 {
		return 0
	}
	p := float64(available) / float64(total) * 100
	if p > 100 {
		return 100
	}
	return p
}

// FormatPercent renders p for a CSS width: integers print bare, fractions
// keep at most two decimals.
func FormatPercent(p float64) string {
	if math.IsNaN(p) || math.IsInf(p, 0) {
		return "0"
	}
	rounded := math.Round(p*100) / 100
	return strconv.FormatFloat(rounded, 'f', -1, 64)
}

// DistributionShare is each slice's share of the total, in percent, keyed by
// organ name.
func DistributionShare(items []OrganDistribution) map[string]float64 {
	out := make(map[string]float64, len(items))
	total := 0
	for _, it := range items {
		if it.Value > 0 {
			total += it.Value
		}
	}
	for _, it := range items {
		if total == 0 || it.Value <= 0 {
			out[it.Name] = 0
			continue
		}
		out[it.Name] = float64(it.Value) / float64(total) * 100
	}
	return out
}

// TrendPeak returns the month with the most donations. ok is false for an
// empty series.
func TrendPeak(trends []MonthlyTrend) (peak MonthlyTrend, ok bool) {
	for i, t := range trends {
		if i == 0 || t.Donations > peak.Donations {
			peak = t
		}
	}
	return peak, len(trends) > 0
}

// FormatCount renders n with thousands separators ("15,234").
func FormatCount(n int) string {
	return message.NewPrinter(language.English).Sprintf("%d", n)
}
