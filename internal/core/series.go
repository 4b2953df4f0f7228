package core

import (
	"sort"
	"time"
)

// BalanceSample is one point on the balance-over-time chart. Delta and
// PercentChange compare against the previous sample.
type BalanceSample struct {
	At            time.Time
	Balance       Money
	Delta         Money
	PercentChange float64
}

// Sampling steps per window size. Windows up to two days sample hourly,
// up to three months daily, and longer windows stretch the day step to keep
// the point count bounded.
const (
	hourlyWindowMax = 48 * time.Hour
	dailyWindowMax  = 92 * 24 * time.Hour
	maxSeriesPoints = 120
)

func sampleStep(window time.Duration) time.Duration {
	switch {
	case window <= hourlyWindowMax:
		return time.Hour
	case window <= dailyWindowMax:
		return 24 * time.Hour
	default:
		days := int(window/(24*time.Hour))/maxSeriesPoints + 1
		return time.Duration(days) * 24 * time.Hour
	}
}

// BalanceSeries computes a running balance at evenly spaced points from
// "from" to "to". The balance at time T is the starting balance plus all
// income strictly before T minus all expenses strictly before T.
// Transactions are treated as caller-owned and are not mutated.
func BalanceSeries(startingBalance Money, txs []Transaction, from, to time.Time) []BalanceSample {
	if !to.After(from) {
		return nil
	}

	ordered := make([]Transaction, len(txs))
	copy(ordered, txs)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Date.Before(ordered[j].Date) })

	step := sampleStep(to.Sub(from))

	var samples []BalanceSample
	balance := startingBalance.Cents
	idx := 0
	prev := startingBalance.Cents
	first := true

	for at := from; !at.After(to); at = at.Add(step) {
		for idx < len(ordered) && ordered[idx].Date.Before(at) {
			balance += ordered[idx].Signed()
			idx++
		}
		sample := BalanceSample{At: at, Balance: Money{Cents: balance}}
		if !first {
			sample.Delta = Money{Cents: balance - prev}
			if prev != 0 {
				sample.PercentChange = float64(balance-prev) / float64(abs64(prev)) * 100
			}
		}
		samples = append(samples, sample)
		prev = balance
		first = false
	}

	// Always land a final sample on the window end so "now" is represented.
	if last := samples[len(samples)-1]; last.At.Before(to) {
		for idx < len(ordered) && ordered[idx].Date.Before(to) {
			balance += ordered[idx].Signed()
			idx++
		}
		sample := BalanceSample{At: to, Balance: Money{Cents: balance}, Delta: Money{Cents: balance - prev}}
		if prev != 0 {
			sample.PercentChange = float64(balance-prev) / float64(abs64(prev)) * 100
		}
		samples = append(samples, sample)
	}

	return samples
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
