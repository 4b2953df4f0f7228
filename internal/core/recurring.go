package core

import "time"

// Monthly-equivalent multipliers for recurring frequencies.
// A daily expense recurs ~30 times a month, a weekly one 4.33 times,
// a yearly one contributes a twelfth.
func monthlyMultiplier(freq PeriodType) float64 {
	switch freq {
	case Daily:
		return 30
	case Weekly:
		return weeksPerMonth
	case Monthly:
		return 1
	case Yearly:
		return 1.0 / 12
	default:
		return 0
	}
}

// MonthlyEquivalent normalizes a single transaction to a monthly figure in
// currency units. Recurring transactions are scaled by their frequency;
// one-off transactions count at face value only when dated in the calendar
// month containing now, and zero otherwise.
func MonthlyEquivalent(t Transaction, now time.Time) float64 {
	if freq, ok := t.RecurringFrequency(); ok {
		return t.Amount.Units() * monthlyMultiplier(freq)
	}
	if t.Date.Year() == now.Year() && t.Date.Month() == now.Month() {
		return t.Amount.Units()
	}
	return 0
}

// MonthlyExpenseTotal sums the monthly-equivalent value of all expense
// transactions. Income records are ignored.
func MonthlyExpenseTotal(txs []Transaction, now time.Time) float64 {
	var total float64
	for _, t := range txs {
		if t.IsIncome {
			continue
		}
		total += MonthlyEquivalent(t, now)
	}
	return total
}

// NextOccurrence returns the first occurrence of a recurring transaction
// strictly after now, stepping from its original date by the recurring
// frequency. The second return is false for one-off transactions.
func NextOccurrence(t Transaction, now time.Time) (time.Time, bool) {
	freq, ok := t.RecurringFrequency()
	if !ok || t.Date.IsZero() {
		return time.Time{}, false
	}

	next := t.Date
	for !next.After(now) {
		switch freq {
		case Daily:
			next = next.AddDate(0, 0, 1)
		case Weekly:
			next = next.AddDate(0, 0, 7)
		case Monthly:
			next = next.AddDate(0, 1, 0)
		case Yearly:
			next = next.AddDate(1, 0, 0)
		default:
			return time.Time{}, false
		}
	}
	return next, true
}

// MonthlyExpensesByCategory breaks the monthly-equivalent expense total
// down per category.
func MonthlyExpensesByCategory(txs []Transaction, now time.Time) map[Category]float64 {
	out := make(map[Category]float64)
	for _, t := range txs {
		if t.IsIncome {
			continue
		}
		if v := MonthlyEquivalent(t, now); v != 0 {
			out[t.Category] += v
		}
	}
	return out
}
