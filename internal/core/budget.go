package core

const (
	BudgetOnTrack BudgetStatus = "on_track"
	BudgetWarning BudgetStatus = "warning"
	BudgetOver    BudgetStatus = "over"
)

// BudgetStatus buckets budget consumption for presentation.
type BudgetStatus string

// warningThreshold is the consumption ratio past which a budget is flagged.
const warningThreshold = 0.8

// Remaining is Allocated minus Spent. It may go negative when a budget is
// exceeded; it is always derived so it can never drift from its inputs.
func (b Budget) Remaining() Money {
	return Money{Cents: b.Allocated.Cents - b.Spent.Cents}
}

// Progress returns the consumed fraction of the budget, capped at 1.0.
// A zero allocation yields 0 rather than a division blowup.
func (b Budget) Progress() float64 {
	if b.Allocated.Cents <= 0 {
		return 0
	}
	p := float64(b.Spent.Cents) / float64(b.Allocated.Cents)
	if p > 1 {
		return 1
	}
	return p
}

func (b Budget) IsOverBudget() bool {
	return b.Spent.Cents > b.Allocated.Cents
}

// Status buckets the budget: over 100% is over, over 80% is a warning,
// anything else is on track.
func (b Budget) Status() BudgetStatus {
	switch {
	case b.IsOverBudget():
		return BudgetOver
	case b.Allocated.Cents > 0 && float64(b.Spent.Cents)/float64(b.Allocated.Cents) > warningThreshold:
		return BudgetWarning
	default:
		return BudgetOnTrack
	}
}
