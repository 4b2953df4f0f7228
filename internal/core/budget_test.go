package core

import "testing"

func TestBudgetRemainingInvariant(t *testing.T) {
	b := Budget{Allocated: Money{Cents: 50_000}}

	// Remaining must equal allocated minus spent after any mutation sequence.
	deltas := []int64{10_000, 15_000, -5_000, 40_000}
	for _, d := range deltas {
		b.Spent.Cents += d
		if got := b.Remaining().Cents; got != b.Allocated.Cents-b.Spent.Cents {
			t.Fatalf("Remaining = %d, want %d", got, b.Allocated.Cents-b.Spent.Cents)
		}
	}
	// Overspent budgets go negative rather than clamping.
	if b.Remaining().Cents >= 0 {
		t.Fatalf("expected negative remaining, got %d", b.Remaining().Cents)
	}
}

func TestBudgetProgress(t *testing.T) {
	cases := []struct {
		name      string
		allocated int64
		spent     int64
		progress  float64
		over      bool
		status    BudgetStatus
	}{
		{"untouched", 10_000, 0, 0, false, BudgetOnTrack},
		{"half", 10_000, 5_000, 0.5, false, BudgetOnTrack},
		{"warning", 10_000, 8_500, 0.85, false, BudgetWarning},
		{"at limit", 10_000, 10_000, 1, false, BudgetWarning},
		{"over", 10_000, 12_000, 1, true, BudgetOver},
		{"zero allocation", 0, 5_000, 0, true, BudgetOver},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := Budget{Allocated: Money{Cents: tc.allocated}, Spent: Money{Cents: tc.spent}}
			if got := b.Progress(); got != tc.progress {
				t.Errorf("Progress = %v, want %v", got, tc.progress)
			}
			if got := b.IsOverBudget(); got != tc.over {
				t.Errorf("IsOverBudget = %v, want %v", got, tc.over)
			}
			if got := b.Status(); got != tc.status {
				t.Errorf("Status = %v, want %v", got, tc.status)
			}
		})
	}
}
