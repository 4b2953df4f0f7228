package core

import (
	"strings"
	"testing"
	"time"
)

func TestGoalApplyProgressClampAndComplete(t *testing.T) {
	g := Goal{Name: "Bike", Target: Money{Cents: 500_00}}

	// Saving 600 against a 500 target clamps and completes.
	g, milestone := g.ApplyProgress(Money{Cents: 600_00})
	if g.Saved.Cents != 500_00 {
		t.Fatalf("Saved = %d, want 50000 (clamped)", g.Saved.Cents)
	}
	if !g.Completed || !milestone {
		t.Fatalf("Completed = %v, milestone = %v, want true/true", g.Completed, milestone)
	}

	// Further progress on a completed goal is not a new milestone.
	g, milestone = g.ApplyProgress(Money{Cents: 100_00})
	if milestone {
		t.Fatal("repeated completion must not report a milestone")
	}
	if g.Saved.Cents != 500_00 {
		t.Fatalf("Saved drifted past target: %d", g.Saved.Cents)
	}
}

func TestGoalApplyProgressNegativeClampsAtZero(t *testing.T) {
	g := Goal{Target: Money{Cents: 500_00}, Saved: Money{Cents: 100_00}}
	g, _ = g.ApplyProgress(Money{Cents: -300_00})
	if g.Saved.Cents != 0 {
		t.Fatalf("Saved = %d, want 0", g.Saved.Cents)
	}
}

func TestGoalMarkCompleted(t *testing.T) {
	g := Goal{Target: Money{Cents: 500_00}, Saved: Money{Cents: 120_00}}
	g = g.MarkCompleted()
	if g.Saved.Cents != 500_00 {
		t.Fatalf("Saved = %d, want 50000 (forced to target)", g.Saved.Cents)
	}
	if !g.Completed {
		t.Fatal("goal must be completed")
	}
}

func TestGoalResetProgress(t *testing.T) {
	g := Goal{Target: Money{Cents: 500_00}, Saved: Money{Cents: 500_00}, Completed: true}
	g = g.ResetProgress()
	if g.Saved.Cents != 0 || g.Completed {
		t.Fatalf("after reset: saved=%d completed=%v", g.Saved.Cents, g.Completed)
	}
}

func TestGoalProgressPercentage(t *testing.T) {
	g := Goal{Target: Money{Cents: 400_00}, Saved: Money{Cents: 100_00}}
	if got := g.ProgressPercentage(); got != 25 {
		t.Fatalf("ProgressPercentage = %v, want 25", got)
	}
	if got := (Goal{}).ProgressPercentage(); got != 0 {
		t.Fatalf("zero-target progress = %v, want 0", got)
	}
}

func TestGoalValidate(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	good := Goal{Name: "Trip", Target: Money{Cents: 1000_00}, TargetDate: now.AddDate(0, 6, 0)}
	if err := good.Validate(now); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	accented := good
	accented.Name = strings.Repeat("à", 100)
	if err := accented.Validate(now); err != nil {
		t.Fatalf("100-rune name rejected: %v", err)
	}
	accented.Name = strings.Repeat("à", 101)
	if err := accented.Validate(now); err != ErrInvalidName {
		t.Fatalf("expected ErrInvalidName, got %v", err)
	}
	bad := good
	bad.TargetDate = now
	if err := bad.Validate(now); err != ErrInvalidTargetDate {
		t.Fatalf("expected ErrInvalidTargetDate, got %v", err)
	}
	bad = good
	bad.Target = Money{}
	if err := bad.Validate(now); err != ErrInvalidTargetAmount {
		t.Fatalf("expected ErrInvalidTargetAmount, got %v", err)
	}
}
