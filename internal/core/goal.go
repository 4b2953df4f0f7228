package core

import (
	"strings"
	"time"
	"unicode/utf8"
)

// ProgressPercentage returns how much of the goal target has been saved,
// in [0, 100]. A zero target yields 0.
func (g Goal) ProgressPercentage() float64 {
	if g.Target.Cents <= 0 {
		return 0
	}
	p := float64(g.Saved.Cents) / float64(g.Target.Cents) * 100
	if p > 100 {
		return 100
	}
	return p
}

// ApplyProgress adds an amount to the saved total, clamping to
// [0, Target]. Crossing the target marks the goal completed and freezes
// Saved at Target. The receiver is returned updated; milestone reports
// whether this call crossed the finish line.
func (g Goal) ApplyProgress(amount Money) (updated Goal, milestone bool) {
	wasCompleted := g.Completed
	g.Saved.Cents += amount.Cents
	if g.Saved.Cents < 0 {
		g.Saved.Cents = 0
	}
	if g.Saved.Cents >= g.Target.Cents {
		g.Saved = g.Target
		g.Completed = true
	}
	return g, g.Completed && !wasCompleted
}

// MarkCompleted force-finishes the goal, setting Saved to the full
// target regardless of how much was saved before.
func (g Goal) MarkCompleted() Goal {
	g.Saved = g.Target
	g.Completed = true
	return g
}

// ResetProgress clears the saved amount and the completion flag.
func (g Goal) ResetProgress() Goal {
	g.Saved = Money{}
	g.Completed = false
	return g
}

func (g Goal) Validate(now time.Time) error {
	if strings.TrimSpace(g.Name) == "" {
		return ErrInvalidName
	}
	if utf8.RuneCountInString(g.Name) > 100 {
		return ErrInvalidName
	}
	if g.Target.Cents <= 0 || g.Target.Cents > MaxGoalTargetCents {
		return ErrInvalidTargetAmount
	}
	if !g.TargetDate.After(now) || g.TargetDate.After(now.AddDate(maxGoalHorizonYears, 0, 0)) {
		return ErrInvalidTargetDate
	}
	return nil
}
