package core

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

// ValidationResult collects human-readable problems with a submitted form.
// Logic branches on Valid; the strings are for display only.
type ValidationResult struct {
	Valid  bool
	Errors []string
}

func (r ValidationResult) add(msg string) ValidationResult {
	r.Valid = false
	r.Errors = append(r.Errors, msg)
	return r
}

// Err converts a failed result into a single wrapped error, joining the
// collected messages. A valid result yields nil.
func (r ValidationResult) Err() error {
	if r.Valid {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrValidationFailed, strings.Join(r.Errors, "; "))
}

var emailPattern = regexp.MustCompile(`^[A-Z0-9a-z._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,64}$`)

// ValidateTransaction checks a transaction entry form. Amounts above the
// 1,000,000-unit ceiling are rejected outright, not just flagged: the entry
// screens treat every listed error as blocking.
func ValidateTransaction(amount Money, title string, category Category) ValidationResult {
	res := ValidationResult{Valid: true}
	if amount.Cents <= 0 {
		res = res.add("Amount must be greater than 0")
	} else if amount.Cents > MaxAmountCents {
		res = res.add("Amount seems too large")
	}
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		res = res.add("Title is required")
	} else if utf8.RuneCountInString(title) > 100 {
		res = res.add("Title must be 100 characters or fewer")
	}
	if strings.TrimSpace(string(category)) == "" {
		res = res.add("Category is required")
	}
	return res
}

// MaxGoalTargetCents bounds savings goals to 10,000,000 currency units.
const MaxGoalTargetCents int64 = 10_000_000 * 100

// maxGoalHorizon rejects target dates more than 50 years out.
const maxGoalHorizonYears = 50

// ValidateGoal checks a savings-goal form against the clock passed in as
// now; it is the only validator that depends on the current time.
func ValidateGoal(name string, target Money, targetDate time.Time, now time.Time) ValidationResult {
	res := ValidationResult{Valid: true}
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		res = res.add("Name is required")
	} else if utf8.RuneCountInString(name) > 100 {
		res = res.add("Name must be 100 characters or fewer")
	}
	if target.Cents <= 0 {
		res = res.add("Target amount must be greater than 0")
	} else if target.Cents > MaxGoalTargetCents {
		res = res.add("Target amount seems too large")
	}
	if !targetDate.After(now) {
		res = res.add("Target date must be in the future")
	} else if targetDate.After(now.AddDate(maxGoalHorizonYears, 0, 0)) {
		res = res.add("Target date is too far in the future")
	}
	return res
}

// ValidEmail reports whether s looks like an email address.
func ValidEmail(s string) bool {
	return emailPattern.MatchString(strings.TrimSpace(s))
}

// TrimmedOrEmpty trims surrounding whitespace and collapses all-whitespace
// input to the empty string.
func TrimmedOrEmpty(s string) string {
	return strings.TrimSpace(s)
}
