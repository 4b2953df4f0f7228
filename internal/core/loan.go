package core

import "time"

// TotalPaid is the amount already repaid on the loan.
func (l Loan) TotalPaid() Money {
	return Money{Cents: l.Original.Cents - l.CurrentBalance.Cents}
}

// ProgressPercentage returns repayment progress in [0, 100]. A zero
// original amount yields 0.
func (l Loan) ProgressPercentage() float64 {
	if l.Original.Cents <= 0 {
		return 0
	}
	p := float64(l.TotalPaid().Cents) / float64(l.Original.Cents) * 100
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// NextPaymentDate rolls the start date's day-of-month forward from now.
// The payment day is clamped to the length of shorter months, so a loan
// started on the 31st falls due on the 30th of April.
func (l Loan) NextPaymentDate(now time.Time) time.Time {
	targetDay := l.StartDate.Day()
	year, month := now.Year(), now.Month()

	due := paymentDateIn(year, month, targetDay, now.Location())
	if !due.After(now) {
		next := time.Date(year, month+1, 1, 0, 0, 0, 0, now.Location())
		due = paymentDateIn(next.Year(), next.Month(), targetDay, now.Location())
	}
	return due
}

func paymentDateIn(year int, month time.Month, targetDay int, loc *time.Location) time.Time {
	lastDay := time.Date(year, month+1, 0, 0, 0, 0, 0, loc).Day()
	if targetDay > lastDay {
		targetDay = lastDay
	}
	return time.Date(year, month, targetDay, 0, 0, 0, 0, loc)
}

// LoanSummary aggregates a loan portfolio for the overview screens.
type LoanSummary struct {
	ActiveLoans          int
	PaidOffLoans         int
	TotalDebt            Money
	TotalMonthlyPayments Money
	AverageInterestRate  float64
	TotalPaidOff         Money
	NextPaymentDate      *time.Time
}

// CalculateLoanSummary folds a set of loans into portfolio totals. An empty
// input yields zero fields and a nil next payment date.
func CalculateLoanSummary(loans []Loan, now time.Time) LoanSummary {
	var s LoanSummary
	var rateSum float64
	for _, l := range loans {
		if l.Status == LoanPaidOff {
			s.PaidOffLoans++
			s.TotalPaidOff.Cents += l.Original.Cents
			continue
		}
		s.ActiveLoans++
		s.TotalDebt.Cents += l.CurrentBalance.Cents
		s.TotalMonthlyPayments.Cents += l.MonthlyPayment.Cents
		rateSum += l.InterestRate

		due := l.NextPaymentDate(now)
		if s.NextPaymentDate == nil || due.Before(*s.NextPaymentDate) {
			d := due
			s.NextPaymentDate = &d
		}
	}
	if s.ActiveLoans > 0 {
		s.AverageInterestRate = rateSum / float64(s.ActiveLoans)
	}
	return s
}
