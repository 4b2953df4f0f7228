package core

import (
	"testing"
	"time"
)

func TestLoanDerivedFields(t *testing.T) {
	l := Loan{Original: Money{Cents: 25_000_00}, CurrentBalance: Money{Cents: 18_500_00}}
	if got := l.TotalPaid().Cents; got != 6_500_00 {
		t.Fatalf("TotalPaid = %d, want 650000", got)
	}
	if got := l.ProgressPercentage(); got != 26 {
		t.Fatalf("ProgressPercentage = %v, want 26", got)
	}

	zero := Loan{}
	if got := zero.ProgressPercentage(); got != 0 {
		t.Fatalf("zero-original loan progress = %v, want 0", got)
	}

	done := Loan{Original: Money{Cents: 100}, CurrentBalance: Money{}}
	if got := done.ProgressPercentage(); got != 100 {
		t.Fatalf("paid-off progress = %v, want 100", got)
	}
}

func TestLoanNextPaymentDate(t *testing.T) {
	loc := time.UTC
	cases := []struct {
		name  string
		start time.Time
		now   time.Time
		want  time.Time
	}{
		{
			"later this month",
			time.Date(2025, 6, 15, 0, 0, 0, 0, loc),
			time.Date(2026, 3, 10, 9, 0, 0, 0, loc),
			time.Date(2026, 3, 15, 0, 0, 0, 0, loc),
		},
		{
			"already passed this month",
			time.Date(2025, 6, 5, 0, 0, 0, 0, loc),
			time.Date(2026, 3, 10, 9, 0, 0, 0, loc),
			time.Date(2026, 4, 5, 0, 0, 0, 0, loc),
		},
		{
			"day clamped to short month",
			time.Date(2025, 1, 31, 0, 0, 0, 0, loc),
			time.Date(2026, 4, 1, 0, 0, 0, 0, loc),
			time.Date(2026, 4, 30, 0, 0, 0, 0, loc),
		},
		{
			"rolls over year end",
			time.Date(2025, 1, 10, 0, 0, 0, 0, loc),
			time.Date(2026, 12, 20, 0, 0, 0, 0, loc),
			time.Date(2027, 1, 10, 0, 0, 0, 0, loc),
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			l := Loan{StartDate: tc.start}
			if got := l.NextPaymentDate(tc.now); !got.Equal(tc.want) {
				t.Fatalf("NextPaymentDate = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestCalculateLoanSummaryEmpty(t *testing.T) {
	s := CalculateLoanSummary(nil, time.Now())
	if s.ActiveLoans != 0 || s.PaidOffLoans != 0 {
		t.Fatalf("expected zero counts, got %+v", s)
	}
	if s.TotalDebt.Cents != 0 || s.TotalMonthlyPayments.Cents != 0 || s.TotalPaidOff.Cents != 0 {
		t.Fatalf("expected zero totals, got %+v", s)
	}
	if s.AverageInterestRate != 0 {
		t.Fatalf("expected zero average rate, got %v", s.AverageInterestRate)
	}
	if s.NextPaymentDate != nil {
		t.Fatalf("expected nil next payment date, got %v", s.NextPaymentDate)
	}
}

func TestCalculateLoanSummary(t *testing.T) {
	now := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	loans := []Loan{
		{
			Original:       Money{Cents: 25_000_00},
			CurrentBalance: Money{Cents: 18_500_00},
			MonthlyPayment: Money{Cents: 450_00},
			InterestRate:   6.5,
			StartDate:      time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC),
			Status:         LoanActive,
		},
		{
			Original:       Money{Cents: 5_000_00},
			CurrentBalance: Money{},
			Status:         LoanPaidOff,
		},
	}
	s := CalculateLoanSummary(loans, now)
	if s.ActiveLoans != 1 || s.PaidOffLoans != 1 {
		t.Fatalf("counts = %d active, %d paid off", s.ActiveLoans, s.PaidOffLoans)
	}
	if s.TotalDebt.Cents != 18_500_00 {
		t.Fatalf("TotalDebt = %d, want 1850000", s.TotalDebt.Cents)
	}
	if s.TotalPaidOff.Cents != 5_000_00 {
		t.Fatalf("TotalPaidOff = %d, want 500000", s.TotalPaidOff.Cents)
	}
	if s.TotalMonthlyPayments.Cents != 450_00 {
		t.Fatalf("TotalMonthlyPayments = %d, want 45000", s.TotalMonthlyPayments.Cents)
	}
	if s.AverageInterestRate != 6.5 {
		t.Fatalf("AverageInterestRate = %v, want 6.5", s.AverageInterestRate)
	}
	want := time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC)
	if s.NextPaymentDate == nil || !s.NextPaymentDate.Equal(want) {
		t.Fatalf("NextPaymentDate = %v, want %v", s.NextPaymentDate, want)
	}
}
