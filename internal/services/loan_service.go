package services

import (
	"context"
	"fmt"
	"time"

	"tally/internal/cache"
	"tally/internal/core"
	"tally/internal/storage"
)

const loanSummaryKey = "loan_summary"

// LoanService manages loans and serves the cached portfolio summary.
// Any write invalidates the summary cache.
type LoanService struct {
	loans storage.LoanRepository
	cache *cache.LRUCache[core.LoanSummary]
}

func NewLoanService(loans storage.LoanRepository, ttl time.Duration) *LoanService {
	return &LoanService{
		loans: loans,
		cache: cache.NewLRUCache[core.LoanSummary](1, ttl),
	}
}

// SummaryCache exposes the cache for cleanup registration.
func (s *LoanService) SummaryCache() *cache.LRUCache[core.LoanSummary] {
	return s.cache
}

func (s *LoanService) CreateLoan(ctx context.Context, l core.Loan) (core.Loan, error) {
	created, err := s.loans.CreateLoan(ctx, l)
	if err != nil {
		return core.Loan{}, err
	}
	s.cache.Delete(loanSummaryKey)
	return created, nil
}

func (s *LoanService) GetLoan(ctx context.Context, id string) (core.Loan, error) {
	return s.loans.GetLoan(ctx, id)
}

func (s *LoanService) UpdateLoan(ctx context.Context, l core.Loan) error {
	if err := s.loans.UpdateLoan(ctx, l); err != nil {
		return err
	}
	s.cache.Delete(loanSummaryKey)
	return nil
}

func (s *LoanService) DeleteLoan(ctx context.Context, id string) error {
	if err := s.loans.DeleteLoan(ctx, id); err != nil {
		return err
	}
	s.cache.Delete(loanSummaryKey)
	return nil
}

func (s *LoanService) ListLoans(ctx context.Context) ([]core.Loan, error) {
	return s.loans.ListLoans(ctx)
}

func (s *LoanService) ListLoansByStatus(ctx context.Context, status core.LoanStatus) ([]core.Loan, error) {
	return s.loans.ListLoansByStatus(ctx, status)
}

// RecordPayment reduces the balance by the paid amount. Paying the
// balance down to zero flips the loan to paid off.
func (s *LoanService) RecordPayment(ctx context.Context, id string, amount core.Money) (core.Loan, error) {
	if amount.Cents <= 0 {
		return core.Loan{}, core.ErrInvalidAmount
	}

	l, err := s.loans.GetLoan(ctx, id)
	if err != nil {
		return core.Loan{}, err
	}

	l.CurrentBalance.Cents -= amount.Cents
	if l.CurrentBalance.Cents <= 0 {
		l.CurrentBalance = core.Money{}
		l.Status = core.LoanPaidOff
	}

	if err := s.loans.UpdateLoan(ctx, l); err != nil {
		return core.Loan{}, fmt.Errorf("record loan payment: %w", err)
	}
	s.cache.Delete(loanSummaryKey)
	return l, nil
}

// Summary returns the aggregated portfolio view, cached between writes.
func (s *LoanService) Summary(ctx context.Context, now time.Time) (core.LoanSummary, error) {
	if cached, ok := s.cache.Get(loanSummaryKey); ok {
		return cached, nil
	}

	loans, err := s.loans.ListLoans(ctx)
	if err != nil {
		return core.LoanSummary{}, fmt.Errorf("list loans: %w", err)
	}

	summary := core.CalculateLoanSummary(loans, now)
	s.cache.Set(loanSummaryKey, summary)
	return summary, nil
}
