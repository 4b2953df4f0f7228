package core

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	Daily   PeriodType = "daily"
	Weekly  PeriodType = "weekly"
	Monthly PeriodType = "monthly"
	Yearly  PeriodType = "yearly"
)

const (
	CategoryEssentials    Category = "essentials"
	CategoryFood          Category = "food"
	CategoryTransport     Category = "transport"
	CategoryHousing       Category = "housing"
	CategoryEntertainment Category = "entertainment"
	CategoryHealth        Category = "health"
	CategorySavings       Category = "savings"
	CategoryEducation     Category = "education"
	CategoryOther         Category = "other"
)

const (
	LoanActive  LoanStatus = "active"
	LoanPaidOff LoanStatus = "paid_off"
	LoanDefault LoanStatus = "defaulted"
)

const (
	LoanPersonal LoanType = "personal"
	LoanMortgage LoanType = "mortgage"
	LoanAuto     LoanType = "auto"
	LoanStudent  LoanType = "student"
	LoanCredit   LoanType = "credit_card"
)

type (
	PeriodType string
	Category   string
	LoanStatus string
	LoanType   string

	// Transaction is a single income or expense record. Amounts are stored
	// as a non-negative magnitude; IsIncome determines the sign.
	Transaction struct {
		ID           string
		Title        string
		Subtitle     string
		Amount       Money
		IsIncome     bool
		Category     Category
		Date         time.Time
		LinkedGoalID string
	}

	// Budget tracks spending in one category over a recurring window.
	// Remaining is always derived from Allocated and Spent, never stored.
	Budget struct {
		ID        string
		Category  Category
		Allocated Money
		Spent     Money
		StartDate time.Time
		EndDate   time.Time
		Period    PeriodType
	}

	// Goal is a savings target. Saved is clamped to [0, Target]; reaching
	// the target sets Completed and freezes Saved at Target.
	Goal struct {
		ID         string
		Name       string
		Target     Money
		Saved      Money
		TargetDate time.Time
		Notes      string
		Icon       string
		Completed  bool
	}

	Loan struct {
		ID             string
		Name           string
		Lender         string
		Original       Money
		CurrentBalance Money
		InterestRate   float64 // annual percentage
		MonthlyPayment Money
		StartDate      time.Time
		EndDate        time.Time
		Type           LoanType
		Status         LoanStatus
	}
)

var (
	ErrInvalidDate   = errors.New("invalid date")
	ErrEmptyTitle    = errors.New("empty title")
	ErrTitleTooLong  = errors.New("title too long (max 100 characters)")
	ErrEmptyCategory = errors.New("empty category")
)

// Signed returns the transaction amount with its sign applied: positive
// for income, negative for expenses.
func (t Transaction) Signed() int64 {
	if t.IsIncome {
		return t.Amount.Cents
	}
	return -t.Amount.Cents
}

// IsRecurring reports whether the transaction carries a recurring frequency
// keyword in its subtitle.
func (t Transaction) IsRecurring() bool {
	_, ok := t.RecurringFrequency()
	return ok
}

// RecurringFrequency extracts the frequency keyword from the subtitle.
func (t Transaction) RecurringFrequency() (PeriodType, bool) {
	sub := strings.ToLower(t.Subtitle)
	if !strings.Contains(sub, "recurring") {
		return "", false
	}
	switch {
	case strings.Contains(sub, "daily"):
		return Daily, true
	case strings.Contains(sub, "weekly"):
		return Weekly, true
	case strings.Contains(sub, "yearly"):
		return Yearly, true
	case strings.Contains(sub, "monthly"):
		return Monthly, true
	}
	// Tagged recurring without an explicit frequency defaults to monthly.
	return Monthly, true
}

func (t Transaction) Validate() error {
	if t.Date.IsZero() {
		return ErrInvalidDate
	}
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	title := strings.TrimSpace(t.Title)
	if title == "" {
		return ErrEmptyTitle
	}
	if utf8.RuneCountInString(t.Title) > 100 {
		return ErrTitleTooLong
	}
	if strings.TrimSpace(string(t.Category)) == "" {
		return ErrEmptyCategory
	}
	return nil
}

func (b Budget) Validate() error {
	if strings.TrimSpace(string(b.Category)) == "" {
		return ErrEmptyCategory
	}
	if b.Allocated.Cents <= 0 {
		return ErrInvalidAmount
	}
	switch b.Period {
	case Weekly, Monthly, Yearly:
	default:
		return errors.New("invalid period type")
	}
	if !b.EndDate.IsZero() && b.EndDate.Before(b.StartDate) {
		return errors.New("end date before start date")
	}
	return nil
}

func (l Loan) Validate() error {
	if strings.TrimSpace(l.Name) == "" {
		return errors.New("empty loan name")
	}
	if l.Original.Cents < 0 || l.CurrentBalance.Cents < 0 {
		return ErrInvalidAmount
	}
	if l.CurrentBalance.Cents > l.Original.Cents {
		return errors.New("current balance exceeds original amount")
	}
	return nil
}
