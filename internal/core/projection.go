package core

// IncomeProjection is the per-scale view of income against monthly
// obligations. All figures are in currency units on the requested scale.
type IncomeProjection struct {
	Scale                    TimeScale
	CurrentIncome            float64
	ProjectedIncome          float64
	Expenses                 float64
	LoanPayments             float64
	AvailableIncome          float64
	ProjectedAvailableIncome float64
}

// ProjectionInput carries the monthly baseline figures a projection is
// derived from. ProjectedSchedule models a contemplated change (new rate or
// hours); when zero-valued the current schedule is reused.
type ProjectionInput struct {
	Schedule          WorkSchedule
	ProjectedSchedule WorkSchedule
	MonthlyExpenses   float64
	MonthlyLoans      float64
}

func (in ProjectionInput) projected() WorkSchedule {
	if in.ProjectedSchedule == (WorkSchedule{}) {
		return in.Schedule
	}
	return in.ProjectedSchedule
}

// ProjectIncome computes current and projected income for one time scale,
// converts the monthly expense and loan figures to that scale, and derives
// what is left over.
func ProjectIncome(in ProjectionInput, scale TimeScale) IncomeProjection {
	current := in.Schedule.IncomeForScale(scale)
	projected := in.projected().IncomeForScale(scale)
	expenses := MonthlyToScale(in.MonthlyExpenses, scale)
	loans := MonthlyToScale(in.MonthlyLoans, scale)

	return IncomeProjection{
		Scale:                    scale,
		CurrentIncome:            current,
		ProjectedIncome:          projected,
		Expenses:                 expenses,
		LoanPayments:             loans,
		AvailableIncome:          current - expenses - loans,
		ProjectedAvailableIncome: projected - expenses - loans,
	}
}

// ProjectAllScales runs the projection for every supported time scale.
func ProjectAllScales(in ProjectionInput) []IncomeProjection {
	scales := []TimeScale{ScaleHourly, ScaleDaily, ScaleWeekly, ScaleMonthly, ScaleYearly}
	out := make([]IncomeProjection, 0, len(scales))
	for _, s := range scales {
		out = append(out, ProjectIncome(in, s))
	}
	return out
}

// RequiredHourlyRate returns the hourly rate needed to cover monthly
// expenses, loan payments and an optional monthly savings target with the
// given weekly hours. Zero hours yields 0.
func RequiredHourlyRate(monthlyExpenses, monthlyLoans, targetSavings, hoursPerWeek float64) float64 {
	if hoursPerWeek <= 0 {
		return 0
	}
	return (monthlyExpenses + monthlyLoans + targetSavings) / (hoursPerWeek * weeksPerMonth)
}
