package core

// TimeScale is a monetary-rate base: an amount per hour, day, week, month
// or year. Conversion goes through a common hourly-equivalent intermediate.
type TimeScale string

const (
	ScaleHourly  TimeScale = "hourly"
	ScaleDaily   TimeScale = "daily"
	ScaleWeekly  TimeScale = "weekly"
	ScaleMonthly TimeScale = "monthly"
	ScaleYearly  TimeScale = "yearly"
)

// Hours per scale period. 730 = 8760/12, which keeps monthly↔yearly an
// exact factor of twelve.
func (s TimeScale) factor() float64 {
	switch s {
	case ScaleHourly:
		return 1
	case ScaleDaily:
		return 24
	case ScaleWeekly:
		return 168
	case ScaleMonthly:
		return 730
	case ScaleYearly:
		return 8760
	default:
		return 0
	}
}

// ConvertRate translates a monetary rate between time scales:
// the value is reduced to an hourly equivalent, then scaled back up.
// Unknown scales yield 0.
func ConvertRate(value float64, from, to TimeScale) float64 {
	ff, tf := from.factor(), to.factor()
	if ff == 0 || tf == 0 {
		return 0
	}
	return value / ff * tf
}

// weeksPerMonth is the budgeting convention for converting weekly figures
// to monthly ones (52 weeks / 12 months).
const weeksPerMonth = 4.33

// WorkSchedule describes an hourly income arrangement.
type WorkSchedule struct {
	HourlyRate   float64
	HoursPerWeek float64
}

func (w WorkSchedule) WeeklyIncome() float64 {
	return w.HourlyRate * w.HoursPerWeek
}

func (w WorkSchedule) DailyIncome() float64 {
	return w.WeeklyIncome() / 7
}

func (w WorkSchedule) MonthlyIncome() float64 {
	return w.WeeklyIncome() * weeksPerMonth
}

func (w WorkSchedule) YearlyIncome() float64 {
	return w.WeeklyIncome() * 52
}

// IncomeForScale returns the schedule's income expressed on the given scale.
func (w WorkSchedule) IncomeForScale(scale TimeScale) float64 {
	switch scale {
	case ScaleHourly:
		return w.HourlyRate
	case ScaleDaily:
		return w.DailyIncome()
	case ScaleWeekly:
		return w.WeeklyIncome()
	case ScaleMonthly:
		return w.MonthlyIncome()
	case ScaleYearly:
		return w.YearlyIncome()
	default:
		return 0
	}
}

// MonthlyToScale converts a monthly figure to the target scale by the fixed
// factor ratio. Used for expense breakdowns and loan payments, which are
// tracked monthly.
func MonthlyToScale(monthly float64, to TimeScale) float64 {
	return ConvertRate(monthly, ScaleMonthly, to)
}
