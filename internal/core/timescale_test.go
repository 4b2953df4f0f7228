package core

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestConvertRate(t *testing.T) {
	cases := []struct {
		value    float64
		from, to TimeScale
		want     float64
	}{
		{100, ScaleMonthly, ScaleYearly, 1200},
		{1200, ScaleYearly, ScaleMonthly, 100},
		{24, ScaleDaily, ScaleHourly, 1},
		{1, ScaleHourly, ScaleDaily, 24},
		{168, ScaleWeekly, ScaleHourly, 1},
		{0, ScaleMonthly, ScaleYearly, 0},
	}
	for _, tc := range cases {
		if got := ConvertRate(tc.value, tc.from, tc.to); !almostEqual(got, tc.want) {
			t.Errorf("ConvertRate(%v, %s, %s) = %v, want %v", tc.value, tc.from, tc.to, got, tc.want)
		}
	}
}

func TestConvertRateRoundTrip(t *testing.T) {
	scales := []TimeScale{ScaleHourly, ScaleDaily, ScaleWeekly, ScaleMonthly, ScaleYearly}
	for _, from := range scales {
		for _, to := range scales {
			back := ConvertRate(ConvertRate(250, from, to), to, from)
			if !almostEqual(back, 250) {
				t.Errorf("round trip %s -> %s -> %s = %v, want 250", from, to, from, back)
			}
		}
	}
}

func TestConvertRateUnknownScale(t *testing.T) {
	if got := ConvertRate(100, "fortnightly", ScaleYearly); got != 0 {
		t.Fatalf("unknown scale should yield 0, got %v", got)
	}
}

func TestWorkScheduleIncome(t *testing.T) {
	w := WorkSchedule{HourlyRate: 20, HoursPerWeek: 40}
	if got := w.WeeklyIncome(); got != 800 {
		t.Fatalf("WeeklyIncome = %v, want 800", got)
	}
	if got := w.DailyIncome(); !almostEqual(got, 800.0/7) {
		t.Fatalf("DailyIncome = %v", got)
	}
	if got := w.MonthlyIncome(); !almostEqual(got, 800*4.33) {
		t.Fatalf("MonthlyIncome = %v, want %v", got, 800*4.33)
	}
	if got := w.YearlyIncome(); got != 800*52 {
		t.Fatalf("YearlyIncome = %v, want %v", got, 800*52)
	}
	if got := w.IncomeForScale(ScaleHourly); got != 20 {
		t.Fatalf("IncomeForScale(hourly) = %v, want 20", got)
	}
}
