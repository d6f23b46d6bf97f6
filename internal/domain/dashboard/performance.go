package dashboard

import "github.com/shopspring/decimal"

type Classification string

const (
	HighPerformer Classification = "High Performer"
	AtRisk        Classification = "At Risk"
	Neutral       Classification = "Neutral"
)

// Recommendation is the follow-up suggested for each classification.
func (c Classification) Recommendation() string {
	switch c {
	case HighPerformer:
		return "Consider for Hike"
	case AtRisk:
		return "Needs Attention"
	default:
		return "None"
	}
}

// Thresholds drive the performance classification. Percentages are 0-100.
type Thresholds struct {
	HighPerformerMinAvgHours   decimal.Decimal
	HighPerformerMinAttendance decimal.Decimal
	AtRiskMaxAttendance        decimal.Decimal
	AtRiskMaxAvgHours          decimal.Decimal
	WorkingDaysPerMonth        int
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		HighPerformerMinAvgHours:   decimal.RequireFromString("8.5"),
		HighPerformerMinAttendance: decimal.NewFromInt(90),
		AtRiskMaxAttendance:        decimal.NewFromInt(60),
		AtRiskMaxAvgHours:          decimal.NewFromInt(6),
		WorkingDaysPerMonth:        22,
	}
}

// NewThresholds falls back to the default for every non-positive value.
func NewThresholds(minAvgHours, minAttendance, riskAttendance, riskAvgHours float64, workingDays int) Thresholds {
	t := DefaultThresholds()
	if minAvgHours > 0 {
		t.HighPerformerMinAvgHours = decimal.NewFromFloat(minAvgHours)
	}
	if minAttendance > 0 {
		t.HighPerformerMinAttendance = decimal.NewFromFloat(minAttendance)
	}
	if riskAttendance > 0 {
		t.AtRiskMaxAttendance = decimal.NewFromFloat(riskAttendance)
	}
	if riskAvgHours > 0 {
		t.AtRiskMaxAvgHours = decimal.NewFromFloat(riskAvgHours)
	}
	if workingDays > 0 {
		t.WorkingDaysPerMonth = workingDays
	}
	return t
}

// Score holds the derived metrics of one employee over one month.
type Score struct {
	AverageDailyHours    decimal.Decimal
	AttendancePercentage decimal.Decimal
	Classification       Classification
}

// Evaluate derives average daily hours (one decimal) and attendance
// percentage (two decimals) and classifies them. High performer wins over at risk.
func (t Thresholds) Evaluate(totalHours decimal.Decimal, presentDays int64) Score {
	var s Score
	if presentDays > 0 {
		s.AverageDailyHours = totalHours.Div(decimal.NewFromInt(presentDays)).Round(1)
	}
	if t.WorkingDaysPerMonth > 0 {
		s.AttendancePercentage = decimal.NewFromInt(presentDays).
			Mul(decimal.NewFromInt(100)).
			Div(decimal.NewFromInt(int64(t.WorkingDaysPerMonth))).
			Round(2)
	}
	s.Classification = t.Classify(s.AverageDailyHours, s.AttendancePercentage)
	return s
}

func (t Thresholds) Classify(avgHours, attendancePct decimal.Decimal) Classification {
	switch {
	case avgHours.GreaterThan(t.HighPerformerMinAvgHours) && attendancePct.GreaterThan(t.HighPerformerMinAttendance):
		return HighPerformer
	case attendancePct.LessThan(t.AtRiskMaxAttendance) || avgHours.LessThan(t.AtRiskMaxAvgHours):
		return AtRisk
	default:
		return Neutral
	}
}
