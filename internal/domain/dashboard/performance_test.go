package dashboard

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestThresholds_Classify(t *testing.T) {
	th := DefaultThresholds()
	cases := []struct {
		name string
		avg  string
		pct  string
		want Classification
	}{
		{"long hours and attendance", "9", "95", HighPerformer},
		{"exactly on the hours bound", "8.5", "95", Neutral},
		{"exactly on the attendance bound", "9", "90", Neutral},
		{"low attendance", "9", "59.99", AtRisk},
		{"short days", "5.9", "80", AtRisk},
		{"middle of the road", "7", "75", Neutral},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := th.Classify(decimal.RequireFromString(c.avg), decimal.RequireFromString(c.pct))
			assert.Equal(t, c.want, got)
		})
	}
}

func TestThresholds_Evaluate(t *testing.T) {
	th := DefaultThresholds()

	s := th.Evaluate(decimal.NewFromInt(189), 21)
	assert.Equal(t, "9", s.AverageDailyHours.String())
	assert.Equal(t, "95.45", s.AttendancePercentage.String())
	assert.Equal(t, HighPerformer, s.Classification)
	assert.Equal(t, "Consider for Hike", s.Classification.Recommendation())

	s = th.Evaluate(decimal.Zero, 0)
	assert.True(t, s.AverageDailyHours.IsZero())
	assert.Equal(t, AtRisk, s.Classification)
	assert.Equal(t, "Needs Attention", s.Classification.Recommendation())

	s = th.Evaluate(decimal.NewFromInt(112), 16)
	assert.Equal(t, Neutral, s.Classification)
	assert.Equal(t, "None", s.Classification.Recommendation())
}

func TestNewThresholds_DefaultsNonPositive(t *testing.T) {
	th := NewThresholds(9, 0, -1, 5, 20)
	assert.Equal(t, "9", th.HighPerformerMinAvgHours.String())
	assert.Equal(t, "90", th.HighPerformerMinAttendance.String())
	assert.Equal(t, "60", th.AtRiskMaxAttendance.String())
	assert.Equal(t, "5", th.AtRiskMaxAvgHours.String())
	assert.Equal(t, 20, th.WorkingDaysPerMonth)
}
