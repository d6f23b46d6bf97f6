package attendance

import (
	"time"

	"github.com/shopspring/decimal"
)

var secondsPerHour = decimal.NewFromInt(3600)

// Policy derives overtime and half-day status from the hours worked.
type Policy struct {
	StandardHours decimal.Decimal
	HalfDayHours  decimal.Decimal
}

func DefaultPolicy() Policy {
	return Policy{StandardHours: decimal.NewFromInt(8), HalfDayHours: decimal.NewFromInt(4)}
}

func NewPolicy(standardHours, halfDayHours float64) Policy {
	p := DefaultPolicy()
	if standardHours > 0 {
		p.StandardHours = decimal.NewFromFloat(standardHours)
	}
	if halfDayHours > 0 {
		p.HalfDayHours = decimal.NewFromFloat(halfDayHours)
	}
	return p
}

// Overtime is the part of hours above the standard day.
func (p Policy) Overtime(hours decimal.Decimal) decimal.Decimal {
	if hours.LessThanOrEqual(p.StandardHours) {
		return decimal.Zero
	}
	return hours.Sub(p.StandardHours).Round(2)
}

// StatusFor classifies a completed day.
func (p Policy) StatusFor(hours decimal.Decimal) Status {
	if hours.LessThan(p.HalfDayHours) {
		return StatusHalfDay
	}
	return StatusPresent
}

// WorkingHours is the elapsed time between checkIn and checkOut in hours,
// rounded to two decimals and never negative.
func WorkingHours(checkIn, checkOut time.Time) decimal.Decimal {
	elapsed := checkOut.Sub(checkIn)
	if elapsed <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(elapsed / time.Second)).Div(secondsPerHour).Round(2)
}

// RecordCheckIn starts the day. A row created by mark-absent may still be checked into.
func (a *Attendance) RecordCheckIn(now time.Time) error {
	if a.CheckIn != nil {
		return ErrAlreadyCheckedIn
	}
	a.CheckIn = &now
	a.Status = StatusPresent
	return nil
}

// RecordCheckOut closes the day and derives hours, overtime and status from policy.
func (a *Attendance) RecordCheckOut(now time.Time, policy Policy) error {
	if a.CheckIn == nil {
		return ErrNotCheckedIn
	}
	if a.CheckOut != nil {
		return ErrAlreadyCheckedOut
	}
	a.CheckOut = &now
	a.Recompute(policy)
	return nil
}

// Recompute refreshes hours, overtime and status from the stored times.
// Rows missing either time are left untouched.
func (a *Attendance) Recompute(policy Policy) {
	if a.CheckIn == nil || a.CheckOut == nil {
		return
	}
	a.WorkingHours = WorkingHours(*a.CheckIn, *a.CheckOut)
	a.OvertimeHours = policy.Overtime(a.WorkingHours)
	a.Status = policy.StatusFor(a.WorkingHours)
}
