package leave

import "time"

// CountDays is the inclusive number of calendar days from start to end.
func CountDays(start, end time.Time) (int, error) {
	s := truncateDay(start)
	e := truncateDay(end)
	if e.Before(s) {
		return 0, ErrEndBeforeStart
	}
	// Calendar dates carry no DST shift once truncated in UTC.
	return int(e.Sub(s).Hours()/24) + 1, nil
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Overlaps reports whether the inclusive ranges [aStart, aEnd] and [bStart, bEnd] share a day.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return !truncateDay(aStart).After(truncateDay(bEnd)) && !truncateDay(bStart).After(truncateDay(aEnd))
}

// Review moves a pending leave to approved or rejected.
func (l *Leave) Review(status Status, approverID string, remarks *string, now time.Time) error {
	if status != StatusApproved && status != StatusRejected {
		return ErrInvalidReviewStatus
	}
	if l.Status != StatusPending {
		return ErrLeaveNotPending
	}
	l.Status = status
	l.ApprovedBy = &approverID
	l.ApprovalDate = &now
	l.ApprovalRemarks = remarks
	return nil
}

// Cancel withdraws a pending or approved leave that has not started before today.
func (l *Leave) Cancel(today time.Time) error {
	if l.Status != StatusPending && l.Status != StatusApproved {
		return ErrLeaveNotCancellable
	}
	if truncateDay(l.StartDate).Before(truncateDay(today)) {
		return ErrLeaveAlreadyStarted
	}
	l.Status = StatusCancelled
	return nil
}

// Reschedule changes the dates of a pending leave and recounts its days.
func (l *Leave) Reschedule(start, end time.Time) error {
	if l.Status != StatusPending {
		return ErrLeaveNotPending
	}
	days, err := CountDays(start, end)
	if err != nil {
		return err
	}
	l.StartDate = start
	l.EndDate = end
	l.NumberOfDays = days
	return nil
}

// Balance is the remaining entitlement of one leave type.
type Balance struct {
	LeaveType string `json:"leave_type"`
	Unlimited bool   `json:"unlimited"`
	Entitled  *int   `json:"entitled"`
	Taken     int    `json:"taken"`
	Remaining *int   `json:"remaining"`
}

// Balances combines yearly entitlements with approved days taken. A negative
// entitlement means unlimited. Types without an entitlement are omitted.
func Balances(entitlements map[string]int, taken map[Type]int) []Balance {
	out := make([]Balance, 0, len(Types))
	for _, t := range Types {
		entitled, ok := entitlements[string(t)]
		if !ok {
			continue
		}
		b := Balance{LeaveType: string(t), Taken: taken[t]}
		if entitled < 0 {
			b.Unlimited = true
		} else {
			e := entitled
			remaining := entitled - b.Taken
			b.Entitled = &e
			b.Remaining = &remaining
		}
		out = append(out, b)
	}
	return out
}
