package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// Input holds the components a payroll total is computed from. Zero values count as 0.
type Input struct {
	BasicSalary    decimal.Decimal
	Allowances     Allowances
	Deductions     Deductions
	OvertimeAmount decimal.Decimal
	Bonus          decimal.Decimal
}

type Totals struct {
	TotalAllowances decimal.Decimal
	TotalDeductions decimal.Decimal
	GrossSalary     decimal.Decimal
	NetSalary       decimal.Decimal
}

// Aggregate computes gross = basic + allowances + overtime + bonus and net = gross - deductions.
// Inputs are not range checked here.
func Aggregate(in Input) Totals {
	allowances := in.Allowances.Total()
	deductions := in.Deductions.Total()
	gross := decimal.Sum(in.BasicSalary, allowances, in.OvertimeAmount, in.Bonus).Round(2)
	return Totals{
		TotalAllowances: allowances.Round(2),
		TotalDeductions: deductions.Round(2),
		GrossSalary:     gross,
		NetSalary:       gross.Sub(deductions).Round(2),
	}
}

func (p Payroll) Input() Input {
	return Input{
		BasicSalary:    p.BasicSalary,
		Allowances:     p.Allowances,
		Deductions:     p.Deductions,
		OvertimeAmount: p.OvertimeAmount,
		Bonus:          p.Bonus,
	}
}

// Recalculate refreshes gross and net from the stored components.
func (p *Payroll) Recalculate() {
	t := Aggregate(p.Input())
	p.GrossSalary = t.GrossSalary
	p.NetSalary = t.NetSalary
}

var transitions = map[PaymentStatus][]PaymentStatus{
	PaymentStatusPending:    {PaymentStatusProcessing, PaymentStatusPaid, PaymentStatusFailed},
	PaymentStatusProcessing: {PaymentStatusPaid, PaymentStatusFailed},
	PaymentStatusFailed:     {PaymentStatusPending},
}

// CanTransition reports whether a payment status may move from one value to another.
// Paid is terminal.
func CanTransition(from, to PaymentStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// TransitionTo moves the payment status forward. Reaching paid stamps the payment date
// unless paymentDate is given.
func (p *Payroll) TransitionTo(status PaymentStatus, paymentDate *time.Time, now time.Time) error {
	if p.IsPaid() {
		return ErrPayrollPaid
	}
	if !CanTransition(p.PaymentStatus, status) {
		return ErrInvalidStatusTransition
	}
	p.PaymentStatus = status
	if paymentDate != nil {
		p.PaymentDate = paymentDate
	} else if status == PaymentStatusPaid {
		p.PaymentDate = &now
	}
	return nil
}
