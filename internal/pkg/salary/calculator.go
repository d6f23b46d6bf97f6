// Package salary derives the statutory allowance and deduction breakdown of a basic salary.
package salary

import (
	"errors"

	"github.com/shopspring/decimal"
)

var ErrInvalidBasicSalary = errors.New("basic salary must not be negative")

var (
	hraRate     = decimal.RequireFromString("0.40")
	daRate      = decimal.RequireFromString("0.10")
	taRate      = decimal.RequireFromString("0.05")
	otherRate   = decimal.RequireFromString("0.05")
	pfRate      = decimal.RequireFromString("0.12")
	esiRate     = decimal.RequireFromString("0.0075")
	tdsRate     = decimal.RequireFromString("0.10")
	esiCeiling  = decimal.NewFromInt(21000)
	medicalFlat = decimal.NewFromInt(1250)
	ptFlat      = decimal.NewFromInt(200)
)

// Breakdown is a point-in-time salary snapshot.
type Breakdown struct {
	BasicSalary      decimal.Decimal `json:"basic_salary"`
	HRA              decimal.Decimal `json:"hra"`
	DA               decimal.Decimal `json:"da"`
	TA               decimal.Decimal `json:"ta"`
	MedicalAllowance decimal.Decimal `json:"medical_allowance"`
	OtherAllowances  decimal.Decimal `json:"other_allowances"`
	GrossSalary      decimal.Decimal `json:"gross_salary"`
	PF               decimal.Decimal `json:"pf"`
	ESI              decimal.Decimal `json:"esi"`
	ProfessionalTax  decimal.Decimal `json:"professional_tax"`
	TDS              decimal.Decimal `json:"tds"`
	TotalDeductions  decimal.Decimal `json:"total_deductions"`
	NetSalary        decimal.Decimal `json:"net_salary"`
}

func round(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Calculate returns the breakdown for basic. Every component is rounded to two
// decimals before it is summed.
func Calculate(basic decimal.Decimal) (Breakdown, error) {
	if basic.IsNegative() {
		return Breakdown{}, ErrInvalidBasicSalary
	}

	b := Breakdown{
		BasicSalary:      round(basic),
		HRA:              round(basic.Mul(hraRate)),
		DA:               round(basic.Mul(daRate)),
		TA:               round(basic.Mul(taRate)),
		MedicalAllowance: medicalFlat,
		OtherAllowances:  round(basic.Mul(otherRate)),
	}
	b.GrossSalary = round(b.BasicSalary.Add(b.HRA).Add(b.DA).Add(b.TA).Add(b.MedicalAllowance).Add(b.OtherAllowances))

	b.PF = round(basic.Mul(pfRate))
	b.ESI = decimal.Zero
	if b.GrossSalary.LessThan(esiCeiling) {
		b.ESI = round(b.GrossSalary.Mul(esiRate))
	}
	b.ProfessionalTax = ptFlat
	b.TDS = round(b.GrossSalary.Mul(tdsRate))

	b.TotalDeductions = round(b.PF.Add(b.ESI).Add(b.ProfessionalTax).Add(b.TDS))
	b.NetSalary = round(b.GrossSalary.Sub(b.TotalDeductions))
	return b, nil
}
