package salary

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal, field string) {
	t.Helper()
	assert.Truef(t, dec(want).Equal(got), "%s: want %s, got %s", field, want, got.String())
}

func TestCalculate_ZeroBasic(t *testing.T) {
	b, err := Calculate(decimal.Zero)
	require.NoError(t, err)

	assertDecimal(t, "0", b.HRA, "hra")
	assertDecimal(t, "0", b.DA, "da")
	assertDecimal(t, "0", b.TA, "ta")
	assertDecimal(t, "1250", b.MedicalAllowance, "medical")
	assertDecimal(t, "0", b.OtherAllowances, "other")
	assertDecimal(t, "1250", b.GrossSalary, "gross")
	assertDecimal(t, "0", b.PF, "pf")
	assertDecimal(t, "9.38", b.ESI, "esi")
	assertDecimal(t, "200", b.ProfessionalTax, "professional tax")
	assertDecimal(t, "125", b.TDS, "tds")
	assertDecimal(t, "334.38", b.TotalDeductions, "total deductions")
	assertDecimal(t, "915.62", b.NetSalary, "net")
}

func TestCalculate_Breakdowns(t *testing.T) {
	cases := []struct {
		basic, gross, esi, deductions, net string
	}{
		{basic: "10000", gross: "17250", esi: "129.38", deductions: "3254.38", net: "13995.62"},
		{basic: "50000", gross: "81250", esi: "0", deductions: "14325", net: "66925"},
	}

	for _, c := range cases {
		t.Run(c.basic, func(t *testing.T) {
			b, err := Calculate(dec(c.basic))
			require.NoError(t, err)
			assertDecimal(t, c.gross, b.GrossSalary, "gross")
			assertDecimal(t, c.esi, b.ESI, "esi")
			assertDecimal(t, c.deductions, b.TotalDeductions, "total deductions")
			assertDecimal(t, c.net, b.NetSalary, "net")
		})
	}
}

func TestCalculate_ComponentsSumToTotals(t *testing.T) {
	for _, basic := range []string{"0", "1", "999.99", "12345.67", "28000", "100000"} {
		b, err := Calculate(dec(basic))
		require.NoError(t, err)

		gross := b.BasicSalary.Add(b.HRA).Add(b.DA).Add(b.TA).Add(b.MedicalAllowance).Add(b.OtherAllowances)
		assert.True(t, gross.Round(2).Equal(b.GrossSalary), basic)

		deductions := b.PF.Add(b.ESI).Add(b.ProfessionalTax).Add(b.TDS)
		assert.True(t, deductions.Round(2).Equal(b.TotalDeductions), basic)
		assert.True(t, b.GrossSalary.Sub(b.TotalDeductions).Equal(b.NetSalary), basic)
	}
}

func TestCalculate_ESICeiling(t *testing.T) {
	below, err := Calculate(dec("12300"))
	require.NoError(t, err)
	assertDecimal(t, "20930", below.GrossSalary, "gross")
	assertDecimal(t, "156.98", below.ESI, "esi")

	above, err := Calculate(dec("12400"))
	require.NoError(t, err)
	assertDecimal(t, "21090", above.GrossSalary, "gross")
	assert.True(t, above.ESI.IsZero())
}

func TestCalculate_NegativeBasic(t *testing.T) {
	_, err := Calculate(dec("-1"))
	assert.ErrorIs(t, err, ErrInvalidBasicSalary)
}
