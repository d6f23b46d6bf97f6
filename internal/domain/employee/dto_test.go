package employee

import (
	"testing"

	"github.com/cmlabs-hris/hrms-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func validOnboard() OnboardEmployeeRequest {
	return OnboardEmployeeRequest{
		CompanyID:      "5f0c8a36-3a0e-4c55-9a43-6b1e1b0a2f11",
		FirstName:      " Al ",
		LastName:       "B",
		Email:          " Al.B@Acme.Test ",
		Department:     "Engineering",
		Designation:    "Engineer",
		EmploymentType: "permanent",
		DateOfJoining:  "2024-01-15",
		BasicSalary:    decimal.NewFromInt(30000),
	}
}

func TestOnboardEmployeeRequest_Validate_Normalises(t *testing.T) {
	req := validOnboard()
	require.NoError(t, req.Validate())
	assert.Equal(t, "Al", req.FirstName)
	assert.Equal(t, "al.b@acme.test", req.Email)
	assert.Equal(t, "employee", req.Role)
	assert.Equal(t, 2024, req.JoiningDate().Year())
}

func TestOnboardEmployeeRequest_Validate_RejectsNonPositiveSalary(t *testing.T) {
	for _, basic := range []decimal.Decimal{decimal.Zero, decimal.NewFromInt(-5)} {
		req := validOnboard()
		req.BasicSalary = basic

		var verrs validator.ValidationErrors
		require.ErrorAs(t, req.Validate(), &verrs)
		assert.Contains(t, verrs.ToMap(), "basic_salary")
	}
}

func TestOnboardEmployeeRequest_Validate_FieldErrors(t *testing.T) {
	req := validOnboard()
	req.EmploymentType = "freelance"
	req.DateOfJoining = "15/01/2024"
	req.Phone = strPtr("abc")

	var verrs validator.ValidationErrors
	require.ErrorAs(t, req.Validate(), &verrs)
	m := verrs.ToMap()
	assert.Contains(t, m, "employment_type")
	assert.Contains(t, m, "date_of_joining")
	assert.Contains(t, m, "phone")
}

func TestOnboardEmployeeRequest_ToEmployee(t *testing.T) {
	req := validOnboard()
	req.DateOfBirth = strPtr("1990-05-06")
	req.Gender = strPtr("female")
	require.NoError(t, req.Validate())

	e := req.ToEmployee()
	assert.Equal(t, StatusActive, e.Status)
	assert.Equal(t, EmploymentTypePermanent, e.EmploymentType)
	require.NotNil(t, e.DateOfBirth)
	assert.Equal(t, 1990, e.DateOfBirth.Year())
	require.NotNil(t, e.Gender)
	assert.Equal(t, GenderFemale, *e.Gender)
}

func TestUpdateEmployeeRequest_SelfService(t *testing.T) {
	req := UpdateEmployeeRequest{Phone: strPtr("+628123456789"), City: strPtr("Malang")}
	require.NoError(t, req.Validate())
	assert.True(t, req.OnlySelfService())

	salary := decimal.NewFromInt(40000)
	req.BasicSalary = &salary
	assert.False(t, req.OnlySelfService())

	req = UpdateEmployeeRequest{Designation: strPtr("Lead")}
	assert.False(t, req.OnlySelfService())
}

func TestUpdateEmployeeRequest_Validate(t *testing.T) {
	empty := UpdateEmployeeRequest{}
	assert.Error(t, empty.Validate())

	bad := UpdateEmployeeRequest{FirstName: strPtr("  "), Status: strPtr("retired"), Role: strPtr("owner")}
	var verrs validator.ValidationErrors
	require.ErrorAs(t, bad.Validate(), &verrs)
	m := verrs.ToMap()
	assert.Contains(t, m, "first_name")
	assert.Contains(t, m, "status")
	assert.Contains(t, m, "role")
}

func TestEmployeeFilter_Validate(t *testing.T) {
	f := EmployeeFilter{}
	require.NoError(t, f.Validate())
	assert.Equal(t, 1, f.Page)
	assert.Equal(t, 20, f.Limit)

	f = EmployeeFilter{Status: strPtr("gone")}
	assert.Error(t, f.Validate())
}
