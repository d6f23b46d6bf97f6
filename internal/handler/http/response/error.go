package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/company"
	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/hrms-backend-go/internal/pkg/oauth"
	"github.com/cmlabs-hris/hrms-backend-go/internal/pkg/storage"
	"github.com/cmlabs-hris/hrms-backend-go/internal/pkg/validator"
	"github.com/cmlabs-hris/hrms-backend-go/internal/service/file"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Authentication
	case errors.Is(err, user.ErrUnauthenticated),
		errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrRefreshTokenRevoked),
		errors.Is(err, auth.ErrOAuthAccountNotFound):
		Unauthorized(w, err.Error())

	// Authorization
	case errors.Is(err, user.ErrInsufficientPermissions),
		errors.Is(err, user.ErrEmployeeProfileRequired),
		errors.Is(err, auth.ErrAccountInactive),
		errors.Is(err, auth.ErrRegistrationClosed),
		errors.Is(err, oauth.ErrEmailNotVerified),
		errors.Is(err, employee.ErrSelfServiceOnly),
		errors.Is(err, employee.ErrRoleAssignmentForbidden):
		Forbidden(w, err.Error())

	// Not found
	case errors.Is(err, user.ErrUserNotFound),
		errors.Is(err, company.ErrCompanyNotFound),
		errors.Is(err, employee.ErrEmployeeNotFound),
		errors.Is(err, attendance.ErrAttendanceNotFound),
		errors.Is(err, leave.ErrLeaveNotFound),
		errors.Is(err, payroll.ErrPayrollNotFound),
		errors.Is(err, storage.ErrNotFound):
		NotFound(w, err.Error())

	// Conflicts with the current state
	case errors.Is(err, user.ErrUserEmailExists),
		errors.Is(err, company.ErrCompanyNameExists),
		errors.Is(err, company.ErrCompanyShortNameExists),
		errors.Is(err, company.ErrCompanyHasEmployees),
		errors.Is(err, employee.ErrEmployeeEmailExists),
		errors.Is(err, employee.ErrEmployeeCodeUnavailable),
		errors.Is(err, employee.ErrEmployeeAlreadyInactive),
		errors.Is(err, employee.ErrEmployeeInactive),
		errors.Is(err, attendance.ErrAlreadyCheckedIn),
		errors.Is(err, attendance.ErrAlreadyCheckedOut),
		errors.Is(err, attendance.ErrAttendanceExists),
		errors.Is(err, leave.ErrOverlappingLeave),
		errors.Is(err, leave.ErrLeaveNotPending),
		errors.Is(err, leave.ErrLeaveNotCancellable),
		errors.Is(err, leave.ErrLeaveAlreadyStarted),
		errors.Is(err, payroll.ErrPayrollExists),
		errors.Is(err, payroll.ErrPayrollPaid),
		errors.Is(err, payroll.ErrInvalidStatusTransition):
		Conflict(w, err.Error())

	// Bad input the validator cannot see
	case errors.Is(err, auth.ErrIncorrectPassword),
		errors.Is(err, auth.ErrInvalidOAuthState),
		errors.Is(err, company.ErrInvalidLogo),
		errors.Is(err, employee.ErrInvalidAvatar),
		errors.Is(err, attendance.ErrNotCheckedIn),
		errors.Is(err, attendance.ErrCheckOutBeforeCheckIn),
		errors.Is(err, leave.ErrEndBeforeStart),
		errors.Is(err, leave.ErrStartInPast),
		errors.Is(err, leave.ErrInvalidReviewStatus),
		errors.Is(err, file.ErrInvalidImage),
		errors.Is(err, storage.ErrInvalidPath):
		BadRequest(w, err.Error(), nil)

	case errors.Is(err, auth.ErrOAuthDisabled):
		ServiceUnavailable(w, err.Error())

	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
