package validator

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"sync"
	"time"
	"unicode"

	playground "github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type ValidationError struct {
	Field   string
	Message string
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	var msgs []string
	for _, err := range v {
		msgs = append(msgs, err.Field+": "+err.Message)
	}
	return strings.Join(msgs, "; ")
}

func (v ValidationErrors) ToMap() map[string]string {
	result := make(map[string]string)
	for _, err := range v {
		result[err.Field] = err.Message
	}
	return result
}

// Add appends a field error.
func (v *ValidationErrors) Add(field, message string) {
	*v = append(*v, ValidationError{Field: field, Message: message})
}

// Err returns nil when no errors were collected.
func (v ValidationErrors) Err() error {
	if len(v) == 0 {
		return nil
	}
	return v
}

var (
	structValidator *playground.Validate
	structOnce      sync.Once
)

func instance() *playground.Validate {
	structOnce.Do(func() {
		structValidator = playground.New(playground.WithRequiredStructEnabled())
		structValidator.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})
		_ = structValidator.RegisterValidation("password", func(fl playground.FieldLevel) bool {
			return IsStrongPassword(fl.Field().String())
		})
		_ = structValidator.RegisterValidation("date", func(fl playground.FieldLevel) bool {
			_, ok := IsValidDate(fl.Field().String())
			return ok
		})
	})
	return structValidator
}

// Struct runs the `validate` tag rules of s and returns ValidationErrors keyed by json field name.
func Struct(s interface{}) error {
	err := instance().Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs playground.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	var out ValidationErrors
	for _, fe := range fieldErrs {
		out.Add(fe.Field(), messageFor(fe))
	}
	return out
}

func messageFor(fe playground.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "uuid":
		return "must be a valid UUID"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "gte":
		return "must be greater than or equal to " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	case "lte":
		return "must be less than or equal to " + fe.Param()
	case "len":
		return "must be exactly " + fe.Param() + " characters"
	case "alpha":
		return "must contain letters only"
	case "password":
		return "must be at least 8 characters with upper, lower, digit and symbol"
	case "date":
		return "must be in YYYY-MM-DD format"
	default:
		return "is invalid"
	}
}

// IsEmpty checks if a string is empty after trimming whitespace.
func IsEmpty(s string) bool {
	return strings.TrimSpace(s) == ""
}

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Email validation
func IsValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}

func IsValidUUID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil && len(id) == 36
}

// Date validation
func IsValidDate(dateStr string) (time.Time, bool) {
	date, err := time.Parse("2006-01-02", dateStr)
	return date, err == nil
}

// IsValidDateTime checks if a string is a valid RFC3339 timestamp.
func IsValidDateTime(dateTimeStr string) (time.Time, bool) {
	t, err := time.Parse(time.RFC3339Nano, dateTimeStr)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

var phoneRegex = regexp.MustCompile(`^\+?[0-9]{7,15}$`)

// IsValidPhoneNumber accepts 7 to 15 digits with an optional leading '+'. Spaces and dashes are ignored.
func IsValidPhoneNumber(phone string) bool {
	phone = strings.ReplaceAll(phone, " ", "")
	phone = strings.ReplaceAll(phone, "-", "")
	return phoneRegex.MatchString(phone)
}

// Slice contains check
func IsInSlice(value string, slice []string) bool {
	for _, item := range slice {
		if item == value {
			return true
		}
	}
	return false
}

var shortNameRegex = regexp.MustCompile(`^[A-Z]{2,6}$`)

// IsValidShortName expects an already uppercased company short name.
func IsValidShortName(s string) bool {
	return shortNameRegex.MatchString(s)
}

// PasswordSymbols is the symbol set counted by IsStrongPassword.
const PasswordSymbols = "@#$!&*%^()-_=+[]{}<>?/.,;:~"

// IsStrongPassword requires length >= 8 with an uppercase letter, a lowercase letter, a digit and a symbol.
func IsStrongPassword(p string) bool {
	if len(p) < 8 {
		return false
	}
	var upper, lower, digit, symbol bool
	for _, r := range p {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case strings.ContainsRune(PasswordSymbols, r):
			symbol = true
		}
	}
	return upper && lower && digit && symbol
}
