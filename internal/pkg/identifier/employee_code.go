// Package identifier generates employee codes and temporary passwords.
package identifier

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

const (
	serialWidth = 3
	maxSerial   = 999
)

var (
	ErrSerialExhausted = errors.New("employee code serial exhausted for prefix")
	ErrMalformedCode   = errors.New("existing employee code has a malformed serial")
)

// CodeLookup returns the highest employee code starting with prefix, or "" when there is none.
type CodeLookup interface {
	MaxEmployeeCode(ctx context.Context, prefix string) (string, error)
}

// CodePrefix builds SHORT + first initials + last initials + year.
// Initials are the first two letters of each name, padded with 'X'.
func CodePrefix(companyShortName, firstName, lastName string, joiningYear int) string {
	return strings.ToUpper(strings.TrimSpace(companyShortName)) +
		initials(firstName) +
		initials(lastName) +
		fmt.Sprintf("%04d", joiningYear)
}

func initials(name string) string {
	var b strings.Builder
	for _, r := range name {
		if b.Len() == 2 {
			break
		}
		if unicode.IsLetter(r) && r < unicode.MaxASCII {
			b.WriteRune(unicode.ToUpper(r))
		}
	}
	for b.Len() < 2 {
		b.WriteByte('X')
	}
	return b.String()
}

// NextEmployeeCode returns prefix followed by the serial after the highest existing one.
// The lookup is only a hint; callers still rely on the store's unique constraint.
func NextEmployeeCode(ctx context.Context, lookup CodeLookup, prefix string) (string, error) {
	last, err := lookup.MaxEmployeeCode(ctx, prefix)
	if err != nil {
		return "", fmt.Errorf("lookup employee code: %w", err)
	}

	next := 1
	if last != "" {
		serial, err := strconv.Atoi(strings.TrimPrefix(last, prefix))
		if err != nil || !strings.HasPrefix(last, prefix) {
			return "", fmt.Errorf("%w: %s", ErrMalformedCode, last)
		}
		next = serial + 1
	}

	if next > maxSerial {
		return "", ErrSerialExhausted
	}
	return fmt.Sprintf("%s%0*d", prefix, serialWidth, next), nil
}

// EmployeeCode combines CodePrefix and NextEmployeeCode.
func EmployeeCode(ctx context.Context, lookup CodeLookup, companyShortName, firstName, lastName string, joiningYear int) (string, error) {
	return NextEmployeeCode(ctx, lookup, CodePrefix(companyShortName, firstName, lastName, joiningYear))
}
