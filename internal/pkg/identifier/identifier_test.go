package identifier

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode"

	"github.com/cmlabs-hris/hrms-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryCodes mimics the store: the highest code for a prefix wins.
type memoryCodes struct {
	codes []string
	err   error
}

func (m *memoryCodes) MaxEmployeeCode(_ context.Context, prefix string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	max := ""
	for _, c := range m.codes {
		if strings.HasPrefix(c, prefix) && c > max {
			max = c
		}
	}
	return max, nil
}

func TestCodePrefix(t *testing.T) {
	cases := []struct {
		short, first, last string
		year               int
		want               string
	}{
		{"GZ", "Al", "B", 2024, "GZALBX2024"},
		{"giz", "John", "Tanaka", 2024, "GIZJOTA2024"},
		{"AC", "", "O'Neil", 2023, "ACXXON2023"},
		{"AC", "Émile", "Zo", 2022, "ACMIZO2022"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, CodePrefix(c.short, c.first, c.last, c.year))
	}
}

func TestEmployeeCode_FirstSerial(t *testing.T) {
	code, err := EmployeeCode(context.Background(), &memoryCodes{}, "GZ", "Al", "B", 2024)
	require.NoError(t, err)
	assert.Equal(t, "GZALBX2024001", code)
}

func TestEmployeeCode_StrictlyIncreasing(t *testing.T) {
	store := &memoryCodes{}
	ctx := context.Background()

	first, err := EmployeeCode(ctx, store, "GIZ", "John", "Tanaka", 2024)
	require.NoError(t, err)
	store.codes = append(store.codes, first)

	second, err := EmployeeCode(ctx, store, "GIZ", "John", "Tanaka", 2024)
	require.NoError(t, err)

	assert.Equal(t, "GIZJOTA2024001", first)
	assert.Equal(t, "GIZJOTA2024002", second)
}

func TestEmployeeCode_IgnoresOtherPrefixes(t *testing.T) {
	store := &memoryCodes{codes: []string{"GZALBX2023007", "GZALBY2024009"}}
	code, err := EmployeeCode(context.Background(), store, "GZ", "Al", "B", 2024)
	require.NoError(t, err)
	assert.Equal(t, "GZALBX2024001", code)
}

func TestEmployeeCode_Exhausted(t *testing.T) {
	store := &memoryCodes{codes: []string{"GZALBX2024999"}}
	_, err := EmployeeCode(context.Background(), store, "GZ", "Al", "B", 2024)
	assert.ErrorIs(t, err, ErrSerialExhausted)
}

func TestEmployeeCode_LookupError(t *testing.T) {
	boom := errors.New("db down")
	_, err := EmployeeCode(context.Background(), &memoryCodes{err: boom}, "GZ", "Al", "B", 2024)
	assert.ErrorIs(t, err, boom)
}

func TestTemporaryPassword(t *testing.T) {
	for i := 0; i < 200; i++ {
		p, err := TemporaryPassword()
		require.NoError(t, err)
		require.Len(t, p, 9)

		var upper, lower, digit, symbol int
		for _, r := range p {
			switch {
			case unicode.IsUpper(r):
				upper++
			case unicode.IsLower(r):
				lower++
			case unicode.IsDigit(r):
				digit++
			case strings.ContainsRune(symbolChars, r):
				symbol++
			}
		}
		assert.Equal(t, 1, upper, p)
		assert.Equal(t, 5, lower, p)
		assert.Equal(t, 2, digit, p)
		assert.Equal(t, 1, symbol, p)
		assert.True(t, validator.IsStrongPassword(p), p)
	}
}
