package identifier

import (
	"crypto/rand"
	"math/big"
)

const (
	upperChars  = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	lowerChars  = "abcdefghijklmnopqrstuvwxyz"
	digitChars  = "0123456789"
	symbolChars = "@#$!&*"
)

// TemporaryPassword returns a shuffled 9 character password made of one
// uppercase letter, five lowercase letters, two digits and one symbol.
func TemporaryPassword() (string, error) {
	groups := []struct {
		set   string
		count int
	}{
		{upperChars, 1},
		{lowerChars, 5},
		{digitChars, 2},
		{symbolChars, 1},
	}

	var out []byte
	for _, g := range groups {
		for i := 0; i < g.count; i++ {
			c, err := pick(g.set)
			if err != nil {
				return "", err
			}
			out = append(out, c)
		}
	}

	// Fisher-Yates
	for i := len(out) - 1; i > 0; i-- {
		j, err := randInt(i + 1)
		if err != nil {
			return "", err
		}
		out[i], out[j] = out[j], out[i]
	}
	return string(out), nil
}

func pick(set string) (byte, error) {
	i, err := randInt(len(set))
	if err != nil {
		return 0, err
	}
	return set[i], nil
}

func randInt(n int) (int, error) {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0, err
	}
	return int(v.Int64()), nil
}
