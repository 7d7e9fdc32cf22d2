// Package passgen generates random passwords for new vault entries.
package passgen

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/sethvargo/go-password/password"
)

// Symbols is the set of punctuation characters a generated password draws from.
const Symbols = "!#$%&()*+"

// Bounds of each character class, inclusive.
const (
	MinLetters, MaxLetters = 10, 12
	MinSymbols, MaxSymbols = 4, 6
	MinDigits, MaxDigits   = 4, 6
)

// Generate returns a shuffled password made of 10-12 letters, 4-6 symbols
// and 4-6 digits. All randomness comes from crypto/rand.
func Generate() (string, error) {
	gen, err := password.NewGenerator(&password.GeneratorInput{Symbols: Symbols})
	if err != nil {
		return "", fmt.Errorf("failed to create password generator: %w", err)
	}

	letters, err := between(MinLetters, MaxLetters)
	if err != nil {
		return "", err
	}
	symbols, err := between(MinSymbols, MaxSymbols)
	if err != nil {
		return "", err
	}
	digits, err := between(MinDigits, MaxDigits)
	if err != nil {
		return "", err
	}

	pw, err := gen.Generate(letters+symbols+digits, digits, symbols, false, true)
	if err != nil {
		return "", fmt.Errorf("failed to generate password: %w", err)
	}
	return pw, nil
}

func between(lo, hi int) (int, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(hi-lo+1)))
	if err != nil {
		return 0, fmt.Errorf("failed to read random number: %w", err)
	}
	return lo + int(n.Int64()), nil
}
