package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// GenerateNumericCode returns a uniformly distributed code with exactly the
// given number of digits and no leading zero.
func GenerateNumericCode(digits int) (string, error) {
	if digits < 1 {
		return "", fmt.Errorf("invalid code length %d", digits)
	}
	low := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(digits-1)), nil)
	span := new(big.Int).Sub(new(big.Int).Mul(low, big.NewInt(10)), low)
	n, err := rand.Int(rand.Reader, span)
	if err != nil {
		return "", err
	}
	return n.Add(n, low).String(), nil
}

func IsNumericCode(code string, digits int) bool {
	if len(code) != digits {
		return false
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func ValidEmail(email string) bool {
	return validate.Var(email, "required,email") == nil
}
