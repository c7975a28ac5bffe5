package otpcode

import (
	"crypto/rand"
	"math/big"
	"strconv"
)

const (
	codeMin = 100000
	codeMax = 999999
)

// Generator produces one-time codes.
type Generator interface {
	// Generate returns a fresh code as a decimal string.
	Generate() (string, error)
}

// Numeric generates uniform random 6-digit codes.
//
// The range is [100000, 999999]: every code renders as exactly six digits
// with no leading zero, so it survives any downstream formatting that treats
// it as a number. The first digit carrying slightly less entropy is an
// accepted trade-off for that property.
type Numeric struct{}

// NewNumeric returns a Numeric code generator.
func NewNumeric() *Numeric {
	return &Numeric{}
}

// Generate draws a code from crypto/rand.
func (*Numeric) Generate() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(codeMax-codeMin+1))
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(n.Int64()+codeMin, 10), nil
}
