package internal

import (
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"math/big"
	mrand "math/rand/v2"
	"strconv"
)

const (
	codeMin = 100000
	codeMax = 999999
)

// CodeSource draws OTP codes. Implementations must be safe for concurrent use.
type CodeSource interface {
	NewCode() (string, error)
}

// SecureSource draws codes from crypto/rand.
type SecureSource struct{}

// NewCode returns a 6-digit code uniformly distributed over [100000, 999999].
func (SecureSource) NewCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(codeMax-codeMin+1))
	if err != nil {
		return "", err
	}
	return formatCode(n.Int64() + codeMin)
}

// PseudoSource draws codes from math/rand/v2. Only suitable for demos.
type PseudoSource struct{}

// NewCode returns a 6-digit code uniformly distributed over [100000, 999999].
func (PseudoSource) NewCode() (string, error) {
	return formatCode(int64(mrand.IntN(codeMax-codeMin+1)) + codeMin)
}

// FixedSource always returns the same code. Tests only.
type FixedSource string

func (s FixedSource) NewCode() (string, error) {
	if !IsNumericCode(string(s)) {
		return "", errors.New("invalid fixed otp code")
	}
	return string(s), nil
}

func formatCode(n int64) (string, error) {
	if n < codeMin || n > codeMax {
		return "", errors.New("otp code out of range")
	}
	return strconv.FormatInt(n, 10), nil
}

// IsNumericCode reports whether code is exactly six ASCII digits.
func IsNumericCode(code string) bool {
	if len(code) != 6 {
		return false
	}
	for i := 0; i < len(code); i++ {
		if code[i] < '0' || code[i] > '9' {
			return false
		}
	}
	return true
}

// HashCode returns the digest stored in place of the plaintext code.
func HashCode(code string) [32]byte {
	return sha256.Sum256([]byte(code))
}
