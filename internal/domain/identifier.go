package domain

import (
	"errors"
	"fmt"
	"unicode"
)

// ErrInvalidIdentifier is returned when a CNPJ or CPF fails the check-digit test
var ErrInvalidIdentifier = errors.New("invalid identifier")

// SanitizeIdentifier strips punctuation from a CNPJ/CPF, keeping only digits
func SanitizeIdentifier(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if unicode.IsDigit(r) {
			out = append(out, r)
		}
	}
	return string(out)
}

// ValidateIdentifier checks a CNPJ (PJ) or CPF (PF) including its two check digits
func ValidateIdentifier(kind PersonType, raw string) error {
	digits := SanitizeIdentifier(raw)
	switch kind {
	case PersonPJ:
		if !validCNPJ(digits) {
			return fmt.Errorf("%w: CNPJ %q", ErrInvalidIdentifier, raw)
		}
	case PersonPF:
		if !validCPF(digits) {
			return fmt.Errorf("%w: CPF %q", ErrInvalidIdentifier, raw)
		}
	default:
		return fmt.Errorf("%w: unknown person type %q", ErrInvalidIdentifier, kind)
	}
	return nil
}

func validCNPJ(d string) bool {
	if len(d) != 14 || allSame(d) {
		return false
	}
	w1 := []int{5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
	w2 := []int{6, 5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
	return checkDigit(d[:12], w1) == int(d[12]-'0') && checkDigit(d[:13], w2) == int(d[13]-'0')
}

func validCPF(d string) bool {
	if len(d) != 11 || allSame(d) {
		return false
	}
	w1 := []int{10, 9, 8, 7, 6, 5, 4, 3, 2}
	w2 := []int{11, 10, 9, 8, 7, 6, 5, 4, 3, 2}
	return checkDigit(d[:9], w1) == int(d[9]-'0') && checkDigit(d[:10], w2) == int(d[10]-'0')
}

// checkDigit is the mod-11 rule shared by CNPJ and CPF
func checkDigit(d string, weights []int) int {
	sum := 0
	for i, w := range weights {
		sum += int(d[i]-'0') * w
	}
	rem := sum % 11
	if rem < 2 {
		return 0
	}
	return 11 - rem
}

func allSame(d string) bool {
	for i := 1; i < len(d); i++ {
		if d[i] != d[0] {
			return false
		}
	}
	return true
}
