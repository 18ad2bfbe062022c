// Package registry verifies buyer identity: CPF documents against the
// federal registry and professional registrations against class councils.
package registry

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var cpfDigitsOnly = regexp.MustCompile(`[^0-9]`)

// repeated CPFs like 111.111.111-11 pass the check-digit math but are not
// valid documents.
var allSameDigit = regexp.MustCompile(`^(0{11}|1{11}|2{11}|3{11}|4{11}|5{11}|6{11}|7{11}|8{11}|9{11})$`)

// ErrInvalidCPF reports a syntactically or arithmetically invalid CPF.
var ErrInvalidCPF = errors.New("invalid CPF")

// NormalizeCPF strips punctuation, keeping only the 11 digits.
func NormalizeCPF(cpf string) string {
	return cpfDigitsOnly.ReplaceAllString(cpf, "")
}

// ValidateCPF checks a CPF's length and both verification digits.
func ValidateCPF(cpf string) error {
	digits := NormalizeCPF(cpf)
	if len(digits) != 11 {
		return fmt.Errorf("%w: expected 11 digits, got %d", ErrInvalidCPF, len(digits))
	}
	if allSameDigit.MatchString(digits) {
		return fmt.Errorf("%w: repeated digits", ErrInvalidCPF)
	}

	if checkDigit(digits, 9) != int(digits[9]-'0') {
		return fmt.Errorf("%w: first check digit mismatch", ErrInvalidCPF)
	}
	if checkDigit(digits, 10) != int(digits[10]-'0') {
		return fmt.Errorf("%w: second check digit mismatch", ErrInvalidCPF)
	}
	return nil
}

// checkDigit computes the verification digit over the first length digits,
// with weights length+1 down to 2.
func checkDigit(digits string, length int) int {
	sum := 0
	for i := 0; i < length; i++ {
		sum += int(digits[i]-'0') * (length + 1 - i)
	}
	remainder := (sum * 10) % 11
	if remainder == 10 {
		return 0
	}
	return remainder
}

var (
	compactBirthdate = regexp.MustCompile(`^\d{8}$`)
	birthdateLayouts = []*regexp.Regexp{
		regexp.MustCompile(`^(\d{2})[/-](\d{2})[/-](\d{4})$`), // DD/MM/AAAA
		regexp.MustCompile(`^(\d{4})[/-](\d{2})[/-](\d{2})$`), // AAAA-MM-DD
	}
)

// FormatBirthdate converts the accepted birthdate spellings to the AAAAMMDD
// form the registry API expects.
func FormatBirthdate(raw string) (string, error) {
	cleaned := strings.Join(strings.Fields(raw), "")

	if compactBirthdate.MatchString(cleaned) {
		return cleaned, nil
	}
	if m := birthdateLayouts[0].FindStringSubmatch(cleaned); m != nil {
		return m[3] + m[2] + m[1], nil
	}
	if m := birthdateLayouts[1].FindStringSubmatch(cleaned); m != nil {
		return m[1] + m[2] + m[3], nil
	}
	return "", fmt.Errorf("unrecognized birthdate format: %q", raw)
}
