// Package rut validates Chilean tax identifiers (RUT) using the modulo-11
// weighted checksum. It is pure — no I/O, no state — and is shared by the
// company, user, and supplier services as a validation gate.
package rut

import (
	"fmt"
	"strings"
)

// FormatError reports input that cannot even be parsed into body + check
// digit (too short, or a non-numeric body).
type FormatError struct {
	Reason string
}

func (e *FormatError) Error() string {
	return "invalid RUT format: " + e.Reason
}

// ChecksumError reports a well-formed RUT whose check digit does not match
// the computed one. Computed is exposed so callers can tell the user what
// the correct digit would have been.
type ChecksumError struct {
	RUT      string
	Computed byte
}

func (e *ChecksumError) Error() string {
	return fmt.Sprintf("RUT %q is invalid: the correct check digit is %q", e.RUT, string(e.Computed))
}

// Clean strips dots, dashes and surrounding whitespace, upper-cases the
// result, and checks its shape: at least a one-digit body plus check digit,
// body all numeric. It is idempotent: Clean(Clean(x)) == Clean(x).
func Clean(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, "-", "")
	s = strings.ToUpper(s)

	if len(s) < 2 {
		return "", &FormatError{Reason: "too short"}
	}
	body := s[:len(s)-1]
	for i := 0; i < len(body); i++ {
		if body[i] < '0' || body[i] > '9' {
			return "", &FormatError{Reason: "body must contain only digits"}
		}
	}
	return s, nil
}

// ComputeDV calculates the check digit for a numeric RUT body using the
// 2,3,4,5,6,7 cyclic weight series over the digits from least to most
// significant. Bodies shorter than 8 digits are zero-padded on the left.
// Returns 0 when the body contains a non-digit.
func ComputeDV(body string) byte {
	for len(body) < 8 {
		body = "0" + body
	}

	factor := 2
	sum := 0
	for i := len(body) - 1; i >= 0; i-- {
		c := body[i]
		if c < '0' || c > '9' {
			return 0
		}
		sum += int(c-'0') * factor
		factor++
		if factor > 7 {
			factor = 2
		}
	}

	switch dv := 11 - sum%11; dv {
	case 10:
		return 'K'
	case 11:
		return '0'
	default:
		return byte('0' + dv)
	}
}

// Validate checks raw against its check digit. Accepts any of the usual
// writings (76.086.428-5, 76086428-5, 760864285, lowercase k). On success it
// returns raw unchanged so stored values keep the representation the caller
// supplied.
func Validate(raw string) (string, error) {
	cleaned, err := Clean(raw)
	if err != nil {
		return "", err
	}

	body, dv := cleaned[:len(cleaned)-1], cleaned[len(cleaned)-1]
	if computed := ComputeDV(body); computed != dv {
		return "", &ChecksumError{RUT: raw, Computed: computed}
	}
	return raw, nil
}
