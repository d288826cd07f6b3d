package usecase

import "strings"

// EAN/UPC normalization and checksum validation for EAN-13, EAN-8 and
// UPC-A. All functions are pure; malformed input never panics.

// stripBarcode removes whitespace and hyphens from a raw barcode string.
func stripBarcode(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		switch r {
		case ' ', '\t', '-':
			continue
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// isDigits checks if a string is non-empty and contains only ASCII digits
func isDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return len(s) > 0
}

// isAllZeros reports whether every digit of s is zero. All-zero codes pass
// the modulo-10 arithmetic but are never real GS1 assignments.
func isAllZeros(s string) bool {
	for _, c := range s {
		if c != '0' {
			return false
		}
	}
	return len(s) > 0
}

// checksumValid verifies the GS1 modulo-10 check digit. Digits are weighted
// alternately 1 and 3 from the right, with the digit adjacent to the check
// digit always weighted 3. This single convolution covers EAN-13, UPC-A
// and EAN-8 with their respective digit counts.
func checksumValid(code string) bool {
	n := len(code)
	if n < 2 {
		return false
	}
	sum := 0
	for i := 0; i < n-1; i++ {
		d := int(code[i] - '0')
		if (n-1-i)%2 == 1 {
			sum += d * 3
		} else {
			sum += d
		}
	}
	check := (10 - sum%10) % 10
	return check == int(code[n-1]-'0')
}

// ValidateEAN reports whether raw is a structurally valid EAN-13, EAN-8 or
// UPC-A code with a correct check digit. Spacing and hyphens are ignored.
func ValidateEAN(raw string) bool {
	code := stripBarcode(raw)
	if !isDigits(code) || isAllZeros(code) {
		return false
	}
	switch len(code) {
	case 8, 12, 13:
		return checksumValid(code)
	default:
		return false
	}
}

// NormalizeEAN canonicalizes a raw barcode. A 12-digit code is promoted to
// its EAN-13 form by a single leading zero, but only after the UPC-A
// checksum itself verifies, so a 13-digit code that lost its first digit
// can never be silently reinterpreted as a UPC. EAN-8 codes are kept at 8
// digits. Returns ("", false) for anything that fails format or checksum.
func NormalizeEAN(raw string) (string, bool) {
	code := stripBarcode(raw)
	if !isDigits(code) || isAllZeros(code) {
		return "", false
	}
	switch len(code) {
	case 13, 8:
		if checksumValid(code) {
			return code, true
		}
	case 12:
		if checksumValid(code) {
			return "0" + code, true
		}
	}
	return "", false
}
