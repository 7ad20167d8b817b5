package main

import (
	"fmt"
	"math"
	"math/cmplx"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// paramPattern matches a single parameter value: numbers, pi expressions, or combinations.
// Examples: "1.5707", "pi", "pi/2", "3*pi/4", "-pi", "-2*pi/3", "3.14e-2"
const paramPattern = `-?(?:\d*\.?\d*\*?pi(?:/\d+\.?\d*)?|\d+\.?\d*(?:[eE][+\-]?\d+)?)`

// piExprRegex matches expressions like: pi, 2pi, 2*pi, pi/2, 3pi/4, 3*pi/4, -pi, -pi/2, -3*pi/4
var piExprRegex = regexp.MustCompile(`^(-?)(\d*\.?\d*)\s*\*?\s*pi(?:\s*/\s*(\d+\.?\d*))?$`)

// parseParamExpr parses a single parameter expression, supporting plain numbers and pi expressions.
// Returns the parsed float64 value and true on success, or 0 and false on failure.
//
// Supported formats:
//   - Plain numbers: "1.5707", "3.14", "-0.5"
//   - Pi constant: "pi"
//   - Pi fractions: "pi/2", "pi/4", "pi/3"
//   - Coefficients: "2pi", "2*pi", "3pi/4", "3*pi/4"
//   - Negative: "-pi", "-pi/2", "-3*pi/4"
func parseParamExpr(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}

	// Try plain number first
	if val, err := strconv.ParseFloat(s, 64); err == nil {
		return val, true
	}

	// Try pi expression
	s = strings.ToLower(s)
	if matches := piExprRegex.FindStringSubmatch(s); matches != nil {
		negative := matches[1] == "-"
		coeffStr := matches[2]
		denomStr := matches[3]

		coeff := 1.0
		if coeffStr != "" {
			var err error
			coeff, err = strconv.ParseFloat(coeffStr, 64)
			if err != nil {
				return 0, false
			}
		}

		result := coeff * math.Pi

		if denomStr != "" {
			denom, err := strconv.ParseFloat(denomStr, 64)
			if err != nil || denom == 0 {
				return 0, false
			}
			result /= denom
		}

		if negative {
			result = -result
		}
		return result, true
	}

	return 0, false
}

// formatParam formats a float64 parameter value, using pi notation when possible.
// Recognizes common pi fractions: pi, pi/2, pi/4, pi/3, pi/6, pi/8, 2pi, 3pi/4, etc.
func formatParam(val float64) string {
	// Table of recognized pi fractions: coefficient, denominator, display string
	type piForm struct {
		value   float64
		display string
	}
	piForms := []piForm{
		{2 * math.Pi, "2*pi"},
		{math.Pi, "pi"},
		{math.Pi / 2, "pi/2"},
		{math.Pi / 3, "pi/3"},
		{math.Pi / 4, "pi/4"},
		{math.Pi / 6, "pi/6"},
		{math.Pi / 8, "pi/8"},
		{3 * math.Pi / 4, "3*pi/4"},
		{3 * math.Pi / 2, "3*pi/2"},
		{2 * math.Pi / 3, "2*pi/3"},
	}

	for _, pf := range piForms {
		if math.Abs(val-pf.value) < 1e-10 {
			return pf.display
		}
		if math.Abs(val+pf.value) < 1e-10 {
			return "-" + pf.display
		}
	}

	return fmt.Sprintf("%g", val)
}

// parseDiagEntry parses one diagonal entry. Accepted forms:
//   - Complex literals: "1", "-1", "0.6+0.8i", "2i", "i", "-i"
//   - Pi expressions, read as a phase angle: "pi/4" means e^{i*pi/4}
func parseDiagEntry(s string, index int) (complex128, error) {
	s = strings.TrimSpace(s)
	switch s {
	case "i", "+i":
		return 1i, nil
	case "-i":
		return -1i, nil
	}
	if z, err := strconv.ParseComplex(s, 128); err == nil {
		return z, nil
	}
	if phase, ok := parseParamExpr(s); ok {
		return cmplx.Exp(complex(0, phase)), nil
	}
	return 0, &EntryParseError{Index: index, Text: s}
}

// parseDiagonal parses a comma- or whitespace-separated list of diagonal
// entries. Returns the first parse failure encountered.
func parseDiagonal(input string) ([]complex128, error) {
	fields := strings.FieldsFunc(input, func(r rune) bool {
		return r == ',' || r == ';' || unicode.IsSpace(r)
	})
	if len(fields) == 0 {
		return nil, &EntryParseError{Index: 0, Text: input}
	}
	entries := make([]complex128, len(fields))
	for i, f := range fields {
		z, err := parseDiagEntry(f, i)
		if err != nil {
			return nil, err
		}
		entries[i] = z
	}
	return entries, nil
}

// formatEntry formats a complex entry, preferring exact short forms. The
// fallback uses shortest round-trip formatting so parseDiagEntry recovers
// the identical value; truncated digits would fail the unit-modulus check.
func formatEntry(z complex128) string {
	switch {
	case cmplx.Abs(z-1) < 1e-12:
		return "1"
	case cmplx.Abs(z+1) < 1e-12:
		return "-1"
	case cmplx.Abs(z-1i) < 1e-12:
		return "i"
	case cmplx.Abs(z+1i) < 1e-12:
		return "-i"
	}
	return strconv.FormatComplex(z, 'g', -1, 128)
}
