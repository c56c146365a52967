package view

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

var (
	decimalLiteral  = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)
	prefixedLiteral = regexp.MustCompile(`^0([xX][0-9a-fA-F]+|[oO][0-7]+|[bB][01]+)$`)

	ErrNotANumber = errors.New("not a number")
	ErrNotFinite  = errors.New("number is not finite")
)

// parseNumber converts form text the way a browser's Number(s) does, except
// that results JSON cannot carry (NaN, ±Infinity) are returned as errors.
// Surrounding JS whitespace is ignored and the empty string is 0.
func parseNumber(s string) (float64, error) {
	s = strings.TrimFunc(s, isJSSpace)
	if s == "" {
		return 0, nil
	}

	switch {
	case s == "Infinity" || s == "+Infinity" || s == "-Infinity":
		return 0, fmt.Errorf("%q: %w", s, ErrNotFinite)
	case prefixedLiteral.MatchString(s):
		base := 16
		switch s[1] {
		case 'o', 'O':
			base = 8
		case 'b', 'B':
			base = 2
		}
		n, ok := new(big.Int).SetString(s[2:], base)
		if !ok {
			return 0, fmt.Errorf("%q: %w", s, ErrNotANumber)
		}
		f, _ := new(big.Float).SetInt(n).Float64()
		if math.IsInf(f, 0) {
			return 0, fmt.Errorf("%q: %w", s, ErrNotFinite)
		}
		return f, nil
	case decimalLiteral.MatchString(s):
		f, err := strconv.ParseFloat(s, 64)
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			return 0, fmt.Errorf("%q: %w", s, ErrNotANumber)
		}
		if math.IsInf(f, 0) {
			return 0, fmt.Errorf("%q: %w", s, ErrNotFinite)
		}
		if f == 0 {
			// -0 and 0 serialise the same way in the browser.
			f = 0
		}
		return f, nil
	default:
		return 0, fmt.Errorf("%q: %w", s, ErrNotANumber)
	}
}

// isJSSpace matches the WhiteSpace and LineTerminator sets of ECMAScript,
// which differ from unicode.IsSpace: U+FEFF is included and U+0085 is not.
func isJSSpace(r rune) bool {
	switch r {
	case '\t', '\n', '\v', '\f', '\r', '\uFEFF', '\u2028', '\u2029':
		return true
	}
	return unicode.Is(unicode.Zs, r)
}

// formatNumber renders f the way String(number) does in a browser: the
// shortest representation that round-trips, with exponent notation outside
// [1e-6, 1e21).
func formatNumber(f float64) string {
	abs := math.Abs(f)
	if abs != 0 && (abs >= 1e21 || abs < 1e-6) {
		s := strconv.FormatFloat(f, 'e', -1, 64)
		mantissa, exp, _ := strings.Cut(s, "e")
		sign := exp[:1]
		digits := strings.TrimLeft(exp[1:], "0")
		return mantissa + "e" + sign + digits
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
