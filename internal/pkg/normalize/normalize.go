// Package normalize converts loosely-typed intake values into canonical
// stored values. Every function is pure and never returns an error: bad
// input falls back to a caller-supplied default.
package normalize

import (
	"math"
	"strconv"
	"strings"
)

// Money parses a monetary value that may arrive as a number or as a
// locale-formatted string ("R$ 1.234,56", "1,234.56", "1234.56").
// A comma in the input is taken as the decimal mark and dots become
// grouping separators; otherwise the dot is the decimal mark. Returns
// fallback when the result is not a finite number.
func Money(v interface{}, fallback float64) float64 {
	switch n := v.(type) {
	case nil:
		return fallback
	case float64:
		return finiteOr(n, fallback)
	case float32:
		return finiteOr(float64(n), fallback)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case uint:
		return float64(n)
	case string:
		return moneyFromString(n, fallback)
	default:
		return fallback
	}
}

func moneyFromString(s string, fallback float64) float64 {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == ',' || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}
	cleaned := b.String()
	if cleaned == "" {
		return fallback
	}

	if strings.Contains(cleaned, ",") {
		// comma is the decimal mark; dots are grouping
		cleaned = strings.ReplaceAll(cleaned, ".", "")
		cleaned = strings.ReplaceAll(cleaned, ",", ".")
	}

	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return fallback
	}
	return finiteOr(f, fallback)
}

func finiteOr(f, fallback float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return fallback
	}
	return f
}

// Boolean maps truthy tokens (1, true, on, yes, sim) and falsy tokens
// (0, false, off, no, nao/não) to canonical booleans, case-insensitively.
// Native booleans and numeric 0/1 are accepted as-is. Unrecognized input
// returns fallback.
func Boolean(v interface{}, fallback bool) bool {
	switch b := v.(type) {
	case nil:
		return fallback
	case bool:
		return b
	case float64:
		if b == 1 {
			return true
		}
		if b == 0 {
			return false
		}
		return fallback
	case int:
		if b == 1 {
			return true
		}
		if b == 0 {
			return false
		}
		return fallback
	case string:
		switch strings.ToLower(strings.TrimSpace(b)) {
		case "1", "true", "on", "yes", "sim":
			return true
		case "0", "false", "off", "no", "nao", "não":
			return false
		}
		return fallback
	default:
		return fallback
	}
}

// Enum returns candidate if it is a member of allowed (case-folded),
// otherwise def. Never errors.
func Enum(candidate string, allowed []string, def string) string {
	c := strings.ToLower(strings.TrimSpace(candidate))
	for _, a := range allowed {
		if c == strings.ToLower(a) {
			return a
		}
	}
	return def
}
