// Package brl handles Brazilian-localized text and money formats:
// whitespace normalization, "1.234,56"-style decimals and "R$" currency
// strings as they appear in retail page copy.
package brl

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	// CurrencyRe matches a full currency expression, e.g. "R$ 1.234,56".
	CurrencyRe = regexp.MustCompile(`R\$\s*\d{1,3}(?:\.\d{3})*,\d{2}`)
	// NumberRe matches the bare localized decimal, e.g. "1.234,56".
	NumberRe = regexp.MustCompile(`\d{1,3}(?:\.\d{3})*,\d{2}`)
	// RatingRe matches "4,5/5", "4.5 de 5" and similar scale expressions.
	RatingRe = regexp.MustCompile(`(\d+[.,]\d+)\s*(?:/|de)?\s*5`)
	// CountRe matches a thousands-grouped integer, e.g. "1.532".
	CountRe = regexp.MustCompile(`(\d{1,3}(?:\.\d{3})*)`)

	whitespaceRe = regexp.MustCompile(`\s+`)
)

// CleanText collapses whitespace runs to a single space and trims the ends.
func CleanText(s string) string {
	if s == "" {
		return ""
	}
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}

// ParseNumber finds the first localized decimal in s and converts it to a
// float. Returns false when no pattern matches or conversion fails.
func ParseNumber(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	m := NumberRe.FindString(s)
	if m == "" {
		return 0, false
	}
	m = strings.ReplaceAll(m, ".", "")
	m = strings.ReplaceAll(m, ",", ".")
	f, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// CurrencyString re-renders the first localized decimal in s with the "R$"
// prefix. Returns "" when s carries no localized decimal.
func CurrencyString(s string) string {
	m := NumberRe.FindString(s)
	if m == "" {
		return ""
	}
	return "R$ " + m
}

// FormatCurrency renders a dot-decimal float as a BR currency string:
// 1299.9 -> "R$ 1.299,90".
func FormatCurrency(f float64) string {
	s := strconv.FormatFloat(f, 'f', 2, 64)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	parts := strings.SplitN(s, ".", 2)
	intPart, decPart := parts[0], parts[1]

	var grouped []string
	for len(intPart) > 3 {
		grouped = append([]string{intPart[len(intPart)-3:]}, grouped...)
		intPart = intPart[:len(intPart)-3]
	}
	grouped = append([]string{intPart}, grouped...)

	out := strings.Join(grouped, ".") + "," + decPart
	if neg {
		out = "-" + out
	}
	return "R$ " + out
}

// CurrencyFromAny normalizes a raw offer value (either a localized string or
// a dot-decimal numeric string) into a BR currency string. Returns "" when
// the value is not numeric in either convention.
func CurrencyFromAny(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return ""
	}
	if strings.Contains(v, ",") && NumberRe.MatchString(v) {
		return CurrencyString(v)
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return ""
	}
	return FormatCurrency(f)
}

// ParseCount extracts the first thousands-grouped integer from s and strips
// the separators. Returns false when s has no digits.
func ParseCount(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, true
	}
	m := CountRe.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	n, err := strconv.ParseInt(strings.ReplaceAll(m[1], ".", ""), 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// ParsePrice converts a scrape-stage price cell ("R$ 1.234,56", "1234.56" or
// a bare float rendering) into a 2-dp rounded float for storage.
func ParsePrice(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	cleaned := strings.ReplaceAll(s, "R$", "")
	cleaned = strings.ReplaceAll(cleaned, " ", "")
	if strings.Contains(cleaned, ",") {
		cleaned = strings.ReplaceAll(cleaned, ".", "")
		cleaned = strings.ReplaceAll(cleaned, ",", ".")
	}
	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return round2(f), true
}

func round2(f float64) float64 {
	s := strconv.FormatFloat(f, 'f', 2, 64)
	r, _ := strconv.ParseFloat(s, 64)
	return r
}

// Round2 rounds to two decimal places, the precision every money column uses.
func Round2(f float64) float64 { return round2(f) }

// Sprintf-style helper kept close to the formats above so the rendering of
// debug trails stays consistent.
func DebugEntry(priceStr string, num float64, score int, source string) string {
	return fmt.Sprintf("%s | %.2f | score=%d | %s", priceStr, num, score, source)
}
