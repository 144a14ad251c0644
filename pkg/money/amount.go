package money

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrInvalidAmount el texto no representa un importe.
var ErrInvalidAmount = errors.New("money: importe inválido")

var (
	plainNumber  = regexp.MustCompile(`^-?[0-9]+(\.[0-9]+)?$`)
	currencyCode = regexp.MustCompile(`(?i)\b(EUR|USD|GBP|INR)\b`)
)

// ParseAmount convierte un importe impreso en decimal.
// Acepta símbolos y códigos de moneda, separadores de miles (",", ".", "'", espacio)
// y separador decimal "." o ",". Paréntesis contables "(12.00)" indican negativo.
// Ejemplos: "1,234.56", "1.234,56", "€ 99,90", "(15.00)", "-3", "INR 1,00,000.00".
func ParseAmount(s string) (decimal.Decimal, error) {
	raw := s
	s = strings.TrimSpace(s)
	s = currencyCode.ReplaceAllString(s, "")
	for _, sym := range symbolOrder {
		s = strings.ReplaceAll(s, sym, "")
	}
	s = strings.TrimSpace(s)

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = strings.TrimSpace(s[1 : len(s)-1])
	}
	if strings.HasPrefix(s, "-") {
		negative = !negative
		s = strings.TrimSpace(s[1:])
	} else if strings.HasSuffix(s, "-") {
		negative = !negative
		s = strings.TrimSpace(s[:len(s)-1])
	}
	s = strings.NewReplacer("'", "", " ", "", "\u00a0", "").Replace(s)
	s = strings.TrimRight(s, ".,")
	if s == "" {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, raw)
	}

	s = normalizeSeparators(s)
	if !plainNumber.MatchString(s) {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, raw)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, raw)
	}
	if negative {
		d = d.Neg()
	}
	return d, nil
}

// normalizeSeparators deja solo "." como separador decimal.
//   - "," y "." presentes: el último que aparece es el decimal.
//   - solo ",": decimal si aparece una vez seguida de 1 o 2 dígitos; si no, miles.
//   - solo ".": miles si aparece más de una vez; si no, decimal.
func normalizeSeparators(s string) string {
	lastComma := strings.LastIndex(s, ",")
	lastDot := strings.LastIndex(s, ".")
	switch {
	case lastComma >= 0 && lastDot >= 0:
		if lastComma > lastDot {
			s = strings.ReplaceAll(s, ".", "")
			return strings.Replace(s, ",", ".", 1)
		}
		return strings.ReplaceAll(s, ",", "")
	case lastComma >= 0:
		if strings.Count(s, ",") == 1 {
			if frac := len(s) - lastComma - 1; frac == 1 || frac == 2 {
				return strings.Replace(s, ",", ".", 1)
			}
		}
		return strings.ReplaceAll(s, ",", "")
	case lastDot >= 0:
		if strings.Count(s, ".") > 1 {
			return strings.ReplaceAll(s, ".", "")
		}
	}
	return s
}
