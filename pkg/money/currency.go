// Package money agrupa el catálogo de monedas aceptadas, la tabla de símbolos,
// el parseo de importes impresos y la tolerancia de comparación por moneda.
// Todos los importes se manejan con shopspring/decimal (nunca float64).
package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Códigos ISO 4217 aceptados.
const (
	EUR = "EUR"
	USD = "USD"
	GBP = "GBP"
	INR = "INR"
)

// AcceptedCurrencies conjunto cerrado de monedas válidas, en orden estable.
var AcceptedCurrencies = []string{EUR, USD, GBP, INR}

// symbols tabla símbolo → código. El orden de symbolOrder fija la precedencia
// cuando un texto contiene varios símbolos.
var symbols = map[string]string{
	"€": EUR,
	"£": GBP,
	"₹": INR,
	"$": USD,
}

var symbolOrder = []string{"€", "£", "₹", "$"}

// minorUnits decimales de la unidad mínima de cada moneda.
var minorUnits = map[string]int32{
	EUR: 2,
	USD: 2,
	GBP: 2,
	INR: 2,
}

// IsAccepted indica si code pertenece al conjunto cerrado de monedas.
func IsAccepted(code string) bool {
	_, ok := minorUnits[code]
	return ok
}

// IsAcceptedIn indica si code pertenece a allowed (comparación exacta, mayúsculas).
func IsAcceptedIn(code string, allowed []string) bool {
	for _, a := range allowed {
		if a == code {
			return true
		}
	}
	return false
}

// CodeForSymbol resuelve un símbolo (€, $, £, ₹) a su código ISO.
func CodeForSymbol(symbol string) (string, bool) {
	code, ok := symbols[strings.TrimSpace(symbol)]
	return code, ok
}

// Symbols devuelve los símbolos conocidos en orden de precedencia.
func Symbols() []string {
	out := make([]string, len(symbolOrder))
	copy(out, symbolOrder)
	return out
}

// MinorUnits decimales de la moneda; 2 para monedas desconocidas.
func MinorUnits(code string) int32 {
	if n, ok := minorUnits[code]; ok {
		return n
	}
	return 2
}

// DefaultTolerance tolerancia por defecto: dos unidades mínimas de la moneda
// (0.02 para EUR, USD, GBP e INR).
func DefaultTolerance(code string) decimal.Decimal {
	return decimal.New(2, -MinorUnits(code))
}

// ParseCurrencyList convierte "EUR, usd,GBP" en ["EUR","USD","GBP"], sin vacíos ni repetidos.
func ParseCurrencyList(s string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, part := range strings.Split(s, ",") {
		code := strings.ToUpper(strings.TrimSpace(part))
		if code == "" || seen[code] {
			continue
		}
		seen[code] = true
		out = append(out, code)
	}
	return out
}
