package entity

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/invoice-qc/pkg/money"
)

// Amount valor decimal de precisión fija (importes, cantidades, tasas) con tres estados:
//   - ausente:      Valid=false, Raw=""
//   - sin parsear:  Valid=false, Raw con el texto original ("no es un número")
//   - parseado:     Valid=true, Decimal con el valor
type Amount struct {
	Decimal decimal.Decimal
	Raw     string
	Valid   bool
}

// NewAmount construye un importe válido.
func NewAmount(d decimal.Decimal) Amount {
	return Amount{Decimal: d, Valid: true}
}

// ParseAmount parsea un importe impreso; si falla conserva el texto como sin parsear.
func ParseAmount(raw string) Amount {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Amount{}
	}
	d, err := money.ParseAmount(raw)
	if err != nil {
		return Amount{Raw: raw}
	}
	return Amount{Decimal: d, Raw: raw, Valid: true}
}

// IsAbsent el campo nunca estuvo presente.
func (a Amount) IsAbsent() bool { return !a.Valid && a.Raw == "" }

// IsUnparsed el campo estuvo presente pero no es un número.
func (a Amount) IsUnparsed() bool { return !a.Valid && a.Raw != "" }

// IsNegative válido y menor que cero.
func (a Amount) IsNegative() bool { return a.Valid && a.Decimal.IsNegative() }

// IsZero válido e igual a cero.
func (a Amount) IsZero() bool { return a.Valid && a.Decimal.IsZero() }

// Or devuelve el decimal si es válido; def en otro caso.
func (a Amount) Or(def decimal.Decimal) decimal.Decimal {
	if a.Valid {
		return a.Decimal
	}
	return def
}

// Equal compara estado y valor (1.0 y 1.00 son iguales).
func (a Amount) Equal(b Amount) bool {
	if a.Valid != b.Valid {
		return false
	}
	if a.Valid {
		return a.Decimal.Equal(b.Decimal)
	}
	return a.Raw == b.Raw
}

func (a Amount) String() string {
	switch {
	case a.Valid:
		return a.Decimal.String()
	case a.Raw != "":
		return a.Raw
	default:
		return ""
	}
}

// MarshalJSON número JSON si es válido, el texto original si no se pudo parsear, null si ausente.
func (a Amount) MarshalJSON() ([]byte, error) {
	switch {
	case a.Valid:
		return []byte(a.Decimal.String()), nil
	case a.Raw != "":
		return json.Marshal(a.Raw)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON acepta número, cadena numérica ("1,234.50") o null.
// Cualquier otro valor queda como sin parsear.
func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*a = Amount{}
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*a = ParseAmount(s)
		return nil
	}
	if d, err := decimal.NewFromString(string(data)); err == nil {
		*a = Amount{Decimal: d, Raw: string(data), Valid: true}
		return nil
	}
	*a = Amount{Raw: string(data)}
	return nil
}
