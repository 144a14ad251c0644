package entity

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"github.com/jhoicas/invoice-qc/pkg/dates"
)

// Date fecha de calendario sin hora. Mismos tres estados que Amount:
// ausente, sin parsear (Raw conserva el texto) o parseada (Valid).
type Date struct {
	Time  time.Time
	Raw   string
	Valid bool
}

// NewDate construye una fecha válida.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC), Valid: true}
}

// ParseDate prueba los formatos aceptados; si ninguno coincide la fecha queda sin parsear.
func ParseDate(raw string) Date {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Date{}
	}
	t, err := dates.Parse(raw)
	if err != nil {
		return Date{Raw: raw}
	}
	return Date{Time: t, Raw: raw, Valid: true}
}

// IsAbsent la fecha nunca estuvo presente.
func (d Date) IsAbsent() bool { return !d.Valid && d.Raw == "" }

// IsUnparsed la fecha estuvo presente pero ningún formato coincidió.
func (d Date) IsUnparsed() bool { return !d.Valid && d.Raw != "" }

// Before ambas válidas y d anterior a other.
func (d Date) Before(other Date) bool {
	return d.Valid && other.Valid && d.Time.Before(other.Time)
}

// Equal compara estado y valor.
func (d Date) Equal(other Date) bool {
	if d.Valid != other.Valid {
		return false
	}
	if d.Valid {
		return d.Time.Equal(other.Time)
	}
	return d.Raw == other.Raw
}

// String YYYY-MM-DD si es válida; el texto original si no.
func (d Date) String() string {
	if d.Valid {
		return dates.Format(d.Time)
	}
	return d.Raw
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsAbsent() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*d = Date{}
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*d = ParseDate(s)
		return nil
	}
	*d = Date{Raw: string(data)}
	return nil
}
