// Package dates parsea fechas de calendario impresas en facturas probando una
// lista fija y ordenada de formatos. El resultado no tiene componente horario.
package dates

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// ISOLayout formato canónico de salida.
const ISOLayout = "2006-01-02"

// ErrUnparseable ningún formato aceptado coincide.
var ErrUnparseable = errors.New("dates: formato de fecha no reconocido")

// Layouts formatos aceptados, en orden de prueba. Parse lleva antes los
// separadores numéricos a "-", así que las formas numéricas ambiguas
// (01/02/2024, 01.02.2024) se interpretan día primero.
var Layouts = []string{
	"2006-1-2",
	"2-1-2006",
	"2 January 2006",
	"2 Jan 2006",
	"January 2, 2006",
	"January 2 2006",
	"Jan 2, 2006",
	"Jan 2 2006",
	"2-1-06",
}

var (
	spaces = regexp.MustCompile(`\s+`)
	// "2024/01/10", "10.01.2024" → "2024-01-10", "10-01-2024"
	numeric = regexp.MustCompile(`^(\d{1,4})[./-](\d{1,2})[./-](\d{2,4})$`)
	// "Jan." → "Jan"
	monthDot = regexp.MustCompile(`([A-Za-z])\.`)
	// "10-Jan-2024", "10 Jan-2024" → "10 Jan 2024"
	monthDash = regexp.MustCompile(`([A-Za-z])\s*-\s*|\s*-\s*([A-Za-z])`)
)

// Parse prueba cada layout en orden y devuelve la fecha normalizada a medianoche UTC.
func Parse(s string) (time.Time, error) {
	v := strings.TrimSpace(spaces.ReplaceAllString(s, " "))
	v = strings.TrimSpace(strings.TrimRight(v, ".,;"))
	v = numeric.ReplaceAllString(v, "$1-$2-$3")
	v = monthDot.ReplaceAllString(v, "$1")
	v = monthDash.ReplaceAllString(v, "$1 $2")
	v = strings.Replace(v, "Sept ", "Sep ", 1)
	if v == "" {
		return time.Time{}, fmt.Errorf("%w: vacía", ErrUnparseable)
	}
	for _, layout := range Layouts {
		t, err := time.Parse(layout, v)
		if err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrUnparseable, s)
}

// Format representa la fecha como YYYY-MM-DD.
func Format(t time.Time) string {
	return t.Format(ISOLayout)
}
