// Package extraction convierte el texto de una factura (capa de texto de un PDF)
// en una entity.Invoice mediante patrones anclados a etiquetas.
//
// Flujo: Normalize → patrones por campo (lista de prioridad) → ParseLineItems.
// Los fallos son locales a cada campo y se reportan como Warning; nunca abortan el documento.
package extraction

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	horizontalSpace = regexp.MustCompile(`[ \t\v]+`)
	hyphenBreak     = regexp.MustCompile(`\p{L}-$`)
)

// dropControl elimina caracteres de control salvo el salto de línea.
var dropControl = runes.Remove(runes.Predicate(func(r rune) bool {
	return r != '\n' && r != '\t' && unicode.IsControl(r)
}))

// Normalize limpia el texto por página concatenado:
//   - saltos \r\n, \r y \f (separador de página) pasan a \n
//   - NFKC (ligaduras, espacios duros, dígitos de ancho completo) y sin caracteres de control
//   - espacios repetidos colapsados y líneas recortadas
//   - palabras cortadas con guion al final de línea se unen ("Consult-\ning" → "Consulting")
//   - una etiqueta sola al final de línea ("Invoice No:") se une con la línea siguiente
//   - como máximo una línea en blanco seguida; sin blancos al inicio ni al final
//
// Normalize es idempotente.
func Normalize(text string) string {
	text = strings.NewReplacer("\r\n", "\n", "\r", "\n", "\f", "\n").Replace(text)
	if t, _, err := transform.String(transform.Chain(norm.NFKC, dropControl), text); err == nil {
		text = t
	}

	raw := strings.Split(text, "\n")
	lines := make([]string, 0, len(raw))
	for _, l := range raw {
		lines = append(lines, strings.TrimSpace(horizontalSpace.ReplaceAllString(l, " ")))
	}
	lines = joinWrapped(lines)

	out := make([]string, 0, len(lines))
	blank := false
	for _, l := range lines {
		if l == "" {
			if blank || len(out) == 0 {
				continue
			}
			blank = true
			out = append(out, l)
			continue
		}
		blank = false
		out = append(out, l)
	}
	for len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}
	return strings.Join(out, "\n")
}

// joinWrapped une artefactos de corte de línea. La línea resultante se vuelve a
// evaluar, de modo que las cadenas de cortes quedan resueltas en una sola pasada.
func joinWrapped(lines []string) []string {
	out := make([]string, 0, len(lines))
	for i := 0; i < len(lines); i++ {
		cur := lines[i]
		for i+1 < len(lines) {
			merged, ok := mergeWrapped(cur, lines[i+1])
			if !ok {
				break
			}
			cur = merged
			i++
		}
		out = append(out, cur)
	}
	return out
}

func mergeWrapped(cur, next string) (string, bool) {
	if next == "" {
		return "", false
	}
	switch {
	case hyphenBreak.MatchString(cur) && startsLower(next):
		return cur[:len(cur)-1] + next, true
	case strings.HasSuffix(cur, ":"):
		return cur + " " + next, true
	}
	return "", false
}

func startsLower(s string) bool {
	for _, r := range s {
		return unicode.IsLower(r)
	}
	return false
}
