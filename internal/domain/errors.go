package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrInvalidInput    = errors.New("entrada inválida")
	ErrUnsupportedFile = errors.New("tipo de archivo no soportado")
	ErrEmptyDocument   = errors.New("el documento no contiene texto extraíble")
	ErrUnknownFormat   = errors.New("formato de informe desconocido")
)
