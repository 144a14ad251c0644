package pdftext_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/invoice-qc/internal/infrastructure/pdftext"
)

func TestReadText_NoEsPDF(t *testing.T) {
	data := []byte("esto no es un pdf")
	_, err := pdftext.NewReader().ReadText(context.Background(), bytes.NewReader(data), int64(len(data)))
	assert.Error(t, err)
}

func TestReadText_Vacio(t *testing.T) {
	_, err := pdftext.NewReader().ReadText(context.Background(), bytes.NewReader(nil), 0)
	assert.Error(t, err)
}
