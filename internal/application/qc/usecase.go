// Package qc orquesta los casos de uso de control de calidad de facturas:
// extracción (texto o PDF), validación por lote y renderizado de informes.
// No contiene reglas de negocio: delega en extraction y validation.
package qc

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/invoice-qc/internal/application/dto"
	"github.com/jhoicas/invoice-qc/internal/domain"
	"github.com/jhoicas/invoice-qc/internal/domain/entity"
	"github.com/jhoicas/invoice-qc/internal/domain/extraction"
	"github.com/jhoicas/invoice-qc/internal/domain/validation"
	"github.com/jhoicas/invoice-qc/pkg/logger"
)

// UseCase punto de entrada de la CLI y del API HTTP.
type UseCase struct {
	extractor *extraction.Extractor
	validator *validation.Validator
	reader    PDFTextReader
	log       *logger.Logger
	now       func() time.Time
	newID     func() string
}

// NewUseCase construye el caso de uso inyectando sus dependencias. reader puede ser
// nil si solo se valida JSON.
func NewUseCase(
	extractor *extraction.Extractor,
	validator *validation.Validator,
	reader PDFTextReader,
	log *logger.Logger,
) *UseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &UseCase{
		extractor: extractor,
		validator: validator,
		reader:    reader,
		log:       log.Component("qc"),
		now:       func() time.Time { return time.Now().UTC() },
		newID:     func() string { return uuid.New().String() },
	}
}

// ExtractText extrae una factura de texto plano. source (opcional) se usa como
// external_reference si el texto no trae una.
func (uc *UseCase) ExtractText(source, text string) dto.ExtractedInvoice {
	inv, warnings := uc.extractor.ExtractNamed(source, text)
	uc.logWarnings(source, warnings)
	return dto.ExtractedInvoice{Source: source, Invoice: inv, Warnings: nonNil(warnings)}
}

// ExtractPDF lee la capa de texto del PDF y extrae la factura.
//
// Retorna:
//   - domain.ErrUnsupportedFile si el archivo no es un PDF.
//   - nil en cualquier otro caso: un PDF ilegible o sin texto produce una factura
//     vacía (external_reference = nombre del archivo) con un aviso, y la validación
//     posterior la marcará como incompleta.
func (uc *UseCase) ExtractPDF(ctx context.Context, doc Document) (dto.ExtractedInvoice, error) {
	name := filepath.Base(doc.Name)
	if !IsPDF(name, doc.Data) {
		return dto.ExtractedInvoice{}, fmt.Errorf("%w: %s", domain.ErrUnsupportedFile, name)
	}
	if uc.reader == nil {
		return dto.ExtractedInvoice{}, fmt.Errorf("qc: lector de PDF no configurado")
	}

	text, err := uc.reader.ReadText(ctx, bytes.NewReader(doc.Data), int64(len(doc.Data)))
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return dto.ExtractedInvoice{}, ctxErr
		}
		uc.log.Warn().Err(err).Str("source", name).Msg("no se pudo leer el texto del PDF")
		msg := "no se pudo leer el texto del PDF: " + err.Error()
		if errors.Is(err, domain.ErrEmptyDocument) {
			msg = "el PDF no tiene capa de texto (¿documento escaneado?)"
		}
		inv := entity.Invoice{ExternalReference: name, LineItems: []entity.LineItem{}}
		return dto.ExtractedInvoice{
			Source:   name,
			Invoice:  inv,
			Warnings: []extraction.Warning{{Field: "document", Message: msg}},
		}, nil
	}
	return uc.ExtractText(name, text), nil
}

// ExtractPDFs extrae cada documento en orden. progress (opcional) se invoca tras cada uno.
func (uc *UseCase) ExtractPDFs(ctx context.Context, docs []Document, progress func(done int)) ([]dto.ExtractedInvoice, error) {
	out := make([]dto.ExtractedInvoice, 0, len(docs))
	for i, doc := range docs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		ex, err := uc.ExtractPDF(ctx, doc)
		if err != nil {
			return nil, err
		}
		out = append(out, ex)
		if progress != nil {
			progress(i + 1)
		}
	}
	uc.log.Info().Int("documents", len(out)).Msg("extracción completada")
	return out, nil
}

// Validate valida un lote y sella el informe con identificador y fecha.
func (uc *UseCase) Validate(invoices []entity.Invoice) entity.BatchReport {
	report := uc.validator.ValidateBatch(invoices)
	generated := uc.now()
	report.ReportID = uc.newID()
	report.GeneratedAt = &generated

	uc.log.Info().
		Str("report_id", report.ReportID).
		Int("total", report.Summary.Total).
		Int("passed", report.Summary.Passed).
		Int("failed", report.Summary.Failed).
		Msg("lote validado")
	return report
}

// ValidateJSON decodifica un arreglo JSON de facturas y lo valida.
// Una entrada mal formada devuelve un único error envuelto en domain.ErrInvalidInput.
func (uc *UseCase) ValidateJSON(data []byte) (entity.BatchReport, error) {
	invoices, err := DecodeInvoices(bytes.NewReader(data))
	if err != nil {
		uc.log.Warn().Err(err).Msg("lote rechazado")
		return entity.BatchReport{}, err
	}
	return uc.Validate(invoices), nil
}

// ExtractAndValidate extrae todos los PDFs y valida el lote resultante.
func (uc *UseCase) ExtractAndValidate(ctx context.Context, docs []Document, progress func(done int)) (*dto.ExtractAndValidateResponse, error) {
	if len(docs) == 0 {
		return nil, fmt.Errorf("%w: no se recibió ningún archivo", domain.ErrInvalidInput)
	}
	extracted, err := uc.ExtractPDFs(ctx, docs, progress)
	if err != nil {
		return nil, err
	}
	invoices := make([]entity.Invoice, len(extracted))
	for i, ex := range extracted {
		invoices[i] = ex.Invoice
	}
	return &dto.ExtractAndValidateResponse{Invoices: extracted, Validation: uc.Validate(invoices)}, nil
}

// IsPDF extensión .pdf o cabecera %PDF-.
func IsPDF(name string, data []byte) bool {
	return strings.EqualFold(filepath.Ext(name), ".pdf") || bytes.HasPrefix(data, []byte("%PDF-"))
}

func (uc *UseCase) logWarnings(source string, warnings []extraction.Warning) {
	for _, w := range warnings {
		uc.log.Debug().Str("source", source).Str("field", w.Field).Msg(w.Message)
	}
}

func nonNil(ws []extraction.Warning) []extraction.Warning {
	if ws == nil {
		return []extraction.Warning{}
	}
	return ws
}
