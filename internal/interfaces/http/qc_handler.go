package http

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/invoice-qc/internal/application/dto"
	"github.com/jhoicas/invoice-qc/internal/application/qc"
	"github.com/jhoicas/invoice-qc/internal/domain"
)

// QCHandler expone extracción, validación e informes de facturas.
type QCHandler struct {
	uc      *qc.UseCase
	reports *qc.Reports
}

// NewQCHandler construye el handler.
func NewQCHandler(uc *qc.UseCase, reports *qc.Reports) *QCHandler {
	return &QCHandler{uc: uc, reports: reports}
}

// Health godoc
// @Summary      Estado del servicio
// @Tags         health
// @Produce      json
// @Success      200  {object}  dto.HealthResponse
// @Router       /health [get]
func (h *QCHandler) Health(c *fiber.Ctx) error {
	return c.JSON(dto.HealthResponse{Status: "ok"})
}

// Validate godoc
// @Summary      Validar lote de facturas
// @Description  Recibe un arreglo JSON de facturas y devuelve el informe del lote:
//               resultado por factura en el orden de entrada, resumen y conteo por regla.
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        body  body  []entity.Invoice  true  "facturas a validar"
// @Success      200   {object}  entity.BatchReport
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/invoices/validate [post]
func (h *QCHandler) Validate(c *fiber.Ctx) error {
	report, err := h.uc.ValidateJSON(c.Body())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(report)
}

// Extract godoc
// @Summary      Extraer factura de texto
// @Description  Acepta texto plano (text/plain) o un JSON {"source","text"}.
//               Devuelve la factura estructurada y los avisos de extracción.
// @Tags         invoices
// @Accept       plain
// @Accept       json
// @Produce      json
// @Param        source  query  string  false  "nombre de origen (external_reference por defecto)"
// @Param        body    body   dto.ExtractTextRequest  true  "texto de la factura"
// @Success      200     {object}  dto.ExtractedInvoice
// @Failure      400     {object}  dto.ErrorResponse
// @Router       /api/invoices/extract [post]
func (h *QCHandler) Extract(c *fiber.Ctx) error {
	in := dto.ExtractTextRequest{Source: c.Query("source")}
	if strings.HasPrefix(strings.ToLower(c.Get(fiber.HeaderContentType)), fiber.MIMEApplicationJSON) {
		if err := c.BodyParser(&in); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
		}
		if in.Source == "" {
			in.Source = c.Query("source")
		}
	} else {
		in.Text = string(c.Body())
	}
	if strings.TrimSpace(in.Text) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "texto requerido"})
	}
	return c.JSON(h.uc.ExtractText(in.Source, in.Text))
}

// ExtractAndValidate godoc
// @Summary      Extraer y validar PDFs
// @Description  Recibe uno o varios PDFs con capa de texto (campo multipart "files"),
//               extrae cada factura y valida el lote completo.
// @Tags         invoices
// @Accept       mpfd
// @Produce      json
// @Param        files  formData  file  true  "PDFs de facturas"
// @Success      200    {object}  dto.ExtractAndValidateResponse
// @Failure      400    {object}  dto.ErrorResponse
// @Failure      415    {object}  dto.ErrorResponse
// @Failure      500    {object}  dto.ErrorResponse
// @Router       /api/invoices/extract-and-validate [post]
func (h *QCHandler) ExtractAndValidate(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "se esperaba multipart/form-data"})
	}
	docs, err := readDocuments(form.File["files"])
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: err.Error()})
	}
	out, err := h.uc.ExtractAndValidate(c.Context(), docs, nil)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Report godoc
// @Summary      Generar informe
// @Description  Valida el arreglo JSON de facturas y devuelve el informe como archivo
//               en el formato indicado (json, xlsx, pdf, xml o un zip con todos).
// @Tags         reports
// @Accept       json
// @Produce      octet-stream
// @Param        format  path  string  true  "json | xlsx | pdf | xml | zip"
// @Param        body    body  []entity.Invoice  true  "facturas a validar"
// @Success      200
// @Failure      400     {object}  dto.ErrorResponse
// @Failure      404     {object}  dto.ErrorResponse
// @Failure      500     {object}  dto.ErrorResponse
// @Router       /api/reports/{format} [post]
func (h *QCHandler) Report(c *fiber.Ctx) error {
	renderer, err := h.reports.Get(c.Params("format"))
	if err != nil {
		return writeError(c, err)
	}
	report, err := h.uc.ValidateJSON(c.Body())
	if err != nil {
		return writeError(c, err)
	}
	var buf bytes.Buffer
	if err := renderer.Render(c.Context(), &buf, &report); err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, renderer.ContentType())
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="invoice-qc-%s.%s"`, report.ReportID, renderer.Format()))
	return c.Status(fiber.StatusOK).Send(buf.Bytes())
}

// writeError traduce errores de dominio a dto.ErrorResponse.
func writeError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrUnsupportedFile):
		return c.Status(fiber.StatusUnsupportedMediaType).JSON(dto.ErrorResponse{Code: "UNSUPPORTED_FILE", Message: err.Error()})
	case errors.Is(err, domain.ErrUnknownFormat):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}

func readDocuments(files []*multipart.FileHeader) ([]qc.Document, error) {
	docs := make([]qc.Document, 0, len(files))
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("abrir %s: %w", fh.Filename, err)
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("leer %s: %w", fh.Filename, err)
		}
		docs = append(docs, qc.Document{Name: fh.Filename, Data: data})
	}
	return docs, nil
}
