package dto

import (
	"github.com/jhoicas/invoice-qc/internal/domain/entity"
	"github.com/jhoicas/invoice-qc/internal/domain/extraction"
)

// ExtractTextRequest texto plano a extraer (POST /api/invoices/extract con JSON).
type ExtractTextRequest struct {
	Source string `json:"source"`
	Text   string `json:"text"`
}

// ExtractedInvoice factura extraída con sus avisos de extracción.
type ExtractedInvoice struct {
	Source   string               `json:"source,omitempty"`
	Invoice  entity.Invoice       `json:"invoice"`
	Warnings []extraction.Warning `json:"warnings"`
}

// ExtractAndValidateResponse respuesta de extracción + validación de PDFs.
type ExtractAndValidateResponse struct {
	Invoices   []ExtractedInvoice `json:"invoices"`
	Validation entity.BatchReport `json:"validation"`
}

// HealthResponse respuesta de GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}
