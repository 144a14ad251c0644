package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/jhoicas/invoice-qc/internal/application/qc"
	"github.com/jhoicas/invoice-qc/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	QC      *qc.UseCase
	Reports *qc.Reports
	Logger  *logger.Logger
	// AllowOrigins lista CORS separada por comas; vacío = "*".
	AllowOrigins string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	origins := deps.AllowOrigins
	if origins == "" {
		origins = "*"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept",
	}))
	if deps.Logger != nil {
		app.Use(RequestLogger(deps.Logger))
	}

	h := NewQCHandler(deps.QC, deps.Reports)
	app.Get("/health", h.Health)

	api := app.Group("/api")

	invoices := api.Group("/invoices")
	invoices.Post("/validate", RequireJSON(), h.Validate)
	invoices.Post("/extract", h.Extract)
	invoices.Post("/extract-and-validate", h.ExtractAndValidate)

	reports := api.Group("/reports")
	reports.Post("/:format", RequireJSON(), h.Report)
}
