package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/invoice-qc/internal/application/qc"
	"github.com/jhoicas/invoice-qc/internal/domain/extraction"
	"github.com/jhoicas/invoice-qc/internal/domain/validation"
	"github.com/jhoicas/invoice-qc/internal/infrastructure/bundle"
	infrapdf "github.com/jhoicas/invoice-qc/internal/infrastructure/pdf"
	"github.com/jhoicas/invoice-qc/internal/infrastructure/pdftext"
	"github.com/jhoicas/invoice-qc/internal/infrastructure/xlsx"
	"github.com/jhoicas/invoice-qc/internal/infrastructure/xmlreport"
	httpRouter "github.com/jhoicas/invoice-qc/internal/interfaces/http"
	"github.com/jhoicas/invoice-qc/pkg/config"
	"github.com/jhoicas/invoice-qc/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	tolerance, err := cfg.QC.ToleranceDecimal()
	if err != nil {
		log.Fatal().Err(err).Msg("tolerancia")
	}

	extractor := extraction.NewExtractor(extraction.Options{CurrencyFallback: cfg.QC.CurrencyFallback})
	validator := validation.NewValidator(validation.Config{
		Tolerance:         tolerance,
		AllowedCurrencies: cfg.QC.AllowedCurrencies,
		Workers:           cfg.QC.Workers,
	})
	qcUC := qc.NewUseCase(extractor, validator, pdftext.NewReader(), log)
	xlsxRenderer := xlsx.NewReportRenderer()
	pdfRenderer := infrapdf.NewMarotoReportRenderer(cfg.App.Name)
	xmlRenderer := xmlreport.NewReportRenderer()
	reports := qc.NewReports(
		xlsxRenderer,
		pdfRenderer,
		xmlRenderer,
		bundle.NewZipRenderer(qc.JSONRenderer{}, xlsxRenderer, pdfRenderer, xmlRenderer),
	)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		BodyLimit:    cfg.HTTP.BodyLimit(),
		ReadTimeout:  time.Second * 30,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Invoice QC API",
		}))
	} else {
		log.Warn().Str("file", swaggerFile).Msg("swagger deshabilitado: archivo no encontrado")
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		QC:           qcUC,
		Reports:      reports,
		Logger:       log,
		AllowOrigins: cfg.HTTP.CORSOrigins,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
