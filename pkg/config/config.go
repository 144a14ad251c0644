package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"github.com/jhoicas/invoice-qc/pkg/money"
)

// ErrInvalidConfig configuración con valores no admitidos.
var ErrInvalidConfig = errors.New("configuración inválida")

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App  AppConfig
	HTTP HTTPConfig
	QC   QCConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	LogLevel string // trace, debug, info, warn, error
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host        string
	Port        int
	BodyLimitMB int    // tamaño máximo de petición (subida de PDFs)
	CORSOrigins string // orígenes permitidos separados por comas; vacío = "*"
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// BodyLimit límite de cuerpo en bytes.
func (c HTTPConfig) BodyLimit() int {
	return c.BodyLimitMB * 1024 * 1024
}

// QCConfig parámetros de extracción y validación.
type QCConfig struct {
	Tolerance         string   // vacío: dos unidades mínimas de la moneda
	AllowedCurrencies []string // vacío: EUR, USD, GBP, INR
	CurrencyFallback  string   // vacío: sin moneda por defecto
	Workers           int      // <= 0: GOMAXPROCS
}

// ToleranceDecimal tolerancia configurada; nil si no se configuró.
func (c QCConfig) ToleranceDecimal() (*decimal.Decimal, error) {
	if strings.TrimSpace(c.Tolerance) == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(strings.TrimSpace(c.Tolerance))
	if err != nil {
		return nil, fmt.Errorf("%w: QC_TOLERANCE %q no es numérico", ErrInvalidConfig, c.Tolerance)
	}
	if d.IsNegative() {
		return nil, fmt.Errorf("%w: QC_TOLERANCE no puede ser negativa", ErrInvalidConfig)
	}
	return &d, nil
}

// Validate comprueba los valores que no se pueden corregir con un default.
func (c *Config) Validate() error {
	var errs []error
	if _, err := c.QC.ToleranceDecimal(); err != nil {
		errs = append(errs, err)
	}
	for _, code := range c.QC.AllowedCurrencies {
		if !money.IsAccepted(code) {
			errs = append(errs, fmt.Errorf("%w: QC_ALLOWED_CURRENCIES contiene %q", ErrInvalidConfig, code))
		}
	}
	if c.QC.CurrencyFallback != "" && !money.IsAccepted(c.QC.CurrencyFallback) {
		errs = append(errs, fmt.Errorf("%w: QC_CURRENCY_FALLBACK %q no es una moneda aceptada", ErrInvalidConfig, c.QC.CurrencyFallback))
	}
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		errs = append(errs, fmt.Errorf("%w: HTTP_PORT %d fuera de rango", ErrInvalidConfig, c.HTTP.Port))
	}
	if c.HTTP.BodyLimitMB <= 0 {
		errs = append(errs, fmt.Errorf("%w: HTTP_BODY_LIMIT_MB debe ser positivo", ErrInvalidConfig))
	}
	return errors.Join(errs...)
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, HTTP_PORT, QC_TOLERANCE, etc.
func Load() (*Config, error) {
	v := viper.New()

	// Opcional: archivo de configuración (.env o config.env)
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "invoice-qc"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
		},
		HTTP: HTTPConfig{
			Host:        getString(v, "HTTP_HOST", "0.0.0.0"),
			Port:        getInt(v, "HTTP_PORT", 8080),
			BodyLimitMB: getInt(v, "HTTP_BODY_LIMIT_MB", 20),
			CORSOrigins: getString(v, "HTTP_CORS_ORIGINS", ""),
		},
		QC: QCConfig{
			Tolerance:         getString(v, "QC_TOLERANCE", ""),
			AllowedCurrencies: money.ParseCurrencyList(getString(v, "QC_ALLOWED_CURRENCIES", "")),
			CurrencyFallback:  strings.ToUpper(strings.TrimSpace(getString(v, "QC_CURRENCY_FALLBACK", ""))),
			Workers:           getInt(v, "QC_WORKERS", 0),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, err := strconv.Atoi(strings.TrimSpace(v.GetString(key)))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}
