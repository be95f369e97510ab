package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// Drivers de almacenamiento soportados.
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
)

// MaxFeeBasisPoints tope de la comisión de plataforma (10%).
const MaxFeeBasisPoints = 1000

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App      AppConfig
	Store    StoreConfig
	DB       DBConfig
	JWT      JWTConfig
	HTTP     HTTPConfig
	Platform PlatformConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env            string // development, staging, production
	Name           string
	LogLevel       string
	SwaggerEnabled bool
}

// StoreConfig selección del backend de persistencia.
type StoreConfig struct {
	Driver  string // memory | postgres
	Migrate bool   // aplicar el esquema embebido al arrancar (postgres)
}

// DBConfig configuración de PostgreSQL.
// Si DatabaseURL no está vacío, se usa como connection string completo.
type DBConfig struct {
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
}

// ConnectionString devuelve el DSN a usar: DATABASE_URL si está definido, si no el construido con DSN().
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN devuelve el connection string con URL encoding para caracteres especiales.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}
	return u.String()
}

// JWTConfig configuración de JWT.
type JWTConfig struct {
	Secret     string
	Expiration int // minutos
	Issuer     string
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// PlatformConfig identidades privilegiadas y comisión.
type PlatformConfig struct {
	Admin          string // transfiere propiedad de empresas y acredita saldos
	CatalogAdmin   string // administrador de los grants del catálogo
	LedgerAdmin    string // administrador de los grants del libro de clientes
	OrchestratorID string // identidad con la que el orquestador llama los puntos privilegiados
	FeeBasisPoints int64
	TreasuryID     string
	TrackInventory bool
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.SetConfigName("config")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	admin := getString(v, "PLATFORM_ADMIN", "")
	return &Config{
		App: AppConfig{
			Env:            getString(v, "APP_ENV", "development"),
			Name:           getString(v, "APP_NAME", "commerce-ledger"),
			LogLevel:       getString(v, "LOG_LEVEL", "info"),
			SwaggerEnabled: getBool(v, "SWAGGER_ENABLED", false),
		},
		Store: StoreConfig{
			Driver:  strings.ToLower(getString(v, "STORE_DRIVER", DriverMemory)),
			Migrate: getBool(v, "DB_MIGRATE", true),
		},
		DB: DBConfig{
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "commerce_ledger"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
		},
		JWT: JWTConfig{
			Secret:     getString(v, "JWT_SECRET", ""),
			Expiration: getInt(v, "JWT_EXPIRATION_MINUTES", 60),
			Issuer:     getString(v, "JWT_ISSUER", "commerce-ledger"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 8080),
		},
		Platform: PlatformConfig{
			Admin:          admin,
			CatalogAdmin:   getString(v, "CATALOG_ADMIN", admin),
			LedgerAdmin:    getString(v, "LEDGER_ADMIN", admin),
			OrchestratorID: getString(v, "ORCHESTRATOR_ID", "svc:orders"),
			FeeBasisPoints: int64(getInt(v, "PLATFORM_FEE_BPS", 0)),
			TreasuryID:     getString(v, "TREASURY_ID", ""),
			TrackInventory: getBool(v, "TRACK_INVENTORY", true),
		},
	}
}

// Validate rechaza combinaciones que el servicio no puede operar.
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case DriverMemory, DriverPostgres:
	default:
		return fmt.Errorf("config: STORE_DRIVER desconocido %q", c.Store.Driver)
	}
	if c.Platform.FeeBasisPoints < 0 || c.Platform.FeeBasisPoints > MaxFeeBasisPoints {
		return fmt.Errorf("config: PLATFORM_FEE_BPS debe estar entre 0 y %d", MaxFeeBasisPoints)
	}
	if c.Platform.FeeBasisPoints > 0 && c.Platform.TreasuryID == "" {
		return fmt.Errorf("config: TREASURY_ID es obligatorio con PLATFORM_FEE_BPS > 0")
	}
	if c.Platform.OrchestratorID == "" {
		return fmt.Errorf("config: ORCHESTRATOR_ID vacío")
	}
	if c.JWT.Secret == "" && c.App.Env != "development" {
		return fmt.Errorf("config: JWT_SECRET es obligatorio fuera de development")
	}
	return nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if !v.IsSet(key) {
		return def
	}
	switch v.Get(key).(type) {
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

func getBool(v *viper.Viper, key string, def bool) bool {
	if !v.IsSet(key) {
		return def
	}
	switch v.Get(key).(type) {
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(v.GetString(key)))
		if err != nil {
			return def
		}
		return b
	default:
		return v.GetBool(key)
	}
}
