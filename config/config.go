package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Valores por defecto de la configuración
const (
	DefaultConfigFile   = "./config/config.env"
	DefaultPort         = "4000"
	DefaultRetryDelay   = 5 * time.Second
	DefaultBodyLimit    = 10 * 1024 * 1024
	DefaultUploadLimit  = 50 * 1024 * 1024
	DefaultUploadDir    = "/tmp/"
	DefaultUploadFiles  = 4
	DefaultJWTExpires   = 7 * 24 * time.Hour
	DefaultCookieExpire = 7
)

// Entornos reconocidos
const (
	EnvironmentDevelopment = "development"
	EnvironmentProduction  = "production"
	EnvironmentTesting     = "testing"
)

// CORS agrupa los orígenes permitidos para peticiones cross-origin
type CORS struct {
	FrontendURL  string
	DashboardURL string
}

// AllowAll indica si la política debe aceptar cualquier origen.
// Basta con que falte uno de los dos valores para abrirla.
func (c CORS) AllowAll() bool {
	return c.FrontendURL == "" || c.DashboardURL == ""
}

// Origins devuelve la lista de orígenes configurados
func (c CORS) Origins() []string {
	var out []string
	for _, o := range []string{c.FrontendURL, c.DashboardURL} {
		if o != "" {
			out = append(out, o)
		}
	}
	return out
}

// Auth configura la emisión de tokens y cookies de sesión
type Auth struct {
	JWTSecret    string
	JWTExpires   time.Duration
	CookieExpire int // días
	SecureCookie bool
}

// Storage configura el almacenamiento de objetos para los avatares
type Storage struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	PublicURL string
}

// Enabled indica si hay suficiente configuración para crear el cliente
func (s Storage) Enabled() bool {
	return s.Endpoint != "" && s.AccessKey != "" && s.SecretKey != "" && s.Bucket != ""
}

// Config contiene toda la configuración del proceso, cargada una sola vez al inicio
type Config struct {
	Port        string
	Environment string
	DatabaseURL string
	RetryDelay  time.Duration
	BodyLimit   int
	UploadLimit int // por archivo
	UploadFiles int // archivos por petición
	UploadDir   string
	LogLevel    string
	LogFormat   string
	CORS        CORS
	Auth        Auth
	Storage     Storage
}

// Load lee el archivo de entorno (si existe) y construye la configuración.
// Un archivo ausente no es un error; el llamador decide si lo reporta.
func Load(path string) (*Config, bool, error) {
	if path == "" {
		path = DefaultConfigFile
	}
	fileLoaded := godotenv.Load(path) == nil

	cfg, err := FromEnv()
	return cfg, fileLoaded, err
}

// FromEnv construye la configuración a partir de las variables de entorno
func FromEnv() (*Config, error) {
	cfg := &Config{
		Port:        getenvDefault("PORT", DefaultPort),
		Environment: getenvDefault("ENVIRONMENT", EnvironmentDevelopment),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		UploadDir:   getenvDefault("UPLOAD_TEMP_DIR", DefaultUploadDir),
		LogLevel:    getenvDefault("LOG_LEVEL", "info"),
		LogFormat:   getenvDefault("LOG_FORMAT", "console"),
		CORS: CORS{
			FrontendURL:  normalizeOrigin(os.Getenv("FRONTEND_URL")),
			DashboardURL: normalizeOrigin(os.Getenv("DASHBOARD_URL")),
		},
		Storage: Storage{
			Endpoint:  os.Getenv("MINIO_ENDPOINT"),
			AccessKey: os.Getenv("MINIO_ACCESS_KEY"),
			SecretKey: os.Getenv("MINIO_SECRET_KEY"),
			Bucket:    os.Getenv("MINIO_BUCKET"),
			PublicURL: strings.TrimRight(os.Getenv("MINIO_PUBLIC_URL"), "/"),
		},
	}

	var err error
	if cfg.RetryDelay, err = durationEnv("DB_RETRY_DELAY", DefaultRetryDelay); err != nil {
		return nil, err
	}
	if cfg.BodyLimit, err = intEnv("BODY_LIMIT_BYTES", DefaultBodyLimit); err != nil {
		return nil, err
	}
	if cfg.UploadLimit, err = intEnv("UPLOAD_LIMIT_BYTES", DefaultUploadLimit); err != nil {
		return nil, err
	}
	if cfg.UploadFiles, err = intEnv("UPLOAD_MAX_FILES", DefaultUploadFiles); err != nil {
		return nil, err
	}

	cfg.Auth.JWTSecret = os.Getenv("JWT_SECRET_KEY")
	if cfg.Auth.JWTExpires, err = durationEnv("JWT_EXPIRES", DefaultJWTExpires); err != nil {
		return nil, err
	}
	if cfg.Auth.CookieExpire, err = intEnv("COOKIE_EXPIRE", DefaultCookieExpire); err != nil {
		return nil, err
	}
	cfg.Auth.SecureCookie = cfg.Environment == EnvironmentProduction

	if cfg.RetryDelay <= 0 {
		return nil, fmt.Errorf("DB_RETRY_DELAY must be positive, got %s", cfg.RetryDelay)
	}
	if cfg.BodyLimit <= 0 || cfg.UploadLimit <= 0 || cfg.UploadFiles <= 0 {
		return nil, fmt.Errorf("body and upload limits must be positive")
	}
	return cfg, nil
}

func getenvDefault(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func intEnv(key string, def int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return n, nil
}

// durationEnv acepta duraciones de Go ("5s") o milisegundos sin unidad ("5000")
func durationEnv(key string, def time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	if ms, err := strconv.Atoi(raw); err == nil {
		return time.Duration(ms) * time.Millisecond, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return d, nil
}

// normalizeOrigin quita espacios y barras finales: el navegador envía el origen sin ruta
func normalizeOrigin(raw string) string {
	return strings.TrimRight(strings.TrimSpace(raw), "/")
}
