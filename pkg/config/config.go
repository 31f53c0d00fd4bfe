// Package config carga la configuración del servicio con Viper: variables de entorno y,
// si existen, .env o config.env en el directorio de trabajo.
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

// Config configuración completa del servicio.
type Config struct {
	App   AppConfig
	DB    DBConfig
	JWT   JWTConfig
	HTTP  HTTPConfig
	Redis RedisConfig
	Kafka KafkaConfig
	Otel  OtelConfig
	Lock  LockConfig
}

type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	LogLevel string
}

// DBConfig persistencia. Driver "postgres" (por defecto) o "memory" (sin BD, datos volátiles).
// DatabaseURL, si viene, tiene prioridad sobre Host/Port/User/...
type DBConfig struct {
	Driver      string
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
	MaxConns    int
	MinConns    int
	Migrate     bool // aplica migrations/*.sql al arrancar
	ForceIPv4   bool // resuelve el host a IPv4 antes de conectar

	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// ConnectionString DATABASE_URL o, en su defecto, el DSN armado con los campos sueltos.
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN url postgres:// con usuario y contraseña escapados.
func (c DBConfig) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: url.Values{"sslmode": {c.SSLMode}}.Encode(),
	}
	return u.String()
}

// JWTConfig validación de tokens. Secret vacío desactiva la autenticación en /api.
type JWTConfig struct {
	Secret string
	Issuer string
}

type HTTPConfig struct {
	Host string
	Port int
}

// Addr host:port de escucha.
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// RedisConfig bloqueo distribuido. Addr vacío: bloqueo en memoria del proceso.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// KafkaConfig publicación de eventos. Brokers vacío: eventos descartados.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// OtelConfig trazas. Exporter: none, otlp o stdout. Por defecto otlp si hay endpoint.
type OtelConfig struct {
	Exporter    string
	Endpoint    string // host:port del colector
	Insecure    bool
	ServiceName string
	SampleRatio float64 // 0..1, muestreo de trazas raíz
}

// LockConfig tiempos del bloqueo de claves.
type LockConfig struct {
	TTL        time.Duration // vida máxima de un bloqueo distribuido
	RetryDelay time.Duration // espera entre intentos de adquisición
}

var defaults = map[string]any{
	"APP_ENV":   "development",
	"APP_NAME":  "almacen-api",
	"LOG_LEVEL": "info",

	"DB_DRIVER":                "postgres",
	"DB_HOST":                  "localhost",
	"DB_PORT":                  5432,
	"DB_USER":                  "postgres",
	"DB_NAME":                  "almacen",
	"DB_SSLMODE":               "disable",
	"DB_MAX_CONNS":             25,
	"DB_MIN_CONNS":             2,
	"DB_MIGRATE":               true,
	"DB_FORCE_IPV4":            false,
	"DB_MAX_CONN_LIFETIME_MIN": 60,
	"DB_MAX_CONN_IDLE_MIN":     30,

	"JWT_ISSUER": "almacen-api",
	"HTTP_HOST":  "0.0.0.0",
	"HTTP_PORT":  8080,
	"REDIS_DB":   0,

	"KAFKA_TOPIC": "almacen.events",

	"OTEL_EXPORTER_OTLP_INSECURE": true,
	"OTEL_SERVICE_NAME":           "almacen-api",
	"OTEL_SAMPLER_RATIO":          1.0,

	"LOCK_TTL_MS":   10000,
	"LOCK_RETRY_MS": 25,
}

// Load lee la configuración. Las variables de entorno pisan a los archivos.
func Load() (*Config, error) {
	v := viper.New()
	for key, val := range defaults {
		v.SetDefault(key, val)
	}

	v.SetConfigType("env")
	for _, name := range []string{".env", "config"} {
		v.SetConfigName(name)
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		_ = v.MergeInConfig() // el archivo es opcional
	}
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	r := reader{v: v}
	cfg := &Config{
		App: AppConfig{
			Env:      r.str("APP_ENV"),
			Name:     r.str("APP_NAME"),
			LogLevel: r.str("LOG_LEVEL"),
		},
		DB: DBConfig{
			Driver:      strings.ToLower(r.str("DB_DRIVER")),
			DatabaseURL: r.str("DATABASE_URL"),
			Host:        r.str("DB_HOST"),
			Port:        r.int("DB_PORT"),
			User:        r.str("DB_USER"),
			Password:    r.str("DB_PASSWORD"),
			DBName:      r.str("DB_NAME"),
			SSLMode:     r.str("DB_SSLMODE"),
			MaxConns:    r.int("DB_MAX_CONNS"),
			MinConns:    r.int("DB_MIN_CONNS"),
			Migrate:     r.bool("DB_MIGRATE"),
			ForceIPv4:   r.bool("DB_FORCE_IPV4"),

			MaxConnLifetime: time.Duration(r.int("DB_MAX_CONN_LIFETIME_MIN")) * time.Minute,
			MaxConnIdleTime: time.Duration(r.int("DB_MAX_CONN_IDLE_MIN")) * time.Minute,
		},
		JWT: JWTConfig{
			Secret: r.str("JWT_SECRET"),
			Issuer: r.str("JWT_ISSUER"),
		},
		HTTP: HTTPConfig{
			Host: r.str("HTTP_HOST"),
			Port: r.int("HTTP_PORT"),
		},
		Redis: RedisConfig{
			Addr:     r.str("REDIS_ADDR"),
			Password: r.str("REDIS_PASSWORD"),
			DB:       r.int("REDIS_DB"),
		},
		Kafka: KafkaConfig{
			Brokers: splitList(r.str("KAFKA_BROKERS")),
			Topic:   r.str("KAFKA_TOPIC"),
		},
		Otel: OtelConfig{
			Exporter:    strings.ToLower(r.str("OTEL_TRACES_EXPORTER")),
			Endpoint:    r.str("OTEL_EXPORTER_OTLP_ENDPOINT"),
			Insecure:    r.bool("OTEL_EXPORTER_OTLP_INSECURE"),
			ServiceName: r.str("OTEL_SERVICE_NAME"),
			SampleRatio: r.float("OTEL_SAMPLER_RATIO"),
		},
		Lock: LockConfig{
			TTL:        time.Duration(r.int("LOCK_TTL_MS")) * time.Millisecond,
			RetryDelay: time.Duration(r.int("LOCK_RETRY_MS")) * time.Millisecond,
		},
	}
	if r.err != nil {
		return nil, r.err
	}

	if cfg.Otel.Exporter == "" {
		cfg.Otel.Exporter = "none"
		if cfg.Otel.Endpoint != "" {
			cfg.Otel.Exporter = "otlp"
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.DB.Driver {
	case "postgres", "memory":
	default:
		return fmt.Errorf("DB_DRIVER inválido %q (postgres|memory)", c.DB.Driver)
	}
	if c.Otel.SampleRatio < 0 || c.Otel.SampleRatio > 1 {
		return fmt.Errorf("OTEL_SAMPLER_RATIO fuera de rango: %v", c.Otel.SampleRatio)
	}
	if c.Lock.TTL <= 0 || c.Lock.RetryDelay <= 0 {
		return fmt.Errorf("LOCK_TTL_MS y LOCK_RETRY_MS deben ser positivos")
	}
	return nil
}

// reader convierte con cast y guarda el primer valor mal formado.
type reader struct {
	v   *viper.Viper
	err error
}

func (r *reader) raw(key string) any {
	if s, ok := r.v.Get(key).(string); ok {
		return strings.TrimSpace(s)
	}
	return r.v.Get(key)
}

func (r *reader) str(key string) string {
	return cast.ToString(r.raw(key))
}

func (r *reader) int(key string) int {
	n, err := cast.ToIntE(r.raw(key))
	r.keep(key, err)
	return n
}

func (r *reader) float(key string) float64 {
	f, err := cast.ToFloat64E(r.raw(key))
	r.keep(key, err)
	return f
}

func (r *reader) bool(key string) bool {
	b, err := cast.ToBoolE(r.raw(key))
	r.keep(key, err)
	return b
}

func (r *reader) keep(key string, err error) {
	if err != nil && r.err == nil {
		r.err = fmt.Errorf("%s: %w", key, err)
	}
}

func splitList(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
