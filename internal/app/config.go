package app

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// StorageDriver выбирает реализацию репозиториев.
type StorageDriver string

const (
	StorageDriverMemory   StorageDriver = "memory"
	StorageDriverPostgres StorageDriver = "postgres"
)

const envPrefix = "BACKOFFICE_"

// Config описывает настройки запуска. Порядок применения: значения по умолчанию,
// YAML-файл (BACKOFFICE_CONFIG), переменные окружения BACKOFFICE_*.
type Config struct {
	HTTPAddr    string `yaml:"http_addr"`
	GRPCAddr    string `yaml:"grpc_addr"`
	MetricsAddr string `yaml:"metrics_addr"`

	StorageDriver       StorageDriver `yaml:"storage"`
	PostgresDSN         string        `yaml:"postgres_dsn"`
	PostgresAutoMigrate bool          `yaml:"postgres_auto_migrate"`

	KafkaBrokers []string `yaml:"kafka_brokers"`
	KafkaTopic   string   `yaml:"kafka_topic"`

	FulfillmentInterval time.Duration `yaml:"fulfillment_interval"`
	Seed                bool          `yaml:"seed"`
	LogLevel            string        `yaml:"log_level"`
	ShutdownTimeout     time.Duration `yaml:"shutdown_timeout"`
}

// DefaultConfig возвращает конфигурацию для локального запуска без внешних зависимостей.
func DefaultConfig() Config {
	return Config{
		HTTPAddr:            ":8080",
		GRPCAddr:            ":50051",
		MetricsAddr:         ":9090",
		StorageDriver:       StorageDriverMemory,
		PostgresAutoMigrate: true,
		KafkaTopic:          "backoffice.lifecycle.events",
		FulfillmentInterval: time.Minute,
		Seed:                true,
		LogLevel:            "info",
		ShutdownTimeout:     5 * time.Second,
	}
}

// LoadConfig собирает конфигурацию. Пустой path берется из BACKOFFICE_CONFIG; без файла
// используются только значения по умолчанию и окружение.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		path = os.Getenv(envPrefix + "CONFIG")
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := parseYAML(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := applyEnv(&cfg, os.LookupEnv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func parseYAML(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(envPrefix + key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	var errs []error
	boolean := func(key string, dst *bool) {
		v, ok := lookup(envPrefix + key)
		if !ok || strings.TrimSpace(v) == "" {
			return
		}
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			errs = append(errs, fmt.Errorf("%s%s: %w", envPrefix, key, err))
			return
		}
		*dst = b
	}
	duration := func(key string, dst *time.Duration) {
		v, ok := lookup(envPrefix + key)
		if !ok || strings.TrimSpace(v) == "" {
			return
		}
		d, err := time.ParseDuration(strings.TrimSpace(v))
		if err != nil {
			errs = append(errs, fmt.Errorf("%s%s: %w", envPrefix, key, err))
			return
		}
		*dst = d
	}

	str("HTTP_ADDR", &cfg.HTTPAddr)
	str("GRPC_ADDR", &cfg.GRPCAddr)
	str("METRICS_ADDR", &cfg.MetricsAddr)
	str("POSTGRES_DSN", &cfg.PostgresDSN)
	str("KAFKA_TOPIC", &cfg.KafkaTopic)
	str("LOG_LEVEL", &cfg.LogLevel)

	var driver string
	str("STORAGE", &driver)
	if driver != "" {
		cfg.StorageDriver = StorageDriver(strings.ToLower(driver))
	}

	if v, ok := lookup(envPrefix + "KAFKA_BROKERS"); ok {
		cfg.KafkaBrokers = splitList(v)
	}

	boolean("POSTGRES_AUTO_MIGRATE", &cfg.PostgresAutoMigrate)
	boolean("SEED", &cfg.Seed)
	duration("FULFILLMENT_INTERVAL", &cfg.FulfillmentInterval)
	duration("SHUTDOWN_TIMEOUT", &cfg.ShutdownTimeout)

	return errors.Join(errs...)
}

// Validate проверяет согласованность настроек.
func (c Config) Validate() error {
	var errs []error
	switch c.StorageDriver {
	case StorageDriverMemory:
	case StorageDriverPostgres:
		if strings.TrimSpace(c.PostgresDSN) == "" {
			errs = append(errs, errors.New("postgres storage requires postgres_dsn"))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported storage driver %q", c.StorageDriver))
	}
	if c.FulfillmentInterval <= 0 {
		errs = append(errs, errors.New("fulfillment_interval must be positive"))
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Level возвращает уровень логирования; некорректное значение дает info.
func (c Config) Level() log.Level {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return level
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
