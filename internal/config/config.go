// config реализует конфигурацию catalog-service: загрузка из YAML/ENV с предсказуемым приоритетом.
package config

import (
	"fmt"
	"net"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config - корневая конфигурация сервиса.
// Приоритет источников:
//  1. явный путь, переданный в MustLoad/Load;
//  2. переменная окружения CONFIG_PATH;
//  3. файл ./local.yaml из рабочей директории;
//  4. переменные окружения.
type Config struct {
	Env      string        `yaml:"env" env:"ENV" env-default:"local"`
	HTTP     HTTPConfig    `yaml:"http"`
	DB       DBConfig      `yaml:"db"`
	Cache    CacheConfig   `yaml:"cache"`
	Limits   LimitsConfig  `yaml:"limits"`
	Catalog  CatalogConfig `yaml:"catalog"`
	Timeouts TimeoutConfig `yaml:"timeouts"`
}

// TimeoutConfig - общий дедлайн обработки HTTP-запроса.
type TimeoutConfig struct {
	Service time.Duration `yaml:"service" env:"SERVICE_TIMEOUT" env-default:"5s"`
}

// HTTPConfig - публичный REST-сервер и служебные ручки (/livez, /healthz, /metrics).
type HTTPConfig struct {
	Host string `yaml:"host" env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port string `yaml:"port" env:"HTTP_PORT" env-default:"50086"`
}

// Addr возвращает адрес в формате host:port.
func (h HTTPConfig) Addr() string {
	return net.JoinHostPort(h.Host, h.Port)
}

// DBConfig - настройки подключения к MongoDB.
// Timeout - дедлайн на один запрос к хранилищу.
type DBConfig struct {
	URL        string        `yaml:"url"        env:"DATABASE_URL"  env-required:"true"`
	Collection string        `yaml:"collection" env:"DB_COLLECTION" env-default:"item"`
	Timeout    time.Duration `yaml:"timeout"    env:"DB_TIMEOUT"    env-default:"3s"`
}

// CacheConfig - опциональный Redis-кэш фасетов и счётчиков.
// Пустой URL отключает кэш.
type CacheConfig struct {
	URL    string        `yaml:"url"    env:"REDIS_URL"`
	Prefix string        `yaml:"prefix" env:"CACHE_PREFIX" env-default:"catalog:"`
	TTL    time.Duration `yaml:"ttl"    env:"CACHE_TTL"    env-default:"60s"`
}

// LimitsConfig - лимиты на выдачу.
type LimitsConfig struct {
	// Пагинация: page_size<=0 -> берём Default; верхняя граница - Max.
	Default int64 `yaml:"default" env:"DEFAULT_LIMIT" env-default:"5"`
	Max     int64 `yaml:"max"     env:"MAX_LIMIT"     env-default:"100"`
	// Размер выборки «похожих» товаров по умолчанию.
	Related int64 `yaml:"related" env:"RELATED_LIMIT" env-default:"4"`
}

// CatalogConfig - политика каталога.
type CatalogConfig struct {
	// При отсутствии товара отдавать демонстрационный образец вместо not found.
	FallbackToSample bool `yaml:"fallback_to_sample" env:"FALLBACK_TO_SAMPLE" env-default:"true"`
}

// MustLoad - обёртка над Load с panic при ошибке.
func MustLoad(path string) *Config {
	cfg, err := Load(path)

	if err != nil {
		panic(err)
	}

	return cfg
}

// Load загружает конфигурацию по приоритету:
// 1) явный путь; 2) CONFIG_PATH; 3) ./local.yaml; 4) ENV.
// После чтения файла накладываем ENV-переменные поверх значений из YAML.
func Load(path string) (*Config, error) {
	var cfg Config

	readFile := func(p string) (*Config, error) {
		if _, err := os.Stat(p); err != nil {
			return nil, fmt.Errorf("config file %q stat failed: %w", p, err)
		}

		if err := cleanenv.ReadConfig(p, &cfg); err != nil {
			return nil, fmt.Errorf("failed to read config %q: %w", p, err)
		}

		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("failed to overlay env: %w", err)
		}

		if err := cfg.validate(); err != nil {
			return nil, err
		}

		return &cfg, nil
	}

	switch {
	case path != "":
		return readFile(path)
	case os.Getenv("CONFIG_PATH") != "":
		return readFile(os.Getenv("CONFIG_PATH"))
	}

	if _, err := os.Stat("local.yaml"); err == nil {
		return readFile("local.yaml")
	}

	// Только ENV.
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config not found: provide --config, CONFIG_PATH, local.yaml or env vars: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// validate - базовая валидация значений.
func (c *Config) validate() error {
	if c.DB.URL == "" {
		return fmt.Errorf("db.url is required")
	}

	if c.DB.Collection == "" {
		return fmt.Errorf("db.collection is required")
	}

	if c.DB.Timeout <= 0 {
		return fmt.Errorf("db.timeout must be > 0")
	}

	if c.Limits.Default <= 0 {
		return fmt.Errorf("limits.default must be > 0")
	}

	if c.Limits.Max <= 0 {
		return fmt.Errorf("limits.max must be > 0")
	}

	if c.Limits.Default > c.Limits.Max {
		return fmt.Errorf("limits.default must be <= limits.max")
	}

	if c.Limits.Related <= 0 {
		return fmt.Errorf("limits.related must be > 0")
	}

	if c.Cache.URL != "" && c.Cache.TTL < time.Second {
		return fmt.Errorf("cache.ttl must be at least 1s")
	}

	return nil
}
