package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	NATS     NATSConfig     `yaml:"nats"`
	MinIO    MinIOConfig    `yaml:"minio"`
	Face     FaceConfig     `yaml:"face"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type ServerConfig struct {
	Port    int         `yaml:"port"`
	APIKeys []APIKeyRef `yaml:"api_keys"`
}

// APIKeyRef maps a static API key to a named caller and its role.
type APIKeyRef struct {
	Key  string `yaml:"key"`
	Name string `yaml:"name"`
	Role string `yaml:"role"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	MaxConns int    `yaml:"max_conns"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		d.User, d.Password, d.Host, d.Port, d.Name)
}

type NATSConfig struct {
	URL string `yaml:"url"`
}

type MinIOConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Bucket    string `yaml:"bucket"`
	UseSSL    bool   `yaml:"use_ssl"`
	// PublicBaseURL is prepended to object keys when building media URLs.
	PublicBaseURL string `yaml:"public_base_url"`
}

// FaceConfig configures the external embedding service and search defaults.
type FaceConfig struct {
	APIURL           string        `yaml:"api_url"`
	ExtractTimeout   time.Duration `yaml:"extract_timeout"`
	DownloadTimeout  time.Duration `yaml:"download_timeout"`
	HealthTimeout    time.Duration `yaml:"health_timeout"`
	DefaultThreshold float64       `yaml:"default_threshold"`
	DefaultLimit     int           `yaml:"default_limit"`
	WorkerCount      int           `yaml:"worker_count"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads config from YAML file and applies environment variable overrides.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	applyEnvOverrides(cfg)
	setDefaults(cfg)

	return cfg, nil
}

func setDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.MaxConns == 0 {
		cfg.Database.MaxConns = 20
	}
	if cfg.Face.ExtractTimeout == 0 {
		cfg.Face.ExtractTimeout = 60 * time.Second
	}
	if cfg.Face.DownloadTimeout == 0 {
		cfg.Face.DownloadTimeout = 10 * time.Second
	}
	if cfg.Face.HealthTimeout == 0 {
		cfg.Face.HealthTimeout = 5 * time.Second
	}
	if cfg.Face.DefaultThreshold == 0 {
		cfg.Face.DefaultThreshold = 0.5
	}
	if cfg.Face.DefaultLimit == 0 {
		cfg.Face.DefaultLimit = 10
	}
	if cfg.Face.WorkerCount == 0 {
		cfg.Face.WorkerCount = 4
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SENTINELA_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("SENTINELA_DB_HOST"); v != "" {
		cfg.Database.Host = v
	}
	if v := os.Getenv("SENTINELA_DB_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Database.Port = port
		}
	}
	if v := os.Getenv("SENTINELA_DB_NAME"); v != "" {
		cfg.Database.Name = v
	}
	if v := os.Getenv("SENTINELA_DB_USER"); v != "" {
		cfg.Database.User = v
	}
	if v := os.Getenv("SENTINELA_DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("SENTINELA_NATS_URL"); v != "" {
		cfg.NATS.URL = v
	}
	if v := os.Getenv("SENTINELA_MINIO_ENDPOINT"); v != "" {
		cfg.MinIO.Endpoint = v
	}
	if v := os.Getenv("SENTINELA_MINIO_ACCESS_KEY"); v != "" {
		cfg.MinIO.AccessKey = v
	}
	if v := os.Getenv("SENTINELA_MINIO_SECRET_KEY"); v != "" {
		cfg.MinIO.SecretKey = v
	}
	if v := os.Getenv("SENTINELA_MINIO_BUCKET"); v != "" {
		cfg.MinIO.Bucket = v
	}
	if v := os.Getenv("SENTINELA_FACE_API_URL"); v != "" {
		cfg.Face.APIURL = v
	}
	if v := os.Getenv("SENTINELA_FACE_WORKER_COUNT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Face.WorkerCount = n
		}
	}
}
