package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`

	Database struct {
		Driver   string `yaml:"driver"` // mysql | postgres
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		Name     string `yaml:"name"`
		SSLMode  string `yaml:"sslMode"`
	} `yaml:"database"`

	Minio struct {
		Endpoint         string `yaml:"endpoint"`
		AccessKey        string `yaml:"accessKey"`
		SecretKey        string `yaml:"secretKey"`
		BucketName       string `yaml:"bucketName"`
		Region           string `yaml:"region"`
		UseSSL           bool   `yaml:"useSSL"`
		URLExpiryMinutes int    `yaml:"urlExpiryMinutes"`
	} `yaml:"minio"`

	Webhook struct {
		Endpoint       string `yaml:"endpoint"`
		CallbackBase   string `yaml:"callbackBase"` // default origin untuk callback URL
		TimeoutSeconds int    `yaml:"timeoutSeconds"`
		MaxAttempts    int    `yaml:"maxAttempts"`
		BaseDelayMS    int    `yaml:"baseDelayMs"`
	} `yaml:"webhook"`

	Auth struct {
		Keys map[string]string `yaml:"keys"` // tenant -> API key
	} `yaml:"auth"`

	RateLimit struct {
		Capacity   int `yaml:"capacity"`
		RefillRate int `yaml:"refillRate"`
	} `yaml:"rateLimit"`
}

// Load baca file config.yaml
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	if cfg.Webhook.Endpoint == "" {
		return nil, fmt.Errorf("webhook.endpoint is required")
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "mysql"
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Webhook.TimeoutSeconds == 0 {
		c.Webhook.TimeoutSeconds = 30
	}
	if c.Webhook.MaxAttempts == 0 {
		c.Webhook.MaxAttempts = 2
	}
	if c.Webhook.BaseDelayMS == 0 {
		c.Webhook.BaseDelayMS = 500
	}
	if c.Minio.URLExpiryMinutes == 0 {
		c.Minio.URLExpiryMinutes = 15
	}
	if c.RateLimit.Capacity == 0 {
		c.RateLimit.Capacity = 20
	}
	if c.RateLimit.RefillRate == 0 {
		c.RateLimit.RefillRate = 5
	}
}

// Helper untuk build DSN MySQL
func (c *Config) MySQLDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4&loc=UTC",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
	)
}

// Helper untuk build DSN Postgres
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}
