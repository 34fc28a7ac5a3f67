package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	domain "github.com/bryanwahyu/idea-coach/internal/domain/ideas"
)

type Config struct {
	Server struct {
		Port           int           `yaml:"port" validate:"min=1,max=65535"`
		ReadTimeout    time.Duration `yaml:"readTimeout"`
		WriteTimeout   time.Duration `yaml:"writeTimeout"`
		MaxIdeaBytes   int           `yaml:"maxIdeaBytes" validate:"min=1"`
		AllowedOrigins []string      `yaml:"allowedOrigins"`
		// APIKeys maps a client name to its key. Empty disables auth on /v1.
		APIKeys map[string]string `yaml:"apiKeys"`
	} `yaml:"server"`

	RateLimit struct {
		PerSecond float64 `yaml:"perSecond" validate:"gte=0"`
		Burst     int     `yaml:"burst" validate:"gte=0"`
	} `yaml:"rateLimit"`

	AI struct {
		Provider string `yaml:"provider" validate:"oneof=gemini openai"`
		Model    string `yaml:"model"`
		APIKey   string `yaml:"apiKey"`
		BaseURL  string `yaml:"baseURL" validate:"omitempty,url"`
	} `yaml:"ai"`

	Log struct {
		Level  string `yaml:"level" validate:"oneof=debug info warn error"`
		Format string `yaml:"format" validate:"oneof=text json"`
	} `yaml:"log"`

	// Database is optional; an empty driver disables history.
	Database struct {
		Driver   string `yaml:"driver" validate:"omitempty,oneof=mysql postgres"`
		DSN      string `yaml:"dsn"`
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		Name     string `yaml:"name"`
		SSLMode  string `yaml:"sslMode"`
	} `yaml:"database"`

	// Minio is optional; an empty endpoint disables the report archive.
	Minio struct {
		Endpoint   string `yaml:"endpoint"`
		AccessKey  string `yaml:"accessKey"`
		SecretKey  string `yaml:"secretKey"`
		BucketName string `yaml:"bucketName"`
		Region     string `yaml:"region"`
		UseSSL     bool   `yaml:"useSSL"`
	} `yaml:"minio"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	var c Config
	c.Server.Port = 8080
	c.Server.ReadTimeout = 15 * time.Second
	// generation is slow; the server must outlive one remote call
	c.Server.WriteTimeout = 3 * time.Minute
	c.Server.MaxIdeaBytes = 16 << 10
	c.RateLimit.PerSecond = 1
	c.RateLimit.Burst = 5
	c.AI.Provider = "gemini"
	c.Log.Level = "info"
	c.Log.Format = "text"
	c.Database.SSLMode = "disable"
	c.Minio.BucketName = "idea-reports"
	return &c
}

// Load reads the configuration with Read and validates it. Any failure wraps ErrConfiguration.
func Load(path string) (*Config, error) {
	cfg, err := Read(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Read loads .env, then the YAML file at path (optional), then environment overrides.
// The result is not validated.
func Read(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("%w: reading config file: %v", domain.ErrConfiguration, err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("%w: parsing config file: %v", domain.ErrConfiguration, err)
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

// UseProvider switches the AI provider and re-reads its credential from the environment.
// Empty arguments keep the current values.
func (c *Config) UseProvider(provider, model string) {
	if p := strings.ToLower(provider); p != "" && p != c.AI.Provider {
		c.AI.Provider = p
		c.AI.APIKey = os.Getenv(c.APIKeyEnv())
		c.AI.BaseURL = ""
		if p == "openai" {
			c.AI.BaseURL = os.Getenv("OPENAI_BASE_URL")
		}
		c.AI.Model = ""
	}
	if model != "" {
		c.AI.Model = model
	}
}

func (c *Config) applyEnv() {
	c.AI.Provider = strings.ToLower(getEnv("LLM_PROVIDER", c.AI.Provider))
	c.AI.Model = getEnv("LLM_MODEL", c.AI.Model)
	switch c.AI.Provider {
	case "openai":
		c.AI.APIKey = getEnv("OPENAI_API_KEY", c.AI.APIKey)
		c.AI.BaseURL = getEnv("OPENAI_BASE_URL", c.AI.BaseURL)
	default:
		c.AI.APIKey = getEnv("GEMINI_API_KEY", c.AI.APIKey)
	}

	if v, err := strconv.Atoi(os.Getenv("PORT")); err == nil {
		c.Server.Port = v
	}
	c.Log.Level = strings.ToLower(getEnv("LOG_LEVEL", c.Log.Level))
	c.Log.Format = strings.ToLower(getEnv("LOG_FORMAT", c.Log.Format))

	c.Database.Driver = getEnv("DB_DRIVER", c.Database.Driver)
	c.Database.DSN = getEnv("DB_DSN", c.Database.DSN)

	c.Minio.Endpoint = getEnv("MINIO_ENDPOINT", c.Minio.Endpoint)
	c.Minio.AccessKey = getEnv("MINIO_ACCESS_KEY", c.Minio.AccessKey)
	c.Minio.SecretKey = getEnv("MINIO_SECRET_KEY", c.Minio.SecretKey)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

var validate = validator.New()

// Validate checks field constraints and the credential of the selected provider.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrConfiguration, err)
	}
	if strings.TrimSpace(c.AI.APIKey) == "" {
		return fmt.Errorf("%w: %s environment variable not set", domain.ErrConfiguration, c.APIKeyEnv())
	}
	if c.RateLimit.PerSecond > 0 && c.RateLimit.Burst < 1 {
		return fmt.Errorf("%w: rateLimit.burst must be at least 1 when rateLimit.perSecond is set", domain.ErrConfiguration)
	}
	if c.Database.Driver != "" && c.Database.DSN == "" && c.Database.Host == "" {
		return fmt.Errorf("%w: database.driver %q needs a dsn or host", domain.ErrConfiguration, c.Database.Driver)
	}
	return nil
}

// APIKeyEnv names the credential variable for the selected provider.
func (c *Config) APIKeyEnv() string {
	if c.AI.Provider == "openai" {
		return "OPENAI_API_KEY"
	}
	return "GEMINI_API_KEY"
}

// HistoryEnabled reports whether a database is configured.
func (c *Config) HistoryEnabled() bool { return c.Database.Driver != "" }

// ArchiveEnabled reports whether a MinIO endpoint is configured.
func (c *Config) ArchiveEnabled() bool { return c.Minio.Endpoint != "" }

// DatabaseDSN returns the explicit DSN or builds one for the configured driver.
func (c *Config) DatabaseDSN() string {
	if c.Database.DSN != "" {
		return c.Database.DSN
	}
	if c.Database.Driver == "postgres" {
		return c.PostgresDSN()
	}
	return c.MySQLDSN()
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

// PostgresDSN builds a lib/pq connection string.
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
