package infra

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultFrontendOrigin = "http://localhost:3000"
	DefaultGeminiModel    = "gemini-2.5-flash-preview"
	DefaultGeminiBaseURL  = "https://generativelanguage.googleapis.com/v1beta"
	DefaultPort           = "5000"
	DefaultMaxUploadBytes = 20 << 20
)

// Config represents application configuration. Values come from defaults,
// then the optional YAML file named by CONFIG_FILE, then the environment.
type Config struct {
	AppEnv           string        `yaml:"app_env"`
	Port             string        `yaml:"port"`
	FrontendOrigin   string        `yaml:"frontend_origin"`
	GeminiAPIKey     string        `yaml:"gemini_api_key"`
	GeminiModel      string        `yaml:"gemini_image_model"`
	GeminiBaseURL    string        `yaml:"gemini_base_url"`
	GeminiTransport  string        `yaml:"gemini_transport"`
	GeminiTimeout    time.Duration `yaml:"-"`
	DataURLFallback  bool          `yaml:"gemini_data_url_fallback"`
	MaxUploadBytes   int64         `yaml:"max_upload_bytes"`
	HTTPReadTimeout  time.Duration `yaml:"-"`
	HTTPWriteTimeout time.Duration `yaml:"-"`
	HTTPIdleTimeout  time.Duration `yaml:"-"`
}

// fileConfig mirrors Config for the YAML file; durations are whole seconds.
type fileConfig struct {
	Config                  `yaml:",inline"`
	GeminiTimeoutSeconds    int `yaml:"gemini_timeout_seconds"`
	HTTPReadTimeoutSeconds  int `yaml:"http_read_timeout_seconds"`
	HTTPWriteTimeoutSeconds int `yaml:"http_write_timeout_seconds"`
	HTTPIdleTimeoutSeconds  int `yaml:"http_idle_timeout_seconds"`
}

func defaultConfig() *Config {
	return &Config{
		AppEnv:           "development",
		Port:             DefaultPort,
		FrontendOrigin:   DefaultFrontendOrigin,
		GeminiModel:      DefaultGeminiModel,
		GeminiBaseURL:    DefaultGeminiBaseURL,
		GeminiTransport:  "sdk",
		GeminiTimeout:    120 * time.Second,
		DataURLFallback:  true,
		MaxUploadBytes:   DefaultMaxUploadBytes,
		HTTPReadTimeout:  15 * time.Second,
		HTTPWriteTimeout: 150 * time.Second,
		HTTPIdleTimeout:  60 * time.Second,
	}
}

// LoadConfig loads configuration and applies defaults where needed. A missing
// Gemini API key is not an error here: the edit endpoint reports it per
// request while health keeps answering.
func LoadConfig() (*Config, error) {
	cfg := defaultConfig()

	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return nil, err
		}
	}

	cfg.AppEnv = getEnv("APP_ENV", cfg.AppEnv)
	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.FrontendOrigin = getEnv("FRONTEND_ORIGIN", cfg.FrontendOrigin)
	cfg.GeminiAPIKey = strings.TrimSpace(getEnv("GEMINI_API_KEY", cfg.GeminiAPIKey))
	cfg.GeminiModel = getEnv("GEMINI_IMAGE_MODEL", cfg.GeminiModel)
	cfg.GeminiBaseURL = getEnv("GEMINI_BASE_URL", cfg.GeminiBaseURL)
	cfg.GeminiTransport = strings.ToLower(getEnv("GEMINI_TRANSPORT", cfg.GeminiTransport))
	cfg.GeminiTimeout = getEnvSeconds("GEMINI_TIMEOUT_SECONDS", cfg.GeminiTimeout)
	cfg.DataURLFallback = getEnvBool("GEMINI_DATA_URL_FALLBACK", cfg.DataURLFallback)
	cfg.MaxUploadBytes = int64(getEnvInt("MAX_UPLOAD_BYTES", int(cfg.MaxUploadBytes)))
	cfg.HTTPReadTimeout = getEnvSeconds("HTTP_READ_TIMEOUT_SECONDS", cfg.HTTPReadTimeout)
	cfg.HTTPWriteTimeout = getEnvSeconds("HTTP_WRITE_TIMEOUT_SECONDS", cfg.HTTPWriteTimeout)
	cfg.HTTPIdleTimeout = getEnvSeconds("HTTP_IDLE_TIMEOUT_SECONDS", cfg.HTTPIdleTimeout)

	if _, err := strconv.Atoi(cfg.Port); err != nil {
		return nil, fmt.Errorf("PORT must be numeric, got %q", cfg.Port)
	}
	switch cfg.GeminiTransport {
	case "sdk", "rest":
	default:
		return nil, fmt.Errorf("GEMINI_TRANSPORT must be sdk or rest, got %q", cfg.GeminiTransport)
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = DefaultMaxUploadBytes
	}

	return cfg, nil
}

// AllowedOrigins lists the CORS origins for /api routes: the frontend origin
// and the wildcard.
func (c *Config) AllowedOrigins() []string {
	origins := []string{}
	if origin := strings.TrimSpace(c.FrontendOrigin); origin != "" {
		origins = append(origins, origin)
	}
	return append(origins, "*")
}

func (c *Config) mergeFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	fc := fileConfig{Config: *c}
	if err := yaml.Unmarshal(raw, &fc); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	*c = fc.Config
	if fc.GeminiTimeoutSeconds > 0 {
		c.GeminiTimeout = time.Duration(fc.GeminiTimeoutSeconds) * time.Second
	}
	if fc.HTTPReadTimeoutSeconds > 0 {
		c.HTTPReadTimeout = time.Duration(fc.HTTPReadTimeoutSeconds) * time.Second
	}
	if fc.HTTPWriteTimeoutSeconds > 0 {
		c.HTTPWriteTimeout = time.Duration(fc.HTTPWriteTimeoutSeconds) * time.Second
	}
	if fc.HTTPIdleTimeoutSeconds > 0 {
		c.HTTPIdleTimeout = time.Duration(fc.HTTPIdleTimeoutSeconds) * time.Second
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvSeconds(key string, fallback time.Duration) time.Duration {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil && i > 0 {
			return time.Duration(i) * time.Second
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
