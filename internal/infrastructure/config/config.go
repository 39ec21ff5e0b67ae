// Package config provides centralized configuration management.
//
// Configuration can be loaded from:
//  1. YAML file (config.yaml)
//  2. Environment variables (fallback)
//
// Example usage:
//
//	cfg := config.LoadOrEnv()
//	port := cfg.Server.Port
//	opts := cfg.Recon.EngineOptions()
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/auditlab/invoice-reconciler/internal/domain/engine"
)

// Config represents the entire application configuration
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Recon         ReconConfig         `yaml:"recon"`
	OCR           OCRConfig           `yaml:"ocr"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port           int      `yaml:"port"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	MaxUploadMB    int      `yaml:"max_upload_mb"`
}

// ReconConfig holds the default comparison settings. Individual requests
// may override any of them.
type ReconConfig struct {
	VATTolerance         float64 `yaml:"vat_tolerance"`
	AmountTolerance      float64 `yaml:"amount_tolerance"`
	FuzzyMatch           bool    `yaml:"fuzzy_match"`
	FuzzyThreshold       float64 `yaml:"fuzzy_threshold"`
	CompareAfterDiscount bool    `yaml:"compare_after_discount"`
}

// EngineOptions converts the configured defaults to engine options.
func (r ReconConfig) EngineOptions() engine.Options {
	return engine.Options{
		VATTolerance:         r.VATTolerance,
		AmountTolerance:      r.AmountTolerance,
		FuzzyMatch:           r.FuzzyMatch,
		FuzzyThreshold:       r.FuzzyThreshold,
		CompareAfterDiscount: r.CompareAfterDiscount,
	}
}

// OCRConfig holds Tesseract settings for scanned invoices
type OCRConfig struct {
	Enabled        bool     `yaml:"enabled"`
	Languages      []string `yaml:"languages"`
	TessdataPrefix string   `yaml:"tessdata_prefix"`
}

// ObservabilityConfig holds observability settings
type ObservabilityConfig struct {
	Logging LoggingConfig `yaml:"logging"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads and parses the config file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Expand environment variables (e.g., ${TESSDATA_PREFIX})
	expanded := os.ExpandEnv(string(data))

	cfg := defaults()
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromEnv loads configuration from environment variables only
func LoadFromEnv() *Config {
	cfg := defaults()

	cfg.Server.Port = getEnvInt("RECON_PORT", cfg.Server.Port)
	cfg.Server.MaxUploadMB = getEnvInt("RECON_MAX_UPLOAD_MB", cfg.Server.MaxUploadMB)
	if origins := os.Getenv("RECON_ALLOWED_ORIGINS"); origins != "" {
		cfg.Server.AllowedOrigins = splitList(origins)
	}

	cfg.Recon.VATTolerance = getEnvFloat("RECON_VAT_TOLERANCE", cfg.Recon.VATTolerance)
	cfg.Recon.AmountTolerance = getEnvFloat("RECON_AMOUNT_TOLERANCE", cfg.Recon.AmountTolerance)
	cfg.Recon.FuzzyMatch = getEnvBool("RECON_FUZZY_MATCH", cfg.Recon.FuzzyMatch)
	cfg.Recon.FuzzyThreshold = getEnvFloat("RECON_FUZZY_THRESHOLD", cfg.Recon.FuzzyThreshold)
	cfg.Recon.CompareAfterDiscount = getEnvBool("RECON_COMPARE_AFTER_DISCOUNT", cfg.Recon.CompareAfterDiscount)

	cfg.OCR.Enabled = getEnvBool("RECON_OCR_ENABLED", cfg.OCR.Enabled)
	if langs := os.Getenv("RECON_OCR_LANGUAGES"); langs != "" {
		cfg.OCR.Languages = splitList(langs)
	}
	cfg.OCR.TessdataPrefix = getEnv("TESSDATA_PREFIX", cfg.OCR.TessdataPrefix)

	cfg.Observability.Logging.Level = getEnv("LOG_LEVEL", cfg.Observability.Logging.Level)
	cfg.Observability.Logging.Format = getEnv("LOG_FORMAT", cfg.Observability.Logging.Format)

	return cfg
}

// LoadOrEnv tries to load from config.yaml, falls back to environment variables
func LoadOrEnv() *Config {
	return LoadOrEnvWithPath("config.yaml")
}

// LoadOrEnvWithPath tries to load from specified path, falls back to environment variables
func LoadOrEnvWithPath(path string) *Config {
	if cfg, err := Load(path); err == nil {
		return cfg
	}
	return LoadFromEnv()
}

// defaults mirrors the out-of-the-box behavior: exact comparison, no
// fuzzy matching, OCR off.
func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           8080,
			AllowedOrigins: []string{"http://localhost:3000", "http://localhost:5173"},
			MaxUploadMB:    20,
		},
		OCR: OCRConfig{
			Languages: []string{"vie", "eng"},
		},
		Observability: ObservabilityConfig{
			Logging: LoggingConfig{
				Level:  "info",
				Format: "text",
			},
		},
	}
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// getEnv retrieves an environment variable with a fallback default
func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

// getEnvInt retrieves an integer environment variable with a fallback default
func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		var result int
		if _, err := fmt.Sscanf(val, "%d", &result); err == nil {
			return result
		}
	}
	return fallback
}

// getEnvFloat retrieves a float environment variable with a fallback default
func getEnvFloat(key string, fallback float64) float64 {
	if val := os.Getenv(key); val != "" {
		var result float64
		if _, err := fmt.Sscanf(val, "%g", &result); err == nil {
			return result
		}
	}
	return fallback
}

// getEnvBool retrieves a boolean environment variable with a fallback default
func getEnvBool(key string, fallback bool) bool {
	switch strings.ToLower(os.Getenv(key)) {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	}
	return fallback
}
