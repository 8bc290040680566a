// Package config loads the content-to-pdf configuration: a YAML file,
// then environment overrides. Command-line flags are applied by the CLI on
// top of the result.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/PlanB-Network/content-to-pdf/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrInvalidConfig   = errors.New("invalid config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
)

// Field length limits.
const (
	MaxNameLength = 100  // owner, repository, branch, asset names
	MaxPathLength = 4096 // filesystem paths
	MaxURLLength  = 2048 // Browser limit
)

// MaxWorkers bounds the PDF renderer pool.
const MaxWorkers = 8

// Config holds all configuration for document generation.
type Config struct {
	Content ContentConfig `yaml:"content"`
	Local   LocalConfig   `yaml:"local"`
	Output  OutputConfig  `yaml:"output"`
	Server  ServerConfig  `yaml:"server"`
	Cache   CacheConfig   `yaml:"cache"`
	PDF     PDFConfig     `yaml:"pdf"`
	Log     LogConfig     `yaml:"log"`
	Assets  AssetsConfig  `yaml:"assets"`
}

// ContentConfig locates the content repository on GitHub (web mode).
type ContentConfig struct {
	Owner      string `yaml:"owner"`
	Repo       string `yaml:"repo"`
	Branch     string `yaml:"branch"`
	LocalesURL string `yaml:"localesURL"` // Base URL of <lang>.json locale files
	GuidesDir  string `yaml:"guidesDir"`  // Teacher guides served by the web service
	Token      string `yaml:"-"`          // GITHUB_TOKEN only
}

// LocalConfig locates local checkouts (CLI mode).
type LocalConfig struct {
	BECPath     string `yaml:"becPath"`
	LocalesPath string `yaml:"localesPath"`
	GuidesPath  string `yaml:"guidesPath"`
}

// OutputConfig defines output destination options.
type OutputConfig struct {
	Dir string `yaml:"dir"`
}

// ServerConfig defines the HTTP service options.
type ServerConfig struct {
	Port       int    `yaml:"port"`
	CORSOrigin string `yaml:"corsOrigin"` // Empty = no CORS headers
}

// CacheConfig defines listing caches. An empty RedisURL keeps entries in
// process memory.
type CacheConfig struct {
	TTL      string `yaml:"ttl"` // Go duration, "0" disables caching
	RedisURL string `yaml:"redisURL"`
}

// PDFConfig defines browser rendering options.
type PDFConfig struct {
	Timeout string `yaml:"timeout"` // Go duration
	Workers int    `yaml:"workers"` // 0 = derived from available CPUs
}

// LogConfig defines logging options.
type LogConfig struct {
	Mode string `yaml:"mode"` // "dev" or "prod"
}

// AssetsConfig defines asset loading options.
type AssetsConfig struct {
	BasePath    string `yaml:"basePath"` // Empty = use embedded assets
	Style       string `yaml:"style"`
	TemplateSet string `yaml:"templateSet"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Content: ContentConfig{
			Owner:  "PlanB-Network",
			Repo:   "bitcoin-educational-content",
			Branch: "dev",
		},
		Local: LocalConfig{
			BECPath:     "../bitcoin-educational-content",
			LocalesPath: "../bitcoin-learning-management-system/apps/academy/public/locales",
		},
		Output: OutputConfig{Dir: "output"},
		Server: ServerConfig{Port: 8080},
		Cache:  CacheConfig{TTL: "10m"},
		PDF:    PDFConfig{Timeout: "60s"},
		Log:    LogConfig{Mode: "dev"},
		Assets: AssetsConfig{Style: "course", TemplateSet: "default"},
	}
}

// CacheTTL returns the parsed cache TTL. Call after Validate.
func (c *Config) CacheTTL() time.Duration {
	d, _ := parseDuration(c.Cache.TTL)
	return d
}

// PDFTimeout returns the parsed browser timeout. Call after Validate.
func (c *Config) PDFTimeout() time.Duration {
	d, _ := parseDuration(c.PDF.Timeout)
	return d
}

func parseDuration(s string) (time.Duration, error) {
	if s == "" || s == "0" {
		return 0, nil
	}
	return time.ParseDuration(s)
}

// Validate checks ranges, formats and field lengths.
// Called automatically by LoadConfig, but available for consumers
// who construct Config manually.
func (c *Config) Validate() error {
	for _, f := range []struct {
		name  string
		value string
		max   int
	}{
		{"content.owner", c.Content.Owner, MaxNameLength},
		{"content.repo", c.Content.Repo, MaxNameLength},
		{"content.branch", c.Content.Branch, MaxNameLength},
		{"content.localesURL", c.Content.LocalesURL, MaxURLLength},
		{"content.guidesDir", c.Content.GuidesDir, MaxPathLength},
		{"local.becPath", c.Local.BECPath, MaxPathLength},
		{"local.localesPath", c.Local.LocalesPath, MaxPathLength},
		{"local.guidesPath", c.Local.GuidesPath, MaxPathLength},
		{"output.dir", c.Output.Dir, MaxPathLength},
		{"server.corsOrigin", c.Server.CORSOrigin, MaxURLLength},
		{"cache.redisURL", c.Cache.RedisURL, MaxURLLength},
		{"assets.basePath", c.Assets.BasePath, MaxPathLength},
		{"assets.style", c.Assets.Style, MaxNameLength},
		{"assets.templateSet", c.Assets.TemplateSet, MaxNameLength},
	} {
		if err := validateFieldLength(f.name, f.value, f.max); err != nil {
			return err
		}
	}

	if c.Content.Owner == "" || c.Content.Repo == "" || c.Content.Branch == "" {
		return fmt.Errorf("%w: content.owner, content.repo and content.branch are required", ErrInvalidConfig)
	}
	if c.Content.LocalesURL != "" {
		if err := validateURL("content.localesURL", c.Content.LocalesURL, "http", "https"); err != nil {
			return err
		}
	}
	if c.Cache.RedisURL != "" {
		if err := validateURL("cache.redisURL", c.Cache.RedisURL, "redis", "rediss"); err != nil {
			return err
		}
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("%w: server.port: must be between 1 and 65535, got %d", ErrInvalidConfig, c.Server.Port)
	}

	ttl, err := parseDuration(c.Cache.TTL)
	if err != nil {
		return fmt.Errorf("%w: cache.ttl: %v", ErrInvalidConfig, err)
	}
	if ttl < 0 {
		return fmt.Errorf("%w: cache.ttl: must not be negative, got %s", ErrInvalidConfig, c.Cache.TTL)
	}

	timeout, err := parseDuration(c.PDF.Timeout)
	if err != nil {
		return fmt.Errorf("%w: pdf.timeout: %v", ErrInvalidConfig, err)
	}
	if timeout <= 0 {
		return fmt.Errorf("%w: pdf.timeout: must be positive, got %q", ErrInvalidConfig, c.PDF.Timeout)
	}
	if c.PDF.Workers < 0 || c.PDF.Workers > MaxWorkers {
		return fmt.Errorf("%w: pdf.workers: must be between 0 and %d, got %d", ErrInvalidConfig, MaxWorkers, c.PDF.Workers)
	}

	switch strings.ToLower(c.Log.Mode) {
	case "", "dev", "development", "prod", "production":
	default:
		return fmt.Errorf("%w: log.mode: invalid value %q (must be dev or prod)", ErrInvalidConfig, c.Log.Mode)
	}

	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

func validateURL(fieldName, raw string, schemes ...string) error {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return fmt.Errorf("%w: %s: not an absolute URL: %q", ErrInvalidConfig, fieldName, raw)
	}
	for _, s := range schemes {
		if u.Scheme == s {
			return nil
		}
	}
	return fmt.Errorf("%w: %s: scheme must be one of %s, got %q", ErrInvalidConfig, fieldName, strings.Join(schemes, ", "), u.Scheme)
}

// ApplyEnv overrides fields from environment variables read through
// getenv (os.Getenv in production). Empty values are ignored. The result
// is validated.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	setString := func(dst *string, key string) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			*dst = v
		}
	}
	setInt := func(dst *int, key string) error {
		v := strings.TrimSpace(getenv(key))
		if v == "" {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s: %q is not an integer", ErrInvalidConfig, key, v)
		}
		*dst = n
		return nil
	}

	setString(&c.Local.BECPath, "BEC_PATH")
	setString(&c.Local.LocalesPath, "BLMS_LOCALES_PATH")
	setString(&c.Local.GuidesPath, "GUIDES_PATH")
	setString(&c.Content.GuidesDir, "GUIDES_PATH")
	setString(&c.Output.Dir, "OUTPUT_DIR")
	setString(&c.Content.Token, "GITHUB_TOKEN")
	setString(&c.Cache.TTL, "CACHE_TTL")
	setString(&c.Cache.RedisURL, "REDIS_URL")
	setString(&c.Log.Mode, "LOG_MODE")
	setString(&c.PDF.Timeout, "PDF_TIMEOUT")
	if err := setInt(&c.Server.Port, "PORT"); err != nil {
		return err
	}
	if err := setInt(&c.PDF.Workers, "WORKERS"); err != nil {
		return err
	}
	return c.Validate()
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Fields absent from the file keep their DefaultConfig value.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if isFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// isFilePath returns true if the string looks like a file path.
func isFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, $XDG_CONFIG_HOME/content-to-pdf/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2) // 2 locations

	for _, ext := range extensions {
		localPath := name + ext
		if fileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, "content-to-pdf", name+ext)
			if fileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}

// fileExists returns true if the path exists and is a regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
