package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

var (
	errInvalidPort        = errors.New("config: invalid PORT number")
	errInvalidNavTimeout  = errors.New("config: NAV_TIMEOUT must be a positive duration")
	errInvalidRateLimit   = errors.New("config: SCAN_RATE_LIMIT and SCAN_RATE_BURST must not be negative")
	errScriptPathRequired = errors.New("config: AXE_SCRIPT_PATH is required")
)

// Config holds all application configuration. Values come from an optional
// YAML file overlaid by environment variables.
type Config struct {
	Port            string        `yaml:"port"`
	LogLevel        string        `yaml:"log_level"`
	AxeScriptPath   string        `yaml:"axe_script_path"`
	NavTimeout      time.Duration `yaml:"nav_timeout"`
	ChromePath      string        `yaml:"chrome_path"`
	ChromeNoSandbox bool          `yaml:"chrome_no_sandbox"`
	ScanRateLimit   float64       `yaml:"scan_rate_limit"`
	ScanRateBurst   int           `yaml:"scan_rate_burst"`
	TraceStdout     bool          `yaml:"trace_stdout"`
}

// Default returns the configuration used when neither a file nor the
// environment sets a value.
func Default() Config {
	return Config{
		Port:          "3000",
		LogLevel:      "INFO",
		AxeScriptPath: "assets/axe.min.js",
		NavTimeout:    15 * time.Second,
		ScanRateBurst: 1,
	}
}

// Load reads configuration from the YAML file at path (if non-empty) and then
// from environment variables, which take precedence.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.AxeScriptPath = getEnv("AXE_SCRIPT_PATH", cfg.AxeScriptPath)
	cfg.NavTimeout = getEnvAsDuration("NAV_TIMEOUT", cfg.NavTimeout)
	cfg.ChromePath = getEnv("CHROME_PATH", cfg.ChromePath)
	cfg.ChromeNoSandbox = getEnvAsBool("CHROME_NO_SANDBOX", cfg.ChromeNoSandbox)
	cfg.ScanRateLimit = getEnvAsFloat("SCAN_RATE_LIMIT", cfg.ScanRateLimit)
	cfg.ScanRateBurst = getEnvAsInt("SCAN_RATE_BURST", cfg.ScanRateBurst)
	cfg.TraceStdout = getEnvAsBool("TRACE_STDOUT", cfg.TraceStdout)

	return cfg, cfg.validate()
}

func (c Config) validate() error {
	port, err := strconv.Atoi(c.Port)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("%w: %q", errInvalidPort, c.Port)
	}

	if c.NavTimeout <= 0 {
		return fmt.Errorf("%w: got %s", errInvalidNavTimeout, c.NavTimeout)
	}

	if c.ScanRateLimit < 0 || c.ScanRateBurst < 0 {
		return fmt.Errorf("%w: got %g/%d", errInvalidRateLimit, c.ScanRateLimit, c.ScanRateBurst)
	}

	if c.AxeScriptPath == "" {
		return errScriptPathRequired
	}

	return nil
}

// CheckAssets verifies that the ruleset script exists and is a regular file.
func (c Config) CheckAssets() error {
	info, err := os.Stat(c.AxeScriptPath)
	if err != nil {
		return fmt.Errorf("config: ruleset script %q: %w", c.AxeScriptPath, err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("config: ruleset script %q is not a regular file", c.AxeScriptPath)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	s := os.Getenv(key)
	if s == "" {
		return fallback
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return v
}

func getEnvAsFloat(key string, fallback float64) float64 {
	s := os.Getenv(key)
	if s == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fallback
	}
	return v
}

func getEnvAsBool(key string, fallback bool) bool {
	s := os.Getenv(key)
	if s == "" {
		return fallback
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return fallback
	}
	return v
}

// getEnvAsDuration accepts Go duration strings ("15s") or a bare number of
// milliseconds ("15000").
func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	s := os.Getenv(key)
	if s == "" {
		return fallback
	}
	if ms, err := strconv.Atoi(s); err == nil {
		return time.Duration(ms) * time.Millisecond
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}
