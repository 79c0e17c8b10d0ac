package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	minIntervalSeconds  = 60
	maxIntervalSeconds  = 3600
	intervalStepSeconds = 60
	minRedrawSeconds    = 1
	maxRedrawSeconds    = 60
)

// Readers accepted by collection.reader.
const (
	ReaderSysfs    = "sysfs"
	ReaderDistatus = "distatus"
)

type Config struct {
	Storage    StorageConfig    `toml:"storage"`
	Collection CollectionConfig `toml:"collection"`
	Display    DisplayConfig    `toml:"display"`
	Loader     LoaderConfig     `toml:"loader"`
}

type StorageConfig struct {
	LogPath string `toml:"log_path"`
}

type CollectionConfig struct {
	IntervalSeconds int    `toml:"interval_seconds"`
	Reader          string `toml:"reader"`
}

type DisplayConfig struct {
	RefreshSeconds int `toml:"refresh_seconds"`
	RedrawSeconds  int `toml:"redraw_seconds"`
}

type LoaderConfig struct {
	// Snapshot parses an in-memory copy that ends at the last complete line.
	Snapshot bool `toml:"snapshot"`
}

func DefaultConfig() *Config {
	return &Config{
		Storage: StorageConfig{
			LogPath: "/tmp/battery_data.csv",
		},
		Collection: CollectionConfig{
			IntervalSeconds: 60,
			Reader:          ReaderSysfs,
		},
		Display: DisplayConfig{
			RefreshSeconds: 60,
			RedrawSeconds:  5,
		},
	}
}

func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return NormalizeAndValidate(cfg)
}

// LoadOrDefault is Load, except that a missing file yields the defaults.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if os.IsNotExist(err) {
		return DefaultConfig(), nil
	}
	return cfg, err
}

func NormalizeAndValidate(cfg *Config) (*Config, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}

	sanitized := *cfg

	var err error
	sanitized.Storage.LogPath, err = sanitizePath("storage.log_path", sanitized.Storage.LogPath)
	if err != nil {
		return nil, err
	}

	if err := validateInterval("collection.interval_seconds", sanitized.Collection.IntervalSeconds); err != nil {
		return nil, err
	}
	sanitized.Collection.Reader = strings.ToLower(strings.TrimSpace(sanitized.Collection.Reader))
	switch sanitized.Collection.Reader {
	case "":
		sanitized.Collection.Reader = ReaderSysfs
	case ReaderSysfs, ReaderDistatus:
	default:
		return nil, fmt.Errorf("collection.reader must be %q or %q, got %q", ReaderSysfs, ReaderDistatus, cfg.Collection.Reader)
	}

	if err := validateInterval("display.refresh_seconds", sanitized.Display.RefreshSeconds); err != nil {
		return nil, err
	}
	if err := validateRange("display.redraw_seconds", sanitized.Display.RedrawSeconds, minRedrawSeconds, maxRedrawSeconds); err != nil {
		return nil, err
	}

	return &sanitized, nil
}

func Save(path string, cfg *Config) error {
	trimmedPath := strings.TrimSpace(path)
	if trimmedPath == "" {
		return fmt.Errorf("config path must not be empty")
	}

	sanitized, err := NormalizeAndValidate(cfg)
	if err != nil {
		return err
	}

	var data bytes.Buffer
	if err := toml.NewEncoder(&data).Encode(sanitized); err != nil {
		return fmt.Errorf("encode config TOML: %w", err)
	}

	dir := filepath.Dir(trimmedPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	tmpFile, err := os.CreateTemp(dir, ".config-*.toml")
	if err != nil {
		return fmt.Errorf("create temp config file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		if tmpPath != "" {
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmpFile.Write(data.Bytes()); err != nil {
		_ = tmpFile.Close()
		return fmt.Errorf("write temp config file: %w", err)
	}
	if err := tmpFile.Chmod(0o644); err != nil {
		_ = tmpFile.Close()
		return fmt.Errorf("chmod temp config file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("close temp config file: %w", err)
	}
	if err := os.Rename(tmpPath, trimmedPath); err != nil {
		return fmt.Errorf("replace config file: %w", err)
	}
	tmpPath = ""

	return nil
}

func sanitizePath(name, value string) (string, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", fmt.Errorf("%s must not be empty", name)
	}
	cleaned := filepath.Clean(trimmed)
	if !filepath.IsAbs(cleaned) {
		return "", fmt.Errorf("%s must be an absolute path, got %q", name, value)
	}
	return cleaned, nil
}

// validateInterval applies the sampler's rules: one minute to one hour in
// whole minutes.
func validateInterval(name string, value int) error {
	if err := validateRange(name, value, minIntervalSeconds, maxIntervalSeconds); err != nil {
		return err
	}
	if value%intervalStepSeconds != 0 {
		return fmt.Errorf("%s must be a multiple of %d, got %d", name, intervalStepSeconds, value)
	}
	return nil
}

func validateRange(name string, value, min, max int) error {
	if value < min || value > max {
		return fmt.Errorf("%s must be between %d and %d, got %d", name, min, max, value)
	}

	return nil
}
