// Package config loads rtxswitch settings from defaults, the user config file
// and RTXSWITCH_* environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Aman-CERP/rtxswitch/internal/logging"
	"github.com/Aman-CERP/rtxswitch/internal/nvapi"
)

// Defaults for the toggled setting.
const (
	DefaultProfileName = "Minecraft"
	DefaultSettingID   = HexID(nvapi.RTXDXREnabled)
	DefaultGPUMarker   = "RTX"
	DefaultMaxGPUs     = 32
	DefaultLogLevel    = "warn"
	CurrentVersion     = 1
)

// Config is the complete rtxswitch configuration.
type Config struct {
	Version int `yaml:"version" json:"version"`

	// LibraryPath overrides the platform NVAPI library. Empty uses
	// nvapi64.dll on Windows and libnvidia-api.so.1 on Linux.
	LibraryPath string `yaml:"library_path" json:"library_path"`

	// ProfileName is the driver profile whose setting is toggled.
	ProfileName string `yaml:"profile_name" json:"profile_name"`

	// SettingID is the DWORD setting written to the profile.
	SettingID HexID `yaml:"setting_id" json:"setting_id"`

	// GPUMarker must appear in at least one GPU name (case-sensitive).
	GPUMarker string `yaml:"gpu_marker" json:"gpu_marker"`

	// MaxGPUs caps how many GPUs are inspected (1-64).
	MaxGPUs int `yaml:"max_gpus" json:"max_gpus"`

	LogLevel string   `yaml:"log_level" json:"log_level"`
	UI       UIConfig `yaml:"ui" json:"ui"`
}

// UIConfig controls presentation.
type UIConfig struct {
	NoColor bool `yaml:"no_color" json:"no_color"`
	Plain   bool `yaml:"plain" json:"plain"`
}

// HexID is a setting ID written to YAML as a hex string. It reads either
// a YAML integer or a "0x"-prefixed string.
type HexID uint32

// String formats the ID as 0x%08X.
func (h HexID) String() string {
	return fmt.Sprintf("0x%08X", uint32(h))
}

// MarshalYAML implements yaml.Marshaler.
func (h HexID) MarshalYAML() (any, error) {
	return h.String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (h *HexID) UnmarshalYAML(node *yaml.Node) error {
	id, err := ParseHexID(node.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*h = id
	return nil
}

// MarshalText implements encoding.TextMarshaler, so JSON output matches YAML.
func (h HexID) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}

// ParseHexID parses a decimal or 0x-prefixed setting ID.
func ParseHexID(s string) (HexID, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 0, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid setting id %q", s)
	}
	return HexID(v), nil
}

// NewConfig returns a Config with default values.
func NewConfig() *Config {
	return &Config{
		Version:     CurrentVersion,
		ProfileName: DefaultProfileName,
		SettingID:   DefaultSettingID,
		GPUMarker:   DefaultGPUMarker,
		MaxGPUs:     DefaultMaxGPUs,
		LogLevel:    DefaultLogLevel,
	}
}

// GetUserConfigPath returns the path to the user configuration file:
//   - $XDG_CONFIG_HOME/rtxswitch/config.yaml (if XDG_CONFIG_HOME is set)
//   - os.UserConfigDir()/rtxswitch/config.yaml (%AppData% on Windows)
//   - ~/.rtxswitch/config.yaml as a last resort
func GetUserConfigPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "rtxswitch", "config.yaml")
	}
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "rtxswitch", "config.yaml")
	}
	return filepath.Join(logging.DefaultDataDir(), "config.yaml")
}

// GetUserConfigDir returns the directory containing the user configuration.
func GetUserConfigDir() string {
	return filepath.Dir(GetUserConfigPath())
}

// UserConfigExists returns true if the user configuration file exists.
func UserConfigExists() bool {
	return fileExists(GetUserConfigPath())
}

// Load builds the configuration in order of increasing precedence:
//  1. Hardcoded defaults
//  2. The config file (path, or the user config path when empty)
//  3. Environment variables (RTXSWITCH_*)
//
// A missing file at the default location is not an error; a missing file
// given explicitly is.
func Load(path string) (*Config, error) {
	cfg := NewConfig()

	explicit := path != ""
	if !explicit {
		path = GetUserConfigPath()
	}
	switch {
	case fileExists(path):
		if err := cfg.loadYAML(path); err != nil {
			return nil, err
		}
	case explicit:
		return nil, fmt.Errorf("config file not found: %s", path)
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// loadYAML loads and merges configuration from a YAML file.
func (c *Config) loadYAML(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var parsed Config
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	c.mergeWith(&parsed)
	return nil
}

// mergeWith merges non-zero values from other into c.
func (c *Config) mergeWith(other *Config) {
	if other.Version != 0 {
		c.Version = other.Version
	}
	if other.LibraryPath != "" {
		c.LibraryPath = other.LibraryPath
	}
	if other.ProfileName != "" {
		c.ProfileName = other.ProfileName
	}
	if other.SettingID != 0 {
		c.SettingID = other.SettingID
	}
	if other.GPUMarker != "" {
		c.GPUMarker = other.GPUMarker
	}
	if other.MaxGPUs != 0 {
		c.MaxGPUs = other.MaxGPUs
	}
	if other.LogLevel != "" {
		c.LogLevel = other.LogLevel
	}
	if other.UI.NoColor {
		c.UI.NoColor = true
	}
	if other.UI.Plain {
		c.UI.Plain = true
	}
}

// applyEnvOverrides applies RTXSWITCH_* environment variable overrides.
// NO_COLOR is honored as well. Malformed numbers are reported rather than
// ignored.
func (c *Config) applyEnvOverrides() error {
	if v := os.Getenv("RTXSWITCH_LIBRARY_PATH"); v != "" {
		c.LibraryPath = v
	}
	if v := os.Getenv("RTXSWITCH_PROFILE_NAME"); v != "" {
		c.ProfileName = v
	}
	if v := os.Getenv("RTXSWITCH_SETTING_ID"); v != "" {
		id, err := ParseHexID(v)
		if err != nil {
			return fmt.Errorf("RTXSWITCH_SETTING_ID: %w", err)
		}
		c.SettingID = id
	}
	if v := os.Getenv("RTXSWITCH_GPU_MARKER"); v != "" {
		c.GPUMarker = v
	}
	if v := os.Getenv("RTXSWITCH_MAX_GPUS"); v != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("RTXSWITCH_MAX_GPUS: invalid number %q", v)
		}
		c.MaxGPUs = n
	}
	if v := os.Getenv("RTXSWITCH_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("RTXSWITCH_NO_COLOR"); v != "" {
		c.UI.NoColor = parseBool(v)
	}
	if os.Getenv("NO_COLOR") != "" {
		c.UI.NoColor = true
	}
	if v := os.Getenv("RTXSWITCH_PLAIN"); v != "" {
		c.UI.Plain = parseBool(v)
	}
	return nil
}

func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

// Validate validates the configuration and returns an error if invalid.
func (c *Config) Validate() error {
	if c.ProfileName == "" {
		return fmt.Errorf("profile_name must not be empty")
	}
	if _, err := nvapi.NewUnicodeString(c.ProfileName); err != nil {
		return fmt.Errorf("profile_name: %w", err)
	}
	if c.SettingID == 0 {
		return fmt.Errorf("setting_id must be non-zero")
	}
	if c.GPUMarker == "" {
		return fmt.Errorf("gpu_marker must not be empty")
	}
	if c.MaxGPUs < 1 || c.MaxGPUs > nvapi.MaxPhysicalGPUs {
		return fmt.Errorf("max_gpus must be between 1 and %d, got %d", nvapi.MaxPhysicalGPUs, c.MaxGPUs)
	}
	if !logging.ValidLevel(c.LogLevel) {
		return fmt.Errorf("log_level must be 'debug', 'info', 'warn', or 'error', got %s", c.LogLevel)
	}
	return nil
}

// WriteYAML writes the configuration to a YAML file, creating its directory.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
