package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/Aman-CERP/rtxswitch/internal/nvapi"
)

// isolate points every config and env lookup at an empty temp directory.
func isolate(t *testing.T) string {
	t.Helper()
	tmp := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmp)
	for _, key := range []string{
		"RTXSWITCH_LIBRARY_PATH", "RTXSWITCH_PROFILE_NAME", "RTXSWITCH_SETTING_ID",
		"RTXSWITCH_GPU_MARKER", "RTXSWITCH_MAX_GPUS", "RTXSWITCH_LOG_LEVEL",
		"RTXSWITCH_NO_COLOR", "RTXSWITCH_PLAIN", "NO_COLOR",
	} {
		t.Setenv(key, "")
	}
	return tmp
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestNewConfig_ReturnsDefaults(t *testing.T) {
	cfg := NewConfig()

	require.NotNil(t, cfg)
	assert.Equal(t, CurrentVersion, cfg.Version)
	assert.Empty(t, cfg.LibraryPath)
	assert.Equal(t, "Minecraft", cfg.ProfileName)
	assert.Equal(t, HexID(0x00DE429A), cfg.SettingID)
	assert.Equal(t, HexID(nvapi.RTXDXREnabled), cfg.SettingID)
	assert.Equal(t, "RTX", cfg.GPUMarker)
	assert.Equal(t, 32, cfg.MaxGPUs)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.False(t, cfg.UI.NoColor)
	assert.False(t, cfg.UI.Plain)
	assert.NoError(t, cfg.Validate())
}

func TestGetUserConfigPath_XDG(t *testing.T) {
	tmp := isolate(t)

	assert.Equal(t, filepath.Join(tmp, "rtxswitch", "config.yaml"), GetUserConfigPath())
	assert.Equal(t, filepath.Join(tmp, "rtxswitch"), GetUserConfigDir())
	assert.False(t, UserConfigExists())
}

func TestLoad_NoFileUsesDefaults(t *testing.T) {
	// Given: no user config
	isolate(t)

	// When: loading
	cfg, err := Load("")

	// Then: defaults are returned
	require.NoError(t, err)
	assert.Equal(t, NewConfig(), cfg)
}

func TestLoad_ExplicitMissingFile(t *testing.T) {
	isolate(t)

	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "config file not found")
}

func TestLoad_UserConfigOverridesDefaults(t *testing.T) {
	// Given: a user config with some keys set
	isolate(t)
	writeFile(t, GetUserConfigPath(), `
library_path: /opt/nvidia/libnvidia-api.so.1
profile_name: Quake II RTX
setting_id: 0x00DE429A
gpu_marker: RTX
max_gpus: 4
log_level: debug
ui:
  no_color: true
`)

	// When: loading
	cfg, err := Load("")

	// Then: file values win, unset keys keep defaults
	require.NoError(t, err)
	assert.Equal(t, "/opt/nvidia/libnvidia-api.so.1", cfg.LibraryPath)
	assert.Equal(t, "Quake II RTX", cfg.ProfileName)
	assert.Equal(t, DefaultSettingID, cfg.SettingID)
	assert.Equal(t, 4, cfg.MaxGPUs)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.UI.NoColor)
	assert.False(t, cfg.UI.Plain)
}

func TestLoad_SettingIDAcceptsDecimal(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	writeFile(t, path, "setting_id: 14566042\n")

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, HexID(0x00DE429A), cfg.SettingID)
}

func TestLoad_SettingIDAcceptsQuotedHex(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	writeFile(t, path, "setting_id: \"0x10E41DF3\"\n")

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, HexID(0x10E41DF3), cfg.SettingID)
}

func TestLoad_InvalidYAML(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	writeFile(t, path, "max_gpus: [1, 2\n")

	_, err := Load(path)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestLoad_InvalidSettingID(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	writeFile(t, path, "setting_id: zebra\n")

	_, err := Load(path)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid setting id")
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	// Given: a file and env vars that disagree
	isolate(t)
	writeFile(t, GetUserConfigPath(), "profile_name: FromFile\nmax_gpus: 2\n")
	t.Setenv("RTXSWITCH_PROFILE_NAME", "FromEnv")
	t.Setenv("RTXSWITCH_MAX_GPUS", "8")
	t.Setenv("RTXSWITCH_SETTING_ID", "0x00000001")
	t.Setenv("RTXSWITCH_GPU_MARKER", "Quadro")
	t.Setenv("RTXSWITCH_LIBRARY_PATH", `C:\nvapi64.dll`)
	t.Setenv("RTXSWITCH_LOG_LEVEL", "error")
	t.Setenv("RTXSWITCH_PLAIN", "yes")

	// When: loading
	cfg, err := Load("")

	// Then: env wins
	require.NoError(t, err)
	assert.Equal(t, "FromEnv", cfg.ProfileName)
	assert.Equal(t, 8, cfg.MaxGPUs)
	assert.Equal(t, HexID(1), cfg.SettingID)
	assert.Equal(t, "Quadro", cfg.GPUMarker)
	assert.Equal(t, `C:\nvapi64.dll`, cfg.LibraryPath)
	assert.Equal(t, "error", cfg.LogLevel)
	assert.True(t, cfg.UI.Plain)
}

func TestLoad_NoColorEnv(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
		want bool
	}{
		{"standard NO_COLOR", "NO_COLOR", "1", true},
		{"rtxswitch true", "RTXSWITCH_NO_COLOR", "true", true},
		{"rtxswitch false", "RTXSWITCH_NO_COLOR", "false", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			t.Setenv(tt.key, tt.val)

			cfg, err := Load("")

			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.UI.NoColor)
		})
	}
}

func TestLoad_MalformedEnvNumber(t *testing.T) {
	isolate(t)
	t.Setenv("RTXSWITCH_MAX_GPUS", "many")

	_, err := Load("")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "RTXSWITCH_MAX_GPUS")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"empty profile", func(c *Config) { c.ProfileName = "" }, "profile_name must not be empty"},
		{"profile too long", func(c *Config) { c.ProfileName = strings.Repeat("a", nvapi.UnicodeStringMaxUnits+1) }, "profile_name"},
		{"profile with NUL", func(c *Config) { c.ProfileName = "Mine\x00craft" }, "profile_name"},
		{"zero setting", func(c *Config) { c.SettingID = 0 }, "setting_id must be non-zero"},
		{"empty marker", func(c *Config) { c.GPUMarker = "" }, "gpu_marker must not be empty"},
		{"max gpus zero", func(c *Config) { c.MaxGPUs = 0 }, "max_gpus must be between 1 and 64"},
		{"max gpus too high", func(c *Config) { c.MaxGPUs = 65 }, "max_gpus must be between 1 and 64"},
		{"max gpus upper bound", func(c *Config) { c.MaxGPUs = 64 }, ""},
		{"bad level", func(c *Config) { c.LogLevel = "trace" }, "log_level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig()
			tt.mutate(cfg)

			err := cfg.Validate()

			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestWriteYAML_RoundTripsThroughLoad(t *testing.T) {
	// Given: a customized config written to disk
	isolate(t)
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")
	cfg := NewConfig()
	cfg.ProfileName = "Portal RTX"
	cfg.MaxGPUs = 2
	cfg.UI.Plain = true

	// When: writing and loading it back
	require.NoError(t, cfg.WriteYAML(path))
	loaded, err := Load(path)

	// Then: values survive and the setting ID is written as hex
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "setting_id: \"0x00DE429A\"")
}

func TestHexID_Formats(t *testing.T) {
	id := HexID(0x00DE429A)

	assert.Equal(t, "0x00DE429A", id.String())

	out, err := yaml.Marshal(struct {
		ID HexID `yaml:"id"`
	}{id})
	require.NoError(t, err)
	assert.Equal(t, "id: \"0x00DE429A\"\n", string(out))

	js, err := json.Marshal(map[string]HexID{"id": id})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"0x00DE429A"}`, string(js))
}

func TestParseHexID(t *testing.T) {
	tests := []struct {
		in      string
		want    HexID
		wantErr bool
	}{
		{"0x00DE429A", 0x00DE429A, false},
		{"0X00de429a", 0x00DE429A, false},
		{" 14566042 ", 0x00DE429A, false},
		{"0x1FFFFFFFF", 0, true},
		{"-1", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseHexID(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
