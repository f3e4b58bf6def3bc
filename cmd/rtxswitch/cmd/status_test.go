package cmd

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	amerrors "github.com/Aman-CERP/rtxswitch/internal/errors"
	"github.com/Aman-CERP/rtxswitch/internal/nvapi"
	"github.com/Aman-CERP/rtxswitch/internal/nvapi/nvapitest"
	"github.com/Aman-CERP/rtxswitch/internal/ui"
)

func TestStatusCmd_ShowsValue(t *testing.T) {
	// Given: DXR enabled
	f := nvapitest.New().WithSetting("Minecraft", nvapi.RTXDXREnabled, 1)
	isolate(t, f)

	// When: running status
	stdout, _, err := run(t, "status", "--no-color")

	// Then: the value and GPUs are shown and nothing is written
	require.NoError(t, err)
	assert.Contains(t, stdout, "Driver profile: Minecraft")
	assert.Contains(t, stdout, "Value:   1 (enabled)")
	assert.Contains(t, stdout, "NVIDIA GeForce RTX 4090 (RTX)")
	assert.Empty(t, f.Written())
	assert.Zero(t, f.OpenSessions())
}

func TestStatusCmd_UnsetSetting(t *testing.T) {
	// Given: the profile has never had the setting
	isolate(t, nvapitest.New())

	// When: running status --json
	stdout, _, err := run(t, "status", "--json")

	// Then: the state is unset
	require.NoError(t, err)
	var info ui.StatusInfo
	require.NoError(t, json.Unmarshal([]byte(stdout), &info))
	assert.Equal(t, "unset", info.State)
	assert.Equal(t, "0x00DE429A", info.SettingID)
	require.Len(t, info.GPUs, 1)
	assert.True(t, info.GPUs[0].Qualifies)
}

func TestStatusCmd_ProfileMissing(t *testing.T) {
	// Given: no Minecraft profile
	f := nvapitest.New()
	delete(f.Profiles, "Minecraft")
	isolate(t, f)

	// When: running status
	_, _, err := run(t, "status")

	// Then: the guided error is returned
	require.Error(t, err)
	assert.Equal(t, amerrors.ErrCodeProfileNotFound, amerrors.GetCode(err))
}

func TestStatusCmd_SettingReadFails(t *testing.T) {
	// Given: GetSetting fails with a driver error other than setting-not-found
	f := nvapitest.New()
	f.Fail[nvapi.IDDRSGetSetting] = nvapitest.StatusIncompatibleStructVer
	isolate(t, f)

	// When: running status
	stdout, stderr, err := run(t, "status", "--json")

	// Then: the error is returned instead of an "unset" state
	require.Error(t, err)
	assert.Equal(t, amerrors.ErrCodeDriverCall, amerrors.GetCode(err))
	assert.NotContains(t, stdout, "unset")
	assert.Contains(t, stderr, "NVAPI_INCOMPATIBLE_STRUCT_VERSION")
	assert.Zero(t, f.OpenSessions())
}

func TestStatusCmd_CustomProfileFromEnv(t *testing.T) {
	// Given: the profile is overridden through the environment
	f := nvapitest.New().WithSetting("Quake II RTX", nvapi.RTXDXREnabled, 0)
	isolate(t, f)
	t.Setenv("RTXSWITCH_PROFILE_NAME", "Quake II RTX")

	// When: running status
	stdout, _, err := run(t, "status", "--no-color")

	// Then: the configured profile is read
	require.NoError(t, err)
	assert.Contains(t, stdout, "Driver profile: Quake II RTX")
	assert.Contains(t, stdout, "Value:   0 (disabled)")
}

func TestGPUsCmd(t *testing.T) {
	// Given: two GPUs
	f := nvapitest.New()
	f.GPUs = []string{"NVIDIA GeForce GTX 1080", "NVIDIA GeForce RTX 3060"}
	isolate(t, f)

	t.Run("text", func(t *testing.T) {
		stdout, _, err := run(t, "gpus", "--no-color")

		require.NoError(t, err)
		assert.Contains(t, stdout, "#0  NVIDIA GeForce GTX 1080")
		assert.Contains(t, stdout, "#1  NVIDIA GeForce RTX 3060 (RTX)")
	})

	t.Run("json", func(t *testing.T) {
		stdout, _, err := run(t, "gpus", "--json")

		require.NoError(t, err)
		var gpus []ui.GPUInfo
		require.NoError(t, json.Unmarshal([]byte(stdout), &gpus))
		require.Len(t, gpus, 2)
		assert.False(t, gpus[0].Qualifies)
		assert.True(t, gpus[1].Qualifies)
	})
}

func TestGPUsCmd_EnumerationFails(t *testing.T) {
	f := nvapitest.New()
	f.Fail[nvapi.IDEnumPhysicalGPUs] = nvapitest.StatusNvidiaDeviceNotFound
	isolate(t, f)

	_, _, err := run(t, "gpus")

	require.Error(t, err)
	assert.Equal(t, amerrors.ErrCodeDriverCall, amerrors.GetCode(err))
}
