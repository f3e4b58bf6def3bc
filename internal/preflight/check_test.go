package preflight

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aman-CERP/rtxswitch/internal/config"
	"github.com/Aman-CERP/rtxswitch/internal/lock"
	"github.com/Aman-CERP/rtxswitch/internal/nvapi"
	"github.com/Aman-CERP/rtxswitch/internal/nvapi/nvapitest"
)

func fakeOpener(f *nvapitest.Fake) Opener {
	return func(_ string, opts ...nvapi.Option) (*nvapi.Driver, error) {
		return f.Driver(opts...), nil
	}
}

func newTestChecker(t *testing.T, f *nvapitest.Fake, opts ...Option) *Checker {
	t.Helper()
	base := []Option{
		WithOpener(fakeOpener(f)),
		WithLockPath(filepath.Join(t.TempDir(), "rtxswitch.lock")),
		WithOutput(&bytes.Buffer{}),
	}
	return New(append(base, opts...)...)
}

func byName(results []CheckResult) map[string]CheckResult {
	m := make(map[string]CheckResult, len(results))
	for _, r := range results {
		m[r.Name] = r
	}
	return m
}

func TestCheckStatus_String(t *testing.T) {
	tests := []struct {
		status CheckStatus
		want   string
	}{
		{StatusPass, "PASS"},
		{StatusWarn, "WARN"},
		{StatusFail, "FAIL"},
		{StatusSkip, "SKIP"},
		{CheckStatus(42), "UNKNOWN"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.status.String())
		})
	}
}

func TestCheckResult_IsCritical(t *testing.T) {
	tests := []struct {
		name     string
		result   CheckResult
		expected bool
	}{
		{
			name:     "required pass is not critical",
			result:   CheckResult{Status: StatusPass, Required: true},
			expected: false,
		},
		{
			name:     "required fail is critical",
			result:   CheckResult{Status: StatusFail, Required: true},
			expected: true,
		},
		{
			name:     "optional fail is not critical",
			result:   CheckResult{Status: StatusFail, Required: false},
			expected: false,
		},
		{
			name:     "required skip is not critical",
			result:   CheckResult{Status: StatusSkip, Required: true},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.result.IsCritical())
		})
	}
}

func TestChecker_HealthyDriver(t *testing.T) {
	// Given: an RTX GPU and a Minecraft profile with DXR enabled
	f := nvapitest.New().WithSetting("Minecraft", nvapi.RTXDXREnabled, 1)
	checker := newTestChecker(t, f)

	// When: running all checks
	results := checker.RunAll(context.Background(), config.NewConfig())

	// Then: every driver check passes
	got := byName(results)
	require.Len(t, results, 8)
	for _, name := range []string{"config", "library", "functions", "initialize", "gpu", "profile", "lock"} {
		assert.Equal(t, StatusPass, got[name].Status, "%s: %s", name, got[name].Message)
	}
	assert.Equal(t, "NVIDIA GeForce RTX 4090", got["gpu"].Message)
	assert.Contains(t, got["profile"].Message, "= 1 (enabled)")
	assert.Contains(t, got["profile"].Message, "Minecraft driver profile found!")
	assert.Equal(t, 1, f.SessionsCreated())
	assert.Zero(t, f.OpenSessions())
	assert.Empty(t, f.Written(), "doctor must never write")
}

func TestChecker_NoQualifyingGPU(t *testing.T) {
	// Given: only a GTX card
	f := nvapitest.New()
	f.GPUs = []string{"NVIDIA GeForce GTX 1080"}
	checker := newTestChecker(t, f)

	// When: running all checks
	results := checker.RunAll(context.Background(), config.NewConfig())

	// Then: the gpu check fails critically and lists the card
	gpu := byName(results)["gpu"]
	assert.Equal(t, StatusFail, gpu.Status)
	assert.Contains(t, gpu.Details, "GTX 1080")
	assert.True(t, checker.HasCriticalFailures(results))
}

func TestChecker_ProfileMissing(t *testing.T) {
	// Given: the driver has no Minecraft profile
	f := nvapitest.New()
	delete(f.Profiles, "Minecraft")
	checker := newTestChecker(t, f)

	// When: running all checks
	results := checker.RunAll(context.Background(), config.NewConfig())

	// Then: the profile check reports the missing profile
	profile := byName(results)["profile"]
	assert.Equal(t, StatusFail, profile.Status)
	assert.Equal(t, "Minecraft driver profile doesn't exist!", profile.Message)
	assert.Zero(t, f.OpenSessions())
}

func TestChecker_SettingUnset(t *testing.T) {
	// Given: the profile exists without the DXR setting
	f := nvapitest.New()
	checker := newTestChecker(t, f)

	// When: running all checks
	results := checker.RunAll(context.Background(), config.NewConfig())

	// Then: the profile check only warns
	profile := byName(results)["profile"]
	assert.Equal(t, StatusWarn, profile.Status)
	assert.Contains(t, profile.Message, "not set")
	assert.False(t, checker.HasCriticalFailures(results))
}

func TestChecker_SettingReadFails(t *testing.T) {
	// Given: GetSetting rejects the record layout
	f := nvapitest.New()
	f.Fail[nvapi.IDDRSGetSetting] = nvapitest.StatusIncompatibleStructVer
	checker := newTestChecker(t, f)

	// When: running all checks
	results := checker.RunAll(context.Background(), config.NewConfig())

	// Then: the driver error fails the check instead of passing as unset
	profile := byName(results)["profile"]
	assert.Equal(t, StatusFail, profile.Status)
	assert.Equal(t, "reading setting 0x00DE429A failed", profile.Message)
	assert.Contains(t, profile.Details, "NVAPI_INCOMPATIBLE_STRUCT_VERSION")
	assert.True(t, checker.HasCriticalFailures(results))
	assert.Zero(t, f.OpenSessions())
}

func TestChecker_LibraryFailure(t *testing.T) {
	// Given: the library cannot be opened
	checker := New(
		WithOpener(func(path string, _ ...nvapi.Option) (*nvapi.Driver, error) {
			return nil, nvapi.ErrLibraryNotFound
		}),
		WithLockPath(filepath.Join(t.TempDir(), "rtxswitch.lock")),
		WithOutput(&bytes.Buffer{}),
	)

	// When: running all checks
	results := checker.RunAll(context.Background(), config.NewConfig())

	// Then: the library check fails and dependent checks are skipped
	got := byName(results)
	assert.Equal(t, StatusFail, got["library"].Status)
	assert.NotEmpty(t, got["library"].Details, "suggestion expected")
	for _, name := range []string{"functions", "initialize", "gpu", "profile"} {
		assert.Equal(t, StatusSkip, got[name].Status, name)
	}
	assert.Equal(t, StatusPass, got["lock"].Status)
}

func TestChecker_Functions(t *testing.T) {
	t.Run("missing optional function warns", func(t *testing.T) {
		// Given: GetErrorMessage is not exported
		f := nvapitest.New().WithSetting("Minecraft", nvapi.RTXDXREnabled, 0)
		f.Unavailable[nvapi.IDGetErrorMessage] = true
		checker := newTestChecker(t, f)

		// When: running all checks
		results := checker.RunAll(context.Background(), config.NewConfig())

		// Then: functions warns and initialization still passes
		got := byName(results)
		assert.Equal(t, StatusWarn, got["functions"].Status)
		assert.Contains(t, got["functions"].Message, nvapi.IDGetErrorMessage.String())
		assert.Equal(t, StatusPass, got["initialize"].Status)
	})

	t.Run("missing mandatory function fails", func(t *testing.T) {
		// Given: SaveSettings is not exported
		f := nvapitest.New()
		f.Unavailable[nvapi.IDDRSSaveSettings] = true
		checker := newTestChecker(t, f)

		// When: running all checks
		results := checker.RunAll(context.Background(), config.NewConfig())

		// Then: functions and initialize fail and later checks are skipped
		got := byName(results)
		assert.Equal(t, StatusFail, got["functions"].Status)
		assert.Contains(t, got["functions"].Message, nvapi.IDDRSSaveSettings.String())
		assert.Equal(t, StatusFail, got["initialize"].Status)
		assert.Equal(t, StatusSkip, got["gpu"].Status)
		assert.Equal(t, StatusSkip, got["profile"].Status)
	})
}

func TestChecker_InvalidConfig(t *testing.T) {
	// Given: a config without a profile name
	cfg := config.NewConfig()
	cfg.ProfileName = ""
	checker := newTestChecker(t, nvapitest.New())

	// When: running all checks
	results := checker.RunAll(context.Background(), cfg)

	// Then: the config check fails critically
	assert.Equal(t, StatusFail, byName(results)["config"].Status)
	assert.True(t, checker.HasCriticalFailures(results))
}

func TestChecker_LockHeld(t *testing.T) {
	// Given: another holder of the lock
	path := filepath.Join(t.TempDir(), "rtxswitch.lock")
	holder := lock.New(path)
	require.NoError(t, holder.TryLock())
	defer func() { _ = holder.Unlock() }()

	f := nvapitest.New().WithSetting("Minecraft", nvapi.RTXDXREnabled, 1)
	checker := newTestChecker(t, f, WithLockPath(path))

	// When: running all checks
	results := checker.RunAll(context.Background(), config.NewConfig())

	// Then: the lock check warns without failing the run
	assert.Equal(t, StatusWarn, byName(results)["lock"].Status)
	assert.False(t, checker.HasCriticalFailures(results))
}

func TestChecker_RunAll_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := newTestChecker(t, nvapitest.New()).RunAll(ctx, config.NewConfig())

	assert.Empty(t, results)
}

func TestChecker_HasCriticalFailures(t *testing.T) {
	checker := New()

	assert.False(t, checker.HasCriticalFailures([]CheckResult{
		{Name: "a", Status: StatusPass, Required: true},
		{Name: "b", Status: StatusWarn, Required: true},
		{Name: "c", Status: StatusFail, Required: false},
	}))
	assert.True(t, checker.HasCriticalFailures([]CheckResult{
		{Name: "a", Status: StatusPass, Required: true},
		{Name: "b", Status: StatusFail, Required: true},
	}))
}

func TestChecker_SummaryStatus(t *testing.T) {
	checker := New()

	assert.Equal(t, "ready", checker.SummaryStatus([]CheckResult{
		{Status: StatusPass, Required: true},
	}))
	assert.Equal(t, "ready_with_warnings", checker.SummaryStatus([]CheckResult{
		{Status: StatusPass, Required: true},
		{Status: StatusWarn, Required: false},
	}))
	assert.Equal(t, "failed", checker.SummaryStatus([]CheckResult{
		{Status: StatusFail, Required: true},
		{Status: StatusWarn, Required: false},
	}))
}

func TestChecker_PrintResults(t *testing.T) {
	var buf bytes.Buffer
	checker := New(WithOutput(&buf), WithVerbose(true))

	checker.PrintResults([]CheckResult{
		{Name: "gpu", Status: StatusPass, Message: "NVIDIA GeForce RTX 3080", Details: "#0: NVIDIA GeForce RTX 3080", Required: true},
		{Name: "profile", Status: StatusFail, Message: "Minecraft driver profile doesn't exist!", Required: true},
		{Name: "lock", Status: StatusWarn, Message: "another rtxswitch process is running"},
	})

	out := buf.String()
	assert.Contains(t, out, "[PASS] gpu: NVIDIA GeForce RTX 3080")
	assert.Contains(t, out, "       #0: NVIDIA GeForce RTX 3080")
	assert.Contains(t, out, "[FAIL] profile")
	assert.Contains(t, out, "Status: FAILED")
	assert.Contains(t, out, "1 error(s):")
	assert.Contains(t, out, "1 warning(s):")
}
