package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Aman-CERP/rtxswitch/internal/config"
	"github.com/Aman-CERP/rtxswitch/internal/nvapi"
	"github.com/Aman-CERP/rtxswitch/internal/nvapi/nvapitest"
)

var configEnv = []string{
	"RTXSWITCH_LIBRARY_PATH", "RTXSWITCH_PROFILE_NAME", "RTXSWITCH_SETTING_ID",
	"RTXSWITCH_GPU_MARKER", "RTXSWITCH_MAX_GPUS", "RTXSWITCH_LOG_LEVEL",
	"RTXSWITCH_NO_COLOR", "RTXSWITCH_PLAIN", "NO_COLOR",
}

// isolate points every user path at a temp dir and installs f as the
// driver. It returns the temp home.
func isolate(t *testing.T, f *nvapitest.Fake) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	for _, k := range configEnv {
		t.Setenv(k, "")
	}

	old := openDriver
	openDriver = func(_ string, opts ...nvapi.Option) (*nvapi.Driver, error) {
		return f.Driver(opts...), nil
	}
	t.Cleanup(func() { openDriver = old })
	return home
}

// run executes the CLI and reports errors the way Execute does.
func run(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	root := NewRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)

	err = root.Execute()
	if err != nil {
		reportError(&errOut, err)
	}
	return out.String(), errOut.String(), err
}

func writeUserConfig(t *testing.T, content string) string {
	t.Helper()
	path := config.GetUserConfigPath()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}
