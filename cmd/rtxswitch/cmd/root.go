// Package cmd provides the CLI commands for rtxswitch.
package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/rtxswitch/internal/config"
	amerrors "github.com/Aman-CERP/rtxswitch/internal/errors"
	"github.com/Aman-CERP/rtxswitch/internal/lock"
	"github.com/Aman-CERP/rtxswitch/internal/logging"
	"github.com/Aman-CERP/rtxswitch/internal/notify"
	"github.com/Aman-CERP/rtxswitch/internal/nvapi"
	"github.com/Aman-CERP/rtxswitch/internal/preflight"
	"github.com/Aman-CERP/rtxswitch/internal/switcher"
	"github.com/Aman-CERP/rtxswitch/internal/ui"
	"github.com/Aman-CERP/rtxswitch/pkg/version"
)

// openDriver loads the NVAPI library. Tests swap in a fake driver.
var openDriver preflight.Opener = nvapi.Open

// optionalConfig marks commands that still run when the config is broken.
const optionalConfig = "config-optional"

// app holds the state shared by all commands of one invocation.
type app struct {
	configPath  string
	libraryPath string
	lockPath    string
	debug       bool
	noColor     bool
	plain       bool

	cfg     *config.Config
	logger  *slog.Logger
	cleanup func()
}

// NewRootCmd creates the root command for the rtxswitch CLI.
func NewRootCmd() *cobra.Command {
	a := &app{
		lockPath: logging.DefaultLockPath(),
		logger:   logging.Discard(),
	}

	cmd := &cobra.Command{
		Use:   "rtxswitch",
		Short: "Toggle ray tracing for the Minecraft NVIDIA driver profile",
		Long: `rtxswitch turns the RTX_DXR_Enabled setting of the "Minecraft" NVIDIA
driver profile on or off by talking to the driver's NVAPI interface.

Run without arguments for an interactive window with Enable and Disable
buttons, or use 'rtxswitch enable' and 'rtxswitch disable' from scripts.

An RTX GPU and an installed NVIDIA driver are required.`,
		Version:       version.Version,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return cmd.Help()
			}
			return a.runInteractive(cmd)
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			a.teardown()
		},
	}

	cmd.SetVersionTemplate("rtxswitch version {{.Version}}\n")
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return amerrors.ValidationError(err.Error(), err)
	})

	cmd.PersistentFlags().BoolVar(&a.debug, "debug", false, "Enable debug logging to ~/.rtxswitch/logs/")
	cmd.PersistentFlags().StringVar(&a.configPath, "config", "", "Path to config file (default: user config)")
	cmd.PersistentFlags().StringVar(&a.libraryPath, "library", "", "Path to the NVAPI library (overrides config)")
	cmd.PersistentFlags().BoolVar(&a.noColor, "no-color", false, "Disable colored output")
	cmd.PersistentFlags().BoolVar(&a.plain, "plain", false, "Never start the interactive window")

	cmd.AddCommand(newChangeCmd(a, true))
	cmd.AddCommand(newChangeCmd(a, false))
	cmd.AddCommand(newStatusCmd(a))
	cmd.AddCommand(newGPUsCmd(a))
	cmd.AddCommand(newDoctorCmd(a))
	cmd.AddCommand(newConfigCmd(a))
	cmd.AddCommand(newLogsCmd(a))
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// Execute runs the root command and reports any error on stderr.
func Execute() error {
	root := NewRootCmd()
	err := root.Execute()
	if err != nil {
		reportError(root.ErrOrStderr(), err)
	}
	return err
}

// reportError prints err with its hint and code. Errors without a code come
// from argument parsing and are reported as invalid input.
func reportError(w io.Writer, err error) {
	if _, ok := amerrors.As(err); !ok {
		err = amerrors.ValidationError(err.Error(), err)
	}
	_, _ = fmt.Fprint(w, amerrors.FormatForCLI(err))
}

// setup loads the configuration and starts logging.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, loadErr := config.Load(a.configPath)
	if loadErr != nil {
		if !isConfigOptional(cmd) {
			return amerrors.ValidationError(loadErr.Error(), loadErr).
				WithSuggestion("Fix the file or recreate it with 'rtxswitch config init --force'.")
		}
		cfg = config.NewConfig()
	}
	if a.libraryPath != "" {
		cfg.LibraryPath = a.libraryPath
	}
	if a.noColor {
		cfg.UI.NoColor = true
	}
	if a.plain {
		cfg.UI.Plain = true
	}
	a.cfg = cfg

	level := cfg.LogLevel
	if a.debug {
		level = "debug"
	}

	if cmd.Parent() == nil && a.uiConfig(cmd).Interactive() {
		cleanup, err := logging.SetupTUIMode(level)
		if err != nil {
			return amerrors.InternalError("failed to set up logging", err)
		}
		a.cleanup = cleanup
		a.logger = slog.Default()
		a.warnDefaults(loadErr)
		return nil
	}

	lcfg := logging.DefaultConfig()
	if a.debug {
		lcfg = logging.DebugConfig()
	}
	lcfg.Level = level
	logger, cleanup, err := logging.Setup(lcfg)
	if err != nil {
		return amerrors.InternalError("failed to set up logging", err)
	}
	slog.SetDefault(logger)
	a.logger = logger
	a.cleanup = cleanup
	if a.debug {
		logger.Debug("debug logging enabled",
			slog.String("log_file", lcfg.FilePath),
			slog.String("version", version.Version))
	}
	a.warnDefaults(loadErr)
	return nil
}

// warnDefaults logs that a broken config file was replaced by defaults.
func (a *app) warnDefaults(loadErr error) {
	if loadErr != nil {
		a.logger.Warn("using default configuration", slog.String("error", loadErr.Error()))
	}
}

func (a *app) teardown() {
	if a.cleanup != nil {
		a.cleanup()
		a.cleanup = nil
	}
}

func isConfigOptional(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations[optionalConfig] == "true" {
			return true
		}
	}
	return false
}

// uiConfig derives presentation settings from flags and config.
func (a *app) uiConfig(cmd *cobra.Command) ui.Config {
	noColor, plain := a.noColor, a.plain
	if a.cfg != nil {
		noColor = noColor || a.cfg.UI.NoColor
		plain = plain || a.cfg.UI.Plain
	}
	return ui.NewConfig(cmd.OutOrStdout(),
		ui.WithNoColor(noColor),
		ui.WithForcePlain(plain),
		ui.WithErrOutput(cmd.ErrOrStderr()))
}

// openSwitcher loads the driver and builds a switcher for the configured
// profile and setting.
func (a *app) openSwitcher(stream *notify.Stream) (*switcher.Switcher, *nvapi.Driver, error) {
	d, err := openDriver(a.cfg.LibraryPath, nvapi.WithLogger(a.logger))
	if err != nil {
		return nil, nil, switcher.DriverError(err)
	}
	sw := switcher.New(d, stream,
		switcher.WithLogger(a.logger),
		switcher.WithProfile(a.cfg.ProfileName),
		switcher.WithSetting(nvapi.SettingID(a.cfg.SettingID)),
		switcher.WithGPUMarker(a.cfg.GPUMarker),
		switcher.WithMaxGPUs(a.cfg.MaxGPUs))
	return sw, d, nil
}

// runInteractive shows the two-button window. The driver is loaded on the
// first button press so a missing driver is reported in the window.
func (a *app) runInteractive(cmd *cobra.Command) error {
	uiCfg := a.uiConfig(cmd)
	if !uiCfg.Interactive() {
		return amerrors.ValidationError("interactive mode needs a terminal", nil).
			WithSuggestion("Use 'rtxswitch enable' or 'rtxswitch disable'.")
	}

	stream := notify.New()
	open := sync.OnceValues(func() (*switcher.Switcher, error) {
		sw, _, err := a.openSwitcher(stream)
		return sw, err
	})
	l := lock.New(a.lockPath)

	apply := func(enable bool) (switcher.Result, error) {
		sw, err := open()
		if err != nil {
			return switcher.Result{}, err
		}
		if err := acquire(cmd.Context(), l, 0); err != nil {
			return switcher.Result{}, err
		}
		defer func() { _ = l.Unlock() }()
		return sw.Apply(enable)
	}

	title := fmt.Sprintf("rtxswitch • %s profile", a.cfg.ProfileName)
	if err := ui.Run(cmd.Context(), uiCfg, apply, stream, title); err != nil {
		return amerrors.InternalError("interactive window failed", err)
	}
	return nil
}
