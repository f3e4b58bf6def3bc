package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/rtxswitch/internal/nvapi"
	"github.com/Aman-CERP/rtxswitch/internal/ui"
)

func newStatusCmd(a *app) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the current value of the setting",
		Long: `Read the setting from the driver profile without changing anything,
and list the GPUs the driver reports.

A profile that has never had the setting written reports the state "unset".`,
		Example: `  rtxswitch status
  rtxswitch status --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runStatus(cmd, jsonOutput)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}

func (a *app) runStatus(cmd *cobra.Command, jsonOutput bool) error {
	sw, d, err := a.openSwitcher(nil)
	if err != nil {
		return err
	}

	info := ui.StatusInfo{
		Library:   d.Source(),
		Profile:   sw.Profile(),
		SettingID: a.cfg.SettingID.String(),
	}

	value, err := sw.Query()
	switch {
	case err == nil:
		info.Value = value
		info.State = ui.StateOf(value)
	case nvapi.IsSettingNotFound(err):
		info.State = "unset"
		a.logger.Debug("setting not present in profile", slog.String("error", err.Error()))
	default:
		return err
	}

	gpus, err := sw.ListGPUs()
	if err != nil {
		a.logger.Warn("gpu enumeration failed", slog.String("error", err.Error()))
	}
	info.GPUs = ui.GPUInfos(gpus)

	r := ui.NewStatusRenderer(cmd.OutOrStdout(), a.uiConfig(cmd).NoColor)
	if jsonOutput {
		return r.RenderJSON(info)
	}
	return r.Render(info)
}

func newGPUsCmd(a *app) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "gpus",
		Short: "List the GPUs reported by the driver",
		Long: `List every physical GPU the driver reports, marking the ones whose name
contains the configured marker (default "RTX").`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sw, _, err := a.openSwitcher(nil)
			if err != nil {
				return err
			}
			gpus, err := sw.ListGPUs()
			if err != nil {
				return err
			}

			r := ui.NewStatusRenderer(cmd.OutOrStdout(), a.uiConfig(cmd).NoColor)
			if jsonOutput {
				return r.RenderJSON(ui.GPUInfos(gpus))
			}
			return r.RenderGPUs(ui.GPUInfos(gpus))
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}
