package cmd

import (
	"encoding/json"

	"github.com/spf13/cobra"

	amerrors "github.com/Aman-CERP/rtxswitch/internal/errors"
	"github.com/Aman-CERP/rtxswitch/internal/preflight"
)

func newDoctorCmd(a *app) *cobra.Command {
	var (
		verbose    bool
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Diagnose why the setting cannot be changed",
		Long: `Run driver diagnostics without writing anything.

Checks:
  - Configuration validity
  - Platform support
  - NVAPI library and its nvapi_QueryInterface export
  - Availability of every driver function used (mandatory and optional)
  - Driver initialization
  - An RTX GPU
  - The driver profile and the current setting value
  - Whether another rtxswitch change is running

A check whose prerequisite failed is reported as SKIP.`,
		Example: `  # Run diagnostics
  rtxswitch doctor

  # Verbose output with details
  rtxswitch doctor --verbose

  # JSON output for scripting
  rtxswitch doctor --json`,
		Annotations: map[string]string{optionalConfig: "true"},
		Args:        cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runDoctor(cmd, verbose, jsonOutput)
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Show detailed diagnostic info")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}

func (a *app) runDoctor(cmd *cobra.Command, verbose, jsonOutput bool) error {
	checker := preflight.New(
		preflight.WithOpener(openDriver),
		preflight.WithLockPath(a.lockPath),
		preflight.WithVerbose(verbose),
		preflight.WithOutput(cmd.OutOrStdout()),
		preflight.WithLogger(a.logger),
	)

	results := checker.RunAll(cmd.Context(), a.cfg)

	if jsonOutput {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(struct {
			Status string                  `json:"status"`
			Checks []preflight.CheckResult `json:"checks"`
		}{
			Status: checker.SummaryStatus(results),
			Checks: results,
		}); err != nil {
			return err
		}
	} else {
		checker.PrintResults(results)
	}

	if checker.HasCriticalFailures(results) {
		return amerrors.New(amerrors.ErrCodeCheckFailed, "driver check failed", nil).
			WithSuggestion("Fix the failed checks above and run 'rtxswitch doctor' again.")
	}
	return nil
}
