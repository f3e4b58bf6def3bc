package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"regexp"
	"syscall"

	"github.com/spf13/cobra"

	amerrors "github.com/Aman-CERP/rtxswitch/internal/errors"
	"github.com/Aman-CERP/rtxswitch/internal/logging"
)

type logsOptions struct {
	follow bool
	lines  int
	level  string
	filter string
	file   string
}

func newLogsCmd(a *app) *cobra.Command {
	var opts logsOptions

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "View rtxswitch debug logs",
		Long: `View the log written when rtxswitch runs with --debug (or the interactive
window), by default ~/.rtxswitch/logs/rtxswitch.log.

Shows the last 50 entries. Use -f to follow new entries like 'tail -f'.`,
		Example: `  rtxswitch logs
  rtxswitch logs -n 200 --level debug
  rtxswitch logs -f --filter nvapi`,
		Annotations: map[string]string{optionalConfig: "true"},
		Args:        cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runLogs(cmd, opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.follow, "follow", "f", false, "Follow log output (like tail -f)")
	cmd.Flags().IntVarP(&opts.lines, "lines", "n", 50, "Number of lines to show")
	cmd.Flags().StringVar(&opts.level, "level", "", "Minimum level (debug|info|warn|error)")
	cmd.Flags().StringVar(&opts.filter, "filter", "", "Filter by pattern (regex)")
	cmd.Flags().StringVar(&opts.file, "file", "", "Path to log file")

	return cmd
}

func (a *app) runLogs(cmd *cobra.Command, opts logsOptions) error {
	if opts.level != "" && !logging.ValidLevel(opts.level) {
		return amerrors.ValidationError(fmt.Sprintf("invalid level %q", opts.level), nil).
			WithSuggestion("Use debug, info, warn or error.")
	}

	path, err := logging.FindLogFile(opts.file)
	if err != nil {
		return amerrors.ValidationError(err.Error(), err).
			WithSuggestion("Run rtxswitch with --debug to create a log.")
	}

	var pattern *regexp.Regexp
	if opts.filter != "" {
		pattern, err = regexp.Compile(opts.filter)
		if err != nil {
			return amerrors.ValidationError("invalid filter pattern", err)
		}
	}

	viewer := logging.NewViewer(logging.ViewerConfig{
		Level:   opts.level,
		Pattern: pattern,
		NoColor: a.uiConfig(cmd).NoColor,
	}, cmd.OutOrStdout())

	errOut := cmd.ErrOrStderr()
	_, _ = fmt.Fprintf(errOut, "Log file: %s\n", path)

	if opts.follow {
		_, _ = fmt.Fprintln(errOut, "Following... (Ctrl+C to stop)")
		_, _ = fmt.Fprintln(errOut, "---")
		return runFollow(cmd, viewer, path)
	}
	_, _ = fmt.Fprintln(errOut, "---")

	entries, err := viewer.Tail(path, opts.lines)
	if err != nil {
		return amerrors.InternalError("failed to read log file", err)
	}
	viewer.Print(entries)
	return nil
}

func runFollow(cmd *cobra.Command, viewer *logging.Viewer, path string) error {
	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	entries := make(chan logging.LogEntry, 100)
	errCh := make(chan error, 1)

	go func() {
		errCh <- viewer.Follow(ctx, path, entries)
	}()

	out := cmd.OutOrStdout()
	for {
		select {
		case entry := <-entries:
			_, _ = fmt.Fprintln(out, viewer.FormatEntry(entry))
		case err := <-errCh:
			if err != nil {
				return amerrors.InternalError("failed to follow log file", err)
			}
			return nil
		case <-ctx.Done():
			_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "\n---")
			_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "Stopped.")
			return nil
		}
	}
}
