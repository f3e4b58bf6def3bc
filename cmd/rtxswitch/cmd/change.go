package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	amerrors "github.com/Aman-CERP/rtxswitch/internal/errors"
	"github.com/Aman-CERP/rtxswitch/internal/lock"
	"github.com/Aman-CERP/rtxswitch/internal/notify"
	"github.com/Aman-CERP/rtxswitch/internal/ui"
)

// changeReport is the --json output of enable and disable.
type changeReport struct {
	Profile  string   `json:"profile"`
	Setting  string   `json:"setting_id"`
	Outcome  string   `json:"outcome"`
	Previous uint32   `json:"previous"`
	Value    uint32   `json:"value"`
	Lines    []string `json:"lines"`
}

func newChangeCmd(a *app, enable bool) *cobra.Command {
	var (
		jsonOutput bool
		wait       time.Duration
	)

	use, short, example := "disable", "Turn ray tracing off for the profile", "  rtxswitch disable"
	if enable {
		use, short, example = "enable", "Turn ray tracing on for the profile", "  rtxswitch enable\n\n  # Queue behind another running change\n  rtxswitch enable --wait 10s"
	}

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Long: short + `.

The driver is initialized, an RTX GPU is required, and the setting is
written only when its current value differs. Progress lines are printed as
they happen.

Only one change runs at a time across processes; a second invocation fails
with ERR_502_BUSY unless --wait is given.`,
		Example: example,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runChange(cmd, enable, jsonOutput, wait)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the result as JSON")
	cmd.Flags().DurationVar(&wait, "wait", 0, "Wait up to this long for another change to finish")

	return cmd
}

func (a *app) runChange(cmd *cobra.Command, enable, jsonOutput bool, wait time.Duration) error {
	l := lock.New(a.lockPath)
	if err := acquire(cmd.Context(), l, wait); err != nil {
		return err
	}
	defer func() { _ = l.Unlock() }()

	stream := notify.New()
	sw, _, err := a.openSwitcher(stream)
	if err != nil {
		return err
	}

	var rec notify.Recorder
	if jsonOutput {
		defer stream.Subscribe(rec.Listen)()
	} else {
		defer ui.NewPlainRenderer(a.uiConfig(cmd)).Attach(stream)()
	}

	res, err := sw.Apply(enable)
	if err != nil {
		a.logger.Debug("change failed", slog.Any("error", amerrors.FormatForLog(err)))
		if jsonOutput {
			if data, jerr := amerrors.FormatJSON(err); jerr == nil {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), string(data))
			}
		}
		return err
	}

	if !jsonOutput {
		return nil
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(changeReport{
		Profile:  sw.Profile(),
		Setting:  a.cfg.SettingID.String(),
		Outcome:  res.Outcome.String(),
		Previous: res.Previous,
		Value:    res.Value,
		Lines:    rec.Lines(),
	})
}

// acquire takes the cross-process change lock, waiting up to wait.
func acquire(ctx context.Context, l *lock.FileLock, wait time.Duration) error {
	var err error
	if wait > 0 {
		ctx, cancel := context.WithTimeout(ctx, wait)
		defer cancel()
		err = l.LockContext(ctx)
	} else {
		err = l.TryLock()
	}

	switch {
	case err == nil:
		return nil
	case errors.Is(err, lock.ErrHeld):
		return amerrors.New(amerrors.ErrCodeBusy, "another rtxswitch change is in progress", err).
			WithDetail("lock", l.Path()).
			WithSuggestion("Wait for it to finish, or pass --wait to queue behind it.")
	default:
		return amerrors.InternalError("failed to acquire the change lock", err).
			WithDetail("lock", l.Path())
	}
}
