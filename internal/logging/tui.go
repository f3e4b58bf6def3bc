package logging

import (
	"log/slog"
)

// SetupTUIMode initializes logging while the interactive screen is active.
// The screen owns the terminal, so records go to the log file only; a write
// to stderr would tear the rendered frame.
func SetupTUIMode(level string) (func(), error) {
	cfg := DefaultConfig()
	cfg.Level = level
	cfg.FilePath = DefaultLogPath()
	cfg.WriteToStderr = false

	logger, cleanup, err := Setup(cfg)
	if err != nil {
		return nil, err
	}

	slog.SetDefault(logger)
	slog.Debug("tui logging initialized",
		slog.String("log_file", cfg.FilePath),
		slog.String("level", cfg.Level))

	return cleanup, nil
}
