package logging

import (
	"fmt"
	"os"
	"path/filepath"
)

const appDir = ".rtxswitch"

// DefaultDataDir returns ~/.rtxswitch, falling back to the temp directory
// when the home directory is unavailable.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), appDir)
	}
	return filepath.Join(home, appDir)
}

// DefaultLogDir returns the default log directory (~/.rtxswitch/logs/).
func DefaultLogDir() string {
	return filepath.Join(DefaultDataDir(), "logs")
}

// DefaultLogPath returns the default log file path.
func DefaultLogPath() string {
	return filepath.Join(DefaultLogDir(), "rtxswitch.log")
}

// DefaultLockPath returns the lock file that serializes driver-profile writes
// across processes.
func DefaultLockPath() string {
	return filepath.Join(DefaultDataDir(), "rtxswitch.lock")
}

// FindLogFile returns explicit when it exists, otherwise the default log
// path when it exists.
func FindLogFile(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err == nil {
			return explicit, nil
		}
		return "", fmt.Errorf("log file not found: %s", explicit)
	}

	path := DefaultLogPath()
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}

	return "", fmt.Errorf("no log file found. Run with --debug first.\nExpected at: %s", path)
}

// EnsureLogDir creates the log directory if it doesn't exist.
func EnsureLogDir() error {
	return os.MkdirAll(DefaultLogDir(), 0o755)
}
