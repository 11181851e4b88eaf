package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const logTimeLayout = "20060102_150405"

// LogFilePath is <logsDir>/<appName>.<session start>.log.
func LogFilePath(logsDir, appName string, sessionStart time.Time) string {
	return filepath.Join(logsDir, fmt.Sprintf("%s.%s.log", appName, sessionStart.Format(logTimeLayout)))
}

// OpenLogFile creates logsDir if needed and opens the session log for
// appending.
func OpenLogFile(logsDir, appName string, sessionStart time.Time) (*os.File, error) {
	if err := os.MkdirAll(logsDir, 0o755); err != nil {
		return nil, fmt.Errorf("create logs dir: %w", err)
	}
	f, err := os.OpenFile(LogFilePath(logsDir, appName, sessionStart), os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return f, nil
}
