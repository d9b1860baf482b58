package bizgen

import (
	"strings"

	"github.com/akeil/bizgen/internal/logging"
)

// SetLogLevel sets the level for the package logger.
// Accepts "debug", "info", "warning", "error"; anything else turns logging off.
func SetLogLevel(level string) {
	var lvl logging.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = logging.LevelDebug
	case "info":
		lvl = logging.LevelInfo
	case "warning", "warn":
		lvl = logging.LevelWarning
	case "error":
		lvl = logging.LevelError
	default:
		lvl = logging.LevelNone
	}
	logging.SetLevel(lvl)
}
