package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarning
	LevelError
	LevelNone
)

var (
	level  = zap.NewAtomicLevel()
	logger *zap.SugaredLogger
)

func init() {
	enc := zap.NewDevelopmentEncoderConfig()
	enc.EncodeTime = zapcore.ISO8601TimeEncoder
	enc.EncodeLevel = zapcore.CapitalLevelEncoder
	enc.CallerKey = ""

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(enc),
		zapcore.Lock(os.Stderr),
		level,
	)
	logger = zap.New(core).Sugar()

	SetLevel(LevelWarning)
}

func SetLevel(l Level) {
	switch l {
	case LevelDebug:
		level.SetLevel(zapcore.DebugLevel)
	case LevelInfo:
		level.SetLevel(zapcore.InfoLevel)
	case LevelWarning:
		level.SetLevel(zapcore.WarnLevel)
	case LevelError:
		level.SetLevel(zapcore.ErrorLevel)
	case LevelNone:
		// nothing we log goes above error
		level.SetLevel(zapcore.FatalLevel)
	}
}

// Enabled tells if messages at the given level are written.
func Enabled(l Level) bool {
	switch l {
	case LevelDebug:
		return level.Enabled(zapcore.DebugLevel)
	case LevelInfo:
		return level.Enabled(zapcore.InfoLevel)
	case LevelWarning:
		return level.Enabled(zapcore.WarnLevel)
	case LevelError:
		return level.Enabled(zapcore.ErrorLevel)
	}
	return false
}

func Debug(msg string, v ...interface{}) {
	logger.Debugf(msg, v...)
}

func Info(msg string, v ...interface{}) {
	logger.Infof(msg, v...)
}

func Warning(msg string, v ...interface{}) {
	logger.Warnf(msg, v...)
}

func Error(msg string, v ...interface{}) {
	logger.Errorf(msg, v...)
}

// Sync flushes buffered log entries.
func Sync() {
	_ = logger.Sync()
}
